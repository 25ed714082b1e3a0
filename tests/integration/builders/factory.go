package builders

type Factory struct {
	Account    *AccountFactory
	Activation *ActivationFactory
	JWT        *JWTFactory
}

func NewFactory() *Factory {
	return &Factory{
		Account:    &AccountFactory{},
		Activation: &ActivationFactory{},
		JWT:        &JWTFactory{},
	}
}
