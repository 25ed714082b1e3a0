package builders

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"gitlab.com/signupd/signup-backend/internal/domain/account"
	"gitlab.com/signupd/signup-backend/pkg/env"
	"gitlab.com/signupd/signup-backend/tests/integration/fixtures"
)

const TestPasswordCost = 4

type AccountFactory struct{}

func (f *AccountFactory) Inactive(email string) *account.Account {
	return NewAccountBuilder().WithEmail(email).Build()
}

func (f *AccountFactory) Active(email string) *account.Account {
	return NewAccountBuilder().WithEmail(email).Activated().Build()
}

type AccountBuilder struct {
	id            account.ID
	email         string
	firstName     string
	lastName      string
	password      string
	passHash      []byte
	active        bool
	activationKey string
	createdAt     time.Time
	updatedAt     time.Time
}

func NewAccountBuilder() *AccountBuilder {
	now := time.Now()

	return &AccountBuilder{
		id:            account.NewID(),
		email:         fixtures.TestAccount.Email,
		firstName:     fixtures.TestAccount.FirstName,
		lastName:      fixtures.TestAccount.LastName,
		password:      fixtures.TestAccount.Password,
		passHash:      hashPassword(fixtures.TestAccount.Password),
		active:        false,
		activationKey: fixtures.ValidActivationKey,
		createdAt:     now,
		updatedAt:     now,
	}
}

func hashPassword(password string) []byte {
	cost := account.PasswordCostFactor
	if env.Current() == env.Test {
		cost = TestPasswordCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		panic("failed to generate password hash: " + err.Error())
	}
	return hash
}

func (b *AccountBuilder) WithID(id account.ID) *AccountBuilder {
	b.id = id
	return b
}

func (b *AccountBuilder) WithEmail(email string) *AccountBuilder {
	b.email = email
	return b
}

func (b *AccountBuilder) WithName(firstName, lastName string) *AccountBuilder {
	b.firstName = firstName
	b.lastName = lastName
	return b
}

func (b *AccountBuilder) WithFirstName(firstName string) *AccountBuilder {
	b.firstName = firstName
	return b
}

func (b *AccountBuilder) WithLastName(lastName string) *AccountBuilder {
	b.lastName = lastName
	return b
}

func (b *AccountBuilder) WithPassword(password string) *AccountBuilder {
	b.password = password
	b.passHash = hashPassword(password)
	return b
}

func (b *AccountBuilder) WithPassHash(passHash []byte) *AccountBuilder {
	b.passHash = passHash
	return b
}

func (b *AccountBuilder) Activated() *AccountBuilder {
	b.active = true
	return b
}

func (b *AccountBuilder) WithActivationKey(key string) *AccountBuilder {
	b.activationKey = key
	return b
}

func (b *AccountBuilder) WithCreatedAt(t time.Time) *AccountBuilder {
	b.createdAt = t
	return b
}

func (b *AccountBuilder) WithInvalidLongFirstName() *AccountBuilder {
	b.firstName = fixtures.InvalidLongFirstName
	return b
}

func (b *AccountBuilder) WithInvalidLongLastName() *AccountBuilder {
	b.lastName = fixtures.InvalidLongLastName
	return b
}

func (b *AccountBuilder) Build() *account.Account {
	return account.Rehydrate(account.RehydrateArgs{
		ID:        b.id,
		Email:     b.email,
		FirstName: b.firstName,
		LastName:  b.lastName,
		PassHash:  b.passHash,
		Active:    b.active,
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
	})
}

func (b *AccountBuilder) BuildNew() (*account.Account, error) {
	return account.NewAccount(b.BuildNewArgs())
}

func (b *AccountBuilder) BuildNewArgs() account.NewAccountArgs {
	return account.NewAccountArgs{
		ID:            b.id,
		Email:         b.email,
		FirstName:     b.firstName,
		LastName:      b.lastName,
		PassHash:      b.passHash,
		ActivationKey: b.activationKey,
	}
}
