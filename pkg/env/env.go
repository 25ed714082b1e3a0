// Package env tracks the deployment mode of the process. The mode is
// set once at startup and consulted wherever behavior differs between
// environments, such as DNS checks in the registration form.
package env

type Mode string

const (
	Test  Mode = "test"
	Local Mode = "local"
	Dev   Mode = "dev"
	Prod  Mode = "prod"
)

var currentMode = Local

// SetMode panics on an unknown mode.
func SetMode(mode Mode) {
	if !mode.Valid() {
		panic("invalid mode: " + string(mode))
	}
	currentMode = mode
}

func Current() Mode {
	return currentMode
}

func (m Mode) Valid() bool {
	switch m {
	case Test, Local, Dev, Prod:
		return true
	}

	return false
}
