package registration

import (
	"time"

	"gitlab.com/signupd/signup-backend/internal/application/registration/cmd"
	"gitlab.com/signupd/signup-backend/internal/domain/regform"
)

type App struct {
	CMD Command

	registrationOpen       bool
	postRegistrationTarget string
	postActivationTarget   string
}

type Command struct {
	Register *cmd.RegisterHandler
	Activate *cmd.ActivateHandler
}

type Args struct {
	FormConfig             regform.Config
	EmailChecker           regform.EmailChecker
	Repo                   cmd.Repo
	RegistrationOpen       bool
	ActivationWindow       time.Duration
	PostRegistrationTarget string
	PostActivationTarget   string
}

func NewApp(args Args) *App {
	form := regform.New(args.FormConfig, args.EmailChecker)

	return &App{
		CMD: Command{
			Register: cmd.NewRegisterHandler(cmd.RegisterHandlerArgs{
				RegistrationOpen:       args.RegistrationOpen,
				Form:                   form,
				Repo:                   args.Repo,
				PostRegistrationTarget: args.PostRegistrationTarget,
			}),
			Activate: cmd.NewActivateHandler(cmd.ActivateHandlerArgs{
				ActivationWindow:     args.ActivationWindow,
				Repo:                 args.Repo,
				PostActivationTarget: args.PostActivationTarget,
			}),
		},
		registrationOpen:       args.RegistrationOpen,
		postRegistrationTarget: args.PostRegistrationTarget,
		postActivationTarget:   args.PostActivationTarget,
	}
}

// RegistrationAllowed reports the value of the registration toggle. The HTTP
// port exposes it so clients can hide the signup form when it is off.
func (a *App) RegistrationAllowed() bool {
	if a == nil {
		return false
	}
	return a.registrationOpen
}

func (a *App) PostRegistrationTarget() string {
	if a == nil {
		return ""
	}
	return a.postRegistrationTarget
}

func (a *App) PostActivationTarget() string {
	if a == nil {
		return ""
	}
	return a.postActivationTarget
}
