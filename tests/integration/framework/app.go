package framework

import (
	"context"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gitlab.com/signupd/signup-backend/internal/adapters/repos/postgres"
	authapp "gitlab.com/signupd/signup-backend/internal/application/auth"
	"gitlab.com/signupd/signup-backend/internal/application/mail"
	registrationapp "gitlab.com/signupd/signup-backend/internal/application/registration"
	"gitlab.com/signupd/signup-backend/internal/domain/regform"
	httpport "gitlab.com/signupd/signup-backend/internal/ports/http"
	watermillport "gitlab.com/signupd/signup-backend/internal/ports/watermill"
	"gitlab.com/signupd/signup-backend/pkg/env"
	"gitlab.com/signupd/signup-backend/tests/integration/fixtures"
	"gitlab.com/signupd/signup-backend/tests/mocks"
)

const DefaultActivationWindow = 3 * 24 * time.Hour

type App struct {
	HTTPHandler    http.Handler
	MockMailSender *mocks.MockMailSender
	AccountRepo    *postgres.AccountRepo
	Registration   *registrationapp.App
	Auth           *authapp.App
	Mail           *mail.App

	eventRouter *message.Router
}

// AppArgs tweaks the application under test. Zero value gives the default
// wiring: registration open, login on registration, a three day window.
type AppArgs struct {
	RegistrationOpen     *bool
	LoginOnRegistration  *bool
	ActivationWindow     time.Duration
	BannedEmailDomains   []string
	RequireTermsAccepted bool
}

func NewApp(ctx context.Context, pool *pgxpool.Pool, args AppArgs) (*App, error) {
	registrationOpen := true
	if args.RegistrationOpen != nil {
		registrationOpen = *args.RegistrationOpen
	}
	loginOnRegistration := true
	if args.LoginOnRegistration != nil {
		loginOnRegistration = *args.LoginOnRegistration
	}
	activationWindow := args.ActivationWindow
	if activationWindow == 0 {
		activationWindow = DefaultActivationWindow
	}

	accountRepo := postgres.NewAccountRepo(pool)
	mockMailSender := mocks.NewMockMailSender()

	mailApp, err := mail.NewApp(mail.Args{
		Mailsender:        mockMailSender,
		ActivationBaseURL: "http://localhost:5173/activate",
		SiteName:          "signupd",
		ActivationWindow:  activationWindow,
	})
	if err != nil {
		return nil, err
	}

	formConfig := regform.DefaultConfig(env.Test)
	formConfig.BannedEmailDomains = args.BannedEmailDomains
	formConfig.RequireTermsAccepted = args.RequireTermsAccepted

	regApp := registrationapp.NewApp(registrationapp.Args{
		FormConfig:             formConfig,
		EmailChecker:           accountRepo,
		Repo:                   accountRepo,
		RegistrationOpen:       registrationOpen,
		ActivationWindow:       activationWindow,
		PostRegistrationTarget: "registration_complete",
		PostActivationTarget:   "activation_complete",
	})

	authApp := authapp.NewApp(authapp.Args{
		AccountGetter:         accountRepo,
		LoginOnRegistration:   loginOnRegistration,
		AccessTokenSecretKey:  fixtures.AccessTokenSecretKey,
		RefreshTokenSecretKey: fixtures.RefreshTokenSecretKey,
	})

	mux := chi.NewRouter()
	port := httpport.NewPort(httpport.Args{
		RegistrationApp:     regApp,
		AuthApp:             authApp,
		AccountGetter:       accountRepo,
		AccessTokenSecret:   []byte(fixtures.AccessTokenSecretKey),
		LoginOnRegistration: loginOnRegistration,
		CookieDomain:        "localhost",
	})
	port.Route(mux)

	wmlogger := watermill.NewStdLogger(false, false)
	eventRouter, err := message.NewRouter(message.RouterConfig{}, wmlogger)
	if err != nil {
		return nil, err
	}

	wmport, err := watermillport.NewPortForTest(eventRouter, pool, wmlogger)
	if err != nil {
		return nil, err
	}
	if err := wmport.Run(ctx, watermillport.AppEventHandlers{
		Mail: mailApp,
	}); err != nil {
		return nil, err
	}

	go func() {
		_ = eventRouter.Run(ctx)
	}()
	<-eventRouter.Running()

	return &App{
		HTTPHandler:    mux,
		MockMailSender: mockMailSender,
		AccountRepo:    accountRepo,
		Registration:   regApp,
		Auth:           authApp,
		Mail:           mailApp,
		eventRouter:    eventRouter,
	}, nil
}

func (a *App) Close() error {
	if a.eventRouter != nil {
		return a.eventRouter.Close()
	}
	return nil
}
