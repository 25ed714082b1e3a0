package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authapp "gitlab.com/signupd/signup-backend/internal/application/auth"
	registrationapp "gitlab.com/signupd/signup-backend/internal/application/registration"
	accountshttp "gitlab.com/signupd/signup-backend/internal/ports/http/accounts"
	authhttp "gitlab.com/signupd/signup-backend/internal/ports/http/auth"
	"gitlab.com/signupd/signup-backend/internal/ports/http/middlewares"
	registrationhttp "gitlab.com/signupd/signup-backend/internal/ports/http/registration"
	"gitlab.com/signupd/signup-backend/pkg/httpx"
)

type Port struct {
	reg      *registrationhttp.HTTP
	auth     *authhttp.HTTP
	accounts *accountshttp.HTTP
}

type Args struct {
	RegistrationApp *registrationapp.App
	AuthApp         *authapp.App
	AccountGetter   accountshttp.AccountGetter

	AccessTokenSecret   []byte
	LoginOnRegistration bool
	CookieDomain        string
}

func NewPort(args Args) *Port {
	// One handler instance so the locale bundle is parsed once.
	errhandler := httpx.NewErrorHandler()

	middleware := middlewares.NewMiddleware(middlewares.Args{
		Secret:     args.AccessTokenSecret,
		Errhandler: errhandler,
	})

	return &Port{
		reg: registrationhttp.NewHTTP(registrationhttp.Args{
			App:                 args.RegistrationApp,
			Errhandler:          errhandler,
			AuthApp:             args.AuthApp,
			LoginOnRegistration: args.LoginOnRegistration,
			CookieDomain:        args.CookieDomain,
		}),
		auth: authhttp.NewHTTP(authhttp.Args{
			App:          args.AuthApp,
			Errhandler:   errhandler,
			CookieDomain: args.CookieDomain,
		}),
		accounts: accountshttp.NewHTTP(accountshttp.Args{
			Getter:     args.AccountGetter,
			Middleware: middleware,
			Errhandler: errhandler,
		}),
	}
}

func (p *Port) Route(r chi.Router) chi.Router {
	if r == nil {
		r = chi.NewRouter()
	}

	r.Get("/health", Health)

	p.reg.Route(r)
	p.auth.Route(r)
	p.accounts.Route(r)

	return r
}

func Health(w http.ResponseWriter, r *http.Request) {
	httpx.Success(w, r, http.StatusOK, httpx.Envelope{"status": "available"})
}
