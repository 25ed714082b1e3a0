package registrationhttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	authapp "gitlab.com/signupd/signup-backend/internal/application/auth"
	registrationapp "gitlab.com/signupd/signup-backend/internal/application/registration"
	"gitlab.com/signupd/signup-backend/internal/application/registration/cmd"
	authhttp "gitlab.com/signupd/signup-backend/internal/ports/http/auth"
	"gitlab.com/signupd/signup-backend/pkg/httpx"
	"gitlab.com/signupd/signup-backend/pkg/logging"
	"gitlab.com/signupd/signup-backend/pkg/otelx"
	"gitlab.com/signupd/signup-backend/pkg/sanitizex"
)

var (
	tracer = otel.Tracer("signupd/internal/ports/http/registration")
	logger = otelslog.NewLogger("signupd/internal/ports/http/registration")
)

type HTTP struct {
	app        *registrationapp.App
	cmd        *registrationapp.Command
	errhandler *httpx.ErrorHandler

	// When login-on-registration is on, a successful registration also
	// opens a session through the auth application.
	auth                *authapp.App
	loginOnRegistration bool
	cookiedomain        string
}

type Args struct {
	App        *registrationapp.App
	Errhandler *httpx.ErrorHandler

	AuthApp             *authapp.App
	LoginOnRegistration bool
	CookieDomain        string
}

func NewHTTP(args Args) *HTTP {
	if args.Errhandler == nil {
		args.Errhandler = httpx.NewErrorHandler()
	}

	return &HTTP{
		app:                 args.App,
		cmd:                 &args.App.CMD,
		errhandler:          args.Errhandler,
		auth:                args.AuthApp,
		loginOnRegistration: args.LoginOnRegistration,
		cookiedomain:        args.CookieDomain,
	}
}

func (h *HTTP) Route(r chi.Router) {
	r.Route("/v1/registrations", func(r chi.Router) {
		r.Post("/", h.Register)
		r.Post("/activate", h.Activate)
		r.Get("/open", h.RegistrationStatus)
	})
}

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	TermsAccepted   bool   `json:"tos"`
}

func (r *RegisterRequest) Sanitized() {
	r.Email = sanitizex.CleanSingleLine(r.Email)
	r.FirstName = sanitizex.CleanSingleLine(r.FirstName)
	r.LastName = sanitizex.CleanSingleLine(r.LastName)
	// Passwords pass through untouched; trimming them would silently
	// change the credential.
}

func (r *RegisterRequest) SetSpanAttrs(span trace.Span) {
	otelx.SetSpanAttrs(span, map[string]any{"email": logging.RedactEmail(r.Email)})
}

func (h *HTTP) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Register")
	defer span.End()

	var req RegisterRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to read json")
		return
	}

	req.Sanitized()
	req.SetSpanAttrs(span)

	// Field validation lives in the registration form so that one response
	// carries every violation at once; the request struct stays thin.
	res, err := h.cmd.Register.Handle(ctx, cmd.Register{
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		TermsAccepted:   req.TermsAccepted,
	})
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to register")
		return
	}

	if h.loginOnRegistration && h.auth != nil {
		session, err := h.auth.SessionFor(ctx, res.Account)
		if err != nil {
			// The account is already committed; a failed session issue
			// must not turn the registration into an error.
			otelx.RecordSpanError(span, err, "failed to open session at registration")
			logger.ErrorContext(ctx, "failed to open session at registration", "error", err.Error())
		} else {
			authhttp.SetSessionCookies(w, h.cookiedomain, session)
		}
	}

	httpx.Success(w, r, http.StatusCreated, httpx.Envelope{
		"account": accountEnvelope(res.AccountID.String(), res.Email, res.Active),
		"next":    res.Next,
	})
}

type ActivateRequest struct {
	ActivationKey string `json:"activation_key"`
}

func (r *ActivateRequest) Sanitized() {
	r.ActivationKey = sanitizex.CleanSingleLine(r.ActivationKey)
}

func (r *ActivateRequest) SetSpanAttrs(span trace.Span) {
	// The key is a credential; only its length is safe to record.
	otelx.SetSpanAttrs(span, map[string]any{"activation_key_len": len(r.ActivationKey)})
}

func (h *HTTP) Activate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Activate")
	defer span.End()

	var req ActivateRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to read json")
		return
	}

	req.Sanitized()
	req.SetSpanAttrs(span)

	// No shape validation here: a missing or malformed key must produce
	// the same not-found answer as an unknown one.
	res, err := h.cmd.Activate.Handle(ctx, cmd.Activate{Key: req.ActivationKey})
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to activate")
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{
		"account": accountEnvelope(res.AccountID.String(), res.Email, true),
		"next":    res.Next,
	})
}

func (h *HTTP) RegistrationStatus(w http.ResponseWriter, r *http.Request) {
	_, span := tracer.Start(r.Context(), "RegistrationStatus")
	defer span.End()

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{
		"open": h.app.RegistrationAllowed(),
	})
}

func accountEnvelope(id, email string, active bool) httpx.Envelope {
	return httpx.Envelope{
		"id":     id,
		"email":  email,
		"active": active,
	}
}
