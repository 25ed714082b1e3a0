package authhttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	authapp "gitlab.com/signupd/signup-backend/internal/application/auth"
	"gitlab.com/signupd/signup-backend/pkg/errorx"
	"gitlab.com/signupd/signup-backend/pkg/httpx"
	"gitlab.com/signupd/signup-backend/pkg/logging"
	"gitlab.com/signupd/signup-backend/pkg/otelx"
	"gitlab.com/signupd/signup-backend/pkg/sanitizex"
	"gitlab.com/signupd/signup-backend/pkg/validationx"
)

const (
	AccessJWTCookie   = "signupd_access"
	RefreshJWTCookie  = "signupd_refresh"
	RefreshCookiePath = "/v1/auth/refresh"
)

var tracer = otel.Tracer("signupd/internal/ports/http/auth")

type HTTP struct {
	app          *authapp.App
	errhandler   *httpx.ErrorHandler
	cookiedomain string
}

type Args struct {
	App          *authapp.App
	Errhandler   *httpx.ErrorHandler
	CookieDomain string
}

func NewHTTP(args Args) *HTTP {
	if args.Errhandler == nil {
		args.Errhandler = httpx.NewErrorHandler()
	}

	return &HTTP{
		app:          args.App,
		errhandler:   args.Errhandler,
		cookiedomain: args.CookieDomain,
	}
}

func (h *HTTP) Route(r chi.Router) {
	r.Post("/v1/auth/login", h.Login)
	r.Post("/v1/auth/refresh", h.Refresh)
	r.Post("/v1/auth/logout", h.Logout)
}

// SetSessionCookies writes the token pair. The refresh cookie is scoped to
// the refresh endpoint so it never travels with ordinary API requests.
func SetSessionCookies(w http.ResponseWriter, domain string, res authapp.LoginResponse) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessJWTCookie,
		Value:    res.AccessToken,
		Path:     "/",
		Domain:   domain,
		Expires:  time.Now().Add(res.AccessTokenExp).UTC(),
		MaxAge:   int(res.AccessTokenExp.Seconds()),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshJWTCookie,
		Value:    res.RefreshToken,
		Path:     RefreshCookiePath,
		Domain:   domain,
		Expires:  time.Now().Add(res.RefreshTokenExp).UTC(),
		MaxAge:   int(res.RefreshTokenExp.Seconds()),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookies expires both cookies. Paths must match the ones they
// were set with, or browsers keep the originals.
func ClearSessionCookies(w http.ResponseWriter, domain string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessJWTCookie,
		Value:    "",
		Path:     "/",
		Domain:   domain,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshJWTCookie,
		Value:    "",
		Path:     RefreshCookiePath,
		Domain:   domain,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Sanitized() {
	r.Email = sanitizex.CleanSingleLine(r.Email)
}

func (r *LoginRequest) SetSpanAttrs(span trace.Span) {
	otelx.SetSpanAttrs(span, map[string]any{"email": logging.RedactEmail(r.Email)})
}

func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validationx.EmailRules...),
		validation.Field(&r.Password, validation.Required),
	)
}

func (h *HTTP) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Login")
	defer span.End()

	var req LoginRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to read json")
		return
	}

	req.Sanitized()
	req.SetSpanAttrs(span)
	if err := req.Validate(); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to validate request body")
		return
	}

	res, err := h.app.LoginHandle(ctx, authapp.Login{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to login")
		return
	}

	SetSessionCookies(w, h.cookiedomain, res)

	httpx.Success(w, r, http.StatusOK, nil)
}

func (h *HTTP) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Refresh")
	defer span.End()

	refreshCookie, err := r.Cookie(RefreshJWTCookie)
	if err != nil {
		err = errorx.NewInvalidCredentials().WithCause(err)
		h.errhandler.HandleError(w, r, span, err, "failed to get refresh token cookie")
		return
	}

	res, err := h.app.RefreshHandle(ctx, authapp.Refresh{RefreshToken: refreshCookie.Value})
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to refresh token")
		return
	}

	// The refreshed pair replaces both cookies, the old refresh token
	// included.
	SetSessionCookies(w, h.cookiedomain, res)

	httpx.Success(w, r, http.StatusOK, nil)
}

func (h *HTTP) Logout(w http.ResponseWriter, r *http.Request) {
	_, span := tracer.Start(r.Context(), "Logout")
	defer span.End()

	ClearSessionCookies(w, h.cookiedomain)
	span.AddEvent("session cookies cleared")

	httpx.Success(w, r, http.StatusOK, nil)
}
