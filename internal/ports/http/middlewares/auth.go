package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	authapp "gitlab.com/signupd/signup-backend/internal/application/auth"
	"gitlab.com/signupd/signup-backend/internal/domain/account"
	authhttp "gitlab.com/signupd/signup-backend/internal/ports/http/auth"
	"gitlab.com/signupd/signup-backend/pkg/ctxs"
	"gitlab.com/signupd/signup-backend/pkg/errorx"
	"gitlab.com/signupd/signup-backend/pkg/httpx"
)

var tracer = otel.Tracer("signupd/internal/ports/http/middlewares")

type Middleware struct {
	secret     []byte
	errhandler *httpx.ErrorHandler
}

type Args struct {
	Secret     []byte
	Errhandler *httpx.ErrorHandler
}

func NewMiddleware(args Args) *Middleware {
	if len(args.Secret) == 0 {
		panic("middlewares: access token secret is required")
	}
	if args.Errhandler == nil {
		args.Errhandler = httpx.NewErrorHandler()
	}

	return &Middleware{
		secret:     args.Secret,
		errhandler: args.Errhandler,
	}
}

// Auth requires a valid access token cookie and puts the authenticated
// account into the request context. Every failure is reported as invalid
// credentials so the response does not reveal which check rejected the token.
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "AuthMiddleware")
		defer span.End()

		cookie, err := r.Cookie(authhttp.AccessJWTCookie)
		if err != nil {
			m.errhandler.HandleError(w, r, span,
				errorx.NewInvalidCredentials().WithCause(err),
				"missing access token cookie")
			return
		}

		accountID, err := m.authenticate(cookie.Value)
		if err != nil {
			m.errhandler.HandleError(w, r, span,
				errorx.NewInvalidCredentials().WithCause(err),
				"access token rejected")
			return
		}

		ctx = ctxs.WithAccount(ctx, &ctxs.Account{ID: accountID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate verifies a raw access token and returns the account it was
// issued for. Refresh tokens are signed with the same secret but carry a
// different subject, so they fail the sub check here.
func (m *Middleware) authenticate(raw string) (account.ID, error) {
	if err := validation.Validate(raw, validation.Required, validation.Length(1, 1000)); err != nil {
		return account.ID{}, fmt.Errorf("malformed token: %w", err)
	}

	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return account.ID{}, err
	}
	if !token.Valid {
		return account.ID{}, errors.New("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return account.ID{}, fmt.Errorf("unexpected claims type %T", token.Claims)
	}
	if claims["iss"] != authapp.ISS {
		return account.ID{}, fmt.Errorf("unexpected issuer %v", claims["iss"])
	}
	if claims["sub"] != authapp.AccountSubject {
		return account.ID{}, fmt.Errorf("unexpected subject %v", claims["sub"])
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return account.ID{}, errors.New("exp claim is missing")
	}
	if time.Unix(int64(exp), 0).Before(time.Now().UTC()) {
		return account.ID{}, errors.New("token is expired")
	}

	uid, ok := claims["uid"].(string)
	if !ok {
		return account.ID{}, errors.New("uid claim is missing")
	}
	id, err := uuid.Parse(uid)
	if err != nil {
		return account.ID{}, fmt.Errorf("uid claim: %w", err)
	}

	return account.ID(id), nil
}
