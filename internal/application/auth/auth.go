package authapp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/signupd/signup-backend/internal/domain/account"
	"gitlab.com/signupd/signup-backend/pkg/errorx"
	"gitlab.com/signupd/signup-backend/pkg/i18nx"
	"gitlab.com/signupd/signup-backend/pkg/logging"
)

const (
	ISS            = "signupd_auth"
	AccountSubject = "account"
	RefreshSubject = "refresh"
	RefreshScope   = "refresh"

	AccessTokenExpDuration  = 30 * time.Minute
	RefreshTokenExpDuration = 14 * 24 * time.Hour
)

var tracer = otel.Tracer("signupd/internal/application/auth")

// ErrWrongEmailOrPassword covers both an unknown email and a wrong
// password, so the endpoint cannot be used to probe which emails exist.
var (
	ErrWrongEmailOrPassword = errorx.NewUnauthorized().WithKey(i18nx.KeyWrongEmailPassword)
	ErrAccountNotActivated  = errorx.NewForbidden().WithKey(i18nx.KeyAccountNotActivated)
)

type AccountGetter interface {
	GetAccountByEmail(ctx context.Context, email string) (*account.Account, error)
	GetAccountByID(ctx context.Context, id account.ID) (*account.Account, error)
}

type App struct {
	accountgetter AccountGetter

	// When login-on-registration is off, accounts must be activated
	// before password login works.
	loginOnRegistration bool

	accessTokenExpDuration  time.Duration
	refreshTokenExpDuration time.Duration
	accessTokenSecretKey    []byte
	refreshTokenSecretKey   []byte
	signingMethod           *jwt.SigningMethodHMAC
}

type Args struct {
	AccountGetter AccountGetter

	LoginOnRegistration     bool
	AccessTokenSecretKey    string
	RefreshTokenSecretKey   string
	AccessTokenExpDuration  *time.Duration
	RefreshTokenExpDuration *time.Duration
}

func NewApp(args Args) *App {
	app := &App{
		accountgetter: args.AccountGetter,

		loginOnRegistration:     args.LoginOnRegistration,
		accessTokenExpDuration:  AccessTokenExpDuration,
		refreshTokenExpDuration: RefreshTokenExpDuration,
		accessTokenSecretKey:    []byte(args.AccessTokenSecretKey),
		refreshTokenSecretKey:   []byte(args.RefreshTokenSecretKey),
		signingMethod:           jwt.SigningMethodHS256,
	}

	if args.AccessTokenExpDuration != nil {
		app.accessTokenExpDuration = *args.AccessTokenExpDuration
	}
	if args.RefreshTokenExpDuration != nil {
		app.refreshTokenExpDuration = *args.RefreshTokenExpDuration
	}

	return app
}

type Login struct {
	Email    string
	Password string
}

type LoginResponse struct {
	AccessToken     string
	RefreshToken    string
	AccessTokenExp  time.Duration
	RefreshTokenExp time.Duration
}

// LoginHandle verifies the credentials and returns a fresh token pair.
func (a *App) LoginHandle(ctx context.Context, cmd Login) (LoginResponse, error) {
	ctx, span := tracer.Start(
		ctx,
		"App.LoginHandle",
		trace.WithAttributes(
			attribute.String("account.email", logging.RedactEmail(cmd.Email)),
			attribute.String("signing_method", a.signingMethod.Alg()),
			attribute.String("access_token_exp_duration", a.accessTokenExpDuration.String()),
			attribute.String("refresh_token_exp_duration", a.refreshTokenExpDuration.String()),
		),
	)
	defer span.End()

	acc, err := a.accountgetter.GetAccountByEmail(ctx, cmd.Email)
	if err != nil {
		if errorx.IsNotFound(err) {
			span.AddEvent("unknown email")
			return LoginResponse{}, ErrWrongEmailOrPassword.WithCause(err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get account")
		return LoginResponse{}, err
	}

	if err := acc.ComparePassword(cmd.Password); err != nil {
		span.AddEvent("wrong password")
		return LoginResponse{}, ErrWrongEmailOrPassword.WithCause(err)
	}

	if !a.loginOnRegistration && !acc.IsActive() {
		span.AddEvent("inactive account refused")
		return LoginResponse{}, ErrAccountNotActivated
	}

	return a.issueTokenPair(span, acc.ID())
}

type Refresh struct {
	RefreshToken string
}

// RefreshHandle validates a refresh token and rotates the whole pair.
func (a *App) RefreshHandle(ctx context.Context, cmd Refresh) (LoginResponse, error) {
	ctx, span := tracer.Start(
		ctx,
		"App.RefreshHandle",
		trace.WithAttributes(
			attribute.String("signing_method", a.signingMethod.Alg()),
			attribute.String("access_token_exp_duration", a.accessTokenExpDuration.String()),
			attribute.String("refresh_token_exp_duration", a.refreshTokenExpDuration.String()),
		),
	)
	defer span.End()

	accountID, err := a.verifyRefreshToken(cmd.RefreshToken)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "refresh token rejected")
		return LoginResponse{}, errorx.NewInvalidCredentials().WithCause(err)
	}
	span.SetAttributes(attribute.String("account.id", accountID.String()))

	acc, err := a.accountgetter.GetAccountByID(ctx, accountID)
	if err != nil {
		if errorx.IsNotFound(err) {
			span.AddEvent("account for refresh token not found")
			return LoginResponse{}, errorx.NewInvalidCredentials().WithCause(err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get account by id")
		return LoginResponse{}, errorx.NewInternalError().WithCause(err)
	}

	return a.issueTokenPair(span, acc.ID())
}

// verifyRefreshToken checks the signature and claims of a refresh token
// and returns the account it was issued for. Access tokens are signed
// with a different secret and carry a different subject, so they fail
// here twice over.
func (a *App) verifyRefreshToken(raw string) (account.ID, error) {
	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return a.refreshTokenSecretKey, nil
	}, jwt.WithValidMethods([]string{a.signingMethod.Alg()}))
	if err != nil {
		return account.ID{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return account.ID{}, fmt.Errorf("unexpected claims type %T", token.Claims)
	}
	if claims["iss"] != ISS {
		return account.ID{}, fmt.Errorf("unexpected issuer %v", claims["iss"])
	}
	if claims["sub"] != RefreshSubject {
		return account.ID{}, fmt.Errorf("unexpected subject %v", claims["sub"])
	}

	// jwt.Parse only validates exp when the claim is present, so its
	// absence has to be an error here.
	exp, ok := claims["exp"].(float64)
	if !ok {
		return account.ID{}, errors.New("exp claim is missing")
	}
	if time.Unix(int64(exp), 0).Before(time.Now().UTC()) {
		return account.ID{}, errors.New("refresh token is expired")
	}

	uid, ok := claims["uid"].(string)
	if !ok {
		return account.ID{}, errors.New("uid claim is missing")
	}

	return account.ParseID(uid)
}

// SessionFor issues a token pair without a credential check. The
// registration endpoint uses it to log the caller in right after signup
// when the policy flag allows.
func (a *App) SessionFor(ctx context.Context, acc *account.Account) (LoginResponse, error) {
	_, span := tracer.Start(ctx, "App.SessionFor")
	defer span.End()

	if acc == nil || acc.ID().IsZero() {
		err := errors.New("cannot issue session for empty account")
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid account")
		return LoginResponse{}, err
	}
	span.SetAttributes(attribute.String("account.id", acc.ID().String()))

	return a.issueTokenPair(span, acc.ID())
}

func (a *App) issueTokenPair(span trace.Span, accountID account.ID) (LoginResponse, error) {
	now := time.Now()

	accessToken := jwt.NewWithClaims(a.signingMethod, jwt.MapClaims{
		"iss": ISS,
		"sub": AccountSubject,
		"exp": now.Add(a.accessTokenExpDuration).Unix(),
		"iat": now.Unix(),
		"uid": accountID.String(),
	})
	refreshToken := jwt.NewWithClaims(a.signingMethod, jwt.MapClaims{
		"iss":   ISS,
		"sub":   RefreshSubject,
		"exp":   now.Add(a.refreshTokenExpDuration).Unix(),
		"iat":   now.Unix(),
		"jti":   uuid.New().String(),
		"uid":   accountID.String(),
		"scope": RefreshScope,
	})

	accessjwt, err := accessToken.SignedString(a.accessTokenSecretKey)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to sign access token")
		return LoginResponse{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	refreshjwt, err := refreshToken.SignedString(a.refreshTokenSecretKey)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to sign refresh token")
		return LoginResponse{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return LoginResponse{
		AccessToken:     accessjwt,
		RefreshToken:    refreshjwt,
		AccessTokenExp:  a.accessTokenExpDuration,
		RefreshTokenExp: a.refreshTokenExpDuration,
	}, nil
}

type JWTTokenAssertion struct {
	token    string
	jwttoken *jwt.Token
	claims   jwt.MapClaims
	t        *testing.T
}

func NewJWTTokenAssertion(t *testing.T, token string, secretkey []byte) *JWTTokenAssertion {
	t.Helper()

	jwttoken, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return secretkey, nil
	})
	require.NoError(t, err)

	claims, ok := jwttoken.Claims.(jwt.MapClaims)
	require.True(t, ok, "jwt token claims must be type jwt.MapClaims")

	return &JWTTokenAssertion{
		t:        t,
		token:    token,
		jwttoken: jwttoken,
		claims:   claims,
	}
}

func (a *JWTTokenAssertion) assertClaim(name string, expected any) *JWTTokenAssertion {
	a.t.Helper()
	assert.Equal(a.t, expected, a.claims[name], "claim %q", name)
	return a
}

// assertTimeClaim tolerates one second of skew between token issuance and
// the assertion.
func (a *JWTTokenAssertion) assertTimeClaim(name string, expected time.Time) *JWTTokenAssertion {
	a.t.Helper()
	v, ok := a.claims[name].(float64)
	require.True(a.t, ok, "claim %q must be a number, got %T", name, a.claims[name])
	assert.WithinDuration(a.t, expected, time.Unix(int64(v), 0), time.Second, "claim %q", name)
	return a
}

func (a *JWTTokenAssertion) AssertValid() *JWTTokenAssertion {
	a.t.Helper()
	assert.True(a.t, a.jwttoken != nil && a.jwttoken.Valid, "jwt token should be valid")
	return a
}

func (a *JWTTokenAssertion) AssertISS(expected string) *JWTTokenAssertion {
	a.t.Helper()
	return a.assertClaim("iss", expected)
}

func (a *JWTTokenAssertion) AssertSub(expected string) *JWTTokenAssertion {
	a.t.Helper()
	return a.assertClaim("sub", expected)
}

func (a *JWTTokenAssertion) AssertExp(expected time.Time) *JWTTokenAssertion {
	a.t.Helper()
	return a.assertTimeClaim("exp", expected)
}

func (a *JWTTokenAssertion) AssertIAT(expected time.Time) *JWTTokenAssertion {
	a.t.Helper()
	return a.assertTimeClaim("iat", expected)
}

func (a *JWTTokenAssertion) AssertScope(expected string) *JWTTokenAssertion {
	a.t.Helper()
	return a.assertClaim("scope", expected)
}

func (a *JWTTokenAssertion) AssertJTI(expected string) *JWTTokenAssertion {
	a.t.Helper()
	return a.assertClaim("jti", expected)
}

func (a *JWTTokenAssertion) AssertJTINotEmpty() *JWTTokenAssertion {
	a.t.Helper()
	assert.NotEmpty(a.t, a.claims["jti"], "jti claim should not be empty")
	return a
}

func (a *JWTTokenAssertion) AssertUID(expected string) *JWTTokenAssertion {
	a.t.Helper()
	return a.assertClaim("uid", expected)
}
