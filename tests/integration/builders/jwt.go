package builders

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"gitlab.com/signupd/signup-backend/tests/integration/fixtures"
)

// JWTFactory produces token builders preloaded with the claims the service
// itself issues. Issuer and subject values are spelled out on purpose: if
// the service constants drift, the session tests should notice.
type JWTFactory struct{}

func (JWTFactory) AccessTokenBuilder(accountID string) *JWTBuilder {
	return NewJWTBuilder().
		WithIssuer("signupd_auth").
		WithSubject("account").
		WithIssuedAt(time.Now()).
		WithExpiration(time.Now().Add(30 * time.Minute)).
		WithAccountID(accountID).
		WithSecret([]byte(fixtures.AccessTokenSecretKey))
}

func (JWTFactory) RefreshTokenBuilder(accountID string) *JWTBuilder {
	return NewJWTBuilder().
		WithIssuer("signupd_auth").
		WithSubject("refresh").
		WithIssuedAt(time.Now()).
		WithExpiration(time.Now().Add(14 * 24 * time.Hour)).
		WithAccountID(accountID).
		WithJTI(uuid.New().String()).
		WithClaim("scope", "refresh").
		WithSecret([]byte(fixtures.RefreshTokenSecretKey))
}

// JWTBuilder assembles an HS256 token claim by claim. Zero value is not
// usable, start from NewJWTBuilder.
type JWTBuilder struct {
	secret []byte
	claims jwt.MapClaims
}

func NewJWTBuilder() *JWTBuilder {
	return &JWTBuilder{
		secret: []byte(fixtures.AccessTokenSecretKey),
		claims: jwt.MapClaims{},
	}
}

func (j *JWTBuilder) WithClaim(key string, value any) *JWTBuilder {
	j.claims[key] = value
	return j
}

func (j *JWTBuilder) WithIssuer(iss string) *JWTBuilder  { return j.WithClaim("iss", iss) }
func (j *JWTBuilder) WithSubject(sub string) *JWTBuilder { return j.WithClaim("sub", sub) }
func (j *JWTBuilder) WithAccountID(id string) *JWTBuilder {
	return j.WithClaim("uid", id)
}
func (j *JWTBuilder) WithJTI(jti string) *JWTBuilder { return j.WithClaim("jti", jti) }

func (j *JWTBuilder) WithIssuedAt(at time.Time) *JWTBuilder {
	return j.WithClaim("iat", jwt.NewNumericDate(at))
}

func (j *JWTBuilder) WithExpiration(exp time.Time) *JWTBuilder {
	return j.WithClaim("exp", jwt.NewNumericDate(exp))
}

// WithClaimEmpty removes a claim the factory defaults would otherwise set.
func (j *JWTBuilder) WithClaimEmpty(key string) *JWTBuilder {
	delete(j.claims, key)
	return j
}

func (j *JWTBuilder) WithEmptyClaims() *JWTBuilder {
	j.claims = jwt.MapClaims{}
	return j
}

func (j *JWTBuilder) WithSecret(secret []byte) *JWTBuilder {
	j.secret = secret
	return j
}

func (j *JWTBuilder) BuildSignedString() (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, j.claims).SignedString(j.secret)
}

func (j *JWTBuilder) BuildSignedStringT(t *testing.T) string {
	t.Helper()
	signed, err := j.BuildSignedString()
	require.NoError(t, err, "failed to sign test token")
	return signed
}
