package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	authapp "gitlab.com/signupd/signup-backend/internal/application/auth"
	"gitlab.com/signupd/signup-backend/internal/domain/account"
	authhttp "gitlab.com/signupd/signup-backend/internal/ports/http/auth"
	"gitlab.com/signupd/signup-backend/tests/integration/builders"
	"gitlab.com/signupd/signup-backend/tests/integration/fixtures"
	"gitlab.com/signupd/signup-backend/tests/integration/framework"
	frameworkhttp "gitlab.com/signupd/signup-backend/tests/integration/framework/http"
)

type AuthIntegrationSuite struct {
	framework.IntegrationTestSuite
}

func TestAuthIntegrationSuite(t *testing.T) {
	suite.Run(t, new(AuthIntegrationSuite))
}

func (s *AuthIntegrationSuite) seedActiveAccount(t *testing.T) *account.Account {
	t.Helper()

	acc := builders.NewAccountBuilder().
		WithEmail(fixtures.TestAccount.Email).
		WithPassword(fixtures.TestAccount.Password).
		Activated().
		Build()
	s.DB.SeedAccount(t, acc, s.Builder.Activation.Used(acc.ID()))
	return acc
}

func (s *AuthIntegrationSuite) assertValidAccessCookie(t *testing.T, resp *frameworkhttp.Response, uid string) *http.Cookie {
	t.Helper()

	cookie := resp.GetCookie(authhttp.AccessJWTCookie)
	require.NotEmpty(t, cookie.Value)
	require.Equal(t, "/", cookie.Path)
	require.Equal(t, "localhost", cookie.Domain)
	require.True(t, cookie.HttpOnly, "access cookie must be HttpOnly")
	require.True(t, cookie.Secure, "access cookie must be Secure")
	require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	require.Greater(t, cookie.MaxAge, 0)

	authapp.NewJWTTokenAssertion(t, cookie.Value, []byte(fixtures.AccessTokenSecretKey)).
		AssertValid().
		AssertISS(authapp.ISS).
		AssertSub(authapp.AccountSubject).
		AssertUID(uid)

	return cookie
}

func (s *AuthIntegrationSuite) assertValidRefreshCookie(t *testing.T, resp *frameworkhttp.Response, uid string) *http.Cookie {
	t.Helper()

	cookie := resp.GetCookie(authhttp.RefreshJWTCookie)
	require.NotEmpty(t, cookie.Value)
	require.Equal(t, authhttp.RefreshCookiePath, cookie.Path)
	require.Equal(t, "localhost", cookie.Domain)
	require.True(t, cookie.HttpOnly, "refresh cookie must be HttpOnly")
	require.True(t, cookie.Secure, "refresh cookie must be Secure")
	require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	require.Greater(t, cookie.MaxAge, 0)

	authapp.NewJWTTokenAssertion(t, cookie.Value, []byte(fixtures.RefreshTokenSecretKey)).
		AssertValid().
		AssertISS(authapp.ISS).
		AssertSub(authapp.RefreshSubject).
		AssertScope(authapp.RefreshScope).
		AssertJTINotEmpty().
		AssertUID(uid)

	return cookie
}

func (s *AuthIntegrationSuite) TestAuth_Login() {
	acc := s.seedActiveAccount(s.T())

	resp := s.HTTP.Login(s.T(), fixtures.TestAccount.Email, fixtures.TestAccount.Password)
	resp.AssertSuccess()

	s.assertValidAccessCookie(s.T(), resp, acc.ID().String())
	s.assertValidRefreshCookie(s.T(), resp, acc.ID().String())
}

func (s *AuthIntegrationSuite) TestAuth_Login_InvalidCredentials() {
	s.seedActiveAccount(s.T())

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{
			name:     "Unknown Email",
			email:    fixtures.ValidAccount2Email,
			password: fixtures.TestAccount.Password,
		},
		{
			name:     "Wrong Password",
			email:    fixtures.TestAccount.Email,
			password: "WrongPass123!",
		},
		{
			name:     "Unknown Email And Wrong Password",
			email:    fixtures.ValidAccount2Email,
			password: "WrongPass123!",
		},
	}

	for _, tt := range tests {
		s.T().Run(tt.name, func(t *testing.T) {
			resp := s.HTTP.Login(t, tt.email, tt.password)

			// The same answer for both failure modes, so the endpoint
			// cannot be used to probe which emails exist.
			resp.AssertStatus(http.StatusUnauthorized).
				AssertCode("UNAUTHORIZED").
				AssertMessage("Wrong email or password.").
				AssertNoCookie(authhttp.AccessJWTCookie).
				AssertNoCookie(authhttp.RefreshJWTCookie)
		})
	}
}

func (s *AuthIntegrationSuite) TestAuth_Login_Validation() {
	s.T().Run("Empty Password", func(t *testing.T) {
		s.HTTP.Login(t, fixtures.TestAccount.Email, "").
			AssertStatus(http.StatusUnprocessableEntity).
			AssertCode("VALIDATION_FAILED").
			AssertDetail("password", "cannot be blank")
	})

	s.T().Run("Invalid Email Format", func(t *testing.T) {
		s.HTTP.Login(t, fixtures.InvalidEmail, fixtures.TestAccount.Password).
			AssertStatus(http.StatusUnprocessableEntity).
			AssertCode("VALIDATION_FAILED").
			AssertDetail("email", "must be a valid email address")
	})

	s.T().Run("Empty Body", func(t *testing.T) {
		s.HTTP.Do(t, frameworkhttp.Request{
			Method: "POST",
			Path:   "/v1/auth/login",
		}).AssertBadRequest().AssertCode("MALFORMED_JSON")
	})
}

func (s *AuthIntegrationSuite) TestAuth_Login_InactiveAccount() {
	// With login-on-registration in effect, an unactivated account can
	// still log in with its password.
	acc := builders.NewAccountBuilder().
		WithEmail(fixtures.TestAccount.Email).
		WithPassword(fixtures.TestAccount.Password).
		Build()
	s.DB.SeedAccount(s.T(), acc, s.Builder.Activation.For(acc.ID()))

	resp := s.HTTP.Login(s.T(), fixtures.TestAccount.Email, fixtures.TestAccount.Password)
	resp.AssertSuccess()
	s.assertValidAccessCookie(s.T(), resp, acc.ID().String())
}

func (s *AuthIntegrationSuite) TestAuth_Refresh() {
	acc := s.seedActiveAccount(s.T())
	uid := acc.ID().String()

	loginResp := s.HTTP.Login(s.T(), fixtures.TestAccount.Email, fixtures.TestAccount.Password)
	loginResp.RequireSuccess()
	oldRefresh := s.assertValidRefreshCookie(s.T(), loginResp, uid)

	s.T().Run("Rotates The Pair", func(t *testing.T) {
		resp := s.HTTP.RefreshSession(t, oldRefresh)
		resp.AssertSuccess()

		s.assertValidAccessCookie(t, resp, uid)
		newRefresh := s.assertValidRefreshCookie(t, resp, uid)
		require.NotEqual(t, oldRefresh.Value, newRefresh.Value, "refresh token must rotate")
	})

	s.T().Run("No Refresh Cookie", func(t *testing.T) {
		s.HTTP.RefreshSession(t).
			AssertStatus(http.StatusUnauthorized).
			AssertCode("INVALID_CREDENTIALS").
			AssertMessage("Invalid credentials.")
	})

	s.T().Run("Garbage Token", func(t *testing.T) {
		s.HTTP.RefreshSession(t, &http.Cookie{Name: authhttp.RefreshJWTCookie, Value: "not-a-jwt"}).
			AssertStatus(http.StatusUnauthorized).
			AssertCode("INVALID_CREDENTIALS")
	})

	s.T().Run("Expired Token", func(t *testing.T) {
		token := s.Builder.JWT.RefreshTokenBuilder(uid).
			WithExpiration(time.Now().Add(-time.Hour)).
			BuildSignedStringT(t)

		s.HTTP.RefreshSession(t, &http.Cookie{Name: authhttp.RefreshJWTCookie, Value: token}).
			AssertStatus(http.StatusUnauthorized).
			AssertCode("INVALID_CREDENTIALS")
	})

	s.T().Run("Wrong Secret", func(t *testing.T) {
		token := s.Builder.JWT.RefreshTokenBuilder(uid).
			WithSecret([]byte("wrong-refresh-secret-32-bytes!!!")).
			BuildSignedStringT(t)

		s.HTTP.RefreshSession(t, &http.Cookie{Name: authhttp.RefreshJWTCookie, Value: token}).
			AssertStatus(http.StatusUnauthorized).
			AssertCode("INVALID_CREDENTIALS")
	})

	s.T().Run("Access Token In Refresh Cookie", func(t *testing.T) {
		accessToken := loginResp.GetCookie(authhttp.AccessJWTCookie).Value

		s.HTTP.RefreshSession(t, &http.Cookie{Name: authhttp.RefreshJWTCookie, Value: accessToken}).
			AssertStatus(http.StatusUnauthorized).
			AssertCode("INVALID_CREDENTIALS")
	})

	s.T().Run("Wrong Subject", func(t *testing.T) {
		token := s.Builder.JWT.RefreshTokenBuilder(uid).
			WithSubject(authapp.AccountSubject).
			BuildSignedStringT(t)

		s.HTTP.RefreshSession(t, &http.Cookie{Name: authhttp.RefreshJWTCookie, Value: token}).
			AssertStatus(http.StatusUnauthorized).
			AssertCode("INVALID_CREDENTIALS")
	})

	s.T().Run("Unknown Account", func(t *testing.T) {
		token := s.Builder.JWT.RefreshTokenBuilder(uuid.NewString()).
			BuildSignedStringT(t)

		s.HTTP.RefreshSession(t, &http.Cookie{Name: authhttp.RefreshJWTCookie, Value: token}).
			AssertStatus(http.StatusUnauthorized).
			AssertCode("INVALID_CREDENTIALS")
	})
}

func (s *AuthIntegrationSuite) TestAuth_Logout() {
	s.seedActiveAccount(s.T())

	s.T().Run("Clears Session Cookies", func(t *testing.T) {
		loginResp := s.HTTP.Login(t, fixtures.TestAccount.Email, fixtures.TestAccount.Password)
		loginResp.RequireSuccess()
		access := loginResp.GetCookie(authhttp.AccessJWTCookie)
		refresh := loginResp.GetCookie(authhttp.RefreshJWTCookie)

		resp := s.HTTP.Logout(t, access, refresh)
		resp.AssertSuccess()
		resp.RequireClearedCookie(authhttp.AccessJWTCookie)
		resp.RequireClearedCookie(authhttp.RefreshJWTCookie)
	})

	s.T().Run("Works Without A Session", func(t *testing.T) {
		resp := s.HTTP.Logout(t)
		resp.AssertSuccess()
		resp.RequireClearedCookie(authhttp.AccessJWTCookie)
		resp.RequireClearedCookie(authhttp.RefreshJWTCookie)
	})
}

func (s *AuthIntegrationSuite) TestAuth_Me() {
	acc := s.seedActiveAccount(s.T())
	uid := acc.ID().String()

	loginResp := s.HTTP.Login(s.T(), fixtures.TestAccount.Email, fixtures.TestAccount.Password)
	loginResp.RequireSuccess()
	access := loginResp.GetCookie(authhttp.AccessJWTCookie)

	s.T().Run("Returns The Authenticated Account", func(t *testing.T) {
		resp := s.HTTP.Me(t, access)
		resp.RequireSuccess()

		var respData map[string]any
		resp.ParseJSON(&respData)
		accData, ok := respData["account"].(map[string]any)
		require.True(t, ok, "expected account object in response")
		require.Equal(t, uid, accData["id"])
		require.Equal(t, fixtures.TestAccount.Email, accData["email"])
		require.Equal(t, fixtures.TestAccount.FirstName, accData["first_name"])
		require.Equal(t, fixtures.TestAccount.LastName, accData["last_name"])
		require.Equal(t, true, accData["active"])
		require.NotEmpty(t, accData["created_at"])
	})

	s.T().Run("No Cookie", func(t *testing.T) {
		s.HTTP.Me(t).
			AssertStatus(http.StatusUnauthorized).
			AssertCode("INVALID_CREDENTIALS")
	})

	s.T().Run("Garbage Cookie", func(t *testing.T) {
		s.HTTP.Me(t, &http.Cookie{Name: authhttp.AccessJWTCookie, Value: "garbage"}).
			AssertStatus(http.StatusUnauthorized).
			AssertCode("INVALID_CREDENTIALS")
	})

	s.T().Run("Wrong Secret Token", func(t *testing.T) {
		token := s.Builder.JWT.AccessTokenBuilder(uid).
			WithSecret([]byte("wrong-access-secret-32-bytes!!!!")).
			BuildSignedStringT(t)

		s.HTTP.Me(t, &http.Cookie{Name: authhttp.AccessJWTCookie, Value: token}).
			AssertStatus(http.StatusUnauthorized).
			AssertCode("INVALID_CREDENTIALS")
	})

	s.T().Run("Expired Token", func(t *testing.T) {
		token := s.Builder.JWT.AccessTokenBuilder(uid).
			WithExpiration(time.Now().Add(-time.Minute)).
			BuildSignedStringT(t)

		s.HTTP.Me(t, &http.Cookie{Name: authhttp.AccessJWTCookie, Value: token}).
			AssertStatus(http.StatusUnauthorized).
			AssertCode("INVALID_CREDENTIALS")
	})

	s.T().Run("Refresh Token As Access Token", func(t *testing.T) {
		refresh := loginResp.GetCookie(authhttp.RefreshJWTCookie)

		s.HTTP.Me(t, &http.Cookie{Name: authhttp.AccessJWTCookie, Value: refresh.Value}).
			AssertStatus(http.StatusUnauthorized).
			AssertCode("INVALID_CREDENTIALS")
	})

	s.T().Run("Token For Deleted Account", func(t *testing.T) {
		token := s.Builder.JWT.AccessTokenBuilder(uuid.NewString()).
			BuildSignedStringT(t)

		s.HTTP.Me(t, &http.Cookie{Name: authhttp.AccessJWTCookie, Value: token}).
			AssertStatus(http.StatusNotFound).
			AssertCode("NOT_FOUND")
	})
}
