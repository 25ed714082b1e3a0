package http

import (
	"net/http"
	"testing"

	registrationhttp "gitlab.com/signupd/signup-backend/internal/ports/http/registration"
)

func (h *Helper) Register(t *testing.T, req registrationhttp.RegisterRequest) *Response {
	return h.Do(t, Request{
		Method: "POST",
		Path:   "/v1/registrations",
		Body:   req,
	})
}

func (h *Helper) Activate(t *testing.T, key string) *Response {
	return h.Do(t, Request{
		Method: "POST",
		Path:   "/v1/registrations/activate",
		Body:   map[string]string{"activation_key": key},
	})
}

func (h *Helper) RegistrationStatus(t *testing.T) *Response {
	return h.Do(t, Request{
		Method: "GET",
		Path:   "/v1/registrations/open",
	})
}

func (h *Helper) Login(t *testing.T, email, password string) *Response {
	return h.Do(t, Request{
		Method: "POST",
		Path:   "/v1/auth/login",
		Body:   map[string]string{"email": email, "password": password},
	})
}

func (h *Helper) RefreshSession(t *testing.T, cookies ...*http.Cookie) *Response {
	return h.Do(t, Request{
		Method:  "POST",
		Path:    "/v1/auth/refresh",
		Cookies: cookies,
	})
}

func (h *Helper) Logout(t *testing.T, cookies ...*http.Cookie) *Response {
	return h.Do(t, Request{
		Method:  "POST",
		Path:    "/v1/auth/logout",
		Cookies: cookies,
	})
}

func (h *Helper) Me(t *testing.T, cookies ...*http.Cookie) *Response {
	return h.Do(t, Request{
		Method:  "GET",
		Path:    "/v1/accounts/me",
		Cookies: cookies,
	})
}

func (h *Helper) Health(t *testing.T) *Response {
	return h.Do(t, Request{
		Method: "GET",
		Path:   "/health",
	})
}
