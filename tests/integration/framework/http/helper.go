package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper drives the service's full handler chain in-process through
// httptest, middlewares included.
type Helper struct {
	handler http.Handler
}

func NewHelper(handler http.Handler) *Helper {
	return &Helper{handler: handler}
}

type Request struct {
	Path    string
	Method  string
	Body    any
	Headers map[string]string
	Query   map[string]string
	Cookies []*http.Cookie
	Context context.Context
}

type Response struct {
	*httptest.ResponseRecorder
	t *testing.T
}

func (h *Helper) Do(t *testing.T, req Request) *Response {
	t.Helper()

	var body io.Reader
	if req.Body != nil {
		jsonbytes, err := json.Marshal(req.Body)
		require.NoError(t, err)
		body = bytes.NewReader(jsonbytes)
	}

	httpReq := httptest.NewRequest(req.Method, req.Path, body)
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	for _, c := range req.Cookies {
		httpReq.AddCookie(c)
	}

	if req.Query != nil {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Add(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}
	if req.Context != nil {
		httpReq = httpReq.WithContext(req.Context)
	}

	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, httpReq)

	return &Response{ResponseRecorder: w, t: t}
}

// stringField parses the response envelope and requires the named field to
// be a string.
func (r *Response) stringField(name string) string {
	r.t.Helper()

	var resp map[string]any
	r.ParseJSON(&resp)
	value, ok := resp[name].(string)
	require.True(r.t, ok, "expected %s to be a string in response: %s", name, r.Body.String())
	return value
}

func (r *Response) AssertStatus(expected int) *Response {
	r.t.Helper()

	// best effort, failed assertions read better with the server message
	var resp map[string]any
	_ = json.Unmarshal(r.Body.Bytes(), &resp)
	message, ok := resp["message"].(string)
	if !ok {
		message = "no message in response"
	}

	assert.Equal(r.t, expected, r.Result().StatusCode, "unexpected status code, message: %s", message)
	return r
}

func (r *Response) RequireStatus(expected int) *Response {
	r.t.Helper()
	require.Equal(r.t, expected, r.Result().StatusCode, "unexpected status code, body: %s", r.Body.String())
	return r
}

func (r *Response) AssertMessage(expected string) *Response {
	r.t.Helper()
	assert.Equal(r.t, expected, r.stringField("message"), "unexpected message in response")
	return r
}

func (r *Response) AssertContainsMessage(expected string) *Response {
	r.t.Helper()
	if expected == "" {
		return r
	}
	assert.Contains(r.t, r.stringField("message"), expected, "message does not contain expected text")
	return r
}

func (r *Response) AssertCode(expected string) *Response {
	r.t.Helper()
	assert.Equal(r.t, expected, r.stringField("code"), "unexpected error code in response")
	return r
}

// AssertDetail checks one entry of the per-field details map of a 422
// response.
func (r *Response) AssertDetail(field, expected string) *Response {
	r.t.Helper()

	var resp map[string]any
	r.ParseJSON(&resp)
	details, ok := resp["details"].(map[string]any)
	require.True(r.t, ok, "expected details object in response: %s", r.Body.String())
	actual, ok := details[field].(string)
	require.True(r.t, ok, "expected details entry for field %q: %s", field, r.Body.String())
	assert.Contains(r.t, actual, expected, "unexpected detail for field %q", field)

	return r
}

func (r *Response) AssertSuccess() *Response {
	r.t.Helper()
	r.AssertStatus(http.StatusOK)

	var resp map[string]any
	r.ParseJSON(&resp)
	assert.True(r.t, resp["success"].(bool), "expected success=true")

	return r
}

func (r *Response) RequireSuccess() *Response {
	r.t.Helper()
	r.RequireStatus(http.StatusOK)

	var resp map[string]any
	r.ParseJSON(&resp)
	require.True(r.t, resp["success"].(bool), "expected success=true")

	return r
}

func (r *Response) RequireCreated() *Response {
	r.t.Helper()
	return r.RequireStatus(http.StatusCreated)
}

func (r *Response) AssertBadRequest() *Response {
	r.t.Helper()
	return r.AssertStatus(http.StatusBadRequest)
}

func (r *Response) ParseJSON(v any) *Response {
	r.t.Helper()

	err := json.Unmarshal(r.Body.Bytes(), v)
	require.NoError(r.t, err, "failed to parse JSON response: %s", r.Body.String())

	return r
}

func (r *Response) GetCookie(name string) *http.Cookie {
	r.t.Helper()

	for _, c := range r.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	require.Fail(r.t, fmt.Sprintf("cookie %s not found", name))
	return nil
}

// RequireClearedCookie returns the Max-Age=-1 cookie the handler used to
// delete name, failing if the response leaves it untouched.
func (r *Response) RequireClearedCookie(name string) *http.Cookie {
	r.t.Helper()

	c := r.GetCookie(name)
	require.True(r.t, c.MaxAge < 0, "expected cookie %s to be cleared, got MaxAge=%d", name, c.MaxAge)
	return c
}

func (r *Response) AssertNoCookie(name string) *Response {
	r.t.Helper()

	for _, c := range r.Result().Cookies() {
		if c.Name == name {
			assert.Fail(r.t, fmt.Sprintf("expected no cookie %s, but it was set", name))
		}
	}
	return r
}
