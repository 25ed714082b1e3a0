package errorx

import (
	"errors"
	"fmt"
	"maps"
	"net/http"

	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// I18nError is the transport-facing error of the service. It carries a
// message key instead of prose; the HTTP layer localizes the key for
// the request's Accept-Language before writing the envelope.
type I18nError struct {
	cause       error
	MessageKey  string
	MessageArgs map[string]any
	HTTPCode    int
	Code        Code
}

func (e *I18nError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.MessageKey)
	}

	return fmt.Sprintf("[%s] %s: %s", e.Code, e.MessageKey, e.cause)
}

func (e *I18nError) Localize(localizer *i18n.Localizer) string {
	return localizer.MustLocalize(&i18n.LocalizeConfig{
		MessageID:    e.MessageKey,
		TemplateData: e.MessageArgs,
	})
}

func (e *I18nError) HTTPStatusCode() int {
	if e.HTTPCode != 0 {
		return e.HTTPCode
	}

	return HTTPStatusCode(e.Code)
}

func (e *I18nError) WithHTTPCode(code int) *I18nError {
	e.HTTPCode = code
	return e
}

// WithKey swaps the message key so one code can carry endpoint-specific
// wording, like the activation 404.
func (e *I18nError) WithKey(key string) *I18nError {
	e.MessageKey = key
	return e
}

func (e *I18nError) WithArgs(args map[string]any) *I18nError {
	if e.MessageArgs == nil {
		e.MessageArgs = make(map[string]any)
	}

	maps.Copy(e.MessageArgs, args)

	return e
}

func (e *I18nError) WithCause(cause error) *I18nError {
	e.cause = cause
	return e
}

// Wrap annotates err with the operation that produced it, preserving the
// wrapped error for errors.As/Is checks. A nil err stays nil.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w", op, err)
}

func HTTPStatusCode(code Code) int {
	switch code {
	case CodeInvalid, CodeValidationFailed, CodeMalformedJSON:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeDuplicateEntry:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsCode matches on the code or, failing that, on the HTTP status the
// code maps to, so errors with an overridden status still match.
func IsCode(err error, code Code) bool {
	if err == nil {
		return false
	}

	var i18nErr *I18nError
	if errors.As(err, &i18nErr) {
		return i18nErr.Code == code || i18nErr.HTTPCode == HTTPStatusCode(code)
	}

	return false
}

func IsNotFound(err error) bool {
	return IsCode(err, CodeNotFound)
}

func IsConflict(err error) bool {
	return IsCode(err, CodeConflict)
}

func IsDuplicateEntry(err error) bool {
	return IsCode(err, CodeDuplicateEntry)
}

func newError(code Code, key string, status int) *I18nError {
	return &I18nError{Code: code, MessageKey: key, HTTPCode: status}
}

func NewMalformedJSON() *I18nError {
	return newError(CodeMalformedJSON, "malformed_json", http.StatusBadRequest)
}

func NewValidationFieldFailed(field string) *I18nError {
	return newError(CodeValidationFailed, "validation_failed_field", http.StatusBadRequest).
		WithArgs(map[string]any{"Field": field})
}

func NewUnauthorized() *I18nError {
	return newError(CodeUnauthorized, "unauthorized", http.StatusUnauthorized)
}

func NewInvalidCredentials() *I18nError {
	return newError(CodeInvalidCredentials, "invalid_credentials", http.StatusUnauthorized)
}

func NewForbidden() *I18nError {
	return newError(CodeForbidden, "forbidden", http.StatusForbidden)
}

func NewNotFound() *I18nError {
	return newError(CodeNotFound, "not_found", http.StatusNotFound)
}

func NewConflict() *I18nError {
	return newError(CodeConflict, "conflict", http.StatusConflict)
}

func NewDuplicateEntry() *I18nError {
	return newError(CodeDuplicateEntry, "duplicate_entry", http.StatusConflict)
}

func NewDuplicateEntryWithField(resourceType, field string) *I18nError {
	return newError(CodeDuplicateEntry, "duplicate_entry_with_field", http.StatusConflict).
		WithArgs(map[string]any{"ResourceType": resourceType, "Field": field})
}

func NewInternalError() *I18nError {
	return newError(CodeInternal, "internal_error", http.StatusInternalServerError)
}
