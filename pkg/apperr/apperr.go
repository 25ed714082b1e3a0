package apperr

import "net/http"

// Code classifies an application error independently of the transport.
type Code string

const (
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalid      Code = "INVALID"
	CodeConflict     Code = "CONFLICT"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
)

var httpStatus = map[Code]int{
	CodeInternal:     http.StatusInternalServerError,
	CodeNotFound:     http.StatusNotFound,
	CodeInvalid:      http.StatusBadRequest,
	CodeConflict:     http.StatusConflict,
	CodeUnauthorized: http.StatusUnauthorized,
	CodeForbidden:    http.StatusForbidden,
}

// Error is an application-level error that already knows how it should be
// reported. Message is written to clients verbatim, so keep it presentable.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) HTTPStatusCode() int {
	if status, ok := httpStatus[e.Code]; ok {
		return status
	}

	return http.StatusInternalServerError
}

func NewNotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func NewInvalid(msg string) *Error {
	return &Error{Code: CodeInvalid, Message: msg}
}

func NewConflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

func NewUnauthorized(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

func NewForbidden(msg string) *Error {
	return &Error{Code: CodeForbidden, Message: msg}
}
