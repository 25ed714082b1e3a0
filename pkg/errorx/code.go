package errorx

// Code identifies an error class in the response envelope. Clients
// branch on these strings, so they are part of the API.
type Code string

func (c Code) String() string {
	return string(c)
}

const (
	CodeInvalid            Code = "INVALID"
	CodeValidationFailed   Code = "VALIDATION_FAILED"
	CodeMalformedJSON      Code = "MALFORMED_JSON"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeForbidden          Code = "FORBIDDEN"
	CodeNotFound           Code = "NOT_FOUND"
	CodeConflict           Code = "CONFLICT"
	CodeDuplicateEntry     Code = "DUPLICATE_ENTRY"
	CodeInternal           Code = "INTERNAL_ERROR"
)
