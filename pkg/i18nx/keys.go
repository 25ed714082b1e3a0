package i18nx

// Error message keys
const (
	// Client errors
	KeyInvalid               = "invalid"
	KeyValidationFailed      = "validation_failed"
	KeyValidationFailedField = "validation_failed_field"
	KeyMalformedJSON         = "malformed_json"
	KeyUnauthorized          = "unauthorized"
	KeyInvalidCredentials    = "invalid_credentials"
	KeyTokenExpired          = "token_expired"
	KeyForbidden             = "forbidden"
	KeyAccessDenied          = "access_denied"
	KeyNotFound              = "not_found"
	KeyNotFoundWithType      = "not_found_with_type"
	KeyMethodNotAllowed      = "method_not_allowed"
	KeyConflict              = "conflict"
	KeyDuplicateEntry        = "duplicate_entry"
	KeyDuplicateEntryField   = "duplicate_entry_with_field"

	// Server errors
	KeyInternalError      = "internal_error"
	KeyServiceUnavailable = "service_unavailable"

	// Authentication specific
	KeyWrongEmailPassword        = "wrong_email_or_password"
	KeyAccountNotActivated       = "account_not_activated"
	KeyInvalidRefreshTokenClaims = "invalid_refresh_token_claims"
	KeyInvalidRefreshTokenExp    = "invalid_refresh_token_exp"
	KeyRefreshTokenExpired       = "refresh_token_expired"

	// Registration specific
	KeyEmailNotAvailable = "error_email_not_available"
	KeyEmailDomainBanned = "email_domain_not_allowed"
	KeyPasswordMismatch  = "password_mismatch"
	KeyTermsNotAccepted  = "terms_not_accepted"

	// Activation specific
	KeyCouldNotActivate = "could_not_activate"
)

// Validation message keys (localized ozzo-validation error codes)
const (
	ValidationRequired         = "validation_required"
	ValidationEmpty            = "validation_empty"
	ValidationLengthTooLong    = "validation_length_too_long"
	ValidationLengthTooShort   = "validation_length_too_short"
	ValidationLengthInvalid    = "validation_length_invalid"
	ValidationLengthOutOfRange = "validation_length_out_of_range"
	ValidationLengthEmpty      = "validation_length_empty_required"
	ValidationMatchInvalid     = "validation_match_invalid"
	ValidationInInvalid        = "validation_in_invalid"

	// Custom validation rules
	ValidationIsEmail    = "validation_is_email"
	ValidationIsPassword = "validation_is_password"
	ValidationIsName     = "validation_is_name"
)

// Field name keys
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldPasswordConfirm = "password_confirm"
	FieldFirstName       = "first_name"
	FieldLastName        = "last_name"
	FieldTerms           = "tos"
	FieldActivationKey   = "activation_key"

	// NonFieldKey groups violations that belong to the submission as a
	// whole rather than to a single field, e.g. a password pair mismatch.
	NonFieldKey = "form"
)

// Template argument keys used in localized messages ({{.Field}} etc).
const (
	ArgField        = "Field"
	ArgResourceType = "ResourceType"
)
