// Package validationx holds the ozzo validation rules shared by the
// registration form and the HTTP request decoders.
package validationx

import (
	"errors"
	"regexp"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var ErrInvalidPasswordFormat = validation.NewError(
	"validation_is_password",
	"must be at least 8 characters long and contain an uppercase letter, a lowercase letter, a digit, and a special character",
)

var ErrInvalidNameFormat = validation.NewError(
	"validation_is_name",
	"must contain only letters, spaces, hyphens, apostrophes, and periods",
)

var PasswordFormat = PasswordFormatRule{}

// Unicode letters and marks, spaces, hyphens, apostrophes, periods.
var nameRegex = regexp.MustCompile(`^[\p{L}\p{M}\s'\-\.]+$`)

// IsPersonName accepts names in any script. Emptiness is left to
// Required so the two rules report separately.
var IsPersonName = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !nameRegex.MatchString(s) {
		return ErrInvalidNameFormat
	}

	return nil
})

type PasswordFormatRule struct{}

// Validate checks length and character classes. Only ASCII letters and
// digits count toward their classes; any rune outside the recognized
// classes fails the whole password.
func (r PasswordFormatRule) Validate(value any) error {
	password, ok := value.(string)
	if !ok {
		return errors.New("value is not a string")
	}

	if len(password) < 8 {
		return ErrInvalidPasswordFormat
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, char := range password {
		switch {
		case char >= 'a' && char <= 'z':
			hasLower = true
		case char >= 'A' && char <= 'Z':
			hasUpper = true
		case char >= '0' && char <= '9':
			hasDigit = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		default:
			return ErrInvalidPasswordFormat
		}
	}

	if !hasLower || !hasUpper || !hasDigit || !hasSpecial {
		return ErrInvalidPasswordFormat
	}

	return nil
}
