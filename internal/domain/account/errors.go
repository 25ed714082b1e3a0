package account

import (
	"gitlab.com/signupd/signup-backend/pkg/apperr"
	"gitlab.com/signupd/signup-backend/pkg/errorx"
)

var (
	ErrMissingID            = errorx.NewValidationFieldFailed("id")
	ErrMissingEmail         = errorx.NewValidationFieldFailed("email")
	ErrEmailTooLong         = errorx.NewValidationFieldFailed("email")
	ErrMissingPassHash      = errorx.NewValidationFieldFailed("password_hash")
	ErrMissingFirstName     = errorx.NewValidationFieldFailed("first_name")
	ErrFirstNameTooLong     = errorx.NewValidationFieldFailed("first_name")
	ErrMissingLastName      = errorx.NewValidationFieldFailed("last_name")
	ErrLastNameTooLong      = errorx.NewValidationFieldFailed("last_name")
	ErrMissingActivationKey = errorx.NewValidationFieldFailed("activation_key")

	ErrAlreadyActivated = apperr.NewConflict("account is already activated")
)
