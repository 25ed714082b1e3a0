package cmd

import (
	"context"

	"gitlab.com/signupd/signup-backend/internal/domain/account"
	"gitlab.com/signupd/signup-backend/internal/domain/activation"
)

// Repo is the storage contract for the registration workflow.
//
// CreateAccountWithActivation persists the account and its activation
// record as one transaction; either both rows exist afterwards or
// neither does. An email uniqueness violation comes back as an errorx
// duplicate-entry error, so concurrent registrations for the same
// address resolve at the database, not in memory.
//
// UpdateByActivationKey loads the record with the given live key and
// its account under a row lock, applies fn, and persists both when fn
// succeeds. A missing key is an errorx not-found error.
type Repo interface {
	CreateAccountWithActivation(ctx context.Context, acc *account.Account, rec *activation.Record) error
	UpdateByActivationKey(ctx context.Context, key string, fn func(context.Context, *account.Account, *activation.Record) error) error
}
