package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/signupd/signup-backend/internal/adapters/repos/postgres"
	"gitlab.com/signupd/signup-backend/internal/domain/account"
	"gitlab.com/signupd/signup-backend/internal/domain/activation"
)

type Helper struct {
	pool    *pgxpool.Pool
	account *postgres.AccountRepo
}

type Args struct {
	Pool    *pgxpool.Pool
	Account *postgres.AccountRepo
}

func NewHelper(args Args) *Helper {
	if args.Pool == nil {
		panic("pgxpool.Pool is required")
	}
	if args.Account == nil {
		args.Account = postgres.NewAccountRepo(args.Pool)
	}

	return &Helper{
		pool:    args.Pool,
		account: args.Account,
	}
}

func (h *Helper) TruncateAll(t *testing.T) {
	t.Helper()

	tables := []string{
		"activation_records",
		"accounts",
	}

	ctx := context.Background()
	for _, table := range tables {
		_, err := h.pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "failed to truncate table %s", table)
	}
}

func (h *Helper) RequireAccountNotExists(t *testing.T, email string) {
	t.Helper()

	var count int
	err := h.pool.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM accounts WHERE lower(email) = lower($1)", email).Scan(&count)

	require.NoError(t, err)
	assert.Equal(t, 0, count, "expected no account for email %s, but found %d", email, count)
}

func (h *Helper) RequireAccountCount(t *testing.T, expected int) {
	t.Helper()

	var count int
	err := h.pool.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM accounts").Scan(&count)

	require.NoError(t, err)
	assert.Equal(t, expected, count, "unexpected account count")
}

// RequireAccountRow reads the raw row, bypassing the repository, so tests
// can assert on storage-level facts like the hash bytes.
func (h *Helper) RequireAccountRow(t *testing.T, email string) *AccountRowAssertion {
	t.Helper()

	var row AccountRow
	err := h.pool.QueryRow(context.Background(), `
        SELECT id, email, first_name, last_name, pass_hash, is_active, created_at, updated_at
        FROM accounts
        WHERE lower(email) = lower($1)`, email).
		Scan(&row.ID, &row.Email, &row.FirstName, &row.LastName,
			&row.PassHash, &row.IsActive, &row.CreatedAt, &row.UpdatedAt)
	require.NoError(t, err, "account row not found for email: %s", email)

	return &AccountRowAssertion{row: row, t: t, db: h}
}

func (h *Helper) RequireActivationRecord(t *testing.T, accountID uuid.UUID) *ActivationRecordAssertion {
	t.Helper()

	var row ActivationRecordRow
	err := h.pool.QueryRow(context.Background(), `
        SELECT account_id, activation_key, created_at, updated_at
        FROM activation_records
        WHERE account_id = $1`, accountID).
		Scan(&row.AccountID, &row.ActivationKey, &row.CreatedAt, &row.UpdatedAt)
	require.NoError(t, err, "activation record not found for account: %s", accountID)

	return &ActivationRecordAssertion{row: row, t: t, db: h}
}

// GetActivationKey returns the live key for the account registered with
// email. Tests use it to drive activation the way the emailed link would.
func (h *Helper) GetActivationKey(t *testing.T, email string) string {
	t.Helper()

	var key string
	err := h.pool.QueryRow(context.Background(), `
        SELECT r.activation_key
        FROM activation_records r
        JOIN accounts a ON a.id = r.account_id
        WHERE lower(a.email) = lower($1)`, email).Scan(&key)
	require.NoError(t, err, "no activation record for email: %s", email)

	return key
}

func (h *Helper) SeedAccount(t *testing.T, acc *account.Account, rec *activation.Record) {
	t.Helper()
	require.NoError(t, h.account.CreateAccountWithActivation(t.Context(), acc, rec))
}
