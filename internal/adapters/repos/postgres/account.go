package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"

	"gitlab.com/signupd/signup-backend/internal/domain/account"
	"gitlab.com/signupd/signup-backend/internal/domain/activation"
	"gitlab.com/signupd/signup-backend/pkg/errorx"
	"gitlab.com/signupd/signup-backend/pkg/otelx"
	"gitlab.com/signupd/signup-backend/pkg/postgres"
	"gitlab.com/signupd/signup-backend/pkg/watermillx"
)

// accountsEmailUniqueIdx is the unique index on lower(email). Its
// violation is the only duplicate the API reports as a duplicate email;
// any other unique violation is surfaced as a generic conflict.
const accountsEmailUniqueIdx = "accounts_email_unique_idx"

var (
	ErrNoRowsAffected = errors.New("no rows affected")
	ErrNilFunc        = errors.New("update function cannot be nil")
)

var (
	tracer  = otel.Tracer("signupd/internal/adapters/repos/postgres")
	wlogger = watermill.NewSlogLogger(otelslog.NewLogger("signupd/internal/adapters/repos/postgres"))
)

type AccountRepo struct {
	pool *pgxpool.Pool
}

// NewAccountRepo panics if pool is nil.
func NewAccountRepo(pool *pgxpool.Pool) *AccountRepo {
	if pool == nil {
		panic("pgxpool.Pool cannot be nil")
	}
	return &AccountRepo{pool: pool}
}

// CreateAccountWithActivation persists the account and its activation
// record in one transaction, together with the account's recorded events.
// Either all three land or none do.
func (re *AccountRepo) CreateAccountWithActivation(ctx context.Context, acc *account.Account, rec *activation.Record) error {
	ctx, span := tracer.Start(ctx, "AccountRepo.CreateAccountWithActivation")
	defer span.End()

	accDTO := DomainToAccountDTO(acc)
	recDTO := DomainToActivationRecordDTO(rec)

	insertAccount := `
        INSERT INTO accounts (id, email, first_name, last_name, pass_hash, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
    `
	insertRecord := `
        INSERT INTO activation_records (account_id, activation_key, created_at, updated_at)
        VALUES ($1, $2, $3, $4);
    `

	return postgres.WithTx(ctx, re.pool, func(ctx context.Context, tx pgx.Tx) error {
		res, err := tx.Exec(ctx, insertAccount,
			accDTO.ID, accDTO.Email, accDTO.FirstName, accDTO.LastName,
			accDTO.PassHash, accDTO.IsActive, accDTO.CreatedAt, accDTO.UpdatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				span.AddEvent("duplicate account insert")
				if pgErr.ConstraintName == accountsEmailUniqueIdx {
					return errorx.NewDuplicateEntryWithField("account", "email").WithCause(err)
				}
				return errorx.NewDuplicateEntry().WithCause(err)
			}
			otelx.RecordSpanError(span, err, "failed to insert account")
			return err
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, ErrNoRowsAffected, "no rows affected when inserting account")
			return fmt.Errorf("failed to insert account: %w", ErrNoRowsAffected)
		}

		res, err = tx.Exec(ctx, insertRecord,
			recDTO.AccountID, recDTO.ActivationKey, recDTO.CreatedAt, recDTO.UpdatedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to insert activation record")
			return err
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, ErrNoRowsAffected, "no rows affected when inserting activation record")
			return fmt.Errorf("failed to insert activation record: %w", ErrNoRowsAffected)
		}

		if events := acc.GetUncommittedEvents(); len(events) > 0 {
			if err := watermillx.Publish(ctx, tx, wlogger, events...); err != nil {
				otelx.RecordSpanError(span, err, "failed to publish events")
				return err
			}
		}
		return nil
	})
}

// UpdateByActivationKey loads the activation record with its account,
// both locked for update, runs fn on them and writes the result back.
// Any error from fn rolls the whole transaction back. A consumed key no
// longer matches its record, so it comes back as not found.
func (re *AccountRepo) UpdateByActivationKey(
	ctx context.Context,
	key string,
	fn func(ctx context.Context, acc *account.Account, rec *activation.Record) error,
) error {
	ctx, span := tracer.Start(ctx, "AccountRepo.UpdateByActivationKey")
	defer span.End()
	if fn == nil {
		otelx.RecordSpanError(span, ErrNilFunc, "update function cannot be nil")
		return ErrNilFunc
	}

	selectquery := `
        SELECT a.id, a.email, a.first_name, a.last_name, a.pass_hash, a.is_active, a.created_at, a.updated_at,
               r.account_id, r.activation_key, r.created_at, r.updated_at
        FROM activation_records r
        JOIN accounts a ON a.id = r.account_id
        WHERE r.activation_key = $1
        FOR UPDATE;
    `
	updateAccount := `
        UPDATE accounts
        SET email = $2, first_name = $3, last_name = $4, pass_hash = $5,
            is_active = $6, updated_at = $7
        WHERE id = $1;
    `
	updateRecord := `
        UPDATE activation_records
        SET activation_key = $2, updated_at = $3
        WHERE account_id = $1;
    `

	return postgres.WithTx(ctx, re.pool, func(ctx context.Context, tx pgx.Tx) error {
		var accDTO AccountDTO
		var recDTO ActivationRecordDTO
		err := tx.QueryRow(ctx, selectquery, key).Scan(
			&accDTO.ID, &accDTO.Email, &accDTO.FirstName, &accDTO.LastName,
			&accDTO.PassHash, &accDTO.IsActive, &accDTO.CreatedAt, &accDTO.UpdatedAt,
			&recDTO.AccountID, &recDTO.ActivationKey, &recDTO.CreatedAt, &recDTO.UpdatedAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				span.AddEvent("no activation record for key")
				return errorx.NewNotFound().WithCause(err)
			}
			otelx.RecordSpanError(span, err, "failed to get account by activation key")
			return err
		}

		acc := AccountToDomain(accDTO)
		rec := ActivationRecordToDomain(recDTO)

		if fnerr := fn(ctx, acc, rec); fnerr != nil {
			return fnerr
		}

		accDTO = DomainToAccountDTO(acc)
		recDTO = DomainToActivationRecordDTO(rec)

		res, err := tx.Exec(ctx, updateAccount,
			accDTO.ID, accDTO.Email, accDTO.FirstName, accDTO.LastName,
			accDTO.PassHash, accDTO.IsActive, accDTO.UpdatedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to update account")
			return err
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, ErrNoRowsAffected, "no rows affected when updating account")
			return fmt.Errorf("failed to update account: %w", ErrNoRowsAffected)
		}

		res, err = tx.Exec(ctx, updateRecord,
			recDTO.AccountID, recDTO.ActivationKey, recDTO.UpdatedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to update activation record")
			return err
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, ErrNoRowsAffected, "no rows affected when updating activation record")
			return fmt.Errorf("failed to update activation record: %w", ErrNoRowsAffected)
		}

		if events := acc.GetUncommittedEvents(); len(events) > 0 {
			if err := watermillx.Publish(ctx, tx, wlogger, events...); err != nil {
				otelx.RecordSpanError(span, err, "failed to publish events")
				return err
			}
		}
		return nil
	})
}

func (re *AccountRepo) GetAccountByEmail(ctx context.Context, email string) (*account.Account, error) {
	ctx, span := tracer.Start(ctx, "AccountRepo.GetAccountByEmail")
	defer span.End()

	query := `
        SELECT id, email, first_name, last_name, pass_hash, is_active, created_at, updated_at
        FROM accounts
        WHERE lower(email) = lower($1);
    `

	var dto AccountDTO
	err := re.pool.QueryRow(ctx, query, email).Scan(
		&dto.ID, &dto.Email, &dto.FirstName, &dto.LastName,
		&dto.PassHash, &dto.IsActive, &dto.CreatedAt, &dto.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorx.NewNotFound().WithCause(err)
		}
		otelx.RecordSpanError(span, err, "failed to get account by email")
		return nil, err
	}

	return AccountToDomain(dto), nil
}

func (re *AccountRepo) GetAccountByID(ctx context.Context, id account.ID) (*account.Account, error) {
	ctx, span := tracer.Start(ctx, "AccountRepo.GetAccountByID")
	defer span.End()

	query := `
        SELECT id, email, first_name, last_name, pass_hash, is_active, created_at, updated_at
        FROM accounts
        WHERE id = $1;
    `

	var dto AccountDTO
	err := re.pool.QueryRow(ctx, query, uuid.UUID(id)).Scan(
		&dto.ID, &dto.Email, &dto.FirstName, &dto.LastName,
		&dto.PassHash, &dto.IsActive, &dto.CreatedAt, &dto.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorx.NewNotFound().WithCause(err)
		}
		otelx.RecordSpanError(span, err, "failed to get account by id")
		return nil, err
	}

	return AccountToDomain(dto), nil
}

// IsEmailTaken backs the registration form's advisory availability check.
func (re *AccountRepo) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	ctx, span := tracer.Start(ctx, "AccountRepo.IsEmailTaken")
	defer span.End()

	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE lower(email) = lower($1));`

	var taken bool
	if err := re.pool.QueryRow(ctx, query, email).Scan(&taken); err != nil {
		otelx.RecordSpanError(span, err, "failed to check email availability")
		return false, err
	}

	return taken, nil
}

func (re *AccountRepo) GetActivationRecordByAccount(ctx context.Context, id account.ID) (*activation.Record, error) {
	ctx, span := tracer.Start(ctx, "AccountRepo.GetActivationRecordByAccount")
	defer span.End()

	query := `
        SELECT account_id, activation_key, created_at, updated_at
        FROM activation_records
        WHERE account_id = $1;
    `

	var dto ActivationRecordDTO
	err := re.pool.QueryRow(ctx, query, uuid.UUID(id)).Scan(
		&dto.AccountID, &dto.ActivationKey, &dto.CreatedAt, &dto.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorx.NewNotFound().WithCause(err)
		}
		otelx.RecordSpanError(span, err, "failed to get activation record")
		return nil, err
	}

	return ActivationRecordToDomain(dto), nil
}
