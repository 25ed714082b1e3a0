package mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"gitlab.com/signupd/signup-backend/internal/domain/account"
	"gitlab.com/signupd/signup-backend/internal/domain/activation"
	"gitlab.com/signupd/signup-backend/pkg/errorx"
)

type AccountRepo struct {
	*EventRepo
	dbbyEmail map[string]*account.Account
	dbbyID    map[account.ID]*account.Account
	recbyKey  map[string]*activation.Record
	recbyAcc  map[account.ID]*activation.Record
	mu        sync.Mutex
}

func NewAccountRepo() *AccountRepo {
	return &AccountRepo{
		EventRepo: NewEventRepo(),
		dbbyEmail: make(map[string]*account.Account),
		dbbyID:    make(map[account.ID]*account.Account),
		recbyKey:  make(map[string]*activation.Record),
		recbyAcc:  make(map[account.ID]*activation.Record),
		mu:        sync.Mutex{},
	}
}

func (r *AccountRepo) CreateAccountWithActivation(ctx context.Context, acc *account.Account, rec *activation.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if acc == nil {
		return errors.New("account cannot be nil")
	}
	if rec == nil {
		return errors.New("activation record cannot be nil")
	}

	if _, exists := r.dbbyEmail[strings.ToLower(acc.Email())]; exists {
		return errorx.NewDuplicateEntryWithField("account", "email")
	}

	if _, exists := r.dbbyID[acc.ID()]; exists {
		return errorx.NewDuplicateEntry()
	}

	r.dbbyEmail[strings.ToLower(acc.Email())] = acc
	r.dbbyID[acc.ID()] = acc
	r.recbyKey[rec.Key()] = rec
	r.recbyAcc[rec.AccountID()] = rec

	r.appendEvents(acc.GetUncommittedEvents()...)

	return nil
}

func (r *AccountRepo) UpdateByActivationKey(
	ctx context.Context,
	key string,
	fn func(context.Context, *account.Account, *activation.Record) error,
) error {
	if fn == nil {
		return errors.New("update function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.recbyKey[key]
	if !exists {
		return errorx.NewNotFound()
	}

	acc, exists := r.dbbyID[rec.AccountID()]
	if !exists {
		return errorx.NewNotFound()
	}

	// Mutations run on copies and are swapped in only on success,
	// mirroring the rollback of the real repository's transaction.
	accCopy := cloneAccount(acc)
	recCopy := cloneRecord(rec)

	if fnerr := fn(ctx, accCopy, recCopy); fnerr != nil {
		return fmt.Errorf("failed to apply update function: %w", fnerr)
	}

	r.dbbyID[accCopy.ID()] = accCopy
	r.dbbyEmail[strings.ToLower(accCopy.Email())] = accCopy
	r.recbyAcc[recCopy.AccountID()] = recCopy
	if recCopy.Key() != key {
		delete(r.recbyKey, key)
		if activation.ValidKeyFormat(recCopy.Key()) {
			r.recbyKey[recCopy.Key()] = recCopy
		}
	}

	r.appendEvents(accCopy.GetUncommittedEvents()...)

	return nil
}

func (r *AccountRepo) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.dbbyEmail[strings.ToLower(email)]
	return exists, nil
}

func (r *AccountRepo) GetAccountByEmail(ctx context.Context, email string) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if acc, exists := r.dbbyEmail[strings.ToLower(email)]; exists {
		return acc, nil
	}
	return nil, errorx.NewNotFound()
}

func (r *AccountRepo) GetAccountByID(ctx context.Context, id account.ID) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if acc, exists := r.dbbyID[id]; exists {
		return acc, nil
	}
	return nil, errorx.NewNotFound()
}

func (r *AccountRepo) GetActivationRecordByAccount(ctx context.Context, id account.ID) (*activation.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, exists := r.recbyAcc[id]; exists {
		return rec, nil
	}
	return nil, errorx.NewNotFound()
}

func (r *AccountRepo) SeedAccount(t *testing.T, acc *account.Account) {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.dbbyEmail[strings.ToLower(acc.Email())]; exists {
		t.Fatalf("account with email %s already exists", acc.Email())
	}

	if _, exists := r.dbbyID[acc.ID()]; exists {
		t.Fatalf("account with ID %s already exists", acc.ID())
	}

	r.dbbyEmail[strings.ToLower(acc.Email())] = acc
	r.dbbyID[acc.ID()] = acc

	r.appendEvents(acc.GetUncommittedEvents()...)
}

func (r *AccountRepo) SeedActivation(t *testing.T, rec *activation.Record) {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.recbyAcc[rec.AccountID()]; exists {
		t.Fatalf("activation record for account %s already exists", rec.AccountID())
	}

	r.recbyAcc[rec.AccountID()] = rec
	if activation.ValidKeyFormat(rec.Key()) {
		r.recbyKey[rec.Key()] = rec
	}
}

func (r *AccountRepo) AssertAccountExistsByEmail(t *testing.T, email string) *account.AccountAssertions {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	acc, exists := r.dbbyEmail[strings.ToLower(email)]
	if !exists {
		t.Errorf("expected account with email %s to exist, but it does not", email)
		return nil
	}

	return account.NewAccountAssertions(acc)
}

func (r *AccountRepo) AssertAccountNotExistsByEmail(t *testing.T, email string) *AccountRepo {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.dbbyEmail[strings.ToLower(email)]; exists {
		t.Errorf("expected account with email %s to not exist, but it does", email)
	}

	return r
}

func (r *AccountRepo) AssertAccountExistsByID(t *testing.T, id account.ID) *account.AccountAssertions {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	acc, exists := r.dbbyID[id]
	if !exists {
		t.Errorf("expected account with ID %s to exist, but it does not", id)
		return nil
	}

	return account.NewAccountAssertions(acc)
}

// RequireActivationRecord fetches the record for an account, failing the
// test if none exists. Records survive activation, so this works both
// before and after the key is used.
func (r *AccountRepo) RequireActivationRecord(t *testing.T, id account.ID) *activation.Record {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.recbyAcc[id]
	if !exists {
		t.Fatalf("expected activation record for account %s to exist, but it does not", id)
	}

	return rec
}

func cloneAccount(acc *account.Account) *account.Account {
	return account.Rehydrate(account.RehydrateArgs{
		ID:        acc.ID(),
		Email:     acc.Email(),
		FirstName: acc.FirstName(),
		LastName:  acc.LastName(),
		PassHash:  acc.PassHash(),
		Active:    acc.IsActive(),
		CreatedAt: acc.CreatedAt(),
		UpdatedAt: acc.UpdatedAt(),
	})
}

func cloneRecord(rec *activation.Record) *activation.Record {
	return activation.Rehydrate(activation.RehydrateArgs{
		AccountID: rec.AccountID(),
		Key:       rec.Key(),
		CreatedAt: rec.CreatedAt(),
		UpdatedAt: rec.UpdatedAt(),
	})
}
