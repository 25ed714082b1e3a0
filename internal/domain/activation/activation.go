package activation

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"gitlab.com/signupd/signup-backend/internal/domain/account"
	"gitlab.com/signupd/signup-backend/pkg/randcode"
)

const (
	// KeyByteLen random bytes hex-encode to a KeyLen character key.
	KeyByteLen = 20
	KeyLen     = 40

	// SentinelActivated replaces the key once it has been used. It can
	// never collide with a live key: keys are lowercase hex only.
	SentinelActivated = "ALREADY_ACTIVATED"
)

var keyPattern = regexp.MustCompile(`^[a-f0-9]{40}$`)

var (
	ErrMissingAccountID = errors.New("activation record requires an account id")
	ErrKeyAlreadyUsed   = errors.New("activation key already used")
)

// ValidKeyFormat reports whether s looks like an issued activation key.
// The sentinel value intentionally fails this check, so lookups by key
// can never match an already activated record.
func ValidKeyFormat(s string) bool {
	return keyPattern.MatchString(s)
}

// Record ties a single-use activation key to an account. A record is
// created together with its account, is never deleted, and its key is
// overwritten with SentinelActivated on use.
type Record struct {
	accountID account.ID
	key       string
	createdAt time.Time
	updatedAt time.Time
}

func NewRecord(accountID account.ID) (*Record, error) {
	if accountID.IsZero() {
		return nil, ErrMissingAccountID
	}

	key, err := randcode.GenerateHexToken(KeyByteLen)
	if err != nil {
		return nil, fmt.Errorf("failed to generate activation key: %w", err)
	}

	now := time.Now().UTC()

	return &Record{
		accountID: accountID,
		key:       key,
		createdAt: now,
		updatedAt: now,
	}, nil
}

type RehydrateArgs struct {
	AccountID account.ID
	Key       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func Rehydrate(p RehydrateArgs) *Record {
	return &Record{
		accountID: p.AccountID,
		key:       p.Key,
		createdAt: p.CreatedAt,
		updatedAt: p.UpdatedAt,
	}
}

// Expired reports whether the record's key is past its activation window
// at the given instant. A record exactly window old is already expired.
func (r *Record) Expired(window time.Duration, now time.Time) bool {
	if r == nil || r.createdAt.IsZero() {
		return true
	}
	return !now.Before(r.createdAt.Add(window))
}

// MarkActivated burns the key, replacing it with the sentinel. It fails
// on a second call; keys are strictly single-use.
func (r *Record) MarkActivated() error {
	if r == nil {
		return errors.New("activation record is nil")
	}
	if r.key == SentinelActivated {
		return ErrKeyAlreadyUsed
	}

	r.key = SentinelActivated
	r.updatedAt = time.Now().UTC()
	return nil
}

func (r *Record) IsActivated() bool {
	if r == nil {
		return false
	}
	return r.key == SentinelActivated
}

func (r *Record) AccountID() account.ID {
	if r == nil {
		return account.ID{}
	}
	return r.accountID
}

func (r *Record) Key() string {
	if r == nil {
		return ""
	}
	return r.key
}

func (r *Record) CreatedAt() time.Time {
	if r == nil {
		return time.Time{}
	}
	return r.createdAt
}

func (r *Record) UpdatedAt() time.Time {
	if r == nil {
		return time.Time{}
	}
	return r.updatedAt
}
