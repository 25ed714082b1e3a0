package builders

import (
	"time"

	"gitlab.com/signupd/signup-backend/internal/domain/account"
	"gitlab.com/signupd/signup-backend/internal/domain/activation"
	"gitlab.com/signupd/signup-backend/tests/integration/fixtures"
)

type ActivationFactory struct{}

func (f *ActivationFactory) For(accountID account.ID) *activation.Record {
	return NewActivationRecordBuilder().WithAccountID(accountID).Build()
}

func (f *ActivationFactory) Used(accountID account.ID) *activation.Record {
	return NewActivationRecordBuilder().WithAccountID(accountID).AlreadyUsed().Build()
}

type ActivationRecordBuilder struct {
	accountID account.ID
	key       string
	createdAt time.Time
	updatedAt time.Time
}

func NewActivationRecordBuilder() *ActivationRecordBuilder {
	now := time.Now()

	return &ActivationRecordBuilder{
		accountID: fixtures.TestAccount.ID,
		key:       fixtures.ValidActivationKey,
		createdAt: now,
		updatedAt: now,
	}
}

func (b *ActivationRecordBuilder) WithAccountID(accountID account.ID) *ActivationRecordBuilder {
	b.accountID = accountID
	return b
}

func (b *ActivationRecordBuilder) WithKey(key string) *ActivationRecordBuilder {
	b.key = key
	return b
}

// AlreadyUsed replaces the key with the sentinel, like a record whose key
// has been consumed.
func (b *ActivationRecordBuilder) AlreadyUsed() *ActivationRecordBuilder {
	b.key = activation.SentinelActivated
	return b
}

func (b *ActivationRecordBuilder) WithCreatedAt(t time.Time) *ActivationRecordBuilder {
	b.createdAt = t
	return b
}

// CreatedAgo backdates the record, for expiry scenarios.
func (b *ActivationRecordBuilder) CreatedAgo(d time.Duration) *ActivationRecordBuilder {
	b.createdAt = time.Now().Add(-d)
	return b
}

func (b *ActivationRecordBuilder) Build() *activation.Record {
	return activation.Rehydrate(activation.RehydrateArgs{
		AccountID: b.accountID,
		Key:       b.key,
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
	})
}

func (b *ActivationRecordBuilder) BuildNew() (*activation.Record, error) {
	return activation.NewRecord(b.accountID)
}
