package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"gitlab.com/signupd/signup-backend/internal/domain/activation"
)

type ActivationRecordRow struct {
	AccountID     uuid.UUID
	ActivationKey string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type ActivationRecordAssertion struct {
	row ActivationRecordRow
	t   *testing.T
	db  *Helper
}

func (a *ActivationRecordAssertion) AssertKey(expected string) *ActivationRecordAssertion {
	a.t.Helper()
	assert.Equal(a.t, expected, a.row.ActivationKey, "unexpected activation key")
	return a
}

// AssertKeyLive checks the record still carries an issuable key, one that
// matches the issued format and is not the consumed sentinel.
func (a *ActivationRecordAssertion) AssertKeyLive() *ActivationRecordAssertion {
	a.t.Helper()
	assert.True(a.t, activation.ValidKeyFormat(a.row.ActivationKey),
		"expected a live activation key, got %q", a.row.ActivationKey)
	return a
}

func (a *ActivationRecordAssertion) AssertKeyConsumed() *ActivationRecordAssertion {
	a.t.Helper()
	assert.Equal(a.t, activation.SentinelActivated, a.row.ActivationKey,
		"expected activation key to be replaced with the sentinel")
	return a
}

func (a *ActivationRecordAssertion) AssertCreatedWithin(d time.Duration) *ActivationRecordAssertion {
	a.t.Helper()
	assert.WithinDuration(a.t, time.Now(), a.row.CreatedAt, d, "unexpected record creation time")
	return a
}

func (a *ActivationRecordAssertion) GetKey() string {
	return a.row.ActivationKey
}
