package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

type AccountRow struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
	PassHash  []byte
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AccountRowAssertion struct {
	row AccountRow
	t   *testing.T
	db  *Helper
}

func (a *AccountRowAssertion) AssertEmail(expected string) *AccountRowAssertion {
	a.t.Helper()
	assert.Equal(a.t, expected, a.row.Email, "unexpected email")
	return a
}

func (a *AccountRowAssertion) AssertFullName(firstName, lastName string) *AccountRowAssertion {
	a.t.Helper()
	assert.Equal(a.t, firstName, a.row.FirstName, "unexpected first name")
	assert.Equal(a.t, lastName, a.row.LastName, "unexpected last name")
	return a
}

func (a *AccountRowAssertion) AssertActive() *AccountRowAssertion {
	a.t.Helper()
	assert.True(a.t, a.row.IsActive, "expected account to be active")
	return a
}

func (a *AccountRowAssertion) AssertInactive() *AccountRowAssertion {
	a.t.Helper()
	assert.False(a.t, a.row.IsActive, "expected account to be inactive")
	return a
}

// AssertPassword checks the stored hash against the plaintext, proving the
// password was hashed rather than stored as given.
func (a *AccountRowAssertion) AssertPassword(plaintext string) *AccountRowAssertion {
	a.t.Helper()
	assert.NotEqual(a.t, []byte(plaintext), a.row.PassHash, "password stored in plaintext")
	err := bcrypt.CompareHashAndPassword(a.row.PassHash, []byte(plaintext))
	assert.NoError(a.t, err, "stored hash does not match password")
	return a
}

func (a *AccountRowAssertion) ActivationRecord() *ActivationRecordAssertion {
	a.t.Helper()
	return a.db.RequireActivationRecord(a.t, a.row.ID)
}

func (a *AccountRowAssertion) GetID() uuid.UUID {
	return a.row.ID
}
