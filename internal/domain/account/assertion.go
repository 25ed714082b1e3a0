package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gitlab.com/signupd/signup-backend/internal/domain/event"
)

type AccountAssertions struct {
	ID        ID
	Email     string
	FirstName string
	LastName  string
	PassHash  []byte
	Active    bool
	Events    []event.Event
}

func NewAccountAssertions(a *Account) *AccountAssertions {
	return &AccountAssertions{
		ID:        a.ID(),
		Email:     a.Email(),
		FirstName: a.FirstName(),
		LastName:  a.LastName(),
		PassHash:  a.PassHash(),
		Active:    a.IsActive(),
		Events:    a.GetUncommittedEvents(),
	}
}

func (a *AccountAssertions) AssertByNewArgs(t *testing.T, args NewAccountArgs) *AccountAssertions {
	t.Helper()
	assert.Equal(t, args.ID, a.ID, "ID mismatch")
	assert.Equal(t, args.Email, a.Email, "Email mismatch")
	assert.Equal(t, args.FirstName, a.FirstName, "FirstName mismatch")
	assert.Equal(t, args.LastName, a.LastName, "LastName mismatch")
	assert.Equal(t, args.PassHash, a.PassHash, "PassHash mismatch")
	assert.False(t, a.Active, "fresh account must be inactive")

	require.Len(t, a.Events, 1, "expected one event")
	assert.IsType(t, &AccountRegistered{}, a.Events[0], "expected AccountRegistered event type")
	registeredEvent := a.Events[0].(*AccountRegistered)
	assert.Equal(t, args.ID, registeredEvent.AccountID, "AccountID in event mismatch")
	assert.Equal(t, args.Email, registeredEvent.Email, "Email in event mismatch")
	assert.Equal(t, args.FirstName, registeredEvent.FirstName, "FirstName in event mismatch")
	assert.Equal(t, args.LastName, registeredEvent.LastName, "LastName in event mismatch")
	assert.Equal(t, args.ActivationKey, registeredEvent.ActivationKey, "ActivationKey in event mismatch")

	return a
}

func (a *AccountAssertions) AssertID(t *testing.T, expected ID) *AccountAssertions {
	t.Helper()
	assert.Equal(t, expected, a.ID, "ID mismatch")
	return a
}

func (a *AccountAssertions) AssertEmail(t *testing.T, expected string) *AccountAssertions {
	t.Helper()
	assert.Equal(t, expected, a.Email, "Email mismatch")
	return a
}

func (a *AccountAssertions) AssertFirstName(t *testing.T, expected string) *AccountAssertions {
	t.Helper()
	assert.Equal(t, expected, a.FirstName, "FirstName mismatch")
	return a
}

func (a *AccountAssertions) AssertLastName(t *testing.T, expected string) *AccountAssertions {
	t.Helper()
	assert.Equal(t, expected, a.LastName, "LastName mismatch")
	return a
}

func (a *AccountAssertions) AssertActive(t *testing.T, expected bool) *AccountAssertions {
	t.Helper()
	assert.Equal(t, expected, a.Active, "Active mismatch")
	return a
}

func (a *AccountAssertions) AssertPassword(t *testing.T, expected string) *AccountAssertions {
	t.Helper()
	err := bcrypt.CompareHashAndPassword(a.PassHash, []byte(expected))
	assert.NoError(t, err, "PassHash mismatch")
	return a
}

func (a *AccountAssertions) AssertPassHash(t *testing.T, expected []byte) *AccountAssertions {
	t.Helper()
	assert.Equal(t, expected, a.PassHash, "PassHash mismatch")
	return a
}

func (a *AccountAssertions) AssertEventsCount(t *testing.T, expected int) *AccountAssertions {
	t.Helper()
	assert.Len(t, a.Events, expected, "events count mismatch")
	return a
}

type AccountRegisteredAssertions struct {
	t     *testing.T
	event *AccountRegistered
}

func NewAccountRegisteredAssertions(t *testing.T, event *AccountRegistered) *AccountRegisteredAssertions {
	return &AccountRegisteredAssertions{
		t:     t,
		event: event,
	}
}

func (a *AccountRegisteredAssertions) AssertAccountID(expected ID) *AccountRegisteredAssertions {
	a.t.Helper()
	assert.Equal(a.t, expected, a.event.AccountID, "AccountID mismatch")
	return a
}

func (a *AccountRegisteredAssertions) AssertEmail(expected string) *AccountRegisteredAssertions {
	a.t.Helper()
	assert.Equal(a.t, expected, a.event.Email, "Email mismatch")
	return a
}

func (a *AccountRegisteredAssertions) AssertFirstName(expected string) *AccountRegisteredAssertions {
	a.t.Helper()
	assert.Equal(a.t, expected, a.event.FirstName, "FirstName mismatch")
	return a
}

func (a *AccountRegisteredAssertions) AssertLastName(expected string) *AccountRegisteredAssertions {
	a.t.Helper()
	assert.Equal(a.t, expected, a.event.LastName, "LastName mismatch")
	return a
}

func (a *AccountRegisteredAssertions) AssertActivationKey(expected string) *AccountRegisteredAssertions {
	a.t.Helper()
	assert.Equal(a.t, expected, a.event.ActivationKey, "ActivationKey mismatch")
	return a
}
