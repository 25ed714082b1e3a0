package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/signupd/signup-backend/internal/domain/account"
	"gitlab.com/signupd/signup-backend/internal/domain/activation"
	"gitlab.com/signupd/signup-backend/tests/integration/builders"
	"gitlab.com/signupd/signup-backend/tests/integration/fixtures"
	"gitlab.com/signupd/signup-backend/tests/mocks"
)

const testActivationWindow = 3 * 24 * time.Hour

type ActivateSuite struct {
	Handler  *ActivateHandler
	MockRepo *mocks.AccountRepo
}

func NewActivateSuite() *ActivateSuite {
	mockRepo := mocks.NewAccountRepo()
	handler := NewActivateHandler(ActivateHandlerArgs{
		ActivationWindow:     testActivationWindow,
		Repo:                 mockRepo,
		PostActivationTarget: "activation_complete",
	})

	return &ActivateSuite{
		Handler:  handler,
		MockRepo: mockRepo,
	}
}

func (s *ActivateSuite) seedPendingAccount(t *testing.T) (*account.Account, *activation.Record) {
	t.Helper()

	acc := builders.NewAccountBuilder().Build()
	rec := builders.NewActivationRecordBuilder().WithAccountID(acc.ID()).Build()
	s.MockRepo.SeedAccount(t, acc)
	s.MockRepo.SeedActivation(t, rec)

	return acc, rec
}

func TestActivateHandler_HappyPath(t *testing.T) {
	t.Parallel()

	s := NewActivateSuite()
	acc, rec := s.seedPendingAccount(t)

	res, err := s.Handler.Handle(t.Context(), Activate{Key: rec.Key()})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, acc.ID(), res.AccountID)
	assert.Equal(t, acc.Email(), res.Email)
	assert.Equal(t, "activation_complete", res.Next)

	s.MockRepo.
		AssertAccountExistsByID(t, acc.ID()).
		AssertActive(t, true)

	burned := s.MockRepo.RequireActivationRecord(t, acc.ID())
	assert.True(t, burned.IsActivated())

	s.MockRepo.AssertEventCount(t, 1)
	e := mocks.RequireEventExists(t, s.MockRepo.EventRepo, &account.AccountActivated{})
	assert.Equal(t, acc.ID(), e.AccountID)
	assert.Equal(t, acc.Email(), e.Email)
}

func TestActivateHandler_SecondUse_ShouldFail(t *testing.T) {
	t.Parallel()

	s := NewActivateSuite()
	acc, rec := s.seedPendingAccount(t)
	key := rec.Key()

	_, err := s.Handler.Handle(t.Context(), Activate{Key: key})
	require.NoError(t, err)

	res, err := s.Handler.Handle(t.Context(), Activate{Key: key})
	require.ErrorIs(t, err, ErrActivationNotFound)
	assert.Nil(t, res)

	s.MockRepo.
		AssertAccountExistsByID(t, acc.ID()).
		AssertActive(t, true)
	s.MockRepo.AssertEventCount(t, 1)
}

func TestActivateHandler_UnknownKey_ShouldFail(t *testing.T) {
	t.Parallel()

	s := NewActivateSuite()
	s.seedPendingAccount(t)

	res, err := s.Handler.Handle(t.Context(), Activate{Key: fixtures.UnknownActivationKey})
	require.ErrorIs(t, err, ErrActivationNotFound)
	assert.Nil(t, res)

	s.MockRepo.AssertEventCount(t, 0)
}

func TestActivateHandler_BadKeyFormat_ShouldFail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
	}{
		{name: "Empty Key", key: ""},
		{name: "Malformed Key", key: fixtures.MalformedActivationKey},
		{name: "Uppercase Hex", key: "F3A9C0D1E2B4A5968778695A4B3C2D1E0F9A8B7C"},
		{name: "Too Short", key: fixtures.ValidActivationKey[:39]},
		{name: "Sentinel Value", key: activation.SentinelActivated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewActivateSuite()
			s.seedPendingAccount(t)

			res, err := s.Handler.Handle(t.Context(), Activate{Key: tt.key})
			require.ErrorIs(t, err, ErrActivationNotFound)
			assert.Nil(t, res)

			s.MockRepo.AssertEventCount(t, 0)
		})
	}
}

func TestActivateHandler_ExpiredKey_ShouldFail(t *testing.T) {
	t.Parallel()

	s := NewActivateSuite()
	acc := builders.NewAccountBuilder().Build()
	rec := builders.NewActivationRecordBuilder().
		WithAccountID(acc.ID()).
		CreatedAgo(testActivationWindow + time.Hour).
		Build()
	s.MockRepo.SeedAccount(t, acc)
	s.MockRepo.SeedActivation(t, rec)

	res, err := s.Handler.Handle(t.Context(), Activate{Key: rec.Key()})
	require.ErrorIs(t, err, ErrActivationNotFound)
	assert.Nil(t, res)

	s.MockRepo.
		AssertAccountExistsByID(t, acc.ID()).
		AssertActive(t, false)

	// The key must stay live so a support path could still extend the
	// window server-side; expiry alone never burns it.
	kept := s.MockRepo.RequireActivationRecord(t, acc.ID())
	assert.False(t, kept.IsActivated())
	assert.Equal(t, rec.Key(), kept.Key())

	s.MockRepo.AssertEventCount(t, 0)
}

func TestActivateHandler_AccountAlreadyActive_ShouldFail(t *testing.T) {
	t.Parallel()

	s := NewActivateSuite()
	acc := builders.NewAccountBuilder().Activated().Build()
	rec := builders.NewActivationRecordBuilder().WithAccountID(acc.ID()).Build()
	s.MockRepo.SeedAccount(t, acc)
	s.MockRepo.SeedActivation(t, rec)

	res, err := s.Handler.Handle(t.Context(), Activate{Key: rec.Key()})
	require.ErrorIs(t, err, ErrActivationNotFound)
	assert.Nil(t, res)

	// Rolled back, the record's key is not burned by the failed attempt.
	kept := s.MockRepo.RequireActivationRecord(t, acc.ID())
	assert.False(t, kept.IsActivated())

	s.MockRepo.AssertEventCount(t, 0)
}
