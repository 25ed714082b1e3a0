package account

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/signupd/signup-backend/internal/domain/event"
)

func TestAccountID_JSONMarshaling(t *testing.T) {
	originalID := NewID()

	data, err := json.Marshal(originalID)
	require.NoError(t, err)

	// Should be marshaled as a string, not a byte array
	var str string
	err = json.Unmarshal(data, &str)
	require.NoError(t, err)
	assert.Equal(t, originalID.String(), str)

	var unmarshaledID ID
	err = json.Unmarshal(data, &unmarshaledID)
	require.NoError(t, err)
	assert.Equal(t, originalID, unmarshaledID)
}

func TestAccountRegisteredEvent_JSONMarshaling(t *testing.T) {
	originalEvent := &AccountRegistered{
		Header:        event.NewEventHeader(),
		Otel:          event.Otel{Carrier: map[string]string{"traceparent": "00-abc-def-01"}},
		AccountID:     NewID(),
		Email:         "test@example.com",
		FirstName:     "Test",
		LastName:      "Account",
		ActivationKey: "f3a9c0d1e2b4a5968778695a4b3c2d1e0f9a8b7c",
	}

	data, err := json.Marshal(originalEvent)
	require.NoError(t, err)

	var unmarshaledEvent AccountRegistered
	err = json.Unmarshal(data, &unmarshaledEvent)
	require.NoError(t, err)

	assert.Equal(t, originalEvent.AccountID, unmarshaledEvent.AccountID)
	assert.Equal(t, originalEvent.Email, unmarshaledEvent.Email)
	assert.Equal(t, originalEvent.FirstName, unmarshaledEvent.FirstName)
	assert.Equal(t, originalEvent.LastName, unmarshaledEvent.LastName)
	assert.Equal(t, originalEvent.ActivationKey, unmarshaledEvent.ActivationKey)
	assert.Equal(t, originalEvent.Carrier, unmarshaledEvent.Carrier, "trace carrier must survive the outbox roundtrip")
}

func TestAccountActivatedEvent_JSONMarshaling(t *testing.T) {
	originalEvent := &AccountActivated{
		Header:    event.NewEventHeader(),
		AccountID: NewID(),
		Email:     "test@example.com",
	}

	data, err := json.Marshal(originalEvent)
	require.NoError(t, err)

	var unmarshaledEvent AccountActivated
	err = json.Unmarshal(data, &unmarshaledEvent)
	require.NoError(t, err)

	assert.Equal(t, originalEvent.AccountID, unmarshaledEvent.AccountID)
	assert.Equal(t, originalEvent.Email, unmarshaledEvent.Email)
}

func TestEvents_StreamName(t *testing.T) {
	assert.Equal(t, EventStreamName, (&AccountRegistered{}).GetStreamName())
	assert.Equal(t, EventStreamName, (&AccountActivated{}).GetStreamName())
}
