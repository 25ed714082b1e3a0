package event

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/signupd/signup-backend/internal/domain/account"
)

// Event type names as the JSON marshaler writes them into message metadata.
const (
	AccountRegisteredName = "account.AccountRegistered"
	AccountActivatedName  = "account.AccountActivated"
)

const (
	eventsTable      = "watermill_" + account.EventStreamName
	countByTypeQuery = "SELECT COUNT(*) FROM " + eventsTable + " WHERE metadata->>'name' = $1"
)

// Helper inspects the outbox tables directly, so tests can assert on
// published events without standing up a subscriber.
type Helper struct {
	pool *pgxpool.Pool
}

func NewHelper(pool *pgxpool.Pool) *Helper {
	return &Helper{pool: pool}
}

// WaitForEvent polls the outbox until an event of the given type appears or
// the timeout passes.
func (h *Helper) WaitForEvent(t *testing.T, eventType string, timeout time.Duration) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("timeout waiting for event %s", eventType)
		case <-ticker.C:
			// scan errors are expected while the outbox table is still
			// being created, so they count as "not yet"
			var count int
			_ = h.pool.QueryRow(context.Background(), countByTypeQuery, eventType).Scan(&count)
			if count > 0 {
				return
			}
		}
	}
}

func (h *Helper) AssertEventCount(t *testing.T, eventType string, expected int) {
	t.Helper()

	var count int
	err := h.pool.QueryRow(context.Background(), countByTypeQuery, eventType).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, expected, count, "unexpected %s event count", eventType)
}

func (h *Helper) AssertNoEvent(t *testing.T, eventType string) {
	t.Helper()
	h.AssertEventCount(t, eventType, 0)
}

// latestPayload waits for at least one event of the given type and returns
// the payload of the newest one.
func (h *Helper) latestPayload(t *testing.T, eventType string) json.RawMessage {
	t.Helper()

	h.WaitForEvent(t, eventType, 5*time.Second)

	query := `
        SELECT payload FROM ` + eventsTable + `
        WHERE metadata->>'name' = $1
        ORDER BY "offset" DESC
        LIMIT 1;
    `

	var payload json.RawMessage
	err := h.pool.QueryRow(context.Background(), query, eventType).Scan(&payload)
	require.NoError(t, err, "event %s not found", eventType)
	return payload
}

func (h *Helper) AssertAccountRegisteredEvent(t *testing.T, email string) *AccountRegisteredAssertion {
	t.Helper()

	var e account.AccountRegistered
	require.NoError(t, json.Unmarshal(h.latestPayload(t, AccountRegisteredName), &e))
	assert.Equal(t, email, e.Email, "unexpected email in AccountRegistered event")

	return &AccountRegisteredAssertion{t: t, event: e}
}

func (h *Helper) AssertAccountActivatedEvent(t *testing.T, email string) {
	t.Helper()

	var e account.AccountActivated
	require.NoError(t, json.Unmarshal(h.latestPayload(t, AccountActivatedName), &e))
	assert.Equal(t, email, e.Email, "unexpected email in AccountActivated event")
}

type AccountRegisteredAssertion struct {
	t     *testing.T
	event account.AccountRegistered
}

func (a *AccountRegisteredAssertion) HasName(firstName, lastName string) *AccountRegisteredAssertion {
	a.t.Helper()
	assert.Equal(a.t, firstName, a.event.FirstName, "unexpected first name in event")
	assert.Equal(a.t, lastName, a.event.LastName, "unexpected last name in event")
	return a
}

// HasActivationKey checks the event carries the same key the store holds,
// the one the mailed link is built from.
func (a *AccountRegisteredAssertion) HasActivationKey(expected string) *AccountRegisteredAssertion {
	a.t.Helper()
	assert.Equal(a.t, expected, a.event.ActivationKey, "unexpected activation key in event")
	return a
}

func (h *Helper) ClearAllEvents(t *testing.T) {
	t.Helper()

	for _, table := range []string{
		eventsTable,
		"watermill_offsets_" + account.EventStreamName,
	} {
		_, err := h.pool.Exec(context.Background(), "TRUNCATE TABLE "+table)
		require.NoError(t, err)
	}
}
