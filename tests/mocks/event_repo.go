package mocks

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.com/signupd/signup-backend/internal/domain/event"
)

// EventRepo captures the events the account mock would have published,
// so command tests can assert on them without a running outbox.
type EventRepo struct {
	mu     sync.Mutex
	events []event.Event
}

func NewEventRepo() *EventRepo {
	return &EventRepo{}
}

func (r *EventRepo) appendEvents(events ...event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, events...)
}

func (r *EventRepo) AssertEventCount(t *testing.T, expected int) *EventRepo {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	if got := len(r.events); got != expected {
		t.Errorf("captured %d events, want %d", got, expected)
	}

	return r
}

// RequireEventExists returns the first captured event of e's type and
// fails the test if none was recorded.
func RequireEventExists[T event.Event](t *testing.T, r *EventRepo, e T) T {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ev := range r.events {
		if sameEventType(ev, e) {
			assert.NotEmpty(t, ev.GetEventHeader(), "captured event must carry a header")
			return ev.(T)
		}
	}

	t.Fatalf("no %T was captured", e)

	return *new(T)
}

func sameEventType(a, b event.Event) bool {
	return fmt.Sprintf("%T", a) == fmt.Sprintf("%T", b)
}
