// Package event defines the contract aggregate events satisfy so the
// outbox can route them, plus the recorder aggregates embed to collect
// events until the owning transaction commits.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is implemented by every domain event. The stream name selects
// the outbox topic the event is published to.
type Event interface {
	GetEventHeader() Header
	GetStreamName() string
}

// Header identifies one event occurrence. Embed it in the event struct;
// the embedded value satisfies the header accessor of Event.
type Header struct {
	ID        uuid.UUID
	Timestamp time.Time
}

func (h *Header) GetEventHeader() Header {
	return *h
}

func NewEventHeader() Header {
	return Header{ID: uuid.New(), Timestamp: time.Now()}
}

// Recorder collects events an aggregate raises during one unit of work.
// A nil receiver is a no-op.
type Recorder struct {
	pending []Event
}

func (r *Recorder) AddEvent(ev Event) {
	if r == nil {
		return
	}
	r.pending = append(r.pending, ev)
}

func (r *Recorder) GetUncommittedEvents() []Event {
	if r == nil {
		return nil
	}
	return r.pending
}

func (r *Recorder) MarkEventsAsCommitted() {
	if r == nil {
		return
	}
	r.pending = nil
}
