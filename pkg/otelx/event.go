package otelx

import "context"

// TracePropagator is implemented by events that can absorb the current
// trace context before they are serialized into the outbox.
type TracePropagator interface {
	Propagate(ctx context.Context)
}
