package event

import (
	"context"

	"go.opentelemetry.io/otel/propagation"
)

// Otel carries W3C trace context and baggage inside an event so a span
// started in the publishing transaction can be resumed by the consumer.
// The carrier is exported because events travel through the outbox as
// JSON; a private field would drop the context on the floor.
type Otel struct {
	Carrier map[string]string `json:"otel_carrier,omitempty"`
}

func (o *Otel) Propagate(ctx context.Context) {
	if o.Carrier == nil {
		o.Carrier = make(map[string]string)
	}

	tcPropagator := propagation.TraceContext{}
	bgPropagator := propagation.Baggage{}

	tcPropagator.Inject(ctx, propagation.MapCarrier(o.Carrier))
	bgPropagator.Inject(ctx, propagation.MapCarrier(o.Carrier))
}

func (o *Otel) Extract() context.Context {
	ctx := context.Background()
	if o.Carrier == nil {
		return ctx
	}

	tcPropagator := propagation.TraceContext{}
	bgPropagator := propagation.Baggage{}

	ctx = tcPropagator.Extract(ctx, propagation.MapCarrier(o.Carrier))
	ctx = bgPropagator.Extract(ctx, propagation.MapCarrier(o.Carrier))

	return ctx
}
