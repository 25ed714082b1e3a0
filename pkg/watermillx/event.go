package watermillx

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillSQL "github.com/ThreeDotsLabs/watermill-sql/v4/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gitlab.com/signupd/signup-backend/internal/domain/account"
	"gitlab.com/signupd/signup-backend/internal/domain/event"
	"gitlab.com/signupd/signup-backend/pkg/otelx"
)

// tuning separates production subscribers from test subscribers. Tests
// poll aggressively and leave schema creation to the suite setup.
type tuning struct {
	initializeSchema bool
	pollInterval     time.Duration
}

var (
	liveTuning = tuning{initializeSchema: true}
	testTuning = tuning{initializeSchema: false, pollInterval: 10 * time.Millisecond}
)

func newSubscriber(conn *pgxpool.Pool, group string, tun tuning, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	return watermillSQL.NewSubscriber(
		watermillSQL.BeginnerFromPgx(conn),
		watermillSQL.SubscriberConfig{
			ConsumerGroup:    group,
			SchemaAdapter:    watermillSQL.DefaultPostgreSQLSchema{},
			OffsetsAdapter:   watermillSQL.DefaultPostgreSQLOffsetsAdapter{},
			InitializeSchema: tun.initializeSchema,
			PollInterval:     tun.pollInterval,
		},
		logger,
	)
}

// topicFor routes an event to its outbox topic, which is the stream
// name of the aggregate that raised it.
func topicFor(v any) (string, error) {
	evt, ok := v.(event.Event)
	if !ok {
		return "", fmt.Errorf("%T does not implement event.Event", v)
	}
	if evt.GetStreamName() == "" {
		return "", fmt.Errorf("stream name is empty, event: %T", evt)
	}

	return evt.GetStreamName(), nil
}

func NewEventProcessor(router *message.Router, conn *pgxpool.Pool, logger watermill.LoggerAdapter) (*cqrs.EventProcessor, error) {
	return newEventProcessor(router, conn, logger, liveTuning)
}

func NewEventProcessorForTests(router *message.Router, conn *pgxpool.Pool, logger watermill.LoggerAdapter) (*cqrs.EventProcessor, error) {
	return newEventProcessor(router, conn, logger, testTuning)
}

func newEventProcessor(router *message.Router, conn *pgxpool.Pool, logger watermill.LoggerAdapter, tun tuning) (*cqrs.EventProcessor, error) {
	return cqrs.NewEventProcessorWithConfig(router, cqrs.EventProcessorConfig{
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			return topicFor(params.EventHandler.NewEvent())
		},
		SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return newSubscriber(conn, params.EventHandler.HandlerName(), tun, logger)
		},
		Marshaler:         cqrs.JSONMarshaler{},
		Logger:            logger,
		AckOnUnknownEvent: true,
	})
}

// NewTxEventBus publishes through the given transaction, so events only
// become visible to consumers when the transaction commits.
func NewTxEventBus(tx pgx.Tx, logger watermill.LoggerAdapter) (*cqrs.EventBus, error) {
	publisher, err := watermillSQL.NewPublisher(
		watermillSQL.TxFromPgx(tx),
		watermillSQL.PublisherConfig{
			SchemaAdapter: watermillSQL.DefaultPostgreSQLSchema{},
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create publisher: %w", err)
	}

	eventBus, err := cqrs.NewEventBusWithConfig(publisher, cqrs.EventBusConfig{
		GeneratePublishTopic: func(params cqrs.GenerateEventPublishTopicParams) (string, error) {
			return topicFor(params.Event)
		},
		Marshaler: cqrs.JSONMarshaler{},
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	return eventBus, nil
}

// Publish writes the events to the outbox inside tx, stamping each one
// with the current trace context first.
func Publish(ctx context.Context, tx pgx.Tx, logger watermill.LoggerAdapter, evts ...event.Event) error {
	if len(evts) == 0 {
		return nil
	}

	eventBus, err := NewTxEventBus(tx, logger)
	if err != nil {
		return fmt.Errorf("failed to create event bus: %w", err)
	}

	for _, evt := range evts {
		if propagator, ok := evt.(otelx.TracePropagator); ok {
			propagator.Propagate(ctx)
		}
		if err := eventBus.Publish(ctx, evt); err != nil {
			return fmt.Errorf("failed to publish event %T: %w", evt, err)
		}
	}

	return nil
}

// InitializeEventSchema creates the outbox tables for the account
// stream up front, so the first publish does not race the DDL.
func InitializeEventSchema(ctx context.Context, conn *pgxpool.Pool, logger watermill.LoggerAdapter) error {
	subscriber, err := newSubscriber(conn, "", liveTuning, logger)
	if err != nil {
		return fmt.Errorf("failed to create subscriber: %w", err)
	}

	if err := subscriber.SubscribeInitialize(account.EventStreamName); err != nil {
		return fmt.Errorf("failed to initialize event schema for %s: %w", account.EventStreamName, err)
	}

	return nil
}
