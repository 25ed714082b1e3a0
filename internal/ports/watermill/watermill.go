package watermill

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jackc/pgx/v5/pgxpool"

	"gitlab.com/signupd/signup-backend/internal/application/mail"
	"gitlab.com/signupd/signup-backend/pkg/watermillx"
)

// Port subscribes application event handlers to the outbox stream.
type Port struct {
	eventProcessor *cqrs.EventProcessor
}

type AppEventHandlers struct {
	Mail *mail.App
}

func NewPort(router *message.Router, conn *pgxpool.Pool, wmlogger watermill.LoggerAdapter) (*Port, error) {
	processor, err := watermillx.NewEventProcessor(router, conn, wmlogger)
	if err != nil {
		return nil, err
	}
	return &Port{eventProcessor: processor}, nil
}

// NewPortForTest polls the outbox at a short interval so integration tests
// observe events without waiting for the production poll period.
func NewPortForTest(router *message.Router, conn *pgxpool.Pool, wmlogger watermill.LoggerAdapter) (*Port, error) {
	processor, err := watermillx.NewEventProcessorForTests(router, conn, wmlogger)
	if err != nil {
		return nil, err
	}
	return &Port{eventProcessor: processor}, nil
}

// Run binds application event handlers to their streams. AccountActivated
// stays unbound: it is published for external consumers only.
func (p *Port) Run(ctx context.Context, handlers AppEventHandlers) error {
	err := p.eventProcessor.AddHandlers(
		cqrs.NewEventHandler("MailOnAccountRegistered", handlers.Mail.Event.HandleAccountRegistered),
	)
	if err != nil {
		return fmt.Errorf("failed to add event handlers: %w", err)
	}

	return nil
}
