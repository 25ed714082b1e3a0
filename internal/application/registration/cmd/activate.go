package cmd

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/trace"

	"gitlab.com/signupd/signup-backend/internal/domain/account"
	"gitlab.com/signupd/signup-backend/internal/domain/activation"
	"gitlab.com/signupd/signup-backend/pkg/errorx"
	"gitlab.com/signupd/signup-backend/pkg/i18nx"
	"gitlab.com/signupd/signup-backend/pkg/otelx"
)

// ErrActivationNotFound is the single answer for every failed activation:
// unknown key, expired key, or a key that was already used. Collapsing
// them keeps the endpoint from confirming whether a key ever existed.
var ErrActivationNotFound = errorx.NewNotFound().WithKey(i18nx.KeyCouldNotActivate)

type Activate struct {
	Key string
}

type ActivateResult struct {
	AccountID account.ID
	Email     string
	Next      string
}

type ActivateHandler struct {
	window time.Duration
	repo   Repo
	next   string
}

type ActivateHandlerArgs struct {
	ActivationWindow     time.Duration
	Repo                 Repo
	PostActivationTarget string
}

func NewActivateHandler(args ActivateHandlerArgs) *ActivateHandler {
	return &ActivateHandler{
		window: args.ActivationWindow,
		repo:   args.Repo,
		next:   args.PostActivationTarget,
	}
}

func (h *ActivateHandler) Handle(ctx context.Context, cmd Activate) (*ActivateResult, error) {
	const op = "cmd.ActivateHandler.Handle"
	ctx, span := tracer.Start(ctx, "ActivateHandler.Handle")
	defer span.End()

	// The sentinel of a used record is not valid key syntax, so this
	// guard also makes consumed records unreachable by lookup.
	if !activation.ValidKeyFormat(cmd.Key) {
		span.AddEvent("activation key failed format check")
		return nil, errorx.Wrap(ErrActivationNotFound, op)
	}

	var result *ActivateResult
	err := h.repo.UpdateByActivationKey(ctx, cmd.Key, func(ctx context.Context, acc *account.Account, rec *activation.Record) error {
		span := trace.SpanFromContext(ctx)

		if rec.Expired(h.window, time.Now()) {
			span.AddEvent("activation key expired")
			return ErrActivationNotFound
		}

		if err := rec.MarkActivated(); err != nil {
			span.AddEvent("activation key already used")
			return ErrActivationNotFound
		}

		if err := acc.Activate(); err != nil {
			span.AddEvent("account already active")
			return ErrActivationNotFound
		}

		result = &ActivateResult{
			AccountID: acc.ID(),
			Email:     acc.Email(),
			Next:      h.next,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrActivationNotFound) {
			return nil, errorx.Wrap(err, op)
		}
		if errorx.IsCode(err, errorx.CodeNotFound) {
			span.AddEvent("activation key not found")
			return nil, errorx.Wrap(ErrActivationNotFound, op)
		}

		otelx.RecordSpanError(span, err, "failed to update account by activation key")
		return nil, errorx.Wrap(err, op)
	}

	return result, nil
}
