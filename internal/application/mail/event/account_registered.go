package mailevent

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/signupd/signup-backend/internal/domain/account"
	"gitlab.com/signupd/signup-backend/internal/domain/valueobject/mails"
	"gitlab.com/signupd/signup-backend/pkg/errorx"
	"gitlab.com/signupd/signup-backend/pkg/logging"
	"gitlab.com/signupd/signup-backend/pkg/otelx"
	"gitlab.com/signupd/signup-backend/pkg/sanitizex"
)

// ActivationMailContext is what the activation subject and body templates
// render against.
type ActivationMailContext struct {
	FirstName      string
	LastName       string
	Email          string
	ActivationKey  string
	ActivationURL  string
	ExpirationDays int
	SiteName       string
}

func (h *MailEventHandler) HandleAccountRegistered(ctx context.Context, e *account.AccountRegistered) error {
	if e == nil {
		return nil
	}
	const op = "mailevent.MailEventHandler.HandleAccountRegistered"

	l := logger.With(slog.String("event", "AccountRegistered"), slog.String("account.id", e.AccountID.String()))
	ctx, span := tracer.Start(
		ctx,
		"MailEventHandler.HandleAccountRegistered",
		trace.WithNewRoot(),
		trace.WithLinks(trace.LinkFromContext(e.Extract())),
		trace.WithAttributes(
			attribute.String("event.account.id", e.AccountID.String()),
			attribute.String("event.account.email", logging.RedactEmail(e.Email)),
		),
	)
	defer span.End()

	err := validation.ValidateStruct(e,
		validation.Field(&e.Email, validation.Required, is.Email),
		validation.Field(&e.ActivationKey, validation.Required),
	)
	if err != nil {
		otelx.RecordSpanError(span, err, "validation failed")
		l.ErrorContext(ctx, "validation failed", slog.Any("error", err))
		return errorx.Wrap(err, op)
	}

	subject, body, err := h.renderActivationMail(e)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to render activation mail")
		l.ErrorContext(ctx, "failed to render activation mail", slog.Any("error", err))
		return errorx.Wrap(err, op)
	}

	payload := mails.Payload{
		To:      e.Email,
		Subject: subject,
		Body:    body,
	}
	if err := h.mailsender.SendMail(ctx, payload); err != nil {
		otelx.RecordSpanError(span, err, "failed to send activation mail")
		l.ErrorContext(ctx, "failed to send activation mail", slog.Any("error", err))
		return errorx.Wrap(err, op)
	}

	return nil
}

func (h *MailEventHandler) renderActivationMail(e *account.AccountRegistered) (subject, body string, err error) {
	mctx := ActivationMailContext{
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Email:          e.Email,
		ActivationKey:  e.ActivationKey,
		ActivationURL:  ActivationURL(h.activationBaseURL, e.ActivationKey),
		ExpirationDays: int(h.activationWindow.Hours() / 24),
		SiteName:       h.siteName,
	}

	var subjectBuf bytes.Buffer
	if err := h.subjectTmpl.Execute(&subjectBuf, mctx); err != nil {
		return "", "", fmt.Errorf("failed to render activation subject template: %w", err)
	}

	var bodyBuf bytes.Buffer
	if err := h.bodyTmpl.Execute(&bodyBuf, mctx); err != nil {
		return "", "", fmt.Errorf("failed to render activation body template: %w", err)
	}

	// Header injection guard: a subject is one line no matter what the
	// template does.
	return sanitizex.CleanSingleLine(subjectBuf.String()), bodyBuf.String(), nil
}

// ActivationURL joins the configured base with the key. The base may or
// may not carry a trailing slash.
func ActivationURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
