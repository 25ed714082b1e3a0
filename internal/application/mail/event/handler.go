package mailevent

import (
	"context"
	"text/template"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"

	"gitlab.com/signupd/signup-backend/internal/domain/valueobject/mails"
)

var (
	tracer = otel.Tracer("signupd/application/mail/event")
	logger = otelslog.NewLogger("signupd/application/mail/event")
)

type MailSender interface {
	SendMail(ctx context.Context, payload mails.Payload) error
}

// MailEventHandler turns domain events into rendered mails. Handlers
// return errors so the message broker can retry delivery.
type MailEventHandler struct {
	mailsender        MailSender
	activationBaseURL string
	siteName          string
	activationWindow  time.Duration
	subjectTmpl       *template.Template
	bodyTmpl          *template.Template
}

type MailEventHandlerArgs struct {
	Mailsender        MailSender
	ActivationBaseURL string
	SiteName          string
	ActivationWindow  time.Duration
	SubjectTemplate   *template.Template
	BodyTemplate      *template.Template
}

func NewMailEventHandler(args MailEventHandlerArgs) *MailEventHandler {
	return &MailEventHandler{
		mailsender:        args.Mailsender,
		activationBaseURL: args.ActivationBaseURL,
		siteName:          args.SiteName,
		activationWindow:  args.ActivationWindow,
		subjectTmpl:       args.SubjectTemplate,
		bodyTmpl:          args.BodyTemplate,
	}
}
