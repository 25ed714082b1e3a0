package smtp

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"

	"gitlab.com/signupd/signup-backend/internal/domain/valueobject/mails"
)

// LogSender writes mails to the log instead of delivering them. It is
// wired when no SMTP host is configured, so a developer can copy the
// activation link straight from the console.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender() *LogSender {
	return &LogSender{
		logger: otelslog.NewLogger("signupd/adapters/services/smtp/log"),
	}
}

func (s *LogSender) SendMail(ctx context.Context, payload mails.Payload) error {
	s.logger.InfoContext(ctx, "mail delivery skipped, no smtp host configured",
		slog.String("to", payload.To),
		slog.String("subject", payload.Subject),
		slog.String("body", payload.Body),
	)
	return nil
}
