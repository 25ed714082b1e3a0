package smtp

import (
	"context"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"
	"go.opentelemetry.io/contrib/bridges/otelslog"

	"gitlab.com/signupd/signup-backend/internal/domain/valueobject/mails"
	"gitlab.com/signupd/signup-backend/pkg/errorx"
	"gitlab.com/signupd/signup-backend/pkg/logging"
)

var logger = otelslog.NewLogger("signupd/adapters/services/smtp")

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Insecure bool
	Timeout  time.Duration
}

// Sender delivers rendered mails over SMTP. Auth is only negotiated when
// a username is configured; Insecure downgrades TLS from mandatory to
// opportunistic for local catch-all servers like Mailpit.
type Sender struct {
	cfg Config
}

func NewSender(cfg Config) *Sender {
	return &Sender{cfg: cfg}
}

func (s *Sender) SendMail(ctx context.Context, payload mails.Payload) error {
	const op = "smtp.Sender.SendMail"

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	m, err := s.buildMsg(payload)
	if err != nil {
		return errorx.Wrap(err, op)
	}

	tlsPolicy := mail.TLSMandatory
	if s.cfg.Insecure {
		tlsPolicy = mail.TLSOpportunistic
	}

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(tlsPolicy),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	c, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return errorx.Wrap(err, op)
	}

	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		logger.ErrorContext(ctx, "smtp send failed",
			slog.String("to", logging.RedactEmail(payload.To)),
			slog.Any("error", err),
		)
		return errorx.Wrap(err, op)
	}

	logger.InfoContext(ctx, "mail sent",
		slog.String("to", logging.RedactEmail(payload.To)),
		slog.String("subject", payload.Subject),
	)
	return nil
}

func (s *Sender) buildMsg(payload mails.Payload) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return nil, err
	}
	if err := m.To(payload.To); err != nil {
		return nil, err
	}
	m.Subject(payload.Subject)
	m.SetBodyString(mail.TypeTextPlain, payload.Body)

	return m, nil
}
