package cmd

import (
	"context"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/signupd/signup-backend/internal/domain/account"
	"gitlab.com/signupd/signup-backend/internal/domain/activation"
	"gitlab.com/signupd/signup-backend/internal/domain/regform"
	"gitlab.com/signupd/signup-backend/pkg/apperr"
	"gitlab.com/signupd/signup-backend/pkg/errorx"
	"gitlab.com/signupd/signup-backend/pkg/logging"
	"gitlab.com/signupd/signup-backend/pkg/otelx"
)

var (
	tracer = otel.Tracer("signupd/application/registration/cmd")
	logger = otelslog.NewLogger("signupd/application/registration/cmd")
)

var ErrRegistrationClosed = apperr.NewForbidden("registration is currently closed")

type Register struct {
	Email           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
	TermsAccepted   bool
}

type RegisterResult struct {
	AccountID account.ID
	Email     string
	Active    bool
	Next      string

	// Account is the freshly persisted aggregate. The HTTP port hands it to
	// the auth application when a session is opened right at registration.
	Account *account.Account
}

type RegisterHandler struct {
	open bool
	form *regform.Form
	repo Repo
	next string
}

type RegisterHandlerArgs struct {
	RegistrationOpen       bool
	Form                   *regform.Form
	Repo                   Repo
	PostRegistrationTarget string
}

func NewRegisterHandler(args RegisterHandlerArgs) *RegisterHandler {
	return &RegisterHandler{
		open: args.RegistrationOpen,
		form: args.Form,
		repo: args.Repo,
		next: args.PostRegistrationTarget,
	}
}

func (h *RegisterHandler) Handle(ctx context.Context, cmd Register) (*RegisterResult, error) {
	const op = "cmd.RegisterHandler.Handle"
	ctx, span := tracer.Start(ctx, "RegisterHandler.Handle",
		trace.WithAttributes(attribute.String("account.email", logging.RedactEmail(cmd.Email))),
	)
	defer span.End()

	logger.DebugContext(ctx, "handling registration")

	if !h.open {
		span.AddEvent("registration toggle is off")
		return nil, errorx.Wrap(ErrRegistrationClosed, op)
	}

	data, err := h.form.Validate(ctx, regform.Submission{
		Email:           cmd.Email,
		Password:        cmd.Password,
		PasswordConfirm: cmd.PasswordConfirm,
		FirstName:       cmd.FirstName,
		LastName:        cmd.LastName,
		TermsAccepted:   cmd.TermsAccepted,
	})
	if err != nil {
		span.AddEvent("registration form rejected")
		return nil, errorx.Wrap(err, op)
	}

	passHash, err := account.NewPasswordHash(data.Password)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to hash password")
		return nil, errorx.Wrap(err, op)
	}

	accountID := account.NewID()

	rec, err := activation.NewRecord(accountID)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to create activation record")
		return nil, errorx.Wrap(err, op)
	}

	acc, err := account.NewAccount(account.NewAccountArgs{
		ID:            accountID,
		Email:         data.Email,
		FirstName:     data.FirstName,
		LastName:      data.LastName,
		PassHash:      passHash,
		ActivationKey: rec.Key(),
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to create account")
		return nil, errorx.Wrap(err, op)
	}

	// A duplicate email surfaces here as the storage unique constraint;
	// the form's availability check only narrows the race window.
	if err := h.repo.CreateAccountWithActivation(ctx, acc, rec); err != nil {
		otelx.RecordSpanError(span, err, "failed to persist account with activation record")
		return nil, errorx.Wrap(err, op)
	}

	span.AddEvent("account registered",
		trace.WithAttributes(attribute.String("account.id", acc.ID().String())),
	)

	return &RegisterResult{
		AccountID: acc.ID(),
		Email:     acc.Email(),
		Active:    acc.IsActive(),
		Next:      h.next,
		Account:   acc,
	}, nil
}
