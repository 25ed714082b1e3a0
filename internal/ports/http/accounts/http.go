package accountshttp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"

	"gitlab.com/signupd/signup-backend/internal/domain/account"
	"gitlab.com/signupd/signup-backend/internal/ports/http/middlewares"
	"gitlab.com/signupd/signup-backend/pkg/ctxs"
	"gitlab.com/signupd/signup-backend/pkg/errorx"
	"gitlab.com/signupd/signup-backend/pkg/httpx"
)

var tracer = otel.Tracer("signupd/internal/ports/http/accounts")

type AccountGetter interface {
	GetAccountByID(ctx context.Context, id account.ID) (*account.Account, error)
}

type HTTP struct {
	getter     AccountGetter
	middleware *middlewares.Middleware
	errhandler *httpx.ErrorHandler
}

type Args struct {
	Getter     AccountGetter
	Middleware *middlewares.Middleware
	Errhandler *httpx.ErrorHandler
}

func NewHTTP(args Args) *HTTP {
	if args.Errhandler == nil {
		args.Errhandler = httpx.NewErrorHandler()
	}

	return &HTTP{
		getter:     args.Getter,
		middleware: args.Middleware,
		errhandler: args.Errhandler,
	}
}

func (h *HTTP) Route(r chi.Router) {
	r.Route("/v1/accounts", func(r chi.Router) {
		r.Use(h.middleware.Auth)

		r.Get("/me", h.Me)
	})
}

func (h *HTTP) Me(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Me")
	defer span.End()

	ctxAccount, ok := ctxs.AccountFromCtx(ctx)
	if !ok {
		err := errorx.NewUnauthorized().WithCause(errors.New("no account in request context"))
		h.errhandler.HandleError(w, r, span, err, "failed to get account from context")
		return
	}
	ctxAccount.SetSpanAttrs(span)

	acc, err := h.getter.GetAccountByID(ctx, ctxAccount.ID)
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to get account")
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{
		"account": httpx.Envelope{
			"id":         acc.ID().String(),
			"email":      acc.Email(),
			"first_name": acc.FirstName(),
			"last_name":  acc.LastName(),
			"active":     acc.IsActive(),
			"created_at": acc.CreatedAt().UTC().Format(time.RFC3339),
		},
	})
}
