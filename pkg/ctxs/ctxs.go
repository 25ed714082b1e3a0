// Package ctxs carries request-scoped values: the authenticated account
// set by the auth middleware and the transaction repositories join.
package ctxs

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/signupd/signup-backend/internal/domain/account"
)

type ctxKey int

const (
	txKey ctxKey = iota
	accountKey
)

// Account is the caller identity established from the access token.
type Account struct {
	ID account.ID
}

func (a *Account) SetSpanAttrs(span trace.Span) {
	if a == nil {
		return
	}
	span.SetAttributes(attribute.String("account.id", a.ID.String()))
}

func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// Tx returns the transaction opened by an enclosing postgres.WithTx,
// if any.
func Tx(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey).(pgx.Tx)
	return tx, ok
}

func WithAccount(ctx context.Context, acc *Account) context.Context {
	return context.WithValue(ctx, accountKey, acc)
}

func AccountFromCtx(ctx context.Context) (*Account, bool) {
	acc, ok := ctx.Value(accountKey).(*Account)
	return acc, ok
}
