package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// NumeratorQuerier adapts the transaction-aware querier to the
// numerator service, so generated numbers participate in the caller's
// transaction and roll back with it.
type NumeratorQuerier struct {
	txManager *TxManager
}

// NewNumeratorQuerier creates a querier adapter for pkg/numerator.
func NewNumeratorQuerier(txManager *TxManager) *NumeratorQuerier {
	return &NumeratorQuerier{txManager: txManager}
}

// QueryRow routes through the active transaction when one is present.
func (q *NumeratorQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return q.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...)
}
