// Package payment_repo provides the PostgreSQL implementation of the
// payments repository.
package payment_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/domain"
	"ledgerbook/internal/domain/payments"
	"ledgerbook/internal/infrastructure/storage/postgres"
)

const (
	paymentTable    = "payments"
	allocationTable = "payment_allocations"
)

var paymentCols = postgres.ExtractDBColumns[payments.Payment]()

// Repo implements payments.Repository.
type Repo struct {
	txManager *postgres.TxManager
}

// NewRepo creates a new payment repository.
func NewRepo(txManager *postgres.TxManager) *Repo {
	return &Repo{txManager: txManager}
}

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Create inserts a payment header.
func (r *Repo) Create(ctx context.Context, p *payments.Payment) error {
	data := postgres.StructToMap(p)

	filtered := make(map[string]any, len(paymentCols))
	for _, col := range paymentCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	q := r.builder().
		Insert(paymentTable).
		SetMap(filtered)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	return nil
}

// SaveAllocations inserts allocation rows for a payment.
func (r *Repo) SaveAllocations(ctx context.Context, paymentID id.ID, allocations []payments.Allocation) error {
	if len(allocations) == 0 {
		return nil
	}

	q := r.builder().
		Insert(allocationTable).
		Columns("payment_id", "invoice_id", "amount")

	for _, alloc := range allocations {
		q = q.Values(paymentID, alloc.InvoiceID, alloc.Amount)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert allocations: %w", err)
	}

	return nil
}

// GetByID retrieves a payment with its allocations.
func (r *Repo) GetByID(ctx context.Context, paymentID id.ID) (*payments.Payment, error) {
	q := r.builder().
		Select(paymentCols...).
		From(paymentTable).
		Where(squirrel.Eq{"id": paymentID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p payments.Payment
	if err := pgxscan.Get(ctx, r.querier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("payment", paymentID.String())
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}

	allocQ := r.builder().
		Select("invoice_id", "amount").
		From(allocationTable).
		Where(squirrel.Eq{"payment_id": paymentID})

	sql, args, err = allocQ.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build allocations query: %w", err)
	}

	if err := pgxscan.Select(ctx, r.querier(ctx), &p.Allocations, sql, args...); err != nil {
		return nil, fmt.Errorf("select allocations: %w", err)
	}

	return &p, nil
}

// List retrieves payments with filtering. Allocations are not loaded.
func (r *Repo) List(ctx context.Context, filter payments.ListFilter) (domain.ListResult[*payments.Payment], error) {
	result := domain.ListResult[*payments.Payment]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder().
		Select(paymentCols...).
		From(paymentTable).
		Where(squirrel.Eq{"deletion_mark": false})

	if filter.Kind != "" {
		q = q.Where(squirrel.Eq{"kind": filter.Kind})
	}
	if filter.PartyID != nil {
		q = q.Where(squirrel.Eq{"party_id": *filter.PartyID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	countQ := r.builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	sql, args, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), &result.TotalCount, sql, args...); err != nil {
		return result, fmt.Errorf("count payments: %w", err)
	}

	q = q.OrderBy("date DESC", "created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err = q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, r.querier(ctx), &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select payments: %w", err)
	}

	return result, nil
}
