// Package serial_repo provides the PostgreSQL implementation of the
// serial number repository.
package serial_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/domain/inventory"
	"ledgerbook/internal/infrastructure/storage/postgres"
)

const serialTable = "serials"

var serialCols = postgres.ExtractDBColumns[inventory.Serial]()

// Repo implements inventory.Repository.
type Repo struct {
	txManager *postgres.TxManager
}

// NewRepo creates a new serial repository.
func NewRepo(txManager *postgres.TxManager) *Repo {
	return &Repo{txManager: txManager}
}

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Create inserts a new serial.
func (r *Repo) Create(ctx context.Context, s *inventory.Serial) error {
	data := postgres.StructToMap(s)

	filtered := make(map[string]any, len(serialCols))
	for _, col := range serialCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	q := r.builder().
		Insert(serialTable).
		SetMap(filtered)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert serial: %w", err)
	}

	return nil
}

// GetByID retrieves a serial by ID.
func (r *Repo) GetByID(ctx context.Context, serialID id.ID) (*inventory.Serial, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": serialID})

	return r.getOne(ctx, q, serialID.String())
}

// GetBySerialNumber retrieves a serial by its unique number.
func (r *Repo) GetBySerialNumber(ctx context.Context, serialNumber string) (*inventory.Serial, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"serial_number": serialNumber})

	return r.getOne(ctx, q, serialNumber)
}

func (r *Repo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(serialCols...).
		From(serialTable)
}

func (r *Repo) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*inventory.Serial, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s inventory.Serial
	if err := pgxscan.Get(ctx, r.querier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("serial", key)
		}
		return nil, fmt.Errorf("get serial: %w", err)
	}

	return &s, nil
}

// AvailableForItem retrieves IN_STOCK serials of an item.
func (r *Repo) AvailableForItem(ctx context.Context, itemID id.ID) ([]*inventory.Serial, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"item_id": itemID}).
		Where(squirrel.Eq{"status": inventory.StatusInStock}).
		OrderBy("serial_number ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var serials []*inventory.Serial
	if err := pgxscan.Select(ctx, r.querier(ctx), &serials, sql, args...); err != nil {
		return nil, fmt.Errorf("select available serials: %w", err)
	}

	return serials, nil
}

// InStockComponents retrieves in-stock serials of non-assembled items
// joined with item name and purchase price.
func (r *Repo) InStockComponents(ctx context.Context) ([]*inventory.Component, error) {
	q := r.builder().
		Select(
			"s.id AS serial_id",
			"s.serial_number",
			"s.item_id",
			"i.name AS item_name",
			"i.purchase_price",
		).
		From(serialTable+" s").
		Join("cat_items i ON i.id = s.item_id").
		Where(squirrel.Eq{"s.status": inventory.StatusInStock}).
		Where(squirrel.Eq{"i.is_assembled": false}).
		OrderBy("i.name ASC", "s.serial_number ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var components []*inventory.Component
	if err := pgxscan.Select(ctx, r.querier(ctx), &components, sql, args...); err != nil {
		return nil, fmt.Errorf("select components: %w", err)
	}

	return components, nil
}

// MarkSold transitions an IN_STOCK serial to SOLD. The status guard in
// the WHERE clause makes concurrent sales of the same serial fail.
func (r *Repo) MarkSold(ctx context.Context, serialID, saleInvoiceID id.ID, warrantyEnd *time.Time) error {
	q := r.builder().
		Update(serialTable).
		Set("status", inventory.StatusSold).
		Set("sale_invoice_id", saleInvoiceID).
		Set("warranty_end_date", warrantyEnd).
		Where(squirrel.Eq{"id": serialID}).
		Where(squirrel.Eq{"status": inventory.StatusInStock})

	return r.transition(ctx, q, serialID)
}

// MarkConsumed transitions an IN_STOCK serial to CONSUMED, linking it
// to the assembled serial that absorbed it.
func (r *Repo) MarkConsumed(ctx context.Context, serialID, assemblyID id.ID) error {
	q := r.builder().
		Update(serialTable).
		Set("status", inventory.StatusConsumed).
		Set("assembly_id", assemblyID).
		Where(squirrel.Eq{"id": serialID}).
		Where(squirrel.Eq{"status": inventory.StatusInStock})

	return r.transition(ctx, q, serialID)
}

func (r *Repo) transition(ctx context.Context, q squirrel.UpdateBuilder, serialID id.ID) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update serial: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewSerialNotAvailable(serialID.String())
	}

	return nil
}

// CountInStock returns the IN_STOCK count for an item.
func (r *Repo) CountInStock(ctx context.Context, itemID id.ID) (int64, error) {
	q := r.builder().
		Select("COUNT(*)").
		From(serialTable).
		Where(squirrel.Eq{"item_id": itemID}).
		Where(squirrel.Eq{"status": inventory.StatusInStock})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var count int64
	if err := pgxscan.Get(ctx, r.querier(ctx), &count, sql, args...); err != nil {
		return 0, fmt.Errorf("count serials: %w", err)
	}

	return count, nil
}

// Search finds serials by partial serial number, case-insensitive.
func (r *Repo) Search(ctx context.Context, term string, limit int) ([]*inventory.Serial, error) {
	if limit <= 0 {
		limit = 50
	}

	q := r.baseSelect().
		Where(squirrel.ILike{"serial_number": "%" + term + "%"}).
		OrderBy("serial_number ASC").
		Limit(uint64(limit))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var serials []*inventory.Serial
	if err := pgxscan.Select(ctx, r.querier(ctx), &serials, sql, args...); err != nil {
		return nil, fmt.Errorf("search serials: %w", err)
	}

	return serials, nil
}
