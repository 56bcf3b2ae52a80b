package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/domain/catalogs/tax"
	"ledgerbook/internal/infrastructure/storage/postgres"
)

const (
	gstSlabTable = "gst_slabs"
	hsnCodeTable = "hsn_codes"
)

// TaxRepo implements tax.Repository for GST slabs and HSN codes.
type TaxRepo struct {
	txManager *postgres.TxManager
}

// NewTaxRepo creates a new tax reference repository.
func NewTaxRepo(txManager *postgres.TxManager) *TaxRepo {
	return &TaxRepo{txManager: txManager}
}

func (r *TaxRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// CreateSlab inserts a GST slab.
func (r *TaxRepo) CreateSlab(ctx context.Context, slab *tax.GSTSlab) error {
	q := r.builder().
		Insert(gstSlabTable).
		SetMap(postgres.StructToMap(slab))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert gst slab: %w", err)
	}
	return nil
}

// GetSlab retrieves a slab by ID.
func (r *TaxRepo) GetSlab(ctx context.Context, slabID id.ID) (*tax.GSTSlab, error) {
	q := r.builder().
		Select(postgres.ExtractDBColumns[tax.GSTSlab]()...).
		From(gstSlabTable).
		Where(squirrel.Eq{"id": slabID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var slab tax.GSTSlab
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &slab, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("gst slab", slabID.String())
		}
		return nil, fmt.Errorf("get gst slab: %w", err)
	}
	return &slab, nil
}

// ListSlabs retrieves all slabs ordered by rate.
func (r *TaxRepo) ListSlabs(ctx context.Context) ([]*tax.GSTSlab, error) {
	q := r.builder().
		Select(postgres.ExtractDBColumns[tax.GSTSlab]()...).
		From(gstSlabTable).
		OrderBy("rate ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var slabs []*tax.GSTSlab
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &slabs, sql, args...); err != nil {
		return nil, fmt.Errorf("list gst slabs: %w", err)
	}
	return slabs, nil
}

// DeleteSlab removes a slab.
func (r *TaxRepo) DeleteSlab(ctx context.Context, slabID id.ID) error {
	return r.deleteByID(ctx, gstSlabTable, "gst slab", slabID)
}

// SlabInUse reports whether any HSN code or item references the slab.
func (r *TaxRepo) SlabInUse(ctx context.Context, slabID id.ID) (bool, error) {
	sql := `
		SELECT 1 WHERE EXISTS (SELECT 1 FROM hsn_codes WHERE gst_slab_id = $1)
			OR EXISTS (SELECT 1 FROM cat_items WHERE gst_slab_id = $1)
	`
	return r.scanExists(ctx, sql, slabID)
}

// CreateHSN inserts an HSN code.
func (r *TaxRepo) CreateHSN(ctx context.Context, hsn *tax.HSNCode) error {
	q := r.builder().
		Insert(hsnCodeTable).
		SetMap(postgres.StructToMap(hsn))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert hsn code: %w", err)
	}
	return nil
}

// GetHSN retrieves an HSN code by ID.
func (r *TaxRepo) GetHSN(ctx context.Context, hsnID id.ID) (*tax.HSNCode, error) {
	q := r.builder().
		Select(postgres.ExtractDBColumns[tax.HSNCode]()...).
		From(hsnCodeTable).
		Where(squirrel.Eq{"id": hsnID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var hsn tax.HSNCode
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &hsn, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("hsn code", hsnID.String())
		}
		return nil, fmt.Errorf("get hsn code: %w", err)
	}
	return &hsn, nil
}

// ListHSN retrieves all HSN codes ordered by code.
func (r *TaxRepo) ListHSN(ctx context.Context) ([]*tax.HSNCode, error) {
	q := r.builder().
		Select(postgres.ExtractDBColumns[tax.HSNCode]()...).
		From(hsnCodeTable).
		OrderBy("code ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var codes []*tax.HSNCode
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &codes, sql, args...); err != nil {
		return nil, fmt.Errorf("list hsn codes: %w", err)
	}
	return codes, nil
}

// UpdateHSN modifies an HSN code.
func (r *TaxRepo) UpdateHSN(ctx context.Context, hsn *tax.HSNCode) error {
	data := postgres.StructToMap(hsn)
	delete(data, "id")

	q := r.builder().
		Update(hsnCodeTable).
		SetMap(data).
		Where(squirrel.Eq{"id": hsn.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update hsn code: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("hsn code", hsn.ID.String())
	}
	return nil
}

// DeleteHSN removes an HSN code.
func (r *TaxRepo) DeleteHSN(ctx context.Context, hsnID id.ID) error {
	return r.deleteByID(ctx, hsnCodeTable, "hsn code", hsnID)
}

// HSNInUse reports whether any item references the HSN code.
func (r *TaxRepo) HSNInUse(ctx context.Context, hsnID id.ID) (bool, error) {
	sql := `SELECT 1 WHERE EXISTS (SELECT 1 FROM cat_items WHERE hsn_code_id = $1)`
	return r.scanExists(ctx, sql, hsnID)
}

func (r *TaxRepo) deleteByID(ctx context.Context, table, entityName string, entityID id.ID) error {
	q := r.builder().
		Delete(table).
		Where(squirrel.Eq{"id": entityID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", entityName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(entityName, entityID.String())
	}
	return nil
}

func (r *TaxRepo) scanExists(ctx context.Context, sql string, args ...any) (bool, error) {
	var exists int
	err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check in use: %w", err)
	}
	return true, nil
}
