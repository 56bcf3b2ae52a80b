package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/domain/catalogs/unit"
	"ledgerbook/internal/infrastructure/storage/postgres"
)

const (
	unitTable         = "cat_units"
	compoundUnitTable = "compound_units"
)

// UnitRepo implements unit.Repository.
type UnitRepo struct {
	*BaseCatalogRepo[*unit.Unit]
	txManager *postgres.TxManager
}

// NewUnitRepo creates a new unit repository.
func NewUnitRepo(txManager *postgres.TxManager) *UnitRepo {
	return &UnitRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			unitTable,
			postgres.ExtractDBColumns[unit.Unit](),
			func() *unit.Unit { return &unit.Unit{} },
		),
		txManager: txManager,
	}
}

// CreateCompound inserts a compound unit relationship.
func (r *UnitRepo) CreateCompound(ctx context.Context, cu *unit.CompoundUnit) error {
	q := r.Builder().
		Insert(compoundUnitTable).
		SetMap(postgres.StructToMap(cu))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert compound unit: %w", err)
	}
	return nil
}

// DeleteCompound removes a compound unit relationship.
func (r *UnitRepo) DeleteCompound(ctx context.Context, cuID id.ID) error {
	q := r.Builder().
		Delete(compoundUnitTable).
		Where(squirrel.Eq{"id": cuID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete compound unit: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("compound unit", cuID.String())
	}
	return nil
}

// ListCompound retrieves all compound unit relationships.
func (r *UnitRepo) ListCompound(ctx context.Context) ([]*unit.CompoundUnit, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[unit.CompoundUnit]()...).
		From(compoundUnitTable)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var compounds []*unit.CompoundUnit
	if err := pgxscan.Select(ctx, r.Querier(ctx), &compounds, sql, args...); err != nil {
		return nil, fmt.Errorf("list compound units: %w", err)
	}
	return compounds, nil
}

// FindCompound retrieves the relationship between two units, if any.
func (r *UnitRepo) FindCompound(ctx context.Context, baseUnitID, secondaryUnitID id.ID) (*unit.CompoundUnit, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[unit.CompoundUnit]()...).
		From(compoundUnitTable).
		Where(squirrel.Eq{"base_unit_id": baseUnitID}).
		Where(squirrel.Eq{"secondary_unit_id": secondaryUnitID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var cu unit.CompoundUnit
	if err := pgxscan.Get(ctx, r.Querier(ctx), &cu, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("compound unit", fmt.Sprintf("%s/%s", baseUnitID, secondaryUnitID))
		}
		return nil, fmt.Errorf("find compound unit: %w", err)
	}
	return &cu, nil
}
