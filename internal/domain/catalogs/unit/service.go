package unit

import (
	"context"

	"github.com/shopspring/decimal"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/tx"
	"ledgerbook/internal/domain"
)

// Repository defines the interface for Unit persistence.
type Repository interface {
	domain.CatalogRepository[*Unit]

	// CreateCompound inserts a compound unit relationship.
	CreateCompound(ctx context.Context, cu *CompoundUnit) error

	// DeleteCompound removes a compound unit relationship.
	DeleteCompound(ctx context.Context, cuID id.ID) error

	// ListCompound retrieves all compound unit relationships.
	ListCompound(ctx context.Context) ([]*CompoundUnit, error)

	// FindCompound retrieves the relationship between two units, if any.
	FindCompound(ctx context.Context, baseUnitID, secondaryUnitID id.ID) (*CompoundUnit, error)
}

// Service provides business logic for units of measure.
type Service struct {
	*domain.CatalogService[*Unit]
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new Unit service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Unit]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "unit",
		}),
		repo:      repo,
		txManager: txManager,
	}
}

// CreateCompound creates a compound unit relationship.
func (s *Service) CreateCompound(ctx context.Context, cu *CompoundUnit) error {
	if err := cu.Validate(ctx); err != nil {
		return err
	}

	existing, err := s.repo.FindCompound(ctx, cu.BaseUnitID, cu.SecondaryUnitID)
	if err != nil && !apperror.IsNotFound(err) {
		return err
	}
	if existing != nil {
		return apperror.NewConflict("compound unit already exists").
			WithDetail("baseUnitId", cu.BaseUnitID).
			WithDetail("secondaryUnitId", cu.SecondaryUnitID)
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.CreateCompound(ctx, cu)
	})
}

// DeleteCompound removes a compound unit relationship.
func (s *Service) DeleteCompound(ctx context.Context, cuID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.DeleteCompound(ctx, cuID)
	})
}

// ListCompound retrieves all compound unit relationships.
func (s *Service) ListCompound(ctx context.Context) ([]*CompoundUnit, error) {
	return s.repo.ListCompound(ctx)
}

// ConvertToBase converts a quantity entered in unitID to an item's base
// unit. Identity when the units match or no relationship exists.
func (s *Service) ConvertToBase(ctx context.Context, baseUnitID, unitID id.ID, qty decimal.Decimal) (decimal.Decimal, error) {
	if id.IsNil(unitID) || baseUnitID == unitID {
		return qty, nil
	}

	cu, err := s.repo.FindCompound(ctx, baseUnitID, unitID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return qty, nil
		}
		return decimal.Zero, err
	}

	return cu.ToBase(qty), nil
}
