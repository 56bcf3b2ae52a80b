package tax

import (
	"context"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/tx"
)

// Repository defines GST reference data persistence.
type Repository interface {
	// Slabs
	CreateSlab(ctx context.Context, slab *GSTSlab) error
	GetSlab(ctx context.Context, slabID id.ID) (*GSTSlab, error)
	ListSlabs(ctx context.Context) ([]*GSTSlab, error)
	DeleteSlab(ctx context.Context, slabID id.ID) error
	SlabInUse(ctx context.Context, slabID id.ID) (bool, error)

	// HSN codes
	CreateHSN(ctx context.Context, hsn *HSNCode) error
	GetHSN(ctx context.Context, hsnID id.ID) (*HSNCode, error)
	ListHSN(ctx context.Context) ([]*HSNCode, error)
	UpdateHSN(ctx context.Context, hsn *HSNCode) error
	DeleteHSN(ctx context.Context, hsnID id.ID) error
	HSNInUse(ctx context.Context, hsnID id.ID) (bool, error)
}

// Service provides business logic for GST reference data.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new tax reference service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// CreateSlab creates a GST rate slab.
func (s *Service) CreateSlab(ctx context.Context, slab *GSTSlab) error {
	if err := slab.Validate(ctx); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.CreateSlab(ctx, slab)
	})
}

// GetSlab retrieves a slab by ID.
func (s *Service) GetSlab(ctx context.Context, slabID id.ID) (*GSTSlab, error) {
	return s.repo.GetSlab(ctx, slabID)
}

// ListSlabs retrieves all slabs ordered by rate.
func (s *Service) ListSlabs(ctx context.Context) ([]*GSTSlab, error) {
	return s.repo.ListSlabs(ctx)
}

// DeleteSlab removes a slab unless it is referenced by HSN codes or items.
func (s *Service) DeleteSlab(ctx context.Context, slabID id.ID) error {
	inUse, err := s.repo.SlabInUse(ctx, slabID)
	if err != nil {
		return err
	}
	if inUse {
		return apperror.NewConflict("GST slab is in use and cannot be deleted").
			WithDetail("slabId", slabID)
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.DeleteSlab(ctx, slabID)
	})
}

// CreateHSN creates an HSN code.
func (s *Service) CreateHSN(ctx context.Context, hsn *HSNCode) error {
	if err := hsn.Validate(ctx); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.CreateHSN(ctx, hsn)
	})
}

// GetHSN retrieves an HSN code by ID.
func (s *Service) GetHSN(ctx context.Context, hsnID id.ID) (*HSNCode, error) {
	return s.repo.GetHSN(ctx, hsnID)
}

// ListHSN retrieves all HSN codes.
func (s *Service) ListHSN(ctx context.Context) ([]*HSNCode, error) {
	return s.repo.ListHSN(ctx)
}

// UpdateHSN updates an HSN code.
func (s *Service) UpdateHSN(ctx context.Context, hsn *HSNCode) error {
	if err := hsn.Validate(ctx); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.UpdateHSN(ctx, hsn)
	})
}

// DeleteHSN removes an HSN code unless items reference it.
func (s *Service) DeleteHSN(ctx context.Context, hsnID id.ID) error {
	inUse, err := s.repo.HSNInUse(ctx, hsnID)
	if err != nil {
		return err
	}
	if inUse {
		return apperror.NewConflict("HSN code is in use and cannot be deleted").
			WithDetail("hsnId", hsnID)
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.DeleteHSN(ctx, hsnID)
	})
}
