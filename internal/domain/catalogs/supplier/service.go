package supplier

import (
	"context"
	"fmt"
	"time"

	"ledgerbook/internal/core/tx"
	"ledgerbook/internal/domain"
	"ledgerbook/pkg/numerator"
)

// Repository defines the interface for Supplier persistence.
type Repository interface {
	domain.CatalogRepository[*Supplier]

	// FindByName retrieves a supplier by exact name.
	FindByName(ctx context.Context, name string) (*Supplier, error)
}

// Service provides business logic for the Supplier catalog.
type Service struct {
	*domain.CatalogService[*Supplier]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Supplier service.
func NewService(repo Repository, gen numerator.Generator, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Supplier]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "supplier",
	})

	return &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      gen,
	}
}

// Create creates a new supplier, generating a code if none is given.
func (s *Service) Create(ctx context.Context, sup *Supplier) error {
	if sup.Code == "" {
		cfg := numerator.DefaultConfig("SUP")
		cfg.IncludeYear = false
		cfg.ResetPeriod = "never"
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate supplier code: %w", err)
		}
		sup.Code = code
	}

	return s.CatalogService.Create(ctx, sup)
}

// FindByName retrieves a supplier by exact name.
func (s *Service) FindByName(ctx context.Context, name string) (*Supplier, error) {
	return s.repo.FindByName(ctx, name)
}
