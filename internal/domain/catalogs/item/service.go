package item

import (
	"context"
	"fmt"
	"time"

	"ledgerbook/internal/core/tx"
	"ledgerbook/internal/domain"
	"ledgerbook/pkg/numerator"
)

// Service provides business logic for the Item catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Item]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Item service.
func NewService(repo Repository, gen numerator.Generator, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Item]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "item",
	})

	return &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      gen,
	}
}

// Create creates a new item, generating a code if none is given.
func (s *Service) Create(ctx context.Context, it *Item) error {
	if it.Code == "" {
		cfg := numerator.DefaultConfig("ITM")
		cfg.IncludeYear = false
		cfg.ResetPeriod = "never"
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate item code: %w", err)
		}
		it.Code = code
	}

	return s.CatalogService.Create(ctx, it)
}

// FindByName retrieves an item by exact name.
func (s *Service) FindByName(ctx context.Context, name string) (*Item, error) {
	return s.repo.FindByName(ctx, name)
}

// Categories returns the distinct category names in use.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}
