package customer

import (
	"context"
	"fmt"
	"time"

	"ledgerbook/internal/core/tx"
	"ledgerbook/internal/domain"
	"ledgerbook/pkg/numerator"
)

// Repository defines the interface for Customer persistence.
type Repository interface {
	domain.CatalogRepository[*Customer]

	// FindByName retrieves a customer by exact name.
	FindByName(ctx context.Context, name string) (*Customer, error)
}

// Service provides business logic for the Customer catalog.
type Service struct {
	*domain.CatalogService[*Customer]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Customer service.
func NewService(repo Repository, gen numerator.Generator, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Customer]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "customer",
	})

	return &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      gen,
	}
}

// Create creates a new customer, generating a code if none is given.
func (s *Service) Create(ctx context.Context, c *Customer) error {
	if c.Code == "" {
		cfg := numerator.DefaultConfig("CUST")
		cfg.IncludeYear = false
		cfg.ResetPeriod = "never"
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate customer code: %w", err)
		}
		c.Code = code
	}

	return s.CatalogService.Create(ctx, c)
}

// FindByName retrieves a customer by exact name.
func (s *Service) FindByName(ctx context.Context, name string) (*Customer, error) {
	return s.repo.FindByName(ctx, name)
}
