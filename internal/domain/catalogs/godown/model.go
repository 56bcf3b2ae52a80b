// Package godown provides the Godown (warehouse/storage location) catalog.
package godown

import (
	"context"

	"ledgerbook/internal/core/entity"
	"ledgerbook/internal/core/tx"
	"ledgerbook/internal/domain"
)

// Godown represents a physical storage location for serialized stock.
type Godown struct {
	entity.Catalog

	// Location is a free-form address or description.
	Location string `db:"location" json:"location,omitempty"`
}

// NewGodown creates a new godown.
func NewGodown(code, name string) *Godown {
	return &Godown{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (g *Godown) Validate(ctx context.Context) error {
	return g.Catalog.Validate(ctx)
}

// Repository defines the interface for Godown persistence.
type Repository interface {
	domain.CatalogRepository[*Godown]
}

// Service provides business logic for the Godown catalog.
type Service struct {
	*domain.CatalogService[*Godown]
}

// NewService creates a new Godown service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Godown]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "godown",
		}),
	}
}
