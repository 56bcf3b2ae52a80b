package item

import (
	"context"

	"ledgerbook/internal/domain"
)

// Repository defines the interface for Item persistence.
type Repository interface {
	domain.CatalogRepository[*Item]

	// FindByName retrieves an item by exact name.
	FindByName(ctx context.Context, name string) (*Item, error)

	// Categories returns the distinct category names in use.
	Categories(ctx context.Context) ([]string, error)
}
