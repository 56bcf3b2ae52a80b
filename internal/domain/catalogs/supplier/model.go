// Package supplier provides the Supplier catalog.
package supplier

import (
	"context"

	"ledgerbook/internal/core/entity"
)

// Supplier represents a vendor the business purchases from.
type Supplier struct {
	entity.Catalog

	// GSTIN is the supplier's GST registration number.
	GSTIN string `db:"gstin" json:"gstin,omitempty"`

	Address string `db:"address" json:"address,omitempty"`
	Phone   string `db:"phone" json:"phone,omitempty"`
	Email   string `db:"email" json:"email,omitempty"`

	// State is the supplier's registered state.
	State string `db:"state" json:"state,omitempty"`
}

// NewSupplier creates a new supplier.
func NewSupplier(code, name string) *Supplier {
	return &Supplier{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (s *Supplier) Validate(ctx context.Context) error {
	return s.Catalog.Validate(ctx)
}
