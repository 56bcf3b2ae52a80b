// Package customer provides the Customer catalog.
package customer

import (
	"context"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/entity"
	"ledgerbook/internal/core/types"
)

// Customer represents a buyer the business issues invoices to.
type Customer struct {
	entity.Catalog

	// GSTIN is the customer's GST registration number.
	// Empty for unregistered (B2C) customers.
	GSTIN string `db:"gstin" json:"gstin,omitempty"`

	Address string `db:"address" json:"address,omitempty"`
	Phone   string `db:"phone" json:"phone,omitempty"`
	Email   string `db:"email" json:"email,omitempty"`

	// State is the place of supply for GST purposes.
	State string `db:"state" json:"state,omitempty"`

	BillingAddress  string `db:"billing_address" json:"billingAddress,omitempty"`
	ShippingAddress string `db:"shipping_address" json:"shippingAddress,omitempty"`

	// CreditLimit caps outstanding receivables; zero means unlimited.
	CreditLimit types.Money `db:"credit_limit" json:"creditLimit"`
}

// NewCustomer creates a new customer.
func NewCustomer(code, name string) *Customer {
	return &Customer{
		Catalog:     entity.NewCatalog(code, name),
		CreditLimit: types.Zero(),
	}
}

// Validate implements entity.Validatable interface.
func (c *Customer) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.CreditLimit.IsNegative() {
		return apperror.NewValidation("credit limit cannot be negative").
			WithDetail("field", "creditLimit")
	}

	return nil
}

// IsRegistered reports whether the customer has a GSTIN (B2B).
func (c *Customer) IsRegistered() bool {
	return c.GSTIN != ""
}
