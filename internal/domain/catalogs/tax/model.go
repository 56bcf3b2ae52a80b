// Package tax provides GST reference data: rate slabs and HSN codes.
package tax

import (
	"context"

	"github.com/shopspring/decimal"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
)

// GSTSlab represents a GST rate (0%, 5%, 12%, 18%, 28%).
type GSTSlab struct {
	ID id.ID `db:"id" json:"id"`

	// Rate is the tax percentage.
	Rate decimal.Decimal `db:"rate" json:"rate"`

	Description string `db:"description" json:"description,omitempty"`
}

// NewGSTSlab creates a new GST slab.
func NewGSTSlab(rate decimal.Decimal, description string) *GSTSlab {
	return &GSTSlab{
		ID:          id.New(),
		Rate:        rate,
		Description: description,
	}
}

// Validate checks slab invariants.
func (g *GSTSlab) Validate(ctx context.Context) error {
	if g.Rate.IsNegative() {
		return apperror.NewValidation("GST rate cannot be negative").
			WithDetail("field", "rate")
	}
	if g.Rate.GreaterThan(decimal.NewFromInt(100)) {
		return apperror.NewValidation("GST rate cannot exceed 100%").
			WithDetail("field", "rate")
	}
	return nil
}

// TaxOn computes the tax amount on a taxable value.
func (g *GSTSlab) TaxOn(taxable decimal.Decimal) decimal.Decimal {
	return taxable.Mul(g.Rate).Div(decimal.NewFromInt(100))
}

// HSNCode represents an HSN (Harmonized System of Nomenclature)
// classification code, linked to its default GST slab.
type HSNCode struct {
	ID id.ID `db:"id" json:"id"`

	Code        string `db:"code" json:"code"`
	Description string `db:"description" json:"description,omitempty"`

	// GSTSlabID is the default rate slab for items under this code.
	GSTSlabID *id.ID `db:"gst_slab_id" json:"gstSlabId,omitempty"`
}

// NewHSNCode creates a new HSN code.
func NewHSNCode(code, description string) *HSNCode {
	return &HSNCode{
		ID:          id.New(),
		Code:        code,
		Description: description,
	}
}

// Validate checks HSN code invariants.
func (h *HSNCode) Validate(ctx context.Context) error {
	if h.Code == "" {
		return apperror.NewValidation("HSN code is required").
			WithDetail("field", "code")
	}
	return nil
}
