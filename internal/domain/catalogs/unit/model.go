// Package unit provides units of measure, including compound units
// (e.g. 1 Box = 10 Pieces) used to convert invoice line quantities.
package unit

import (
	"context"

	"github.com/shopspring/decimal"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/entity"
	"ledgerbook/internal/core/id"
)

// Unit represents a simple unit of measure (Piece, Box, Kg).
type Unit struct {
	entity.Catalog
}

// NewUnit creates a new unit.
func NewUnit(name string) *Unit {
	return &Unit{
		Catalog: entity.NewCatalog("", name),
	}
}

// Validate implements entity.Validatable interface.
func (u *Unit) Validate(ctx context.Context) error {
	return u.Catalog.Validate(ctx)
}

// CompoundUnit relates two simple units by a conversion factor:
// one secondary unit equals ConversionFactor base units.
type CompoundUnit struct {
	ID id.ID `db:"id" json:"id"`

	// BaseUnitID is the unit stock is counted in.
	BaseUnitID id.ID `db:"base_unit_id" json:"baseUnitId"`

	// SecondaryUnitID is the larger packaging unit.
	SecondaryUnitID id.ID `db:"secondary_unit_id" json:"secondaryUnitId"`

	// ConversionFactor is base units per secondary unit. Must be positive.
	ConversionFactor decimal.Decimal `db:"conversion_factor" json:"conversionFactor"`
}

// NewCompoundUnit creates a compound unit relationship.
func NewCompoundUnit(baseUnitID, secondaryUnitID id.ID, factor decimal.Decimal) *CompoundUnit {
	return &CompoundUnit{
		ID:               id.New(),
		BaseUnitID:       baseUnitID,
		SecondaryUnitID:  secondaryUnitID,
		ConversionFactor: factor,
	}
}

// Validate checks compound unit invariants.
func (c *CompoundUnit) Validate(ctx context.Context) error {
	if id.IsNil(c.BaseUnitID) {
		return apperror.NewValidation("base unit is required").
			WithDetail("field", "baseUnitId")
	}
	if id.IsNil(c.SecondaryUnitID) {
		return apperror.NewValidation("secondary unit is required").
			WithDetail("field", "secondaryUnitId")
	}
	if c.BaseUnitID == c.SecondaryUnitID {
		return apperror.NewValidation("base and secondary units must differ").
			WithDetail("field", "secondaryUnitId")
	}
	if !c.ConversionFactor.IsPositive() {
		return apperror.NewValidation("conversion factor must be positive").
			WithDetail("field", "conversionFactor")
	}
	return nil
}

// ToBase converts a quantity in the secondary unit to base units.
func (c *CompoundUnit) ToBase(qty decimal.Decimal) decimal.Decimal {
	return qty.Mul(c.ConversionFactor)
}

// FromBase converts a quantity in base units to the secondary unit.
func (c *CompoundUnit) FromBase(qty decimal.Decimal) decimal.Decimal {
	return qty.Div(c.ConversionFactor)
}
