// Package item provides the Item catalog: goods bought, sold, and
// assembled by the business.
package item

import (
	"context"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/entity"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
)

// Item represents a stock item.
type Item struct {
	entity.Catalog

	// PurchasePrice is the default cost price, used for COGS postings.
	PurchasePrice types.Money `db:"purchase_price" json:"purchasePrice"`

	// SellingPrice is the default sale price.
	SellingPrice types.Money `db:"selling_price" json:"sellingPrice"`

	// DefaultWarrantyMonths sets warranty_end_date on sold serials.
	// Zero means no warranty.
	DefaultWarrantyMonths int `db:"default_warranty_months" json:"defaultWarrantyMonths"`

	// MinimumStockLevel triggers the low-stock report.
	MinimumStockLevel int `db:"minimum_stock_level" json:"minimumStockLevel"`

	// Category is a free-form grouping (e.g. "Laptops", "Accessories").
	Category string `db:"category" json:"category,omitempty"`

	// UnitID references the unit of measure.
	UnitID *id.ID `db:"unit_id" json:"unitId,omitempty"`

	// HSNCodeID references the HSN classification for GST reporting.
	HSNCodeID *id.ID `db:"hsn_code_id" json:"hsnCodeId,omitempty"`

	// GSTSlabID references the default GST rate slab.
	GSTSlabID *id.ID `db:"gst_slab_id" json:"gstSlabId,omitempty"`

	// IsSerialized indicates the item is tracked per serial number.
	IsSerialized bool `db:"is_serialized" json:"isSerialized"`

	// IsAssembled indicates the item is built from components in-house.
	IsAssembled bool `db:"is_assembled" json:"isAssembled"`
}

// NewItem creates a new item with required fields.
func NewItem(code, name string) *Item {
	return &Item{
		Catalog:       entity.NewCatalog(code, name),
		PurchasePrice: types.Zero(),
		SellingPrice:  types.Zero(),
	}
}

// Validate implements entity.Validatable interface.
func (i *Item) Validate(ctx context.Context) error {
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}

	if i.PurchasePrice.IsNegative() {
		return apperror.NewValidation("purchase price cannot be negative").
			WithDetail("field", "purchasePrice")
	}
	if i.SellingPrice.IsNegative() {
		return apperror.NewValidation("selling price cannot be negative").
			WithDetail("field", "sellingPrice")
	}
	if i.DefaultWarrantyMonths < 0 {
		return apperror.NewValidation("warranty months cannot be negative").
			WithDetail("field", "defaultWarrantyMonths")
	}
	if i.MinimumStockLevel < 0 {
		return apperror.NewValidation("minimum stock level cannot be negative").
			WithDetail("field", "minimumStockLevel")
	}

	return nil
}

// HasWarranty reports whether sold serials of this item get a warranty
// end date.
func (i *Item) HasWarranty() bool {
	return i.DefaultWarrantyMonths > 0
}
