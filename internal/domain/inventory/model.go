// Package inventory tracks serialized stock through its lifecycle:
// created IN_STOCK by a purchase posting, moved to SOLD by a sale
// posting, or CONSUMED into an assembled product.
package inventory

import (
	"context"
	"time"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
)

// SerialStatus is the lifecycle state of a serial number.
type SerialStatus string

const (
	// StatusInStock is the initial state, set at purchase posting.
	StatusInStock SerialStatus = "IN_STOCK"

	// StatusSold is terminal, set at sale posting. A sold serial never
	// returns to stock.
	StatusSold SerialStatus = "SOLD"

	// StatusConsumed is terminal, set when the serial is built into an
	// assembled product.
	StatusConsumed SerialStatus = "CONSUMED"
)

// Serial represents a single tracked unit of a serialized item.
type Serial struct {
	ID id.ID `db:"id" json:"id"`

	ItemID       id.ID  `db:"item_id" json:"itemId"`
	SerialNumber string `db:"serial_number" json:"serialNumber"`

	Status SerialStatus `db:"status" json:"status"`

	// GodownID is the storage location while in stock.
	GodownID *id.ID `db:"godown_id" json:"godownId,omitempty"`

	// PurchaseInvoiceID links to the purchase that created this serial.
	// Nil for assembled units.
	PurchaseInvoiceID *id.ID `db:"purchase_invoice_id" json:"purchaseInvoiceId,omitempty"`

	// SaleInvoiceID is set when the serial is sold.
	SaleInvoiceID *id.ID `db:"sale_invoice_id" json:"saleInvoiceId,omitempty"`

	// AssemblyID links a consumed component to the assembled serial
	// that absorbed it.
	AssemblyID *id.ID `db:"assembly_id" json:"assemblyId,omitempty"`

	// WarrantyEndDate is set on sale when the item carries a warranty.
	WarrantyEndDate *time.Time `db:"warranty_end_date" json:"warrantyEndDate,omitempty"`
}

// NewSerial creates an IN_STOCK serial for a purchased unit.
func NewSerial(itemID id.ID, serialNumber string, godownID, purchaseInvoiceID *id.ID) *Serial {
	return &Serial{
		ID:                id.New(),
		ItemID:            itemID,
		SerialNumber:      serialNumber,
		Status:            StatusInStock,
		GodownID:          godownID,
		PurchaseInvoiceID: purchaseInvoiceID,
	}
}

// Validate checks serial invariants.
func (s *Serial) Validate(ctx context.Context) error {
	if id.IsNil(s.ItemID) {
		return apperror.NewValidation("item is required").
			WithDetail("field", "itemId")
	}
	if s.SerialNumber == "" {
		return apperror.NewValidation("serial number is required").
			WithDetail("field", "serialNumber")
	}
	return nil
}

// Component is an in-stock serial joined with its item, as offered to
// the assembly builder.
type Component struct {
	SerialID      id.ID       `db:"serial_id" json:"serialId"`
	SerialNumber  string      `db:"serial_number" json:"serialNumber"`
	ItemID        id.ID       `db:"item_id" json:"itemId"`
	ItemName      string      `db:"item_name" json:"itemName"`
	PurchasePrice types.Money `db:"purchase_price" json:"purchasePrice"`
}

// BuildInput describes an assembly: a name for the finished product
// and the in-stock component serials it consumes.
type BuildInput struct {
	Name               string      `json:"name"`
	ComponentSerialIDs []id.ID     `json:"componentSerialIds"`
	GodownID           *id.ID      `json:"godownId,omitempty"`
	SellingPrice       types.Money `json:"sellingPrice"`
}

// Validate checks build invariants.
func (in *BuildInput) Validate(ctx context.Context) error {
	if in.Name == "" {
		return apperror.NewValidation("assembly name is required").
			WithDetail("field", "name")
	}
	if len(in.ComponentSerialIDs) == 0 {
		return apperror.NewValidation("at least one component is required").
			WithDetail("field", "componentSerialIds")
	}
	return nil
}
