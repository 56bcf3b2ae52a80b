// Package purchase provides the PurchaseInvoice document.
// Posting a purchase writes the invoice, its ledger transaction, and
// the IN_STOCK serials in one atomic operation.
package purchase

import (
	"context"

	"github.com/shopspring/decimal"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/entity"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
)

// Invoice payment status.
const (
	StatusUnpaid = "UNPAID"
	StatusPaid   = "PAID"
)

// PurchaseInvoice represents goods received from a supplier.
type PurchaseInvoice struct {
	entity.Document

	SupplierID id.ID `db:"supplier_id" json:"supplierId"`

	// Totals (computed from lines)
	TaxableAmount  types.Money `db:"taxable_amount" json:"taxableAmount"`
	CGSTAmount     types.Money `db:"cgst_amount" json:"cgstAmount"`
	SGSTAmount     types.Money `db:"sgst_amount" json:"sgstAmount"`
	IGSTAmount     types.Money `db:"igst_amount" json:"igstAmount"`
	TotalGSTAmount types.Money `db:"total_gst_amount" json:"totalGstAmount"`
	TotalAmount    types.Money `db:"total_amount" json:"totalAmount"`

	// Payment tracking
	Status     string      `db:"status" json:"status"`
	AmountPaid types.Money `db:"amount_paid" json:"amountPaid"`

	// Table part: purchased goods
	Lines []Line `db:"-" json:"lines"`
}

// Line represents a line in the purchase invoice.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID id.ID `db:"item_id" json:"itemId"`

	// Quantity in the item's base unit. When the user enters a
	// different unit, UnitID records it and the builder converts.
	Quantity types.Quantity `db:"quantity" json:"quantity"`
	UnitID   *id.ID         `db:"unit_id" json:"unitId,omitempty"`

	PurchasePrice types.Money `db:"purchase_price" json:"purchasePrice"`

	// Tax breakdown
	TaxableValue   types.Money     `db:"taxable_value" json:"taxableValue"`
	CGSTRate       decimal.Decimal `db:"cgst_rate" json:"cgstRate"`
	SGSTRate       decimal.Decimal `db:"sgst_rate" json:"sgstRate"`
	IGSTRate       decimal.Decimal `db:"igst_rate" json:"igstRate"`
	CGSTAmount     types.Money     `db:"cgst_amount" json:"cgstAmount"`
	SGSTAmount     types.Money     `db:"sgst_amount" json:"sgstAmount"`
	IGSTAmount     types.Money     `db:"igst_amount" json:"igstAmount"`
	TotalGSTAmount types.Money     `db:"total_gst_amount" json:"totalGstAmount"`

	// SerialNumbers declares the serials received for serialized items.
	SerialNumbers []string `db:"-" json:"serialNumbers,omitempty"`

	// GodownID is where the serials are stored.
	GodownID *id.ID `db:"godown_id" json:"godownId,omitempty"`
}

// NewPurchaseInvoice creates a new purchase invoice.
func NewPurchaseInvoice(supplierID id.ID) *PurchaseInvoice {
	return &PurchaseInvoice{
		Document:       entity.NewDocument(),
		SupplierID:     supplierID,
		TaxableAmount:  types.Zero(),
		CGSTAmount:     types.Zero(),
		SGSTAmount:     types.Zero(),
		IGSTAmount:     types.Zero(),
		TotalGSTAmount: types.Zero(),
		TotalAmount:    types.Zero(),
		Status:         StatusUnpaid,
		AmountPaid:     types.Zero(),
		Lines:          make([]Line, 0),
	}
}

// AddLine appends a line and recalculates totals.
func (p *PurchaseInvoice) AddLine(line Line) {
	if id.IsNil(line.LineID) {
		line.LineID = id.New()
	}
	line.LineNo = len(p.Lines) + 1
	p.Lines = append(p.Lines, line)
	p.RecalculateTotals()
}

// RecalculateTotals updates header totals from lines.
func (p *PurchaseInvoice) RecalculateTotals() {
	p.TaxableAmount = types.Zero()
	p.CGSTAmount = types.Zero()
	p.SGSTAmount = types.Zero()
	p.IGSTAmount = types.Zero()
	p.TotalGSTAmount = types.Zero()

	for _, line := range p.Lines {
		p.TaxableAmount = p.TaxableAmount.Add(line.TaxableValue)
		p.CGSTAmount = p.CGSTAmount.Add(line.CGSTAmount)
		p.SGSTAmount = p.SGSTAmount.Add(line.SGSTAmount)
		p.IGSTAmount = p.IGSTAmount.Add(line.IGSTAmount)
		p.TotalGSTAmount = p.TotalGSTAmount.Add(line.TotalGSTAmount)
	}

	p.TotalAmount = p.TaxableAmount.Add(p.TotalGSTAmount)
}

// Outstanding returns the unpaid balance.
func (p *PurchaseInvoice) Outstanding() types.Money {
	return p.TotalAmount.Sub(p.AmountPaid)
}

// Validate implements entity.Validatable.
func (p *PurchaseInvoice) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(p.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}

	if len(p.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range p.Lines {
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("item is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.PurchasePrice.IsNegative() {
			return apperror.NewValidation("purchase price cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}
