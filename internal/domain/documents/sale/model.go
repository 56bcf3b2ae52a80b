// Package sale provides the SalesInvoice document.
// Posting a sale writes the invoice, two ledger transactions (revenue
// and COGS), and the SOLD serial transitions in one atomic operation.
package sale

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

// SalesInvoice represents goods sold to a customer.
type SalesInvoice struct {
	entity.Document

	CustomerID id.ID `db:"customer_id" json:"customerId"`

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

	// QuotationID links back to the source quotation, if converted.
	QuotationID *id.ID `db:"quotation_id" json:"quotationId,omitempty"`

	// Table part: sold goods
	Lines []Line `db:"-" json:"lines"`
}

// Line represents a line in the sales invoice.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID id.ID `db:"item_id" json:"itemId"`

	// Quantity in the item's base unit. When the user enters a
	// different unit, UnitID records it and the builder converts.
	Quantity types.Quantity `db:"quantity" json:"quantity"`
	UnitID   *id.ID         `db:"unit_id" json:"unitId,omitempty"`

	SellingPrice types.Money `db:"selling_price" json:"sellingPrice"`

	// Tax breakdown
	TaxableValue   types.Money     `db:"taxable_value" json:"taxableValue"`
	CGSTRate       decimal.Decimal `db:"cgst_rate" json:"cgstRate"`
	SGSTRate       decimal.Decimal `db:"sgst_rate" json:"sgstRate"`
	IGSTRate       decimal.Decimal `db:"igst_rate" json:"igstRate"`
	CGSTAmount     types.Money     `db:"cgst_amount" json:"cgstAmount"`
	SGSTAmount     types.Money     `db:"sgst_amount" json:"sgstAmount"`
	IGSTAmount     types.Money     `db:"igst_amount" json:"igstAmount"`
	TotalGSTAmount types.Money     `db:"total_gst_amount" json:"totalGstAmount"`

	// SerialIDs references the IN_STOCK serials being sold.
	SerialIDs []id.ID `db:"-" json:"serialIds,omitempty"`
}

// NewSalesInvoice creates a new sales invoice.
func NewSalesInvoice(customerID id.ID) *SalesInvoice {
	return &SalesInvoice{
		Document:       entity.NewDocument(),
		CustomerID:     customerID,
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
func (s *SalesInvoice) AddLine(line Line) {
	if id.IsNil(line.LineID) {
		line.LineID = id.New()
	}
	line.LineNo = len(s.Lines) + 1
	s.Lines = append(s.Lines, line)
	s.RecalculateTotals()
}

// RecalculateTotals updates header totals from lines.
func (s *SalesInvoice) RecalculateTotals() {
	s.TaxableAmount = types.Zero()
	s.CGSTAmount = types.Zero()
	s.SGSTAmount = types.Zero()
	s.IGSTAmount = types.Zero()
	s.TotalGSTAmount = types.Zero()

	for _, line := range s.Lines {
		s.TaxableAmount = s.TaxableAmount.Add(line.TaxableValue)
		s.CGSTAmount = s.CGSTAmount.Add(line.CGSTAmount)
		s.SGSTAmount = s.SGSTAmount.Add(line.SGSTAmount)
		s.IGSTAmount = s.IGSTAmount.Add(line.IGSTAmount)
		s.TotalGSTAmount = s.TotalGSTAmount.Add(line.TotalGSTAmount)
	}

	s.TotalAmount = s.TaxableAmount.Add(s.TotalGSTAmount)
}

// Outstanding returns the unpaid balance.
func (s *SalesInvoice) Outstanding() types.Money {
	return s.TotalAmount.Sub(s.AmountPaid)
}

// Validate implements entity.Validatable.
func (s *SalesInvoice) Validate(ctx context.Context) error {
	if err := s.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(s.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}

	if len(s.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range s.Lines {
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
		if line.SellingPrice.IsNegative() {
			return apperror.NewValidation("selling price cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}
