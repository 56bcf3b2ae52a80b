// Package quotation provides the Quotation document and its conversion
// into a posted sales invoice.
package quotation

import (
	"context"
	"time"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/entity"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
)

// Quotation status.
const (
	StatusDraft     = "DRAFT"
	StatusConverted = "CONVERTED"
)

// Quotation represents a price offer to a customer. It has no ledger
// or inventory effect until converted to a sales invoice.
type Quotation struct {
	entity.Document

	CustomerID id.ID `db:"customer_id" json:"customerId"`

	// ExpiryDate bounds the offer's validity.
	ExpiryDate *time.Time `db:"expiry_date" json:"expiryDate,omitempty"`

	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	Status string `db:"status" json:"status"`

	// SaleInvoiceID links to the invoice created on conversion.
	SaleInvoiceID *id.ID `db:"sale_invoice_id" json:"saleInvoiceId,omitempty"`

	Lines []Line `db:"-" json:"lines"`
}

// Line represents a quotation line. Quotations carry no tax breakdown;
// GST is computed at conversion time from the item's slab and the
// customer's state.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID       id.ID          `db:"item_id" json:"itemId"`
	Quantity     types.Quantity `db:"quantity" json:"quantity"`
	SellingPrice types.Money    `db:"selling_price" json:"sellingPrice"`
}

// NewQuotation creates a new draft quotation.
func NewQuotation(customerID id.ID) *Quotation {
	return &Quotation{
		Document:    entity.NewDocument(),
		CustomerID:  customerID,
		TotalAmount: types.Zero(),
		Status:      StatusDraft,
		Lines:       make([]Line, 0),
	}
}

// AddLine appends a line and recalculates the total.
func (q *Quotation) AddLine(line Line) {
	if id.IsNil(line.LineID) {
		line.LineID = id.New()
	}
	line.LineNo = len(q.Lines) + 1
	q.Lines = append(q.Lines, line)
	q.RecalculateTotal()
}

// RecalculateTotal updates the header total from lines.
func (q *Quotation) RecalculateTotal() {
	q.TotalAmount = types.Zero()
	for _, line := range q.Lines {
		q.TotalAmount = q.TotalAmount.Add(line.SellingPrice.Mul(line.Quantity))
	}
}

// IsExpired reports whether the offer has lapsed.
func (q *Quotation) IsExpired() bool {
	return q.ExpiryDate != nil && q.ExpiryDate.Before(time.Now().UTC())
}

// Validate implements entity.Validatable.
func (q *Quotation) Validate(ctx context.Context) error {
	if err := q.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(q.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}

	if len(q.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range q.Lines {
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
