// Package payments records customer and supplier payments and their
// allocation across open invoices.
package payments

import (
	"fmt"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
)

// tolerance absorbs rounding noise when comparing allocation amounts
// against invoice balances.
var tolerance = types.MustMoney("0.001")

// OpenInvoice is the view of an unpaid invoice the validator needs.
type OpenInvoice struct {
	InvoiceID   id.ID       `json:"invoiceId"`
	Number      string      `json:"number"`
	TotalAmount types.Money `json:"totalAmount"`
	AmountPaid  types.Money `json:"amountPaid"`
}

// Outstanding returns the unpaid balance.
func (o *OpenInvoice) Outstanding() types.Money {
	return o.TotalAmount.Sub(o.AmountPaid)
}

// Allocation assigns part of a payment to one invoice.
type Allocation struct {
	InvoiceID id.ID       `json:"invoiceId"`
	Amount    types.Money `json:"amount"`
}

// ValidateAllocations checks a proposed split of paymentAmount across
// open invoices. Pure function, no storage access.
//
// Rules:
//   - an allocation must not exceed its invoice's outstanding balance
//     (plus a 0.001 tolerance for rounding);
//   - the sum of allocations must not exceed paymentAmount (same
//     tolerance);
//   - zero and negative allocations are dropped;
//   - an allocation against an unknown invoice is rejected.
//
// Returns the accepted allocations, in input order.
func ValidateAllocations(invoices []*OpenInvoice, paymentAmount types.Money, proposed []Allocation) ([]Allocation, error) {
	byID := make(map[id.ID]*OpenInvoice, len(invoices))
	for _, inv := range invoices {
		byID[inv.InvoiceID] = inv
	}

	totalAllocated := types.Zero()
	allocatedTo := make(map[id.ID]types.Money, len(proposed))
	accepted := make([]Allocation, 0, len(proposed))

	for _, alloc := range proposed {
		if !alloc.Amount.IsPositive() {
			continue
		}

		inv, ok := byID[alloc.InvoiceID]
		if !ok {
			return nil, apperror.NewNotFound("invoice", alloc.InvoiceID.String())
		}

		// Earlier allocations in this payment reduce what the invoice
		// can still absorb.
		due := inv.Outstanding().Sub(allocatedTo[alloc.InvoiceID])
		if alloc.Amount.GreaterThan(due.Add(tolerance)) {
			return nil, apperror.NewOverAllocation(
				fmt.Sprintf("Cannot apply %s to Invoice #%s. Amount due is %s.",
					alloc.Amount.StringFixed(2), inv.Number, due.StringFixed(2))).
				WithDetail("invoiceId", alloc.InvoiceID).
				WithDetail("allocated", alloc.Amount.StringFixed(2)).
				WithDetail("due", due.StringFixed(2))
		}

		allocatedTo[alloc.InvoiceID] = allocatedTo[alloc.InvoiceID].Add(alloc.Amount)
		totalAllocated = totalAllocated.Add(alloc.Amount)
		accepted = append(accepted, alloc)
	}

	if totalAllocated.GreaterThan(paymentAmount.Add(tolerance)) {
		return nil, apperror.NewOverAllocation(
			fmt.Sprintf("Total allocated amount (%s) cannot exceed the payment amount (%s).",
				totalAllocated.StringFixed(2), paymentAmount.StringFixed(2))).
			WithDetail("allocated", totalAllocated.StringFixed(2)).
			WithDetail("payment", paymentAmount.StringFixed(2))
	}

	return accepted, nil
}
