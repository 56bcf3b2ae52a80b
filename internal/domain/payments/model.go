package payments

import (
	"context"
	"time"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/entity"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
)

// PartyKind distinguishes customer receipts from supplier payments.
type PartyKind string

const (
	PartyCustomer PartyKind = "customer"
	PartySupplier PartyKind = "supplier"
)

// Payment represents money received from a customer or paid to a
// supplier, with its allocation across open invoices.
type Payment struct {
	entity.BaseEntity

	Kind    PartyKind `db:"kind" json:"kind"`
	PartyID id.ID     `db:"party_id" json:"partyId"`

	Date   time.Time   `db:"date" json:"date"`
	Amount types.Money `db:"amount" json:"amount"`
	Notes  string      `db:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`

	Allocations []Allocation `db:"-" json:"allocations"`
}

// NewPayment creates a new payment.
func NewPayment(kind PartyKind, partyID id.ID, date time.Time, amount types.Money) *Payment {
	return &Payment{
		BaseEntity: entity.NewBaseEntity(),
		Kind:       kind,
		PartyID:    partyID,
		Date:       date,
		Amount:     amount,
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate implements entity.Validatable.
func (p *Payment) Validate(ctx context.Context) error {
	if p.Kind != PartyCustomer && p.Kind != PartySupplier {
		return apperror.NewValidation("unknown payment kind").
			WithDetail("field", "kind")
	}
	if id.IsNil(p.PartyID) {
		return apperror.NewValidation("party is required").
			WithDetail("field", "partyId")
	}
	if p.Date.IsZero() {
		return apperror.NewValidation("payment date is required").
			WithDetail("field", "date")
	}
	if !p.Amount.IsPositive() {
		return apperror.NewValidation("payment amount must be positive").
			WithDetail("field", "amount")
	}
	return nil
}
