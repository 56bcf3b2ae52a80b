package payments

import (
	"context"
	"time"

	"ledgerbook/internal/core/id"
	"ledgerbook/internal/domain"
)

// Repository defines payment persistence.
type Repository interface {
	// Create inserts a payment header.
	Create(ctx context.Context, p *Payment) error

	// SaveAllocations inserts allocation rows for a payment.
	SaveAllocations(ctx context.Context, paymentID id.ID, allocations []Allocation) error

	// GetByID retrieves a payment with allocations.
	GetByID(ctx context.Context, paymentID id.ID) (*Payment, error)

	// List retrieves payments with filtering.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Payment], error)
}

// ListFilter for filtering payments.
type ListFilter struct {
	Kind     PartyKind
	PartyID  *id.ID
	DateFrom *time.Time
	DateTo   *time.Time

	Limit  int
	Offset int
}
