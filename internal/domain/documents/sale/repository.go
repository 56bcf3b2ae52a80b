// Package sale provides the SalesInvoice document repository.
package sale

import (
	"context"
	"time"

	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
	"ledgerbook/internal/domain"
)

// Repository defines operations for sales invoice documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *SalesInvoice) error
	GetByID(ctx context.Context, docID id.ID) (*SalesInvoice, error)
	GetByNumber(ctx context.Context, number string) (*SalesInvoice, error)

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*SalesInvoice], error)

	// Unpaid retrieves invoices of a customer with status != PAID,
	// ordered by date, for payment allocation.
	Unpaid(ctx context.Context, customerID id.ID) ([]*SalesInvoice, error)

	// ApplyPayment increments amount_paid and flips status to PAID when
	// amount_paid reaches total_amount. Returns the updated invoice.
	ApplyPayment(ctx context.Context, docID id.ID, amount types.Money) (*SalesInvoice, error)

	// GetForUpdate retrieves an invoice with a row lock.
	GetForUpdate(ctx context.Context, docID id.ID) (*SalesInvoice, error)
}

// ListFilter for filtering sales invoices.
type ListFilter struct {
	domain.ListFilter

	// Document-specific filters
	CustomerID *id.ID
	Status     string
	DateFrom   *time.Time
	DateTo     *time.Time
}
