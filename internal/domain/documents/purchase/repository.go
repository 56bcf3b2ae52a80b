// Package purchase provides the PurchaseInvoice document repository.
package purchase

import (
	"context"
	"time"

	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
	"ledgerbook/internal/domain"
)

// Repository defines operations for purchase invoice documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *PurchaseInvoice) error
	GetByID(ctx context.Context, docID id.ID) (*PurchaseInvoice, error)
	GetByNumber(ctx context.Context, number string) (*PurchaseInvoice, error)

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseInvoice], error)

	// Unpaid retrieves invoices of a supplier with status != PAID,
	// ordered by date, for payment allocation.
	Unpaid(ctx context.Context, supplierID id.ID) ([]*PurchaseInvoice, error)

	// ApplyPayment increments amount_paid and flips status to PAID when
	// amount_paid reaches total_amount. Returns the updated invoice.
	ApplyPayment(ctx context.Context, docID id.ID, amount types.Money) (*PurchaseInvoice, error)

	// GetForUpdate retrieves an invoice with a row lock.
	GetForUpdate(ctx context.Context, docID id.ID) (*PurchaseInvoice, error)
}

// ListFilter for filtering purchase invoices.
type ListFilter struct {
	domain.ListFilter

	// Document-specific filters
	SupplierID *id.ID
	Status     string
	DateFrom   *time.Time
	DateTo     *time.Time
}
