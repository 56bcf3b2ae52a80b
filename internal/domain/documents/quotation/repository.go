// Package quotation provides the Quotation document repository.
package quotation

import (
	"context"
	"time"

	"ledgerbook/internal/core/id"
	"ledgerbook/internal/domain"
)

// Repository defines operations for quotation documents.
type Repository interface {
	Create(ctx context.Context, doc *Quotation) error
	GetByID(ctx context.Context, docID id.ID) (*Quotation, error)

	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Quotation], error)

	// MarkConverted sets status CONVERTED and links the sale invoice.
	// Fails when the quotation is already converted.
	MarkConverted(ctx context.Context, docID, saleInvoiceID id.ID) error

	// GetForUpdate retrieves a quotation with a row lock.
	GetForUpdate(ctx context.Context, docID id.ID) (*Quotation, error)
}

// ListFilter for filtering quotations.
type ListFilter struct {
	domain.ListFilter

	CustomerID *id.ID
	Status     string
	DateFrom   *time.Time
	DateTo     *time.Time
}
