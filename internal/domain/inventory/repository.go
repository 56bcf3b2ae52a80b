package inventory

import (
	"context"
	"time"

	"ledgerbook/internal/core/id"
)

// Repository defines serial number persistence.
type Repository interface {
	// Create inserts a new serial.
	Create(ctx context.Context, s *Serial) error

	// GetByID retrieves a serial by ID.
	GetByID(ctx context.Context, serialID id.ID) (*Serial, error)

	// GetBySerialNumber retrieves a serial by its unique number.
	GetBySerialNumber(ctx context.Context, serialNumber string) (*Serial, error)

	// AvailableForItem retrieves IN_STOCK serials of an item.
	AvailableForItem(ctx context.Context, itemID id.ID) ([]*Serial, error)

	// InStockComponents retrieves IN_STOCK serials of non-assembled
	// items joined with item name and purchase price.
	InStockComponents(ctx context.Context) ([]*Component, error)

	// MarkSold transitions an IN_STOCK serial to SOLD, setting the sale
	// reference and warranty end date atomically.
	// Returns SerialNotAvailable when the serial is not IN_STOCK.
	MarkSold(ctx context.Context, serialID, saleInvoiceID id.ID, warrantyEnd *time.Time) error

	// MarkConsumed transitions an IN_STOCK serial to CONSUMED, linking
	// it to the assembled serial that absorbed it.
	// Returns SerialNotAvailable when the serial is not IN_STOCK.
	MarkConsumed(ctx context.Context, serialID, assemblyID id.ID) error

	// CountInStock returns the IN_STOCK count for an item.
	CountInStock(ctx context.Context, itemID id.ID) (int64, error)

	// Search finds serials by partial serial number (case-insensitive).
	Search(ctx context.Context, term string, limit int) ([]*Serial, error)
}
