package reports

import (
	"context"
	"time"

	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
)

// PartyKind selects which side of the books an account statement covers.
type PartyKind string

const (
	PartyCustomer PartyKind = "customer"
	PartySupplier PartyKind = "supplier"
)

// Repository runs the aggregate queries behind the reporting service.
// All methods are read-only.
type Repository interface {
	// AccountActivity sums debits and credits per account for the given
	// account types. A zero from/to bound is left open.
	AccountActivity(ctx context.Context, accountTypes []string, from, to time.Time) ([]AccountActivity, error)

	// GSTR1B2B lists posted sales invoices issued to customers with a GSTIN.
	GSTR1B2B(ctx context.Context, from, to time.Time) ([]GSTR1B2BRow, error)

	// GSTR1B2C aggregates unregistered sales by state and combined tax rate.
	GSTR1B2C(ctx context.Context, from, to time.Time) ([]GSTR1B2CRow, error)

	// OutwardSupplies sums taxable value and tax from sales invoices.
	OutwardSupplies(ctx context.Context, from, to time.Time) (TaxSummary, error)

	// InputTaxCredit sums taxable value and tax from purchase invoices.
	InputTaxCredit(ctx context.Context, from, to time.Time) (TaxSummary, error)

	// OpeningBalance computes a party's balance before the given date.
	OpeningBalance(ctx context.Context, partyID id.ID, kind PartyKind, before time.Time) (types.Money, error)

	// StatementLines lists a party's invoices and payments within a period,
	// ordered by date.
	StatementLines(ctx context.Context, partyID id.ID, kind PartyKind, from, to time.Time) ([]StatementLine, error)

	// ExpiringWarranties lists sold serials whose warranty ends between the
	// two dates, with the item, customer and invoice they belong to.
	ExpiringWarranties(ctx context.Context, from, to time.Time) ([]ExpiringWarranty, error)

	// LowStock lists serialized items with fewer in-stock serials than their
	// minimum stock level.
	LowStock(ctx context.Context) ([]LowStockRow, error)

	// CategoryStock counts in-stock serials grouped by item category.
	CategoryStock(ctx context.Context) ([]CategoryStockRow, error)
}
