// Package report_repo runs the aggregate SQL behind the reporting
// service. All queries are read-only; complex ones are written as raw
// SQL rather than forced through the builder.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
	"ledgerbook/internal/domain/reports"
	"ledgerbook/internal/infrastructure/storage/postgres"
)

// Repo implements reports.Repository.
type Repo struct {
	txManager *postgres.TxManager
}

// NewRepo creates a new report repository.
func NewRepo(txManager *postgres.TxManager) *Repo {
	return &Repo{txManager: txManager}
}

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// AccountActivity sums debits and credits per account for the given
// account types. Accounts with no entries in the period are omitted.
func (r *Repo) AccountActivity(ctx context.Context, accountTypes []string, from, to time.Time) ([]reports.AccountActivity, error) {
	q := r.builder().
		Select(
			"a.id AS account_id",
			"a.name AS account_name",
			"a.type AS account_type",
			"COALESCE(SUM(e.debit), 0) AS total_debit",
			"COALESCE(SUM(e.credit), 0) AS total_credit",
		).
		From("ledger_entries e").
		Join("ledger_accounts a ON a.id = e.account_id").
		Join("ledger_transactions t ON t.id = e.transaction_id").
		Where(squirrel.Eq{"a.type": accountTypes}).
		GroupBy("a.id", "a.name", "a.type").
		OrderBy("a.type ASC", "a.name ASC")

	if !from.IsZero() {
		q = q.Where(squirrel.GtOrEq{"t.date": from})
	}
	if !to.IsZero() {
		q = q.Where(squirrel.LtOrEq{"t.date": to})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.AccountActivity
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("account activity: %w", err)
	}

	return rows, nil
}

const gstr1B2BQuery = `
SELECT c.gstin          AS customer_gstin,
       c.name           AS customer_name,
       s.number         AS invoice_number,
       s.date           AS invoice_date,
       c.state          AS place_of_supply,
       s.total_amount   AS total_amount,
       s.taxable_amount AS taxable_amount,
       s.cgst_amount    AS cgst,
       s.sgst_amount    AS sgst,
       s.igst_amount    AS igst
FROM doc_sales_invoices s
JOIN cat_customers c ON c.id = s.customer_id
WHERE c.gstin <> ''
  AND s.deletion_mark = false
  AND s.date >= $1 AND s.date <= $2
ORDER BY s.date ASC, s.number ASC`

// GSTR1B2B lists sales invoices issued to GST-registered customers.
func (r *Repo) GSTR1B2B(ctx context.Context, from, to time.Time) ([]reports.GSTR1B2BRow, error) {
	var rows []reports.GSTR1B2BRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, gstr1B2BQuery, from, to); err != nil {
		return nil, fmt.Errorf("gstr1 b2b: %w", err)
	}
	return rows, nil
}

const gstr1B2CQuery = `
SELECT c.state                                    AS place_of_supply,
       l.cgst_rate + l.sgst_rate + l.igst_rate    AS rate,
       COALESCE(SUM(l.taxable_value), 0)          AS taxable_amount,
       COALESCE(SUM(l.cgst_amount), 0)            AS cgst,
       COALESCE(SUM(l.sgst_amount), 0)            AS sgst,
       COALESCE(SUM(l.igst_amount), 0)            AS igst
FROM doc_sales_invoice_lines l
JOIN doc_sales_invoices s ON s.id = l.document_id
JOIN cat_customers c ON c.id = s.customer_id
WHERE c.gstin = ''
  AND s.deletion_mark = false
  AND s.date >= $1 AND s.date <= $2
GROUP BY c.state, rate
ORDER BY c.state ASC, rate ASC`

// GSTR1B2C aggregates unregistered sales by state and combined tax rate.
func (r *Repo) GSTR1B2C(ctx context.Context, from, to time.Time) ([]reports.GSTR1B2CRow, error) {
	var rows []reports.GSTR1B2CRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, gstr1B2CQuery, from, to); err != nil {
		return nil, fmt.Errorf("gstr1 b2c: %w", err)
	}
	return rows, nil
}

// OutwardSupplies sums taxable value and tax from sales invoices.
func (r *Repo) OutwardSupplies(ctx context.Context, from, to time.Time) (reports.TaxSummary, error) {
	return r.taxSummary(ctx, "doc_sales_invoices", from, to)
}

// InputTaxCredit sums taxable value and tax from purchase invoices.
func (r *Repo) InputTaxCredit(ctx context.Context, from, to time.Time) (reports.TaxSummary, error) {
	return r.taxSummary(ctx, "doc_purchase_invoices", from, to)
}

func (r *Repo) taxSummary(ctx context.Context, table string, from, to time.Time) (reports.TaxSummary, error) {
	q := r.builder().
		Select(
			"COALESCE(SUM(taxable_amount), 0) AS taxable_amount",
			"COALESCE(SUM(cgst_amount), 0) AS cgst",
			"COALESCE(SUM(sgst_amount), 0) AS sgst",
			"COALESCE(SUM(igst_amount), 0) AS igst",
		).
		From(table).
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to})

	var summary reports.TaxSummary
	sql, args, err := q.ToSql()
	if err != nil {
		return summary, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), &summary, sql, args...); err != nil {
		return summary, fmt.Errorf("tax summary %s: %w", table, err)
	}

	return summary, nil
}

const customerOpeningQuery = `
SELECT COALESCE((SELECT SUM(total_amount) FROM doc_sales_invoices
                 WHERE customer_id = $1 AND deletion_mark = false AND date < $2), 0)
     - COALESCE((SELECT SUM(amount) FROM payments
                 WHERE party_id = $1 AND kind = 'customer' AND deletion_mark = false AND date < $2), 0)`

const supplierOpeningQuery = `
SELECT COALESCE((SELECT SUM(total_amount) FROM doc_purchase_invoices
                 WHERE supplier_id = $1 AND deletion_mark = false AND date < $2), 0)
     - COALESCE((SELECT SUM(amount) FROM payments
                 WHERE party_id = $1 AND kind = 'supplier' AND deletion_mark = false AND date < $2), 0)`

// OpeningBalance computes a party's balance before the given date.
// Customers owe us (invoices minus receipts); we owe suppliers
// (invoices minus payments).
func (r *Repo) OpeningBalance(ctx context.Context, partyID id.ID, kind reports.PartyKind, before time.Time) (types.Money, error) {
	query := customerOpeningQuery
	if kind == reports.PartySupplier {
		query = supplierOpeningQuery
	}

	var balance types.Money
	if err := pgxscan.Get(ctx, r.querier(ctx), &balance, query, partyID, before); err != nil {
		return types.Zero(), fmt.Errorf("opening balance: %w", err)
	}

	return balance, nil
}

const customerStatementQuery = `
SELECT date, 'Sales Invoice' AS document_type, number AS document_number,
       total_amount AS debit, 0 AS credit
FROM doc_sales_invoices
WHERE customer_id = $1 AND deletion_mark = false AND date >= $2 AND date <= $3
UNION ALL
SELECT date, 'Payment Received' AS document_type, '' AS document_number,
       0 AS debit, amount AS credit
FROM payments
WHERE party_id = $1 AND kind = 'customer' AND deletion_mark = false AND date >= $2 AND date <= $3
ORDER BY date ASC`

const supplierStatementQuery = `
SELECT date, 'Purchase Invoice' AS document_type, number AS document_number,
       0 AS debit, total_amount AS credit
FROM doc_purchase_invoices
WHERE supplier_id = $1 AND deletion_mark = false AND date >= $2 AND date <= $3
UNION ALL
SELECT date, 'Payment Made' AS document_type, '' AS document_number,
       amount AS debit, 0 AS credit
FROM payments
WHERE party_id = $1 AND kind = 'supplier' AND deletion_mark = false AND date >= $2 AND date <= $3
ORDER BY date ASC`

// StatementLines lists a party's invoices and payments within a period.
func (r *Repo) StatementLines(ctx context.Context, partyID id.ID, kind reports.PartyKind, from, to time.Time) ([]reports.StatementLine, error) {
	query := customerStatementQuery
	if kind == reports.PartySupplier {
		query = supplierStatementQuery
	}

	var lines []reports.StatementLine
	if err := pgxscan.Select(ctx, r.querier(ctx), &lines, query, partyID, from, to); err != nil {
		return nil, fmt.Errorf("statement lines: %w", err)
	}

	return lines, nil
}

const expiringWarrantiesQuery = `
SELECT se.serial_number,
       i.name  AS item_name,
       se.warranty_end_date,
       c.name  AS customer_name,
       s.number AS invoice_number
FROM serials se
JOIN cat_items i ON i.id = se.item_id
JOIN doc_sales_invoices s ON s.id = se.sale_invoice_id
JOIN cat_customers c ON c.id = s.customer_id
WHERE se.status = 'SOLD'
  AND se.warranty_end_date >= $1 AND se.warranty_end_date <= $2
ORDER BY se.warranty_end_date ASC`

// ExpiringWarranties lists sold serials whose warranty ends in the window.
func (r *Repo) ExpiringWarranties(ctx context.Context, from, to time.Time) ([]reports.ExpiringWarranty, error) {
	var rows []reports.ExpiringWarranty
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, expiringWarrantiesQuery, from, to); err != nil {
		return nil, fmt.Errorf("expiring warranties: %w", err)
	}
	return rows, nil
}

const lowStockQuery = `
SELECT i.id   AS item_id,
       i.name AS item_name,
       i.minimum_stock_level,
       COUNT(se.id)::int AS current_stock
FROM cat_items i
LEFT JOIN serials se ON se.item_id = i.id AND se.status = 'IN_STOCK'
WHERE i.is_serialized = true AND i.deletion_mark = false
GROUP BY i.id, i.name, i.minimum_stock_level
HAVING COUNT(se.id) < i.minimum_stock_level
ORDER BY i.name ASC`

// LowStock lists serialized items below their minimum stock level.
func (r *Repo) LowStock(ctx context.Context) ([]reports.LowStockRow, error) {
	var rows []reports.LowStockRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, lowStockQuery); err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	return rows, nil
}

const categoryStockQuery = `
SELECT COALESCE(NULLIF(i.category, ''), 'Uncategorized') AS category,
       COUNT(se.id)::int AS in_stock
FROM serials se
JOIN cat_items i ON i.id = se.item_id
WHERE se.status = 'IN_STOCK'
GROUP BY 1
ORDER BY 1`

// CategoryStock counts in-stock serials grouped by item category.
func (r *Repo) CategoryStock(ctx context.Context) ([]reports.CategoryStockRow, error) {
	var rows []reports.CategoryStockRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, categoryStockQuery); err != nil {
		return nil, fmt.Errorf("category stock: %w", err)
	}
	return rows, nil
}
