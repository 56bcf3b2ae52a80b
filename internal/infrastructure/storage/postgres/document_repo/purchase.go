package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
	"ledgerbook/internal/domain"
	"ledgerbook/internal/domain/documents/purchase"
	"ledgerbook/internal/infrastructure/storage/postgres"
)

const (
	purchaseTable     = "doc_purchase_invoices"
	purchaseLineTable = "doc_purchase_invoice_lines"
)

var purchaseLineCols = []string{
	"document_id", "line_id", "line_no", "item_id", "quantity", "unit_id",
	"purchase_price", "taxable_value",
	"cgst_rate", "sgst_rate", "igst_rate",
	"cgst_amount", "sgst_amount", "igst_amount", "total_gst_amount",
	"godown_id",
}

// PurchaseRepo implements purchase.Repository.
type PurchaseRepo struct {
	*BaseDocumentRepo[*purchase.PurchaseInvoice]
}

// NewPurchaseRepo creates a new purchase invoice repository.
func NewPurchaseRepo(txManager *postgres.TxManager) *PurchaseRepo {
	return &PurchaseRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			purchaseTable,
			postgres.ExtractDBColumns[purchase.PurchaseInvoice](),
			func() *purchase.PurchaseInvoice { return &purchase.PurchaseInvoice{} },
		),
	}
}

// GetLines retrieves invoice lines ordered by line number.
func (r *PurchaseRepo) GetLines(ctx context.Context, docID id.ID) ([]purchase.Line, error) {
	q := r.Builder().
		Select(purchaseLineCols[1:]...).
		From(purchaseLineTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []purchase.Line
	if err := pgxscan.Select(ctx, r.Querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select purchase lines: %w", err)
	}

	return lines, nil
}

// SaveLines replaces the invoice lines.
func (r *PurchaseRepo) SaveLines(ctx context.Context, docID id.ID, lines []purchase.Line) error {
	delQ := r.Builder().
		Delete(purchaseLineTable).
		Where(squirrel.Eq{"document_id": docID})

	sql, args, err := delQ.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete purchase lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	insQ := r.Builder().
		Insert(purchaseLineTable).
		Columns(purchaseLineCols...)

	for _, line := range lines {
		insQ = insQ.Values(
			docID, line.LineID, line.LineNo, line.ItemID, line.Quantity, line.UnitID,
			line.PurchasePrice, line.TaxableValue,
			line.CGSTRate, line.SGSTRate, line.IGSTRate,
			line.CGSTAmount, line.SGSTAmount, line.IGSTAmount, line.TotalGSTAmount,
			line.GodownID,
		)
	}

	sql, args, err = insQ.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert purchase lines: %w", err)
	}

	return nil
}

// List retrieves purchase invoices matching the filter.
func (r *PurchaseRepo) List(ctx context.Context, filter purchase.ListFilter) (domain.ListResult[*purchase.PurchaseInvoice], error) {
	result := domain.ListResult[*purchase.PurchaseInvoice]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
	}
	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *filter.SupplierID})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	countQ := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	sql, args, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	if err := pgxscan.Get(ctx, r.Querier(ctx), &result.TotalCount, sql, args...); err != nil {
		return result, fmt.Errorf("count purchase invoices: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err = q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, r.Querier(ctx), &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select purchase invoices: %w", err)
	}

	return result, nil
}

// Unpaid retrieves invoices of a supplier with an outstanding balance,
// oldest first.
func (r *PurchaseRepo) Unpaid(ctx context.Context, supplierID id.ID) ([]*purchase.PurchaseInvoice, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"supplier_id": supplierID}).
		Where(squirrel.NotEq{"status": purchase.StatusPaid}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("date ASC", "number ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var invoices []*purchase.PurchaseInvoice
	if err := pgxscan.Select(ctx, r.Querier(ctx), &invoices, sql, args...); err != nil {
		return nil, fmt.Errorf("select unpaid purchase invoices: %w", err)
	}

	return invoices, nil
}

// ApplyPayment increments amount_paid and flips the status to PAID when
// the invoice is settled in full.
func (r *PurchaseRepo) ApplyPayment(ctx context.Context, docID id.ID, amount types.Money) (*purchase.PurchaseInvoice, error) {
	q := r.Builder().
		Update(purchaseTable).
		Set("amount_paid", squirrel.Expr("amount_paid + ?", amount)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": docID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("apply payment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, apperror.NewNotFound("purchase invoice", docID.String())
	}

	statusQ := r.Builder().
		Update(purchaseTable).
		Set("status", purchase.StatusPaid).
		Where(squirrel.Eq{"id": docID}).
		Where(squirrel.Expr("amount_paid >= total_amount"))

	sql, args, err = statusQ.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build status update: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}

	return r.GetByID(ctx, docID)
}
