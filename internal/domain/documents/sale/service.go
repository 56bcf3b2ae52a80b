// Package sale provides the SalesInvoice document service.
package sale

import (
	"context"
	"fmt"
	"time"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/tx"
	"ledgerbook/internal/core/types"
	"ledgerbook/internal/domain"
	"ledgerbook/internal/domain/catalogs/item"
	"ledgerbook/internal/domain/catalogs/unit"
	"ledgerbook/internal/domain/inventory"
	"ledgerbook/internal/domain/ledger"
	"ledgerbook/internal/domain/settings"
	"ledgerbook/pkg/logger"
	"ledgerbook/pkg/numerator"
)

// Service provides business operations for sales invoices.
type Service struct {
	repo      Repository
	engine    *ledger.Engine
	serials   inventory.Repository
	items     item.Repository
	units     *unit.Service
	settings  *settings.Service
	numerator numerator.Generator
	txManager tx.Manager
}

// NewService creates a new sales invoice service.
func NewService(
	repo Repository,
	engine *ledger.Engine,
	serials inventory.Repository,
	items item.Repository,
	units *unit.Service,
	set *settings.Service,
	gen numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		engine:    engine,
		serials:   serials,
		items:     items,
		units:     units,
		settings:  set,
		numerator: gen,
		txManager: txManager,
	}
}

// lineCosting is the per-line COGS and warranty data resolved from the
// item catalog before posting.
type lineCosting struct {
	cogs        types.Money
	warrantyEnd *time.Time
}

// CreateAndPost records a sales invoice: header, lines, SOLD serial
// transitions, and two ledger transactions (SALE revenue and
// SALE_COGS), all in one atomic unit.
func (s *Service) CreateAndPost(ctx context.Context, doc *SalesInvoice) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	costings, totalCOGS, err := s.prepareLines(ctx, doc)
	if err != nil {
		return err
	}
	doc.RecalculateTotals()
	doc.Status = StatusUnpaid

	if doc.Number == "" {
		prefix, err := s.settings.SalesInvoicePrefix(ctx)
		if err != nil {
			return err
		}
		number, err := s.numerator.GetNextNumber(ctx,
			numerator.DefaultConfig(prefix),
			&numerator.Options{Strategy: NumeratorStrategy}, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}

		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		for i, line := range doc.Lines {
			for _, serialID := range line.SerialIDs {
				if err := s.serials.MarkSold(ctx, serialID, doc.ID, costings[i].warrantyEnd); err != nil {
					return err
				}
			}
		}

		_, err := s.engine.Post(ctx, ledger.PostInput{
			Date:        doc.Date,
			Type:        ledger.TxnTypeSale,
			Description: fmt.Sprintf("Sale to customer %s, Inv #%s", doc.CustomerID, doc.Number),
			ReferenceID: &doc.ID,
			Entries: []ledger.EntryInput{
				ledger.Debit(ledger.AccountReceivable, doc.TotalAmount),
				ledger.Credit(ledger.AccountSalesRevenue, doc.TaxableAmount),
				ledger.Credit(ledger.AccountGSTPayable, doc.TotalGSTAmount),
			},
		})
		if err != nil {
			return err
		}

		_, err = s.engine.Post(ctx, ledger.PostInput{
			Date:        doc.Date,
			Type:        ledger.TxnTypeSaleCOGS,
			Description: fmt.Sprintf("COGS for Inv #%s", doc.Number),
			ReferenceID: &doc.ID,
			Entries: []ledger.EntryInput{
				ledger.Debit(ledger.AccountCOGS, totalCOGS),
				ledger.Credit(ledger.AccountInventory, totalCOGS),
			},
		})
		return err
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "sales invoice posted",
		"id", doc.ID,
		"number", doc.Number,
		"total", doc.TotalAmount.StringFixed(2),
		"cogs", totalCOGS.StringFixed(2))

	return nil
}

// prepareLines resolves items, converts quantities to base units, and
// computes per-line COGS and warranty end dates. A missing item aborts
// the whole posting.
func (s *Service) prepareLines(ctx context.Context, doc *SalesInvoice) ([]lineCosting, types.Money, error) {
	costings := make([]lineCosting, len(doc.Lines))
	totalCOGS := types.Zero()

	for i := range doc.Lines {
		line := &doc.Lines[i]

		it, err := s.items.GetByID(ctx, line.ItemID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil, types.Zero(), apperror.NewNotFound("item", line.ItemID.String()).
					WithDetail("lineNo", i+1)
			}
			return nil, types.Zero(), err
		}

		if line.UnitID != nil && it.UnitID != nil {
			qty, err := s.units.ConvertToBase(ctx, *it.UnitID, *line.UnitID, line.Quantity)
			if err != nil {
				return nil, types.Zero(), fmt.Errorf("convert quantity: %w", err)
			}
			line.Quantity = qty
			line.UnitID = it.UnitID
		}

		cogs := it.PurchasePrice.Mul(line.Quantity)
		totalCOGS = totalCOGS.Add(cogs)
		costings[i] = lineCosting{cogs: cogs}

		if len(line.SerialIDs) > 0 && it.HasWarranty() {
			end := types.AddMonths(doc.Date, it.DefaultWarrantyMonths)
			costings[i].warrantyEnd = &end
		}
	}

	return costings, totalCOGS, nil
}

// GetByID retrieves a sales invoice with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*SalesInvoice, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// List retrieves sales invoices with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*SalesInvoice], error) {
	return s.repo.List(ctx, filter)
}

// Unpaid retrieves a customer's open invoices for payment allocation.
func (s *Service) Unpaid(ctx context.Context, customerID id.ID) ([]*SalesInvoice, error) {
	return s.repo.Unpaid(ctx, customerID)
}
