// Package purchase provides the PurchaseInvoice document service.
package purchase

import (
	"context"
	"fmt"
	"time"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/tx"
	"ledgerbook/internal/domain"
	"ledgerbook/internal/domain/catalogs/item"
	"ledgerbook/internal/domain/catalogs/unit"
	"ledgerbook/internal/domain/inventory"
	"ledgerbook/internal/domain/ledger"
	"ledgerbook/internal/domain/settings"
	"ledgerbook/pkg/logger"
	"ledgerbook/pkg/numerator"
)

// Service provides business operations for purchase invoices.
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

// NewService creates a new purchase invoice service.
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

// CreateAndPost records a purchase invoice: header, lines, a PURCHASE
// ledger transaction, and IN_STOCK serials, all in one atomic unit.
func (s *Service) CreateAndPost(ctx context.Context, doc *PurchaseInvoice) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if err := s.prepareLines(ctx, doc); err != nil {
		return err
	}
	doc.RecalculateTotals()
	doc.Status = StatusUnpaid

	if doc.Number == "" {
		prefix, err := s.settings.PurchaseInvoicePrefix(ctx)
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

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}

		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		_, err := s.engine.Post(ctx, ledger.PostInput{
			Date:        doc.Date,
			Type:        ledger.TxnTypePurchase,
			Description: fmt.Sprintf("Purchase from supplier %s, Inv #%s", doc.SupplierID, doc.Number),
			ReferenceID: &doc.ID,
			Entries: []ledger.EntryInput{
				ledger.Debit(ledger.AccountInventory, doc.TaxableAmount),
				ledger.Debit(ledger.AccountGSTPayable, doc.TotalGSTAmount),
				ledger.Credit(ledger.AccountPayable, doc.TotalAmount),
			},
		})
		if err != nil {
			return err
		}

		for _, line := range doc.Lines {
			for _, sn := range line.SerialNumbers {
				serial := inventory.NewSerial(line.ItemID, sn, line.GodownID, &doc.ID)
				if err := s.serials.Create(ctx, serial); err != nil {
					return fmt.Errorf("create serial %q: %w", sn, err)
				}
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "purchase invoice posted",
		"id", doc.ID,
		"number", doc.Number,
		"total", doc.TotalAmount.StringFixed(2))

	return nil
}

// prepareLines resolves items, converts quantities to base units, and
// checks serial declarations against quantities.
func (s *Service) prepareLines(ctx context.Context, doc *PurchaseInvoice) error {
	for i := range doc.Lines {
		line := &doc.Lines[i]

		it, err := s.items.GetByID(ctx, line.ItemID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("item", line.ItemID.String()).
					WithDetail("lineNo", i+1)
			}
			return err
		}

		if line.UnitID != nil && it.UnitID != nil {
			qty, err := s.units.ConvertToBase(ctx, *it.UnitID, *line.UnitID, line.Quantity)
			if err != nil {
				return fmt.Errorf("convert quantity: %w", err)
			}
			line.Quantity = qty
			line.UnitID = it.UnitID
		}

		if it.IsSerialized && len(line.SerialNumbers) > 0 &&
			int64(len(line.SerialNumbers)) != line.Quantity.IntPart() {
			return apperror.NewValidation("serial count does not match quantity").
				WithDetail("lineNo", i+1).
				WithDetail("serials", len(line.SerialNumbers)).
				WithDetail("quantity", line.Quantity.String())
		}
	}
	return nil
}

// GetByID retrieves a purchase invoice with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*PurchaseInvoice, error) {
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

// List retrieves purchase invoices with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseInvoice], error) {
	return s.repo.List(ctx, filter)
}

// Unpaid retrieves a supplier's open invoices for payment allocation.
func (s *Service) Unpaid(ctx context.Context, supplierID id.ID) ([]*PurchaseInvoice, error) {
	return s.repo.Unpaid(ctx, supplierID)
}
