// Package quotation provides the Quotation document service.
package quotation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/tx"
	"ledgerbook/internal/domain"
	"ledgerbook/internal/domain/catalogs/customer"
	"ledgerbook/internal/domain/catalogs/item"
	"ledgerbook/internal/domain/catalogs/tax"
	"ledgerbook/internal/domain/documents/sale"
	"ledgerbook/internal/domain/settings"
	"ledgerbook/pkg/logger"
	"ledgerbook/pkg/numerator"
)

var two = decimal.NewFromInt(2)

// Service provides business operations for quotations, including
// conversion into posted sales invoices.
type Service struct {
	repo      Repository
	sales     *sale.Service
	customers customer.Repository
	items     item.Repository
	taxes     tax.Repository
	settings  *settings.Service
	numerator numerator.Generator
	txManager tx.Manager
}

// NewService creates a new quotation service.
func NewService(
	repo Repository,
	sales *sale.Service,
	customers customer.Repository,
	items item.Repository,
	taxes tax.Repository,
	set *settings.Service,
	gen numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		sales:     sales,
		customers: customers,
		items:     items,
		taxes:     taxes,
		settings:  set,
		numerator: gen,
		txManager: txManager,
	}
}

// Create creates a draft quotation.
func (s *Service) Create(ctx context.Context, doc *Quotation) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	doc.RecalculateTotal()
	doc.Status = StatusDraft

	if doc.Number == "" {
		prefix, err := s.settings.QuotationPrefix(ctx)
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

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create quotation: %w", err)
		}
		return s.repo.SaveLines(ctx, doc.ID, doc.Lines)
	})
}

// GetByID retrieves a quotation with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Quotation, error) {
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

// List retrieves quotations with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Quotation], error) {
	return s.repo.List(ctx, filter)
}

// ConvertToSale turns a draft quotation into a posted sales invoice.
//
// GST is computed at conversion time from each item's slab: when the
// customer's state matches the company's state the rate is split
// evenly into CGST and SGST, otherwise the full rate applies as IGST.
// The quotation moves to CONVERTED exactly once; a second conversion
// attempt fails.
func (s *Service) ConvertToSale(ctx context.Context, quotationID id.ID, invoiceDate time.Time) (*sale.SalesInvoice, error) {
	cust, companyState, err := s.conversionContext(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	var invoice *sale.SalesInvoice

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetForUpdate(ctx, quotationID)
		if err != nil {
			return err
		}
		if doc.Status == StatusConverted {
			return apperror.NewBusinessRule(apperror.CodeQuotationConverted,
				"quotation is already converted").
				WithDetail("quotationId", quotationID).
				WithDetail("saleInvoiceId", doc.SaleInvoiceID)
		}

		lines, err := s.repo.GetLines(ctx, quotationID)
		if err != nil {
			return fmt.Errorf("get lines: %w", err)
		}
		doc.Lines = lines

		inv := sale.NewSalesInvoice(doc.CustomerID)
		inv.Date = invoiceDate
		inv.QuotationID = &doc.ID

		intraState := s.isIntraState(cust, companyState)
		for _, line := range doc.Lines {
			saleLine, err := s.buildSaleLine(ctx, line, intraState)
			if err != nil {
				return err
			}
			inv.AddLine(saleLine)
		}

		if err := s.sales.CreateAndPost(ctx, inv); err != nil {
			return err
		}

		if err := s.repo.MarkConverted(ctx, doc.ID, inv.ID); err != nil {
			return err
		}

		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "quotation converted",
		"quotation", quotationID,
		"invoice", invoice.Number)

	return invoice, nil
}

// conversionContext resolves the customer and company state outside the
// write transaction.
func (s *Service) conversionContext(ctx context.Context, quotationID id.ID) (*customer.Customer, string, error) {
	doc, err := s.repo.GetByID(ctx, quotationID)
	if err != nil {
		return nil, "", err
	}

	cust, err := s.customers.GetByID(ctx, doc.CustomerID)
	if err != nil {
		return nil, "", fmt.Errorf("resolve customer: %w", err)
	}

	companyState, err := s.settings.CompanyState(ctx)
	if err != nil {
		return nil, "", err
	}

	return cust, companyState, nil
}

// isIntraState decides CGST+SGST versus IGST treatment. A customer
// with no recorded state is treated as local.
func (s *Service) isIntraState(cust *customer.Customer, companyState string) bool {
	if cust.State == "" || companyState == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(cust.State), strings.TrimSpace(companyState))
}

// buildSaleLine computes the tax breakdown for one quotation line.
func (s *Service) buildSaleLine(ctx context.Context, line Line, intraState bool) (sale.Line, error) {
	it, err := s.items.GetByID(ctx, line.ItemID)
	if err != nil {
		return sale.Line{}, fmt.Errorf("resolve item: %w", err)
	}

	taxable := line.SellingPrice.Mul(line.Quantity)
	out := sale.Line{
		ItemID:       line.ItemID,
		Quantity:     line.Quantity,
		UnitID:       it.UnitID,
		SellingPrice: line.SellingPrice,
		TaxableValue: taxable,
		CGSTAmount:   decimal.Zero,
		SGSTAmount:   decimal.Zero,
		IGSTAmount:   decimal.Zero,
	}

	rate := decimal.Zero
	if it.GSTSlabID != nil {
		slab, err := s.taxes.GetSlab(ctx, *it.GSTSlabID)
		if err != nil {
			return sale.Line{}, fmt.Errorf("resolve GST slab: %w", err)
		}
		rate = slab.Rate
	}

	if intraState {
		half := rate.Div(two)
		out.CGSTRate = half
		out.SGSTRate = half
		out.CGSTAmount = taxable.Mul(half).Div(decimal.NewFromInt(100))
		out.SGSTAmount = taxable.Mul(half).Div(decimal.NewFromInt(100))
		out.TotalGSTAmount = out.CGSTAmount.Add(out.SGSTAmount)
	} else {
		out.IGSTRate = rate
		out.IGSTAmount = taxable.Mul(rate).Div(decimal.NewFromInt(100))
		out.TotalGSTAmount = out.IGSTAmount
	}

	return out, nil
}
