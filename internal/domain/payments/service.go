package payments

import (
	"context"
	"fmt"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/tx"
	"ledgerbook/internal/core/types"
	"ledgerbook/internal/domain"
	"ledgerbook/internal/domain/documents/purchase"
	"ledgerbook/internal/domain/documents/sale"
	"ledgerbook/internal/domain/ledger"
	"ledgerbook/pkg/logger"
)

// Service records payments and applies allocations to open invoices.
//
// Allocations are re-validated inside the posting transaction against
// freshly locked invoice rows, so a caller bypassing the upstream
// validator cannot over-allocate.
type Service struct {
	repo      Repository
	sales     sale.Repository
	purchases purchase.Repository
	engine    *ledger.Engine
	txManager tx.Manager
}

// NewService creates a payments service.
func NewService(
	repo Repository,
	sales sale.Repository,
	purchases purchase.Repository,
	engine *ledger.Engine,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		sales:     sales,
		purchases: purchases,
		engine:    engine,
		txManager: txManager,
	}
}

// RecordCustomerPayment records money received from a customer:
// payment header, a CUST_PAYMENT ledger transaction (debit Cash,
// credit Accounts Receivable), and the allocation rows with invoice
// status updates, all in one atomic unit.
func (s *Service) RecordCustomerPayment(ctx context.Context, p *Payment) error {
	p.Kind = PartyCustomer
	if err := p.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		accepted, err := s.revalidateCustomer(ctx, p)
		if err != nil {
			return err
		}
		p.Allocations = accepted

		if err := s.repo.Create(ctx, p); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		_, err = s.engine.Post(ctx, ledger.PostInput{
			Date:        p.Date,
			Type:        ledger.TxnTypeCustPayment,
			Description: fmt.Sprintf("Payment from customer %s", p.PartyID),
			ReferenceID: &p.ID,
			Entries: []ledger.EntryInput{
				ledger.Debit(ledger.AccountCash, p.Amount),
				ledger.Credit(ledger.AccountReceivable, p.Amount),
			},
		})
		if err != nil {
			return err
		}

		if err := s.repo.SaveAllocations(ctx, p.ID, accepted); err != nil {
			return fmt.Errorf("save allocations: %w", err)
		}

		for _, alloc := range accepted {
			if _, err := s.sales.ApplyPayment(ctx, alloc.InvoiceID, alloc.Amount); err != nil {
				return fmt.Errorf("apply payment to invoice: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "customer payment recorded",
		"id", p.ID,
		"amount", p.Amount.StringFixed(2),
		"allocations", len(p.Allocations))

	return nil
}

// RecordSupplierPayment records money paid to a supplier: payment
// header, a SUPP_PAYMENT ledger transaction (debit Accounts Payable,
// credit Cash), and the allocation rows with invoice status updates,
// all in one atomic unit.
func (s *Service) RecordSupplierPayment(ctx context.Context, p *Payment) error {
	p.Kind = PartySupplier
	if err := p.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		accepted, err := s.revalidateSupplier(ctx, p)
		if err != nil {
			return err
		}
		p.Allocations = accepted

		if err := s.repo.Create(ctx, p); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		_, err = s.engine.Post(ctx, ledger.PostInput{
			Date:        p.Date,
			Type:        ledger.TxnTypeSuppPayment,
			Description: fmt.Sprintf("Payment to supplier %s", p.PartyID),
			ReferenceID: &p.ID,
			Entries: []ledger.EntryInput{
				ledger.Debit(ledger.AccountPayable, p.Amount),
				ledger.Credit(ledger.AccountCash, p.Amount),
			},
		})
		if err != nil {
			return err
		}

		if err := s.repo.SaveAllocations(ctx, p.ID, accepted); err != nil {
			return fmt.Errorf("save allocations: %w", err)
		}

		for _, alloc := range accepted {
			if _, err := s.purchases.ApplyPayment(ctx, alloc.InvoiceID, alloc.Amount); err != nil {
				return fmt.Errorf("apply payment to invoice: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "supplier payment recorded",
		"id", p.ID,
		"amount", p.Amount.StringFixed(2),
		"allocations", len(p.Allocations))

	return nil
}

// revalidateCustomer locks the target invoices and re-checks the
// allocation bounds against their current balances.
func (s *Service) revalidateCustomer(ctx context.Context, p *Payment) ([]Allocation, error) {
	open := make([]*OpenInvoice, 0, len(p.Allocations))
	for _, alloc := range p.Allocations {
		inv, err := s.sales.GetForUpdate(ctx, alloc.InvoiceID)
		if err != nil {
			return nil, err
		}
		open = append(open, &OpenInvoice{
			InvoiceID:   inv.ID,
			Number:      inv.Number,
			TotalAmount: inv.TotalAmount,
			AmountPaid:  inv.AmountPaid,
		})
	}
	return ValidateAllocations(open, p.Amount, p.Allocations)
}

// revalidateSupplier is the purchase-side twin of revalidateCustomer.
func (s *Service) revalidateSupplier(ctx context.Context, p *Payment) ([]Allocation, error) {
	open := make([]*OpenInvoice, 0, len(p.Allocations))
	for _, alloc := range p.Allocations {
		inv, err := s.purchases.GetForUpdate(ctx, alloc.InvoiceID)
		if err != nil {
			return nil, err
		}
		open = append(open, &OpenInvoice{
			InvoiceID:   inv.ID,
			Number:      inv.Number,
			TotalAmount: inv.TotalAmount,
			AmountPaid:  inv.AmountPaid,
		})
	}
	return ValidateAllocations(open, p.Amount, p.Allocations)
}

// OpenInvoices lists a party's unpaid invoices as allocation targets.
func (s *Service) OpenInvoices(ctx context.Context, kind PartyKind, partyID id.ID) ([]*OpenInvoice, error) {
	open := make([]*OpenInvoice, 0)

	switch kind {
	case PartyCustomer:
		invs, err := s.sales.Unpaid(ctx, partyID)
		if err != nil {
			return nil, err
		}
		for _, inv := range invs {
			open = append(open, &OpenInvoice{
				InvoiceID:   inv.ID,
				Number:      inv.Number,
				TotalAmount: inv.TotalAmount,
				AmountPaid:  inv.AmountPaid,
			})
		}
	case PartySupplier:
		invs, err := s.purchases.Unpaid(ctx, partyID)
		if err != nil {
			return nil, err
		}
		for _, inv := range invs {
			open = append(open, &OpenInvoice{
				InvoiceID:   inv.ID,
				Number:      inv.Number,
				TotalAmount: inv.TotalAmount,
				AmountPaid:  inv.AmountPaid,
			})
		}
	default:
		return nil, apperror.NewValidation("unknown party kind").
			WithDetail("kind", string(kind))
	}

	return open, nil
}

// PreviewAllocations checks a proposed split against a party's open
// invoices without writing anything, so a client can surface bounds
// errors before the payment is posted. The posting path re-validates
// regardless.
func (s *Service) PreviewAllocations(ctx context.Context, kind PartyKind, partyID id.ID, amount types.Money, proposed []Allocation) ([]Allocation, error) {
	open, err := s.OpenInvoices(ctx, kind, partyID)
	if err != nil {
		return nil, err
	}
	return ValidateAllocations(open, amount, proposed)
}

// GetByID retrieves a payment with allocations.
func (s *Service) GetByID(ctx context.Context, paymentID id.ID) (*Payment, error) {
	return s.repo.GetByID(ctx, paymentID)
}

// List retrieves payments with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Payment], error) {
	return s.repo.List(ctx, filter)
}
