package ledger

import (
	"context"
	"fmt"
	"time"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
	"ledgerbook/internal/domain"
	"ledgerbook/pkg/logger"

	appctx "ledgerbook/internal/core/context"
	"ledgerbook/internal/core/tx"
)

// Engine posts balanced transactions to the general ledger.
// It is the single write path into the ledger: document services build
// entry sets and hand them here.
type Engine struct {
	repo      Repository
	txManager tx.Manager
}

// NewEngine creates a posting engine.
func NewEngine(repo Repository, txManager tx.Manager) *Engine {
	return &Engine{
		repo:      repo,
		txManager: txManager,
	}
}

// Post validates and writes a transaction to the ledger.
//
// The balance invariant is checked at 2-decimal precision: the rounded
// sum of debits must equal the rounded sum of credits, otherwise the
// whole transaction is rejected.
//
// Nested calls reuse the caller's database transaction, so a document
// service posting two transactions (e.g. SALE and SALE_COGS) gets
// all-or-nothing semantics for free.
func (e *Engine) Post(ctx context.Context, input PostInput) (*Transaction, error) {
	if err := input.Validate(ctx); err != nil {
		return nil, err
	}

	totalDebits := types.RoundMoney(input.TotalDebits())
	totalCredits := types.RoundMoney(input.TotalCredits())
	if !totalDebits.Equal(totalCredits) {
		return nil, apperror.NewUnbalancedTransaction(
			totalDebits.StringFixed(2),
			totalCredits.StringFixed(2),
		)
	}

	txn := &Transaction{
		ID:          id.New(),
		Date:        input.Date,
		Type:        input.Type,
		Description: input.Description,
		ReferenceID: input.ReferenceID,
		CreatedAt:   time.Now().UTC(),
		CreatedBy:   appctx.GetUserID(ctx),
		Entries:     make([]Entry, 0, len(input.Entries)),
	}

	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, line := range input.Entries {
			acc, err := e.repo.GetAccountByName(ctx, line.Account)
			if err != nil {
				if apperror.IsNotFound(err) {
					return apperror.NewValidation("unknown account").
						WithDetail("account", line.Account)
				}
				return fmt.Errorf("resolve account %q: %w", line.Account, err)
			}

			txn.Entries = append(txn.Entries, Entry{
				ID:            id.New(),
				TransactionID: txn.ID,
				AccountID:     acc.ID,
				Debit:         line.Debit,
				Credit:        line.Credit,
			})
		}

		if err := e.repo.CreateTransaction(ctx, txn); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "ledger transaction posted",
		"id", txn.ID,
		"type", txn.Type,
		"amount", totalDebits.StringFixed(2))

	return txn, nil
}

// GetTransaction retrieves a posted transaction with its entries.
func (e *Engine) GetTransaction(ctx context.Context, txnID id.ID) (*Transaction, error) {
	return e.repo.GetTransaction(ctx, txnID)
}

// ListTransactions retrieves transaction headers with filtering.
func (e *Engine) ListTransactions(ctx context.Context, filter TransactionFilter) (domain.ListResult[*Transaction], error) {
	return e.repo.ListTransactions(ctx, filter)
}

// UnreconciledCash retrieves unreconciled transactions on the Cash
// account for the bank reconciliation screen.
func (e *Engine) UnreconciledCash(ctx context.Context) ([]*CashEntry, error) {
	cash, err := e.repo.GetAccountByName(ctx, AccountCash)
	if err != nil {
		return nil, err
	}
	return e.repo.UnreconciledCash(ctx, cash.ID)
}

// Reconcile marks transactions as matched against a bank statement.
func (e *Engine) Reconcile(ctx context.Context, txnIDs []id.ID, date time.Time) error {
	if len(txnIDs) == 0 {
		return apperror.NewValidation("at least one transaction is required").
			WithDetail("field", "transactionIds")
	}
	if date.IsZero() {
		return apperror.NewValidation("reconciliation date is required").
			WithDetail("field", "date")
	}

	return e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return e.repo.MarkReconciled(ctx, txnIDs, date)
	})
}

// CreateAccount adds a user-defined account to the chart.
func (e *Engine) CreateAccount(ctx context.Context, acc *Account) error {
	if err := acc.Validate(ctx); err != nil {
		return err
	}

	existing, err := e.repo.GetAccountByName(ctx, acc.Name)
	if err != nil && !apperror.IsNotFound(err) {
		return err
	}
	if existing != nil {
		return apperror.NewDuplicate("account", "name", acc.Name)
	}

	return e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return e.repo.CreateAccount(ctx, acc)
	})
}

// GetAccount retrieves an account by ID.
func (e *Engine) GetAccount(ctx context.Context, accountID id.ID) (*Account, error) {
	return e.repo.GetAccount(ctx, accountID)
}

// Accounts retrieves the full chart of accounts.
func (e *Engine) Accounts(ctx context.Context) ([]*Account, error) {
	return e.repo.ListAccounts(ctx)
}

// EnsureChart creates any missing predefined accounts.
// Called at startup and by the seed tool; idempotent.
func (e *Engine) EnsureChart(ctx context.Context) error {
	return e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, acc := range ChartOfAccounts() {
			_, err := e.repo.GetAccountByName(ctx, acc.Name)
			if err == nil {
				continue
			}
			if !apperror.IsNotFound(err) {
				return err
			}
			if err := e.repo.CreateAccount(ctx, acc); err != nil {
				return fmt.Errorf("seed account %q: %w", acc.Name, err)
			}
			logger.Info(ctx, "account created", "name", acc.Name, "type", string(acc.Type))
		}
		return nil
	})
}
