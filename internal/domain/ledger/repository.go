package ledger

import (
	"context"
	"time"

	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
	"ledgerbook/internal/domain"
)

// Repository defines ledger persistence operations.
// The implementation lives in infrastructure/storage/postgres/ledger_repo.
type Repository interface {
	// CreateAccount inserts a new account.
	CreateAccount(ctx context.Context, acc *Account) error

	// GetAccount retrieves an account by ID.
	GetAccount(ctx context.Context, accountID id.ID) (*Account, error)

	// GetAccountByName retrieves an account by its unique name.
	GetAccountByName(ctx context.Context, name string) (*Account, error)

	// ListAccounts retrieves all accounts ordered by type then name.
	ListAccounts(ctx context.Context) ([]*Account, error)

	// CreateTransaction inserts a transaction header with its entries.
	// Must be called within a transaction managed by tx.Manager.
	CreateTransaction(ctx context.Context, txn *Transaction) error

	// GetTransaction retrieves a transaction with entries.
	GetTransaction(ctx context.Context, txnID id.ID) (*Transaction, error)

	// ListTransactions retrieves transaction headers with filtering.
	ListTransactions(ctx context.Context, filter TransactionFilter) (domain.ListResult[*Transaction], error)

	// UnreconciledCash retrieves transactions touching the given account
	// that have not been matched against a bank statement.
	UnreconciledCash(ctx context.Context, accountID id.ID) ([]*CashEntry, error)

	// MarkReconciled flags transactions as reconciled on the given date.
	MarkReconciled(ctx context.Context, txnIDs []id.ID, date time.Time) error
}

// CashEntry is a ledger entry joined with its transaction header, as
// presented to the bank reconciliation screen.
type CashEntry struct {
	TransactionID id.ID       `db:"transaction_id" json:"transactionId"`
	Date          time.Time   `db:"date" json:"date"`
	Description   string      `db:"description" json:"description"`
	Debit         types.Money `db:"debit" json:"debit"`
	Credit        types.Money `db:"credit" json:"credit"`
}

// TransactionFilter narrows ListTransactions results.
type TransactionFilter struct {
	// Types filters by transaction types (PURCHASE, SALE, ...).
	Types []string

	// ReferenceID filters by source document.
	ReferenceID *id.ID

	// DateFrom/DateTo bound the business date (inclusive).
	DateFrom *time.Time
	DateTo   *time.Time

	Limit  int
	Offset int
}
