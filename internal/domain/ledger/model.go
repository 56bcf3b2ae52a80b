// Package ledger provides the double-entry general ledger core.
// Every financial event in the system (invoice, payment, assembly)
// lands here as a balanced transaction.
package ledger

import (
	"context"
	"time"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/entity"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
)

// AccountType classifies an account for reporting.
// Asset/Expense accounts carry debit-normal balances,
// Liability/Equity/Revenue accounts carry credit-normal balances.
type AccountType string

const (
	AccountTypeAsset     AccountType = "Asset"
	AccountTypeLiability AccountType = "Liability"
	AccountTypeEquity    AccountType = "Equity"
	AccountTypeRevenue   AccountType = "Revenue"
	AccountTypeExpense   AccountType = "Expense"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity,
		AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// Predefined account names. Document posting resolves accounts by these
// names, so they must exist before any document can be posted.
const (
	AccountCash         = "Cash"
	AccountReceivable   = "Accounts Receivable"
	AccountInventory    = "Inventory"
	AccountPayable      = "Accounts Payable"
	AccountGSTPayable   = "GST Payable"
	AccountOwnersEquity = "Owner's Equity"
	AccountSalesRevenue = "Sales Revenue"
	AccountCOGS         = "Cost of Goods Sold"
)

// Transaction types written by document posting.
const (
	TxnTypePurchase    = "PURCHASE"
	TxnTypeSale        = "SALE"
	TxnTypeSaleCOGS    = "SALE_COGS"
	TxnTypeCustPayment = "CUST_PAYMENT"
	TxnTypeSuppPayment = "SUPP_PAYMENT"
	TxnTypeAssembly    = "ASSEMBLY"
	TxnTypeManual      = "MANUAL"
)

// Account represents a general ledger account.
type Account struct {
	entity.BaseCatalog

	Name string      `db:"name" json:"name"`
	Type AccountType `db:"type" json:"type"`

	// IsSystem marks predefined accounts that posting depends on.
	// They cannot be renamed or deleted.
	IsSystem bool `db:"is_system" json:"isSystem"`
}

// NewAccount creates a new user-defined account.
func NewAccount(name string, accType AccountType) *Account {
	return &Account{
		BaseCatalog: entity.NewBaseCatalog(),
		Name:        name,
		Type:        accType,
	}
}

// Validate implements entity.Validatable.
func (a *Account) Validate(ctx context.Context) error {
	if a.Name == "" {
		return apperror.NewValidation("account name is required").
			WithDetail("field", "name")
	}
	if !a.Type.Valid() {
		return apperror.NewValidation("unknown account type").
			WithDetail("field", "type").
			WithDetail("value", string(a.Type))
	}
	return nil
}

// ChartOfAccounts returns the predefined accounts every ledger starts with.
func ChartOfAccounts() []*Account {
	chart := []struct {
		name    string
		accType AccountType
	}{
		{AccountCash, AccountTypeAsset},
		{AccountReceivable, AccountTypeAsset},
		{AccountInventory, AccountTypeAsset},
		{AccountPayable, AccountTypeLiability},
		{AccountGSTPayable, AccountTypeLiability},
		{AccountOwnersEquity, AccountTypeEquity},
		{AccountSalesRevenue, AccountTypeRevenue},
		{AccountCOGS, AccountTypeExpense},
	}

	accounts := make([]*Account, 0, len(chart))
	for _, c := range chart {
		acc := NewAccount(c.name, c.accType)
		acc.IsSystem = true
		accounts = append(accounts, acc)
	}
	return accounts
}

// Transaction is a posted ledger transaction header.
// A transaction is immutable once written; corrections are posted as
// new transactions.
type Transaction struct {
	ID          id.ID     `db:"id" json:"id"`
	Date        time.Time `db:"date" json:"date"`
	Type        string    `db:"type" json:"type"`
	Description string    `db:"description" json:"description,omitempty"`

	// ReferenceID links back to the source document (invoice, payment).
	// Nil for manual journal entries.
	ReferenceID *id.ID `db:"reference_id" json:"referenceId,omitempty"`

	// IsReconciled marks the transaction as matched against a bank
	// statement. Only meaningful for transactions touching Cash.
	IsReconciled       bool       `db:"is_reconciled" json:"isReconciled"`
	ReconciliationDate *time.Time `db:"reconciliation_date" json:"reconciliationDate,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`

	Entries []Entry `db:"-" json:"entries"`
}

// Entry is a single debit or credit line within a transaction.
type Entry struct {
	ID            id.ID       `db:"id" json:"id"`
	TransactionID id.ID       `db:"transaction_id" json:"transactionId"`
	AccountID     id.ID       `db:"account_id" json:"accountId"`
	Debit         types.Money `db:"debit" json:"debit"`
	Credit        types.Money `db:"credit" json:"credit"`
}

// EntryInput describes one line of a transaction to post.
// Accounts are addressed by name; the engine resolves them to IDs.
type EntryInput struct {
	Account string      `json:"account"`
	Debit   types.Money `json:"debit"`
	Credit  types.Money `json:"credit"`
}

// Debit is a convenience constructor for a debit line.
func Debit(account string, amount types.Money) EntryInput {
	return EntryInput{Account: account, Debit: amount}
}

// Credit is a convenience constructor for a credit line.
func Credit(account string, amount types.Money) EntryInput {
	return EntryInput{Account: account, Credit: amount}
}

// PostInput describes a complete transaction to post.
type PostInput struct {
	Date        time.Time    `json:"date"`
	Type        string       `json:"type"`
	Description string       `json:"description"`
	ReferenceID *id.ID       `json:"referenceId,omitempty"`
	Entries     []EntryInput `json:"entries"`
}

// Validate checks structural invariants before account resolution.
func (in *PostInput) Validate(ctx context.Context) error {
	if in.Date.IsZero() {
		return apperror.NewValidation("transaction date is required").
			WithDetail("field", "date")
	}
	if in.Type == "" {
		return apperror.NewValidation("transaction type is required").
			WithDetail("field", "type")
	}
	if len(in.Entries) == 0 {
		return apperror.NewValidation("at least one entry is required").
			WithDetail("field", "entries")
	}

	for i, e := range in.Entries {
		if e.Account == "" {
			return apperror.NewValidation("entry account is required").
				WithDetail("field", "entries").
				WithDetail("lineNo", i+1)
		}
		if e.Debit.IsNegative() || e.Credit.IsNegative() {
			return apperror.NewValidation("entry amounts cannot be negative").
				WithDetail("field", "entries").
				WithDetail("lineNo", i+1)
		}
		if e.Debit.IsPositive() && e.Credit.IsPositive() {
			return apperror.NewValidation("entry cannot be both debit and credit").
				WithDetail("field", "entries").
				WithDetail("lineNo", i+1)
		}
		if !e.Debit.IsPositive() && !e.Credit.IsPositive() {
			return apperror.NewValidation("entry must have a debit or credit amount").
				WithDetail("field", "entries").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// TotalDebits sums all debit amounts.
func (in *PostInput) TotalDebits() types.Money {
	total := types.Zero()
	for _, e := range in.Entries {
		total = total.Add(e.Debit)
	}
	return total
}

// TotalCredits sums all credit amounts.
func (in *PostInput) TotalCredits() types.Money {
	total := types.Zero()
	for _, e := range in.Entries {
		total = total.Add(e.Credit)
	}
	return total
}
