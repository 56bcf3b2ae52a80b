// Package ledger_repo provides the PostgreSQL implementation of the
// general ledger repository.
package ledger_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/domain"
	"ledgerbook/internal/domain/ledger"
	"ledgerbook/internal/infrastructure/storage/postgres"
)

const (
	accountTable     = "ledger_accounts"
	transactionTable = "ledger_transactions"
	entryTable       = "ledger_entries"
)

var (
	accountCols     = postgres.ExtractDBColumns[ledger.Account]()
	transactionCols = postgres.ExtractDBColumns[ledger.Transaction]()
	entryCols       = []string{"id", "transaction_id", "account_id", "debit", "credit"}
)

// Repo implements ledger.Repository.
type Repo struct {
	txManager *postgres.TxManager
}

// NewRepo creates a new ledger repository.
func NewRepo(txManager *postgres.TxManager) *Repo {
	return &Repo{txManager: txManager}
}

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// CreateAccount inserts a new account.
func (r *Repo) CreateAccount(ctx context.Context, acc *ledger.Account) error {
	data := postgres.StructToMap(acc)

	filtered := make(map[string]any, len(accountCols))
	for _, col := range accountCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	q := r.builder().
		Insert(accountTable).
		SetMap(filtered)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}

// GetAccount retrieves an account by ID.
func (r *Repo) GetAccount(ctx context.Context, accountID id.ID) (*ledger.Account, error) {
	q := r.builder().
		Select(accountCols...).
		From(accountTable).
		Where(squirrel.Eq{"id": accountID})

	return r.getAccount(ctx, q, accountID.String())
}

// GetAccountByName retrieves an account by its unique name.
func (r *Repo) GetAccountByName(ctx context.Context, name string) (*ledger.Account, error) {
	q := r.builder().
		Select(accountCols...).
		From(accountTable).
		Where(squirrel.Eq{"name": name}).
		Where(squirrel.Eq{"deletion_mark": false})

	return r.getAccount(ctx, q, name)
}

func (r *Repo) getAccount(ctx context.Context, q squirrel.SelectBuilder, key string) (*ledger.Account, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var acc ledger.Account
	if err := pgxscan.Get(ctx, r.querier(ctx), &acc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("account", key)
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	return &acc, nil
}

// ListAccounts retrieves all accounts ordered by type then name.
func (r *Repo) ListAccounts(ctx context.Context) ([]*ledger.Account, error) {
	q := r.builder().
		Select(accountCols...).
		From(accountTable).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("type ASC", "name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var accounts []*ledger.Account
	if err := pgxscan.Select(ctx, r.querier(ctx), &accounts, sql, args...); err != nil {
		return nil, fmt.Errorf("select accounts: %w", err)
	}

	return accounts, nil
}

// CreateTransaction inserts a transaction header with its entries.
func (r *Repo) CreateTransaction(ctx context.Context, txn *ledger.Transaction) error {
	data := postgres.StructToMap(txn)

	filtered := make(map[string]any, len(transactionCols))
	for _, col := range transactionCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	q := r.builder().
		Insert(transactionTable).
		SetMap(filtered)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	if len(txn.Entries) == 0 {
		return nil
	}

	insQ := r.builder().
		Insert(entryTable).
		Columns(entryCols...)

	for _, entry := range txn.Entries {
		insQ = insQ.Values(entry.ID, txn.ID, entry.AccountID, entry.Debit, entry.Credit)
	}

	sql, args, err = insQ.ToSql()
	if err != nil {
		return fmt.Errorf("build entries insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert entries: %w", err)
	}

	return nil
}

// GetTransaction retrieves a transaction with entries.
func (r *Repo) GetTransaction(ctx context.Context, txnID id.ID) (*ledger.Transaction, error) {
	q := r.builder().
		Select(transactionCols...).
		From(transactionTable).
		Where(squirrel.Eq{"id": txnID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var txn ledger.Transaction
	if err := pgxscan.Get(ctx, r.querier(ctx), &txn, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("transaction", txnID.String())
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}

	entryQ := r.builder().
		Select(entryCols...).
		From(entryTable).
		Where(squirrel.Eq{"transaction_id": txnID}).
		OrderBy("debit DESC, credit ASC")

	sql, args, err = entryQ.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build entries query: %w", err)
	}

	if err := pgxscan.Select(ctx, r.querier(ctx), &txn.Entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}

	return &txn, nil
}

// ListTransactions retrieves transaction headers with filtering.
// Entries are not loaded.
func (r *Repo) ListTransactions(ctx context.Context, filter ledger.TransactionFilter) (domain.ListResult[*ledger.Transaction], error) {
	result := domain.ListResult[*ledger.Transaction]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder().
		Select(transactionCols...).
		From(transactionTable)

	if len(filter.Types) > 0 {
		q = q.Where(squirrel.Eq{"type": filter.Types})
	}
	if filter.ReferenceID != nil {
		q = q.Where(squirrel.Eq{"reference_id": *filter.ReferenceID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	countQ := r.builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	sql, args, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), &result.TotalCount, sql, args...); err != nil {
		return result, fmt.Errorf("count transactions: %w", err)
	}

	q = q.OrderBy("date DESC", "created_at DESC")

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

	if err := pgxscan.Select(ctx, r.querier(ctx), &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select transactions: %w", err)
	}

	return result, nil
}

// UnreconciledCash retrieves entries on the given account whose
// transactions are not yet matched against a bank statement.
func (r *Repo) UnreconciledCash(ctx context.Context, accountID id.ID) ([]*ledger.CashEntry, error) {
	q := r.builder().
		Select(
			"t.id AS transaction_id",
			"t.date",
			"t.description",
			"e.debit",
			"e.credit",
		).
		From(entryTable+" e").
		Join(transactionTable+" t ON t.id = e.transaction_id").
		Where(squirrel.Eq{"e.account_id": accountID}).
		Where(squirrel.Eq{"t.is_reconciled": false}).
		OrderBy("t.date ASC", "t.created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []*ledger.CashEntry
	if err := pgxscan.Select(ctx, r.querier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select unreconciled entries: %w", err)
	}

	return entries, nil
}

// MarkReconciled flags transactions as reconciled on the given date.
func (r *Repo) MarkReconciled(ctx context.Context, txnIDs []id.ID, date time.Time) error {
	if len(txnIDs) == 0 {
		return nil
	}

	q := r.builder().
		Update(transactionTable).
		Set("is_reconciled", true).
		Set("reconciliation_date", date).
		Where(squirrel.Eq{"id": txnIDs})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("mark reconciled: %w", err)
	}

	if int(result.RowsAffected()) != len(txnIDs) {
		return apperror.NewNotFound("transaction", "one or more transactions not found").
			WithDetail("expected", len(txnIDs)).
			WithDetail("updated", result.RowsAffected())
	}

	return nil
}
