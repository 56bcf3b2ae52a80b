package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
	"ledgerbook/internal/domain"
)

// --- Test doubles ---

type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memRepo struct {
	accounts map[string]*Account
	posted   []*Transaction
}

func newMemRepo() *memRepo {
	return &memRepo{accounts: make(map[string]*Account)}
}

func (r *memRepo) CreateAccount(ctx context.Context, acc *Account) error {
	r.accounts[acc.Name] = acc
	return nil
}

func (r *memRepo) GetAccount(ctx context.Context, accountID id.ID) (*Account, error) {
	for _, acc := range r.accounts {
		if acc.ID == accountID {
			return acc, nil
		}
	}
	return nil, apperror.NewNotFound("account", accountID.String())
}

func (r *memRepo) GetAccountByName(ctx context.Context, name string) (*Account, error) {
	acc, ok := r.accounts[name]
	if !ok {
		return nil, apperror.NewNotFound("account", name)
	}
	return acc, nil
}

func (r *memRepo) ListAccounts(ctx context.Context) ([]*Account, error) {
	out := make([]*Account, 0, len(r.accounts))
	for _, acc := range r.accounts {
		out = append(out, acc)
	}
	return out, nil
}

func (r *memRepo) CreateTransaction(ctx context.Context, txn *Transaction) error {
	r.posted = append(r.posted, txn)
	return nil
}

func (r *memRepo) GetTransaction(ctx context.Context, txnID id.ID) (*Transaction, error) {
	for _, txn := range r.posted {
		if txn.ID == txnID {
			return txn, nil
		}
	}
	return nil, apperror.NewNotFound("transaction", txnID.String())
}

func (r *memRepo) ListTransactions(ctx context.Context, filter TransactionFilter) (domain.ListResult[*Transaction], error) {
	return domain.ListResult[*Transaction]{Items: r.posted, TotalCount: int64(len(r.posted))}, nil
}

func (r *memRepo) UnreconciledCash(ctx context.Context, accountID id.ID) ([]*CashEntry, error) {
	var out []*CashEntry
	for _, txn := range r.posted {
		if txn.IsReconciled {
			continue
		}
		for _, e := range txn.Entries {
			if e.AccountID == accountID {
				out = append(out, &CashEntry{
					TransactionID: txn.ID,
					Date:          txn.Date,
					Description:   txn.Description,
					Debit:         e.Debit,
					Credit:        e.Credit,
				})
			}
		}
	}
	return out, nil
}

func (r *memRepo) MarkReconciled(ctx context.Context, txnIDs []id.ID, date time.Time) error {
	for _, txn := range r.posted {
		for _, txnID := range txnIDs {
			if txn.ID == txnID {
				txn.IsReconciled = true
				d := date
				txn.ReconciliationDate = &d
			}
		}
	}
	return nil
}

func newTestEngine(t *testing.T) (*Engine, *memRepo) {
	t.Helper()
	repo := newMemRepo()
	engine := NewEngine(repo, nopTxManager{})
	require.NoError(t, engine.EnsureChart(context.Background()))
	return engine, repo
}

// --- Tests ---

func TestEnsureChart(t *testing.T) {
	engine, repo := newTestEngine(t)

	assert.Len(t, repo.accounts, 8)

	cash, err := repo.GetAccountByName(context.Background(), AccountCash)
	require.NoError(t, err)
	assert.Equal(t, AccountTypeAsset, cash.Type)
	assert.True(t, cash.IsSystem)

	gst, err := repo.GetAccountByName(context.Background(), AccountGSTPayable)
	require.NoError(t, err)
	assert.Equal(t, AccountTypeLiability, gst.Type)

	// Second run must not duplicate anything.
	require.NoError(t, engine.EnsureChart(context.Background()))
	assert.Len(t, repo.accounts, 8)
}

func TestPost_Balanced(t *testing.T) {
	engine, repo := newTestEngine(t)

	refID := id.New()
	txn, err := engine.Post(context.Background(), PostInput{
		Date:        time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Type:        TxnTypePurchase,
		Description: "Purchase Invoice PINV-2026-00001",
		ReferenceID: &refID,
		Entries: []EntryInput{
			Debit(AccountInventory, types.MustMoney("10000.00")),
			Debit(AccountGSTPayable, types.MustMoney("1800.00")),
			Credit(AccountPayable, types.MustMoney("11800.00")),
		},
	})
	require.NoError(t, err)

	require.Len(t, repo.posted, 1)
	assert.Equal(t, TxnTypePurchase, txn.Type)
	require.Len(t, txn.Entries, 3)

	inventory, _ := repo.GetAccountByName(context.Background(), AccountInventory)
	assert.Equal(t, inventory.ID, txn.Entries[0].AccountID)
	assert.True(t, txn.Entries[0].Debit.Equal(types.MustMoney("10000.00")))
	assert.True(t, txn.Entries[2].Credit.Equal(types.MustMoney("11800.00")))
}

func TestPost_Unbalanced(t *testing.T) {
	engine, repo := newTestEngine(t)

	_, err := engine.Post(context.Background(), PostInput{
		Date: time.Now(),
		Type: TxnTypeManual,
		Entries: []EntryInput{
			Debit(AccountCash, types.MustMoney("100.00")),
			Credit(AccountSalesRevenue, types.MustMoney("99.99")),
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnbalancedTransaction))
	assert.Empty(t, repo.posted)
}

func TestPost_BalanceCheckedAtTwoDecimals(t *testing.T) {
	engine, _ := newTestEngine(t)

	// 33.333 + 66.667 = 100.000; rounded totals match the credit side.
	_, err := engine.Post(context.Background(), PostInput{
		Date: time.Now(),
		Type: TxnTypeManual,
		Entries: []EntryInput{
			Debit(AccountCash, types.MustMoney("33.333")),
			Debit(AccountReceivable, types.MustMoney("66.667")),
			Credit(AccountSalesRevenue, types.MustMoney("100.00")),
		},
	})
	require.NoError(t, err)
}

func TestPost_UnknownAccount(t *testing.T) {
	engine, repo := newTestEngine(t)

	_, err := engine.Post(context.Background(), PostInput{
		Date: time.Now(),
		Type: TxnTypeManual,
		Entries: []EntryInput{
			Debit("Petty Cash", types.MustMoney("50.00")),
			Credit(AccountCash, types.MustMoney("50.00")),
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	assert.Empty(t, repo.posted)
}

func TestPost_EntryValidation(t *testing.T) {
	engine, _ := newTestEngine(t)

	cases := []struct {
		name    string
		entries []EntryInput
	}{
		{"no entries", nil},
		{"negative amount", []EntryInput{
			Debit(AccountCash, types.MustMoney("-10.00")),
			Credit(AccountSalesRevenue, types.MustMoney("-10.00")),
		}},
		{"debit and credit on one line", []EntryInput{
			{Account: AccountCash, Debit: types.MustMoney("10.00"), Credit: types.MustMoney("10.00")},
		}},
		{"missing account", []EntryInput{
			Debit("", types.MustMoney("10.00")),
			Credit(AccountCash, types.MustMoney("10.00")),
		}},
		{"neither debit nor credit", []EntryInput{
			Debit(AccountCash, types.MustMoney("10.00")),
			{Account: AccountSalesRevenue},
			Credit(AccountSalesRevenue, types.MustMoney("10.00")),
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.Post(context.Background(), PostInput{
				Date:    time.Now(),
				Type:    TxnTypeManual,
				Entries: tc.entries,
			})
			require.Error(t, err)
			assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
		})
	}
}

func TestReconcile(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	txn, err := engine.Post(ctx, PostInput{
		Date: time.Now(),
		Type: TxnTypeCustPayment,
		Entries: []EntryInput{
			Debit(AccountCash, types.MustMoney("500.00")),
			Credit(AccountReceivable, types.MustMoney("500.00")),
		},
	})
	require.NoError(t, err)

	pending, err := engine.UnreconciledCash(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, txn.ID, pending[0].TransactionID)

	require.NoError(t, engine.Reconcile(ctx, []id.ID{txn.ID}, time.Now()))

	pending, err = engine.UnreconciledCash(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	err = engine.Reconcile(ctx, nil, time.Now())
	require.Error(t, err)
}

func TestCreateAccount_Duplicate(t *testing.T) {
	engine, _ := newTestEngine(t)

	err := engine.CreateAccount(context.Background(), NewAccount(AccountCash, AccountTypeAsset))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeDuplicate))

	require.NoError(t, engine.CreateAccount(context.Background(),
		NewAccount("Rent Expense", AccountTypeExpense)))
}
