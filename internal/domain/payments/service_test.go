package payments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
	"ledgerbook/internal/domain/documents/purchase"
	"ledgerbook/internal/domain/documents/sale"
	"ledgerbook/internal/domain/ledger"
)

// --- Test doubles ---

type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memPaymentRepo struct {
	Repository

	payments    map[id.ID]*Payment
	allocations map[id.ID][]Allocation
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{
		payments:    make(map[id.ID]*Payment),
		allocations: make(map[id.ID][]Allocation),
	}
}

func (r *memPaymentRepo) Create(ctx context.Context, p *Payment) error {
	r.payments[p.ID] = p
	return nil
}

func (r *memPaymentRepo) SaveAllocations(ctx context.Context, paymentID id.ID, allocations []Allocation) error {
	r.allocations[paymentID] = allocations
	return nil
}

type memSaleRepo struct {
	sale.Repository

	docs map[id.ID]*sale.SalesInvoice
}

func newMemSaleRepo() *memSaleRepo {
	return &memSaleRepo{docs: make(map[id.ID]*sale.SalesInvoice)}
}

func (r *memSaleRepo) GetForUpdate(ctx context.Context, docID id.ID) (*sale.SalesInvoice, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("sales invoice", docID.String())
	}
	return doc, nil
}

func (r *memSaleRepo) ApplyPayment(ctx context.Context, docID id.ID, amount types.Money) (*sale.SalesInvoice, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("sales invoice", docID.String())
	}
	doc.AmountPaid = doc.AmountPaid.Add(amount)
	if doc.AmountPaid.GreaterThanOrEqual(doc.TotalAmount) {
		doc.Status = sale.StatusPaid
	}
	return doc, nil
}

type stubPurchaseRepo struct {
	purchase.Repository
}

type memLedgerRepo struct {
	ledger.Repository

	accounts map[string]*ledger.Account
	posted   []*ledger.Transaction
}

func newMemLedgerRepo() *memLedgerRepo {
	return &memLedgerRepo{accounts: make(map[string]*ledger.Account)}
}

func (r *memLedgerRepo) CreateAccount(ctx context.Context, acc *ledger.Account) error {
	r.accounts[acc.Name] = acc
	return nil
}

func (r *memLedgerRepo) GetAccountByName(ctx context.Context, name string) (*ledger.Account, error) {
	acc, ok := r.accounts[name]
	if !ok {
		return nil, apperror.NewNotFound("account", name)
	}
	return acc, nil
}

func (r *memLedgerRepo) CreateTransaction(ctx context.Context, txn *ledger.Transaction) error {
	r.posted = append(r.posted, txn)
	return nil
}

// --- Fixture ---

type fixture struct {
	svc    *Service
	repo   *memPaymentRepo
	sales  *memSaleRepo
	ledger *memLedgerRepo

	customerID id.ID
	invoiceID  id.ID
}

// newFixture wires a payments service over in-memory stores with one
// open 165.00 invoice.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	ledgerRepo := newMemLedgerRepo()
	engine := ledger.NewEngine(ledgerRepo, nopTxManager{})
	require.NoError(t, engine.EnsureChart(ctx))

	salesRepo := newMemSaleRepo()
	customerID := id.New()
	inv := sale.NewSalesInvoice(customerID)
	inv.Number = "INV-00001"
	inv.TotalAmount = types.MustMoney("165.00")
	salesRepo.docs[inv.ID] = inv

	repo := newMemPaymentRepo()
	svc := NewService(repo, salesRepo, stubPurchaseRepo{}, engine, nopTxManager{})

	return &fixture{
		svc:        svc,
		repo:       repo,
		sales:      salesRepo,
		ledger:     ledgerRepo,
		customerID: customerID,
		invoiceID:  inv.ID,
	}
}

func (f *fixture) entryAmounts(t *testing.T, txn *ledger.Transaction, account string) (types.Money, types.Money) {
	t.Helper()

	acc, ok := f.ledger.accounts[account]
	require.True(t, ok, "account %s not in chart", account)
	for _, e := range txn.Entries {
		if e.AccountID == acc.ID {
			return e.Debit, e.Credit
		}
	}
	t.Fatalf("no entry on account %s", account)
	return types.Zero(), types.Zero()
}

// --- Tests ---

func TestRecordCustomerPaymentFullSettlement(t *testing.T) {
	f := newFixture(t)

	p := NewPayment(PartyCustomer, f.customerID, time.Now().UTC(), types.MustMoney("165.00"))
	p.Allocations = []Allocation{{InvoiceID: f.invoiceID, Amount: types.MustMoney("165.00")}}

	require.NoError(t, f.svc.RecordCustomerPayment(context.Background(), p))

	// Paying the full balance flips the invoice to PAID.
	inv := f.sales.docs[f.invoiceID]
	assert.Equal(t, sale.StatusPaid, inv.Status)
	assert.True(t, types.MoneyEqual(types.MustMoney("165.00"), inv.AmountPaid))

	assert.Contains(t, f.repo.payments, p.ID)
	require.Len(t, f.repo.allocations[p.ID], 1)

	// Receipt posting: debit Cash, credit Accounts Receivable.
	require.Len(t, f.ledger.posted, 1)
	txn := f.ledger.posted[0]
	assert.Equal(t, ledger.TxnTypeCustPayment, txn.Type)
	debit, _ := f.entryAmounts(t, txn, ledger.AccountCash)
	assert.True(t, types.MoneyEqual(types.MustMoney("165.00"), debit))
	_, credit := f.entryAmounts(t, txn, ledger.AccountReceivable)
	assert.True(t, types.MoneyEqual(types.MustMoney("165.00"), credit))
}

func TestRecordCustomerPaymentPartialStaysUnpaid(t *testing.T) {
	f := newFixture(t)

	p := NewPayment(PartyCustomer, f.customerID, time.Now().UTC(), types.MustMoney("164.99"))
	p.Allocations = []Allocation{{InvoiceID: f.invoiceID, Amount: types.MustMoney("164.99")}}

	require.NoError(t, f.svc.RecordCustomerPayment(context.Background(), p))

	// One cent short keeps the invoice open.
	inv := f.sales.docs[f.invoiceID]
	assert.Equal(t, sale.StatusUnpaid, inv.Status)
	assert.True(t, types.MoneyEqual(types.MustMoney("164.99"), inv.AmountPaid))
	assert.True(t, types.MoneyEqual(types.MustMoney("0.01"), inv.Outstanding()))
}

func TestRecordCustomerPaymentOverAllocationRejected(t *testing.T) {
	f := newFixture(t)

	p := NewPayment(PartyCustomer, f.customerID, time.Now().UTC(), types.MustMoney("200.00"))
	p.Allocations = []Allocation{{InvoiceID: f.invoiceID, Amount: types.MustMoney("200.00")}}

	err := f.svc.RecordCustomerPayment(context.Background(), p)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeOverAllocation))

	// Nothing persisted or posted.
	assert.Empty(t, f.repo.payments)
	assert.Empty(t, f.ledger.posted)
	inv := f.sales.docs[f.invoiceID]
	assert.Equal(t, sale.StatusUnpaid, inv.Status)
	assert.True(t, inv.AmountPaid.IsZero())
}
