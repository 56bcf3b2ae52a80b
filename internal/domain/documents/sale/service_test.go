package sale

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
	"ledgerbook/internal/domain/catalogs/item"
	"ledgerbook/internal/domain/catalogs/unit"
	"ledgerbook/internal/domain/inventory"
	"ledgerbook/internal/domain/ledger"
	"ledgerbook/internal/domain/settings"
	"ledgerbook/pkg/numerator"
)

// --- Test doubles ---

type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memRepo struct {
	Repository

	docs  map[id.ID]*SalesInvoice
	lines map[id.ID][]Line
}

func newMemRepo() *memRepo {
	return &memRepo{
		docs:  make(map[id.ID]*SalesInvoice),
		lines: make(map[id.ID][]Line),
	}
}

func (r *memRepo) Create(ctx context.Context, doc *SalesInvoice) error {
	r.docs[doc.ID] = doc
	return nil
}

func (r *memRepo) SaveLines(ctx context.Context, docID id.ID, lines []Line) error {
	r.lines[docID] = lines
	return nil
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

type memItemRepo struct {
	item.Repository

	items map[id.ID]*item.Item
}

func (r *memItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	it, ok := r.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("item", itemID.String())
	}
	return it, nil
}

type memSettingsRepo struct {
	values map[string]string
}

func (r *memSettingsRepo) Get(ctx context.Context, key string) (string, error) {
	val, ok := r.values[key]
	if !ok {
		return "", apperror.NewNotFound("setting", key)
	}
	return val, nil
}

func (r *memSettingsRepo) Set(ctx context.Context, key, value string) error {
	r.values[key] = value
	return nil
}

func (r *memSettingsRepo) GetAll(ctx context.Context) (map[string]string, error) {
	return r.values, nil
}

// soldCall records one MarkSold invocation.
type soldCall struct {
	serialID    id.ID
	invoiceID   id.ID
	warrantyEnd *time.Time
}

type recordingSerialRepo struct {
	inventory.Repository

	sold []soldCall
}

func (r *recordingSerialRepo) MarkSold(ctx context.Context, serialID, saleInvoiceID id.ID, warrantyEnd *time.Time) error {
	r.sold = append(r.sold, soldCall{serialID: serialID, invoiceID: saleInvoiceID, warrantyEnd: warrantyEnd})
	return nil
}

type stubUnitRepo struct {
	unit.Repository
}

// --- Fixture ---

type fixture struct {
	svc     *Service
	repo    *memRepo
	ledger  *memLedgerRepo
	serials *recordingSerialRepo

	itemID id.ID
}

// newFixture wires a sale service over in-memory stores with one item:
// cost 50.00, 12-month warranty.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	ledgerRepo := newMemLedgerRepo()
	engine := ledger.NewEngine(ledgerRepo, nopTxManager{})
	require.NoError(t, engine.EnsureChart(ctx))

	it := &item.Item{}
	it.EnsureID()
	it.Name = "Inverter"
	it.PurchasePrice = types.MustMoney("50.00")
	it.SellingPrice = types.MustMoney("75.00")
	it.DefaultWarrantyMonths = 12
	itemRepo := &memItemRepo{items: map[id.ID]*item.Item{it.ID: it}}

	settingsSvc := settings.NewService(&memSettingsRepo{values: map[string]string{}}, nopTxManager{})

	gen := &numerator.MockGenerator{
		GetNextNumberFunc: func(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
			return cfg.Prefix + "-00042", nil
		},
	}

	repo := newMemRepo()
	serials := &recordingSerialRepo{}
	svc := NewService(repo, engine, serials, itemRepo,
		unit.NewService(stubUnitRepo{}, nopTxManager{}), settingsSvc, gen, nopTxManager{})

	return &fixture{
		svc:     svc,
		repo:    repo,
		ledger:  ledgerRepo,
		serials: serials,
		itemID:  it.ID,
	}
}

// invoiceLine builds a line priced at 75.00 with a 10% tax split
// (CGST 5% + SGST 5%), so two units come to 150.00 + 15.00 GST.
func (f *fixture) invoiceLine(serialIDs ...id.ID) Line {
	return Line{
		ItemID:         f.itemID,
		Quantity:       types.NewQuantity(2),
		SellingPrice:   types.MustMoney("75.00"),
		TaxableValue:   types.MustMoney("150.00"),
		CGSTRate:       decimal.NewFromInt(5),
		SGSTRate:       decimal.NewFromInt(5),
		CGSTAmount:     types.MustMoney("7.50"),
		SGSTAmount:     types.MustMoney("7.50"),
		IGSTAmount:     types.Zero(),
		TotalGSTAmount: types.MustMoney("15.00"),
		SerialIDs:      serialIDs,
	}
}

// entryAmounts returns the (debit, credit) pair of a transaction entry
// on the named account, failing the test when the account is missing.
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

func TestCreateAndPost(t *testing.T) {
	f := newFixture(t)
	serialID := id.New()
	invoiceDate := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)

	doc := NewSalesInvoice(id.New())
	doc.Date = invoiceDate
	doc.AddLine(f.invoiceLine(serialID))

	require.NoError(t, f.svc.CreateAndPost(context.Background(), doc))

	assert.Equal(t, "INV-00042", doc.Number)
	assert.Equal(t, StatusUnpaid, doc.Status)
	assert.True(t, types.MoneyEqual(types.MustMoney("150.00"), doc.TaxableAmount))
	assert.True(t, types.MoneyEqual(types.MustMoney("15.00"), doc.TotalGSTAmount))
	assert.True(t, types.MoneyEqual(types.MustMoney("165.00"), doc.TotalAmount))
	assert.Contains(t, f.repo.docs, doc.ID)
	assert.Len(t, f.repo.lines[doc.ID], 1)

	// Revenue posting: AR 165.00 against revenue 150.00 + GST 15.00.
	require.Len(t, f.ledger.posted, 2)
	saleTxn := f.ledger.posted[0]
	assert.Equal(t, ledger.TxnTypeSale, saleTxn.Type)
	debit, _ := f.entryAmounts(t, saleTxn, ledger.AccountReceivable)
	assert.True(t, types.MoneyEqual(types.MustMoney("165.00"), debit))
	_, credit := f.entryAmounts(t, saleTxn, ledger.AccountSalesRevenue)
	assert.True(t, types.MoneyEqual(types.MustMoney("150.00"), credit))
	_, credit = f.entryAmounts(t, saleTxn, ledger.AccountGSTPayable)
	assert.True(t, types.MoneyEqual(types.MustMoney("15.00"), credit))

	// COGS posting at cost price 50.00 x 2.
	cogsTxn := f.ledger.posted[1]
	assert.Equal(t, ledger.TxnTypeSaleCOGS, cogsTxn.Type)
	debit, _ = f.entryAmounts(t, cogsTxn, ledger.AccountCOGS)
	assert.True(t, types.MoneyEqual(types.MustMoney("100.00"), debit))
	_, credit = f.entryAmounts(t, cogsTxn, ledger.AccountInventory)
	assert.True(t, types.MoneyEqual(types.MustMoney("100.00"), credit))

	// The sold serial carries a warranty ending 12 months after the
	// invoice date.
	require.Len(t, f.serials.sold, 1)
	call := f.serials.sold[0]
	assert.Equal(t, serialID, call.serialID)
	assert.Equal(t, doc.ID, call.invoiceID)
	require.NotNil(t, call.warrantyEnd)
	assert.Equal(t, types.AddMonths(invoiceDate, 12), *call.warrantyEnd)
}

func TestCreateAndPostNoWarrantyWithoutSerials(t *testing.T) {
	f := newFixture(t)

	doc := NewSalesInvoice(id.New())
	doc.AddLine(f.invoiceLine())

	require.NoError(t, f.svc.CreateAndPost(context.Background(), doc))
	assert.Empty(t, f.serials.sold)
	assert.Len(t, f.ledger.posted, 2)
}

func TestCreateAndPostUnknownItem(t *testing.T) {
	f := newFixture(t)

	doc := NewSalesInvoice(id.New())
	line := f.invoiceLine()
	line.ItemID = id.New()
	doc.AddLine(line)

	err := f.svc.CreateAndPost(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, f.ledger.posted)
}

func TestCreateAndPostKeepsExplicitNumber(t *testing.T) {
	f := newFixture(t)

	doc := NewSalesInvoice(id.New())
	doc.Number = "INV-MANUAL"
	doc.AddLine(f.invoiceLine())

	require.NoError(t, f.svc.CreateAndPost(context.Background(), doc))
	assert.Equal(t, "INV-MANUAL", doc.Number)
}
