package quotation

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
	"ledgerbook/internal/domain"
	"ledgerbook/internal/domain/catalogs/customer"
	"ledgerbook/internal/domain/catalogs/item"
	"ledgerbook/internal/domain/catalogs/tax"
	"ledgerbook/internal/domain/catalogs/unit"
	"ledgerbook/internal/domain/documents/sale"
	"ledgerbook/internal/domain/inventory"
	"ledgerbook/internal/domain/ledger"
	"ledgerbook/internal/domain/settings"
	"ledgerbook/pkg/numerator"
)

// --- Test doubles ---
//
// Only the methods the conversion path touches are implemented; the
// embedded interfaces cover the rest.

type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memQuotationRepo struct {
	docs  map[id.ID]*Quotation
	lines map[id.ID][]Line
}

func newMemQuotationRepo() *memQuotationRepo {
	return &memQuotationRepo{
		docs:  make(map[id.ID]*Quotation),
		lines: make(map[id.ID][]Line),
	}
}

func (r *memQuotationRepo) Create(ctx context.Context, doc *Quotation) error {
	r.docs[doc.ID] = doc
	return nil
}

func (r *memQuotationRepo) GetByID(ctx context.Context, docID id.ID) (*Quotation, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("quotation", docID.String())
	}
	return doc, nil
}

func (r *memQuotationRepo) GetLines(ctx context.Context, docID id.ID) ([]Line, error) {
	return r.lines[docID], nil
}

func (r *memQuotationRepo) SaveLines(ctx context.Context, docID id.ID, lines []Line) error {
	r.lines[docID] = lines
	return nil
}

func (r *memQuotationRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Quotation], error) {
	out := make([]*Quotation, 0, len(r.docs))
	for _, doc := range r.docs {
		out = append(out, doc)
	}
	return domain.ListResult[*Quotation]{Items: out, TotalCount: int64(len(out))}, nil
}

func (r *memQuotationRepo) MarkConverted(ctx context.Context, docID, saleInvoiceID id.ID) error {
	doc, ok := r.docs[docID]
	if !ok {
		return apperror.NewNotFound("quotation", docID.String())
	}
	if doc.Status == StatusConverted {
		return apperror.NewBusinessRule(apperror.CodeQuotationConverted,
			"quotation is already converted")
	}
	doc.Status = StatusConverted
	inv := saleInvoiceID
	doc.SaleInvoiceID = &inv
	return nil
}

func (r *memQuotationRepo) GetForUpdate(ctx context.Context, docID id.ID) (*Quotation, error) {
	return r.GetByID(ctx, docID)
}

type memSaleRepo struct {
	sale.Repository

	docs  map[id.ID]*sale.SalesInvoice
	lines map[id.ID][]sale.Line
}

func newMemSaleRepo() *memSaleRepo {
	return &memSaleRepo{
		docs:  make(map[id.ID]*sale.SalesInvoice),
		lines: make(map[id.ID][]sale.Line),
	}
}

func (r *memSaleRepo) Create(ctx context.Context, doc *sale.SalesInvoice) error {
	r.docs[doc.ID] = doc
	return nil
}

func (r *memSaleRepo) SaveLines(ctx context.Context, docID id.ID, lines []sale.Line) error {
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

type memCustomerRepo struct {
	customer.Repository

	customers map[id.ID]*customer.Customer
}

func (r *memCustomerRepo) GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	cust, ok := r.customers[customerID]
	if !ok {
		return nil, apperror.NewNotFound("customer", customerID.String())
	}
	return cust, nil
}

type memTaxRepo struct {
	tax.Repository

	slabs map[id.ID]*tax.GSTSlab
}

func (r *memTaxRepo) GetSlab(ctx context.Context, slabID id.ID) (*tax.GSTSlab, error) {
	slab, ok := r.slabs[slabID]
	if !ok {
		return nil, apperror.NewNotFound("gst slab", slabID.String())
	}
	return slab, nil
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

type stubSerialRepo struct {
	inventory.Repository
}

type stubUnitRepo struct {
	unit.Repository
}

// --- Fixture ---

type fixture struct {
	svc    *Service
	quots  *memQuotationRepo
	sales  *memSaleRepo
	ledger *memLedgerRepo

	customerID id.ID
	itemID     id.ID
}

// newFixture wires a quotation service over in-memory stores: one
// customer, one item on an 18% slab with cost price 400.00.
func newFixture(t *testing.T, customerState string) *fixture {
	t.Helper()
	ctx := context.Background()

	ledgerRepo := newMemLedgerRepo()
	engine := ledger.NewEngine(ledgerRepo, nopTxManager{})
	require.NoError(t, engine.EnsureChart(ctx))

	slab := tax.NewGSTSlab(decimal.NewFromInt(18), "GST 18%")
	taxRepo := &memTaxRepo{slabs: map[id.ID]*tax.GSTSlab{slab.ID: slab}}

	it := &item.Item{}
	it.EnsureID()
	it.Name = "Widget"
	it.PurchasePrice = types.MustMoney("400.00")
	it.SellingPrice = types.MustMoney("500.00")
	it.GSTSlabID = &slab.ID
	itemRepo := &memItemRepo{items: map[id.ID]*item.Item{it.ID: it}}

	cust := &customer.Customer{}
	cust.EnsureID()
	cust.Name = "Acme Traders"
	cust.State = customerState
	custRepo := &memCustomerRepo{customers: map[id.ID]*customer.Customer{cust.ID: cust}}

	settingsSvc := settings.NewService(&memSettingsRepo{values: map[string]string{
		settings.KeyCompanyState: "Karnataka",
	}}, nopTxManager{})

	gen := &numerator.MockGenerator{
		GetNextNumberFunc: func(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
			return "INV-00001", nil
		},
	}

	saleRepo := newMemSaleRepo()
	saleSvc := sale.NewService(saleRepo, engine, stubSerialRepo{}, itemRepo,
		unit.NewService(stubUnitRepo{}, nopTxManager{}), settingsSvc, gen, nopTxManager{})

	quotRepo := newMemQuotationRepo()
	svc := NewService(quotRepo, saleSvc, custRepo, itemRepo, taxRepo,
		settingsSvc, gen, nopTxManager{})

	return &fixture{
		svc:        svc,
		quots:      quotRepo,
		sales:      saleRepo,
		ledger:     ledgerRepo,
		customerID: cust.ID,
		itemID:     it.ID,
	}
}

// seedQuotation stores a draft quotation with one line: 2 units at
// 500.00 each, taxable value 1000.00.
func (f *fixture) seedQuotation(t *testing.T) *Quotation {
	t.Helper()

	doc := NewQuotation(f.customerID)
	doc.Number = "QTN-00001"
	doc.AddLine(Line{
		ItemID:       f.itemID,
		Quantity:     decimal.NewFromInt(2),
		SellingPrice: types.MustMoney("500.00"),
	})

	f.quots.docs[doc.ID] = doc
	f.quots.lines[doc.ID] = doc.Lines
	return doc
}

// --- Tests ---

func TestConvertToSaleIntraState(t *testing.T) {
	f := newFixture(t, "Karnataka")
	doc := f.seedQuotation(t)
	invoiceDate := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

	inv, err := f.svc.ConvertToSale(context.Background(), doc.ID, invoiceDate)
	require.NoError(t, err)
	require.NotNil(t, inv)

	assert.Equal(t, "INV-00001", inv.Number)
	assert.Equal(t, sale.StatusUnpaid, inv.Status)
	assert.Equal(t, invoiceDate, inv.Date)
	require.NotNil(t, inv.QuotationID)
	assert.Equal(t, doc.ID, *inv.QuotationID)

	// 18% split into CGST 9% + SGST 9% on 1000.00 taxable.
	require.Len(t, inv.Lines, 1)
	line := inv.Lines[0]
	assert.True(t, types.MoneyEqual(types.MustMoney("1000.00"), line.TaxableValue))
	assert.True(t, types.MoneyEqual(types.MustMoney("90.00"), line.CGSTAmount))
	assert.True(t, types.MoneyEqual(types.MustMoney("90.00"), line.SGSTAmount))
	assert.True(t, line.IGSTAmount.IsZero())
	assert.True(t, types.MoneyEqual(types.MustMoney("1180.00"), inv.TotalAmount))

	// The invoice is persisted and the quotation linked to it.
	assert.Contains(t, f.sales.docs, inv.ID)
	assert.Equal(t, StatusConverted, doc.Status)
	require.NotNil(t, doc.SaleInvoiceID)
	assert.Equal(t, inv.ID, *doc.SaleInvoiceID)

	// Revenue and COGS postings, COGS at cost price 400.00 x 2.
	require.Len(t, f.ledger.posted, 2)
	assert.Equal(t, ledger.TxnTypeSale, f.ledger.posted[0].Type)
	assert.Equal(t, ledger.TxnTypeSaleCOGS, f.ledger.posted[1].Type)
}

func TestConvertToSaleInterState(t *testing.T) {
	f := newFixture(t, "Kerala")
	doc := f.seedQuotation(t)

	inv, err := f.svc.ConvertToSale(context.Background(), doc.ID, time.Now().UTC())
	require.NoError(t, err)

	require.Len(t, inv.Lines, 1)
	line := inv.Lines[0]
	assert.True(t, line.CGSTAmount.IsZero())
	assert.True(t, line.SGSTAmount.IsZero())
	assert.True(t, types.MoneyEqual(types.MustMoney("180.00"), line.IGSTAmount))
	assert.True(t, types.MoneyEqual(types.MustMoney("1180.00"), inv.TotalAmount))
}

func TestConvertToSaleCustomerWithoutState(t *testing.T) {
	// A customer with no recorded state is treated as local.
	f := newFixture(t, "")
	doc := f.seedQuotation(t)

	inv, err := f.svc.ConvertToSale(context.Background(), doc.ID, time.Now().UTC())
	require.NoError(t, err)

	require.Len(t, inv.Lines, 1)
	assert.True(t, types.MoneyEqual(types.MustMoney("90.00"), inv.Lines[0].CGSTAmount))
	assert.True(t, inv.Lines[0].IGSTAmount.IsZero())
}

func TestConvertToSaleAlreadyConverted(t *testing.T) {
	f := newFixture(t, "Karnataka")
	doc := f.seedQuotation(t)

	_, err := f.svc.ConvertToSale(context.Background(), doc.ID, time.Now().UTC())
	require.NoError(t, err)

	_, err = f.svc.ConvertToSale(context.Background(), doc.ID, time.Now().UTC())
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeQuotationConverted, appErr.Code)
}

func TestConvertToSaleUnknownQuotation(t *testing.T) {
	f := newFixture(t, "Karnataka")

	_, err := f.svc.ConvertToSale(context.Background(), id.New(), time.Now().UTC())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
