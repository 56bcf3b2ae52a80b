package inventory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
	"ledgerbook/internal/domain/catalogs/item"
	"ledgerbook/internal/domain/ledger"
	"ledgerbook/pkg/numerator"
)

// --- Test doubles ---

type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memSerialRepo struct {
	Repository

	serials map[id.ID]*Serial
}

func newMemSerialRepo() *memSerialRepo {
	return &memSerialRepo{serials: make(map[id.ID]*Serial)}
}

func (r *memSerialRepo) Create(ctx context.Context, s *Serial) error {
	r.serials[s.ID] = s
	return nil
}

func (r *memSerialRepo) GetByID(ctx context.Context, serialID id.ID) (*Serial, error) {
	s, ok := r.serials[serialID]
	if !ok {
		return nil, apperror.NewNotFound("serial", serialID.String())
	}
	return s, nil
}

func (r *memSerialRepo) MarkConsumed(ctx context.Context, serialID, assemblyID id.ID) error {
	s, ok := r.serials[serialID]
	if !ok {
		return apperror.NewNotFound("serial", serialID.String())
	}
	if s.Status != StatusInStock {
		return apperror.NewSerialNotAvailable(serialID.String())
	}
	s.Status = StatusConsumed
	asm := assemblyID
	s.AssemblyID = &asm
	return nil
}

type memItemRepo struct {
	item.Repository

	items map[id.ID]*item.Item
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: make(map[id.ID]*item.Item)}
}

func (r *memItemRepo) Create(ctx context.Context, it *item.Item) error {
	r.items[it.ID] = it
	return nil
}

func (r *memItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	it, ok := r.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("item", itemID.String())
	}
	return it, nil
}

func (r *memItemRepo) Update(ctx context.Context, it *item.Item) error {
	r.items[it.ID] = it
	return nil
}

func (r *memItemRepo) FindByName(ctx context.Context, name string) (*item.Item, error) {
	for _, it := range r.items {
		if it.Name == name {
			return it, nil
		}
	}
	return nil, apperror.NewNotFound("item", name)
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

type buildFixture struct {
	svc     *Service
	serials *memSerialRepo
	items   *memItemRepo
	ledger  *memLedgerRepo
}

func newBuildFixture(t *testing.T) *buildFixture {
	t.Helper()

	ledgerRepo := newMemLedgerRepo()
	engine := ledger.NewEngine(ledgerRepo, nopTxManager{})
	require.NoError(t, engine.EnsureChart(context.Background()))

	serialRepo := newMemSerialRepo()
	itemRepo := newMemItemRepo()

	seq := make(map[string]int)
	gen := &numerator.MockGenerator{
		GetNextNumberFunc: func(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
			seq[cfg.Prefix]++
			return fmt.Sprintf("%s-%05d", cfg.Prefix, seq[cfg.Prefix]), nil
		},
	}

	return &buildFixture{
		svc:     NewService(serialRepo, itemRepo, engine, gen, nopTxManager{}),
		serials: serialRepo,
		items:   itemRepo,
		ledger:  ledgerRepo,
	}
}

// seedComponent stores an item at the given cost price with one
// in-stock serial, returning the serial ID.
func (f *buildFixture) seedComponent(name, cost string) id.ID {
	it := item.NewItem("C-"+name, name)
	it.PurchasePrice = types.MustMoney(cost)
	it.IsSerialized = true
	f.items.items[it.ID] = it

	serial := NewSerial(it.ID, "SN-"+name, nil, nil)
	f.serials.serials[serial.ID] = serial
	return serial.ID
}

// --- Tests ---

func TestBuildAssembly(t *testing.T) {
	f := newBuildFixture(t)
	cpu := f.seedComponent("CPU", "12000.00")
	ram := f.seedComponent("RAM", "3000.00")

	assembled, err := f.svc.Build(context.Background(), BuildInput{
		Name:               "Office PC",
		ComponentSerialIDs: []id.ID{cpu, ram},
		SellingPrice:       types.MustMoney("20000.00"),
	})
	require.NoError(t, err)
	require.NotNil(t, assembled)

	assert.Equal(t, "ASM-00001", assembled.SerialNumber)
	assert.Equal(t, StatusInStock, assembled.Status)

	// The assembled item is created with the rolled-up component cost.
	it, err := f.items.GetByID(context.Background(), assembled.ItemID)
	require.NoError(t, err)
	assert.Equal(t, "Office PC", it.Name)
	assert.True(t, it.IsAssembled)
	assert.True(t, it.IsSerialized)
	assert.True(t, types.MoneyEqual(types.MustMoney("15000.00"), it.PurchasePrice))
	assert.True(t, types.MoneyEqual(types.MustMoney("20000.00"), it.SellingPrice))

	// Components are consumed and linked to the assembly.
	for _, serialID := range []id.ID{cpu, ram} {
		comp, err := f.serials.GetByID(context.Background(), serialID)
		require.NoError(t, err)
		assert.Equal(t, StatusConsumed, comp.Status)
		require.NotNil(t, comp.AssemblyID)
		assert.Equal(t, assembled.ID, *comp.AssemblyID)
	}

	// The cost transfer lands in the ledger.
	require.Len(t, f.ledger.posted, 1)
	assert.Equal(t, ledger.TxnTypeAssembly, f.ledger.posted[0].Type)
}

func TestBuildReusesAssembledItem(t *testing.T) {
	f := newBuildFixture(t)

	first, err := f.svc.Build(context.Background(), BuildInput{
		Name:               "Office PC",
		ComponentSerialIDs: []id.ID{f.seedComponent("CPU1", "10000.00")},
	})
	require.NoError(t, err)

	second, err := f.svc.Build(context.Background(), BuildInput{
		Name:               "Office PC",
		ComponentSerialIDs: []id.ID{f.seedComponent("CPU2", "11000.00")},
	})
	require.NoError(t, err)

	// Same catalog item, fresh serial, cost updated to the new rollup.
	assert.Equal(t, first.ItemID, second.ItemID)
	assert.NotEqual(t, first.SerialNumber, second.SerialNumber)

	it, err := f.items.GetByID(context.Background(), second.ItemID)
	require.NoError(t, err)
	assert.True(t, types.MoneyEqual(types.MustMoney("11000.00"), it.PurchasePrice))
}

func TestBuildRejectsConsumedComponent(t *testing.T) {
	f := newBuildFixture(t)
	cpu := f.seedComponent("CPU", "10000.00")
	f.serials.serials[cpu].Status = StatusConsumed

	_, err := f.svc.Build(context.Background(), BuildInput{
		Name:               "Office PC",
		ComponentSerialIDs: []id.ID{cpu},
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeSerialNotAvailable, appErr.Code)

	// Nothing was created or consumed.
	assert.Len(t, f.ledger.posted, 0)
	assert.Len(t, f.serials.serials, 1)
}

func TestBuildValidation(t *testing.T) {
	f := newBuildFixture(t)

	_, err := f.svc.Build(context.Background(), BuildInput{Name: "Office PC"})
	assert.Error(t, err)

	_, err = f.svc.Build(context.Background(), BuildInput{
		ComponentSerialIDs: []id.ID{id.New()},
	})
	assert.Error(t, err)
}
