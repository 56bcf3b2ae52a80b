package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
	"ledgerbook/internal/domain/ledger"
	"ledgerbook/internal/domain/settings"
)

type memSettings struct {
	values map[string]string
}

func (m *memSettings) Get(ctx context.Context, key string) (string, error) {
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", apperror.NewNotFound("setting", key)
}

func (m *memSettings) Set(ctx context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memSettings) GetAll(ctx context.Context) (map[string]string, error) {
	return m.values, nil
}

type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubRepo struct {
	activity   []AccountActivity
	b2b        []GSTR1B2BRow
	b2c        []GSTR1B2CRow
	outward    TaxSummary
	itc        TaxSummary
	opening    types.Money
	statement  []StatementLine
	warranties []ExpiringWarranty
	lowStock   []LowStockRow
	categories []CategoryStockRow

	gotFrom time.Time
	gotTo   time.Time
}

func (r *stubRepo) AccountActivity(ctx context.Context, accountTypes []string, from, to time.Time) ([]AccountActivity, error) {
	r.gotFrom, r.gotTo = from, to
	return r.activity, nil
}

func (r *stubRepo) GSTR1B2B(ctx context.Context, from, to time.Time) ([]GSTR1B2BRow, error) {
	return r.b2b, nil
}

func (r *stubRepo) GSTR1B2C(ctx context.Context, from, to time.Time) ([]GSTR1B2CRow, error) {
	return r.b2c, nil
}

func (r *stubRepo) OutwardSupplies(ctx context.Context, from, to time.Time) (TaxSummary, error) {
	return r.outward, nil
}

func (r *stubRepo) InputTaxCredit(ctx context.Context, from, to time.Time) (TaxSummary, error) {
	return r.itc, nil
}

func (r *stubRepo) OpeningBalance(ctx context.Context, partyID id.ID, kind PartyKind, before time.Time) (types.Money, error) {
	return r.opening, nil
}

func (r *stubRepo) StatementLines(ctx context.Context, partyID id.ID, kind PartyKind, from, to time.Time) ([]StatementLine, error) {
	return r.statement, nil
}

func (r *stubRepo) ExpiringWarranties(ctx context.Context, from, to time.Time) ([]ExpiringWarranty, error) {
	r.gotFrom, r.gotTo = from, to
	return r.warranties, nil
}

func (r *stubRepo) LowStock(ctx context.Context) ([]LowStockRow, error) {
	return r.lowStock, nil
}

func (r *stubRepo) CategoryStock(ctx context.Context) ([]CategoryStockRow, error) {
	return r.categories, nil
}

func newTestService(repo *stubRepo, values map[string]string) *Service {
	if values == nil {
		values = map[string]string{}
	}
	st := settings.NewService(&memSettings{values: values}, nopTxManager{})
	return NewService(repo, st)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestProfitAndLoss(t *testing.T) {
	repo := &stubRepo{activity: []AccountActivity{
		{
			AccountName: ledger.AccountSalesRevenue,
			AccountType: string(ledger.AccountTypeRevenue),
			TotalDebit:  types.MustMoney("0"),
			TotalCredit: types.MustMoney("15000"),
		},
		{
			AccountName: ledger.AccountCOGS,
			AccountType: string(ledger.AccountTypeExpense),
			TotalDebit:  types.MustMoney("9000"),
			TotalCredit: types.MustMoney("0"),
		},
	}}
	svc := newTestService(repo, nil)

	period := Period{From: day(2026, time.April, 1), To: day(2027, time.March, 31)}
	report, err := svc.ProfitAndLoss(context.Background(), period)
	require.NoError(t, err)

	require.Len(t, report.Revenue, 1)
	require.Len(t, report.Expenses, 1)
	assert.True(t, types.MoneyEqual(types.MustMoney("6000"), report.NetProfit),
		"net profit = %s", report.NetProfit)
	assert.Equal(t, period.From, repo.gotFrom)
	assert.Equal(t, period.To, repo.gotTo)
}

func TestProfitAndLoss_DefaultsToFinancialYear(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(repo, map[string]string{
		settings.KeyFinancialYearStart: "2026-04-01",
		settings.KeyFinancialYearEnd:   "2027-03-31",
	})

	_, err := svc.ProfitAndLoss(context.Background(), Period{})
	require.NoError(t, err)
	assert.Equal(t, day(2026, time.April, 1), repo.gotFrom)
	assert.Equal(t, day(2027, time.March, 31), repo.gotTo)
}

func TestProfitAndLoss_InvertedPeriod(t *testing.T) {
	svc := newTestService(&stubRepo{}, nil)

	_, err := svc.ProfitAndLoss(context.Background(), Period{
		From: day(2026, time.June, 1),
		To:   day(2026, time.May, 1),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestBalanceSheet(t *testing.T) {
	repo := &stubRepo{activity: []AccountActivity{
		{
			AccountName: ledger.AccountCash,
			AccountType: string(ledger.AccountTypeAsset),
			TotalDebit:  types.MustMoney("20000"),
			TotalCredit: types.MustMoney("5000"),
		},
		{
			AccountName: ledger.AccountGSTPayable,
			AccountType: string(ledger.AccountTypeLiability),
			TotalDebit:  types.MustMoney("1000"),
			TotalCredit: types.MustMoney("4000"),
		},
		{
			AccountName: ledger.AccountOwnersEquity,
			AccountType: string(ledger.AccountTypeEquity),
			TotalDebit:  types.MustMoney("0"),
			TotalCredit: types.MustMoney("12000"),
		},
	}}
	svc := newTestService(repo, nil)

	report, err := svc.BalanceSheet(context.Background(), day(2026, time.September, 1))
	require.NoError(t, err)

	assert.True(t, types.MoneyEqual(types.MustMoney("15000"), report.TotalAssets))
	assert.True(t, types.MoneyEqual(types.MustMoney("3000"), report.TotalLiabilities))
	assert.True(t, types.MoneyEqual(types.MustMoney("12000"), report.TotalEquity))
	assert.True(t, repo.gotFrom.IsZero(), "as-of reports have no lower bound")
}

func TestGSTR3B_NetPayable(t *testing.T) {
	repo := &stubRepo{
		outward: TaxSummary{
			TaxableAmount: types.MustMoney("100000"),
			CGST:          types.MustMoney("9000"),
			SGST:          types.MustMoney("9000"),
			IGST:          types.MustMoney("1800"),
		},
		itc: TaxSummary{
			TaxableAmount: types.MustMoney("60000"),
			CGST:          types.MustMoney("5400"),
			SGST:          types.MustMoney("5400"),
			IGST:          types.MustMoney("0"),
		},
	}
	svc := newTestService(repo, nil)

	report, err := svc.GSTR3B(context.Background(), Period{
		From: day(2026, time.August, 1),
		To:   day(2026, time.August, 31),
	})
	require.NoError(t, err)

	assert.True(t, types.MoneyEqual(types.MustMoney("3600"), report.NetCGSTPayable))
	assert.True(t, types.MoneyEqual(types.MustMoney("3600"), report.NetSGSTPayable))
	assert.True(t, types.MoneyEqual(types.MustMoney("1800"), report.NetIGSTPayable))
}

func TestAccountStatement_CustomerBalances(t *testing.T) {
	repo := &stubRepo{
		opening: types.MustMoney("500"),
		statement: []StatementLine{
			{DocumentType: "Sales Invoice", Debit: types.MustMoney("1180"), Credit: types.MustMoney("0")},
			{DocumentType: "Payment Received", Debit: types.MustMoney("0"), Credit: types.MustMoney("1000")},
		},
	}
	svc := newTestService(repo, nil)

	stmt, err := svc.AccountStatement(context.Background(), id.New(), PartyCustomer, Period{
		From: day(2026, time.April, 1),
		To:   day(2026, time.September, 1),
	})
	require.NoError(t, err)

	assert.True(t, types.MoneyEqual(types.MustMoney("500"), stmt.OpeningBalance))
	assert.True(t, types.MoneyEqual(types.MustMoney("680"), stmt.ClosingBalance),
		"closing = %s", stmt.ClosingBalance)
}

func TestAccountStatement_SupplierBalances(t *testing.T) {
	repo := &stubRepo{
		opening: types.MustMoney("2000"),
		statement: []StatementLine{
			{DocumentType: "Purchase Invoice", Debit: types.MustMoney("0"), Credit: types.MustMoney("3000")},
			{DocumentType: "Payment Made", Debit: types.MustMoney("2500"), Credit: types.MustMoney("0")},
		},
	}
	svc := newTestService(repo, nil)

	stmt, err := svc.AccountStatement(context.Background(), id.New(), PartySupplier, Period{
		From: day(2026, time.April, 1),
		To:   day(2026, time.September, 1),
	})
	require.NoError(t, err)

	assert.True(t, types.MoneyEqual(types.MustMoney("2500"), stmt.ClosingBalance),
		"closing = %s", stmt.ClosingBalance)
}

func TestAccountStatement_UnknownKind(t *testing.T) {
	svc := newTestService(&stubRepo{}, nil)

	_, err := svc.AccountStatement(context.Background(), id.New(), PartyKind("vendor"), Period{
		From: day(2026, time.April, 1),
		To:   day(2026, time.September, 1),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestExpiringWarranties_DefaultWindow(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(repo, nil)

	_, err := svc.ExpiringWarranties(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, defaultWarrantyLookahead, int(repo.gotTo.Sub(repo.gotFrom).Hours()/24))
}
