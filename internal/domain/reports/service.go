package reports

import (
	"context"
	"time"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
	"ledgerbook/internal/domain/ledger"
	"ledgerbook/internal/domain/settings"
)

const defaultWarrantyLookahead = 30

// Service assembles the reporting views from the aggregate repository.
type Service struct {
	repo     Repository
	settings *settings.Service
}

func NewService(repo Repository, settings *settings.Service) *Service {
	return &Service{repo: repo, settings: settings}
}

// ProfitAndLoss builds the income statement for the period.
// An empty period defaults to the configured financial year.
func (s *Service) ProfitAndLoss(ctx context.Context, period Period) (*ProfitAndLoss, error) {
	period, err := s.resolvePeriod(ctx, period)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.AccountActivity(ctx,
		[]string{string(ledger.AccountTypeRevenue), string(ledger.AccountTypeExpense)},
		period.From, period.To)
	if err != nil {
		return nil, err
	}

	report := &ProfitAndLoss{Period: period}
	totalRevenue := types.Money{}
	totalExpense := types.Money{}
	for _, row := range rows {
		switch row.AccountType {
		case string(ledger.AccountTypeRevenue):
			report.Revenue = append(report.Revenue, row)
			totalRevenue = totalRevenue.Add(row.TotalCredit.Sub(row.TotalDebit))
		case string(ledger.AccountTypeExpense):
			report.Expenses = append(report.Expenses, row)
			totalExpense = totalExpense.Add(row.TotalDebit.Sub(row.TotalCredit))
		}
	}
	report.NetProfit = types.RoundMoney(totalRevenue.Sub(totalExpense))
	return report, nil
}

// BalanceSheet builds the statement of financial position as of a date.
// A zero date defaults to today.
func (s *Service) BalanceSheet(ctx context.Context, asOf time.Time) (*BalanceSheet, error) {
	if asOf.IsZero() {
		asOf = time.Now()
	}

	rows, err := s.repo.AccountActivity(ctx,
		[]string{
			string(ledger.AccountTypeAsset),
			string(ledger.AccountTypeLiability),
			string(ledger.AccountTypeEquity),
		},
		time.Time{}, asOf)
	if err != nil {
		return nil, err
	}

	report := &BalanceSheet{AsOf: asOf}
	for _, row := range rows {
		switch row.AccountType {
		case string(ledger.AccountTypeAsset):
			report.Assets = append(report.Assets, row)
			report.TotalAssets = report.TotalAssets.Add(row.TotalDebit.Sub(row.TotalCredit))
		case string(ledger.AccountTypeLiability):
			report.Liabilities = append(report.Liabilities, row)
			report.TotalLiabilities = report.TotalLiabilities.Add(row.TotalCredit.Sub(row.TotalDebit))
		case string(ledger.AccountTypeEquity):
			report.Equity = append(report.Equity, row)
			report.TotalEquity = report.TotalEquity.Add(row.TotalCredit.Sub(row.TotalDebit))
		}
	}
	report.TotalAssets = types.RoundMoney(report.TotalAssets)
	report.TotalLiabilities = types.RoundMoney(report.TotalLiabilities)
	report.TotalEquity = types.RoundMoney(report.TotalEquity)
	return report, nil
}

// GSTR1 builds the outward supplies return for the period.
func (s *Service) GSTR1(ctx context.Context, period Period) (*GSTR1, error) {
	period, err := s.resolvePeriod(ctx, period)
	if err != nil {
		return nil, err
	}

	b2b, err := s.repo.GSTR1B2B(ctx, period.From, period.To)
	if err != nil {
		return nil, err
	}
	b2c, err := s.repo.GSTR1B2C(ctx, period.From, period.To)
	if err != nil {
		return nil, err
	}
	return &GSTR1{Period: period, B2B: b2b, B2C: b2c}, nil
}

// GSTR3B builds the summary return with net tax payable after input credit.
func (s *Service) GSTR3B(ctx context.Context, period Period) (*GSTR3B, error) {
	period, err := s.resolvePeriod(ctx, period)
	if err != nil {
		return nil, err
	}

	outward, err := s.repo.OutwardSupplies(ctx, period.From, period.To)
	if err != nil {
		return nil, err
	}
	itc, err := s.repo.InputTaxCredit(ctx, period.From, period.To)
	if err != nil {
		return nil, err
	}
	return &GSTR3B{
		Period:          period,
		OutwardSupplies: outward,
		InputTaxCredit:  itc,
		NetCGSTPayable:  types.RoundMoney(outward.CGST.Sub(itc.CGST)),
		NetSGSTPayable:  types.RoundMoney(outward.SGST.Sub(itc.SGST)),
		NetIGSTPayable:  types.RoundMoney(outward.IGST.Sub(itc.IGST)),
	}, nil
}

// AccountStatement builds a party ledger with opening and closing balances.
// Customer balances are debit-positive, supplier balances credit-positive.
func (s *Service) AccountStatement(ctx context.Context, partyID id.ID, kind PartyKind, period Period) (*AccountStatement, error) {
	if kind != PartyCustomer && kind != PartySupplier {
		return nil, apperror.NewValidation("unknown party kind")
	}
	period, err := s.resolvePeriod(ctx, period)
	if err != nil {
		return nil, err
	}

	opening, err := s.repo.OpeningBalance(ctx, partyID, kind, period.From)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.StatementLines(ctx, partyID, kind, period.From, period.To)
	if err != nil {
		return nil, err
	}

	closing := opening
	for _, line := range lines {
		if kind == PartyCustomer {
			closing = closing.Add(line.Debit).Sub(line.Credit)
		} else {
			closing = closing.Add(line.Credit).Sub(line.Debit)
		}
	}

	return &AccountStatement{
		PartyID:        partyID,
		PartyKind:      string(kind),
		Period:         period,
		OpeningBalance: types.RoundMoney(opening),
		Lines:          lines,
		ClosingBalance: types.RoundMoney(closing),
	}, nil
}

// ExpiringWarranties lists sold serials whose warranty ends within the
// lookahead window. Non-positive daysAhead defaults to 30.
func (s *Service) ExpiringWarranties(ctx context.Context, daysAhead int) ([]ExpiringWarranty, error) {
	if daysAhead <= 0 {
		daysAhead = defaultWarrantyLookahead
	}
	today := truncateDay(time.Now())
	return s.repo.ExpiringWarranties(ctx, today, today.AddDate(0, 0, daysAhead))
}

func (s *Service) LowStock(ctx context.Context) ([]LowStockRow, error) {
	return s.repo.LowStock(ctx)
}

func (s *Service) CategoryStock(ctx context.Context) ([]CategoryStockRow, error) {
	return s.repo.CategoryStock(ctx)
}

// resolvePeriod fills missing bounds from the configured financial year.
func (s *Service) resolvePeriod(ctx context.Context, period Period) (Period, error) {
	if !period.From.IsZero() && !period.To.IsZero() {
		if period.To.Before(period.From) {
			return Period{}, apperror.NewValidation("period end precedes its start")
		}
		return period, nil
	}

	start, end, err := s.settings.FinancialYear(ctx)
	if err != nil {
		return Period{}, err
	}
	if period.From.IsZero() {
		period.From = start
	}
	if period.To.IsZero() {
		period.To = end
	}
	if period.To.Before(period.From) {
		return Period{}, apperror.NewValidation("period end precedes its start")
	}
	return period, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
