package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
)

// Period is an inclusive date range for period-based reports.
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// AccountActivity is one account's aggregated turnover within a period.
type AccountActivity struct {
	AccountID   id.ID       `json:"account_id" db:"account_id"`
	AccountName string      `json:"account_name" db:"account_name"`
	AccountType string      `json:"account_type" db:"account_type"`
	TotalDebit  types.Money `json:"total_debit" db:"total_debit"`
	TotalCredit types.Money `json:"total_credit" db:"total_credit"`
}

// ProfitAndLoss groups revenue and expense turnover for a period.
type ProfitAndLoss struct {
	Period    Period            `json:"period"`
	Revenue   []AccountActivity `json:"revenue"`
	Expenses  []AccountActivity `json:"expenses"`
	NetProfit types.Money       `json:"net_profit"`
}

// BalanceSheet holds asset, liability and equity balances as of a date.
type BalanceSheet struct {
	AsOf             time.Time         `json:"as_of"`
	Assets           []AccountActivity `json:"assets"`
	Liabilities      []AccountActivity `json:"liabilities"`
	Equity           []AccountActivity `json:"equity"`
	TotalAssets      types.Money       `json:"total_assets"`
	TotalLiabilities types.Money       `json:"total_liabilities"`
	TotalEquity      types.Money       `json:"total_equity"`
}

// GSTR1B2BRow is one invoice issued to a GST-registered customer.
type GSTR1B2BRow struct {
	CustomerGSTIN string      `json:"customer_gstin" db:"customer_gstin"`
	CustomerName  string      `json:"customer_name" db:"customer_name"`
	InvoiceNumber string      `json:"invoice_number" db:"invoice_number"`
	InvoiceDate   time.Time   `json:"invoice_date" db:"invoice_date"`
	PlaceOfSupply string      `json:"place_of_supply" db:"place_of_supply"`
	TotalAmount   types.Money `json:"total_amount" db:"total_amount"`
	TaxableAmount types.Money `json:"taxable_amount" db:"taxable_amount"`
	CGST          types.Money `json:"cgst" db:"cgst"`
	SGST          types.Money `json:"sgst" db:"sgst"`
	IGST          types.Money `json:"igst" db:"igst"`
}

// GSTR1B2CRow is a consolidated summary of unregistered sales,
// grouped by place of supply and combined tax rate.
type GSTR1B2CRow struct {
	PlaceOfSupply string          `json:"place_of_supply" db:"place_of_supply"`
	Rate          decimal.Decimal `json:"rate" db:"rate"`
	TaxableAmount types.Money     `json:"taxable_amount" db:"taxable_amount"`
	CGST          types.Money     `json:"cgst" db:"cgst"`
	SGST          types.Money     `json:"sgst" db:"sgst"`
	IGST          types.Money     `json:"igst" db:"igst"`
}

// GSTR1 is the outward supplies return for a period.
type GSTR1 struct {
	Period Period        `json:"period"`
	B2B    []GSTR1B2BRow `json:"b2b"`
	B2C    []GSTR1B2CRow `json:"b2c"`
}

// TaxSummary is a taxable value with its tax split.
type TaxSummary struct {
	TaxableAmount types.Money `json:"taxable_amount" db:"taxable_amount"`
	CGST          types.Money `json:"cgst" db:"cgst"`
	SGST          types.Money `json:"sgst" db:"sgst"`
	IGST          types.Money `json:"igst" db:"igst"`
}

// GSTR3B is the summary return: outward supplies and input tax credit.
type GSTR3B struct {
	Period          Period      `json:"period"`
	OutwardSupplies TaxSummary  `json:"outward_supplies"`
	InputTaxCredit  TaxSummary  `json:"input_tax_credit"`
	NetCGSTPayable  types.Money `json:"net_cgst_payable"`
	NetSGSTPayable  types.Money `json:"net_sgst_payable"`
	NetIGSTPayable  types.Money `json:"net_igst_payable"`
}

// StatementLine is one row of a party account statement.
type StatementLine struct {
	Date           time.Time   `json:"date" db:"date"`
	DocumentType   string      `json:"document_type" db:"document_type"`
	DocumentNumber string      `json:"document_number" db:"document_number"`
	Debit          types.Money `json:"debit" db:"debit"`
	Credit         types.Money `json:"credit" db:"credit"`
}

// AccountStatement is a party ledger for a period with its opening balance.
type AccountStatement struct {
	PartyID        id.ID           `json:"party_id"`
	PartyKind      string          `json:"party_kind"`
	Period         Period          `json:"period"`
	OpeningBalance types.Money     `json:"opening_balance"`
	Lines          []StatementLine `json:"lines"`
	ClosingBalance types.Money     `json:"closing_balance"`
}

// ExpiringWarranty is a sold serial whose warranty ends soon.
type ExpiringWarranty struct {
	SerialNumber    string    `json:"serial_number" db:"serial_number"`
	ItemName        string    `json:"item_name" db:"item_name"`
	WarrantyEndDate time.Time `json:"warranty_end_date" db:"warranty_end_date"`
	CustomerName    string    `json:"customer_name" db:"customer_name"`
	InvoiceNumber   string    `json:"invoice_number" db:"invoice_number"`
}

// LowStockRow is a serialized item whose in-stock count fell below its minimum.
type LowStockRow struct {
	ItemID            id.ID  `json:"item_id" db:"item_id"`
	ItemName          string `json:"item_name" db:"item_name"`
	MinimumStockLevel int    `json:"minimum_stock_level" db:"minimum_stock_level"`
	CurrentStock      int    `json:"current_stock" db:"current_stock"`
}

// CategoryStockRow is the in-stock serial count per item category.
type CategoryStockRow struct {
	Category string `json:"category" db:"category"`
	InStock  int    `json:"in_stock" db:"in_stock"`
}
