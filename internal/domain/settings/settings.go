// Package settings provides the key-value application settings store:
// company profile, document number prefixes, financial year bounds.
package settings

import (
	"context"
	"strings"
	"time"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/tx"
)

// Well-known setting keys.
const (
	KeyCompanyName    = "company_name"
	KeyCompanyAddress = "company_address"
	KeyCompanyGSTIN   = "company_gstin"
	KeyCompanyPAN     = "company_pan"
	KeyCompanyPhone   = "company_phone"
	KeyCompanyEmail   = "company_email"
	KeyCompanyState   = "company_state"

	KeyPrefixSalesInvoice    = "prefix_sales_invoice"
	KeyPrefixQuotation       = "prefix_quotation"
	KeyPrefixPurchaseInvoice = "prefix_purchase_invoice"

	KeyBankAccountName   = "bank_account_name"
	KeyBankAccountNumber = "bank_account_number"
	KeyBankIFSCCode      = "bank_ifsc_code"

	KeyFinancialYearStart = "financial_year_start"
	KeyFinancialYearEnd   = "financial_year_end"

	KeyLowStockThreshold = "low_stock_threshold"
)

// Default number prefixes, used when no setting is stored.
const (
	DefaultSalesInvoicePrefix    = "INV"
	DefaultQuotationPrefix       = "QTN"
	DefaultPurchaseInvoicePrefix = "PINV"
)

// Repository defines settings persistence.
type Repository interface {
	// Get returns the stored value, or NotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set upserts a value.
	Set(ctx context.Context, key, value string) error

	// GetAll returns every stored setting.
	GetAll(ctx context.Context) (map[string]string, error)
}

// Service provides typed access over the settings store.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a settings service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Get returns a setting value, or def if not stored.
func (s *Service) Get(ctx context.Context, key, def string) (string, error) {
	val, err := s.repo.Get(ctx, key)
	if err != nil {
		if apperror.IsNotFound(err) {
			return def, nil
		}
		return "", err
	}
	return val, nil
}

// Set stores a single setting.
func (s *Service) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return apperror.NewValidation("setting key is required").
			WithDetail("field", "key")
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Set(ctx, key, value)
	})
}

// SetAll stores multiple settings atomically.
func (s *Service) SetAll(ctx context.Context, values map[string]string) error {
	for key := range values {
		if key == "" {
			return apperror.NewValidation("setting key is required").
				WithDetail("field", "key")
		}
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for key, value := range values {
			if err := s.repo.Set(ctx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetAll returns every stored setting.
func (s *Service) GetAll(ctx context.Context) (map[string]string, error) {
	return s.repo.GetAll(ctx)
}

// SalesInvoicePrefix returns the configured sales invoice number prefix.
func (s *Service) SalesInvoicePrefix(ctx context.Context) (string, error) {
	return s.prefix(ctx, KeyPrefixSalesInvoice, DefaultSalesInvoicePrefix)
}

// QuotationPrefix returns the configured quotation number prefix.
func (s *Service) QuotationPrefix(ctx context.Context) (string, error) {
	return s.prefix(ctx, KeyPrefixQuotation, DefaultQuotationPrefix)
}

// PurchaseInvoicePrefix returns the configured purchase invoice number prefix.
func (s *Service) PurchaseInvoicePrefix(ctx context.Context) (string, error) {
	return s.prefix(ctx, KeyPrefixPurchaseInvoice, DefaultPurchaseInvoicePrefix)
}

// prefix reads a prefix setting and normalizes legacy values that carry
// a trailing separator ("INV-" → "INV").
func (s *Service) prefix(ctx context.Context, key, def string) (string, error) {
	val, err := s.Get(ctx, key, def)
	if err != nil {
		return "", err
	}
	val = strings.TrimRight(strings.TrimSpace(val), "-")
	if val == "" {
		return def, nil
	}
	return val, nil
}

// CompanyState returns the company's registered state, used to decide
// intra-state (CGST+SGST) versus inter-state (IGST) tax treatment.
func (s *Service) CompanyState(ctx context.Context) (string, error) {
	return s.Get(ctx, KeyCompanyState, "")
}

// FinancialYear returns the configured financial year bounds.
// Falls back to the Indian financial year (April 1 – March 31) around
// the current date when unset.
func (s *Service) FinancialYear(ctx context.Context) (start, end time.Time, err error) {
	now := time.Now().UTC()
	defStart := time.Date(now.Year(), time.April, 1, 0, 0, 0, 0, time.UTC)
	if now.Before(defStart) {
		defStart = defStart.AddDate(-1, 0, 0)
	}
	defEnd := defStart.AddDate(1, 0, -1)

	start = defStart
	end = defEnd

	if raw, gerr := s.Get(ctx, KeyFinancialYearStart, ""); gerr != nil {
		return start, end, gerr
	} else if raw != "" {
		if parsed, perr := time.Parse("2006-01-02", raw); perr == nil {
			start = parsed
		}
	}
	if raw, gerr := s.Get(ctx, KeyFinancialYearEnd, ""); gerr != nil {
		return start, end, gerr
	} else if raw != "" {
		if parsed, perr := time.Parse("2006-01-02", raw); perr == nil {
			end = parsed
		}
	}

	return start, end, nil
}
