package dto

import (
	"time"

	"ledgerbook/internal/core/id"
	"ledgerbook/internal/domain/documents/purchase"
	"ledgerbook/internal/domain/documents/quotation"
	"ledgerbook/internal/domain/documents/sale"
)

// CreatePurchaseInvoiceRequest creates and posts a purchase invoice.
// An empty number is generated from the configured prefix.
type CreatePurchaseInvoiceRequest struct {
	Number     string          `json:"number"`
	Date       time.Time       `json:"date"`
	Notes      string          `json:"notes"`
	SupplierID id.ID           `json:"supplierId"`
	Lines      []purchase.Line `json:"lines"`
}

// ToDocument builds the domain document, numbering its lines.
func (r *CreatePurchaseInvoiceRequest) ToDocument() *purchase.PurchaseInvoice {
	doc := purchase.NewPurchaseInvoice(r.SupplierID)
	doc.Number = r.Number
	doc.Notes = r.Notes
	if !r.Date.IsZero() {
		doc.Date = r.Date
	}
	for _, line := range r.Lines {
		doc.AddLine(line)
	}
	return doc
}

// CreateSalesInvoiceRequest creates and posts a sales invoice.
type CreateSalesInvoiceRequest struct {
	Number     string      `json:"number"`
	Date       time.Time   `json:"date"`
	Notes      string      `json:"notes"`
	CustomerID id.ID       `json:"customerId"`
	Lines      []sale.Line `json:"lines"`
}

// ToDocument builds the domain document, numbering its lines.
func (r *CreateSalesInvoiceRequest) ToDocument() *sale.SalesInvoice {
	doc := sale.NewSalesInvoice(r.CustomerID)
	doc.Number = r.Number
	doc.Notes = r.Notes
	if !r.Date.IsZero() {
		doc.Date = r.Date
	}
	for _, line := range r.Lines {
		doc.AddLine(line)
	}
	return doc
}

// CreateQuotationRequest creates a draft quotation.
type CreateQuotationRequest struct {
	Number     string           `json:"number"`
	Date       time.Time        `json:"date"`
	Notes      string           `json:"notes"`
	CustomerID id.ID            `json:"customerId"`
	ExpiryDate *time.Time       `json:"expiryDate,omitempty"`
	Lines      []quotation.Line `json:"lines"`
}

// ToDocument builds the domain document, numbering its lines.
func (r *CreateQuotationRequest) ToDocument() *quotation.Quotation {
	doc := quotation.NewQuotation(r.CustomerID)
	doc.Number = r.Number
	doc.Notes = r.Notes
	doc.ExpiryDate = r.ExpiryDate
	if !r.Date.IsZero() {
		doc.Date = r.Date
	}
	for _, line := range r.Lines {
		doc.AddLine(line)
	}
	return doc
}

// ConvertQuotationRequest converts a quotation to a sales invoice.
type ConvertQuotationRequest struct {
	InvoiceDate time.Time `json:"invoiceDate"`
}
