package handlers

import (
	"github.com/gin-gonic/gin"

	"ledgerbook/internal/domain"
	"ledgerbook/internal/domain/documents/sale"
	"ledgerbook/internal/infrastructure/http/v1/dto"
	"ledgerbook/internal/infrastructure/storage/postgres"
)

// SaleHandler serves sales invoices.
type SaleHandler struct {
	*BaseHandler
	service *sale.Service
	audit   *postgres.AuditService
}

// NewSaleHandler creates a new sales invoice handler.
func NewSaleHandler(base *BaseHandler, service *sale.Service, audit *postgres.AuditService) *SaleHandler {
	return &SaleHandler{BaseHandler: base, service: service, audit: audit}
}

// Create handles POST /. Posting writes the invoice, the revenue and
// COGS transactions, and the serial transitions atomically.
func (h *SaleHandler) Create(c *gin.Context) {
	var req dto.CreateSalesInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToDocument()
	if err := h.service.CreateAndPost(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}

	auditCreate(c.Request.Context(), h.audit, "sales_invoice", doc.ID, map[string]any{
		"number": doc.Number,
		"total":  doc.TotalAmount.StringFixed(2),
	})

	h.Created(c, doc.ID.String())
}

// Get handles GET /:id.
func (h *SaleHandler) Get(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, doc)
}

// List handles GET / with customer, status and date filters.
func (h *SaleHandler) List(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      result.Items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Unpaid handles GET /unpaid?customerId=... for payment allocation.
func (h *SaleHandler) Unpaid(c *gin.Context) {
	customerID, ok := h.parseQueryID(c, "customerId")
	if !ok {
		return
	}

	invoices, err := h.service.Unpaid(c.Request.Context(), customerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, invoices)
}

func (h *SaleHandler) parseFilter(c *gin.Context) (sale.ListFilter, bool) {
	filter := sale.ListFilter{
		ListFilter: domain.ListFilter{
			Search:         c.Query("search"),
			Limit:          h.ParseIntQuery(c, "limit", 50),
			Offset:         h.ParseIntQuery(c, "offset", 0),
			OrderBy:        c.DefaultQuery("orderBy", "-date"),
			IncludeDeleted: c.Query("includeDeleted") == "true",
		},
		Status: c.Query("status"),
	}

	if raw := c.Query("customerId"); raw != "" {
		customerID, ok := h.parseQueryID(c, "customerId")
		if !ok {
			return filter, false
		}
		filter.CustomerID = &customerID
	}

	var ok bool
	if filter.DateFrom, ok = h.parseDatePtr(c, "dateFrom"); !ok {
		return filter, false
	}
	if filter.DateTo, ok = h.parseDatePtr(c, "dateTo"); !ok {
		return filter, false
	}

	return filter, true
}
