package handlers

import (
	"github.com/gin-gonic/gin"

	"ledgerbook/internal/domain"
	"ledgerbook/internal/domain/documents/purchase"
	"ledgerbook/internal/infrastructure/http/v1/dto"
	"ledgerbook/internal/infrastructure/storage/postgres"
)

// PurchaseHandler serves purchase invoices.
type PurchaseHandler struct {
	*BaseHandler
	service *purchase.Service
	audit   *postgres.AuditService
}

// NewPurchaseHandler creates a new purchase invoice handler.
func NewPurchaseHandler(base *BaseHandler, service *purchase.Service, audit *postgres.AuditService) *PurchaseHandler {
	return &PurchaseHandler{BaseHandler: base, service: service, audit: audit}
}

// Create handles POST /. The invoice is posted atomically: header,
// lines, ledger transaction and serials succeed or fail together.
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToDocument()
	if err := h.service.CreateAndPost(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}

	auditCreate(c.Request.Context(), h.audit, "purchase_invoice", doc.ID, map[string]any{
		"number": doc.Number,
		"total":  doc.TotalAmount.StringFixed(2),
	})

	h.Created(c, doc.ID.String())
}

// Get handles GET /:id.
func (h *PurchaseHandler) Get(c *gin.Context) {
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

// List handles GET / with supplier, status and date filters.
func (h *PurchaseHandler) List(c *gin.Context) {
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

// Unpaid handles GET /unpaid?supplierId=... for payment allocation.
func (h *PurchaseHandler) Unpaid(c *gin.Context) {
	supplierID, ok := h.parseQueryID(c, "supplierId")
	if !ok {
		return
	}

	invoices, err := h.service.Unpaid(c.Request.Context(), supplierID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, invoices)
}

func (h *PurchaseHandler) parseFilter(c *gin.Context) (purchase.ListFilter, bool) {
	filter := purchase.ListFilter{
		ListFilter: domain.ListFilter{
			Search:         c.Query("search"),
			Limit:          h.ParseIntQuery(c, "limit", 50),
			Offset:         h.ParseIntQuery(c, "offset", 0),
			OrderBy:        c.DefaultQuery("orderBy", "-date"),
			IncludeDeleted: c.Query("includeDeleted") == "true",
		},
		Status: c.Query("status"),
	}

	if raw := c.Query("supplierId"); raw != "" {
		supplierID, ok := h.parseQueryID(c, "supplierId")
		if !ok {
			return filter, false
		}
		filter.SupplierID = &supplierID
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
