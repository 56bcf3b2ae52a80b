package handlers

import (
	"github.com/gin-gonic/gin"

	"ledgerbook/internal/domain"
	"ledgerbook/internal/domain/documents/quotation"
	"ledgerbook/internal/infrastructure/http/v1/dto"
)

// QuotationHandler serves quotations and their conversion to sales invoices.
type QuotationHandler struct {
	*BaseHandler
	service *quotation.Service
}

// NewQuotationHandler creates a new quotation handler.
func NewQuotationHandler(base *BaseHandler, service *quotation.Service) *QuotationHandler {
	return &QuotationHandler{BaseHandler: base, service: service}
}

// Create handles POST /.
func (h *QuotationHandler) Create(c *gin.Context) {
	var req dto.CreateQuotationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToDocument()
	if err := h.service.Create(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, doc.ID.String())
}

// Get handles GET /:id.
func (h *QuotationHandler) Get(c *gin.Context) {
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

// List handles GET /.
func (h *QuotationHandler) List(c *gin.Context) {
	filter := quotation.ListFilter{
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
			return
		}
		filter.CustomerID = &customerID
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

// Convert handles POST /:id/convert. The quotation becomes a draft sales
// invoice without serials; serials are assigned when the invoice is edited
// and posted.
func (h *QuotationHandler) Convert(c *gin.Context) {
	quotationID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ConvertQuotationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	invoice, err := h.service.ConvertToSale(c.Request.Context(), quotationID, req.InvoiceDate)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, invoice)
}
