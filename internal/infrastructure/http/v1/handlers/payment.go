package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
	"ledgerbook/internal/domain/payments"
	"ledgerbook/internal/infrastructure/http/v1/dto"
	"ledgerbook/internal/infrastructure/storage/postgres"
)

// PaymentHandler records customer receipts and supplier payments.
type PaymentHandler struct {
	*BaseHandler
	service *payments.Service
	audit   *postgres.AuditService
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(base *BaseHandler, service *payments.Service, audit *postgres.AuditService) *PaymentHandler {
	return &PaymentHandler{BaseHandler: base, service: service, audit: audit}
}

type recordPaymentRequest struct {
	PartyID     id.ID                 `json:"partyId"`
	Date        time.Time             `json:"date"`
	Amount      types.Money           `json:"amount"`
	Notes       string                `json:"notes"`
	Allocations []payments.Allocation `json:"allocations"`
}

func (r *recordPaymentRequest) toPayment(kind payments.PartyKind) *payments.Payment {
	p := payments.NewPayment(kind, r.PartyID, r.Date, r.Amount)
	p.Notes = r.Notes
	p.Allocations = r.Allocations
	return p
}

// CreateCustomer handles POST /customer.
func (h *PaymentHandler) CreateCustomer(c *gin.Context) {
	h.create(c, payments.PartyCustomer)
}

// CreateSupplier handles POST /supplier.
func (h *PaymentHandler) CreateSupplier(c *gin.Context) {
	h.create(c, payments.PartySupplier)
}

func (h *PaymentHandler) create(c *gin.Context, kind payments.PartyKind) {
	var req recordPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := req.toPayment(kind)
	p.CreatedBy = h.GetUserID(c)

	var err error
	if kind == payments.PartyCustomer {
		err = h.service.RecordCustomerPayment(c.Request.Context(), p)
	} else {
		err = h.service.RecordSupplierPayment(c.Request.Context(), p)
	}
	if err != nil {
		h.Error(c, err)
		return
	}

	auditCreate(c.Request.Context(), h.audit, "payment", p.ID, map[string]any{
		"kind":   string(p.Kind),
		"amount": p.Amount.StringFixed(2),
	})

	h.Created(c, p.ID.String())
}

type validateAllocationsRequest struct {
	Kind        payments.PartyKind    `json:"kind"`
	PartyID     id.ID                 `json:"partyId"`
	Amount      types.Money           `json:"amount"`
	Allocations []payments.Allocation `json:"allocations"`
}

// ValidateAllocations handles POST /validate-allocations. It runs the
// allocation bounds check against the party's open invoices without
// recording anything, so clients can reject a bad split up front.
func (h *PaymentHandler) ValidateAllocations(c *gin.Context) {
	var req validateAllocationsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	accepted, err := h.service.PreviewAllocations(c.Request.Context(),
		req.Kind, req.PartyID, req.Amount, req.Allocations)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"allocations": accepted})
}

// OpenInvoices handles GET /open-invoices. It lists a party's unpaid
// invoices as allocation targets.
func (h *PaymentHandler) OpenInvoices(c *gin.Context) {
	partyID, ok := h.parseQueryID(c, "partyId")
	if !ok {
		return
	}

	open, err := h.service.OpenInvoices(c.Request.Context(),
		payments.PartyKind(c.Query("kind")), partyID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, open)
}

// Get handles GET /:id.
func (h *PaymentHandler) Get(c *gin.Context) {
	paymentID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), paymentID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// List handles GET /.
func (h *PaymentHandler) List(c *gin.Context) {
	filter := payments.ListFilter{
		Kind:   payments.PartyKind(c.Query("kind")),
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if raw := c.Query("partyId"); raw != "" {
		partyID, ok := h.parseQueryID(c, "partyId")
		if !ok {
			return
		}
		filter.PartyID = &partyID
	}

	var ok bool
	if filter.DateFrom, ok = h.parseDatePtr(c, "dateFrom"); !ok {
		return
	}
	if filter.DateTo, ok = h.parseDatePtr(c, "dateTo"); !ok {
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
