package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/domain/reports"
)

// ReportsHandler serves the financial and inventory reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// parsePeriod reads optional from/to query bounds. Zero bounds are
// filled from the configured financial year downstream.
func (h *ReportsHandler) parsePeriod(c *gin.Context) (reports.Period, bool) {
	var period reports.Period
	var ok bool

	if period.From, ok = h.ParseDateQuery(c, "from"); !ok {
		return period, false
	}
	if period.To, ok = h.ParseDateQuery(c, "to"); !ok {
		return period, false
	}
	return period, true
}

// ProfitAndLoss handles GET /profit-loss.
func (h *ReportsHandler) ProfitAndLoss(c *gin.Context) {
	period, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	report, err := h.service.ProfitAndLoss(c.Request.Context(), period)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// BalanceSheet handles GET /balance-sheet?asOf=YYYY-MM-DD.
func (h *ReportsHandler) BalanceSheet(c *gin.Context) {
	asOf, ok := h.ParseDateQuery(c, "asOf")
	if !ok {
		return
	}
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	report, err := h.service.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// GSTR1 handles GET /gstr1.
func (h *ReportsHandler) GSTR1(c *gin.Context) {
	period, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	report, err := h.service.GSTR1(c.Request.Context(), period)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// GSTR3B handles GET /gstr3b.
func (h *ReportsHandler) GSTR3B(c *gin.Context) {
	period, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	report, err := h.service.GSTR3B(c.Request.Context(), period)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// AccountStatement handles GET /account-statement/:partyId?kind=customer|supplier.
func (h *ReportsHandler) AccountStatement(c *gin.Context) {
	partyID, ok := h.ParseID(c, "partyId")
	if !ok {
		return
	}

	kind := reports.PartyKind(c.Query("kind"))
	if kind != reports.PartyCustomer && kind != reports.PartySupplier {
		h.Error(c, apperror.NewValidation("kind must be customer or supplier").
			WithDetail("param", "kind"))
		return
	}

	period, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	report, err := h.service.AccountStatement(c.Request.Context(), partyID, kind, period)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// ExpiringWarranties handles GET /expiring-warranties?daysAhead=30.
func (h *ReportsHandler) ExpiringWarranties(c *gin.Context) {
	rows, err := h.service.ExpiringWarranties(c.Request.Context(),
		h.ParseIntQuery(c, "daysAhead", 30))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, rows)
}

// LowStock handles GET /low-stock.
func (h *ReportsHandler) LowStock(c *gin.Context) {
	rows, err := h.service.LowStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, rows)
}

// CategoryStock handles GET /category-stock.
func (h *ReportsHandler) CategoryStock(c *gin.Context) {
	rows, err := h.service.CategoryStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, rows)
}
