package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/domain/ledger"
	"ledgerbook/internal/infrastructure/http/v1/dto"
)

// LedgerHandler serves the chart of accounts, the transaction journal
// and cash reconciliation.
type LedgerHandler struct {
	*BaseHandler
	engine *ledger.Engine
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(base *BaseHandler, engine *ledger.Engine) *LedgerHandler {
	return &LedgerHandler{BaseHandler: base, engine: engine}
}

// ListAccounts handles GET /accounts.
func (h *LedgerHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.engine.Accounts(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, accounts)
}

// CreateAccount handles POST /accounts.
func (h *LedgerHandler) CreateAccount(c *gin.Context) {
	var acc ledger.Account
	if !h.BindJSON(c, &acc) {
		return
	}
	acc.EnsureID()

	if err := h.engine.CreateAccount(c.Request.Context(), &acc); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, acc.ID.String())
}

// GetAccount handles GET /accounts/:id.
func (h *LedgerHandler) GetAccount(c *gin.Context) {
	accountID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	acc, err := h.engine.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, acc)
}

// ListTransactions handles GET /transactions.
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	filter := ledger.TransactionFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if raw := c.Query("types"); raw != "" {
		filter.Types = strings.Split(raw, ",")
	}
	if raw := c.Query("referenceId"); raw != "" {
		refID, ok := h.parseQueryID(c, "referenceId")
		if !ok {
			return
		}
		filter.ReferenceID = &refID
	}

	var ok bool
	if filter.DateFrom, ok = h.parseDatePtr(c, "dateFrom"); !ok {
		return
	}
	if filter.DateTo, ok = h.parseDatePtr(c, "dateTo"); !ok {
		return
	}

	result, err := h.engine.ListTransactions(c.Request.Context(), filter)
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

// GetTransaction handles GET /transactions/:id.
func (h *LedgerHandler) GetTransaction(c *gin.Context) {
	txnID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	txn, err := h.engine.GetTransaction(c.Request.Context(), txnID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, txn)
}

// Post handles POST /transactions for manual journal entries.
func (h *LedgerHandler) Post(c *gin.Context) {
	var input ledger.PostInput
	if !h.BindJSON(c, &input) {
		return
	}

	txn, err := h.engine.Post(c.Request.Context(), input)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, txn)
}

// UnreconciledCash handles GET /reconciliation/unreconciled.
func (h *LedgerHandler) UnreconciledCash(c *gin.Context) {
	entries, err := h.engine.UnreconciledCash(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, entries)
}

type reconcileRequest struct {
	TransactionIDs []id.ID   `json:"transactionIds"`
	Date           time.Time `json:"date"`
}

// Reconcile handles POST /reconciliation.
func (h *LedgerHandler) Reconcile(c *gin.Context) {
	var req reconcileRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if len(req.TransactionIDs) == 0 {
		h.Error(c, apperror.NewValidation("at least one transaction is required").
			WithDetail("field", "transactionIds"))
		return
	}

	if err := h.engine.Reconcile(c.Request.Context(), req.TransactionIDs, req.Date); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "transactions reconciled")
}
