package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"ledgerbook/internal/core/id"
	"ledgerbook/internal/infrastructure/storage/postgres"
	"ledgerbook/pkg/logger"
)

// AuditHandler exposes the audit trail of an entity.
type AuditHandler struct {
	*BaseHandler
	audit *postgres.AuditService
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, audit *postgres.AuditService) *AuditHandler {
	return &AuditHandler{BaseHandler: base, audit: audit}
}

// History handles GET /:entityType/:entityId.
func (h *AuditHandler) History(c *gin.Context) {
	entityID, ok := h.ParseID(c, "entityId")
	if !ok {
		return
	}

	entries, err := h.audit.GetEntityHistory(c.Request.Context(),
		c.Param("entityType"), entityID, h.ParseIntQuery(c, "limit", 100))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, entries)
}

// auditCreate records a create action on the audit trail. An audit
// failure is logged but never fails the request.
func auditCreate(ctx context.Context, audit *postgres.AuditService, entityType string, entityID id.ID, changes map[string]any) {
	if audit == nil {
		return
	}
	if err := audit.LogChange(ctx, entityType, entityID, postgres.AuditActionCreate, changes); err != nil {
		logger.Warn(ctx, "audit log failed", "entity_type", entityType, "error", err)
	}
}
