package handlers

import (
	"github.com/gin-gonic/gin"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/domain/settings"
)

// SettingsHandler serves the application settings store.
type SettingsHandler struct {
	*BaseHandler
	service *settings.Service
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(base *BaseHandler, service *settings.Service) *SettingsHandler {
	return &SettingsHandler{BaseHandler: base, service: service}
}

// GetAll handles GET /.
func (h *SettingsHandler) GetAll(c *gin.Context) {
	values, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, values)
}

// SetAll handles PUT /. Keys absent from the body keep their values.
func (h *SettingsHandler) SetAll(c *gin.Context) {
	var values map[string]string
	if !h.BindJSON(c, &values) {
		return
	}
	if len(values) == 0 {
		h.Error(c, apperror.NewValidation("no settings provided"))
		return
	}

	if err := h.service.SetAll(c.Request.Context(), values); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "settings saved")
}
