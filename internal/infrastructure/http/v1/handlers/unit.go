package handlers

import (
	"github.com/gin-gonic/gin"

	"ledgerbook/internal/core/id"
	"ledgerbook/internal/domain/catalogs/unit"
)

// UnitHandler serves units of measure and compound unit conversions.
type UnitHandler struct {
	*CatalogHandler[*unit.Unit]
	service *unit.Service
}

// NewUnitHandler creates a new unit handler.
func NewUnitHandler(base *BaseHandler, service *unit.Service) *UnitHandler {
	return &UnitHandler{
		CatalogHandler: NewCatalogHandler[*unit.Unit](base, service, func() *unit.Unit { return &unit.Unit{} }),
		service:        service,
	}
}

// ListCompound handles GET /compound.
func (h *UnitHandler) ListCompound(c *gin.Context) {
	compounds, err := h.service.ListCompound(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, compounds)
}

// CreateCompound handles POST /compound.
func (h *UnitHandler) CreateCompound(c *gin.Context) {
	var cu unit.CompoundUnit
	if !h.BindJSON(c, &cu) {
		return
	}
	if id.IsNil(cu.ID) {
		cu.ID = id.New()
	}

	if err := h.service.CreateCompound(c.Request.Context(), &cu); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, cu.ID.String())
}

// DeleteCompound handles DELETE /compound/:id.
func (h *UnitHandler) DeleteCompound(c *gin.Context) {
	cuID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCompound(c.Request.Context(), cuID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
