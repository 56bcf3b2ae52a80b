package handlers

import (
	"github.com/gin-gonic/gin"

	"ledgerbook/internal/domain/inventory"
)

// InventoryHandler serves serial lookups and the assembly builder.
type InventoryHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(base *BaseHandler, service *inventory.Service) *InventoryHandler {
	return &InventoryHandler{BaseHandler: base, service: service}
}

// Get handles GET /serials/:id.
func (h *InventoryHandler) Get(c *gin.Context) {
	serialID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	serial, err := h.service.GetByID(c.Request.Context(), serialID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, serial)
}

// GetByNumber handles GET /serials/by-number/:number.
func (h *InventoryHandler) GetByNumber(c *gin.Context) {
	serial, err := h.service.GetBySerialNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, serial)
}

// Search handles GET /serials?search=...&limit=...
func (h *InventoryHandler) Search(c *gin.Context) {
	serials, err := h.service.Search(c.Request.Context(),
		c.Query("search"), h.ParseIntQuery(c, "limit", 50))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, serials)
}

// AvailableForItem handles GET /serials/available?itemId=...
func (h *InventoryHandler) AvailableForItem(c *gin.Context) {
	itemID, ok := h.parseQueryID(c, "itemId")
	if !ok {
		return
	}

	serials, err := h.service.AvailableForItem(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, serials)
}

// Components handles GET /assemblies/components.
func (h *InventoryHandler) Components(c *gin.Context) {
	components, err := h.service.InStockComponents(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, components)
}

// Build handles POST /assemblies.
func (h *InventoryHandler) Build(c *gin.Context) {
	var input inventory.BuildInput
	if !h.BindJSON(c, &input) {
		return
	}

	serial, err := h.service.Build(c.Request.Context(), input)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, serial)
}
