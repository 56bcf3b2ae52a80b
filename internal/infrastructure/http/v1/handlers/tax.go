package handlers

import (
	"github.com/gin-gonic/gin"

	"ledgerbook/internal/core/id"
	"ledgerbook/internal/domain/catalogs/tax"
)

// TaxHandler serves GST slabs and HSN codes.
type TaxHandler struct {
	*BaseHandler
	service *tax.Service
}

// NewTaxHandler creates a new tax handler.
func NewTaxHandler(base *BaseHandler, service *tax.Service) *TaxHandler {
	return &TaxHandler{BaseHandler: base, service: service}
}

// ListSlabs handles GET /slabs.
func (h *TaxHandler) ListSlabs(c *gin.Context) {
	slabs, err := h.service.ListSlabs(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, slabs)
}

// CreateSlab handles POST /slabs.
func (h *TaxHandler) CreateSlab(c *gin.Context) {
	var slab tax.GSTSlab
	if !h.BindJSON(c, &slab) {
		return
	}
	if id.IsNil(slab.ID) {
		slab.ID = id.New()
	}

	if err := h.service.CreateSlab(c.Request.Context(), &slab); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, slab.ID.String())
}

// GetSlab handles GET /slabs/:id.
func (h *TaxHandler) GetSlab(c *gin.Context) {
	slabID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	slab, err := h.service.GetSlab(c.Request.Context(), slabID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, slab)
}

// DeleteSlab handles DELETE /slabs/:id. Fails when the slab is in use.
func (h *TaxHandler) DeleteSlab(c *gin.Context) {
	slabID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteSlab(c.Request.Context(), slabID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// ListHSN handles GET /hsn.
func (h *TaxHandler) ListHSN(c *gin.Context) {
	codes, err := h.service.ListHSN(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, codes)
}

// CreateHSN handles POST /hsn.
func (h *TaxHandler) CreateHSN(c *gin.Context) {
	var hsn tax.HSNCode
	if !h.BindJSON(c, &hsn) {
		return
	}
	if id.IsNil(hsn.ID) {
		hsn.ID = id.New()
	}

	if err := h.service.CreateHSN(c.Request.Context(), &hsn); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, hsn.ID.String())
}

// GetHSN handles GET /hsn/:id.
func (h *TaxHandler) GetHSN(c *gin.Context) {
	hsnID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	hsn, err := h.service.GetHSN(c.Request.Context(), hsnID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, hsn)
}

// UpdateHSN handles PUT /hsn/:id.
func (h *TaxHandler) UpdateHSN(c *gin.Context) {
	hsnID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	hsn, err := h.service.GetHSN(c.Request.Context(), hsnID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if !h.BindJSON(c, hsn) {
		return
	}
	hsn.ID = hsnID

	if err := h.service.UpdateHSN(c.Request.Context(), hsn); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, hsn)
}

// DeleteHSN handles DELETE /hsn/:id. Fails when the code is in use.
func (h *TaxHandler) DeleteHSN(c *gin.Context) {
	hsnID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteHSN(c.Request.Context(), hsnID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
