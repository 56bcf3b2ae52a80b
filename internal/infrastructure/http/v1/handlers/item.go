package handlers

import (
	"github.com/gin-gonic/gin"

	"ledgerbook/internal/domain/catalogs/item"
)

// ItemHandler serves the item catalog.
type ItemHandler struct {
	*CatalogHandler[*item.Item]
	service *item.Service
}

// NewItemHandler creates a new item handler.
func NewItemHandler(base *BaseHandler, service *item.Service) *ItemHandler {
	return &ItemHandler{
		CatalogHandler: NewCatalogHandler[*item.Item](base, service, func() *item.Item { return &item.Item{} }),
		service:        service,
	}
}

// Categories handles GET /categories.
func (h *ItemHandler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, categories)
}
