package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tileserv/internal/source"
)

// CatalogHandler serves the derived listing of all registered sources.
type CatalogHandler struct {
	registry *source.Registry
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(registry *source.Registry) *CatalogHandler {
	return &CatalogHandler{registry: registry}
}

// Get returns the catalog keyed by source id, in lexicographic id order.
// GET /catalog
func (h *CatalogHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tiles": h.registry.Catalog(),
	})
}
