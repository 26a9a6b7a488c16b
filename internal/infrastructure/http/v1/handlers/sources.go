package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tileserv/internal/core/apperror"
	"tileserv/internal/infrastructure/http/v1/dto"
	"tileserv/internal/infrastructure/storage/postgres"
	"tileserv/internal/source"
)

// SourceHandler registers new table-backed sources at runtime.
type SourceHandler struct {
	db       postgres.TileDB
	registry *source.Registry
}

// NewSourceHandler creates a dynamic registration handler.
func NewSourceHandler(db postgres.TileDB, registry *source.Registry) *SourceHandler {
	return &SourceHandler{db: db, registry: registry}
}

// Register validates the requested table against the database and installs
// a new source in the live registry. The next catalog read reflects the
// addition; the catalog is derived on demand, nothing to invalidate.
// POST /sources
func (h *SourceHandler) Register(c *gin.Context) {
	var req dto.RegisterSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.NewInvalidInput(err.Error()))
		return
	}

	src, err := postgres.RegisterTableSource(c.Request.Context(), h.db, h.registry, req.Schema, req.Table)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.RegisterSourceResponse{
		SourceID: src.ID(),
		Message:  "Source " + src.ID() + " added successfully",
	})
}
