// Package handlers provides HTTP request handlers.
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tileserv/internal/core/apperror"
	"tileserv/internal/core/tile"
	"tileserv/internal/source"
	"tileserv/internal/tilejson"
)

// TileHandler serves tile bytes and merged TileJSON documents.
type TileHandler struct {
	registry *source.Registry
}

// NewTileHandler creates a tile handler over the live registry.
func NewTileHandler(registry *source.Registry) *TileHandler {
	return &TileHandler{registry: registry}
}

// GetTile handles a tile fetch for one or more sources.
// GET /tiles/:source_ids/:z/:x/:y
//
// Metadata merges across all requested sources, but tile bytes come from a
// single resolved producer per request: the first one the zoom filter keeps.
func (h *TileHandler) GetTile(c *gin.Context) {
	coord, err := parseCoord(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	zoom := coord.Z
	resolved, err := h.registry.Resolve(c.Request.Context(), c.Param("source_ids"), &zoom)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if len(resolved.Sources) == 0 {
		_ = c.Error(apperror.NewTilesNotFound(c.Param("source_ids"), zoom))
		return
	}

	src := resolved.Sources[0]

	var query source.URLQuery
	if resolved.UseURLQuery {
		query = flattenQuery(c)
	}

	data, err := src.GetTile(c.Request.Context(), coord, query)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if len(data) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	if enc := resolved.Info.Encoding.ContentEncoding(); enc != "" {
		c.Header("Content-Encoding", enc)
	}
	c.Data(http.StatusOK, resolved.Info.Format.ContentType(), data)
}

// GetTileJSON handles a merged metadata request.
// GET /tiles/:source_ids
func (h *TileHandler) GetTileJSON(c *gin.Context) {
	resolved, err := h.registry.Resolve(c.Request.Context(), c.Param("source_ids"), nil)
	if err != nil {
		_ = c.Error(err)
		return
	}

	docs := make([]tilejson.TileJSON, 0, len(resolved.Sources))
	for _, src := range resolved.Sources {
		docs = append(docs, src.TileJSON())
	}

	c.JSON(http.StatusOK, tilejson.Merge(docs, tilesURL(c)))
}

// tilesURL builds the coordinate-template URL clients will fetch tiles
// from, preserving the caller's scheme, host and query string.
func tilesURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	host := c.Request.Host
	if fwd := c.GetHeader("X-Forwarded-Host"); fwd != "" {
		host = fwd
	}

	url := fmt.Sprintf("%s://%s%s/{z}/{x}/{y}", scheme, host, c.Request.URL.Path)
	if qs := c.Request.URL.RawQuery; qs != "" {
		url += "?" + qs
	}
	return url
}

// parseCoord reads and validates the z/x/y path parameters.
func parseCoord(c *gin.Context) (tile.Coord, error) {
	z, err := strconv.ParseUint(c.Param("z"), 10, 8)
	if err != nil {
		return tile.Coord{}, apperror.NewInvalidInput("invalid zoom: " + c.Param("z"))
	}
	x, err := strconv.ParseUint(c.Param("x"), 10, 32)
	if err != nil {
		return tile.Coord{}, apperror.NewInvalidInput("invalid tile column: " + c.Param("x"))
	}
	y, err := strconv.ParseUint(c.Param("y"), 10, 32)
	if err != nil {
		return tile.Coord{}, apperror.NewInvalidInput("invalid tile row: " + c.Param("y"))
	}
	return tile.Coord{Z: uint8(z), X: uint32(x), Y: uint32(y)}, nil
}

// flattenQuery keeps the first value of each URL query key.
func flattenQuery(c *gin.Context) source.URLQuery {
	values := c.Request.URL.Query()
	if len(values) == 0 {
		return nil
	}
	query := make(source.URLQuery, len(values))
	for k, v := range values {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}
	return query
}
