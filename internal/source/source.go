// Package source defines the tile producer contract and the live registry
// of producers the engine serves from.
package source

import (
	"context"

	"tileserv/internal/core/tile"
	"tileserv/internal/tilejson"
)

// URLQuery holds caller-supplied key/value parameters forwarded to
// producers that support them.
type URLQuery map[string]string

// Source is the contract every tile producer satisfies. The registry and
// the merge path treat producers uniformly through this interface.
//
// Implementations must be safe for concurrent use: the registry hands the
// same instance to every in-flight request, and a producer shares its
// pooled-connection handle across them.
type Source interface {
	// ID returns the stable source identifier, never empty.
	ID() string

	// TileJSON returns a copy of the producer's metadata document.
	// The document is internally consistent (zoom ordering, bounds shape).
	TileJSON() tilejson.TileJSON

	// TileInfo returns the payload's format fingerprint.
	TileInfo() tile.Info

	// SupportsURLQuery reports whether the producer consumes
	// caller-supplied URL parameters in addition to the coordinate.
	SupportsURLQuery() bool

	// GetTile returns the raw tile payload for the coordinate.
	// An empty payload is the valid representation of "no tile here".
	GetTile(ctx context.Context, coord tile.Coord, query URLQuery) ([]byte, error)
}

// ZoomIsValid reports whether the source serves the given zoom: true when
// the metadata has no bound on that side, or zoom falls within the range.
func ZoomIsValid(src Source, zoom uint8) bool {
	tj := src.TileJSON()
	if tj.MinZoom != nil && zoom < *tj.MinZoom {
		return false
	}
	if tj.MaxZoom != nil && zoom > *tj.MaxZoom {
		return false
	}
	return true
}

// CatalogEntry is the public, derived projection of a source. It is
// recomputed from the live source on every catalog read and never persisted,
// so it cannot drift from the source it describes.
type CatalogEntry struct {
	ContentType     string `json:"content_type"`
	ContentEncoding string `json:"content_encoding,omitempty"`
	Name            string `json:"name,omitempty"`
	Description     string `json:"description,omitempty"`
	Attribution     string `json:"attribution,omitempty"`
}

// NewCatalogEntry derives the catalog projection of a source.
// The display name is suppressed when it is identical to the id.
func NewCatalogEntry(src Source) CatalogEntry {
	tj := src.TileJSON()
	info := src.TileInfo()

	name := tj.Name
	if name == src.ID() {
		name = ""
	}

	return CatalogEntry{
		ContentType:     info.Format.ContentType(),
		ContentEncoding: info.Encoding.ContentEncoding(),
		Name:            name,
		Description:     tj.Description,
		Attribution:     tj.Attribution,
	}
}
