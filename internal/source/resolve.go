package source

import (
	"context"
	"strings"

	"tileserv/internal/core/apperror"
	"tileserv/internal/core/tile"
	"tileserv/pkg/logger"
)

// Resolved is the outcome of resolving a comma-separated id list: the
// producers to query in caller order, whether any of them consumes URL
// query parameters, and the single format fingerprint they all share.
type Resolved struct {
	Sources     []Source
	UseURLQuery bool
	Info        tile.Info
}

// Resolve validates a comma-separated id list against the registry.
//
// Any unknown id aborts the whole request with NotFound. The first source
// establishes the format fingerprint; every subsequent source must match it
// exactly or the request fails with MergeConflict naming both fingerprints.
// The fingerprint of every named source is checked, including sources that
// the zoom filter later drops.
//
// When zoom is non-nil, sources that do not serve it are dropped without
// error, preserving the relative order of the rest.
func (r *Registry) Resolve(ctx context.Context, sourceIDs string, zoom *uint8) (Resolved, error) {
	if sourceIDs == "" {
		return Resolved{}, apperror.NewInvalidInput("no source ids specified")
	}

	var resolved Resolved
	var info *tile.Info

	for _, id := range strings.Split(sourceIDs, ",") {
		src, err := r.Lookup(id)
		if err != nil {
			return Resolved{}, err
		}

		resolved.UseURLQuery = resolved.UseURLQuery || src.SupportsURLQuery()

		srcInfo := src.TileInfo()
		if info == nil {
			info = &srcInfo
		} else if *info != srcInfo {
			return Resolved{}, apperror.NewMergeConflict(*info, srcInfo)
		}

		if zoom != nil && !ZoomIsValid(src, *zoom) {
			logger.Debug(ctx, "zoom is not valid for source", "source_id", id, "zoom", *zoom)
			continue
		}
		resolved.Sources = append(resolved.Sources, src)
	}

	// info is non-nil here: the id list was non-empty and every lookup succeeded.
	resolved.Info = *info
	return resolved, nil
}
