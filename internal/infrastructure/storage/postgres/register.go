package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tileserv/internal/core/apperror"
	"tileserv/internal/source"
	"tileserv/internal/tilejson"
	"tileserv/pkg/logger"
)

// Default zoom range for sources registered without introspection.
const (
	defaultMinZoom uint8 = 0
	defaultMaxZoom uint8 = 22
)

// RegisterTableSource adds a table-backed source to the live registry
// without a restart. The table must exist; absence is a client error and
// the registry is left untouched.
//
// The synthesized metadata and query are placeholders pending a real
// introspection pass: full zoom range, no bounds, SELECT * over the table,
// no URL query support. They are deliberately weaker than what discovery
// produces for statically configured sources.
func RegisterTableSource(ctx context.Context, db TileDB, reg *source.Registry, schema, table string) (*TileSource, error) {
	exists, err := TableExists(ctx, db, schema, table)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if !exists {
		return nil, apperror.NewBadRequest(
			fmt.Sprintf("Source %s.%s does not exist in the database", schema, table))
	}

	id := fmt.Sprintf("%s.%s", schema, table)

	minZoom, maxZoom := defaultMinZoom, defaultMaxZoom
	tj := tilejson.New()
	tj.Name = table
	tj.Description = fmt.Sprintf("Dynamic source added: %s.%s", schema, table)
	tj.Version = "1.0.0"
	tj.MinZoom = &minZoom
	tj.MaxZoom = &maxZoom

	sql := fmt.Sprintf("SELECT * FROM %s", pgx.Identifier{schema, table}.Sanitize())
	src := NewTileSource(id, NewSQLDescriptor(sql, false, ""), tj, db)

	reg.Insert(id, src)
	logger.Warn(ctx, "registered uninspected table source",
		"source_id", id,
		"sql", sql,
	)
	return src, nil
}
