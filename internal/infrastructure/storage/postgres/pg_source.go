package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"tileserv/internal/core/apperror"
	"tileserv/internal/core/tile"
	"tileserv/internal/source"
	"tileserv/internal/tilejson"
	"tileserv/pkg/logger"
)

// SQLDescriptor is the immutable query record a TileSource executes.
// It is produced by discovery (or synthesized by dynamic registration) and
// consumed read-only here.
type SQLDescriptor struct {
	// SQL is the parameterized query text. Parameters are bound as
	// ($1 int2 zoom, $2 int8 x, $3 int8 y) plus a trailing json parameter
	// when UseURLQuery is set.
	SQL string

	// UseURLQuery marks queries that accept a caller-supplied JSON
	// parameter of URL query values.
	UseURLQuery bool

	// Signature is a human-readable description of the backing database
	// object, used in error messages.
	Signature string
}

// NewSQLDescriptor creates a query descriptor.
func NewSQLDescriptor(sql string, useURLQuery bool, signature string) SQLDescriptor {
	return SQLDescriptor{SQL: sql, UseURLQuery: useURLQuery, Signature: signature}
}

// TileSource serves tiles by executing a parameterized SQL query against a
// pooled connection. It implements source.Source and is safe for concurrent
// use: all state is immutable after construction except the shared pool.
type TileSource struct {
	id   string
	desc SQLDescriptor
	tj   tilejson.TileJSON
	pool ConnAcquirer
}

var _ source.Source = (*TileSource)(nil)

// NewTileSource creates a database-backed tile source.
func NewTileSource(id string, desc SQLDescriptor, tj tilejson.TileJSON, pool ConnAcquirer) *TileSource {
	return &TileSource{id: id, desc: desc, tj: tj, pool: pool}
}

// ID returns the source identifier, typically "schema.table_or_function".
func (s *TileSource) ID() string {
	return s.id
}

// TileJSON returns a copy of the source's metadata document.
func (s *TileSource) TileJSON() tilejson.TileJSON {
	return s.tj.Clone()
}

// TileInfo returns the payload fingerprint: uncompressed vector tiles.
func (s *TileSource) TileInfo() tile.Info {
	return tile.NewInfo(tile.FormatMVT, tile.EncodingUncompressed)
}

// SupportsURLQuery reports whether the query takes a JSON parameter of
// caller-supplied URL values.
func (s *TileSource) SupportsURLQuery() bool {
	return s.desc.UseURLQuery
}

// Descriptor returns the query descriptor.
func (s *TileSource) Descriptor() SQLDescriptor {
	return s.desc
}

// GetTile fetches the tile payload for a coordinate.
//
// An absent row or a NULL first column is the valid "no tile" response and
// yields an empty payload. Pool acquisition, statement preparation and
// execution failures are reported as distinct errors because each implies a
// different operator action.
func (s *TileSource) GetTile(ctx context.Context, coord tile.Coord, query source.URLQuery) ([]byte, error) {
	conn, err := s.pool.AcquireTileConn(ctx)
	if err != nil {
		return nil, apperror.NewPool(err)
	}
	defer conn.Release()

	sql := s.desc.SQL

	// pgx prepared statements are cached per connection and keyed by name;
	// using the query text as the name makes re-preparation idempotent even
	// after a source is re-registered with different SQL.
	if _, err := conn.Prepare(ctx, sql, sql); err != nil {
		return nil, apperror.NewPrepareQuery(err, s.id, s.desc.Signature, sql)
	}

	args := []any{int16(coord.Z), int64(coord.X), int64(coord.Y)}
	if s.desc.UseURLQuery {
		args = append(args, queryToJSON(query))
	}
	logger.Debug(ctx, "executing tile query", "source_id", s.id, "tile", coord.String())

	var data []byte
	err = conn.QueryRow(ctx, sql, args...).Scan(&data)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return []byte{}, nil
	case err != nil:
		if s.desc.UseURLQuery {
			return nil, apperror.NewGetTileWithQuery(err, s.id, coord, query)
		}
		return nil, apperror.NewGetTile(err, s.id, coord)
	}

	// data stays nil when the column is NULL, which is the same valid
	// "no tile" response as an absent row.
	return data, nil
}

// queryToJSON serializes URL query values to the JSON parameter the query
// expects. No caller-supplied values default to an empty object.
func queryToJSON(query source.URLQuery) json.RawMessage {
	if len(query) == 0 {
		return json.RawMessage("{}")
	}
	data, err := json.Marshal(query)
	if err != nil {
		return json.RawMessage("{}")
	}
	return data
}
