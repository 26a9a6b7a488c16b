package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"tileserv/internal/tilejson"
	"tileserv/pkg/logger"
)

// webMercatorSRID is the projection tiles are generated in.
const webMercatorSRID = 3857

// tileExtent is the MVT coordinate space resolution per tile.
const tileExtent = 4096

// psql returns a squirrel builder with PostgreSQL placeholders.
func psql() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// geomTable describes one discovered spatial table.
type geomTable struct {
	Schema     string `db:"schema"`
	Table      string `db:"table"`
	GeomColumn string `db:"geom_column"`
	SRID       int    `db:"srid"`
}

// DiscoverTableSources finds spatial tables via geometry_columns and builds
// a tile source for each. The generated query clips rows to the requested
// tile envelope and encodes them with ST_AsMVT.
func DiscoverTableSources(ctx context.Context, pool *Pool) ([]*TileSource, error) {
	sql, args, err := psql().
		Select(
			`f_table_schema AS "schema"`,
			`f_table_name AS "table"`,
			"f_geometry_column AS geom_column",
			"srid",
		).
		From("geometry_columns").
		Where(squirrel.Gt{"srid": 0}).
		OrderBy("f_table_schema", "f_table_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build discovery query: %w", err)
	}

	var tables []geomTable
	if err := pgxscan.Select(ctx, pool.Unwrap(), &tables, sql, args...); err != nil {
		return nil, fmt.Errorf("discover spatial tables: %w", err)
	}

	sources := make([]*TileSource, 0, len(tables))
	for _, t := range tables {
		src := newTableSource(t, pool)
		logger.Info(ctx, "discovered table source",
			"source_id", src.ID(),
			"geometry_column", t.GeomColumn,
			"srid", t.SRID,
		)
		sources = append(sources, src)
	}
	return sources, nil
}

// newTableSource builds the MVT query and metadata for a discovered table.
func newTableSource(t geomTable, pool ConnAcquirer) *TileSource {
	id := fmt.Sprintf("%s.%s", t.Schema, t.Table)
	rel := pgx.Identifier{t.Schema, t.Table}.Sanitize()
	geom := pgx.Identifier{t.GeomColumn}.Sanitize()

	sql := fmt.Sprintf(`
SELECT ST_AsMVT(tile, %s, %d, 'geom')
FROM (
  SELECT ST_AsMVTGeom(
           ST_Transform(%s, %d),
           ST_TileEnvelope($1::integer, $2::integer, $3::integer),
           %d, 64, true
         ) AS geom
  FROM %s
  WHERE %s && ST_Transform(ST_TileEnvelope($1::integer, $2::integer, $3::integer), %d)
) AS tile
WHERE geom IS NOT NULL`,
		quoteLiteral(id), tileExtent, geom, webMercatorSRID, tileExtent, rel, geom, t.SRID)

	tj := tilejson.New()
	tj.Name = id
	tj.Description = fmt.Sprintf("%s.%s.%s", t.Schema, t.Table, t.GeomColumn)
	tj.VectorLayers = []tilejson.VectorLayer{
		{ID: id, Fields: map[string]string{}},
	}

	signature := fmt.Sprintf("%s.%s(%s)", t.Schema, t.Table, t.GeomColumn)
	return NewTileSource(id, NewSQLDescriptor(sql, false, signature), tj, pool)
}

// quoteLiteral renders a string as a SQL literal for the layer name
// embedded in the generated query text.
func quoteLiteral(s string) string {
	out := []byte{'\''}
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, '\'')
		}
		out = append(out, s[i])
	}
	return string(append(out, '\''))
}

// TableExists checks whether schema.table exists in the database.
func TableExists(ctx context.Context, db RowQuerier, schema, table string) (bool, error) {
	sql, args, err := psql().
		Select("1").
		From("information_schema.tables").
		Where(squirrel.Eq{"table_schema": schema, "table_name": table}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build existence query: %w", err)
	}

	var one int
	err = db.QueryRow(ctx, sql, args...).Scan(&one)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("check %s.%s: %w", schema, table, err)
	}
	return true, nil
}
