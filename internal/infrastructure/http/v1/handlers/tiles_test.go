package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tileserv/internal/core/tile"
	"tileserv/internal/infrastructure/http/v1/middleware"
	"tileserv/internal/source"
	"tileserv/internal/tilejson"
)

type stubSource struct {
	id   string
	tj   tilejson.TileJSON
	data []byte
}

func (s *stubSource) ID() string { return s.id }
func (s *stubSource) TileJSON() tilejson.TileJSON { return s.tj.Clone() }
func (s *stubSource) SupportsURLQuery() bool { return false }

func (s *stubSource) TileInfo() tile.Info {
	return tile.NewInfo(tile.FormatMVT, tile.EncodingUncompressed)
}

func (s *stubSource) GetTile(_ context.Context, _ tile.Coord, _ source.URLQuery) ([]byte, error) {
	return s.data, nil
}

func newTestRouter(t *testing.T, sources ...source.Source) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg, err := source.Build(sources)
	require.NoError(t, err)

	router := gin.New()
	router.Use(middleware.ErrorHandler())

	h := NewTileHandler(reg)
	router.GET("/tiles/:source_ids", h.GetTileJSON)
	router.GET("/tiles/:source_ids/:z/:x/:y", h.GetTile)
	return router
}

func TestGetTileServesBytes(t *testing.T) {
	src := &stubSource{id: "public.roads", tj: tilejson.New(), data: []byte{0x1a, 0x02}}
	router := newTestRouter(t, src)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tiles/public.roads/0/0/0", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/x-protobuf", w.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0x1a, 0x02}, w.Body.Bytes())
}

func TestGetTileEmptyPayloadIsNoContent(t *testing.T) {
	src := &stubSource{id: "public.empty", tj: tilejson.New()}
	router := newTestRouter(t, src)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tiles/public.empty/3/1/2", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestGetTileUnknownSource(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tiles/missing/0/0/0", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestGetTileInvalidCoordinate(t *testing.T) {
	src := &stubSource{id: "public.roads", tj: tilejson.New()}
	router := newTestRouter(t, src)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tiles/public.roads/999/0/0", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTileZoomOutOfRangeIsNotFound(t *testing.T) {
	maxZoom := uint8(4)
	tj := tilejson.New()
	tj.MaxZoom = &maxZoom
	src := &stubSource{id: "public.low", tj: tj, data: []byte{0x01}}
	router := newTestRouter(t, src)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tiles/public.low/9/0/0", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTileJSONBuildsTilesURL(t *testing.T) {
	tj := tilejson.New()
	tj.Name = "roads"
	src := &stubSource{id: "public.roads", tj: tj}
	router := newTestRouter(t, src)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "http://tiles.example.com/tiles/public.roads?filter=a", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var doc tilejson.TileJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	require.Len(t, doc.Tiles, 1)
	assert.Equal(t, "http://tiles.example.com/tiles/public.roads/{z}/{x}/{y}?filter=a", doc.Tiles[0])
	assert.Equal(t, "roads", doc.Name)
}

func TestGetTileJSONHonorsForwardedHeaders(t *testing.T) {
	src := &stubSource{id: "public.roads", tj: tilejson.New()}
	router := newTestRouter(t, src)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "http://10.0.0.5:3000/tiles/public.roads", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("X-Forwarded-Host", "tiles.example.com")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var doc tilejson.TileJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	require.Len(t, doc.Tiles, 1)
	assert.Equal(t, "https://tiles.example.com/tiles/public.roads/{z}/{x}/{y}", doc.Tiles[0])
}

func TestGetTileJSONMergesSources(t *testing.T) {
	min1, max1 := uint8(5), uint8(10)
	tj1 := tilejson.New()
	tj1.Name = "layer1"
	tj1.MinZoom, tj1.MaxZoom = &min1, &max1

	min2, max2 := uint8(7), uint8(12)
	tj2 := tilejson.New()
	tj2.Name = "layer2"
	tj2.MinZoom, tj2.MaxZoom = &min2, &max2

	router := newTestRouter(t,
		&stubSource{id: "a", tj: tj1},
		&stubSource{id: "b", tj: tj2},
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tiles/a,b", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var doc tilejson.TileJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "layer1,layer2", doc.Name)
	require.NotNil(t, doc.MinZoom)
	require.NotNil(t, doc.MaxZoom)
	assert.Equal(t, uint8(5), *doc.MinZoom)
	assert.Equal(t, uint8(12), *doc.MaxZoom)
}
