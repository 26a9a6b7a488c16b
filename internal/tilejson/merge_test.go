package tilejson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zoom(z uint8) *uint8 {
	return &z
}

func TestBoundsExtend(t *testing.T) {
	a := NewBounds(-10, -20, 10, 20)
	b := NewBounds(-20, -5, 5, 50)

	got := a.Extend(b)
	assert.Equal(t, NewBounds(-20, -20, 10, 50), got)

	// union is symmetric
	assert.Equal(t, got, b.Extend(a))
}

func TestBoundsValidate(t *testing.T) {
	assert.NoError(t, NewBounds(-10, -10, 10, 10).Validate())
	assert.Error(t, NewBounds(10, -10, -10, 10).Validate())
	assert.Error(t, NewBounds(-10, 10, 10, -10).Validate())
}

func TestMergeSingleSourceReplacesOnlyTilesURL(t *testing.T) {
	bounds := NewBounds(-10, -20, 10, 20)
	center := Center{Longitude: 1, Latitude: 2, Zoom: 5}
	doc := New()
	doc.Name = "layer1"
	doc.Description = "a layer"
	doc.Attribution = "© somebody"
	doc.MinZoom = zoom(5)
	doc.MaxZoom = zoom(10)
	doc.Bounds = &bounds
	doc.Center = &center
	doc.Tiles = []string{"http://old/{z}/{x}/{y}"}
	doc.VectorLayers = []VectorLayer{{ID: "layer1", Fields: map[string]string{"name": "String"}}}

	got := Merge([]TileJSON{doc}, "http://new/{z}/{x}/{y}")

	want := doc.Clone()
	want.Tiles = []string{"http://new/{z}/{x}/{y}"}
	assert.Equal(t, want, got)
}

func TestMergeTwoSources(t *testing.T) {
	b1 := NewBounds(-10, -20, 10, 20)
	s1 := New()
	s1.Name = "layer1"
	s1.MinZoom = zoom(5)
	s1.MaxZoom = zoom(10)
	s1.Bounds = &b1
	s1.VectorLayers = []VectorLayer{{ID: "one", Fields: map[string]string{}}}

	b2 := NewBounds(-20, -5, 5, 50)
	s2 := New()
	s2.Name = "layer2"
	s2.MinZoom = zoom(7)
	s2.MaxZoom = zoom(12)
	s2.Bounds = &b2
	s2.VectorLayers = []VectorLayer{{ID: "two", Fields: map[string]string{}}}

	got := Merge([]TileJSON{s1, s2}, "http://host/tiles/layer1,layer2/{z}/{x}/{y}")

	assert.Equal(t, []string{"http://host/tiles/layer1,layer2/{z}/{x}/{y}"}, got.Tiles)
	require.NotNil(t, got.MinZoom)
	require.NotNil(t, got.MaxZoom)
	assert.Equal(t, uint8(5), *got.MinZoom)
	assert.Equal(t, uint8(12), *got.MaxZoom)
	require.NotNil(t, got.Bounds)
	assert.Equal(t, NewBounds(-20, -20, 10, 50), *got.Bounds)
	assert.Equal(t, "layer1,layer2", got.Name)

	// vector layers concatenated in source order, never deduplicated
	require.Len(t, got.VectorLayers, 2)
	assert.Equal(t, "one", got.VectorLayers[0].ID)
	assert.Equal(t, "two", got.VectorLayers[1].ID)
}

func TestMergeDeduplicatesTextFields(t *testing.T) {
	s1 := New()
	s1.Attribution = "© OSM"
	s1.Description = "roads"

	s2 := New()
	s2.Attribution = "© OSM"
	s2.Description = "buildings"

	s3 := New()
	s3.Attribution = "© NASA"
	s3.Description = "roads"

	got := Merge([]TileJSON{s1, s2, s3}, "url")

	assert.Equal(t, "© OSM\n© NASA", got.Attribution)
	assert.Equal(t, "roads\nbuildings", got.Description)
}

func TestMergeFirstCenterWins(t *testing.T) {
	c2 := Center{Longitude: 10, Latitude: 20, Zoom: 3}
	c3 := Center{Longitude: -10, Latitude: -20, Zoom: 8}

	s1 := New()
	s2 := New()
	s2.Center = &c2
	s3 := New()
	s3.Center = &c3

	got := Merge([]TileJSON{s1, s2, s3}, "url")

	require.NotNil(t, got.Center)
	assert.Equal(t, c2, *got.Center)
}

func TestMergeAbsentFieldsStayAbsent(t *testing.T) {
	got := Merge([]TileJSON{New(), New()}, "url")

	assert.Empty(t, got.Name)
	assert.Empty(t, got.Description)
	assert.Empty(t, got.Attribution)
	assert.Nil(t, got.MinZoom)
	assert.Nil(t, got.MaxZoom)
	assert.Nil(t, got.Bounds)
	assert.Nil(t, got.Center)
	assert.Nil(t, got.VectorLayers)
}

func TestCloneIsDeep(t *testing.T) {
	bounds := NewBounds(-1, -1, 1, 1)
	doc := New()
	doc.MinZoom = zoom(3)
	doc.Bounds = &bounds
	doc.VectorLayers = []VectorLayer{{ID: "a", Fields: map[string]string{"k": "v"}}}

	clone := doc.Clone()
	*clone.MinZoom = 9
	clone.Bounds.West = -99
	clone.VectorLayers[0].Fields["k"] = "changed"

	assert.Equal(t, uint8(3), *doc.MinZoom)
	assert.Equal(t, float64(-1), doc.Bounds.West)
	assert.Equal(t, "v", doc.VectorLayers[0].Fields["k"])
}

func TestValidate(t *testing.T) {
	doc := New()
	doc.MinZoom = zoom(10)
	doc.MaxZoom = zoom(5)
	assert.Error(t, doc.Validate())

	doc.MinZoom = zoom(5)
	doc.MaxZoom = zoom(10)
	assert.NoError(t, doc.Validate())
}
