// Package tilejson implements the TileJSON 2.2.0 metadata document and
// the merge rules for describing several sources as one endpoint.
package tilejson

import (
	"encoding/json"
	"fmt"
)

// Version is the TileJSON spec version written into every document.
const Version = "2.2.0"

// TileJSON is a TileJSON 2.2.0 metadata document.
// Zero-valued string fields and nil pointers are treated as absent.
type TileJSON struct {
	TileJSON     string        `json:"tilejson"`
	Name         string        `json:"name,omitempty"`
	Description  string        `json:"description,omitempty"`
	Version      string        `json:"version,omitempty"`
	Attribution  string        `json:"attribution,omitempty"`
	Template     string        `json:"template,omitempty"`
	Legend       string        `json:"legend,omitempty"`
	Scheme       string        `json:"scheme,omitempty"`
	Tiles        []string      `json:"tiles"`
	Grids        []string      `json:"grids,omitempty"`
	Data         []string      `json:"data,omitempty"`
	MinZoom      *uint8        `json:"minzoom,omitempty"`
	MaxZoom      *uint8        `json:"maxzoom,omitempty"`
	FillZoom     *uint8        `json:"fillzoom,omitempty"`
	Bounds       *Bounds       `json:"bounds,omitempty"`
	Center       *Center       `json:"center,omitempty"`
	VectorLayers []VectorLayer `json:"vector_layers,omitempty"`
}

// New returns an empty document with the spec version set.
func New() TileJSON {
	return TileJSON{TileJSON: Version}
}

// Clone returns a deep copy of the document.
func (tj TileJSON) Clone() TileJSON {
	out := tj
	out.Tiles = append([]string(nil), tj.Tiles...)
	out.Grids = append([]string(nil), tj.Grids...)
	out.Data = append([]string(nil), tj.Data...)
	out.MinZoom = cloneZoom(tj.MinZoom)
	out.MaxZoom = cloneZoom(tj.MaxZoom)
	out.FillZoom = cloneZoom(tj.FillZoom)
	if tj.Bounds != nil {
		b := *tj.Bounds
		out.Bounds = &b
	}
	if tj.Center != nil {
		c := *tj.Center
		out.Center = &c
	}
	if tj.VectorLayers != nil {
		out.VectorLayers = make([]VectorLayer, len(tj.VectorLayers))
		for i, vl := range tj.VectorLayers {
			out.VectorLayers[i] = vl.Clone()
		}
	}
	return out
}

// Validate checks internal consistency: zoom ordering and bounds shape.
func (tj TileJSON) Validate() error {
	if tj.MinZoom != nil && tj.MaxZoom != nil && *tj.MinZoom > *tj.MaxZoom {
		return fmt.Errorf("minzoom %d is greater than maxzoom %d", *tj.MinZoom, *tj.MaxZoom)
	}
	if tj.Bounds != nil {
		if err := tj.Bounds.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func cloneZoom(z *uint8) *uint8 {
	if z == nil {
		return nil
	}
	v := *z
	return &v
}

// Bounds is a geographic rectangle in [west, south, east, north] order.
type Bounds struct {
	West  float64
	South float64
	East  float64
	North float64
}

// NewBounds creates bounds from west/south/east/north.
func NewBounds(west, south, east, north float64) Bounds {
	return Bounds{West: west, South: south, East: east, North: north}
}

// Validate checks that the bounds form a valid rectangle.
func (b Bounds) Validate() error {
	if b.West > b.East || b.South > b.North {
		return fmt.Errorf("invalid bounds [%g, %g, %g, %g]", b.West, b.South, b.East, b.North)
	}
	return nil
}

// Extend returns the smallest rectangle containing both b and other.
func (b Bounds) Extend(other Bounds) Bounds {
	out := b
	if other.West < out.West {
		out.West = other.West
	}
	if other.South < out.South {
		out.South = other.South
	}
	if other.East > out.East {
		out.East = other.East
	}
	if other.North > out.North {
		out.North = other.North
	}
	return out
}

// MarshalJSON encodes bounds as the TileJSON array form.
func (b Bounds) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{b.West, b.South, b.East, b.North})
}

// UnmarshalJSON decodes bounds from the TileJSON array form.
func (b *Bounds) UnmarshalJSON(data []byte) error {
	var arr [4]float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	b.West, b.South, b.East, b.North = arr[0], arr[1], arr[2], arr[3]
	return nil
}

// Center is the default map view: longitude, latitude and zoom.
type Center struct {
	Longitude float64
	Latitude  float64
	Zoom      uint8
}

// MarshalJSON encodes the center as the TileJSON array form.
func (c Center) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{c.Longitude, c.Latitude, float64(c.Zoom)})
}

// UnmarshalJSON decodes the center from the TileJSON array form.
func (c *Center) UnmarshalJSON(data []byte) error {
	var arr [3]float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	c.Longitude, c.Latitude, c.Zoom = arr[0], arr[1], uint8(arr[2])
	return nil
}

// VectorLayer describes one layer of a vector tile source.
type VectorLayer struct {
	ID          string            `json:"id"`
	Fields      map[string]string `json:"fields"`
	Description string            `json:"description,omitempty"`
	MinZoom     *uint8            `json:"minzoom,omitempty"`
	MaxZoom     *uint8            `json:"maxzoom,omitempty"`
}

// Clone returns a deep copy of the layer descriptor.
func (vl VectorLayer) Clone() VectorLayer {
	out := vl
	if vl.Fields != nil {
		out.Fields = make(map[string]string, len(vl.Fields))
		for k, v := range vl.Fields {
			out.Fields[k] = v
		}
	}
	out.MinZoom = cloneZoom(vl.MinZoom)
	out.MaxZoom = cloneZoom(vl.MaxZoom)
	return out
}
