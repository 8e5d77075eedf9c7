package model

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/paulmach/orb"
)

// Tile is the slippy map index of a single tile
type Tile struct {
	Z int
	X int
	Y int
}

func (t *Tile) String() string {
	return fmt.Sprintf("z%d/x%d/y%d.png", t.Z, t.X, t.Y)
}

// Path returns the relative file path of the tile, z/x/y.png
func (t Tile) Path() string {
	return filepath.Join(strconv.Itoa(t.Z), strconv.Itoa(t.X), fmt.Sprintf("%d.png", t.Y))
}

// BBox geographic bounding box in degrees. The caller is responsible for min < max.
type BBox struct {
	MinLat float64 `yaml:"minlat"`
	MaxLat float64 `yaml:"maxlat"`
	MinLon float64 `yaml:"minlon"`
	MaxLon float64 `yaml:"maxlon"`
}

// Bound converts the box into an orb bound, points are lon/lat
func (b BBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.MinLon, b.MinLat},
		Max: orb.Point{b.MaxLon, b.MaxLat},
	}
}

// FromBound creates a box from an orb bound
func FromBound(b orb.Bound) BBox {
	return BBox{
		MinLat: b.Min.Lat(),
		MaxLat: b.Max.Lat(),
		MinLon: b.Min.Lon(),
		MaxLon: b.Max.Lon(),
	}
}

// Intersects reports whether both boxes overlap, touching edges count
func (b BBox) Intersects(o BBox) bool {
	return b.Bound().Intersects(o.Bound())
}

func (b BBox) String() string {
	return fmt.Sprintf("%.2f°N, %.2f°E to %.2f°N, %.2f°E", b.MinLat, b.MinLon, b.MaxLat, b.MaxLon)
}

// ZoomRange inclusive range of zoom levels
type ZoomRange struct {
	Min int `yaml:"minzoom"`
	Max int `yaml:"maxzoom"`
}

// Area is a named region to be downloaded
type Area struct {
	Name string
	BBox BBox
	Zoom ZoomRange
}

// Source is a remote tile server. URL contains the placeholders {z}, {x}, {y}
// and optional {s} and {r}.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}
