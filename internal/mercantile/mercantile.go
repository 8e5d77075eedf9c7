// Package mercantile converts between geographic coordinates and slippy map
// tile indices in the web mercator scheme (EPSG:3857).
package mercantile

import "math"

// MaxLatitude is the northern limit of the web mercator projection
const MaxLatitude = 85.0511287798066

// TileID index of a tile
type TileID struct {
	X int
	Y int
	Z int
}

// Bbox in degrees, Left/Right are longitudes, Bottom/Top latitudes
type Bbox struct {
	Left   float64
	Bottom float64
	Right  float64
	Top    float64
}

// Tile returns the tile containing the point lng/lat at the given zoom.
// Values are not clamped, latitudes outside of +-MaxLatitude give indices
// outside of [0, 2^zoom-1].
func Tile(lng, lat float64, zoom int) TileID {
	n := math.Exp2(float64(zoom))
	latRad := lat * math.Pi / 180
	x := math.Floor((lng + 180) / 360 * n)
	y := math.Floor((1 - math.Asinh(math.Tan(latRad))/math.Pi) / 2 * n)
	return TileID{
		X: int(x),
		Y: int(y),
		Z: zoom,
	}
}

// ULBounds returns the geographic bounds of the tile
func ULBounds(t TileID) Bbox {
	n := math.Exp2(float64(t.Z))
	return Bbox{
		Left:   float64(t.X)/n*360 - 180,
		Top:    tileLat(float64(t.Y), n),
		Right:  float64(t.X+1)/n*360 - 180,
		Bottom: tileLat(float64(t.Y+1), n),
	}
}

func tileLat(y, n float64) float64 {
	return math.Atan(math.Sinh(math.Pi*(1-2*y/n))) * 180 / math.Pi
}
