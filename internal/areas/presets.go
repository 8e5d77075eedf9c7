package areas

import (
	"errors"
	"strings"

	"github.com/willie68/go_tileloader/internal/model"
)

var (
	ErrUnknownArea = errors.New("unknown area")

	// Presets the predefined regions, in menu order
	Presets = []model.Area{
		{
			Name: "global",
			BBox: model.BBox{MinLat: -60, MaxLat: 80, MinLon: -180, MaxLon: 180},
			Zoom: model.ZoomRange{Min: 0, Max: 3},
		},
		{
			Name: "asia",
			BBox: model.BBox{MinLat: 10, MaxLat: 55, MinLon: 60, MaxLon: 140},
			Zoom: model.ZoomRange{Min: 2, Max: 6},
		},
		{
			Name: "europe",
			BBox: model.BBox{MinLat: 35, MaxLat: 70, MinLon: -10, MaxLon: 40},
			Zoom: model.ZoomRange{Min: 2, Max: 6},
		},
		{
			Name: "americas",
			BBox: model.BBox{MinLat: -60, MaxLat: 70, MinLon: -180, MaxLon: -30},
			Zoom: model.ZoomRange{Min: 2, Max: 6},
		},
		{
			Name: "oceania",
			BBox: model.BBox{MinLat: -50, MaxLat: 0, MinLon: 110, MaxLon: 180},
			Zoom: model.ZoomRange{Min: 2, Max: 6},
		},
	}

	titles = map[string]string{
		"global":   "Global overview",
		"asia":     "Asia",
		"europe":   "Europe",
		"americas": "Americas",
		"oceania":  "Oceania",
	}
)

// ByName returns the preset with the given name, case insensitive
func ByName(name string) (model.Area, error) {
	for _, a := range Presets {
		if strings.EqualFold(a.Name, strings.TrimSpace(name)) {
			return a, nil
		}
	}
	return model.Area{}, ErrUnknownArea
}

// Title human readable name of an area
func Title(a model.Area) string {
	if t, ok := titles[a.Name]; ok {
		return t
	}
	if a.Name == "" {
		return "Custom area"
	}
	return a.Name
}

// Names all preset names
func Names() []string {
	names := make([]string, 0, len(Presets))
	for _, a := range Presets {
		names = append(names, a.Name)
	}
	return names
}

// MaxZoom highest zoom level accepted for a download
const MaxZoom = 22

var ErrInvalidZoom = errors.New("invalid zoom range")

// Validate checks the zoom range of an area. The box itself is not checked,
// the corners are sorted by the downloader.
func Validate(a model.Area) error {
	if a.Zoom.Min < 0 || a.Zoom.Max > MaxZoom || a.Zoom.Min > a.Zoom.Max {
		return ErrInvalidZoom
	}
	return nil
}
