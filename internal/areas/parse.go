package areas

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/willie68/go_tileloader/internal/model"
	"github.com/willie68/go_tileloader/pkg/extstrgutils"
)

var ErrSyntax = errors.New("syntax error")

// ParseBBox parses "minlat,maxlat,minlon,maxlon", separated by comma, semicolon or space
func ParseBBox(value string) (model.BBox, error) {
	parts := extstrgutils.SplitMultiValueParam(value)
	if len(parts) != 4 {
		return model.BBox{}, errors.Wrapf(ErrSyntax, "bbox needs 4 values, got %d", len(parts))
	}
	vs := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return model.BBox{}, errors.Wrapf(ErrSyntax, "bbox value %q is not a number", p)
		}
		vs[i] = v
	}
	return model.BBox{MinLat: vs[0], MaxLat: vs[1], MinLon: vs[2], MaxLon: vs[3]}, nil
}

// ParseZoom parses a single zoom level "5" or a range "2-6"
func ParseZoom(value string) (model.ZoomRange, error) {
	mins, maxs, found := strings.Cut(strings.TrimSpace(value), "-")
	if !found {
		maxs = mins
	}
	zmin, err := strconv.Atoi(strings.TrimSpace(mins))
	if err != nil {
		return model.ZoomRange{}, errors.Wrapf(ErrSyntax, "zoom %q", value)
	}
	zmax, err := strconv.Atoi(strings.TrimSpace(maxs))
	if err != nil {
		return model.ZoomRange{}, errors.Wrapf(ErrSyntax, "zoom %q", value)
	}
	return model.ZoomRange{Min: zmin, Max: zmax}, nil
}
