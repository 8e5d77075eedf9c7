package areas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/willie68/go_tileloader/internal/model"
)

func TestParseBBox(t *testing.T) {
	ast := assert.New(t)
	tt := []struct {
		name  string
		value string
		exp   model.BBox
		ok    bool
	}{
		{"comma", "35,70,-10,40", model.BBox{MinLat: 35, MaxLat: 70, MinLon: -10, MaxLon: 40}, true},
		{"mixed", "35.5; 70 -10.25, 40", model.BBox{MinLat: 35.5, MaxLat: 70, MinLon: -10.25, MaxLon: 40}, true},
		{"too few", "35,70,-10", model.BBox{}, false},
		{"too many", "1,2,3,4,5", model.BBox{}, false},
		{"no number", "a,b,c,d", model.BBox{}, false},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			b, err := ParseBBox(tc.value)
			if !tc.ok {
				ast.ErrorIs(err, ErrSyntax)
				return
			}
			ast.NoError(err)
			ast.Equal(tc.exp, b)
		})
	}
}

func TestParseZoom(t *testing.T) {
	ast := assert.New(t)
	tt := []struct {
		value string
		exp   model.ZoomRange
		ok    bool
	}{
		{"5", model.ZoomRange{Min: 5, Max: 5}, true},
		{"2-6", model.ZoomRange{Min: 2, Max: 6}, true},
		{" 0 - 3 ", model.ZoomRange{Min: 0, Max: 3}, true},
		{"", model.ZoomRange{}, false},
		{"2-", model.ZoomRange{}, false},
		{"x-3", model.ZoomRange{}, false},
	}
	for _, tc := range tt {
		z, err := ParseZoom(tc.value)
		if !tc.ok {
			ast.ErrorIs(err, ErrSyntax, tc.value)
			continue
		}
		ast.NoError(err, tc.value)
		ast.Equal(tc.exp, z)
	}
}
