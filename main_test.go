package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/willie68/go_tileloader/internal/areas"
	"github.com/willie68/go_tileloader/internal/model"
	"github.com/willie68/go_tileloader/internal/prefetch"
	"github.com/willie68/go_tileloader/internal/prompt"
	"github.com/willie68/go_tileloader/internal/utils/measurement"
)

func newPrompter(input string) (*prompt.Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return prompt.New(strings.NewReader(input), &out, false), &out
}

func setFlags(t *testing.T, area, bbox, zoom string, yes bool) {
	oa, ob, oz, oy := areaName, bboxValue, zoomValue, assumeYes
	areaName, bboxValue, zoomValue, assumeYes = area, bbox, zoom, yes
	t.Cleanup(func() {
		areaName, bboxValue, zoomValue, assumeYes = oa, ob, oz, oy
	})
}

func TestReportError(t *testing.T) {
	ast := assert.New(t)
	tt := []struct {
		name string
		err  error
		exp  string
	}{
		{"aborted", prompt.ErrAborted, "Aborted by user"},
		{"invalid input", fmt.Errorf("%w: %q is not a menu entry", prompt.ErrInvalidInput, "9"), "Invalid input: invalid input: \"9\" is not a menu entry"},
		{"syntax", areas.ErrSyntax, "Invalid input: syntax error"},
		{"zoom", areas.ErrInvalidZoom, "Invalid input:"},
		{"unknown area", fmt.Errorf("%w: mars", areas.ErrUnknownArea), "Invalid input:"},
		{"other", errors.New("disk full"), "An error occurred: disk full"},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			pr, out := newPrompter("")
			reportError(pr, tc.err)
			ast.Contains(out.String(), tc.exp)
		})
	}
}

func TestPrintSummary(t *testing.T) {
	ast := assert.New(t)
	ms := measurement.New(true)
	m := ms.Start("fetch:CartoDB Light")
	m.Stop()
	m = ms.Start("fetch:Esri World Imagery")
	m.SetError()
	m.Stop()
	ms.Start("serveTile").Stop()

	pr, out := newPrompter("")
	printSummary(pr, prefetch.Result{Total: 10, Downloaded: 8, Cached: 3, Failed: 2}, nil, "public/tiles", ms)
	s := out.String()
	ast.Contains(s, "Download finished!")
	ast.Contains(s, "Total tiles: 10")
	ast.Contains(s, "Downloaded: 8 (already present: 3)")
	ast.Contains(s, "Failed: 2")
	ast.Contains(s, "Saved to: public/tiles")
	ast.Contains(s, "CartoDB Light")
	ast.Contains(s, "requests:     1  errors:     1")
	ast.NotContains(s, "serveTile")
	ast.NotContains(s, "Interrupted")
	ast.NotContains(s, "[green]")
}

func TestPrintSummaryInterrupted(t *testing.T) {
	ast := assert.New(t)
	pr, out := newPrompter("")
	printSummary(pr, prefetch.Result{Total: 3, Downloaded: 3}, context.Canceled, "tiles", measurement.New(true))
	ast.Contains(out.String(), "Interrupted by user")
	ast.Contains(out.String(), "Total tiles: 3")
}

func TestSelectPresetArea(t *testing.T) {
	ast := assert.New(t)
	setFlags(t, "europe", "", "", true)
	pr, out := newPrompter("")
	a, ok, err := selectArea(context.Background(), pr, false)
	ast.NoError(err)
	ast.True(ok)
	ast.Equal("europe", a.Name)
	ast.Contains(out.String(), "Selected area:")
}

func TestSelectCustomArea(t *testing.T) {
	ast := assert.New(t)
	setFlags(t, "", "47,55,5,15", "2-4", false)
	pr, out := newPrompter("y\n")
	a, ok, err := selectArea(context.Background(), pr, false)
	ast.NoError(err)
	ast.True(ok)
	ast.Equal(model.BBox{MinLat: 47, MaxLat: 55, MinLon: 5, MaxLon: 15}, a.BBox)
	ast.Equal(model.ZoomRange{Min: 2, Max: 4}, a.Zoom)
	ast.Contains(out.String(), "Start download? (y/N): ")
}

func TestSelectAreaDeclined(t *testing.T) {
	ast := assert.New(t)
	setFlags(t, "global", "", "", false)
	pr, out := newPrompter("n\n")
	_, ok, err := selectArea(context.Background(), pr, false)
	ast.NoError(err)
	ast.False(ok)
	ast.Contains(out.String(), "Download canceled")
}

func TestSelectAreaErrors(t *testing.T) {
	ast := assert.New(t)
	tt := []struct {
		name string
		area string
		bbox string
		zoom string
		exp  error
	}{
		{"unknown preset", "mars", "", "", areas.ErrUnknownArea},
		{"bad bbox", "", "47,55,5", "2", areas.ErrSyntax},
		{"missing zoom", "", "47,55,5,15", "", prompt.ErrInvalidInput},
		{"bad zoom", "", "47,55,5,15", "6-2", areas.ErrInvalidZoom},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			setFlags(t, tc.area, tc.bbox, tc.zoom, true)
			pr, _ := newPrompter("")
			_, ok, err := selectArea(context.Background(), pr, false)
			ast.False(ok)
			ast.ErrorIs(err, tc.exp)
		})
	}
}

func TestSelectAreaInterrupted(t *testing.T) {
	ast := assert.New(t)
	setFlags(t, "", "", "", false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pr, out := newPrompter("1\n")
	_, ok, err := selectArea(ctx, pr, true)
	ast.False(ok)
	ast.ErrorIs(err, prompt.ErrAborted)

	reportError(pr, err)
	ast.Contains(out.String(), "Aborted by user")
}
