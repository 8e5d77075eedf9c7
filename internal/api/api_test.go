package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/willie68/go_tileloader/internal/assets"
	"github.com/willie68/go_tileloader/internal/config"
	"github.com/willie68/go_tileloader/internal/model"
	"github.com/willie68/go_tileloader/internal/tilecache"
	"github.com/willie68/go_tileloader/internal/utils/measurement"
)

func newServer(t *testing.T) (*httptest.Server, *tilecache.Cache) {
	inj := do.New()
	cache := tilecache.New(t.TempDir())
	do.ProvideValue(inj, cache)
	do.ProvideValue(inj, measurement.New(true))
	do.ProvideValue(inj, *config.NewVersion())

	router, err := APIRoutes(inj)
	assert.NoError(t, err)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, cache
}

func get(t *testing.T, url string, header map[string]string) (*http.Response, []byte) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	assert.NoError(t, err)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	return resp, data
}

func TestServeTile(t *testing.T) {
	ast := assert.New(t)
	srv, cache := newServer(t)
	ast.NoError(cache.Save(model.Tile{Z: 2, X: 1, Y: 3}, strings.NewReader("tile data")))

	resp, data := get(t, srv.URL+"/tiles/2/1/3.png", nil)
	ast.Equal(http.StatusOK, resp.StatusCode)
	ast.Equal("image/png", resp.Header.Get("Content-Type"))
	ast.Equal("tile data", string(data))
}

func TestServeMissingTile(t *testing.T) {
	ast := assert.New(t)
	srv, _ := newServer(t)

	resp, data := get(t, srv.URL+"/tiles/2/1/2.png", nil)
	ast.Equal(http.StatusOK, resp.StatusCode)
	ast.True(bytes.Equal(assets.EmptyPNGBytes(), data))
}

func TestServeInvalidTile(t *testing.T) {
	ast := assert.New(t)
	srv, _ := newServer(t)
	for _, p := range []string{"/tiles/2/4/0.png", "/tiles/a/0/0.png", "/tiles/1/0/b.png", "/tiles/-1/0/0.png"} {
		resp, _ := get(t, srv.URL+p, nil)
		ast.Equal(http.StatusBadRequest, resp.StatusCode, p)
	}
}

func TestCORS(t *testing.T) {
	ast := assert.New(t)
	srv, _ := newServer(t)
	resp, _ := get(t, srv.URL+"/tiles/0/0/0.png", map[string]string{"Origin": "http://localhost:5173"})
	ast.Equal("*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestLivezAndMeasurement(t *testing.T) {
	ast := assert.New(t)
	srv, _ := newServer(t)

	resp, data := get(t, srv.URL+LivezPath, nil)
	ast.Equal(http.StatusOK, resp.StatusCode)
	var live map[string]string
	ast.NoError(json.Unmarshal(data, &live))
	ast.Equal("ok", live["status"])

	get(t, srv.URL+"/tiles/0/0/0.png", nil)
	resp, data = get(t, srv.URL+MeasurementPath, nil)
	ast.Equal(http.StatusOK, resp.StatusCode)
	var dats []measurement.Data
	ast.NoError(json.Unmarshal(data, &dats))
	ast.Len(dats, 1)
	ast.Equal("serveTile", dats[0].Name)

	resp, data = get(t, srv.URL+MetricsPath, nil)
	ast.Equal(http.StatusOK, resp.StatusCode)
	ast.Contains(string(data), "tileloader_served_tiles_total")
}

func TestIsValidXYZCoord(t *testing.T) {
	ast := assert.New(t)
	ast.True(isValidXYZCoord(0, 0, 0))
	ast.False(isValidXYZCoord(1, 0, 0))
	ast.True(isValidXYZCoord(7, 7, 3))
	ast.False(isValidXYZCoord(8, 7, 3))
	ast.False(isValidXYZCoord(-1, 0, 3))
	ast.False(isValidXYZCoord(0, 0, -1))
	ast.True(isValidXYZCoord(1023, 1023, 10))
	ast.False(isValidXYZCoord(1024, 0, 10))
	ast.False(isValidXYZCoord(0, 0, 31))
}
