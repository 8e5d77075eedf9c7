package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/willie68/go_tileloader/internal/assets"
	"github.com/willie68/go_tileloader/internal/logging"
	"github.com/willie68/go_tileloader/internal/metrics"
	"github.com/willie68/go_tileloader/internal/model"
	"github.com/willie68/go_tileloader/internal/utils/measurement"
)

type tileStore interface {
	Tile(tile model.Tile) (io.ReadCloser, bool)
}

// XYZHandler serves the downloaded tiles
type XYZHandler struct {
	log     *slog.Logger
	tiles   tileStore
	metrics *measurement.Service
}

func NewXYZHandler(store tileStore, ms *measurement.Service) *chi.Mux {
	th := &XYZHandler{
		log:     logging.New("api"),
		tiles:   store,
		metrics: ms,
	}
	router := chi.NewRouter()
	router.Get("/{z}/{x}/{y}", th.GetTileHandler())
	return router
}

func (h *XYZHandler) GetTileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		td := h.metrics.Start("serveTile")
		defer td.Stop()

		// URL: /tiles/{z}/{x}/{y}.png
		tile, err := h.getRequestParameter(r)
		if err != nil {
			td.SetError()
			http.Error(w, "Path error: "+err.Error(), http.StatusBadRequest)
			return
		}

		rd, ok := h.tiles.Tile(tile)
		if !ok {
			h.log.Debug("tile not found", "tile", tile.String())
			metrics.ServedTiles.WithLabelValues("miss").Inc()
			rd = assets.EmptyPNG()
		} else {
			metrics.ServedTiles.WithLabelValues("hit").Inc()
		}
		defer rd.Close()

		w.Header().Set("Content-Type", "image/png")
		if _, err := io.Copy(w, rd); err != nil {
			h.log.Error("error writing tile", "tile", tile.String(), "error", err)
		}
	}
}

func (h *XYZHandler) getRequestParameter(r *http.Request) (tile model.Tile, err error) {
	zs := chi.URLParam(r, "z")
	xs := chi.URLParam(r, "x")
	ys := chi.URLParam(r, "y")

	tile.Z, err = strconv.Atoi(zs)
	if err != nil {
		return tile, errors.New("error in zoom level")
	}
	tile.X, err = strconv.Atoi(xs)
	if err != nil {
		return tile, errors.New("error in x axis")
	}
	ys = strings.TrimSuffix(ys, filepath.Ext(ys))
	tile.Y, err = strconv.Atoi(ys)
	if err != nil {
		return tile, errors.New("error in y axis")
	}
	if !isValidXYZCoord(tile.X, tile.Y, tile.Z) {
		return tile, errors.New("invalid tile coordinates")
	}
	return tile, nil
}

// isValidXYZCoord checks the coordinates against the tiles of the zoom level
func isValidXYZCoord(x, y, zoom int) bool {
	if zoom < 0 || zoom > 30 {
		return false
	}
	n := 1 << zoom
	return x >= 0 && x < n && y >= 0 && y < n
}
