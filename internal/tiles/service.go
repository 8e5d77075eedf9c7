package tiles

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/samber/do/v2"
	"github.com/willie68/go_tileloader/internal/logging"
	"github.com/willie68/go_tileloader/internal/metrics"
	"github.com/willie68/go_tileloader/internal/model"
	"github.com/willie68/go_tileloader/internal/provider"
	"github.com/willie68/go_tileloader/internal/tilecache"
	"github.com/willie68/go_tileloader/internal/utils/measurement"
)

// Status result of fetching a single tile
type Status int

const (
	StatusFailed Status = iota
	StatusDownloaded
	StatusCached
)

// OK true if the tile is present, downloaded or already cached
func (s Status) OK() bool {
	return s == StatusDownloaded || s == StatusCached
}

func (s Status) String() string {
	switch s {
	case StatusDownloaded:
		return "downloaded"
	case StatusCached:
		return "cached"
	default:
		return "failed"
	}
}

type tileCache interface {
	Has(tile model.Tile) bool
	Prepare(tile model.Tile) error
	Save(tile model.Tile, data io.Reader) error
}

type providerFactory interface {
	Services() []provider.Service
}

// Service fetches single tiles from the first source delivering it
type Service struct {
	log     *slog.Logger
	cache   tileCache
	sources []provider.Service
	metrics *measurement.Service
}

func Init(inj do.Injector) {
	do.ProvideValue(inj, New(
		do.MustInvoke[*tilecache.Cache](inj),
		do.MustInvokeAs[providerFactory](inj).Services(),
		do.MustInvoke[*measurement.Service](inj),
	))
}

func New(cache tileCache, sources []provider.Service, ms *measurement.Service) *Service {
	if ms == nil {
		ms = measurement.New(false)
	}
	return &Service{
		log:     logging.New("tiles"),
		cache:   cache,
		sources: sources,
		metrics: ms,
	}
}

// Fetch makes sure the tile is on disk, true if the tile was already
// present or has been downloaded.
func (s *Service) Fetch(ctx context.Context, tile model.Tile) bool {
	return s.FetchStatus(ctx, tile).OK()
}

// FetchStatus like Fetch but distinguishes between a download and a cache
// hit. Errors are logged, never returned.
func (s *Service) FetchStatus(ctx context.Context, tile model.Tile) Status {
	if err := s.cache.Prepare(tile); err != nil {
		s.log.Error("can't prepare tile", "tile", tile.String(), "error", err)
		metrics.Tiles.WithLabelValues(StatusFailed.String()).Inc()
		return StatusFailed
	}
	if s.cache.Has(tile) {
		s.log.Debug("tile found in cache", "tile", tile.String())
		metrics.Tiles.WithLabelValues(StatusCached.String()).Inc()
		return StatusCached
	}

	for _, src := range s.sources {
		if ctx.Err() != nil {
			s.log.Warn("fetch interrupted", "tile", tile.String())
			break
		}
		err := s.fromSource(ctx, src, tile)
		if err == nil || errors.Is(err, tilecache.ErrExists) {
			s.log.Info("tile downloaded", "source", src.Name(), "tile", tile.String())
			metrics.Tiles.WithLabelValues(StatusDownloaded.String()).Inc()
			return StatusDownloaded
		}
		s.log.Warn("source failed", "source", src.Name(), "tile", tile.String(), "error", err)
	}

	s.log.Error("all sources failed", "tile", tile.String())
	metrics.Tiles.WithLabelValues(StatusFailed.String()).Inc()
	return StatusFailed
}

func (s *Service) fromSource(ctx context.Context, src provider.Service, tile model.Tile) error {
	td := s.metrics.Start("fetch:" + src.Name())
	defer td.Stop()
	start := time.Now()
	defer func() {
		metrics.SourceLatency.WithLabelValues(src.Name()).Observe(time.Since(start).Seconds())
	}()

	err := s.download(ctx, src, tile)
	if err != nil {
		td.SetError()
		metrics.SourceRequests.WithLabelValues(src.Name(), "error").Inc()
		return err
	}
	metrics.SourceRequests.WithLabelValues(src.Name(), "ok").Inc()
	return nil
}

func (s *Service) download(ctx context.Context, src provider.Service, tile model.Tile) error {
	rd, err := src.Tile(ctx, tile)
	if err != nil {
		return err
	}
	defer rd.Close()
	return s.cache.Save(tile, rd)
}

// Sources names of the sources in fallback order
func (s *Service) Sources() []string {
	names := make([]string, 0, len(s.sources))
	for _, src := range s.sources {
		names = append(names, src.Name())
	}
	return names
}
