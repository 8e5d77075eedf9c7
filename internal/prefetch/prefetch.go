package prefetch

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/do/v2"
	"github.com/willie68/go_tileloader/internal/logging"
	"github.com/willie68/go_tileloader/internal/mercantile"
	"github.com/willie68/go_tileloader/internal/model"
	"github.com/willie68/go_tileloader/internal/tiles"
)

type Config struct {
	Delay            time.Duration `yaml:"delay" env:"DELAY"`
	SkipDelayOnCache bool          `yaml:"skipdelayoncache" env:"SKIPDELAYONCACHE"`
}

type fetcher interface {
	FetchStatus(ctx context.Context, tile model.Tile) tiles.Status
}

// Range the tile rectangle of a zoom level, bounds are inclusive
type Range struct {
	Zoom int
	MinX int
	MaxX int
	MinY int
	MaxY int
}

// Count number of tiles in the range
func (r Range) Count() int {
	return (r.MaxX - r.MinX + 1) * (r.MaxY - r.MinY + 1)
}

// Result counters of a run. Downloaded contains the cache hits, Cached is
// only the number of tiles which were already present.
type Result struct {
	Total      int
	Downloaded int
	Cached     int
	Failed     int
}

// Prefetcher downloads all tiles of an area, one after another
type Prefetcher struct {
	log     *slog.Logger
	fetcher fetcher
	cfg     Config
	wait    func(ctx context.Context, d time.Duration) error
}

func Init(inj do.Injector) {
	cfg := do.MustInvoke[*Config](inj)
	do.ProvideValue(inj, New(do.MustInvoke[*tiles.Service](inj), *cfg))
}

func New(f fetcher, cfg Config) *Prefetcher {
	return &Prefetcher{
		log:     logging.New("prefetch"),
		fetcher: f,
		cfg:     cfg,
		wait:    sleep,
	}
}

// TileRange maps two opposite corners of the box to tile indices. The
// latitude inverts the row order, so both axes are sorted again. Indices are
// limited to the tiles of the zoom level, 180° E would otherwise be x = 2^z.
func TileRange(bbox model.BBox, zoom int) Range {
	t1 := mercantile.Tile(bbox.MinLon, bbox.MinLat, zoom)
	t2 := mercantile.Tile(bbox.MaxLon, bbox.MaxLat, zoom)
	last := 1<<zoom - 1
	return Range{
		Zoom: zoom,
		MinX: clamp(min(t1.X, t2.X), last),
		MaxX: clamp(max(t1.X, t2.X), last),
		MinY: clamp(min(t1.Y, t2.Y), last),
		MaxY: clamp(max(t1.Y, t2.Y), last),
	}
}

func clamp(v, last int) int {
	return min(max(v, 0), last)
}

// Plan the tile ranges of all zoom levels of the area
func Plan(area model.Area) []Range {
	rgs := make([]Range, 0)
	for z := area.Zoom.Min; z <= area.Zoom.Max; z++ {
		rgs = append(rgs, TileRange(area.BBox, z))
	}
	return rgs
}

// Count the number of tiles of the area
func Count(area model.Area) int {
	c := 0
	for _, r := range Plan(area) {
		c += r.Count()
	}
	return c
}

// Run fetches every tile of the area, zoom by zoom, column by column.
// Failed tiles are counted, never fatal. On cancellation the partial result
// is returned together with the context error.
func (p *Prefetcher) Run(ctx context.Context, area model.Area) (Result, error) {
	var res Result
	p.log.Info("starting download", "area", area.Name, "bbox", area.BBox.String(), "minzoom", area.Zoom.Min, "maxzoom", area.Zoom.Max)
	for _, rg := range Plan(area) {
		p.log.Info("processing zoom level", "zoom", rg.Zoom, "x", []int{rg.MinX, rg.MaxX}, "y", []int{rg.MinY, rg.MaxY}, "tiles", rg.Count())
		for x := rg.MinX; x <= rg.MaxX; x++ {
			for y := rg.MinY; y <= rg.MaxY; y++ {
				if err := ctx.Err(); err != nil {
					return res, err
				}
				st := p.fetcher.FetchStatus(ctx, model.Tile{Z: rg.Zoom, X: x, Y: y})
				res.add(st)

				if st == tiles.StatusCached && p.cfg.SkipDelayOnCache {
					continue
				}
				if err := p.wait(ctx, p.cfg.Delay); err != nil {
					return res, err
				}
			}
		}
	}
	p.log.Info("download finished", "total", res.Total, "downloaded", res.Downloaded, "cached", res.Cached, "failed", res.Failed)
	return res, nil
}

func (r *Result) add(st tiles.Status) {
	r.Total++
	switch st {
	case tiles.StatusDownloaded:
		r.Downloaded++
	case tiles.StatusCached:
		// a cache hit counts as a successful download
		r.Downloaded++
		r.Cached++
	default:
		r.Failed++
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
