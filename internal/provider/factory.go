package provider

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/do/v2"
	"github.com/willie68/go_tileloader/internal/logging"
	"github.com/willie68/go_tileloader/internal/model"
)

// DefaultUserAgent browser like user agent, some tile servers refuse unknown clients
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Service delivers a single tile
type Service interface {
	Name() string
	Tile(ctx context.Context, tile model.Tile) (io.ReadCloser, error)
}

type Config struct {
	Timeout   time.Duration     `yaml:"timeout" env:"TIMEOUT"`
	UserAgent string            `yaml:"useragent" env:"USERAGENT"`
	MBTiles   string            `yaml:"mbtiles" env:"MBTILES"`
	Headers   map[string]string `yaml:"headers"`
}

var (
	ErrNotFound = errors.New("tile not found")
	ErrStatus   = errors.New("unexpected http status")

	// DefaultSources the free tile servers in fallback order
	DefaultSources = []model.Source{
		{Name: "CartoDB Light", URL: "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png"},
		{Name: "CartoDB Voyager", URL: "https://{s}.basemaps.cartocdn.com/rastertiles/voyager/{z}/{x}/{y}{r}.png"},
		{Name: "Stamen Terrain", URL: "https://stamen-tiles-{s}.a.ssl.fastly.net/terrain/{z}/{x}/{y}{r}.png"},
		{Name: "Stamen Watercolor", URL: "https://stamen-tiles-{s}.a.ssl.fastly.net/watercolor/{z}/{x}/{y}{r}.png"},
		{Name: "Esri World Imagery", URL: "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}"},
		{Name: "Esri World Street Map", URL: "https://server.arcgisonline.com/ArcGIS/rest/services/World_Street_Map/MapServer/tile/{z}/{y}/{x}"},
	}
)

// Factory holds the ordered list of tile sources
type Factory struct {
	log      *slog.Logger
	services []Service
	closers  []io.Closer
}

// Init registers the factory with the default sources in the injector
func Init(inj do.Injector) {
	cfg := do.MustInvoke[*Config](inj)
	do.ProvideValue(inj, New(*cfg, DefaultSources))
}

// New creates the http providers for the sources, in the given order. A
// configured mbtiles archive is always the last source.
func New(cfg Config, sources []model.Source) *Factory {
	f := &Factory{
		log:      logging.New("provider"),
		services: make([]Service, 0, len(sources)+1),
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	cl := &http.Client{Timeout: cfg.Timeout}
	for _, src := range sources {
		f.services = append(f.services, &xyzProvider{
			source: src,
			log:    logging.New("xyz: " + src.Name),
			config: cfg,
			cl:     cl,
		})
	}
	if cfg.MBTiles != "" {
		mbt, err := NewMBTilesProvider(cfg.MBTiles)
		if err != nil {
			f.log.Error("mbtiles source disabled", "path", cfg.MBTiles, "error", err)
		} else {
			f.services = append(f.services, mbt)
			f.closers = append(f.closers, mbt)
		}
	}
	return f
}

// Services the tile sources in fallback order
func (f *Factory) Services() []Service {
	return f.services
}

// Names the names of all sources in fallback order
func (f *Factory) Names() []string {
	names := make([]string, 0, len(f.services))
	for _, s := range f.services {
		names = append(names, s.Name())
	}
	return names
}

func (f *Factory) Close() error {
	var first error
	for _, c := range f.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func setDefaultHeaders(req *http.Request, userAgent string) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "*/*")
}
