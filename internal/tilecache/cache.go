package tilecache

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	perrors "github.com/pkg/errors"
	"github.com/samber/do/v2"
	"github.com/willie68/go_tileloader/internal/logging"
	"github.com/willie68/go_tileloader/internal/model"
)

var (
	// ErrExists a tile file is never overwritten
	ErrExists = errors.New("tile already exists")
)

type TileCache interface {
	Has(tile model.Tile) bool
	Tile(tile model.Tile) (io.ReadCloser, bool)
	Save(tile model.Tile, data io.Reader) error
	Path(tile model.Tile) string
}

type Config struct {
	Path string `yaml:"path" env:"PATH"`
}

// Cache stores tiles as {path}/{z}/{x}/{y}.png. The existence of a file is
// the only state, nothing else is persisted.
type Cache struct {
	log  *slog.Logger
	path string
}

var _ TileCache = (*Cache)(nil)

func Init(inj do.Injector) {
	cfg := do.MustInvoke[*Config](inj)
	do.ProvideValue(inj, New(cfg.Path))
}

func New(path string) *Cache {
	return &Cache{
		log:  logging.New("tilecache"),
		path: path,
	}
}

// Root the base directory of the cache
func (c *Cache) Root() string {
	return c.path
}

func (c *Cache) Path(tile model.Tile) string {
	return filepath.Join(c.path, tile.Path())
}

// Prepare creates the directory of the tile, if not already present
func (c *Cache) Prepare(tile model.Tile) error {
	err := os.MkdirAll(filepath.Dir(c.Path(tile)), 0o755)
	if err != nil {
		return perrors.Wrapf(err, "can't create directory for tile %s", tile.String())
	}
	return nil
}

func (c *Cache) Has(tile model.Tile) bool {
	fi, err := os.Stat(c.Path(tile))
	if err != nil {
		return false
	}
	return fi.Mode().IsRegular()
}

func (c *Cache) Tile(tile model.Tile) (io.ReadCloser, bool) {
	f, err := os.Open(c.Path(tile))
	if err != nil {
		return nil, false
	}
	return f, true
}

// Save writes the data into the tile file. The data is written into a
// temporary file in the same directory which is renamed on success, so a
// tile file is either complete or not present at all.
func (c *Cache) Save(tile model.Tile, data io.Reader) error {
	fn := c.Path(tile)
	if c.Has(tile) {
		return ErrExists
	}
	if err := c.Prepare(tile); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(fn), ".tile-*.tmp")
	if err != nil {
		return perrors.Wrap(err, "can't create temp file")
	}
	tmp := f.Name()
	_, err = io.Copy(f, data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		c.remove(tmp)
		return perrors.Wrapf(err, "can't write tile %s", tile.String())
	}
	if err := os.Rename(tmp, fn); err != nil {
		c.remove(tmp)
		return perrors.Wrapf(err, "can't rename tile %s", tile.String())
	}
	c.log.Debug("tile saved", "file", fn)
	return nil
}

func (c *Cache) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		c.log.Error("error removing file", "file", path, "error", err)
	}
}

func (c *Cache) Close() error {
	return nil
}
