package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/i0tool5/mbtiles-go"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"

	"github.com/willie68/go_tileloader/internal/logging"
	"github.com/willie68/go_tileloader/internal/mercantile"
	"github.com/willie68/go_tileloader/internal/model"
)

type metadata struct {
	Name    string
	Format  string
	Maxzoom int
	Minzoom int
	BBox    *model.BBox
}

// mbtilesProvider reads tiles from a local mbtiles archive
type mbtilesProvider struct {
	name string
	log  *slog.Logger
	db   *mbtiles.MBtiles
	meta metadata
}

func NewMBTilesProvider(path string) (*mbtilesProvider, error) {
	log := logging.New("mbtiles")
	db, err := mbtiles.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open mbtiles database")
	}
	tf := db.GetTileFormat()
	log.Info("mbtiles opened", "path", path, "format", tf.String())
	meta, err := db.ReadMetadata()
	if err != nil {
		log.Error("failed to read mbtiles metadata", "error", err)
	}
	mbt := &mbtilesProvider{
		name: fmt.Sprintf("MBTiles %s", filepath.Base(path)),
		log:  log,
		db:   db,
	}
	mbt.parseMetadata(meta)
	return mbt, nil
}

func (s *mbtilesProvider) Name() string {
	return s.name
}

func (s *mbtilesProvider) Tile(ctx context.Context, tile model.Tile) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.contains(tile) {
		return nil, errors.Wrapf(ErrNotFound, "tile %s out of archive bounds", tile.String())
	}
	// mbtiles rows are in tms order
	y := (1 << tile.Z) - tile.Y - 1
	var data []byte
	err := s.db.ReadTile(int64(tile.Z), int64(tile.X), int64(y), &data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read tile")
	}
	if len(data) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "tile %s not in archive", tile.String())
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *mbtilesProvider) contains(tile model.Tile) bool {
	if s.meta.Maxzoom > 0 && (tile.Z < s.meta.Minzoom || tile.Z > s.meta.Maxzoom) {
		return false
	}
	if s.meta.BBox != nil {
		tb := mercantile.ULBounds(mercantile.TileID{X: tile.X, Y: tile.Y, Z: tile.Z})
		tbox := model.BBox{MinLat: tb.Bottom, MaxLat: tb.Top, MinLon: tb.Left, MaxLon: tb.Right}
		if !s.meta.BBox.Intersects(tbox) {
			return false
		}
	}
	return true
}

func (s *mbtilesProvider) parseMetadata(meta map[string]any) {
	s.meta.Name, _ = meta["name"].(string)
	s.meta.Format, _ = meta["format"].(string)
	if maxzoom, ok := meta["maxzoom"].(int); ok {
		s.meta.Maxzoom = maxzoom
	}
	if minzoom, ok := meta["minzoom"].(int); ok {
		s.meta.Minzoom = minzoom
	}
	if bbox, ok := meta["bounds"].([]float64); ok && len(bbox) == 4 {
		// bounds are left, bottom, right, top
		bb := model.FromBound(orb.Bound{Min: orb.Point{bbox[0], bbox[1]}, Max: orb.Point{bbox[2], bbox[3]}})
		s.meta.BBox = &bb
	}
}

func (s *mbtilesProvider) Close() error {
	s.db.Close()
	return nil
}
