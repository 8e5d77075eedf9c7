package tilecache

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/willie68/go_tileloader/internal/model"
)

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestPath(t *testing.T) {
	ast := assert.New(t)
	c := New("tiles")
	ast.Equal(filepath.Join("tiles", "3", "4", "5.png"), c.Path(model.Tile{Z: 3, X: 4, Y: 5}))
}

func TestSaveAndHas(t *testing.T) {
	ast := assert.New(t)
	c := New(t.TempDir())
	tile := model.Tile{Z: 2, X: 1, Y: 3}

	ast.False(c.Has(tile))
	err := c.Save(tile, strings.NewReader("png data"))
	ast.NoError(err)
	ast.True(c.Has(tile))

	rd, ok := c.Tile(tile)
	ast.True(ok)
	defer rd.Close()
	data, err := io.ReadAll(rd)
	ast.NoError(err)
	ast.Equal("png data", string(data))
}

func TestSaveNeverOverwrites(t *testing.T) {
	ast := assert.New(t)
	c := New(t.TempDir())
	tile := model.Tile{Z: 1, X: 0, Y: 0}

	ast.NoError(c.Save(tile, strings.NewReader("first")))
	err := c.Save(tile, strings.NewReader("second"))
	ast.ErrorIs(err, ErrExists)

	data, err := os.ReadFile(c.Path(tile))
	ast.NoError(err)
	ast.Equal("first", string(data))
}

func TestSaveFailureLeavesNothing(t *testing.T) {
	ast := assert.New(t)
	c := New(t.TempDir())
	tile := model.Tile{Z: 4, X: 7, Y: 9}

	err := c.Save(tile, failingReader{})
	ast.Error(err)
	ast.False(c.Has(tile))

	entries, err := os.ReadDir(filepath.Dir(c.Path(tile)))
	ast.NoError(err)
	ast.Empty(entries)
}

func TestPrepareIdempotent(t *testing.T) {
	ast := assert.New(t)
	c := New(t.TempDir())
	tile := model.Tile{Z: 5, X: 10, Y: 11}
	ast.NoError(c.Prepare(tile))
	ast.NoError(c.Prepare(tile))
	ast.DirExists(filepath.Dir(c.Path(tile)))
}
