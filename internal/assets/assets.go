package assets

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"sync"
)

// TileSize edge length of a tile in pixel
const TileSize = 256

var (
	emptyPNG  []byte
	emptyOnce sync.Once
)

// EmptyPNG a fully transparent tile, delivered for tiles not on disk
func EmptyPNG() io.ReadCloser {
	return io.NopCloser(bytes.NewReader(EmptyPNGBytes()))
}

func EmptyPNGBytes() []byte {
	emptyOnce.Do(func() {
		var buf bytes.Buffer
		img := image.NewNRGBA(image.Rect(0, 0, TileSize, TileSize))
		if err := png.Encode(&buf, img); err != nil {
			panic(err)
		}
		emptyPNG = buf.Bytes()
	})
	return emptyPNG
}
