package fileutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileExists(t *testing.T) {
	ast := assert.New(t)
	dir := t.TempDir()
	fn := filepath.Join(dir, "config.yaml")
	ast.False(FileExists(fn))
	ast.NoError(os.WriteFile(fn, []byte("port: 8580"), 0o644))
	ast.True(FileExists(fn))
	ast.True(FileExists(dir))

	ast.True(IsDir(dir))
	ast.False(IsDir(fn))
	ast.False(IsDir(filepath.Join(dir, "missing")))
}
