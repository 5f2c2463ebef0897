package wordfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalReadWrite(t *testing.T) {
	fs := &LocalFileSystem{}
	require.NoError(t, fs.Init())

	path := filepath.Join(t.TempDir(), "nested", "file.txt")
	require.NoError(t, fs.WriteFile(path, []byte("hello world")))

	data, err := fs.ReadFile(path, 0)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	data, err = fs.ReadFile(path, 6)
	require.NoError(t, err)
	assert.Equal(t, "world", string(data))
}

func TestLocalOpenWriter(t *testing.T) {
	fs := &LocalFileSystem{}
	path := filepath.Join(t.TempDir(), "file.txt")

	writer, err := fs.OpenWriter(path)
	require.NoError(t, err)
	_, err = writer.Write([]byte("contents"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	data, err := fs.ReadFile(path, 0)
	require.NoError(t, err)
	assert.Equal(t, "contents", string(data))
}

func TestLocalListFiles(t *testing.T) {
	fs := &LocalFileSystem{}
	dir := t.TempDir()

	require.NoError(t, fs.WriteFile(filepath.Join(dir, "map-bin0-1.out"), []byte("a")))
	require.NoError(t, fs.WriteFile(filepath.Join(dir, "map-bin0-2.out"), []byte("bb")))
	require.NoError(t, fs.WriteFile(filepath.Join(dir, "map-bin1-1.out"), []byte("c")))

	files, err := fs.ListFiles(filepath.Join(dir, "map-bin0-*"))
	require.NoError(t, err)
	assert.Len(t, files, 2)

	// Listing a directory walks it recursively.
	files, err = fs.ListFiles(dir)
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestLocalDelete(t *testing.T) {
	fs := &LocalFileSystem{}
	path := filepath.Join(t.TempDir(), "file.txt")

	require.NoError(t, fs.WriteFile(path, []byte("x")))
	require.NoError(t, fs.Delete(path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
