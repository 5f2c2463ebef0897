package wordfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryReadWrite(t *testing.T) {
	fs := NewInMemoryFileSystem()

	require.NoError(t, fs.WriteFile("out/file.txt", []byte("hello world")))

	data, err := fs.ReadFile("out/file.txt", 0)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	data, err = fs.ReadFile("out/file.txt", 6)
	require.NoError(t, err)
	assert.Equal(t, "world", string(data))

	_, err = fs.ReadFile("missing.txt", 0)
	assert.Error(t, err)
}

func TestInMemoryWriterVisibleOnClose(t *testing.T) {
	fs := NewInMemoryFileSystem()

	writer, err := fs.OpenWriter("file.txt")
	require.NoError(t, err)
	_, err = writer.Write([]byte("contents"))
	require.NoError(t, err)

	_, err = fs.ReadFile("file.txt", 0)
	assert.Error(t, err, "file should not exist before Close")

	require.NoError(t, writer.Close())
	data, err := fs.ReadFile("file.txt", 0)
	require.NoError(t, err)
	assert.Equal(t, "contents", string(data))
}

func TestInMemoryListFiles(t *testing.T) {
	fs := NewInMemoryFileSystem()
	require.NoError(t, fs.WriteFile("out/map-bin0-1.out", []byte("a")))
	require.NoError(t, fs.WriteFile("out/map-bin0-2.out", []byte("bb")))
	require.NoError(t, fs.WriteFile("out/map-bin1-1.out", []byte("c")))

	files, err := fs.ListFiles("out/map-bin0-*")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "out/map-bin0-1.out", files[0].Name)
	assert.Equal(t, int64(1), files[0].Size)
	assert.Equal(t, "out/map-bin0-2.out", files[1].Name)
	assert.Equal(t, int64(2), files[1].Size)
}

func TestInMemoryDelete(t *testing.T) {
	fs := NewInMemoryFileSystem()
	require.NoError(t, fs.WriteFile("file.txt", []byte("x")))
	require.NoError(t, fs.Delete("file.txt"))

	_, err := fs.ReadFile("file.txt", 0)
	assert.Error(t, err)
}

func TestInferFilesystem(t *testing.T) {
	fs, err := InferFilesystem("/tmp/data")
	require.NoError(t, err)
	assert.IsType(t, &LocalFileSystem{}, fs)
}
