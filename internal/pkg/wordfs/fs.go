package wordfs

import (
	"io"
	"strings"
)

// FileSystem provides the file operations the engine needs to read input
// splits and persist intermediate and final output.
type FileSystem interface {
	ListFiles(pathGlob string) ([]FileInfo, error)
	ReadFile(filePath string, startAt int64) ([]byte, error)
	OpenWriter(filePath string) (io.WriteCloser, error)
	WriteFile(filePath string, data []byte) error
	Delete(filePath string) error
	Join(elem ...string) string
	Init() error
}

// FileInfo provides information about a file
type FileInfo struct {
	Name string // file path
	Size int64  // file size in bytes
}

// FileSystemType is an identifier for supported FileSystems
type FileSystemType int

// Identifiers for supported FileSystemTypes
const (
	Local FileSystemType = iota
	S3
	InMemory
)

// InitFilesystem initializes a filesystem of the given type
func InitFilesystem(fsType FileSystemType) (FileSystem, error) {
	var fs FileSystem
	switch fsType {
	case Local:
		fs = &LocalFileSystem{}
	case S3:
		fs = &S3FileSystem{}
	case InMemory:
		fs = NewInMemoryFileSystem()
	}

	if err := fs.Init(); err != nil {
		return nil, err
	}
	return fs, nil
}

// InferFilesystem initializes a filesystem by inferring its type from
// a file address. For example, locations starting with "s3://" are
// assumed to be in S3.
func InferFilesystem(location string) (FileSystem, error) {
	if strings.HasPrefix(location, "s3://") {
		return InitFilesystem(S3)
	}
	return InitFilesystem(Local)
}
