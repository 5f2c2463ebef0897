package wordfs

import (
	"fmt"
	"io"
	"path"
	"sort"
	"sync"

	"github.com/mattetti/filebuffer"
)

// InMemoryFileSystem keeps all files in process memory. It backs tests and
// embedded runs where spilling intermediate data to disk is unnecessary.
type InMemoryFileSystem struct {
	mu    sync.Mutex
	files map[string]*filebuffer.Buffer
}

// NewInMemoryFileSystem initializes an empty in-memory filesystem.
func NewInMemoryFileSystem() *InMemoryFileSystem {
	return &InMemoryFileSystem{
		files: make(map[string]*filebuffer.Buffer),
	}
}

// ListFiles lists files whose paths match pathGlob.
func (m *InMemoryFileSystem) ListFiles(pathGlob string) ([]FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	files := make([]FileInfo, 0)
	for name, buf := range m.files {
		matched, err := path.Match(pathGlob, name)
		if err != nil {
			return nil, err
		}
		if matched || name == pathGlob {
			files = append(files, FileInfo{
				Name: name,
				Size: int64(buf.Buff.Len()),
			})
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	return files, nil
}

// ReadFile reads the file at filePath skipping startAt bytes at the
// beginning.
func (m *InMemoryFileSystem) ReadFile(filePath string, startAt int64) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf, exists := m.files[filePath]
	if !exists {
		return nil, fmt.Errorf("no such file: %s", filePath)
	}

	contents := buf.Buff.Bytes()
	if startAt > int64(len(contents)) {
		return nil, io.ErrUnexpectedEOF
	}

	data := make([]byte, int64(len(contents))-startAt)
	copy(data, contents[startAt:])
	return data, nil
}

type memoryWriter struct {
	fs   *InMemoryFileSystem
	path string
	buf  *filebuffer.Buffer
}

func (w *memoryWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *memoryWriter) Close() error {
	w.fs.mu.Lock()
	defer w.fs.mu.Unlock()
	w.fs.files[w.path] = w.buf
	return nil
}

// OpenWriter opens a writer to the file at filePath. The file becomes
// visible when the writer is closed.
func (m *InMemoryFileSystem) OpenWriter(filePath string) (io.WriteCloser, error) {
	return &memoryWriter{
		fs:   m,
		path: filePath,
		buf:  filebuffer.New(nil),
	}, nil
}

// WriteFile writes data to the file at filePath, replacing any previous
// contents.
func (m *InMemoryFileSystem) WriteFile(filePath string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filePath] = filebuffer.New(data)
	return nil
}

// Delete deletes the file at filePath.
func (m *InMemoryFileSystem) Delete(filePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, filePath)
	return nil
}

// Init initializes the filesystem.
func (m *InMemoryFileSystem) Init() error {
	if m.files == nil {
		m.files = make(map[string]*filebuffer.Buffer)
	}
	return nil
}

// Join joins file path elements
func (m *InMemoryFileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}
