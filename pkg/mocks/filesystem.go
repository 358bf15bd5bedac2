package mocks

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/user/x264go/pkg/ports"
)

// FileSystem is an in-memory ports.FileSystem. Created files appear in it
// when they are closed, the way osfilesystem publishes them.
type FileSystem struct {
	mu        sync.RWMutex
	files     map[string][]byte
	discarded []string

	ReadFileFunc func(path string) ([]byte, error)
	CreateFunc   func(path string) (ports.OutputFile, error)
}

// NewFileSystem creates an empty FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{files: make(map[string][]byte)}
}

func (m *FileSystem) ReadFile(path string) ([]byte, error) {
	if m.ReadFileFunc != nil {
		return m.ReadFileFunc(path)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if data, ok := m.files[path]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("file not found: %s", path)
}

func (m *FileSystem) Create(path string) (ports.OutputFile, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(path)
	}
	return &memFile{fs: m, path: path}, nil
}

// PutFile stores a file directly.
func (m *FileSystem) PutFile(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
}

// GetFile returns a published file.
func (m *FileSystem) GetFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	return data, ok
}

// Discarded lists the paths whose output was discarded, in order.
func (m *FileSystem) Discarded() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.discarded...)
}

type memFile struct {
	bytes.Buffer
	fs   *FileSystem
	path string
	done bool
}

func (f *memFile) Close() error {
	if f.done {
		return fmt.Errorf("file already closed: %s", f.path)
	}
	f.done = true
	f.fs.PutFile(f.path, f.Bytes())
	return nil
}

func (f *memFile) Discard() error {
	if f.done {
		return nil
	}
	f.done = true
	f.fs.mu.Lock()
	f.fs.discarded = append(f.fs.discarded, f.path)
	f.fs.mu.Unlock()
	return nil
}

var _ ports.FileSystem = (*FileSystem)(nil)
