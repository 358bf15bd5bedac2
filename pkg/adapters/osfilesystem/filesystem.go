// Package osfilesystem implements ports.FileSystem on the local disk.
// Outputs are staged in a hidden temp file next to the target and renamed
// into place on Close.
package osfilesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/x264go/pkg/ports"
)

const filePerm = 0644

// FileSystem implements ports.FileSystem.
type FileSystem struct{}

// New creates a new FileSystem.
func New() *FileSystem {
	return &FileSystem{}
}

// ReadFile implements ports.FileSystem.
func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Create implements ports.FileSystem.
func (fs *FileSystem) Create(path string) (ports.OutputFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, err
	}
	return &stagedFile{tmp: tmp, path: path}, nil
}

// stagedFile writes to tmp and renames it over path on Close.
type stagedFile struct {
	tmp  *os.File
	path string
	done bool
}

func (f *stagedFile) Write(p []byte) (int, error) {
	if f.done {
		return 0, os.ErrClosed
	}
	return f.tmp.Write(p)
}

func (f *stagedFile) Close() error {
	if f.done {
		return os.ErrClosed
	}
	f.done = true

	name := f.tmp.Name()
	err := errors.Join(f.tmp.Sync(), f.tmp.Close(), os.Chmod(name, filePerm))
	if err == nil {
		err = os.Rename(name, f.path)
	}
	if err != nil {
		os.Remove(name)
		return fmt.Errorf("publish %s: %w", f.path, err)
	}
	return nil
}

func (f *stagedFile) Discard() error {
	if f.done {
		return nil
	}
	f.done = true
	f.tmp.Close()
	return os.Remove(f.tmp.Name())
}

var _ ports.FileSystem = (*FileSystem)(nil)
