package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// File stores each key as a JSON file in a directory.
type File struct {
	dir string
}

// NewFile returns a store rooted at dir. The directory is created on first save.
func NewFile(dir string) *File { return &File{dir: dir} }

// Dir returns the directory of the store.
func (f *File) Dir() string { return f.dir }

func (f *File) path(key string) string { return filepath.Join(f.dir, key+".json") }

// Load reads the file of the key. A missing file reports fs.ErrNotExist.
func (f *File) Load(_ context.Context, key string) ([]byte, error) {
	return os.ReadFile(f.path(key))
}

// Save replaces the file of the key, through a temporary file renamed in place.
func (f *File) Save(_ context.Context, key string, data []byte) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("cannot create store directory: %w", err)
	}
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("cannot save %q: %w", key, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot save %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot save %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		return fmt.Errorf("cannot save %q: %w", key, err)
	}
	return nil
}

// Close does nothing.
func (f *File) Close() error { return nil }
