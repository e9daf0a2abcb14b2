package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotExist is returned by Read when no document has been written yet.
var ErrNotExist = errors.New("document does not exist")

// Blob persists a single named document as opaque bytes.
type Blob interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
}

// FileBlob keeps the document in one file on local disk.
type FileBlob struct {
	path string
}

// NewFileBlob ensures the parent directory exists and returns a handle.
func NewFileBlob(path string) (*FileBlob, error) {
	if path == "" {
		path = "./data/db.json"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileBlob{path: path}, nil
}

// Read returns the stored bytes or ErrNotExist.
func (b *FileBlob) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("read document: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNotExist
	}
	return data, nil
}

// Write replaces the document atomically: a reader sees either the previous
// or the new content, never a torn file.
func (b *FileBlob) Write(_ context.Context, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(b.path), filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp document: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

// Close is a no-op; files are opened per operation.
func (b *FileBlob) Close() error {
	return nil
}

// Path exposes the underlying path (useful for debugging).
func (b *FileBlob) Path() string {
	return b.path
}
