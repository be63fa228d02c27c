package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore owns the on-disk bytes of one conversion request: the
// uploaded inputs and any intermediate artifacts a composer produces.
// Paths handed out by the store are globally unique, so concurrent
// requests never collide.
type FileStore interface {
	// Save persists the reader's bytes and returns the file id and path.
	Save(r io.Reader, ext string) (id string, path string, err error)
	// Allocate reserves a unique path for an artifact the caller will write.
	Allocate(ext string) (path string, err error)
	Remove(path string) error
}

// DiskStore is the FileStore used in production, one flat directory
// with uuid-named files.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Save(r io.Reader, ext string) (string, string, error) {
	id := uuid.NewString()
	path := filepath.Join(s.dir, id+ext)

	f, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to create stored file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", "", fmt.Errorf("failed to write stored file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("failed to close stored file: %w", err)
	}

	return id, path, nil
}

func (s *DiskStore) Allocate(ext string) (string, error) {
	return filepath.Join(s.dir, uuid.NewString()+ext), nil
}

// Dir reports the directory the store writes into.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
