package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"beatbox/config"
)

// FileInfo describes one stored file.
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Backend is the place bytes live. dir is one of the per-kind directories and
// name a bare file name; backends map the pair onto their own layout.
type Backend interface {
	// EnsureDir prepares dir for writes. It must be idempotent.
	EnsureDir(ctx context.Context, dir string) error
	// Put writes a new file and fails if the name is already taken.
	Put(ctx context.Context, dir, name string, r io.Reader, size int64, contentType string) error
	// Open returns ErrFileNotFound when the file does not exist.
	Open(ctx context.Context, dir, name string) (io.ReadSeekCloser, FileInfo, error)
	// Remove deletes the file. A missing file is not an error.
	Remove(ctx context.Context, dir, name string) error
	List(ctx context.Context, dir string) ([]FileInfo, error)
}

// NewBackend picks the backend named by STORAGE_BACKEND.
func NewBackend(cfg *config.Config) (Backend, error) {
	switch cfg.StorageBackend {
	case config.StorageLocal, "":
		return NewLocalBackend(cfg.MediaRoot), nil
	case config.StorageMinio:
		b, err := NewMinioBackend(cfg)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
