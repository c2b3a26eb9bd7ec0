package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// LocalBackend stores files under <root>/music/<dir>/<name>.
type LocalBackend struct {
	root string
}

// NewLocalBackend creates a filesystem backend rooted at root.
func NewLocalBackend(root string) *LocalBackend {
	return &LocalBackend{root: root}
}

func (b *LocalBackend) dirPath(dir string) string {
	return filepath.Join(b.root, RootDir, dir)
}

// Path returns the on-disk location of a stored file.
func (b *LocalBackend) Path(dir, name string) string {
	return filepath.Join(b.dirPath(dir), name)
}

func (b *LocalBackend) EnsureDir(ctx context.Context, dir string) error {
	return os.MkdirAll(b.dirPath(dir), 0755)
}

func (b *LocalBackend) Put(ctx context.Context, dir, name string, r io.Reader, size int64, contentType string) error {
	path := b.Path(dir, name)
	// O_EXCL: stored files are never replaced.
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", path, err)
	}

	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(path)
		return fmt.Errorf("failed to copy uploaded file to %s: %w", path, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func (b *LocalBackend) Open(ctx context.Context, dir, name string) (io.ReadSeekCloser, FileInfo, error) {
	path := b.Path(dir, name)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, FileInfo{}, ErrFileNotFound
		}
		return nil, FileInfo{}, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, FileInfo{}, err
	}
	if st.IsDir() {
		f.Close()
		return nil, FileInfo{}, ErrFileNotFound
	}
	return f, FileInfo{Name: name, Size: st.Size(), ModTime: st.ModTime()}, nil
}

func (b *LocalBackend) Remove(ctx context.Context, dir, name string) error {
	if err := os.Remove(b.Path(dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (b *LocalBackend) List(ctx context.Context, dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(b.dirPath(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // removed while listing
		}
		files = append(files, FileInfo{Name: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
