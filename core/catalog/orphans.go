package catalog

import (
	"context"
	"fmt"
	"time"

	"beatbox/logger"
	"beatbox/storage"
)

// Orphan is a stored file that no catalog row references.
type Orphan struct {
	Dir  string
	File storage.FileInfo
}

// Files lists what is stored in each kind directory.
func (c *Catalog) Files(ctx context.Context) (map[string][]storage.FileInfo, error) {
	out := make(map[string][]storage.FileInfo, len(storage.Dirs))
	for _, dir := range storage.Dirs {
		files, err := c.deps.files.List(ctx, dir)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", dir, err)
		}
		out[dir] = files
	}
	return out, nil
}

// Orphans finds stored files that no row points at, such as leftovers of a
// crash between a write and its insert. Files younger than minAge are skipped
// so uploads still in flight are not reported.
func (c *Catalog) Orphans(ctx context.Context, minAge time.Duration) ([]Orphan, error) {
	referenced := map[string]func(context.Context) ([]string, error){
		storage.BeatsDir:  c.deps.repos.Beats.StoredNames,
		storage.VocalsDir: c.deps.repos.Vocals.StoredNames,
		storage.TracksDir: c.deps.repos.Tracks.StoredNames,
	}

	cutoff := time.Now().Add(-minAge)
	var orphans []Orphan
	for _, dir := range storage.Dirs {
		names, err := referenced[dir](ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s references: %w", dir, err)
		}
		known := make(map[string]struct{}, len(names))
		for _, n := range names {
			known[n] = struct{}{}
		}

		files, err := c.deps.files.List(ctx, dir)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", dir, err)
		}
		for _, f := range files {
			if _, ok := known[f.Name]; ok {
				continue
			}
			if minAge > 0 && f.ModTime.After(cutoff) {
				continue
			}
			orphans = append(orphans, Orphan{Dir: dir, File: f})
		}
	}
	return orphans, nil
}

// Prune deletes the given orphans and returns how many were removed.
func (c *Catalog) Prune(ctx context.Context, orphans []Orphan) (int, error) {
	removed := 0
	for _, o := range orphans {
		if err := c.deps.files.Delete(ctx, o.Dir, o.File.Name, storage.Strict); err != nil {
			return removed, err
		}
		removed++
		logger.Info("pruned orphan file",
			logger.String("dir", o.Dir),
			logger.String("name", o.File.Name))
	}
	return removed, nil
}
