// Package catalog implements the beat, vocal and track operations on top of
// the repositories and the file store.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"beatbox/logger"
	"beatbox/model"
	"beatbox/repository"
	"beatbox/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Catalog groups the per-kind services. They share one repository set, one
// file store and one deletion policy.
type Catalog struct {
	Beats  *BeatService
	Vocals *VocalService
	Tracks *TrackService

	deps *deps
}

type deps struct {
	repos  *repository.Repositories
	files  *storage.FileStore
	policy storage.DeletePolicy
}

// New wires the services.
func New(repos *repository.Repositories, files *storage.FileStore, policy storage.DeletePolicy) *Catalog {
	d := &deps{repos: repos, files: files, policy: policy}
	return &Catalog{
		Beats:  &BeatService{d},
		Vocals: &VocalService{d},
		Tracks: &TrackService{d},
		deps:   d,
	}
}

// Ping reports whether the database is reachable.
func (c *Catalog) Ping(ctx context.Context) error {
	return c.deps.repos.Ping(ctx)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	return nil
}

func requiredFile(field string, up storage.Upload) error {
	if up.Body == nil {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	return nil
}

func requiredID(field string, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	return nil
}

// insertError turns a failed insert into the catalog taxonomy.
func insertError(err error, refs string) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%w: %s must reference existing rows", ErrInvalidInput, refs)
	}
	return err
}

// create stores the uploads, then inserts the row. Files written for a row
// that fails to insert are removed again.
func (d *deps) create(ctx context.Context, dir string, items []storage.Item, insert func(tx *repository.Repositories, names []string) error) error {
	names, err := d.files.StoreAll(ctx, dir, items)
	if err != nil {
		return err
	}
	err = d.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		return insert(tx, names)
	})
	if err != nil {
		d.files.Discard(dir, names...)
		return err
	}
	return nil
}

// removeFiles deletes stored files in dir under the configured policy.
func (d *deps) removeFiles(ctx context.Context, dir string, names ...string) error {
	for _, name := range names {
		if err := d.files.Delete(ctx, dir, name, d.policy); err != nil {
			return err
		}
	}
	return nil
}

// removeTracks deletes the files, then the rows, of tracks being cascaded.
func (d *deps) removeTracks(ctx context.Context, tx *repository.Repositories, tracks []*model.Track) error {
	if len(tracks) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(tracks))
	for _, t := range tracks {
		if err := d.removeFiles(ctx, storage.TracksDir, t.Filename, t.ImgPath); err != nil {
			return err
		}
		ids = append(ids, t.ID)
	}
	if _, err := tx.Tracks.DeleteByIDs(ctx, ids); err != nil {
		return fmt.Errorf("failed to delete dependent tracks: %w", err)
	}
	return nil
}

// open looks a stored file up and maps a missing file to ErrNotFound.
func (d *deps) open(ctx context.Context, dir, name string, kind storage.Kind) (*storage.Object, error) {
	obj, err := d.files.Retrieve(ctx, dir, name, kind)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			logger.Warn("stored file missing",
				logger.String("dir", dir),
				logger.String("name", name))
		}
		return nil, err
	}
	return obj, nil
}
