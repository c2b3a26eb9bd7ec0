package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repositories bundles the catalog repositories that share one *gorm.DB,
// either the pool or a single transaction.
type Repositories struct {
	db     *gorm.DB
	Beats  BeatRepository
	Vocals VocalRepository
	Tracks TrackRepository
}

// New builds the repositories on top of db.
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		db:     db,
		Beats:  NewGormBeatRepository(db),
		Vocals: NewGormVocalRepository(db),
		Tracks: NewGormTrackRepository(db),
	}
}

// Transaction runs fn with repositories bound to one transaction. The
// transaction commits when fn returns nil and rolls back otherwise, including
// on panic.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Ping checks that the database answers.
func (r *Repositories) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// notFoundAsNil follows the convention of returning (nil, nil) for a missing row.
func notFoundAsNil(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// storedNames flattens the file name columns of a table, skipping empty values.
func storedNames(ctx context.Context, db *gorm.DB, table string, columns ...string) ([]string, error) {
	var names []string
	for _, column := range columns {
		var values []string
		if err := db.WithContext(ctx).Table(table).Where(column+" <> ?", "").Pluck(column, &values).Error; err != nil {
			return nil, err
		}
		names = append(names, values...)
	}
	return names, nil
}
