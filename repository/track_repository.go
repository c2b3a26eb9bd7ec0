package repository

import (
	"context"

	"beatbox/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrackRepository defines the data operations for tracks.
type TrackRepository interface {
	List(ctx context.Context) ([]*model.Track, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Track, error)
	// ListReferencing returns the tracks built on the beat or on any of the vocals.
	ListReferencing(ctx context.Context, beatID uuid.UUID, vocalIDs []uuid.UUID) ([]*model.Track, error)
	Create(ctx context.Context, track *model.Track) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
	StoredNames(ctx context.Context) ([]string, error)
}

type gormTrackRepository struct {
	db *gorm.DB
}

// NewGormTrackRepository creates a TrackRepository backed by GORM.
func NewGormTrackRepository(db *gorm.DB) TrackRepository {
	return &gormTrackRepository{db: db}
}

func (r *gormTrackRepository) List(ctx context.Context) ([]*model.Track, error) {
	tracks := make([]*model.Track, 0)
	err := r.db.WithContext(ctx).Order("title ASC").Order("id ASC").Find(&tracks).Error
	return tracks, err
}

func (r *gormTrackRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Track, error) {
	var track model.Track
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&track).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &track, nil
}

func (r *gormTrackRepository) ListReferencing(ctx context.Context, beatID uuid.UUID, vocalIDs []uuid.UUID) ([]*model.Track, error) {
	tracks := make([]*model.Track, 0)
	query := r.db.WithContext(ctx)
	if beatID != uuid.Nil && len(vocalIDs) > 0 {
		query = query.Where("beat_id = ? OR vocal_id IN ?", beatID, vocalIDs)
	} else if beatID != uuid.Nil {
		query = query.Where("beat_id = ?", beatID)
	} else if len(vocalIDs) > 0 {
		query = query.Where("vocal_id IN ?", vocalIDs)
	} else {
		return tracks, nil
	}
	err := query.Order("id ASC").Find(&tracks).Error
	return tracks, err
}

func (r *gormTrackRepository) Create(ctx context.Context, track *model.Track) error {
	return r.db.WithContext(ctx).Create(track).Error
}

func (r *gormTrackRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Track{})
	return res.RowsAffected, res.Error
}

func (r *gormTrackRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Track{})
	return res.RowsAffected, res.Error
}

func (r *gormTrackRepository) StoredNames(ctx context.Context) ([]string, error) {
	return storedNames(ctx, r.db, model.Track{}.TableName(), "filename", "img_path")
}
