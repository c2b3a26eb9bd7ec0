package repository

import (
	"context"

	"beatbox/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BeatRepository defines the data operations for beats.
type BeatRepository interface {
	List(ctx context.Context) ([]*model.Beat, error)
	// GetByID returns nil without error when the beat does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Beat, error)
	Create(ctx context.Context, beat *model.Beat) error
	// Delete returns the number of removed rows.
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	StoredNames(ctx context.Context) ([]string, error)
}

type gormBeatRepository struct {
	db *gorm.DB
}

// NewGormBeatRepository creates a BeatRepository backed by GORM.
func NewGormBeatRepository(db *gorm.DB) BeatRepository {
	return &gormBeatRepository{db: db}
}

func (r *gormBeatRepository) List(ctx context.Context) ([]*model.Beat, error) {
	beats := make([]*model.Beat, 0)
	err := r.db.WithContext(ctx).Order("title ASC").Order("id ASC").Find(&beats).Error
	return beats, err
}

func (r *gormBeatRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Beat, error) {
	var beat model.Beat
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&beat).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &beat, nil
}

func (r *gormBeatRepository) Create(ctx context.Context, beat *model.Beat) error {
	return r.db.WithContext(ctx).Create(beat).Error
}

func (r *gormBeatRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Beat{})
	return res.RowsAffected, res.Error
}

// StoredNames lists every audio and image file name referenced by a beat.
func (r *gormBeatRepository) StoredNames(ctx context.Context) ([]string, error) {
	return storedNames(ctx, r.db, model.Beat{}.TableName(), "filename", "img_path")
}
