package repository

import (
	"context"

	"beatbox/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VocalRepository defines the data operations for vocals.
type VocalRepository interface {
	List(ctx context.Context) ([]*model.Vocal, error)
	ListByBeatID(ctx context.Context, beatID uuid.UUID) ([]*model.Vocal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Vocal, error)
	Create(ctx context.Context, vocal *model.Vocal) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteByBeatID(ctx context.Context, beatID uuid.UUID) (int64, error)
	StoredNames(ctx context.Context) ([]string, error)
}

type gormVocalRepository struct {
	db *gorm.DB
}

// NewGormVocalRepository creates a VocalRepository backed by GORM.
func NewGormVocalRepository(db *gorm.DB) VocalRepository {
	return &gormVocalRepository{db: db}
}

func (r *gormVocalRepository) List(ctx context.Context) ([]*model.Vocal, error) {
	vocals := make([]*model.Vocal, 0)
	err := r.db.WithContext(ctx).Order("title ASC").Order("id ASC").Find(&vocals).Error
	return vocals, err
}

func (r *gormVocalRepository) ListByBeatID(ctx context.Context, beatID uuid.UUID) ([]*model.Vocal, error) {
	vocals := make([]*model.Vocal, 0)
	err := r.db.WithContext(ctx).
		Where("beat_id = ?", beatID).
		Order("title ASC").Order("id ASC").
		Find(&vocals).Error
	return vocals, err
}

func (r *gormVocalRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Vocal, error) {
	var vocal model.Vocal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&vocal).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &vocal, nil
}

func (r *gormVocalRepository) Create(ctx context.Context, vocal *model.Vocal) error {
	return r.db.WithContext(ctx).Create(vocal).Error
}

func (r *gormVocalRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Vocal{})
	return res.RowsAffected, res.Error
}

func (r *gormVocalRepository) DeleteByBeatID(ctx context.Context, beatID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("beat_id = ?", beatID).Delete(&model.Vocal{})
	return res.RowsAffected, res.Error
}

func (r *gormVocalRepository) StoredNames(ctx context.Context) ([]string, error) {
	return storedNames(ctx, r.db, model.Vocal{}.TableName(), "filename")
}
