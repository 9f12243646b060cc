package tags

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, tag *Tag) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tag, error)
	GetBySlug(ctx context.Context, slug string) (*Tag, error)
	GetByNames(ctx context.Context, names []string) ([]Tag, error)
	GetActive(ctx context.Context) ([]Tag, error)
	Update(ctx context.Context, tag *Tag) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, tag *Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Tag, error) {
	var tag Tag
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Tag, error) {
	var tag Tag
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *repository) GetByNames(ctx context.Context, names []string) ([]Tag, error) {
	var result []Tag
	if len(names) == 0 {
		return result, nil
	}
	err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&result).Error
	return result, err
}

func (r *repository) GetActive(ctx context.Context) ([]Tag, error) {
	var result []Tag
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&result).Error
	return result, err
}

func (r *repository) Update(ctx context.Context, tag *Tag) error {
	return r.db.WithContext(ctx).Save(tag).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Tag{}, "id = ?", id).Error
}
