package venues

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Venues
	Create(ctx context.Context, venue *Venue) error
	GetByID(ctx context.Context, id uuid.UUID) (*Venue, error)
	GetByName(ctx context.Context, name string) (*Venue, error)
	List(ctx context.Context, filters VenueFilters) ([]Venue, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Seat categories
	CreateSeatCategory(ctx context.Context, category *SeatCategory) error
	GetSeatCategoryByID(ctx context.Context, id uuid.UUID) (*SeatCategory, error)
	GetSeatCategoriesByVenueID(ctx context.Context, venueID uuid.UUID) ([]SeatCategory, error)
	GetSeatCategoryByName(ctx context.Context, venueID uuid.UUID, name string) (*SeatCategory, error)
	UpdateSeatCategory(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteSeatCategory(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, venue *Venue) error {
	return r.db.WithContext(ctx).Create(venue).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Venue, error) {
	var venue Venue
	err := r.db.WithContext(ctx).Preload("SeatCategories").First(&venue, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

func (r *repository) GetByName(ctx context.Context, name string) (*Venue, error) {
	var venue Venue
	err := r.db.WithContext(ctx).First(&venue, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

func (r *repository) List(ctx context.Context, filters VenueFilters) ([]Venue, int64, error) {
	var venues []Venue
	var total int64

	query := r.db.WithContext(ctx).Model(&Venue{})

	if filters.Search != "" {
		searchPattern := fmt.Sprintf("%%%s%%", filters.Search)
		query = query.Where("name ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}
	if filters.City != "" {
		query = query.Where("city ILIKE ?", filters.City)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	sortOrder := filters.SortOrder
	if sortOrder == "" {
		sortOrder = "desc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	offset := (filters.Page - 1) * filters.Limit
	if err := query.Offset(offset).Limit(filters.Limit).Find(&venues).Error; err != nil {
		return nil, 0, err
	}

	return venues, total, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&Venue{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Venue{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreateSeatCategory(ctx context.Context, category *SeatCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *repository) GetSeatCategoryByID(ctx context.Context, id uuid.UUID) (*SeatCategory, error) {
	var category SeatCategory
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repository) GetSeatCategoriesByVenueID(ctx context.Context, venueID uuid.UUID) ([]SeatCategory, error) {
	var categories []SeatCategory
	err := r.db.WithContext(ctx).Where("venue_id = ?", venueID).Order("base_price desc").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repository) GetSeatCategoryByName(ctx context.Context, venueID uuid.UUID, name string) (*SeatCategory, error) {
	var category SeatCategory
	err := r.db.WithContext(ctx).First(&category, "venue_id = ? AND name = ?", venueID, name).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repository) UpdateSeatCategory(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&SeatCategory{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) DeleteSeatCategory(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&SeatCategory{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
