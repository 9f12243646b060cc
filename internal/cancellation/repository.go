package cancellation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, cancellation *Cancellation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Cancellation, error)
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Cancellation, error)
	GetPending(ctx context.Context) ([]Cancellation, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]Cancellation, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, cancellation *Cancellation) error {
	return r.db.WithContext(ctx).Create(cancellation).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Cancellation, error) {
	var cancellation Cancellation
	if err := r.db.WithContext(ctx).First(&cancellation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cancellation, nil
}

func (r *repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Cancellation, error) {
	var cancellation Cancellation
	if err := r.db.WithContext(ctx).First(&cancellation, "booking_id = ?", bookingID).Error; err != nil {
		return nil, err
	}
	return &cancellation, nil
}

func (r *repository) GetPending(ctx context.Context) ([]Cancellation, error) {
	var cancellations []Cancellation
	err := r.db.WithContext(ctx).
		Where("status = ?", CancellationRequested).
		Order("created_at ASC").
		Find(&cancellations).Error
	return cancellations, err
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]Cancellation, error) {
	var cancellations []Cancellation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&cancellations).Error
	return cancellations, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&Cancellation{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
