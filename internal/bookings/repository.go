package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByRef(ctx context.Context, ref string) (*Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	GetAllBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) ([]Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, cancelledAt *time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create persists the booking and its items in one transaction.
func (r *repository) Create(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(booking).Error
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Preload("Items").First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByRef(ctx context.Context, ref string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Preload("Items").First(&booking, "booking_ref = ?", ref).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&Booking{}).Where("user_id = ?", userID)
	return r.paginate(q, query)
}

func (r *repository) GetAllBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&Booking{})
	return r.paginate(q, query)
}

func (r *repository) paginate(q *gorm.DB, query BookingListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var total int64

	if query.Status != "" {
		q = q.Where("status = ?", query.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := q.Preload("Items").
		Order("created_at desc").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (r *repository) GetByEventID(ctx context.Context, eventID uuid.UUID) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at desc").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, cancelledAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if cancelledAt != nil {
		updates["cancelled_at"] = cancelledAt
	}

	result := r.db.WithContext(ctx).Model(&Booking{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
