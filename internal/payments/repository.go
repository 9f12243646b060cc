package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	GetByOrderID(ctx context.Context, orderID string) (*Payment, error)
	GetActiveByBookingID(ctx context.Context, bookingID uuid.UUID) (*Payment, error)
	GetPaidByBookingID(ctx context.Context, bookingID uuid.UUID) (*Payment, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, payment *Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	var payment Payment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) GetByOrderID(ctx context.Context, orderID string) (*Payment, error) {
	var payment Payment
	if err := r.db.WithContext(ctx).First(&payment, "gateway_order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetActiveByBookingID returns the most recent non-failed payment for a
// booking, used to avoid creating duplicate gateway orders.
func (r *repository) GetActiveByBookingID(ctx context.Context, bookingID uuid.UUID) (*Payment, error) {
	var payment Payment
	err := r.db.WithContext(ctx).
		Where("booking_id = ? AND status IN ?", bookingID, []PaymentStatus{PaymentCreated, PaymentPaid}).
		Order("created_at DESC").
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) GetPaidByBookingID(ctx context.Context, bookingID uuid.UUID) (*Payment, error) {
	var payment Payment
	err := r.db.WithContext(ctx).
		Where("booking_id = ? AND status = ?", bookingID, PaymentPaid).
		Order("created_at DESC").
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&Payment{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
