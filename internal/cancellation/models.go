package cancellation

import (
	"time"

	"github.com/google/uuid"
)

type CancellationStatus string

const (
	CancellationRequested CancellationStatus = "REQUESTED"
	CancellationApproved  CancellationStatus = "APPROVED"
	CancellationRejected  CancellationStatus = "REJECTED"
)

// Cancellation is a refund request for a confirmed booking. Pending bookings
// are cancelled directly without one; confirmed bookings go through this
// admin-reviewed workflow because money has changed hands.
type Cancellation struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"booking_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Reason       string             `gorm:"type:varchar(500)" json:"reason"`
	Status       CancellationStatus `gorm:"type:varchar(20);default:'REQUESTED'" json:"status"`
	RefundAmount float64            `json:"refund_amount"`
	AdminNote    string             `gorm:"type:varchar(500)" json:"admin_note,omitempty"`

	ProcessedBy *uuid.UUID `gorm:"type:uuid" json:"processed_by,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Cancellation) TableName() string {
	return "cancellations"
}

type RequestCancellationRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
	Reason    string `json:"reason" binding:"required,min=5,max=500"`
}

type ProcessCancellationRequest struct {
	AdminNote string `json:"admin_note" binding:"max=500"`
}

type CancellationResponse struct {
	ID           string     `json:"id"`
	BookingID    string     `json:"booking_id"`
	UserID       string     `json:"user_id"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status"`
	RefundAmount float64    `json:"refund_amount"`
	AdminNote    string     `json:"admin_note,omitempty"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (c *Cancellation) ToResponse() CancellationResponse {
	return CancellationResponse{
		ID:           c.ID.String(),
		BookingID:    c.BookingID.String(),
		UserID:       c.UserID.String(),
		Reason:       c.Reason,
		Status:       string(c.Status),
		RefundAmount: c.RefundAmount,
		AdminNote:    c.AdminNote,
		ProcessedAt:  c.ProcessedAt,
		CreatedAt:    c.CreatedAt,
	}
}
