package bookings

import (
	"time"

	"dexotix/internal/pricing"

	"github.com/google/uuid"
)

// Booking is one checkout, GA or reserved, for a single occurrence. The four
// reconciled fields (TicketCount, BasePrice, ConvenienceFee, TotalPrice) are
// always written together from one reconciliation pass.
type Booking struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	EventID      uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`
	OccurrenceID uuid.UUID `gorm:"type:uuid;index;not null" json:"occurrence_id"`

	TicketCount    int     `gorm:"not null" json:"ticket_count"`
	BasePrice      float64 `gorm:"not null" json:"base_price"`
	ConvenienceFee float64 `gorm:"not null" json:"convenience_fee"`
	TotalPrice     float64 `gorm:"not null" json:"total_price"`

	Status      Status     `gorm:"type:varchar(20);check:status IN ('PENDING', 'CONFIRMED', 'CANCELLED');default:'PENDING'" json:"status"`
	BookingRef  string     `gorm:"unique;not null" json:"booking_ref"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	Items []BookingItem `json:"items,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
}

func (Booking) TableName() string {
	return "bookings"
}

// BookingItem is one priced line of a booking: a GA category tier or a single
// reserved seat (SeatID set). Fallback-total bookings carry no items.
type BookingItem struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"booking_id"`
	OccurrenceID uuid.UUID  `gorm:"type:uuid;index;not null" json:"occurrence_id"`
	SeatID       *uuid.UUID `gorm:"type:uuid" json:"seat_id,omitempty"`
	SeatNumber   string     `json:"seat_number,omitempty"`
	CategoryName string     `gorm:"not null" json:"category_name"`

	Quantity           int     `gorm:"not null" json:"quantity"`
	UnitBasePrice      float64 `gorm:"not null" json:"unit_base_price"`
	UnitConvenienceFee float64 `gorm:"not null" json:"unit_convenience_fee"`
	LineTotal          float64 `gorm:"not null" json:"line_total"`

	CreatedAt time.Time `json:"created_at"`
}

func (BookingItem) TableName() string {
	return "booking_items"
}

func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CheckoutRequest carries exactly one pricing path. When more than one is
// present, tickets take precedence over the seat hold, which takes precedence
// over the fallback total.
type CheckoutRequest struct {
	OccurrenceID string                    `json:"occurrence_id" binding:"required,uuid"`
	Tickets      []pricing.TicketSelection `json:"tickets,omitempty"`
	HoldID       string                    `json:"hold_id,omitempty"`
	Fallback     *pricing.FallbackTotal    `json:"fallback_total,omitempty"`
}

type BookingResponse struct {
	ID           string `json:"id"`
	BookingRef   string `json:"booking_ref"`
	EventID      string `json:"event_id"`
	OccurrenceID string `json:"occurrence_id"`
	Status       string `json:"status"`

	TicketCount    int     `json:"ticket_count"`
	BasePrice      float64 `json:"base_price"`
	ConvenienceFee float64 `json:"convenience_fee"`
	TotalPrice     float64 `json:"total_price"`

	Items     []BookingItemResponse `json:"items"`
	CreatedAt time.Time             `json:"created_at"`
}

type BookingItemResponse struct {
	SeatID             string  `json:"seat_id,omitempty"`
	SeatNumber         string  `json:"seat_number,omitempty"`
	CategoryName       string  `json:"category_name"`
	Quantity           int     `json:"quantity"`
	UnitBasePrice      float64 `json:"unit_base_price"`
	UnitConvenienceFee float64 `json:"unit_convenience_fee"`
	LineTotal          float64 `json:"line_total"`
}

type BookingListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status string `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED CANCELLED"`
}

type PaginatedBookings struct {
	Bookings   []BookingResponse `json:"bookings"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

func (b *Booking) ToResponse() BookingResponse {
	resp := BookingResponse{
		ID:             b.ID.String(),
		BookingRef:     b.BookingRef,
		EventID:        b.EventID.String(),
		OccurrenceID:   b.OccurrenceID.String(),
		Status:         b.Status.String(),
		TicketCount:    b.TicketCount,
		BasePrice:      b.BasePrice,
		ConvenienceFee: b.ConvenienceFee,
		TotalPrice:     b.TotalPrice,
		Items:          []BookingItemResponse{},
		CreatedAt:      b.CreatedAt,
	}

	for _, item := range b.Items {
		itemResp := BookingItemResponse{
			SeatNumber:         item.SeatNumber,
			CategoryName:       item.CategoryName,
			Quantity:           item.Quantity,
			UnitBasePrice:      item.UnitBasePrice,
			UnitConvenienceFee: item.UnitConvenienceFee,
			LineTotal:          item.LineTotal,
		}
		if item.SeatID != nil {
			itemResp.SeatID = item.SeatID.String()
		}
		resp.Items = append(resp.Items, itemResp)
	}

	return resp
}
