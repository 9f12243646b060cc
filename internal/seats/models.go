package seats

import (
	"time"

	"github.com/google/uuid"
)

// Seat is one physical seat in a venue, belonging to a seat category.
type Seat struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VenueID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_venue_seat" json:"venue_id"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id"`
	SeatNumber string    `gorm:"not null;uniqueIndex:idx_venue_seat" json:"seat_number"`
	Row        string    `gorm:"not null" json:"row"`
	Position   int       `gorm:"not null" json:"position"`
	Status     string    `gorm:"type:varchar(20);check:status IN ('AVAILABLE', 'BLOCKED');default:'AVAILABLE'" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Seat) TableName() string {
	return "seats"
}

func (s *Seat) IsAvailable() bool {
	return s.Status == "AVAILABLE"
}

func (s *Seat) IsBlocked() bool {
	return s.Status == "BLOCKED"
}

// EffectiveStatus resolves the per-occurrence status shown to clients.
func (s *Seat) EffectiveStatus(isBooked, isHeld bool) string {
	if s.IsBlocked() {
		return "BLOCKED"
	}
	if isBooked {
		return "BOOKED"
	}
	if isHeld {
		return "HELD"
	}
	return "AVAILABLE"
}

func (s *Seat) ToResponse(price float64, categoryName string, isBooked, isHeld bool) SeatResponse {
	return SeatResponse{
		ID:           s.ID.String(),
		SeatNumber:   s.SeatNumber,
		Row:          s.Row,
		Position:     s.Position,
		CategoryName: categoryName,
		Status:       s.EffectiveStatus(isBooked, isHeld),
		Price:        price,
		IsHeld:       isHeld,
	}
}

type SeatResponse struct {
	ID           string  `json:"id"`
	SeatNumber   string  `json:"seat_number"`
	Row          string  `json:"row"`
	Position     int     `json:"position"`
	CategoryName string  `json:"category_name"`
	Status       string  `json:"status"`
	Price        float64 `json:"price"`
	IsHeld       bool    `json:"is_held"`
}

// SeatMapResponse groups a venue's seats by category for one occurrence.
type SeatMapResponse struct {
	VenueID      string            `json:"venue_id"`
	OccurrenceID string            `json:"occurrence_id"`
	Categories   []SeatMapCategory `json:"categories"`
	TotalSeats   int               `json:"total_seats"`
}

type SeatMapCategory struct {
	CategoryID     string         `json:"category_id"`
	Name           string         `json:"name"`
	Color          string         `json:"color"`
	BasePrice      float64        `json:"base_price"`
	ConvenienceFee float64        `json:"convenience_fee"`
	Seats          []SeatResponse `json:"seats"`
}

type CreateSeatsRequest struct {
	CategoryID  string `json:"category_id" binding:"required,uuid"`
	RowStart    string `json:"row_start" binding:"required,len=1"`
	RowEnd      string `json:"row_end" binding:"required,len=1"`
	SeatsPerRow int    `json:"seats_per_row" binding:"required,min=1,max=100"`
}

type UpdateSeatRequest struct {
	SeatNumber *string `json:"seat_number" binding:"omitempty"`
	Row        *string `json:"row" binding:"omitempty"`
	Position   *int    `json:"position" binding:"omitempty,min=1"`
	Status     *string `json:"status" binding:"omitempty,oneof=AVAILABLE BLOCKED"`
}

type SeatHoldRequest struct {
	OccurrenceID string   `json:"occurrence_id" binding:"required,uuid"`
	SeatIDs      []string `json:"seat_ids" binding:"required,min=1,max=10"`
}

type SeatHoldResponse struct {
	HoldID       string         `json:"hold_id"`
	OccurrenceID string         `json:"occurrence_id"`
	UserID       string         `json:"user_id"`
	Seats        []HeldSeatInfo `json:"seats"`
	TotalPrice   float64        `json:"total_price"`
	ExpiresAt    time.Time      `json:"expires_at"`
	TTL          int            `json:"ttl_seconds"`
}

type HeldSeatInfo struct {
	SeatID         string  `json:"seat_id"`
	SeatNumber     string  `json:"seat_number"`
	Row            string  `json:"row"`
	CategoryName   string  `json:"category_name"`
	Price          float64 `json:"price"`
	ConvenienceFee float64 `json:"convenience_fee"`
}

type HoldValidationResult struct {
	Valid   bool         `json:"valid"`
	Reason  string       `json:"reason,omitempty"`
	Details *HoldDetails `json:"details,omitempty"`
	TTL     int          `json:"ttl_seconds,omitempty"`
}

// HoldDetails is the Redis-side record of an active hold.
type HoldDetails struct {
	HoldID       string   `json:"hold_id"`
	UserID       string   `json:"user_id"`
	OccurrenceID string   `json:"occurrence_id"`
	SeatIDs      []string `json:"seat_ids"`
	TTL          int      `json:"ttl_seconds"`
}

type ExtendHoldRequest struct {
	Seconds int `json:"seconds" binding:"omitempty,min=30,max=600"`
}
