package venues

import (
	"time"

	"github.com/google/uuid"
)

type Venue struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string    `gorm:"not null"`
	Address     string
	City        string `gorm:"index;not null"`
	State       string
	Capacity    int
	Description string
	IsActive    bool      `gorm:"default:true"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	SeatCategories []SeatCategory `gorm:"foreignKey:VenueID;constraint:OnDelete:CASCADE"`
}

// SeatCategory is a per-venue pricing tier. Both general-admission ticket
// tiers and reserved-seat fallback pricing resolve against these rows.
type SeatCategory struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	VenueID        uuid.UUID `gorm:"type:uuid;not null;index:idx_seat_category_venue_name,unique"`
	Name           string    `gorm:"not null;index:idx_seat_category_venue_name,unique"`
	Color          string
	BasePrice      float64 `gorm:"not null"`
	ConvenienceFee float64 `gorm:"default:0"`
	Capacity       int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (SeatCategory) TableName() string {
	return "seat_categories"
}
