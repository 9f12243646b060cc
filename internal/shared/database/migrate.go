package database

import (
	"dexotix/internal/bookings"
	"dexotix/internal/cancellation"
	"dexotix/internal/events"
	"dexotix/internal/payments"
	"dexotix/internal/seats"
	"dexotix/internal/tags"
	"dexotix/internal/users"
	"dexotix/internal/venues"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&users.User{},
		&tags.Tag{},
		&venues.Venue{},
		&venues.SeatCategory{},
		&events.Event{},
		&events.EventOccurrence{},
		&seats.Seat{},
		&bookings.Booking{},
		&bookings.BookingItem{},
		&payments.Payment{},
		&cancellation.Cancellation{},
	); err != nil {
		return err
	}

	return MigrateConstraints(db)
}
