package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds constraints AutoMigrate cannot express.
func MigrateConstraints(db *gorm.DB) error {
	// A physical seat can be sold at most once per occurrence. This is the
	// database-level backstop behind the Redis hold flow.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_seat_per_occurrence
		ON booking_items (seat_id, occurrence_id)
		WHERE seat_id IS NOT NULL;
	`).Error
	if err != nil {
		return err
	}

	// Occurrence listing is always filtered by event and date.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_event_occurrences_event_date
		ON event_occurrences (event_id, starts_at);
	`).Error
	if err != nil {
		return err
	}

	// Booking lookups by occurrence drive availability counts.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_booking_items_occurrence
		ON booking_items (occurrence_id);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
