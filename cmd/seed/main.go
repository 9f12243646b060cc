package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"dexotix/internal/events"
	"dexotix/internal/seats"
	"dexotix/internal/shared/config"
	"dexotix/internal/shared/database"
	"dexotix/internal/tags"
	"dexotix/internal/users"
	"dexotix/internal/venues"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting Dexotix database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\nCleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("\nSeeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("\nSeeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"cancellations",
		"payments",
		"booking_items",
		"bookings",
		"event_tags",
		"event_occurrences",
		"events",
		"seats",
		"seat_categories",
		"venues",
		"tags",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	tagIDs, err := s.SeedTags(userIDs["admin"])
	if err != nil {
		return fmt.Errorf("failed to seed tags: %w", err)
	}

	venueIDs, categoryIDs, err := s.SeedVenues(userIDs["admin"])
	if err != nil {
		return fmt.Errorf("failed to seed venues: %w", err)
	}

	if err := s.SeedSeats(venueIDs["theatre"], categoryIDs); err != nil {
		return fmt.Errorf("failed to seed seats: %w", err)
	}

	if err := s.SeedEvents(userIDs["admin"], venueIDs, tagIDs); err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	// Fresh cache after reseeding.
	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: failed to clear Redis cache: %v", err)
		}
	}

	return nil
}

// SeedUsers creates one admin and two regular users. All use password "qwerty".
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key       string
		firstName string
		lastName  string
		email     string
		city      string
		role      users.Role
	}{
		{"admin", "Admin", "User", "admin@dexotix.in", "Mumbai", users.RoleAdmin},
		{"user1", "Asha", "Verma", "asha.verma@example.com", "Pune", users.RoleUser},
		{"user2", "Rohan", "Iyer", "rohan.iyer@example.com", "Bengaluru", users.RoleUser},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			FirstName: userData.firstName,
			LastName:  userData.lastName,
			Email:     userData.email,
			City:      userData.city,
			Password:  string(hashedPassword),
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

func (s *Seeder) SeedTags(adminID uuid.UUID) ([]uuid.UUID, error) {
	fmt.Println("  Seeding tags...")

	var tagIDs []uuid.UUID

	tagsData := []struct {
		name        string
		description string
		color       string
	}{
		{"Music", "Concerts and live performances", "#EF4444"},
		{"Comedy", "Stand-up and improv shows", "#F59E0B"},
		{"Theatre", "Plays and stage productions", "#8B5CF6"},
		{"Sports", "Matches and tournaments", "#10B981"},
		{"Workshops", "Hands-on learning sessions", "#3B82F6"},
	}

	for _, tagData := range tagsData {
		tag := tags.Tag{
			ID:          uuid.New(),
			Name:        tagData.name,
			Slug:        strings.ToLower(strings.ReplaceAll(tagData.name, " ", "-")),
			Description: tagData.description,
			Color:       tagData.color,
			IsActive:    true,
			CreatedBy:   adminID,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&tag).Error; err != nil {
			return nil, fmt.Errorf("failed to create tag %s: %w", tag.Name, err)
		}

		tagIDs = append(tagIDs, tag.ID)
		fmt.Printf("    Created tag: %s\n", tag.Name)
	}

	return tagIDs, nil
}

// SeedVenues creates one reserved-seating theatre and one general-admission
// grounds, each with pricing categories.
func (s *Seeder) SeedVenues(adminID uuid.UUID) (map[string]uuid.UUID, map[string]uuid.UUID, error) {
	fmt.Println("  Seeding venues...")

	venueIDs := make(map[string]uuid.UUID)
	categoryIDs := make(map[string]uuid.UUID)

	theatre := venues.Venue{
		ID:          uuid.New(),
		Name:        "Prithvi Hall",
		Address:     "Juhu Church Road",
		City:        "Mumbai",
		State:       "Maharashtra",
		Capacity:    60,
		Description: "Intimate theatre with premium and standard seating",
		IsActive:    true,
		CreatedBy:   adminID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.db.PostgreSQL.Create(&theatre).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create venue %s: %w", theatre.Name, err)
	}
	venueIDs["theatre"] = theatre.ID
	fmt.Printf("    Created venue: %s\n", theatre.Name)

	grounds := venues.Venue{
		ID:          uuid.New(),
		Name:        "Palace Grounds Arena",
		Address:     "Bellary Road",
		City:        "Bengaluru",
		State:       "Karnataka",
		Capacity:    5000,
		Description: "Open-air grounds for large general-admission shows",
		IsActive:    true,
		CreatedBy:   adminID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.db.PostgreSQL.Create(&grounds).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create venue %s: %w", grounds.Name, err)
	}
	venueIDs["grounds"] = grounds.ID
	fmt.Printf("    Created venue: %s\n", grounds.Name)

	categories := []struct {
		key            string
		venueID        uuid.UUID
		name           string
		color          string
		basePrice      float64
		convenienceFee float64
		capacity       int
	}{
		{"theatre_premium", theatre.ID, "Premium", "#D4AF37", 750, 75, 20},
		{"theatre_standard", theatre.ID, "Standard", "#9CA3AF", 400, 40, 40},
		{"grounds_vip", grounds.ID, "VIP", "#D4AF37", 2500, 250, 500},
		{"grounds_general", grounds.ID, "General", "#9CA3AF", 999, 99, 4500},
	}

	for _, c := range categories {
		category := venues.SeatCategory{
			ID:             uuid.New(),
			VenueID:        c.venueID,
			Name:           c.name,
			Color:          c.color,
			BasePrice:      c.basePrice,
			ConvenienceFee: c.convenienceFee,
			Capacity:       c.capacity,
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		}
		if err := s.db.PostgreSQL.Create(&category).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to create seat category %s: %w", c.name, err)
		}
		categoryIDs[c.key] = category.ID
		fmt.Printf("    Created seat category: %s (₹%.0f + ₹%.0f fee)\n", c.name, c.basePrice, c.convenienceFee)
	}

	return venueIDs, categoryIDs, nil
}

// SeedSeats lays out the theatre: rows A-B premium, rows C-F standard, ten
// seats per row.
func (s *Seeder) SeedSeats(venueID uuid.UUID, categoryIDs map[string]uuid.UUID) error {
	fmt.Println("  Seeding seats...")

	rows := []struct {
		row      string
		category uuid.UUID
	}{
		{"A", categoryIDs["theatre_premium"]},
		{"B", categoryIDs["theatre_premium"]},
		{"C", categoryIDs["theatre_standard"]},
		{"D", categoryIDs["theatre_standard"]},
		{"E", categoryIDs["theatre_standard"]},
		{"F", categoryIDs["theatre_standard"]},
	}

	created := 0
	for _, r := range rows {
		for pos := 1; pos <= 10; pos++ {
			seat := seats.Seat{
				ID:         uuid.New(),
				VenueID:    venueID,
				CategoryID: r.category,
				SeatNumber: fmt.Sprintf("%s%d", r.row, pos),
				Row:        r.row,
				Position:   pos,
				Status:     "AVAILABLE",
				CreatedAt:  time.Now(),
				UpdatedAt:  time.Now(),
			}
			if err := s.db.PostgreSQL.Create(&seat).Error; err != nil {
				return fmt.Errorf("failed to create seat %s: %w", seat.SeatNumber, err)
			}
			created++
		}
	}

	fmt.Printf("    Created %d seats\n", created)
	return nil
}

// SeedEvents creates one reserved-seating play and one recurring
// general-admission concert series, with occurrences materialized.
func (s *Seeder) SeedEvents(adminID uuid.UUID, venueIDs map[string]uuid.UUID, tagIDs []uuid.UUID) error {
	fmt.Println("  Seeding events...")

	play := events.Event{
		ID:              uuid.New(),
		Name:            "Tumhari Amrita",
		Description:     "A two-hander told entirely through letters",
		VenueID:         venueIDs["theatre"],
		SeatingType:     events.SeatingReserved,
		StartsAt:        time.Now().AddDate(0, 0, 14).Truncate(time.Hour),
		DurationMinutes: 110,
		TotalCapacity:   60,
		Status:          events.StatusPublished,
		CreatedBy:       adminID,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := s.db.PostgreSQL.Create(&play).Error; err != nil {
		return fmt.Errorf("failed to create event %s: %w", play.Name, err)
	}
	if err := s.createOccurrences(&play); err != nil {
		return err
	}
	fmt.Printf("    Created event: %s\n", play.Name)

	endDate := time.Now().AddDate(0, 2, 0)
	concert := events.Event{
		ID:                 uuid.New(),
		Name:               "Indie Fridays",
		Description:        "Weekly open-air indie concert series",
		VenueID:            venueIDs["grounds"],
		SeatingType:        events.SeatingGeneral,
		StartsAt:           time.Now().AddDate(0, 0, 7).Truncate(time.Hour),
		DurationMinutes:    180,
		TotalCapacity:      5000,
		Status:             events.StatusPublished,
		IsRecurring:        true,
		RecurrenceType:     events.RecurrenceWeekly,
		RecurrenceInterval: 1,
		RecurrenceEndDate:  &endDate,
		CreatedBy:          adminID,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
	if err := s.db.PostgreSQL.Create(&concert).Error; err != nil {
		return fmt.Errorf("failed to create event %s: %w", concert.Name, err)
	}
	if err := s.createOccurrences(&concert); err != nil {
		return err
	}
	fmt.Printf("    Created event: %s\n", concert.Name)

	// Tag both events with the first two tags.
	for i, eventID := range []uuid.UUID{play.ID, concert.ID} {
		if i >= len(tagIDs) {
			break
		}
		if err := s.db.PostgreSQL.Exec(
			"INSERT INTO event_tags (event_id, tag_id) VALUES (?, ?)", eventID, tagIDs[i]).Error; err != nil {
			return fmt.Errorf("failed to tag event: %w", err)
		}
	}

	return nil
}

func (s *Seeder) createOccurrences(event *events.Event) error {
	starts := []time.Time{event.StartsAt}
	if event.IsRecurring && event.RecurrenceEndDate != nil {
		starts = starts[:0]
		for t := event.StartsAt; !t.After(*event.RecurrenceEndDate); t = t.AddDate(0, 0, 7*event.RecurrenceInterval) {
			starts = append(starts, t)
		}
	}

	for _, startsAt := range starts {
		occurrence := events.EventOccurrence{
			ID:            uuid.New(),
			EventID:       event.ID,
			StartsAt:      startsAt,
			TotalCapacity: event.TotalCapacity,
			Status:        events.OccurrenceScheduled,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}
		if err := s.db.PostgreSQL.Create(&occurrence).Error; err != nil {
			return fmt.Errorf("failed to create occurrence for %s: %w", event.Name, err)
		}
	}

	return nil
}
