package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dexotix/internal/tags"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Events
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	List(ctx context.Context, query EventListQuery) ([]Event, int64, error)
	GetUpcoming(ctx context.Context, limit int) ([]Event, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	ReplaceTags(ctx context.Context, event *Event, tagList []tags.Tag) error

	// Occurrences
	CreateOccurrences(ctx context.Context, occurrences []EventOccurrence) error
	GetOccurrenceByID(ctx context.Context, id uuid.UUID) (*EventOccurrence, error)
	GetOccurrencesByEventID(ctx context.Context, eventID uuid.UUID, from time.Time) ([]EventOccurrence, error)
	ExistingOccurrenceTimes(ctx context.Context, eventID uuid.UUID) (map[time.Time]bool, error)
	UpdateOccurrence(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	ReserveCapacity(ctx context.Context, occurrenceID uuid.UUID, count int) error
	ReleaseCapacity(ctx context.Context, occurrenceID uuid.UUID, count int) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Preload("Tags").First(&event, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) List(ctx context.Context, query EventListQuery) ([]Event, int64, error) {
	var events []Event
	var total int64

	q := r.db.WithContext(ctx).Model(&Event{})

	if query.Search != "" {
		searchPattern := fmt.Sprintf("%%%s%%", query.Search)
		q = q.Where("events.name ILIKE ? OR events.description ILIKE ?", searchPattern, searchPattern)
	}
	if query.VenueID != "" {
		q = q.Where("events.venue_id = ?", query.VenueID)
	}
	if query.City != "" {
		q = q.Joins("JOIN venues ON venues.id = events.venue_id").
			Where("venues.city ILIKE ?", query.City)
	}
	if query.Status != "" {
		q = q.Where("events.status = ?", query.Status)
	}
	if query.DateFrom != "" {
		if from, err := time.Parse("2006-01-02", query.DateFrom); err == nil {
			q = q.Where("events.starts_at >= ?", from)
		}
	}
	if query.DateTo != "" {
		if to, err := time.Parse("2006-01-02", query.DateTo); err == nil {
			q = q.Where("events.starts_at <= ?", to.Add(24*time.Hour))
		}
	}
	if query.Tags != "" {
		tagSlugs := strings.Split(query.Tags, ",")
		q = q.Joins("JOIN event_tags ON event_tags.event_id = events.id").
			Joins("JOIN tags ON tags.id = event_tags.tag_id").
			Where("tags.slug IN ?", tagSlugs).
			Distinct("events.*")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := q.Preload("Tags").
		Order("events.starts_at asc").
		Offset(offset).
		Limit(query.Limit).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r *repository) GetUpcoming(ctx context.Context, limit int) ([]Event, error) {
	var events []Event
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("status = ? AND starts_at > ?", StatusPublished, time.Now()).
		Order("starts_at asc").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&Event{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Event{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ReplaceTags(ctx context.Context, event *Event, tagList []tags.Tag) error {
	return r.db.WithContext(ctx).Model(event).Association("Tags").Replace(tagList)
}

func (r *repository) CreateOccurrences(ctx context.Context, occurrences []EventOccurrence) error {
	if len(occurrences) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(occurrences, 50).Error
}

func (r *repository) GetOccurrenceByID(ctx context.Context, id uuid.UUID) (*EventOccurrence, error) {
	var occurrence EventOccurrence
	err := r.db.WithContext(ctx).First(&occurrence, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &occurrence, nil
}

func (r *repository) GetOccurrencesByEventID(ctx context.Context, eventID uuid.UUID, from time.Time) ([]EventOccurrence, error) {
	var occurrences []EventOccurrence
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND starts_at >= ?", eventID, from).
		Order("starts_at asc").
		Find(&occurrences).Error
	if err != nil {
		return nil, err
	}
	return occurrences, nil
}

func (r *repository) ExistingOccurrenceTimes(ctx context.Context, eventID uuid.UUID) (map[time.Time]bool, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).
		Model(&EventOccurrence{}).
		Where("event_id = ?", eventID).
		Pluck("starts_at", &times).Error
	if err != nil {
		return nil, err
	}

	existing := make(map[time.Time]bool, len(times))
	for _, t := range times {
		existing[t.UTC()] = true
	}
	return existing, nil
}

func (r *repository) UpdateOccurrence(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&EventOccurrence{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReserveCapacity atomically bumps booked_count, failing when the occurrence
// would oversell.
func (r *repository) ReserveCapacity(ctx context.Context, occurrenceID uuid.UUID, count int) error {
	result := r.db.WithContext(ctx).
		Model(&EventOccurrence{}).
		Where("id = ? AND booked_count + ? <= total_capacity AND status = ?", occurrenceID, count, OccurrenceScheduled).
		Update("booked_count", gorm.Expr("booked_count + ?", count))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("insufficient capacity for occurrence %s", occurrenceID)
	}
	return nil
}

func (r *repository) ReleaseCapacity(ctx context.Context, occurrenceID uuid.UUID, count int) error {
	return r.db.WithContext(ctx).
		Model(&EventOccurrence{}).
		Where("id = ? AND booked_count >= ?", occurrenceID, count).
		Update("booked_count", gorm.Expr("booked_count - ?", count)).Error
}
