package events

import (
	"time"

	"dexotix/internal/tags"

	"github.com/google/uuid"
)

// TagInfo represents basic tag information for event responses
type TagInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color"`
}

type Event struct {
	ID              uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name            string      `json:"name" gorm:"not null;size:255"`
	Description     string      `json:"description" gorm:"type:text"`
	VenueID         uuid.UUID   `json:"venue_id" gorm:"type:uuid;not null;index"`
	SeatingType     SeatingType `json:"seating_type" gorm:"type:varchar(20);default:'GENERAL'"`
	StartsAt        time.Time   `json:"starts_at" gorm:"not null"`
	DurationMinutes int         `json:"duration_minutes" gorm:"default:120"`
	TotalCapacity   int         `json:"total_capacity" gorm:"not null;check:total_capacity > 0"`
	Status          EventStatus `json:"status" gorm:"type:varchar(20);default:'draft'"`
	ImageURL        string      `json:"image_url" gorm:"size:500"`

	// Recurrence rule; occurrences are materialized as EventOccurrence rows.
	IsRecurring        bool           `json:"is_recurring" gorm:"default:false"`
	RecurrenceType     RecurrenceType `json:"recurrence_type" gorm:"type:varchar(10)"`
	RecurrenceInterval int            `json:"recurrence_interval" gorm:"default:1"`
	RecurrenceEndDate  *time.Time     `json:"recurrence_end_date"`

	Tags []tags.Tag `json:"-" gorm:"many2many:event_tags;constraint:OnDelete:CASCADE;"`

	CreatedBy uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	UpdatedBy *uuid.UUID `json:"updated_by" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Event) TableName() string {
	return "events"
}

// EventOccurrence is one bookable showing of an event. Non-recurring events
// get exactly one row; recurring events get one per materialized date.
type EventOccurrence struct {
	ID            uuid.UUID        `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID       uuid.UUID        `json:"event_id" gorm:"type:uuid;not null;index:idx_occurrence_event_time,unique"`
	StartsAt      time.Time        `json:"starts_at" gorm:"not null;index:idx_occurrence_event_time,unique"`
	TotalCapacity int              `json:"total_capacity" gorm:"not null"`
	BookedCount   int              `json:"booked_count" gorm:"default:0;check:booked_count >= 0"`
	Status        OccurrenceStatus `json:"status" gorm:"type:varchar(20);default:'scheduled'"`
	CreatedAt     time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

func (EventOccurrence) TableName() string {
	return "event_occurrences"
}

type EventResponse struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	VenueID         string      `json:"venue_id"`
	VenueName       string      `json:"venue_name,omitempty"`
	SeatingType     SeatingType `json:"seating_type"`
	StartsAt        time.Time   `json:"starts_at"`
	DurationMinutes int         `json:"duration_minutes"`
	TotalCapacity   int         `json:"total_capacity"`
	Status          EventStatus `json:"status"`
	ImageURL        string      `json:"image_url"`
	IsRecurring     bool        `json:"is_recurring"`
	RecurrenceType  string      `json:"recurrence_type,omitempty"`
	Tags            []TagInfo   `json:"tags"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type OccurrenceResponse struct {
	ID             string           `json:"id"`
	EventID        string           `json:"event_id"`
	StartsAt       time.Time        `json:"starts_at"`
	TotalCapacity  int              `json:"total_capacity"`
	BookedCount    int              `json:"booked_count"`
	AvailableSeats int              `json:"available_seats"`
	Status         OccurrenceStatus `json:"status"`
}

type CreateEventRequest struct {
	Name            string    `json:"name" binding:"required,min=3,max=255"`
	Description     string    `json:"description" binding:"max=2000"`
	VenueID         string    `json:"venue_id" binding:"required,uuid"`
	SeatingType     string    `json:"seating_type" binding:"omitempty,oneof=GENERAL RESERVED"`
	StartsAt        time.Time `json:"starts_at" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"omitempty,min=15,max=1440"`
	TotalCapacity   int       `json:"total_capacity" binding:"required,min=1,max=100000"`
	ImageURL        string    `json:"image_url" binding:"omitempty,url"`
	Tags            []string  `json:"tags"`

	IsRecurring        bool       `json:"is_recurring"`
	RecurrenceType     string     `json:"recurrence_type" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY"`
	RecurrenceInterval int        `json:"recurrence_interval" binding:"omitempty,min=1,max=12"`
	RecurrenceEndDate  *time.Time `json:"recurrence_end_date"`
}

type UpdateEventRequest struct {
	Name            *string    `json:"name" binding:"omitempty,min=3,max=255"`
	Description     *string    `json:"description" binding:"omitempty,max=2000"`
	StartsAt        *time.Time `json:"starts_at"`
	DurationMinutes *int       `json:"duration_minutes" binding:"omitempty,min=15,max=1440"`
	TotalCapacity   *int       `json:"total_capacity" binding:"omitempty,min=1,max=100000"`
	Status          *string    `json:"status" binding:"omitempty,oneof=draft published cancelled completed"`
	ImageURL        *string    `json:"image_url" binding:"omitempty,url"`
	Tags            []string   `json:"tags"`
}

type EventListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	VenueID  string `form:"venue_id" binding:"omitempty,uuid"`
	City     string `form:"city"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Status   string `form:"status" binding:"omitempty,oneof=draft published cancelled completed"`
	Tags     string `form:"tags"`
}

type PaginatedEvents struct {
	Events     []EventResponse `json:"events"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// Tags are populated separately by the service layer.
func (e *Event) ToResponse() EventResponse {
	return EventResponse{
		ID:              e.ID.String(),
		Name:            e.Name,
		Description:     e.Description,
		VenueID:         e.VenueID.String(),
		SeatingType:     e.SeatingType,
		StartsAt:        e.StartsAt,
		DurationMinutes: e.DurationMinutes,
		TotalCapacity:   e.TotalCapacity,
		Status:          e.Status,
		ImageURL:        e.ImageURL,
		IsRecurring:     e.IsRecurring,
		RecurrenceType:  string(e.RecurrenceType),
		Tags:            []TagInfo{},
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func (o *EventOccurrence) ToResponse() OccurrenceResponse {
	available := o.TotalCapacity - o.BookedCount
	if available < 0 {
		available = 0
	}

	return OccurrenceResponse{
		ID:             o.ID.String(),
		EventID:        o.EventID.String(),
		StartsAt:       o.StartsAt,
		TotalCapacity:  o.TotalCapacity,
		BookedCount:    o.BookedCount,
		AvailableSeats: available,
		Status:         o.Status,
	}
}
