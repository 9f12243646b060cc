package events

type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusPublished EventStatus = "published"
	StatusCancelled EventStatus = "cancelled"
	StatusCompleted EventStatus = "completed"
)

type OccurrenceStatus string

const (
	OccurrenceScheduled OccurrenceStatus = "scheduled"
	OccurrenceCancelled OccurrenceStatus = "cancelled"
	OccurrenceCompleted OccurrenceStatus = "completed"
)

type SeatingType string

const (
	SeatingGeneral  SeatingType = "GENERAL"
	SeatingReserved SeatingType = "RESERVED"
)
