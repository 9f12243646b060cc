package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dexotix/internal/shared/config"
	"dexotix/internal/shared/constants"
	"dexotix/internal/tags"
	"dexotix/internal/venues"
	"dexotix/pkg/cache"
	"dexotix/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrOccurrenceNotFound = errors.New("occurrence not found")
	ErrEventNotEditable   = errors.New("event cannot be modified in its current status")
)

type Service interface {
	CreateEvent(ctx context.Context, adminID uuid.UUID, req CreateEventRequest) (*EventResponse, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error)
	GetAllEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error)
	GetUpcomingEvents(ctx context.Context, limit int) ([]EventResponse, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, adminID uuid.UUID, req UpdateEventRequest) (*EventResponse, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error

	// Occurrences
	GenerateOccurrences(ctx context.Context, eventID uuid.UUID) (int, error)
	GetOccurrences(ctx context.Context, eventID uuid.UUID) ([]OccurrenceResponse, error)
	GetOccurrence(ctx context.Context, id uuid.UUID) (*EventOccurrence, error)
	CancelOccurrence(ctx context.Context, id uuid.UUID) error

	// Capacity hooks used by the checkout flow.
	ReserveOccurrenceCapacity(ctx context.Context, occurrenceID uuid.UUID, count int) error
	ReleaseOccurrenceCapacity(ctx context.Context, occurrenceID uuid.UUID, count int) error

	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo         Repository
	tagService   tags.Service
	venueService venues.Service
	cacheService cache.Service
	occurrence   config.OccurrenceConfig
}

func NewService(repo Repository, tagService tags.Service, venueService venues.Service, occurrence config.OccurrenceConfig) Service {
	return &service{
		repo:         repo,
		tagService:   tagService,
		venueService: venueService,
		occurrence:   occurrence,
	}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) CreateEvent(ctx context.Context, adminID uuid.UUID, req CreateEventRequest) (*EventResponse, error) {
	if req.StartsAt.Before(time.Now()) {
		return nil, errors.New("event start time must be in the future")
	}

	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		return nil, fmt.Errorf("invalid venue ID: %w", err)
	}
	if _, err := s.venueService.GetVenue(ctx, venueID); err != nil {
		return nil, fmt.Errorf("venue lookup failed: %w", err)
	}

	var tagList []tags.Tag
	if len(req.Tags) > 0 {
		tagList, err = s.tagService.GetTagsByNames(ctx, req.Tags)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve tags: %w", err)
		}
		if len(tagList) != len(req.Tags) {
			return nil, errors.New("one or more tags do not exist")
		}
	}

	seatingType := SeatingGeneral
	if req.SeatingType != "" {
		seatingType = SeatingType(req.SeatingType)
	}
	durationMinutes := req.DurationMinutes
	if durationMinutes == 0 {
		durationMinutes = 120
	}

	event := &Event{
		ID:              uuid.New(),
		Name:            req.Name,
		Description:     req.Description,
		VenueID:         venueID,
		SeatingType:     seatingType,
		StartsAt:        req.StartsAt,
		DurationMinutes: durationMinutes,
		TotalCapacity:   req.TotalCapacity,
		Status:          StatusDraft,
		ImageURL:        req.ImageURL,
		Tags:            tagList,
		CreatedBy:       adminID,
	}

	if req.IsRecurring {
		rule := RecurrenceRule{
			Type:     RecurrenceType(req.RecurrenceType),
			Interval: req.RecurrenceInterval,
			EndDate:  req.RecurrenceEndDate,
		}
		if rule.Interval == 0 {
			rule.Interval = 1
		}
		if !rule.Valid() {
			return nil, fmt.Errorf("invalid recurrence rule: type=%s interval=%d", req.RecurrenceType, req.RecurrenceInterval)
		}
		event.IsRecurring = true
		event.RecurrenceType = rule.Type
		event.RecurrenceInterval = rule.Interval
		event.RecurrenceEndDate = req.RecurrenceEndDate
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if _, err := s.GenerateOccurrences(ctx, event.ID); err != nil {
		logger.GetDefault().Error("Failed to materialize occurrences for new event", "event_id", event.ID.String(), "error", err.Error())
	}

	s.invalidateEventCache(ctx)

	return s.buildResponse(event), nil
}

func (s *service) GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	cacheKey := constants.CACHE_KEY_EVENT_DETAIL + id.String()

	if s.cacheService != nil {
		var cached EventResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	resp := s.buildResponse(event)

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, cacheKey, resp, constants.TTL_EVENT_DETAIL)
	}

	return resp, nil
}

func (s *service) GetAllEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 || query.Limit > 100 {
		query.Limit = 20
	}

	// Only plain paginated listings are cached; filtered queries go to the DB.
	cacheable := query.Search == "" && query.VenueID == "" && query.City == "" &&
		query.DateFrom == "" && query.DateTo == "" && query.Tags == ""
	cacheKey := fmt.Sprintf("%s:page:%d:limit:%d:status:%s",
		constants.CACHE_KEY_EVENTS_LIST, query.Page, query.Limit, query.Status)

	if cacheable && s.cacheService != nil {
		var cached PaginatedEvents
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	eventList, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	responses := make([]EventResponse, 0, len(eventList))
	for i := range eventList {
		responses = append(responses, *s.buildResponse(&eventList[i]))
	}

	totalPages := int((total + int64(query.Limit) - 1) / int64(query.Limit))
	result := &PaginatedEvents{
		Events:     responses,
		TotalCount: total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}

	if cacheable && s.cacheService != nil {
		_ = s.cacheService.Set(ctx, cacheKey, result, constants.TTL_EVENT_LIST)
	}

	return result, nil
}

func (s *service) GetUpcomingEvents(ctx context.Context, limit int) ([]EventResponse, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("%s:limit:%d", constants.CACHE_KEY_EVENTS_UPCOMING, limit)

	if s.cacheService != nil {
		var cached []EventResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	eventList, err := s.repo.GetUpcoming(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming events: %w", err)
	}

	responses := make([]EventResponse, 0, len(eventList))
	for i := range eventList {
		responses = append(responses, *s.buildResponse(&eventList[i]))
	}

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, cacheKey, responses, constants.TTL_EVENT_UPCOMING)
	}

	return responses, nil
}

func (s *service) UpdateEvent(ctx context.Context, id uuid.UUID, adminID uuid.UUID, req UpdateEventRequest) (*EventResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if event.Status == StatusCompleted {
		return nil, ErrEventNotEditable
	}

	updates := map[string]interface{}{"updated_by": adminID}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.StartsAt != nil {
		updates["starts_at"] = *req.StartsAt
	}
	if req.DurationMinutes != nil {
		updates["duration_minutes"] = *req.DurationMinutes
	}
	if req.TotalCapacity != nil {
		updates["total_capacity"] = *req.TotalCapacity
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	if req.Tags != nil {
		tagList, err := s.tagService.GetTagsByNames(ctx, req.Tags)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve tags: %w", err)
		}
		if len(tagList) != len(req.Tags) {
			return nil, errors.New("one or more tags do not exist")
		}
		if err := s.repo.ReplaceTags(ctx, event, tagList); err != nil {
			return nil, fmt.Errorf("failed to update event tags: %w", err)
		}
	}

	s.invalidateEventCache(ctx)

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload event: %w", err)
	}

	return s.buildResponse(updated), nil
}

func (s *service) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.invalidateEventCache(ctx)
	return nil
}

// GenerateOccurrences materializes occurrence rows for an event up to the
// configured horizon. Already-materialized dates are skipped, so repeated
// calls are safe. Returns the number of new rows created.
func (s *service) GenerateOccurrences(ctx context.Context, eventID uuid.UUID) (int, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrEventNotFound
		}
		return 0, fmt.Errorf("failed to get event: %w", err)
	}

	horizon := time.Now().Add(s.occurrence.Horizon)

	var wanted []time.Time
	if event.IsRecurring {
		rule := RecurrenceRule{
			Type:     event.RecurrenceType,
			Interval: event.RecurrenceInterval,
			EndDate:  event.RecurrenceEndDate,
		}
		wanted = OccurrenceTimes(event.StartsAt, rule, horizon, s.occurrence.MaxPerRequest)
	} else {
		wanted = []time.Time{event.StartsAt}
	}

	existing, err := s.repo.ExistingOccurrenceTimes(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to load existing occurrences: %w", err)
	}

	var toCreate []EventOccurrence
	for _, t := range wanted {
		if existing[t.UTC()] {
			continue
		}
		toCreate = append(toCreate, EventOccurrence{
			ID:            uuid.New(),
			EventID:       eventID,
			StartsAt:      t,
			TotalCapacity: event.TotalCapacity,
			Status:        OccurrenceScheduled,
		})
	}

	if err := s.repo.CreateOccurrences(ctx, toCreate); err != nil {
		return 0, fmt.Errorf("failed to create occurrences: %w", err)
	}

	if len(toCreate) > 0 && s.cacheService != nil {
		_ = s.cacheService.Delete(ctx, constants.CACHE_KEY_EVENT_OCCURRENCES+eventID.String())
	}

	return len(toCreate), nil
}

func (s *service) GetOccurrences(ctx context.Context, eventID uuid.UUID) ([]OccurrenceResponse, error) {
	cacheKey := constants.CACHE_KEY_EVENT_OCCURRENCES + eventID.String()

	if s.cacheService != nil {
		var cached []OccurrenceResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	occurrences, err := s.repo.GetOccurrencesByEventID(ctx, eventID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to get occurrences: %w", err)
	}

	responses := make([]OccurrenceResponse, 0, len(occurrences))
	for i := range occurrences {
		responses = append(responses, occurrences[i].ToResponse())
	}

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, cacheKey, responses, constants.TTL_EVENT_OCCURRENCES)
	}

	return responses, nil
}

func (s *service) GetOccurrence(ctx context.Context, id uuid.UUID) (*EventOccurrence, error) {
	occurrence, err := s.repo.GetOccurrenceByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOccurrenceNotFound
		}
		return nil, fmt.Errorf("failed to get occurrence: %w", err)
	}
	return occurrence, nil
}

func (s *service) CancelOccurrence(ctx context.Context, id uuid.UUID) error {
	occurrence, err := s.GetOccurrence(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateOccurrence(ctx, id, map[string]interface{}{"status": OccurrenceCancelled}); err != nil {
		return fmt.Errorf("failed to cancel occurrence: %w", err)
	}

	if s.cacheService != nil {
		_ = s.cacheService.Delete(ctx, constants.CACHE_KEY_EVENT_OCCURRENCES+occurrence.EventID.String())
	}

	return nil
}

func (s *service) ReserveOccurrenceCapacity(ctx context.Context, occurrenceID uuid.UUID, count int) error {
	if count <= 0 {
		return nil
	}
	return s.repo.ReserveCapacity(ctx, occurrenceID, count)
}

func (s *service) ReleaseOccurrenceCapacity(ctx context.Context, occurrenceID uuid.UUID, count int) error {
	if count <= 0 {
		return nil
	}
	return s.repo.ReleaseCapacity(ctx, occurrenceID, count)
}

func (s *service) buildResponse(event *Event) *EventResponse {
	resp := event.ToResponse()
	for _, tag := range event.Tags {
		resp.Tags = append(resp.Tags, TagInfo{
			ID:    tag.ID.String(),
			Name:  tag.Name,
			Slug:  tag.Slug,
			Color: tag.Color,
		})
	}
	return &resp
}

func (s *service) invalidateEventCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_EVENT_ALL); err != nil {
		logger.GetDefault().Warn("Failed to invalidate event cache", "error", err.Error())
	}
}
