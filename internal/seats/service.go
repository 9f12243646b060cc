package seats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dexotix/internal/events"
	"dexotix/internal/shared/constants"
	"dexotix/internal/venues"
	"dexotix/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSeatNotFound    = errors.New("seat not found")
	ErrHoldNotFound    = errors.New("hold not found")
	ErrHoldNotOwned    = errors.New("hold belongs to another user")
	ErrSeatUnavailable = errors.New("one or more seats are unavailable")
)

// OccurrenceResolver is the slice of the events service the seat flow needs.
type OccurrenceResolver interface {
	GetOccurrence(ctx context.Context, id uuid.UUID) (*events.EventOccurrence, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*events.EventResponse, error)
}

type Service interface {
	CreateSeats(ctx context.Context, venueID uuid.UUID, req CreateSeatsRequest) (int, error)
	GetSeatByID(ctx context.Context, id uuid.UUID) (*Seat, error)
	GetSeatMap(ctx context.Context, venueID, occurrenceID uuid.UUID) (*SeatMapResponse, error)
	UpdateSeat(ctx context.Context, id uuid.UUID, req UpdateSeatRequest) (*Seat, error)
	DeleteSeat(ctx context.Context, id uuid.UUID) error

	HoldSeats(ctx context.Context, userID string, req SeatHoldRequest) (*SeatHoldResponse, error)
	ReleaseHold(ctx context.Context, holdID, userID string) error
	ValidateHold(ctx context.Context, holdID, userID string) (*HoldValidationResult, error)
	ExtendHold(ctx context.Context, holdID, userID string, seconds int) error
	GetUserHolds(ctx context.Context, userID string) ([]HoldDetails, error)

	// HeldSeats resolves a hold into priced seat lines for checkout.
	HeldSeats(ctx context.Context, holdID string) (*HoldDetails, []HeldSeatInfo, error)

	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo         Repository
	holds        *AtomicHoldStore
	venueService venues.Service
	occurrences  OccurrenceResolver
	cacheService cache.Service
	holdTTL      time.Duration
}

func NewService(repo Repository, holds *AtomicHoldStore, venueService venues.Service, occurrences OccurrenceResolver, holdTTL time.Duration) Service {
	return &service{
		repo:         repo,
		holds:        holds,
		venueService: venueService,
		occurrences:  occurrences,
		holdTTL:      holdTTL,
	}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

// CreateSeats generates a rectangular block of seats for one category,
// rows RowStart..RowEnd with SeatsPerRow seats each.
func (s *service) CreateSeats(ctx context.Context, venueID uuid.UUID, req CreateSeatsRequest) (int, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return 0, fmt.Errorf("invalid category ID: %w", err)
	}

	categories, err := s.venueService.PricingCategories(ctx, venueID)
	if err != nil {
		return 0, fmt.Errorf("failed to load seat categories: %w", err)
	}
	found := false
	for _, c := range categories {
		if c.ID == categoryID {
			found = true
			break
		}
	}
	if !found {
		return 0, fmt.Errorf("seat category %s does not belong to venue %s", categoryID, venueID)
	}

	rowStart := req.RowStart[0]
	rowEnd := req.RowEnd[0]
	if rowStart > rowEnd {
		return 0, fmt.Errorf("row_start %q is after row_end %q", req.RowStart, req.RowEnd)
	}

	var seatList []Seat
	for row := rowStart; row <= rowEnd; row++ {
		for pos := 1; pos <= req.SeatsPerRow; pos++ {
			seatList = append(seatList, Seat{
				ID:         uuid.New(),
				VenueID:    venueID,
				CategoryID: categoryID,
				SeatNumber: fmt.Sprintf("%c%d", row, pos),
				Row:        string(rune(row)),
				Position:   pos,
				Status:     "AVAILABLE",
			})
		}
	}

	if err := s.repo.CreateSeats(ctx, seatList); err != nil {
		return 0, fmt.Errorf("failed to create seats: %w", err)
	}

	s.invalidateSeatMapCache(ctx, venueID)
	return len(seatList), nil
}

func (s *service) GetSeatByID(ctx context.Context, id uuid.UUID) (*Seat, error) {
	seat, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeatNotFound
		}
		return nil, fmt.Errorf("failed to get seat: %w", err)
	}
	return seat, nil
}

func (s *service) GetSeatMap(ctx context.Context, venueID, occurrenceID uuid.UUID) (*SeatMapResponse, error) {
	seatList, err := s.repo.GetByVenueID(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seats: %w", err)
	}

	categories, err := s.venueService.PricingCategories(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seat categories: %w", err)
	}

	booked, err := s.repo.BookedSeatIDs(ctx, occurrenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booked seats: %w", err)
	}

	seatIDs := make([]uuid.UUID, 0, len(seatList))
	for _, seat := range seatList {
		seatIDs = append(seatIDs, seat.ID)
	}
	held, err := s.repo.HeldSeatIDs(ctx, occurrenceID.String(), seatIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load held seats: %w", err)
	}

	byCategory := make(map[uuid.UUID]*SeatMapCategory, len(categories))
	ordered := make([]*SeatMapCategory, 0, len(categories))
	for _, c := range categories {
		entry := &SeatMapCategory{
			CategoryID:     c.ID.String(),
			Name:           c.Name,
			Color:          c.Color,
			BasePrice:      c.BasePrice,
			ConvenienceFee: c.ConvenienceFee,
		}
		byCategory[c.ID] = entry
		ordered = append(ordered, entry)
	}

	for i := range seatList {
		seat := &seatList[i]
		entry, ok := byCategory[seat.CategoryID]
		if !ok {
			continue
		}
		entry.Seats = append(entry.Seats,
			seat.ToResponse(entry.BasePrice, entry.Name, booked[seat.ID], held[seat.ID]))
	}

	resp := &SeatMapResponse{
		VenueID:      venueID.String(),
		OccurrenceID: occurrenceID.String(),
		TotalSeats:   len(seatList),
	}
	for _, entry := range ordered {
		resp.Categories = append(resp.Categories, *entry)
	}

	return resp, nil
}

func (s *service) UpdateSeat(ctx context.Context, id uuid.UUID, req UpdateSeatRequest) (*Seat, error) {
	updates := make(map[string]interface{})
	if req.SeatNumber != nil {
		updates["seat_number"] = *req.SeatNumber
	}
	if req.Row != nil {
		updates["row"] = *req.Row
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSeatNotFound
			}
			return nil, fmt.Errorf("failed to update seat: %w", err)
		}
	}

	seat, err := s.GetSeatByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidateSeatMapCache(ctx, seat.VenueID)
	return seat, nil
}

func (s *service) DeleteSeat(ctx context.Context, id uuid.UUID) error {
	seat, err := s.GetSeatByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete seat: %w", err)
	}

	s.invalidateSeatMapCache(ctx, seat.VenueID)
	return nil
}

func (s *service) HoldSeats(ctx context.Context, userID string, req SeatHoldRequest) (*SeatHoldResponse, error) {
	occurrenceID, err := uuid.Parse(req.OccurrenceID)
	if err != nil {
		return nil, fmt.Errorf("invalid occurrence ID: %w", err)
	}

	occurrence, err := s.occurrences.GetOccurrence(ctx, occurrenceID)
	if err != nil {
		return nil, fmt.Errorf("occurrence lookup failed: %w", err)
	}
	if occurrence.Status != events.OccurrenceScheduled {
		return nil, fmt.Errorf("occurrence %s is not open for booking", occurrenceID)
	}

	event, err := s.occurrences.GetEventByID(ctx, occurrence.EventID)
	if err != nil {
		return nil, fmt.Errorf("event lookup failed: %w", err)
	}
	venueID, err := uuid.Parse(event.VenueID)
	if err != nil {
		return nil, fmt.Errorf("invalid venue on event: %w", err)
	}

	seatIDs := make([]uuid.UUID, 0, len(req.SeatIDs))
	for _, raw := range req.SeatIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid seat ID %q: %w", raw, err)
		}
		seatIDs = append(seatIDs, id)
	}

	seatList, err := s.repo.GetByIDs(ctx, seatIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load seats: %w", err)
	}
	if len(seatList) != len(seatIDs) {
		return nil, ErrSeatNotFound
	}

	for i := range seatList {
		if seatList[i].VenueID != venueID {
			return nil, fmt.Errorf("seat %s does not belong to venue %s", seatList[i].ID, venueID)
		}
		if !seatList[i].IsAvailable() {
			return nil, ErrSeatUnavailable
		}
	}

	booked, err := s.repo.BookedSeatIDs(ctx, occurrenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to check booked seats: %w", err)
	}
	for _, id := range seatIDs {
		if booked[id] {
			return nil, fmt.Errorf("seat %s is already booked for this occurrence", id)
		}
	}

	holdID := uuid.New().String()
	if err := s.holds.HoldSeats(ctx, seatIDs, userID, holdID, occurrenceID.String(), s.holdTTL); err != nil {
		return nil, err
	}

	heldInfo, err := s.priceSeats(ctx, venueID, seatList)
	if err != nil {
		// Hold succeeded but pricing failed; release to avoid orphan holds.
		_, _ = s.holds.ReleaseHold(ctx, holdID)
		return nil, err
	}

	var total float64
	for _, info := range heldInfo {
		total += info.Price + info.ConvenienceFee
	}

	return &SeatHoldResponse{
		HoldID:       holdID,
		OccurrenceID: occurrenceID.String(),
		UserID:       userID,
		Seats:        heldInfo,
		TotalPrice:   total,
		ExpiresAt:    time.Now().Add(s.holdTTL),
		TTL:          int(s.holdTTL.Seconds()),
	}, nil
}

func (s *service) ReleaseHold(ctx context.Context, holdID, userID string) error {
	details, err := s.repo.GetHoldDetails(ctx, holdID)
	if err != nil {
		return ErrHoldNotFound
	}
	if details.UserID != userID {
		return ErrHoldNotOwned
	}

	_, err = s.holds.ReleaseHold(ctx, holdID)
	return err
}

func (s *service) ValidateHold(ctx context.Context, holdID, userID string) (*HoldValidationResult, error) {
	details, err := s.repo.GetHoldDetails(ctx, holdID)
	if err != nil {
		return &HoldValidationResult{Valid: false, Reason: "hold_not_found_or_expired"}, nil
	}

	if details.UserID != userID {
		return &HoldValidationResult{Valid: false, Reason: "hold_belongs_to_different_user"}, nil
	}
	if details.TTL <= 0 {
		return &HoldValidationResult{Valid: false, Reason: "hold_expired"}, nil
	}

	return &HoldValidationResult{Valid: true, Details: details, TTL: details.TTL}, nil
}

func (s *service) ExtendHold(ctx context.Context, holdID, userID string, seconds int) error {
	details, err := s.repo.GetHoldDetails(ctx, holdID)
	if err != nil {
		return ErrHoldNotFound
	}
	if details.UserID != userID {
		return ErrHoldNotOwned
	}

	ttl := time.Duration(seconds) * time.Second
	if ttl <= 0 {
		ttl = s.holdTTL
	}
	return s.holds.ExtendHold(ctx, holdID, ttl)
}

func (s *service) GetUserHolds(ctx context.Context, userID string) ([]HoldDetails, error) {
	holdIDs, err := s.repo.GetUserHoldIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user holds: %w", err)
	}

	var details []HoldDetails
	for _, holdID := range holdIDs {
		d, err := s.repo.GetHoldDetails(ctx, holdID)
		if err != nil {
			continue // expired between SMEMBERS and HGETALL
		}
		details = append(details, *d)
	}
	return details, nil
}

func (s *service) HeldSeats(ctx context.Context, holdID string) (*HoldDetails, []HeldSeatInfo, error) {
	details, err := s.repo.GetHoldDetails(ctx, holdID)
	if err != nil {
		return nil, nil, ErrHoldNotFound
	}

	seatIDs := make([]uuid.UUID, 0, len(details.SeatIDs))
	for _, raw := range details.SeatIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid seat ID in hold: %w", err)
		}
		seatIDs = append(seatIDs, id)
	}

	seatList, err := s.repo.GetByIDs(ctx, seatIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load held seats: %w", err)
	}
	if len(seatList) == 0 {
		return nil, nil, ErrHoldNotFound
	}

	heldInfo, err := s.priceSeats(ctx, seatList[0].VenueID, seatList)
	if err != nil {
		return nil, nil, err
	}

	return details, heldInfo, nil
}

func (s *service) priceSeats(ctx context.Context, venueID uuid.UUID, seatList []Seat) ([]HeldSeatInfo, error) {
	categories, err := s.venueService.PricingCategories(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seat categories: %w", err)
	}

	byID := make(map[uuid.UUID]venues.SeatCategory, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	info := make([]HeldSeatInfo, 0, len(seatList))
	for i := range seatList {
		seat := &seatList[i]
		category, ok := byID[seat.CategoryID]
		if !ok {
			return nil, fmt.Errorf("seat %s has unknown category %s", seat.ID, seat.CategoryID)
		}
		info = append(info, HeldSeatInfo{
			SeatID:         seat.ID.String(),
			SeatNumber:     seat.SeatNumber,
			Row:            seat.Row,
			CategoryName:   category.Name,
			Price:          category.BasePrice,
			ConvenienceFee: category.ConvenienceFee,
		})
	}
	return info, nil
}

func (s *service) invalidateSeatMapCache(ctx context.Context, venueID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	_ = s.cacheService.DeletePattern(ctx, constants.CACHE_KEY_SEATMAP_BY_VENUE+venueID.String()+"*")
}
