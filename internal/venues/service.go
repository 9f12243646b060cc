package venues

import (
	"context"
	"errors"
	"fmt"

	"dexotix/internal/shared/constants"
	"dexotix/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrVenueNotFound        = errors.New("venue not found")
	ErrSeatCategoryNotFound = errors.New("seat category not found")
)

type Service interface {
	CreateVenue(ctx context.Context, adminID uuid.UUID, req CreateVenueRequest) (*VenueResponse, error)
	GetVenue(ctx context.Context, id uuid.UUID) (*VenueResponse, error)
	ListVenues(ctx context.Context, filters VenueFilters) (*PaginatedVenues, error)
	UpdateVenue(ctx context.Context, id uuid.UUID, req UpdateVenueRequest) (*VenueResponse, error)
	DeleteVenue(ctx context.Context, id uuid.UUID) error

	CreateSeatCategory(ctx context.Context, venueID uuid.UUID, req CreateSeatCategoryRequest) (*SeatCategoryResponse, error)
	GetSeatCategories(ctx context.Context, venueID uuid.UUID) ([]SeatCategoryResponse, error)
	UpdateSeatCategory(ctx context.Context, id uuid.UUID, req UpdateSeatCategoryRequest) (*SeatCategoryResponse, error)
	DeleteSeatCategory(ctx context.Context, id uuid.UUID) error

	// PricingCategories returns the raw seat categories for a venue; the
	// bookings checkout resolves ticket tiers and seat fallbacks against them.
	PricingCategories(ctx context.Context, venueID uuid.UUID) ([]SeatCategory, error)

	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) CreateVenue(ctx context.Context, adminID uuid.UUID, req CreateVenueRequest) (*VenueResponse, error) {
	existing, err := s.repo.GetByName(ctx, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check venue name: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("venue with name '%s' already exists", req.Name)
	}

	venue := &Venue{
		ID:          uuid.New(),
		Name:        req.Name,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Capacity:    req.Capacity,
		Description: req.Description,
		IsActive:    true,
		CreatedBy:   adminID,
	}

	if err := s.repo.Create(ctx, venue); err != nil {
		return nil, fmt.Errorf("failed to create venue: %w", err)
	}

	s.invalidateCache(ctx)

	resp := venue.ToResponse(false)
	return &resp, nil
}

func (s *service) GetVenue(ctx context.Context, id uuid.UUID) (*VenueResponse, error) {
	cacheKey := constants.CACHE_KEY_VENUE_DETAIL + id.String()

	if s.cacheService != nil {
		var cached VenueResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	venue, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}

	resp := venue.ToResponse(true)

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, cacheKey, resp, constants.TTL_VENUE_DETAIL)
	}

	return &resp, nil
}

func (s *service) ListVenues(ctx context.Context, filters VenueFilters) (*PaginatedVenues, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.Limit < 1 || filters.Limit > 100 {
		filters.Limit = 20
	}

	venues, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}

	responses := make([]VenueResponse, 0, len(venues))
	for i := range venues {
		responses = append(responses, venues[i].ToResponse(false))
	}

	totalPages := int((total + int64(filters.Limit) - 1) / int64(filters.Limit))

	return &PaginatedVenues{
		Venues:     responses,
		TotalCount: total,
		Page:       filters.Page,
		Limit:      filters.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *service) UpdateVenue(ctx context.Context, id uuid.UUID, req UpdateVenueRequest) (*VenueResponse, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.State != nil {
		updates["state"] = *req.State
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return s.GetVenue(ctx, id)
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("failed to update venue: %w", err)
	}

	s.invalidateCache(ctx)

	venue, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload venue: %w", err)
	}

	resp := venue.ToResponse(true)
	return &resp, nil
}

func (s *service) DeleteVenue(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVenueNotFound
		}
		return fmt.Errorf("failed to delete venue: %w", err)
	}

	s.invalidateCache(ctx)
	return nil
}

func (s *service) CreateSeatCategory(ctx context.Context, venueID uuid.UUID, req CreateSeatCategoryRequest) (*SeatCategoryResponse, error) {
	if _, err := s.repo.GetByID(ctx, venueID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}

	existing, err := s.repo.GetSeatCategoryByName(ctx, venueID, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("seat category '%s' already exists for this venue", req.Name)
	}

	category := &SeatCategory{
		ID:             uuid.New(),
		VenueID:        venueID,
		Name:           req.Name,
		Color:          req.Color,
		BasePrice:      req.BasePrice,
		ConvenienceFee: req.ConvenienceFee,
		Capacity:       req.Capacity,
	}

	if err := s.repo.CreateSeatCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create seat category: %w", err)
	}

	s.invalidateCache(ctx)

	resp := category.ToResponse()
	return &resp, nil
}

func (s *service) GetSeatCategories(ctx context.Context, venueID uuid.UUID) ([]SeatCategoryResponse, error) {
	cacheKey := constants.CACHE_KEY_VENUE_SEAT_CATEGORIES + venueID.String()

	if s.cacheService != nil {
		var cached []SeatCategoryResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	categories, err := s.repo.GetSeatCategoriesByVenueID(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seat categories: %w", err)
	}

	responses := make([]SeatCategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, categories[i].ToResponse())
	}

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, cacheKey, responses, constants.TTL_VENUE_SEAT_CATEGORIES)
	}

	return responses, nil
}

func (s *service) UpdateSeatCategory(ctx context.Context, id uuid.UUID, req UpdateSeatCategoryRequest) (*SeatCategoryResponse, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.BasePrice != nil {
		updates["base_price"] = *req.BasePrice
	}
	if req.ConvenienceFee != nil {
		updates["convenience_fee"] = *req.ConvenienceFee
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateSeatCategory(ctx, id, updates); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSeatCategoryNotFound
			}
			return nil, fmt.Errorf("failed to update seat category: %w", err)
		}
		s.invalidateCache(ctx)
	}

	category, err := s.repo.GetSeatCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeatCategoryNotFound
		}
		return nil, fmt.Errorf("failed to reload seat category: %w", err)
	}

	resp := category.ToResponse()
	return &resp, nil
}

func (s *service) DeleteSeatCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteSeatCategory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSeatCategoryNotFound
		}
		return fmt.Errorf("failed to delete seat category: %w", err)
	}

	s.invalidateCache(ctx)
	return nil
}

func (s *service) PricingCategories(ctx context.Context, venueID uuid.UUID) ([]SeatCategory, error) {
	return s.repo.GetSeatCategoriesByVenueID(ctx, venueID)
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	_ = s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_VENUES_ALL)
}
