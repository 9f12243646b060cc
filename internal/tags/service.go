package tags

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"dexotix/internal/shared/constants"
	"dexotix/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrTagNotFound = errors.New("tag not found")

type Service interface {
	CreateTag(ctx context.Context, adminID uuid.UUID, req CreateTagRequest) (*TagResponse, error)
	GetTagByID(ctx context.Context, id uuid.UUID) (*TagResponse, error)
	GetTagBySlug(ctx context.Context, slug string) (*TagResponse, error)
	GetActiveTags(ctx context.Context) ([]TagResponse, error)
	GetTagsByNames(ctx context.Context, names []string) ([]Tag, error)
	UpdateTag(ctx context.Context, id uuid.UUID, adminID uuid.UUID, req UpdateTagRequest) (*TagResponse, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error

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

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// generateSlug derives a URL-safe slug from the tag name.
func generateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugCleaner.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func (s *service) CreateTag(ctx context.Context, adminID uuid.UUID, req CreateTagRequest) (*TagResponse, error) {
	tag := &Tag{
		Name:        strings.TrimSpace(req.Name),
		Slug:        generateSlug(req.Name),
		Description: req.Description,
		IsActive:    true,
		CreatedBy:   adminID,
	}
	if req.Color != "" {
		tag.Color = req.Color
	}

	if err := s.repo.Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	s.invalidateCache(ctx)

	resp := tag.ToResponse()
	return &resp, nil
}

func (s *service) GetTagByID(ctx context.Context, id uuid.UUID) (*TagResponse, error) {
	tag, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	resp := tag.ToResponse()
	return &resp, nil
}

func (s *service) GetTagBySlug(ctx context.Context, slug string) (*TagResponse, error) {
	tag, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	resp := tag.ToResponse()
	return &resp, nil
}

func (s *service) GetActiveTags(ctx context.Context) ([]TagResponse, error) {
	if s.cacheService != nil {
		var cached []TagResponse
		if err := s.cacheService.Get(ctx, constants.CACHE_KEY_TAGS_ACTIVE, &cached); err == nil {
			return cached, nil
		}
	}

	tagList, err := s.repo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tags: %w", err)
	}

	responses := make([]TagResponse, 0, len(tagList))
	for _, t := range tagList {
		responses = append(responses, t.ToResponse())
	}

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, constants.CACHE_KEY_TAGS_ACTIVE, responses, constants.TTL_TAGS_ACTIVE)
	}

	return responses, nil
}

func (s *service) GetTagsByNames(ctx context.Context, names []string) ([]Tag, error) {
	return s.repo.GetByNames(ctx, names)
}

func (s *service) UpdateTag(ctx context.Context, id uuid.UUID, adminID uuid.UUID, req UpdateTagRequest) (*TagResponse, error) {
	tag, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}

	if req.Name != nil {
		tag.Name = strings.TrimSpace(*req.Name)
		tag.Slug = generateSlug(*req.Name)
	}
	if req.Description != nil {
		tag.Description = *req.Description
	}
	if req.Color != nil {
		tag.Color = *req.Color
	}
	if req.IsActive != nil {
		tag.IsActive = *req.IsActive
	}
	tag.UpdatedBy = &adminID

	if err := s.repo.Update(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to update tag: %w", err)
	}

	s.invalidateCache(ctx)

	resp := tag.ToResponse()
	return &resp, nil
}

func (s *service) DeleteTag(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		return fmt.Errorf("failed to get tag: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	s.invalidateCache(ctx)
	return nil
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	_ = s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_TAGS_ALL)
}
