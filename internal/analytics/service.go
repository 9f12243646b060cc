package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dexotix/internal/shared/constants"
	"dexotix/pkg/cache"
	"dexotix/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

const (
	topEventsLimit = 10
	dailyStatsDays = 30
)

type Service interface {
	GetDashboard(ctx context.Context) (*DashboardAnalytics, error)
	GetEventAnalytics(ctx context.Context, eventID uuid.UUID) (*EventAnalytics, error)
	GetDailyStats(ctx context.Context, days int) ([]DailyBookingStat, error)

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

func (s *service) GetDashboard(ctx context.Context) (*DashboardAnalytics, error) {
	cacheKey := constants.CACHE_KEY_ANALYTICS_DASHBOARD

	if s.cacheService != nil {
		var cached DashboardAnalytics
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	overview, err := s.repo.GetOverviewMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get overview metrics: %w", err)
	}

	topEvents, err := s.repo.GetTopEvents(ctx, topEventsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top events: %w", err)
	}

	daily, err := s.repo.GetDailyBookingStats(ctx, dailyStatsDays)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}

	dashboard := &DashboardAnalytics{
		Overview:      *overview,
		TopEvents:     topEvents,
		DailyBookings: daily,
		GeneratedAt:   time.Now(),
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, dashboard, constants.TTL_ANALYTICS_DASHBOARD); err != nil {
			logger.GetDefault().Warn("Failed to cache dashboard analytics", "error", err.Error())
		}
	}

	return dashboard, nil
}

func (s *service) GetEventAnalytics(ctx context.Context, eventID uuid.UUID) (*EventAnalytics, error) {
	cacheKey := constants.CACHE_KEY_ANALYTICS_EVENT + eventID.String()

	if s.cacheService != nil {
		var cached EventAnalytics
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	result, err := s.repo.GetEventAnalytics(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event analytics: %w", err)
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, result, constants.TTL_ANALYTICS_EVENT); err != nil {
			logger.GetDefault().Warn("Failed to cache event analytics", "error", err.Error())
		}
	}

	return result, nil
}

func (s *service) GetDailyStats(ctx context.Context, days int) ([]DailyBookingStat, error) {
	if days < 1 || days > 365 {
		days = dailyStatsDays
	}
	cacheKey := fmt.Sprintf("%s:days:%d", constants.CACHE_KEY_ANALYTICS_DAILY, days)

	if s.cacheService != nil {
		var cached []DailyBookingStat
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	stats, err := s.repo.GetDailyBookingStats(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, stats, constants.TTL_ANALYTICS_DAILY); err != nil {
			logger.GetDefault().Warn("Failed to cache daily stats", "error", err.Error())
		}
	}

	return stats, nil
}
