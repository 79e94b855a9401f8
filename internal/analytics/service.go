package analytics

import (
	"context"
	"fmt"
	"log/slog"

	"admitly/internal/shared/constants"
	"admitly/pkg/cache"
	"admitly/pkg/logger"
)

// Service defines the analytics service interface
type Service interface {
	GetDashboardAnalytics(ctx context.Context) (*DashboardAnalytics, error)
	GetScannerAnalytics(ctx context.Context, scannerID string) (*ScannerAnalytics, error)
	GetTicketUtilization(ctx context.Context) (*TicketUtilization, error)
}

// service implements the Service interface
type service struct {
	repo         Repository
	cacheService cache.Service
	logger       *logger.Logger
}

// NewService creates a new analytics service instance. The cache service is
// optional; without it every call hits the database.
func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:         repo,
		cacheService: cacheService,
		logger:       logger.GetDefault(),
	}
}

func (s *service) GetDashboardAnalytics(ctx context.Context) (*DashboardAnalytics, error) {
	cacheKey := constants.CACHE_KEY_ANALYTICS_DASHBOARD

	if s.cacheService != nil {
		var cached DashboardAnalytics
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	dashboard, err := s.repo.GetDashboardAnalytics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard analytics: %w", err)
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, dashboard, constants.TTL_ANALYTICS_DASHBOARD); err != nil {
			s.logger.Warn("failed to cache dashboard analytics", slog.String("error", err.Error()))
		}
	}

	return dashboard, nil
}

func (s *service) GetScannerAnalytics(ctx context.Context, scannerID string) (*ScannerAnalytics, error) {
	cacheKey := constants.BuildScannerAnalyticsKey(scannerID)

	if s.cacheService != nil {
		var cached ScannerAnalytics
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	stats, err := s.repo.GetScannerAnalytics(ctx, scannerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get scanner analytics: %w", err)
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, stats, constants.TTL_ANALYTICS_SCANNER); err != nil {
			s.logger.Warn("failed to cache scanner analytics", slog.String("error", err.Error()))
		}
	}

	return stats, nil
}

func (s *service) GetTicketUtilization(ctx context.Context) (*TicketUtilization, error) {
	cacheKey := constants.CACHE_KEY_ANALYTICS_TICKETS

	if s.cacheService != nil {
		var cached TicketUtilization
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	util, err := s.repo.GetTicketUtilization(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket utilization: %w", err)
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, util, constants.TTL_ANALYTICS_TICKETS); err != nil {
			s.logger.Warn("failed to cache ticket utilization", slog.String("error", err.Error()))
		}
	}

	return util, nil
}
