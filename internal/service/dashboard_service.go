package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/eduflow-api/internal/authz"
	"github.com/noah-isme/eduflow-api/internal/dto"
	"github.com/noah-isme/eduflow-api/internal/models"
	"github.com/noah-isme/eduflow-api/internal/views"
)

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService composes the dashboard of an institute and caches it per month window.
type DashboardService struct {
	loader *TenantLoader
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
	cfg    DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(loader *TenantLoader, cache *CacheService, cfg DashboardServiceConfig, logger *zap.Logger) *DashboardService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		loader: loader,
		cache:  cache,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		cfg:    cfg,
	}
}

// Get returns the dashboard for month (YYYY-MM, dto.DashboardMonthAll, or empty
// for the current month) and reports whether it was served from cache.
func (s *DashboardService) Get(ctx context.Context, month string) (*dto.DashboardResponse, bool, error) {
	principal, empty, err := readScope(ctx, authz.ActionViewDashboard)
	if err != nil {
		return nil, false, err
	}
	now := s.now()
	if month == "" {
		month = now.Format(models.MonthLayout)
	}
	if month != dto.DashboardMonthAll {
		if err := validateMonth(month); err != nil {
			return nil, false, err
		}
	}
	if empty {
		summary := views.BuildDashboard(views.Collections{}, month, now)
		return &summary, false, nil
	}

	teacherID := ""
	if principal.Role == models.RoleTeacher {
		// Unlinked teacher accounts see nothing and bypass the cache.
		if principal.TeacherID == "" {
			summary := views.BuildDashboard(views.Collections{}, month, now)
			return &summary, false, nil
		}
		teacherID = principal.TeacherID
	}
	key := DashboardCacheKey(principal.TenantID, month, teacherID)
	var cached dto.DashboardResponse
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.logger.Warn("dashboard cache read failed", zap.String("key", key), zap.Error(err))
	} else if hit {
		return &cached, true, nil
	}

	collections, err := s.loader.Load(ctx, principal)
	if err != nil {
		return nil, false, internalError(err, "failed to load dashboard data")
	}
	summary := views.BuildDashboard(collections, month, now)
	_ = s.cache.Set(ctx, key, summary, s.cfg.CacheTTL)
	return &summary, false, nil
}
