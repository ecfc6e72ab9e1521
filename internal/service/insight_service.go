package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/eduflow-api/internal/advisor"
	"github.com/noah-isme/eduflow-api/internal/authz"
	"github.com/noah-isme/eduflow-api/internal/dto"
	"github.com/noah-isme/eduflow-api/internal/models"
	appErrors "github.com/noah-isme/eduflow-api/pkg/errors"
	"github.com/noah-isme/eduflow-api/pkg/jobs"
)

const insightJobType = "insight"

// InsightServiceConfig tunes the advisor worker pool.
type InsightServiceConfig struct {
	Workers    int
	JobTimeout time.Duration
	ResultTTL  time.Duration
}

// InsightService runs the AI advisor over a tenant snapshot, either inline or
// on the background queue. Results are kept in the cache under the tenant key.
type InsightService struct {
	loader  *TenantLoader
	advisor *advisor.Advisor
	cache   *CacheService
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger
	cfg     InsightServiceConfig
	now     func() time.Time
}

// NewInsightService constructs the service and its worker queue. Call Start
// before requesting background jobs.
func NewInsightService(loader *TenantLoader, adv *advisor.Advisor, cache *CacheService, metrics *MetricsService, cfg InsightServiceConfig, logger *zap.Logger) *InsightService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	s := &InsightService{
		loader:  loader,
		advisor: adv,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
	}
	s.queue = jobs.NewQueue("insights", s.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		JobTimeout: cfg.JobTimeout,
		Logger:     logger,
	})
	return s
}

// Start launches the workers.
func (s *InsightService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *InsightService) Stop() {
	s.queue.Stop()
}

// Request queues an advisor run for the caller's institute. While a run is
// pending further requests return that run instead of queueing another.
func (s *InsightService) Request(ctx context.Context) (*dto.InsightResponse, error) {
	principal, err := writeScope(ctx, authz.ActionRequestInsights)
	if err != nil {
		return nil, err
	}
	key := InsightCacheKey(principal.TenantID)

	if jobID, busy := s.queue.Pending(principal.TenantID); busy {
		var current dto.InsightResponse
		if hit, _ := s.cache.Get(ctx, key, &current); hit && current.JobID == jobID {
			return &current, nil
		}
		return &dto.InsightResponse{JobID: jobID, Status: dto.InsightStatusQueued, RequestedAt: s.now()}, nil
	}

	var previous dto.InsightResponse
	hadPrevious, _ := s.cache.Get(ctx, key, &previous)

	queued := dto.InsightResponse{JobID: uuid.NewString(), Status: dto.InsightStatusQueued, RequestedAt: s.now()}
	if err := s.cache.Set(ctx, key, queued, s.cfg.ResultTTL); err != nil {
		return nil, internalError(err, "failed to record insight request")
	}

	scope := *principal
	job := jobs.Job{ID: queued.JobID, Key: principal.TenantID, Type: insightJobType, Payload: &scope}
	if err := s.queue.Enqueue(job); err != nil {
		// Put back whatever Latest served before this request.
		if hadPrevious {
			_ = s.cache.Set(ctx, key, previous, s.cfg.ResultTTL)
		} else {
			_ = s.cache.Invalidate(ctx, key)
		}
		if errors.Is(err, jobs.ErrQueueFull) || errors.Is(err, jobs.ErrNotStarted) {
			return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "insight workers are busy, try again later")
		}
		return nil, appErrors.Clone(appErrors.ErrConflict, "an insight run is already pending")
	}
	return &queued, nil
}

// Generate runs the advisor inline and returns its text.
func (s *InsightService) Generate(ctx context.Context) (*dto.InsightResponse, error) {
	principal, err := writeScope(ctx, authz.ActionRequestInsights)
	if err != nil {
		return nil, err
	}
	result := s.run(ctx, principal, uuid.NewString(), s.now())
	return &result, nil
}

// Latest returns the most recent advisor result or pending run of the caller's institute.
func (s *InsightService) Latest(ctx context.Context) (*dto.InsightResponse, error) {
	principal, err := writeScope(ctx, authz.ActionRequestInsights)
	if err != nil {
		return nil, err
	}
	var latest dto.InsightResponse
	hit, err := s.cache.Get(ctx, InsightCacheKey(principal.TenantID), &latest)
	if err != nil {
		return nil, internalError(err, "failed to read insights")
	}
	if !hit {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no insights requested yet")
	}
	return &latest, nil
}

func (s *InsightService) handle(ctx context.Context, job jobs.Job) error {
	principal, ok := job.Payload.(*models.Principal)
	if !ok || principal == nil {
		s.logger.Error("discarding malformed insight job", zap.String("job_id", job.ID))
		return nil
	}
	s.run(ctx, principal, job.ID, job.Enqueued)
	return nil
}

// run never fails: load errors and advisor errors both end in the fallback text.
// The result is only ever written under the principal's own tenant key.
func (s *InsightService) run(ctx context.Context, principal *models.Principal, jobID string, requestedAt time.Time) dto.InsightResponse {
	start := time.Now()
	text := advisor.MessageFailed
	outcome := "failed"

	collections, err := s.loader.Load(ctx, principal)
	if err != nil {
		s.logger.Warn("insight snapshot failed", zap.String("tenant_id", principal.TenantID), zap.Error(err))
	} else {
		text = s.advisor.Insights(ctx, dto.TenantSnapshot{
			Students:   collections.Students,
			Teachers:   collections.Teachers,
			Classes:    collections.Classes,
			Attendance: collections.Attendance,
			Payments:   collections.Payments,
		})
		switch text {
		case advisor.MessageFailed:
		case advisor.MessageNotConfigured:
			outcome = "unconfigured"
		default:
			outcome = "ok"
		}
	}

	completed := s.now()
	result := dto.InsightResponse{
		JobID:       jobID,
		Status:      dto.InsightStatusReady,
		Text:        text,
		RequestedAt: requestedAt,
		CompletedAt: &completed,
	}
	// The request context may already be gone for queued jobs.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	_ = s.cache.Set(writeCtx, InsightCacheKey(principal.TenantID), result, s.cfg.ResultTTL)

	s.metrics.ObserveInsightJob(outcome, time.Since(start))
	return result
}
