package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/eduflow-api/internal/handler"
	"github.com/noah-isme/eduflow-api/internal/repository"
	"github.com/noah-isme/eduflow-api/internal/repository/memory"
	"github.com/noah-isme/eduflow-api/internal/service"
	"github.com/noah-isme/eduflow-api/pkg/cache"
	"github.com/noah-isme/eduflow-api/pkg/config"
	"github.com/noah-isme/eduflow-api/pkg/database"
)

// backend is the opened storage plus the probes and cleanup that go with it.
type backend struct {
	stores    service.Stores
	readiness map[string]handler.ReadinessCheck
	closers   []func() error
	logger    *zap.Logger
}

func (b *backend) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			b.logger.Warn("close backend resource", zap.Error(err))
		}
	}
}

func openBackend(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*backend, error) {
	b := &backend{readiness: map[string]handler.ReadinessCheck{}, logger: logr}

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		store := memory.NewStore()
		if cfg.Storage.SeedDemo {
			if err := store.SeedDemo(); err != nil {
				return nil, err
			}
			logr.Info("demo data loaded", zap.String("driver", cfg.Storage.Driver))
		}
		b.stores = service.Stores{
			Institutes: memory.NewInstituteRepository(store),
			Profiles:   memory.NewProfileRepository(store),
			Sessions:   memory.NewSessionRepository(store),
			Audit:      memory.NewAuditRepository(store),
			Students:   memory.NewStudentRepository(store),
			Teachers:   memory.NewTeacherRepository(store),
			Classes:    memory.NewClassRepository(store),
			Attendance: memory.NewAttendanceRepository(store),
			Payments:   memory.NewPaymentRepository(store),
			Salaries:   memory.NewSalaryRepository(store),
		}
	default:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, db.Close)
		if err := database.Migrate(db); err != nil {
			b.close()
			return nil, err
		}
		if cfg.Storage.SeedDemo {
			data, err := memory.DemoDataset()
			if err != nil {
				b.close()
				return nil, err
			}
			if err := repository.Seed(ctx, db, data); err != nil {
				b.close()
				return nil, fmt.Errorf("seed demo data: %w", err)
			}
			logr.Info("demo data loaded", zap.String("driver", cfg.Storage.Driver))
		}
		b.stores = service.Stores{
			Institutes: repository.NewInstituteRepository(db),
			Profiles:   repository.NewProfileRepository(db),
			Sessions:   repository.NewSessionRepository(db),
			Audit:      repository.NewAuditRepository(db),
			Students:   repository.NewStudentRepository(db),
			Teachers:   repository.NewTeacherRepository(db),
			Classes:    repository.NewClassRepository(db),
			Attendance: repository.NewAttendanceRepository(db),
			Payments:   repository.NewPaymentRepository(db),
			Salaries:   repository.NewSalaryRepository(db),
		}
		b.readiness["postgres"] = db.PingContext
	}

	client, err := cache.NewRedis(ctx, cfg.Redis)
	switch {
	case err != nil:
		logr.Warn("redis unavailable; using in-process cache", zap.Error(err))
		b.stores.Cache = memory.NewCache()
	case client == nil:
		b.stores.Cache = memory.NewCache()
	default:
		redisRepo := repository.NewCacheRepository(client, logr)
		b.stores.Cache = redisRepo
		b.readiness["redis"] = redisRepo.Ping
		b.closers = append(b.closers, redisRepo.Close)
	}
	return b, nil
}
