package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/eduflow-api/internal/authz"
	"github.com/noah-isme/eduflow-api/internal/dto"
	"github.com/noah-isme/eduflow-api/internal/models"
	"github.com/noah-isme/eduflow-api/internal/views"
)

type studentLister interface {
	List(ctx context.Context, tenantID string) ([]models.Student, error)
}

type paymentLister interface {
	List(ctx context.Context, tenantID, month string) ([]models.PaymentRecord, error)
}

// FinanceService builds the monthly fee ledger.
type FinanceService struct {
	students studentLister
	classes  classLister
	payments paymentLister
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewFinanceService constructs a FinanceService.
func NewFinanceService(students studentLister, classes classLister, payments paymentLister, metrics *MetricsService, logger *zap.Logger) *FinanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinanceService{
		students: students,
		classes:  classes,
		payments: payments,
		metrics:  metrics,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Ledger returns one row per enrollment pair for the month, defaulting to the
// current month. Pairs without a stored payment appear as implied PENDING rows.
func (s *FinanceService) Ledger(ctx context.Context, filter views.LedgerFilter) (*dto.FeeLedgerResponse, error) {
	principal, empty, err := readScope(ctx, authz.ActionReadPayments)
	if err != nil {
		return nil, err
	}
	if filter.Month == "" {
		filter.Month = s.now().Format(models.MonthLayout)
	}
	if err := validateMonth(filter.Month); err != nil {
		return nil, err
	}
	if empty {
		return &dto.FeeLedgerResponse{Month: filter.Month, Rows: []dto.LedgerRow{}}, nil
	}

	start := time.Now()
	var (
		students []models.Student
		classes  []models.ClassSession
		payments []models.PaymentRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		students, err = s.students.List(gctx, principal.TenantID)
		return err
	})
	g.Go(func() (err error) {
		classes, err = s.classes.List(gctx, principal.TenantID, filter.TeacherID)
		return err
	})
	g.Go(func() (err error) {
		payments, err = s.payments.List(gctx, principal.TenantID, filter.Month)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, internalError(err, "failed to load ledger inputs")
	}
	s.metrics.ObserveDBQuery("ledger_inputs", time.Since(start))

	ledger := views.BuildFeeLedger(students, classes, payments, filter)
	return &ledger, nil
}
