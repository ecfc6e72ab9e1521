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

type salaryRepository interface {
	List(ctx context.Context, tenantID, month string) ([]models.SalaryRecord, error)
	Save(ctx context.Context, salary *models.SalaryRecord) error
}

type teacherReader interface {
	List(ctx context.Context, tenantID string) ([]models.Teacher, error)
	FindByID(ctx context.Context, tenantID, id string) (*models.Teacher, error)
}

// SalaryService computes teacher payouts and tracks their paid status.
type SalaryService struct {
	repo     salaryRepository
	teachers teacherReader
	classes  classLister
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewSalaryService constructs a SalaryService.
func NewSalaryService(repo salaryRepository, teachers teacherReader, classes classLister, metrics *MetricsService, logger *zap.Logger) *SalaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalaryService{repo: repo, teachers: teachers, classes: classes, metrics: metrics, logger: logger}
}

// Calculate returns every teacher's salary for month. Teachers receive an empty sheet.
func (s *SalaryService) Calculate(ctx context.Context, month string) (*dto.SalarySheetResponse, error) {
	principal, empty, err := readScope(ctx, authz.ActionReadSalaries)
	if err != nil {
		return nil, err
	}
	if err := validateMonth(month); err != nil {
		return nil, err
	}
	sheet := &dto.SalarySheetResponse{Month: month, Rows: []models.SalaryRecord{}}
	if empty {
		return sheet, nil
	}

	start := time.Now()
	var (
		teachers  []models.Teacher
		classes   []models.ClassSession
		persisted []models.SalaryRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		teachers, err = s.teachers.List(gctx, principal.TenantID)
		return err
	})
	g.Go(func() (err error) {
		classes, err = s.classes.List(gctx, principal.TenantID, "")
		return err
	})
	g.Go(func() (err error) {
		persisted, err = s.repo.List(gctx, principal.TenantID, month)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, internalError(err, "failed to load salary inputs")
	}
	s.metrics.ObserveDBQuery("salary_inputs", time.Since(start))

	sheet.Rows = views.BuildSalaryRows(teachers, classes, persisted, month)
	sheet.TotalPayout = views.TotalPayout(sheet.Rows)
	return sheet, nil
}

// ToggleSalary persists the teacher's salary for month with its status flipped.
// An unknown teacher is a silent no-op reported as a nil result.
func (s *SalaryService) ToggleSalary(ctx context.Context, teacherID, month string) (*models.SalaryRecord, error) {
	principal, err := writeScope(ctx, authz.ActionToggleSalary)
	if err != nil {
		return nil, err
	}
	if err := validateMonth(month); err != nil {
		return nil, err
	}
	teacher, err := s.teachers.FindByID(ctx, principal.TenantID, teacherID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, internalError(err, "failed to load teacher")
	}
	classes, err := s.classes.List(ctx, principal.TenantID, teacher.ID)
	if err != nil {
		return nil, internalError(err, "failed to list classes")
	}
	persisted, err := s.repo.List(ctx, principal.TenantID, month)
	if err != nil {
		return nil, internalError(err, "failed to list salaries")
	}

	record := views.ComputeSalary(*teacher, classes, month)
	current := models.SalaryPending
	for _, p := range persisted {
		if p.TeacherID == teacher.ID {
			current = p.Status
			break
		}
	}
	record.Status = current.Flip()
	if err := s.repo.Save(ctx, &record); err != nil {
		return nil, internalError(err, "failed to save salary")
	}
	s.logger.Info("salary status changed", zap.String("teacher_id", teacher.ID), zap.String("month", month), zap.String("status", string(record.Status)))
	return &record, nil
}
