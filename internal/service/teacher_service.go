package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/eduflow-api/internal/authz"
	"github.com/noah-isme/eduflow-api/internal/models"
	"github.com/noah-isme/eduflow-api/internal/views"
	appErrors "github.com/noah-isme/eduflow-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context, tenantID string) ([]models.Teacher, error)
	FindByID(ctx context.Context, tenantID, id string) (*models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
}

// TeacherService provides teacher roster operations.
type TeacherService struct {
	repo      teacherRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns the caller's teachers after search and sort.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error) {
	principal, empty, err := readScope(ctx, authz.ActionReadTeachers)
	if err != nil {
		return nil, err
	}
	if empty {
		return []models.Teacher{}, nil
	}
	teachers, err := s.repo.List(ctx, principal.TenantID)
	if err != nil {
		return nil, internalError(err, "failed to list teachers")
	}
	return views.FilterTeachers(teachers, filter), nil
}

// Create hires a teacher into the caller's institute.
func (s *TeacherService) Create(ctx context.Context, req models.CreateTeacherRequest) (*models.Teacher, error) {
	principal, err := writeScope(ctx, authz.ActionWriteTeachers)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid teacher payload")
	}
	if blank(req.Name) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher name is required")
	}
	teacher := &models.Teacher{
		InstituteID:          principal.TenantID,
		Name:                 strings.TrimSpace(req.Name),
		Email:                strings.TrimSpace(req.Email),
		SubjectSpecialty:     strings.TrimSpace(req.SubjectSpecialty),
		BaseSalary:           req.BaseSalary,
		CommissionPerStudent: req.CommissionPerStudent,
	}
	if err := s.repo.Create(ctx, teacher); err != nil {
		return nil, internalError(err, "failed to create teacher")
	}
	s.cache.InvalidateDashboard(ctx, principal.TenantID)
	return teacher, nil
}

// Update merges patch into the teacher; unknown ids are a silent no-op.
func (s *TeacherService) Update(ctx context.Context, id string, patch models.TeacherPatch) (*models.Teacher, error) {
	principal, err := writeScope(ctx, authz.ActionWriteTeachers)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(patch); err != nil {
		return nil, validationError(err, "invalid teacher payload")
	}
	teacher, err := s.repo.FindByID(ctx, principal.TenantID, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, internalError(err, "failed to load teacher")
	}
	patch.Apply(teacher)
	if err := s.repo.Update(ctx, teacher); err != nil {
		return nil, internalError(err, "failed to update teacher")
	}
	return teacher, nil
}
