package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/eduflow-api/internal/authz"
	"github.com/noah-isme/eduflow-api/internal/models"
	"github.com/noah-isme/eduflow-api/internal/views"
	appErrors "github.com/noah-isme/eduflow-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, tenantID string) ([]models.Student, error)
	FindByID(ctx context.Context, tenantID, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
}

type classLister interface {
	List(ctx context.Context, tenantID, teacherID string) ([]models.ClassSession, error)
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	classes   classLister
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service. classes backs searching by
// enrolled class and may be nil.
func NewStudentService(repo studentRepository, classes classLister, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, classes: classes, cache: cache, validator: validate, logger: logger}
}

// List returns the caller's students after search and sort.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	principal, empty, err := readScope(ctx, authz.ActionReadStudents)
	if err != nil {
		return nil, err
	}
	if empty {
		return []models.Student{}, nil
	}
	students, err := s.repo.List(ctx, principal.TenantID)
	if err != nil {
		return nil, internalError(err, "failed to list students")
	}
	var classes []models.ClassSession
	if strings.TrimSpace(filter.Search) != "" && s.classes != nil {
		if classes, err = s.classes.List(ctx, principal.TenantID, ""); err != nil {
			return nil, internalError(err, "failed to list classes")
		}
	}
	return views.FilterStudents(students, classes, filter), nil
}

// Create registers a student in the caller's institute.
func (s *StudentService) Create(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error) {
	principal, err := writeScope(ctx, authz.ActionWriteStudents)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	if blank(req.Name) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student name is required")
	}

	enrolled := time.Now().UTC().Truncate(24 * time.Hour)
	if req.EnrolledDate != nil {
		enrolled = *req.EnrolledDate
	}
	student := &models.Student{
		InstituteID:  principal.TenantID,
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		EnrolledDate: enrolled,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, internalError(err, "failed to create student")
	}
	s.cache.InvalidateDashboard(ctx, principal.TenantID)
	return student, nil
}

// Update merges patch into the student. A missing student is a silent no-op
// reported as a nil result.
func (s *StudentService) Update(ctx context.Context, id string, patch models.StudentPatch) (*models.Student, error) {
	principal, err := writeScope(ctx, authz.ActionWriteStudents)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(patch); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	student, err := s.repo.FindByID(ctx, principal.TenantID, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, internalError(err, "failed to load student")
	}
	patch.Apply(student)
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, internalError(err, "failed to update student")
	}
	return student, nil
}
