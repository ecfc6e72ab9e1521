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

type classRepository interface {
	List(ctx context.Context, tenantID, teacherID string) ([]models.ClassSession, error)
	FindByID(ctx context.Context, tenantID, id string) (*models.ClassSession, error)
	Create(ctx context.Context, class *models.ClassSession) error
	Update(ctx context.Context, class *models.ClassSession) error
	Enroll(ctx context.Context, tenantID, classID, studentID string) error
}

type teacherFinder interface {
	FindByID(ctx context.Context, tenantID, id string) (*models.Teacher, error)
}

type studentFinder interface {
	FindByID(ctx context.Context, tenantID, id string) (*models.Student, error)
}

// ClassService manages classes and their enrollment lists.
type ClassService struct {
	repo      classRepository
	teachers  teacherFinder
	students  studentFinder
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs a ClassService.
func NewClassService(repo classRepository, teachers teacherFinder, students studentFinder, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, teachers: teachers, students: students, cache: cache, validator: validate, logger: logger}
}

// List returns the caller's classes. Teachers only ever see the classes they teach.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassSession, error) {
	principal, empty, err := readScope(ctx, authz.ActionReadClasses)
	if err != nil {
		return nil, err
	}
	if empty {
		return []models.ClassSession{}, nil
	}
	if principal.Role == models.RoleTeacher {
		if principal.TeacherID == "" {
			return []models.ClassSession{}, nil
		}
		filter.TeacherID = principal.TeacherID
	}
	classes, err := s.repo.List(ctx, principal.TenantID, filter.TeacherID)
	if err != nil {
		return nil, internalError(err, "failed to list classes")
	}
	return views.FilterClasses(classes, filter), nil
}

// Create opens a class taught by a teacher of the caller's institute.
func (s *ClassService) Create(ctx context.Context, req models.CreateClassRequest) (*models.ClassSession, error) {
	principal, err := writeScope(ctx, authz.ActionWriteClasses)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid class payload")
	}
	if blank(req.Name) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class name is required")
	}
	if err := s.ensureTeacher(ctx, principal.TenantID, req.TeacherID); err != nil {
		return nil, err
	}

	class := &models.ClassSession{
		InstituteID: principal.TenantID,
		Name:        strings.TrimSpace(req.Name),
		Code:        strings.TrimSpace(req.Code),
		GradeYear:   strings.TrimSpace(req.GradeYear),
		TeacherID:   req.TeacherID,
		Schedule:    strings.TrimSpace(req.Schedule),
		FeePerMonth: req.FeePerMonth,
		StudentIDs:  []string{},
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, internalError(err, "failed to create class")
	}
	s.cache.InvalidateDashboard(ctx, principal.TenantID)
	return class, nil
}

// Update merges patch into the class; unknown ids are a silent no-op. The
// enrollment list is never touched here.
func (s *ClassService) Update(ctx context.Context, id string, patch models.ClassPatch) (*models.ClassSession, error) {
	principal, err := writeScope(ctx, authz.ActionWriteClasses)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(patch); err != nil {
		return nil, validationError(err, "invalid class payload")
	}
	class, err := s.repo.FindByID(ctx, principal.TenantID, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, internalError(err, "failed to load class")
	}
	if patch.TeacherID != nil && *patch.TeacherID != class.TeacherID {
		if err := s.ensureTeacher(ctx, principal.TenantID, *patch.TeacherID); err != nil {
			return nil, err
		}
	}
	patch.Apply(class)
	if err := s.repo.Update(ctx, class); err != nil {
		return nil, internalError(err, "failed to update class")
	}
	s.cache.InvalidateDashboard(ctx, principal.TenantID)
	return class, nil
}

// Enroll adds a student to a class once. Enrolling twice leaves a single entry;
// an unknown class is a silent no-op.
func (s *ClassService) Enroll(ctx context.Context, classID string, req models.EnrollRequest) (*models.ClassSession, error) {
	principal, err := writeScope(ctx, authz.ActionEnrollStudent)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid enrollment payload")
	}
	if _, err := s.repo.FindByID(ctx, principal.TenantID, classID); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, internalError(err, "failed to load class")
	}
	if _, err := s.students.FindByID(ctx, principal.TenantID, req.StudentID); err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "student does not belong to this institute")
		}
		return nil, internalError(err, "failed to load student")
	}

	if err := s.repo.Enroll(ctx, principal.TenantID, classID, req.StudentID); err != nil {
		return nil, internalError(err, "failed to enroll student")
	}
	s.cache.InvalidateDashboard(ctx, principal.TenantID)

	class, err := s.repo.FindByID(ctx, principal.TenantID, classID)
	if err != nil {
		return nil, internalError(err, "failed to reload class")
	}
	return class, nil
}

func (s *ClassService) ensureTeacher(ctx context.Context, tenantID, teacherID string) error {
	if _, err := s.teachers.FindByID(ctx, tenantID, teacherID); err != nil {
		if isNotFound(err) {
			return appErrors.Clone(appErrors.ErrValidation, "teacher does not belong to this institute")
		}
		return internalError(err, "failed to load teacher")
	}
	return nil
}
