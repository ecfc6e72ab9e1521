package service

import (
	"context"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/eduflow-api/internal/authz"
	"github.com/noah-isme/eduflow-api/internal/models"
	"github.com/noah-isme/eduflow-api/internal/views"
	appErrors "github.com/noah-isme/eduflow-api/pkg/errors"
)

type attendanceRepository interface {
	List(ctx context.Context, tenantID string, filter models.AttendanceFilter) ([]models.AttendanceRecord, error)
	ReplaceDay(ctx context.Context, tenantID, classID string, date time.Time, records []models.AttendanceRecord) error
}

type classFinder interface {
	FindByID(ctx context.Context, tenantID, id string) (*models.ClassSession, error)
}

// AttendanceService coordinates attendance marking and reads.
type AttendanceService struct {
	repo      attendanceRepository
	classes   classFinder
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs AttendanceService.
func NewAttendanceService(repo attendanceRepository, classes classFinder, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, classes: classes, cache: cache, validator: validate, logger: logger}
}

// List returns attendance records matching filter. Teachers are narrowed to their classes.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	principal, empty, err := readScope(ctx, authz.ActionReadAttendance)
	if err != nil {
		return nil, err
	}
	if empty {
		return []models.AttendanceRecord{}, nil
	}
	if principal.Role == models.RoleTeacher {
		if principal.TeacherID == "" {
			return []models.AttendanceRecord{}, nil
		}
		filter.TeacherID = principal.TeacherID
	}
	records, err := s.repo.List(ctx, principal.TenantID, filter)
	if err != nil {
		return nil, internalError(err, "failed to list attendance")
	}
	return records, nil
}

// MarkDay replaces the whole set of marks of a class on a date with entries.
// Students left out of entries lose their mark for that day. An unknown class
// is a silent no-op reported as a nil result.
func (s *AttendanceService) MarkDay(ctx context.Context, req models.MarkDayRequest) ([]models.AttendanceRecord, error) {
	principal, err := writeScope(ctx, authz.ActionMarkAttendance)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid attendance payload")
	}
	date, err := time.Parse(models.DateLayout, req.Date)
	if err != nil {
		return nil, validationError(err, "invalid attendance date")
	}

	class, err := s.classes.FindByID(ctx, principal.TenantID, req.ClassID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, internalError(err, "failed to load class")
	}
	if err := authz.AuthorizeClass(principal, authz.ActionMarkAttendance, class); err != nil {
		return nil, err
	}

	studentIDs := make([]string, 0, len(req.Entries))
	for studentID, status := range req.Entries {
		if !status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid attendance status "+string(status))
		}
		if !class.HasStudent(studentID) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "student "+studentID+" is not enrolled in this class")
		}
		studentIDs = append(studentIDs, studentID)
	}
	sort.Strings(studentIDs)

	records := make([]models.AttendanceRecord, 0, len(studentIDs))
	for _, studentID := range studentIDs {
		records = append(records, models.AttendanceRecord{
			InstituteID: principal.TenantID,
			ClassID:     class.ID,
			StudentID:   studentID,
			Date:        date,
			Status:      req.Entries[studentID],
		})
	}
	if err := s.repo.ReplaceDay(ctx, principal.TenantID, class.ID, date, records); err != nil {
		return nil, internalError(err, "failed to save attendance")
	}
	s.cache.InvalidateDashboard(ctx, principal.TenantID)
	s.logger.Debug("attendance marked", zap.String("class_id", class.ID), zap.String("date", req.Date), zap.Int("entries", len(records)))
	return records, nil
}

// StudentStats summarises one student's marks within a class.
func (s *AttendanceService) StudentStats(ctx context.Context, studentID, classID string) (models.AttendanceStats, error) {
	principal, empty, err := readScope(ctx, authz.ActionReadAttendance)
	if err != nil || empty {
		return models.AttendanceStats{}, err
	}
	if studentID == "" || classID == "" {
		return models.AttendanceStats{}, appErrors.Clone(appErrors.ErrValidation, "studentId and classId are required")
	}
	class, err := s.classes.FindByID(ctx, principal.TenantID, classID)
	if err != nil {
		if isNotFound(err) {
			return models.AttendanceStats{}, nil
		}
		return models.AttendanceStats{}, internalError(err, "failed to load class")
	}
	if err := authz.AuthorizeClass(principal, authz.ActionReadAttendance, class); err != nil {
		return models.AttendanceStats{}, err
	}
	records, err := s.repo.List(ctx, principal.TenantID, models.AttendanceFilter{ClassID: classID, StudentID: studentID})
	if err != nil {
		return models.AttendanceStats{}, internalError(err, "failed to list attendance")
	}
	return views.StudentAttendanceStats(records, studentID, classID), nil
}
