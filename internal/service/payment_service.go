package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/eduflow-api/internal/authz"
	"github.com/noah-isme/eduflow-api/internal/models"
	appErrors "github.com/noah-isme/eduflow-api/pkg/errors"
)

type paymentRepository interface {
	List(ctx context.Context, tenantID, month string) ([]models.PaymentRecord, error)
	History(ctx context.Context, tenantID, studentID, classID string) ([]models.PaymentRecord, error)
	FindByKey(ctx context.Context, tenantID, studentID, classID, month string) (*models.PaymentRecord, error)
	Save(ctx context.Context, payment *models.PaymentRecord) error
}

// PaymentService tracks monthly fee collection.
type PaymentService struct {
	repo      paymentRepository
	classes   classFinder
	students  studentFinder
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(repo paymentRepository, classes classFinder, students studentFinder, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		repo:      repo,
		classes:   classes,
		students:  students,
		cache:     cache,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns the tenant's payments for month; an empty month lists every month.
func (s *PaymentService) List(ctx context.Context, month string) ([]models.PaymentRecord, error) {
	principal, empty, err := readScope(ctx, authz.ActionReadPayments)
	if err != nil {
		return nil, err
	}
	if empty {
		return []models.PaymentRecord{}, nil
	}
	if month != "" {
		if err := validateMonth(month); err != nil {
			return nil, err
		}
	}
	payments, err := s.repo.List(ctx, principal.TenantID, month)
	if err != nil {
		return nil, internalError(err, "failed to list payments")
	}
	return payments, nil
}

// History returns every payment of a student for a class, newest month first.
func (s *PaymentService) History(ctx context.Context, studentID, classID string) ([]models.PaymentRecord, error) {
	principal, empty, err := readScope(ctx, authz.ActionReadPayments)
	if err != nil {
		return nil, err
	}
	if empty {
		return []models.PaymentRecord{}, nil
	}
	if studentID == "" || classID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "studentId and classId are required")
	}
	payments, err := s.repo.History(ctx, principal.TenantID, studentID, classID)
	if err != nil {
		return nil, internalError(err, "failed to load payment history")
	}
	return payments, nil
}

// Toggle flips the payment for (student, class, month) between PAID and PENDING.
// Without a stored record a PAID one is created, billed at req.Amount or, when
// that is zero, at the class fee.
func (s *PaymentService) Toggle(ctx context.Context, req models.TogglePaymentRequest) (*models.PaymentRecord, error) {
	principal, err := writeScope(ctx, authz.ActionTogglePayment)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid payment payload")
	}

	class, err := s.classes.FindByID(ctx, principal.TenantID, req.ClassID)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "class does not belong to this institute")
		}
		return nil, internalError(err, "failed to load class")
	}
	if _, err := s.students.FindByID(ctx, principal.TenantID, req.StudentID); err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "student does not belong to this institute")
		}
		return nil, internalError(err, "failed to load student")
	}

	payment, err := s.repo.FindByKey(ctx, principal.TenantID, req.StudentID, req.ClassID, req.Month)
	if err != nil {
		if !isNotFound(err) {
			return nil, internalError(err, "failed to load payment")
		}
		amount := req.Amount
		if amount == 0 {
			amount = class.FeePerMonth
		}
		payment = &models.PaymentRecord{
			InstituteID: principal.TenantID,
			StudentID:   req.StudentID,
			ClassID:     req.ClassID,
			Month:       req.Month,
			Amount:      amount,
			Status:      models.PaymentPending,
		}
	}

	payment.Toggle(s.now())
	if err := s.repo.Save(ctx, payment); err != nil {
		return nil, internalError(err, "failed to save payment")
	}
	s.cache.InvalidateDashboard(ctx, principal.TenantID)
	return payment, nil
}

func validateMonth(month string) error {
	if _, err := time.Parse(models.MonthLayout, month); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "month must be formatted YYYY-MM")
	}
	return nil
}
