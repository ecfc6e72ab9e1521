package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/eduflow-api/internal/authz"
	"github.com/noah-isme/eduflow-api/internal/models"
	"github.com/noah-isme/eduflow-api/internal/session"
	appErrors "github.com/noah-isme/eduflow-api/pkg/errors"
)

type instituteRepository interface {
	List(ctx context.Context) ([]models.Institute, error)
	FindByID(ctx context.Context, id string) (*models.Institute, error)
	UpdateStatus(ctx context.Context, id string, from, to models.InstituteStatus) (bool, error)
	UpdateName(ctx context.Context, id, name string) error
}

// InstituteService handles tenant review and profile use-cases.
type InstituteService struct {
	repo      instituteRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInstituteService constructs the institute service.
func NewInstituteService(repo instituteRepository, validate *validator.Validate, logger *zap.Logger) *InstituteService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstituteService{repo: repo, validator: validate, logger: logger}
}

// List returns every institute to platform admins and nothing to anyone else.
func (s *InstituteService) List(ctx context.Context) ([]models.Institute, error) {
	principal, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	empty, err := authz.AuthorizeRead(principal, authz.ActionListInstitutes)
	if err != nil {
		return nil, err
	}
	if empty {
		return []models.Institute{}, nil
	}
	institutes, err := s.repo.List(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list institutes")
	}
	return institutes, nil
}

// Approve moves a PENDING institute to APPROVED.
func (s *InstituteService) Approve(ctx context.Context, id string) (*models.Institute, error) {
	return s.transition(ctx, id, models.InstituteStatusApproved)
}

// Reject moves a PENDING institute to REJECTED.
func (s *InstituteService) Reject(ctx context.Context, id string) (*models.Institute, error) {
	return s.transition(ctx, id, models.InstituteStatusRejected)
}

// transition returns nil without error for unknown ids.
func (s *InstituteService) transition(ctx context.Context, id string, to models.InstituteStatus) (*models.Institute, error) {
	principal, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(principal, authz.ActionReviewInstitute); err != nil {
		return nil, err
	}

	institute, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, internalError(err, "failed to load institute")
	}
	if !institute.Status.CanTransition(to) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "institute is already "+strings.ToLower(string(institute.Status)))
	}

	changed, err := s.repo.UpdateStatus(ctx, id, models.InstituteStatusPending, to)
	if err != nil {
		return nil, internalError(err, "failed to update institute status")
	}
	if !changed {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "institute was reviewed concurrently")
	}
	institute.Status = to
	s.logger.Info("institute reviewed", zap.String("institute_id", id), zap.String("status", string(to)), zap.String("admin_id", principal.ID))
	return institute, nil
}

// GetOwn returns the caller's institute.
func (s *InstituteService) GetOwn(ctx context.Context) (*models.Institute, error) {
	principal, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(principal, authz.ActionViewInstitute); err != nil {
		return nil, err
	}
	if !principal.HasTenant() {
		return nil, appErrors.ErrNoTenant
	}
	institute, err := s.repo.FindByID(ctx, principal.TenantID)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "institute not found")
		}
		return nil, internalError(err, "failed to load institute")
	}
	return institute, nil
}

// Rename changes the display name of the caller's institute.
func (s *InstituteService) Rename(ctx context.Context, req models.RenameInstituteRequest) (*models.Institute, error) {
	principal, err := writeScope(ctx, authz.ActionRenameInstitute)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid institute payload")
	}
	if blank(req.Name) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "institute name is required")
	}
	if err := s.repo.UpdateName(ctx, principal.TenantID, strings.TrimSpace(req.Name)); err != nil {
		return nil, internalError(err, "failed to rename institute")
	}
	return s.GetOwn(ctx)
}
