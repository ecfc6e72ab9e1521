package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/noah-isme/eduflow-api/internal/authz"
	"github.com/noah-isme/eduflow-api/internal/models"
	"github.com/noah-isme/eduflow-api/internal/session"
	appErrors "github.com/noah-isme/eduflow-api/pkg/errors"
)

// readScope resolves the caller for a tenant-scoped read. empty reports that the
// caller must receive no rows: either the gate degrades the read or the caller
// has no institute.
func readScope(ctx context.Context, action authz.Action) (principal *models.Principal, empty bool, err error) {
	principal, err = session.Require(ctx)
	if err != nil {
		return nil, false, err
	}
	empty, err = authz.AuthorizeRead(principal, action)
	if err != nil {
		return nil, false, err
	}
	return principal, empty || !principal.HasTenant(), nil
}

// writeScope resolves the caller for a tenant-scoped write.
func writeScope(ctx context.Context, action authz.Action) (*models.Principal, error) {
	principal, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(principal, action); err != nil {
		return nil, err
	}
	if !principal.HasTenant() {
		return nil, appErrors.ErrNoTenant
	}
	return principal, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func internalError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
