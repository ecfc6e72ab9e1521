// Package session carries the authenticated principal through a request context.
package session

import (
	"context"

	"github.com/noah-isme/eduflow-api/internal/models"
	appErrors "github.com/noah-isme/eduflow-api/pkg/errors"
)

type principalKey struct{}

// WithPrincipal returns a child context holding the principal.
func WithPrincipal(ctx context.Context, principal *models.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// Principal returns the principal stored in ctx, or nil.
func Principal(ctx context.Context) *models.Principal {
	if ctx == nil {
		return nil
	}
	principal, _ := ctx.Value(principalKey{}).(*models.Principal)
	return principal
}

// Require returns the principal or a NOT_AUTHENTICATED error.
func Require(ctx context.Context) (*models.Principal, error) {
	principal := Principal(ctx)
	if principal == nil {
		return nil, appErrors.ErrNotAuthenticated
	}
	return principal, nil
}

// RequireTenant returns the principal when it is scoped to an institute.
func RequireTenant(ctx context.Context) (*models.Principal, error) {
	principal, err := Require(ctx)
	if err != nil {
		return nil, err
	}
	if !principal.HasTenant() {
		return nil, appErrors.ErrNoTenant
	}
	return principal, nil
}
