package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduflow-api/internal/models"
	appErrors "github.com/noah-isme/eduflow-api/pkg/errors"
)

func TestInstituteListOnlyForAdmins(t *testing.T) {
	f := newFixture(t)

	all, err := f.institutes.List(as(adminPrincipal))
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := f.institutes.List(as(managerPrincipal))
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = f.institutes.List(context.Background())
	assert.True(t, appErrors.Is(err, appErrors.ErrNotAuthenticated))
}

func TestInstituteReviewTransitions(t *testing.T) {
	f := newFixture(t)

	_, err := f.institutes.Approve(as(managerPrincipal), "inst-2")
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))

	rejected, err := f.institutes.Reject(as(adminPrincipal), "inst-2")
	require.NoError(t, err)
	assert.Equal(t, models.InstituteStatusRejected, rejected.Status)

	// Terminal states never move again.
	_, err = f.institutes.Approve(as(adminPrincipal), "inst-2")
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTransition))
	_, err = f.institutes.Reject(as(adminPrincipal), "inst-1")
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidTransition))

	missing, err := f.institutes.Approve(as(adminPrincipal), "inst-404")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInstituteOwnAndRename(t *testing.T) {
	f := newFixture(t)

	own, err := f.institutes.GetOwn(as(teacherPrincipal))
	require.NoError(t, err)
	assert.Equal(t, "Springfield High", own.Name)

	_, err = f.institutes.GetOwn(as(adminPrincipal))
	assert.True(t, appErrors.Is(err, appErrors.ErrNoTenant))

	_, err = f.institutes.Rename(as(teacherPrincipal), models.RenameInstituteRequest{Name: "Shelbyville"})
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))

	_, err = f.institutes.Rename(as(managerPrincipal), models.RenameInstituteRequest{Name: "   "})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	renamed, err := f.institutes.Rename(as(managerPrincipal), models.RenameInstituteRequest{Name: " Springfield Elementary "})
	require.NoError(t, err)
	assert.Equal(t, "Springfield Elementary", renamed.Name)
}
