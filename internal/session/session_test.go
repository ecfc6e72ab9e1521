package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduflow-api/internal/models"
	appErrors "github.com/noah-isme/eduflow-api/pkg/errors"
)

func TestRequireWithoutPrincipal(t *testing.T) {
	_, err := Require(context.Background())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotAuthenticated))
}

func TestRequireTenant(t *testing.T) {
	admin := WithPrincipal(context.Background(), &models.Principal{ID: "admin", Role: models.RoleAdmin})
	_, err := RequireTenant(admin)
	assert.True(t, appErrors.Is(err, appErrors.ErrNoTenant))

	manager := WithPrincipal(context.Background(), &models.Principal{ID: "m1", Role: models.RoleManager, TenantID: "inst-1"})
	principal, err := RequireTenant(manager)
	require.NoError(t, err)
	assert.Equal(t, "inst-1", principal.TenantID)
}

func TestPrincipalIsolatedPerContext(t *testing.T) {
	base := context.Background()
	first := WithPrincipal(base, &models.Principal{ID: "a"})
	second := WithPrincipal(base, &models.Principal{ID: "b"})

	assert.Nil(t, Principal(base))
	assert.Equal(t, "a", Principal(first).ID)
	assert.Equal(t, "b", Principal(second).ID)
}
