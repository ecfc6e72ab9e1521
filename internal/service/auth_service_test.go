package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduflow-api/internal/models"
	"github.com/noah-isme/eduflow-api/internal/repository/memory"
	"github.com/noah-isme/eduflow-api/internal/session"
	appErrors "github.com/noah-isme/eduflow-api/pkg/errors"
)

func signIn(t *testing.T, f *fixture, email string) *models.SignInResponse {
	t.Helper()
	resp, err := f.auth.SignIn(context.Background(), models.SignInRequest{Email: email, Password: memory.DemoPassword, IP: "127.0.0.1"})
	require.NoError(t, err)
	return resp
}

func TestSignInManager(t *testing.T) {
	f := newFixture(t)

	resp := signIn(t, f, "  Manager@Springfield.com ")
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "inst-1", resp.Principal.TenantID)
	assert.Equal(t, models.RoleManager, resp.Principal.Role)

	entries := f.audit.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditActionLogin, entries[0].Action)
}

func TestSignInInvalidCredentials(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.SignIn(context.Background(), models.SignInRequest{Email: "manager@springfield.com", Password: "wrong"})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = f.auth.SignIn(context.Background(), models.SignInRequest{Email: "nobody@springfield.com", Password: memory.DemoPassword})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = f.auth.SignIn(context.Background(), models.SignInRequest{Email: "not-an-email", Password: "x"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestSignInPendingInstituteUntilApproved(t *testing.T) {
	f := newFixture(t)
	req := models.SignInRequest{Email: "owner@pending.academy", Password: memory.DemoPassword}

	_, err := f.auth.SignIn(context.Background(), req)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrTenantNotApproved))

	approved, err := f.institutes.Approve(as(adminPrincipal), "inst-2")
	require.NoError(t, err)
	assert.Equal(t, models.InstituteStatusApproved, approved.Status)

	resp, err := f.auth.SignIn(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "inst-2", resp.Principal.TenantID)
}

func TestSignInRejectedInstitute(t *testing.T) {
	f := newFixture(t)
	_, err := f.institutes.Reject(as(adminPrincipal), "inst-2")
	require.NoError(t, err)

	_, err = f.auth.SignIn(context.Background(), models.SignInRequest{Email: "owner@pending.academy", Password: memory.DemoPassword})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrTenantNotApproved))
	assert.Contains(t, err.Error(), "rejected")
}

func TestAdminSignsInWithoutInstitute(t *testing.T) {
	f := newFixture(t)
	resp := signIn(t, f, "admin@platform.com")
	assert.Empty(t, resp.Principal.TenantID)
	assert.Equal(t, models.RoleAdmin, resp.Principal.Role)
}

func TestAuthenticateUntilSignOut(t *testing.T) {
	f := newFixture(t)
	resp := signIn(t, f, "sarah@eduflow.com")

	principal, err := f.auth.Authenticate(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "teacher-1", principal.TeacherID)
	assert.NotEmpty(t, principal.SessionID)

	ctx := session.WithPrincipal(context.Background(), principal)
	require.NoError(t, f.auth.SignOut(ctx, models.SignInRequest{}))

	_, err = f.auth.Authenticate(context.Background(), resp.AccessToken)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotAuthenticated))

	// Signing out again, or without a session at all, is harmless.
	require.NoError(t, f.auth.SignOut(ctx, models.SignInRequest{}))
	require.NoError(t, f.auth.SignOut(context.Background(), models.SignInRequest{}))
}

func TestAuthenticateRejectsExpiredAndForgedTokens(t *testing.T) {
	f := newFixture(t)
	resp := signIn(t, f, "manager@springfield.com")

	f.auth.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }
	_, err := f.auth.Authenticate(context.Background(), resp.AccessToken)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotAuthenticated))

	_, err = f.auth.Authenticate(context.Background(), resp.AccessToken+"x")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotAuthenticated))
}

func TestRegisterInstitute(t *testing.T) {
	f := newFixture(t)
	req := models.RegisterInstituteRequest{
		InstituteName: " Riverdale Prep ",
		ManagerName:   "Waldo Weatherbee",
		Email:         "Principal@Riverdale.edu",
		Password:      "secret1",
	}

	resp, err := f.auth.RegisterInstitute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Riverdale Prep", resp.Institute.Name)
	assert.Equal(t, models.InstituteStatusPending, resp.Institute.Status)
	assert.Equal(t, models.PlanFree, resp.Institute.SubscriptionPlan)
	require.NotNil(t, resp.Profile.InstituteID)
	assert.Equal(t, resp.Institute.ID, *resp.Profile.InstituteID)
	assert.Equal(t, "principal@riverdale.edu", resp.Profile.Email)

	_, err = f.auth.SignIn(context.Background(), models.SignInRequest{Email: req.Email, Password: req.Password})
	assert.True(t, appErrors.Is(err, appErrors.ErrTenantNotApproved))

	_, err = f.auth.RegisterInstitute(context.Background(), req)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
}

func TestProvisionTeacherAccount(t *testing.T) {
	f := newFixture(t)
	req := models.ProvisionTeacherAccountRequest{TeacherID: "t2", Email: "alan@eduflow.com", Password: "dinosaur"}

	_, err := f.auth.ProvisionTeacherAccount(as(teacherPrincipal), req)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))

	_, err = f.auth.ProvisionTeacherAccount(as(managerPrincipal), models.ProvisionTeacherAccountRequest{TeacherID: "missing", Email: "x@eduflow.com", Password: "secret1"})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	profile, err := f.auth.ProvisionTeacherAccount(as(managerPrincipal), req)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, profile.Role)
	assert.Equal(t, "Prof. Alan Grant", profile.Name)

	resp, err := f.auth.SignIn(context.Background(), models.SignInRequest{Email: req.Email, Password: req.Password})
	require.NoError(t, err)
	assert.Equal(t, "t2", resp.Principal.TeacherID)
	assert.Equal(t, "inst-1", resp.Principal.TenantID)
}
