package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduflow-api/internal/authz"
	"github.com/noah-isme/eduflow-api/internal/models"
	"github.com/noah-isme/eduflow-api/internal/session"
	appErrors "github.com/noah-isme/eduflow-api/pkg/errors"
)

type fakeAuthenticator struct {
	principals map[string]*models.Principal
}

func (f fakeAuthenticator) Authenticate(ctx context.Context, token string) (*models.Principal, error) {
	if p, ok := f.principals[token]; ok {
		return p, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotAuthenticated, "session expired or revoked")
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []*models.AuditLog
}

func (r *recordingAudit) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, log)
	return nil
}

type recordingObserver struct {
	paths    []string
	statuses []int
}

func (r *recordingObserver) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	r.paths = append(r.paths, path)
	r.statuses = append(r.statuses, status)
}

var auth = fakeAuthenticator{principals: map[string]*models.Principal{
	"manager-token": {ID: "manager-1", Role: models.RoleManager, TenantID: "inst-1"},
	"teacher-token": {ID: "teacher-1-login", Role: models.RoleTeacher, TenantID: "inst-1", TeacherID: "teacher-1"},
}}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestJWTAttachesPrincipalToRequestContext(t *testing.T) {
	r := newRouter()
	r.GET("/me", JWT(auth), func(c *gin.Context) {
		fromCtx := session.Principal(c.Request.Context())
		require.NotNil(t, fromCtx)
		assert.Same(t, CurrentPrincipal(c), fromCtx)
		c.String(http.StatusOK, fromCtx.ID)
	})

	rec := serve(r, http.MethodGet, "/me", "manager-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "manager-1", rec.Body.String())
}

func TestJWTRejectsMissingAndRevokedTokens(t *testing.T) {
	r := newRouter()
	r.GET("/me", JWT(auth), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serve(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, appErrors.ErrNotAuthenticated.Code, errorCode(t, rec))

	rec = serve(r, http.MethodGet, "/me", "revoked-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthorizeUsesTheGate(t *testing.T) {
	r := newRouter()
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.POST("/payments/toggle", JWT(auth), Authorize(authz.ActionTogglePayment), ok)
	r.GET("/finance/salaries", JWT(auth), Authorize(authz.ActionReadSalaries), ok)

	rec := serve(r, http.MethodPost, "/payments/toggle", "teacher-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, errorCode(t, rec))

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/payments/toggle", "manager-token").Code)
	// Degraded reads reach the handler.
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/finance/salaries", "teacher-token").Code)
}

func TestAuditRecordsSuccessfulRequestsOnly(t *testing.T) {
	recorder := &recordingAudit{}
	r := newRouter()
	r.PATCH("/students/:id", JWT(auth), Audit(recorder, nil, models.AuditActionUpdate, "student"), func(c *gin.Context) {
		if c.Param("id") == "bad" {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	serve(r, http.MethodPatch, "/students/s1", "manager-token")
	serve(r, http.MethodPatch, "/students/bad", "manager-token")

	require.Len(t, recorder.entries, 1)
	entry := recorder.entries[0]
	assert.Equal(t, models.AuditActionUpdate, entry.Action)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, "s1", *entry.ResourceID)
	require.NotNil(t, entry.InstituteID)
	assert.Equal(t, "inst-1", *entry.InstituteID)
	assert.Contains(t, string(entry.NewValues), `"path":"/students/:id"`)
}

func TestMetricsLabelsByRouteTemplate(t *testing.T) {
	observer := &recordingObserver{}
	r := newRouter()
	r.Use(Metrics(observer))
	r.GET("/classes/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, http.MethodGet, "/classes/c1", "")
	serve(r, http.MethodGet, "/nowhere", "")

	assert.Equal(t, []string{"/classes/:id", "unmatched"}, observer.paths)
	assert.Equal(t, []int{http.StatusOK, http.StatusNotFound}, observer.statuses)
}

func TestSetCacheHitWritesHeaderAndMeta(t *testing.T) {
	r := newRouter()
	r.Use(WithResponseMeta())
	r.GET("/dashboard", func(c *gin.Context) {
		SetCacheHit(c, true)
		c.JSON(http.StatusOK, ExtractMeta(c))
	})

	rec := serve(r, http.MethodGet, "/dashboard", "")
	assert.Equal(t, "HIT", rec.Header().Get(CacheHeader))
	assert.Contains(t, rec.Body.String(), `"cache_hit":true`)
}
