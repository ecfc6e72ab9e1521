package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/eduflow-api/internal/advisor"
	"github.com/noah-isme/eduflow-api/internal/handler"
	"github.com/noah-isme/eduflow-api/internal/middleware"
	"github.com/noah-isme/eduflow-api/internal/repository/memory"
	"github.com/noah-isme/eduflow-api/internal/service"
)

const prefix = "/api/v1"

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code   string `json:"code"`
		Status int    `json:"status"`
	} `json:"error"`
	Meta map[string]interface{} `json:"meta"`
}

type server struct {
	engine *gin.Engine
	audit  *memory.AuditRepository
}

func newServer(t *testing.T, ready handler.ReadinessCheck) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	require.NoError(t, store.SeedDemo())
	audit := memory.NewAuditRepository(store)

	metrics := service.NewMetricsService()
	c := service.NewContainer(service.Stores{
		Institutes: memory.NewInstituteRepository(store),
		Profiles:   memory.NewProfileRepository(store),
		Sessions:   memory.NewSessionRepository(store),
		Audit:      audit,
		Students:   memory.NewStudentRepository(store),
		Teachers:   memory.NewTeacherRepository(store),
		Classes:    memory.NewClassRepository(store),
		Attendance: memory.NewAttendanceRepository(store),
		Payments:   memory.NewPaymentRepository(store),
		Salaries:   memory.NewSalaryRepository(store),
		Cache:      memory.NewCache(),
	}, advisor.New(nil, time.Second, nil), metrics, service.ContainerConfig{
		Auth:     service.AuthConfig{AccessTokenSecret: "router-secret", AccessTokenExpiry: time.Hour, Issuer: "eduflow-test"},
		CacheTTL: time.Minute,
	}, zap.NewNop())

	r := gin.New()
	r.Use(middleware.Metrics(metrics))
	Setup(r, prefix, Handlers{
		Auth:       handler.NewAuthHandler(c.Auth),
		Institutes: handler.NewInstituteHandler(c.Institutes),
		Students:   handler.NewStudentHandler(c.Students),
		Teachers:   handler.NewTeacherHandler(c.Teachers),
		Classes:    handler.NewClassHandler(c.Classes),
		Attendance: handler.NewAttendanceHandler(c.Attendance),
		Payments:   handler.NewPaymentHandler(c.Payments),
		Finance:    handler.NewFinanceHandler(c.Finance, c.Salaries, c.Exports),
		Dashboard:  handler.NewDashboardHandler(c.Dashboard),
		Insights:   handler.NewInsightHandler(c.Insights),
		Health:     handler.NewHealthHandler(map[string]handler.ReadinessCheck{"store": ready}, nil),
		Metrics:    handler.NewMetricsHandler(metrics.Handler()),
	}, Dependencies{Authenticator: c.Auth, Audit: audit})

	return &server{engine: r, audit: audit}
}

func (s *server) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func (s *server) login(t *testing.T, email string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, prefix+"/auth/login", "", map[string]string{"email": email, "password": memory.DemoPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	decode(t, rec, &out)
	require.NotEmpty(t, out.AccessToken)
	return out.AccessToken
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if dest != nil {
		require.NoError(t, json.Unmarshal(env.Data, dest))
	}
	return env
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	env := decode(t, rec, nil)
	require.NotNil(t, env.Error, rec.Body.String())
	return env.Error.Code
}

func TestSystemProbes(t *testing.T) {
	s := newServer(t, func(context.Context) error { return nil })

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/ready", "", nil).Code)

	metrics := s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "/health")

	down := newServer(t, func(context.Context) error { return errors.New("connection refused") })
	rec := down.do(t, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store":"down"`)
}

func TestAuthFlow(t *testing.T) {
	s := newServer(t, nil)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, prefix+"/students", "", nil).Code)

	rec := s.do(t, http.MethodPost, prefix+"/auth/login", "", map[string]string{"email": "owner@pending.academy", "password": memory.DemoPassword})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "TENANT_NOT_APPROVED", errorCode(t, rec))

	rec = s.do(t, http.MethodPost, prefix+"/auth/login", "", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	token := s.login(t, "manager@springfield.com")
	rec = s.do(t, http.MethodGet, prefix+"/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		ID string `json:"id"`
	}
	decode(t, rec, &me)
	assert.Equal(t, "manager-1", me.ID)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodPost, prefix+"/auth/logout", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, prefix+"/auth/me", token, nil).Code)
}

func TestRegisterAndApprove(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(t, http.MethodPost, prefix+"/auth/register", "", map[string]string{
		"instituteName": "Shelbyville Prep",
		"managerName":   "Mayor Quimby",
		"email":         "quimby@shelbyville.edu",
		"password":      "secret99",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Institute struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"institute"`
	}
	decode(t, rec, &created)
	assert.Equal(t, "PENDING", created.Institute.Status)

	manager := s.login(t, "manager@springfield.com")
	rec = s.do(t, http.MethodPost, prefix+"/institutes/"+created.Institute.ID+"/approve", manager, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := s.login(t, "admin@platform.com")
	rec = s.do(t, http.MethodPost, prefix+"/institutes/"+created.Institute.ID+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, prefix+"/institutes/"+created.Institute.ID+"/reject", admin, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	s.login(t, "quimby@shelbyville.edu")

	var list []json.RawMessage
	decode(t, s.do(t, http.MethodGet, prefix+"/institutes", manager, nil), &list)
	assert.Empty(t, list)
}

func TestRoleGuards(t *testing.T) {
	s := newServer(t, nil)
	teacher := s.login(t, "sarah@eduflow.com")

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, prefix+"/teachers", teacher, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, prefix+"/students", teacher, map[string]string{"name": "Mallory"}).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, prefix+"/payments", teacher, nil).Code)

	rec := s.do(t, http.MethodGet, prefix+"/finance/salaries?month=2023-10", teacher, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sheet struct {
		Rows []json.RawMessage `json:"rows"`
	}
	decode(t, rec, &sheet)
	assert.Empty(t, sheet.Rows)

	var classes []struct {
		ID string `json:"id"`
	}
	decode(t, s.do(t, http.MethodGet, prefix+"/classes", teacher, nil), &classes)
	require.Len(t, classes, 1)
	assert.Equal(t, "c1", classes[0].ID)

	rec = s.do(t, http.MethodPut, prefix+"/attendance/day", teacher, map[string]interface{}{
		"classId": "c2",
		"date":    "2023-10-02",
		"entries": map[string]string{"s1": "PRESENT"},
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRosterWrites(t *testing.T) {
	s := newServer(t, nil)
	manager := s.login(t, "manager@springfield.com")

	rec := s.do(t, http.MethodPost, prefix+"/students", manager, map[string]string{"name": "Frank Grimes", "email": "frank@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var student struct {
		ID string `json:"id"`
	}
	decode(t, rec, &student)

	rec = s.do(t, http.MethodPost, prefix+"/classes/c3/students", manager, map[string]string{"studentId": student.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var class struct {
		StudentIDs []string `json:"studentIds"`
	}
	decode(t, rec, &class)
	assert.Contains(t, class.StudentIDs, student.ID)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodPatch, prefix+"/students/missing", manager, map[string]string{"name": "Nobody"}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, prefix+"/teachers", manager, map[string]interface{}{"name": "", "baseSalary": 10}).Code)

	var found []struct {
		ID string `json:"id"`
	}
	decode(t, s.do(t, http.MethodGet, prefix+"/students?search=biology", manager, nil), &found)
	ids := make([]string, 0, len(found))
	for _, f := range found {
		ids = append(ids, f.ID)
	}
	assert.Contains(t, ids, student.ID)

	var actions []string
	for _, entry := range s.audit.Entries() {
		actions = append(actions, entry.Action+" "+entry.Resource)
	}
	assert.Contains(t, actions, "CREATE student")
	assert.Contains(t, actions, "ENROLL class")
	assert.NotContains(t, actions, "UPDATE student")
}

func TestAttendanceDay(t *testing.T) {
	s := newServer(t, nil)
	teacher := s.login(t, "sarah@eduflow.com")

	rec := s.do(t, http.MethodPut, prefix+"/attendance/day", teacher, map[string]interface{}{
		"classId": "c1",
		"date":    "2023-10-01",
		"entries": map[string]string{"s1": "LATE", "s2": "PRESENT"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var records []struct {
		StudentID string `json:"studentId"`
		Status    string `json:"status"`
	}
	decode(t, s.do(t, http.MethodGet, prefix+"/attendance?classId=c1&date=2023-10-01", teacher, nil), &records)
	assert.Len(t, records, 2)

	var stats struct {
		Total int `json:"total"`
		Late  int `json:"late"`
	}
	decode(t, s.do(t, http.MethodGet, prefix+"/attendance/stats?studentId=s1&classId=c1", teacher, nil), &stats)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Late)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, prefix+"/attendance?date=01-10-2023", teacher, nil).Code)
}

func TestPaymentToggleRefreshesDashboard(t *testing.T) {
	s := newServer(t, nil)
	manager := s.login(t, "manager@springfield.com")

	first := s.do(t, http.MethodGet, prefix+"/dashboard?month=2023-10", manager, nil)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	assert.Equal(t, "MISS", first.Header().Get(middleware.CacheHeader))
	var dashboard struct {
		TotalRevenue float64 `json:"totalRevenue"`
	}
	env := decode(t, first, &dashboard)
	assert.Equal(t, 100.0, dashboard.TotalRevenue)
	assert.Equal(t, false, env.Meta["cache_hit"])

	second := s.do(t, http.MethodGet, prefix+"/dashboard?month=2023-10", manager, nil)
	assert.Equal(t, "HIT", second.Header().Get(middleware.CacheHeader))

	rec := s.do(t, http.MethodPost, prefix+"/payments/toggle", manager, map[string]interface{}{"studentId": "s2", "classId": "c1", "month": "2023-10"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var payment struct {
		Status string `json:"status"`
	}
	decode(t, rec, &payment)
	assert.Equal(t, "PAID", payment.Status)

	third := s.do(t, http.MethodGet, prefix+"/dashboard?month=2023-10", manager, nil)
	assert.Equal(t, "MISS", third.Header().Get(middleware.CacheHeader))
	decode(t, third, &dashboard)
	assert.Equal(t, 200.0, dashboard.TotalRevenue)

	var history []json.RawMessage
	decode(t, s.do(t, http.MethodGet, prefix+"/payments/history?studentId=s2&classId=c1", manager, nil), &history)
	assert.Len(t, history, 1)
}

func TestFinanceEndpoints(t *testing.T) {
	s := newServer(t, nil)
	manager := s.login(t, "manager@springfield.com")

	var ledger struct {
		TotalExpected float64 `json:"totalExpected"`
	}
	rec := s.do(t, http.MethodGet, prefix+"/finance/ledger?month=2023-10&classId=c1", manager, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &ledger)
	assert.Equal(t, 300.0, ledger.TotalExpected)

	rec = s.do(t, http.MethodGet, prefix+"/finance/ledger/export?month=2023-10", manager, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "fee-ledger-2023-10.csv")

	rec = s.do(t, http.MethodGet, prefix+"/finance/salaries/export?month=2023-10&format=pdf", manager, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, prefix+"/finance/ledger/export?format=xlsx", manager, nil).Code)

	rec = s.do(t, http.MethodPost, prefix+"/finance/salaries/t2/toggle?month=2023-10", manager, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodPost, prefix+"/finance/salaries/ghost/toggle?month=2023-10", manager, nil).Code)
}

func TestInsightsWithoutKey(t *testing.T) {
	s := newServer(t, nil)
	manager := s.login(t, "manager@springfield.com")

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, prefix+"/insights", manager, nil).Code)

	rec := s.do(t, http.MethodPost, prefix+"/insights?sync=true", manager, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var insight struct {
		Status string `json:"status"`
		Text   string `json:"text"`
	}
	decode(t, rec, &insight)
	assert.Equal(t, advisor.MessageNotConfigured, insight.Text)

	// The worker pool is not started in tests.
	assert.Equal(t, http.StatusServiceUnavailable, s.do(t, http.MethodPost, prefix+"/insights", manager, nil).Code)

	admin := s.login(t, "admin@platform.com")
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, prefix+"/insights", admin, nil).Code)
}
