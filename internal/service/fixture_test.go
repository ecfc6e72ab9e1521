package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/eduflow-api/internal/advisor"
	"github.com/noah-isme/eduflow-api/internal/models"
	"github.com/noah-isme/eduflow-api/internal/repository/memory"
	"github.com/noah-isme/eduflow-api/internal/session"
)

var (
	adminPrincipal   = &models.Principal{ID: "admin-user", Role: models.RoleAdmin}
	managerPrincipal = &models.Principal{ID: "manager-1", Role: models.RoleManager, TenantID: "inst-1"}
	teacherPrincipal = &models.Principal{ID: "teacher-1-login", Role: models.RoleTeacher, TenantID: "inst-1", TeacherID: "teacher-1"}
	pendingManager   = &models.Principal{ID: "manager-2", Role: models.RoleManager, TenantID: "inst-2"}
)

func as(principal *models.Principal) context.Context {
	return session.WithPrincipal(context.Background(), principal)
}

// fixture wires every service over a seeded in-memory store.
type fixture struct {
	store   *memory.Store
	cache   *memory.Cache
	metrics *MetricsService

	auth       *AuthService
	institutes *InstituteService
	students   *StudentService
	teachers   *TeacherService
	classes    *ClassService
	attendance *AttendanceService
	payments   *PaymentService
	salaries   *SalaryService
	finance    *FinanceService
	exports    *ExportService
	loader     *TenantLoader
	dashboard  *DashboardService
	audit      *memory.AuditRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.SeedDemo())

	logger := zap.NewNop()
	validate := validator.New()
	metrics := NewMetricsService()
	cacheRepo := memory.NewCache()
	cache := NewCacheService(cacheRepo, metrics, time.Minute, logger)

	studentRepo := memory.NewStudentRepository(store)
	teacherRepo := memory.NewTeacherRepository(store)
	classRepo := memory.NewClassRepository(store)
	attendanceRepo := memory.NewAttendanceRepository(store)
	paymentRepo := memory.NewPaymentRepository(store)
	auditRepo := memory.NewAuditRepository(store)

	f := &fixture{store: store, cache: cacheRepo, metrics: metrics, audit: auditRepo}
	f.auth = NewAuthService(AuthRepositories{
		Profiles:   memory.NewProfileRepository(store),
		Institutes: memory.NewInstituteRepository(store),
		Sessions:   memory.NewSessionRepository(store),
		Teachers:   teacherRepo,
		Audit:      auditRepo,
	}, validate, logger, AuthConfig{AccessTokenSecret: "test-secret", AccessTokenExpiry: time.Hour, Issuer: "eduflow-test"})
	f.institutes = NewInstituteService(memory.NewInstituteRepository(store), validate, logger)
	f.students = NewStudentService(studentRepo, classRepo, cache, validate, logger)
	f.teachers = NewTeacherService(teacherRepo, cache, validate, logger)
	f.classes = NewClassService(classRepo, teacherRepo, studentRepo, cache, validate, logger)
	f.attendance = NewAttendanceService(attendanceRepo, classRepo, cache, validate, logger)
	f.payments = NewPaymentService(paymentRepo, classRepo, studentRepo, cache, validate, logger)
	f.salaries = NewSalaryService(memory.NewSalaryRepository(store), teacherRepo, classRepo, metrics, logger)
	f.finance = NewFinanceService(studentRepo, classRepo, paymentRepo, metrics, logger)
	f.exports = NewExportService(f.finance, f.salaries, teacherRepo, nil, nil, logger)
	f.loader = NewTenantLoader(TenantSources{
		Students:   studentRepo,
		Teachers:   teacherRepo,
		Classes:    classRepo,
		Attendance: attendanceRepo,
		Payments:   paymentRepo,
	}, metrics)
	f.dashboard = NewDashboardService(f.loader, cache, DashboardServiceConfig{CacheTTL: time.Minute}, logger)
	return f
}

func (f *fixture) insights(t *testing.T, generator advisor.Generator) *InsightService {
	t.Helper()
	cache := NewCacheService(f.cache, f.metrics, time.Minute, zap.NewNop())
	svc := NewInsightService(f.loader, advisor.New(generator, time.Second, zap.NewNop()), cache, f.metrics, InsightServiceConfig{Workers: 1, JobTimeout: time.Second}, zap.NewNop())
	return svc
}

func fixedClock(ts string) func() time.Time {
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return parsed }
}
