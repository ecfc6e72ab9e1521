package service

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/eduflow-api/internal/advisor"
)

type instituteStore interface {
	instituteRepository
	authInstituteRepository
}

// Stores bundles the persistence backend every service is built on. The
// Postgres and in-memory repositories both satisfy it.
type Stores struct {
	Institutes instituteStore
	Profiles   authProfileRepository
	Sessions   authSessionRepository
	Audit      auditRecorder
	Students   studentRepository
	Teachers   teacherRepository
	Classes    classRepository
	Attendance attendanceRepository
	Payments   paymentRepository
	Salaries   salaryRepository
	Cache      CacheRepository
}

// ContainerConfig carries the tunables of the wired services.
type ContainerConfig struct {
	Auth      AuthConfig
	CacheTTL  time.Duration
	Dashboard DashboardServiceConfig
	Insights  InsightServiceConfig
}

// Container holds every application service.
type Container struct {
	Metrics    *MetricsService
	Cache      *CacheService
	Auth       *AuthService
	Institutes *InstituteService
	Students   *StudentService
	Teachers   *TeacherService
	Classes    *ClassService
	Attendance *AttendanceService
	Payments   *PaymentService
	Salaries   *SalaryService
	Finance    *FinanceService
	Exports    *ExportService
	Loader     *TenantLoader
	Dashboard  *DashboardService
	Insights   *InsightService
}

// NewContainer wires the services over stores. A nil metrics service
// disables instrumentation.
func NewContainer(stores Stores, adv *advisor.Advisor, metrics *MetricsService, cfg ContainerConfig, logger *zap.Logger) *Container {
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := validator.New()
	cache := NewCacheService(stores.Cache, metrics, cfg.CacheTTL, logger)

	c := &Container{Metrics: metrics, Cache: cache}
	c.Auth = NewAuthService(AuthRepositories{
		Profiles:   stores.Profiles,
		Institutes: stores.Institutes,
		Sessions:   stores.Sessions,
		Teachers:   stores.Teachers,
		Audit:      stores.Audit,
	}, validate, logger.Named("auth"), cfg.Auth)
	c.Institutes = NewInstituteService(stores.Institutes, validate, logger)
	c.Students = NewStudentService(stores.Students, stores.Classes, cache, validate, logger)
	c.Teachers = NewTeacherService(stores.Teachers, cache, validate, logger)
	c.Classes = NewClassService(stores.Classes, stores.Teachers, stores.Students, cache, validate, logger)
	c.Attendance = NewAttendanceService(stores.Attendance, stores.Classes, cache, validate, logger)
	c.Payments = NewPaymentService(stores.Payments, stores.Classes, stores.Students, cache, validate, logger)
	c.Salaries = NewSalaryService(stores.Salaries, stores.Teachers, stores.Classes, metrics, logger)
	c.Finance = NewFinanceService(stores.Students, stores.Classes, stores.Payments, metrics, logger)
	c.Exports = NewExportService(c.Finance, c.Salaries, stores.Teachers, nil, nil, logger)
	c.Loader = NewTenantLoader(TenantSources{
		Students:   stores.Students,
		Teachers:   stores.Teachers,
		Classes:    stores.Classes,
		Attendance: stores.Attendance,
		Payments:   stores.Payments,
	}, metrics)
	c.Dashboard = NewDashboardService(c.Loader, cache, cfg.Dashboard, logger.Named("dashboard"))
	c.Insights = NewInsightService(c.Loader, adv, cache, metrics, cfg.Insights, logger.Named("insights"))
	return c
}
