package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/eduflow-api/internal/authz"
	"github.com/noah-isme/eduflow-api/internal/handler"
	"github.com/noah-isme/eduflow-api/internal/middleware"
	"github.com/noah-isme/eduflow-api/internal/models"
)

// Handlers groups every HTTP handler served by the API.
type Handlers struct {
	Auth       *handler.AuthHandler
	Institutes *handler.InstituteHandler
	Students   *handler.StudentHandler
	Teachers   *handler.TeacherHandler
	Classes    *handler.ClassHandler
	Attendance *handler.AttendanceHandler
	Payments   *handler.PaymentHandler
	Finance    *handler.FinanceHandler
	Dashboard  *handler.DashboardHandler
	Insights   *handler.InsightHandler
	Health     *handler.HealthHandler
	Metrics    *handler.MetricsHandler
}

// Dependencies carries what the router needs besides handlers.
type Dependencies struct {
	Authenticator middleware.Authenticator
	Audit         middleware.AuditRecorder
	Logger        *zap.Logger
}

// Setup mounts the system probes at the root and the API under prefix.
func Setup(r *gin.Engine, prefix string, h Handlers, deps Dependencies) {
	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)
	api.Use(middleware.WithResponseMeta())

	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(deps.Audit, deps.Logger, action, resource)
	}
	guard := middleware.Authorize

	// Public routes
	auth := api.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)

	// Authenticated routes
	secured := api.Group("/")
	secured.Use(middleware.JWT(deps.Authenticator))

	secured.POST("/auth/logout", h.Auth.Logout)
	secured.GET("/auth/me", h.Auth.Me)
	secured.POST("/auth/teacher-accounts", guard(authz.ActionProvisionTeacher), h.Auth.ProvisionTeacher)

	secured.GET("/institutes", guard(authz.ActionListInstitutes), h.Institutes.List)
	secured.POST("/institutes/:id/approve", guard(authz.ActionReviewInstitute), audit(models.AuditActionApprove, "institute"), h.Institutes.Approve)
	secured.POST("/institutes/:id/reject", guard(authz.ActionReviewInstitute), audit(models.AuditActionReject, "institute"), h.Institutes.Reject)
	secured.GET("/institute", guard(authz.ActionViewInstitute), h.Institutes.GetOwn)
	secured.PATCH("/institute", guard(authz.ActionRenameInstitute), audit(models.AuditActionUpdate, "institute"), h.Institutes.Rename)

	students := secured.Group("/students")
	students.GET("", guard(authz.ActionReadStudents), h.Students.List)
	students.POST("", guard(authz.ActionWriteStudents), audit(models.AuditActionCreate, "student"), h.Students.Create)
	students.PATCH("/:id", guard(authz.ActionWriteStudents), audit(models.AuditActionUpdate, "student"), h.Students.Update)

	teachers := secured.Group("/teachers")
	teachers.GET("", guard(authz.ActionReadTeachers), h.Teachers.List)
	teachers.POST("", guard(authz.ActionWriteTeachers), audit(models.AuditActionCreate, "teacher"), h.Teachers.Create)
	teachers.PATCH("/:id", guard(authz.ActionWriteTeachers), audit(models.AuditActionUpdate, "teacher"), h.Teachers.Update)

	classes := secured.Group("/classes")
	classes.GET("", guard(authz.ActionReadClasses), h.Classes.List)
	classes.POST("", guard(authz.ActionWriteClasses), audit(models.AuditActionCreate, "class"), h.Classes.Create)
	classes.PATCH("/:id", guard(authz.ActionWriteClasses), audit(models.AuditActionUpdate, "class"), h.Classes.Update)
	classes.POST("/:id/students", guard(authz.ActionEnrollStudent), audit(models.AuditActionEnroll, "class"), h.Classes.Enroll)

	attendance := secured.Group("/attendance")
	attendance.GET("", guard(authz.ActionReadAttendance), h.Attendance.List)
	attendance.PUT("/day", guard(authz.ActionMarkAttendance), audit(models.AuditActionMark, "attendance"), h.Attendance.MarkDay)
	attendance.GET("/stats", guard(authz.ActionReadAttendance), h.Attendance.Stats)

	payments := secured.Group("/payments")
	payments.GET("", guard(authz.ActionReadPayments), h.Payments.List)
	payments.POST("/toggle", guard(authz.ActionTogglePayment), audit(models.AuditActionToggle, "payment"), h.Payments.Toggle)
	payments.GET("/history", guard(authz.ActionReadPayments), h.Payments.History)

	finance := secured.Group("/finance")
	finance.GET("/ledger", guard(authz.ActionReadPayments), h.Finance.Ledger)
	finance.GET("/ledger/export", guard(authz.ActionExportFinance), h.Finance.ExportLedger)
	finance.GET("/salaries", guard(authz.ActionReadSalaries), h.Finance.Salaries)
	finance.POST("/salaries/:teacherId/toggle", guard(authz.ActionToggleSalary), audit(models.AuditActionToggle, "salary"), h.Finance.ToggleSalary)
	finance.GET("/salaries/export", guard(authz.ActionExportFinance), h.Finance.ExportSalaries)

	secured.GET("/dashboard", guard(authz.ActionViewDashboard), h.Dashboard.Get)

	secured.GET("/insights", guard(authz.ActionRequestInsights), h.Insights.Latest)
	secured.POST("/insights", guard(authz.ActionRequestInsights), audit(models.AuditActionRequest, "insight"), h.Insights.Request)
}
