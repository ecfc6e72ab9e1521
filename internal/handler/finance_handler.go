package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduflow-api/internal/models"
	"github.com/noah-isme/eduflow-api/internal/service"
	"github.com/noah-isme/eduflow-api/internal/views"
	"github.com/noah-isme/eduflow-api/pkg/export"
	"github.com/noah-isme/eduflow-api/pkg/response"
)

// FinanceHandler serves the fee ledger, salary sheet and their exports.
type FinanceHandler struct {
	finance  *service.FinanceService
	salaries *service.SalaryService
	exports  *service.ExportService
	now      func() time.Time
}

// NewFinanceHandler constructs FinanceHandler.
func NewFinanceHandler(finance *service.FinanceService, salaries *service.SalaryService, exports *service.ExportService) *FinanceHandler {
	return &FinanceHandler{
		finance:  finance,
		salaries: salaries,
		exports:  exports,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Ledger godoc
// @Summary Fee ledger
// @Description One row per enrolled student and class for the month, including implied PENDING rows
// @Tags Finance
// @Security BearerAuth
// @Produce json
// @Param month query string false "Month (YYYY-MM), defaults to the current month"
// @Param classId query string false "Class ID"
// @Param teacherId query string false "Teacher ID"
// @Param sort query string false "student, class or status"
// @Success 200 {object} response.Envelope
// @Router /finance/ledger [get]
func (h *FinanceHandler) Ledger(c *gin.Context) {
	ledger, err := h.finance.Ledger(c.Request.Context(), ledgerFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ledger)
}

// ExportLedger godoc
// @Summary Export fee ledger
// @Tags Finance
// @Security BearerAuth
// @Produce text/csv
// @Produce application/pdf
// @Param month query string false "Month (YYYY-MM)"
// @Param classId query string false "Class ID"
// @Param teacherId query string false "Teacher ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /finance/ledger/export [get]
func (h *FinanceHandler) ExportLedger(c *gin.Context) {
	file, err := h.exports.Ledger(c.Request.Context(), ledgerFilter(c), c.DefaultQuery("format", export.FormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Payload)
}

// Salaries godoc
// @Summary Salary sheet
// @Description Base plus commission per enrolled student for every teacher
// @Tags Finance
// @Security BearerAuth
// @Produce json
// @Param month query string false "Month (YYYY-MM), defaults to the current month"
// @Success 200 {object} response.Envelope
// @Router /finance/salaries [get]
func (h *FinanceHandler) Salaries(c *gin.Context) {
	sheet, err := h.salaries.Calculate(c.Request.Context(), h.month(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet)
}

// ToggleSalary godoc
// @Summary Toggle a teacher's salary status
// @Tags Finance
// @Security BearerAuth
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Param month query string false "Month (YYYY-MM)"
// @Success 200 {object} response.Envelope
// @Success 204
// @Router /finance/salaries/{teacherId}/toggle [post]
func (h *FinanceHandler) ToggleSalary(c *gin.Context) {
	record, err := h.salaries.ToggleSalary(c.Request.Context(), c.Param("teacherId"), h.month(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOrNoContent(c, http.StatusOK, record)
}

// ExportSalaries godoc
// @Summary Export salary sheet
// @Tags Finance
// @Security BearerAuth
// @Produce text/csv
// @Produce application/pdf
// @Param month query string false "Month (YYYY-MM)"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /finance/salaries/export [get]
func (h *FinanceHandler) ExportSalaries(c *gin.Context) {
	file, err := h.exports.Salaries(c.Request.Context(), h.month(c), c.DefaultQuery("format", export.FormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Payload)
}

func (h *FinanceHandler) month(c *gin.Context) string {
	if month := c.Query("month"); month != "" {
		return month
	}
	return h.now().Format(models.MonthLayout)
}

func ledgerFilter(c *gin.Context) views.LedgerFilter {
	return views.LedgerFilter{
		Month:     c.Query("month"),
		ClassID:   c.Query("classId"),
		TeacherID: c.Query("teacherId"),
		SortBy:    c.Query("sort"),
	}
}
