package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduflow-api/internal/models"
	"github.com/noah-isme/eduflow-api/internal/service"
	appErrors "github.com/noah-isme/eduflow-api/pkg/errors"
	"github.com/noah-isme/eduflow-api/pkg/response"
)

// AttendanceHandler exposes attendance endpoints.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// List godoc
// @Summary List attendance
// @Tags Attendance
// @Security BearerAuth
// @Produce json
// @Param classId query string false "Class ID"
// @Param studentId query string false "Student ID"
// @Param date query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	filter := models.AttendanceFilter{
		ClassID:   c.Query("classId"),
		StudentID: c.Query("studentId"),
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "date must be formatted YYYY-MM-DD"))
			return
		}
		filter.Date = &date
	}

	records, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}

// MarkDay godoc
// @Summary Replace a day's attendance
// @Description Stores exactly the submitted marks for the class and date; previous marks of omitted students are removed
// @Tags Attendance
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.MarkDayRequest true "Marks keyed by student ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /attendance/day [put]
func (h *AttendanceHandler) MarkDay(c *gin.Context) {
	var req models.MarkDayRequest
	if !bindJSON(c, &req) {
		return
	}
	records, err := h.service.MarkDay(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}

// Stats godoc
// @Summary Attendance summary for a student in a class
// @Tags Attendance
// @Security BearerAuth
// @Produce json
// @Param studentId query string true "Student ID"
// @Param classId query string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /attendance/stats [get]
func (h *AttendanceHandler) Stats(c *gin.Context) {
	stats, err := h.service.StudentStats(c.Request.Context(), c.Query("studentId"), c.Query("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}
