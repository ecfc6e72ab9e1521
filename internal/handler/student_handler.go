package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduflow-api/internal/models"
	"github.com/noah-isme/eduflow-api/internal/service"
	"github.com/noah-isme/eduflow-api/pkg/response"
)

// StudentHandler manages student endpoints.
type StudentHandler struct {
	service *service.StudentService
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(svc *service.StudentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// List godoc
// @Summary List students
// @Description Search matches name, email or the name of an enrolled class. Teachers get an empty list.
// @Tags Students
// @Security BearerAuth
// @Produce json
// @Param search query string false "Search term"
// @Param sort query string false "name or date"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	filter := models.StudentFilter{
		Search: c.Query("search"),
		SortBy: c.Query("sort"),
	}
	students, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// Create godoc
// @Summary Register student
// @Tags Students
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req models.CreateStudentRequest
	if !bindJSON(c, &req) {
		return
	}
	student, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Update student
// @Description Unknown ids are ignored and answered with 204
// @Tags Students
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body models.StudentPatch true "Fields to change"
// @Success 200 {object} response.Envelope
// @Success 204
// @Router /students/{id} [patch]
func (h *StudentHandler) Update(c *gin.Context) {
	var patch models.StudentPatch
	if !bindJSON(c, &patch) {
		return
	}
	student, err := h.service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOrNoContent(c, http.StatusOK, student)
}
