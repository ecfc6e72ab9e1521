package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduflow-api/internal/models"
	"github.com/noah-isme/eduflow-api/internal/service"
	"github.com/noah-isme/eduflow-api/pkg/response"
)

// ClassHandler handles class endpoints.
type ClassHandler struct {
	service *service.ClassService
}

// NewClassHandler builds class handler.
func NewClassHandler(svc *service.ClassService) *ClassHandler {
	return &ClassHandler{service: svc}
}

// List godoc
// @Summary List classes
// @Description Teachers only see the classes they teach
// @Tags Classes
// @Security BearerAuth
// @Produce json
// @Param search query string false "Search term"
// @Param teacherId query string false "Filter by teacher"
// @Param sort query string false "Sort key"
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	classes, err := h.service.List(c.Request.Context(), models.ClassFilter{
		Search:    c.Query("search"),
		TeacherID: c.Query("teacherId"),
		SortBy:    c.Query("sort"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes)
}

// Create godoc
// @Summary Create class
// @Tags Classes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.CreateClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req models.CreateClassRequest
	if !bindJSON(c, &req) {
		return
	}
	class, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, class)
}

// Update godoc
// @Summary Update class
// @Tags Classes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body models.ClassPatch true "Fields to change"
// @Success 200 {object} response.Envelope
// @Success 204
// @Router /classes/{id} [patch]
func (h *ClassHandler) Update(c *gin.Context) {
	var patch models.ClassPatch
	if !bindJSON(c, &patch) {
		return
	}
	class, err := h.service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOrNoContent(c, http.StatusOK, class)
}

// Enroll godoc
// @Summary Enroll a student
// @Description Enrolling an already enrolled student leaves the class unchanged
// @Tags Classes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body models.EnrollRequest true "Student to enroll"
// @Success 200 {object} response.Envelope
// @Success 204
// @Router /classes/{id}/students [post]
func (h *ClassHandler) Enroll(c *gin.Context) {
	var req models.EnrollRequest
	if !bindJSON(c, &req) {
		return
	}
	class, err := h.service.Enroll(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOrNoContent(c, http.StatusOK, class)
}
