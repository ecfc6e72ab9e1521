package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduflow-api/internal/models"
	"github.com/noah-isme/eduflow-api/internal/service"
	"github.com/noah-isme/eduflow-api/pkg/response"
)

// TeacherHandler exposes teacher endpoints.
type TeacherHandler struct {
	service *service.TeacherService
}

// NewTeacherHandler constructs the handler.
func NewTeacherHandler(svc *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{service: svc}
}

// List godoc
// @Summary List teachers
// @Tags Teachers
// @Security BearerAuth
// @Produce json
// @Param search query string false "Search term"
// @Param sort query string false "name or salary"
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	teachers, err := h.service.List(c.Request.Context(), models.TeacherFilter{
		Search: c.Query("search"),
		SortBy: c.Query("sort"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers)
}

// Create godoc
// @Summary Create teacher
// @Tags Teachers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.CreateTeacherRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Router /teachers [post]
func (h *TeacherHandler) Create(c *gin.Context) {
	var req models.CreateTeacherRequest
	if !bindJSON(c, &req) {
		return
	}
	teacher, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// Update godoc
// @Summary Update teacher
// @Tags Teachers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param payload body models.TeacherPatch true "Fields to change"
// @Success 200 {object} response.Envelope
// @Success 204
// @Router /teachers/{id} [patch]
func (h *TeacherHandler) Update(c *gin.Context) {
	var patch models.TeacherPatch
	if !bindJSON(c, &patch) {
		return
	}
	teacher, err := h.service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOrNoContent(c, http.StatusOK, teacher)
}
