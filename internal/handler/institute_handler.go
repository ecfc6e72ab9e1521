package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduflow-api/internal/models"
	"github.com/noah-isme/eduflow-api/internal/service"
	"github.com/noah-isme/eduflow-api/pkg/response"
)

// InstituteHandler exposes tenant review and profile endpoints.
type InstituteHandler struct {
	institutes *service.InstituteService
}

// NewInstituteHandler constructs InstituteHandler.
func NewInstituteHandler(institutes *service.InstituteService) *InstituteHandler {
	return &InstituteHandler{institutes: institutes}
}

// List godoc
// @Summary List institutes
// @Description Platform admins see every institute; other roles get an empty list
// @Tags Institutes
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /institutes [get]
func (h *InstituteHandler) List(c *gin.Context) {
	institutes, err := h.institutes.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, institutes)
}

// Approve godoc
// @Summary Approve a pending institute
// @Tags Institutes
// @Security BearerAuth
// @Produce json
// @Param id path string true "Institute ID"
// @Success 200 {object} response.Envelope
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /institutes/{id}/approve [post]
func (h *InstituteHandler) Approve(c *gin.Context) {
	institute, err := h.institutes.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOrNoContent(c, http.StatusOK, institute)
}

// Reject godoc
// @Summary Reject a pending institute
// @Tags Institutes
// @Security BearerAuth
// @Produce json
// @Param id path string true "Institute ID"
// @Success 200 {object} response.Envelope
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /institutes/{id}/reject [post]
func (h *InstituteHandler) Reject(c *gin.Context) {
	institute, err := h.institutes.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOrNoContent(c, http.StatusOK, institute)
}

// GetOwn godoc
// @Summary Caller's institute
// @Tags Institutes
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /institute [get]
func (h *InstituteHandler) GetOwn(c *gin.Context) {
	institute, err := h.institutes.GetOwn(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, institute)
}

// Rename godoc
// @Summary Rename the caller's institute
// @Tags Institutes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.RenameInstituteRequest true "New name"
// @Success 200 {object} response.Envelope
// @Router /institute [patch]
func (h *InstituteHandler) Rename(c *gin.Context) {
	var req models.RenameInstituteRequest
	if !bindJSON(c, &req) {
		return
	}
	institute, err := h.institutes.Rename(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, institute)
}
