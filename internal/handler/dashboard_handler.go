package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduflow-api/internal/middleware"
	"github.com/noah-isme/eduflow-api/internal/service"
	"github.com/noah-isme/eduflow-api/pkg/response"
)

// DashboardHandler serves the institute dashboard.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Get godoc
// @Summary Dashboard
// @Description Revenue, attendance and enrollment figures for a month, or ALL for every month
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Param month query string false "Month (YYYY-MM) or ALL"
// @Success 200 {object} response.Envelope
// @Header 200 {string} X-Cache "HIT or MISS"
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	dashboard, hit, err := h.service.Get(c.Request.Context(), c.Query("month"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, dashboard, middleware.ExtractMeta(c))
}
