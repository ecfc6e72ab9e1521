package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduflow-api/internal/service"
	"github.com/noah-isme/eduflow-api/pkg/response"
)

// InsightHandler exposes the AI advisor.
type InsightHandler struct {
	service *service.InsightService
}

// NewInsightHandler constructs InsightHandler.
func NewInsightHandler(svc *service.InsightService) *InsightHandler {
	return &InsightHandler{service: svc}
}

// Latest godoc
// @Summary Latest insight
// @Tags Insights
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /insights [get]
func (h *InsightHandler) Latest(c *gin.Context) {
	insight, err := h.service.Latest(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, insight)
}

// Request godoc
// @Summary Request an insight
// @Description Queues a report for the caller's institute. With sync=true the report is generated inline.
// @Tags Insights
// @Security BearerAuth
// @Produce json
// @Param sync query bool false "Generate inline"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /insights [post]
func (h *InsightHandler) Request(c *gin.Context) {
	if sync, _ := strconv.ParseBool(c.Query("sync")); sync {
		insight, err := h.service.Generate(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, insight)
		return
	}

	insight, err := h.service.Request(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, insight)
}
