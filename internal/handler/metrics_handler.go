package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MetricsHandler exposes the Prometheus scrape endpoint.
type MetricsHandler struct {
	handler http.Handler
}

// NewMetricsHandler wraps a Prometheus handler.
func NewMetricsHandler(h http.Handler) *MetricsHandler {
	return &MetricsHandler{handler: h}
}

// Prometheus godoc
// @Summary Prometheus metrics
// @Tags System
// @Produce plain
// @Success 200 {string} string "metrics"
// @Router /metrics [get]
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h == nil || h.handler == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.handler.ServeHTTP(c.Writer, c.Request)
}
