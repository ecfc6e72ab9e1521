package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduflow-api/internal/models"
	"github.com/noah-isme/eduflow-api/internal/service"
	"github.com/noah-isme/eduflow-api/pkg/response"
)

// PaymentHandler exposes fee payment endpoints.
type PaymentHandler struct {
	service *service.PaymentService
}

// NewPaymentHandler constructs the handler.
func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: svc}
}

// List godoc
// @Summary List payments
// @Tags Payments
// @Security BearerAuth
// @Produce json
// @Param month query string false "Month (YYYY-MM)"
// @Success 200 {object} response.Envelope
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	payments, err := h.service.List(c.Request.Context(), c.Query("month"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payments)
}

// Toggle godoc
// @Summary Toggle a payment
// @Description Flips the fee status for a student, class and month, creating a PAID record when none exists
// @Tags Payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.TogglePaymentRequest true "Payment key"
// @Success 200 {object} response.Envelope
// @Success 204
// @Router /payments/toggle [post]
func (h *PaymentHandler) Toggle(c *gin.Context) {
	var req models.TogglePaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := h.service.Toggle(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOrNoContent(c, http.StatusOK, payment)
}

// History godoc
// @Summary Payment history
// @Tags Payments
// @Security BearerAuth
// @Produce json
// @Param studentId query string true "Student ID"
// @Param classId query string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /payments/history [get]
func (h *PaymentHandler) History(c *gin.Context) {
	payments, err := h.service.History(c.Request.Context(), c.Query("studentId"), c.Query("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payments)
}
