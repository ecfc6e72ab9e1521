package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/eduflow-api/pkg/errors"
	"github.com/noah-isme/eduflow-api/pkg/response"
)

// bindJSON decodes the request body into dest, answering 400 on failure.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

// respondOrNoContent answers 204 for the nil result of a write that matched
// nothing, and status with the value otherwise.
func respondOrNoContent[T any](c *gin.Context, status int, value *T) {
	if value == nil {
		response.NoContent(c)
		return
	}
	response.JSON(c, status, value)
}
