package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduflow-api/internal/authz"
	appErrors "github.com/noah-isme/eduflow-api/pkg/errors"
	"github.com/noah-isme/eduflow-api/pkg/response"
)

// Authorize rejects requests whose principal may never perform action. Reads
// the gate degrades to an empty result pass through; the service returns the
// empty payload.
func Authorize(action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := CurrentPrincipal(c)
		if principal == nil {
			response.Error(c, appErrors.ErrNotAuthenticated)
			c.Abort()
			return
		}
		if authz.Check(principal.Role, action) == authz.Deny {
			response.Error(c, authz.Authorize(principal, action))
			c.Abort()
			return
		}
		c.Next()
	}
}
