package middleware

import (
	"net/http"

	"studybuddy/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole rejects authenticated callers whose token carries a different
// role. Anonymous callers are left to JWTAuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerID(c) == "" {
			c.Next()
			return
		}
		if CallerRole(c) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{
				Message: "Forbidden",
				Details: "this action requires the " + role + " role",
			})
			return
		}
		c.Next()
	}
}
