package middleware

import (
	"net/http"
	"strings"

	"studybuddy/utils"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "userID"
	ctxRole   = "role"
)

// JWTAuthMiddleware validates a Bearer token and stores the caller in the
// context. When required is false a request without an Authorization header
// passes through anonymously; a malformed or expired token is still rejected.
func JWTAuthMiddleware(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if required {
				abortUnauthorized(c, "Missing Authorization header")
				return
			}
			c.Next()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}

		claims, err := utils.ExtractClaims(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// CallerID returns the authenticated user id, or "" for anonymous requests.
func CallerID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func CallerRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}

// Authorize reports whether the caller may act on a resource owned by
// ownerID. Anonymous callers are allowed only when enforce is false. On
// refusal the request is aborted with 403.
func Authorize(c *gin.Context, enforce bool, ownerID string) bool {
	caller := CallerID(c)
	if caller == "" && !enforce {
		return true
	}
	if caller != "" && caller == ownerID {
		return true
	}
	c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{
		Message: "Forbidden",
		Details: "you can only act on your own records",
	})
	return false
}

func abortUnauthorized(c *gin.Context, details string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
		Message: "Insufficient authorization",
		Details: details,
	})
}
