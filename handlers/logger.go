package handlers

import (
	"studybuddy/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger returns the shared logger tagged with the request id, if any.
func getLogger(c *gin.Context) *zap.Logger {
	logger := utils.GetLogger()
	if id := c.GetString("requestID"); id != "" {
		return logger.With(zap.String("requestID", id))
	}
	return logger
}
