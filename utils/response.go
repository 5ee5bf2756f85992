package utils

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"band-backend/apperrors"
)

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

func JSONMessage(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}

// RespondError writes the admin-surface error body {message} with the status
// that matches the error kind. Server-side failures are logged with their cause.
func RespondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= 500 {
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	JSONMessage(c, status, apperrors.PublicMessage(err))
}
