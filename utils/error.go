package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every error reply. RequestID lets the browser
// quote a failure back.
type ErrorResponse struct {
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// requestLogger prefers the logger RequestLogger stored on the context.
func requestLogger(c *gin.Context) *zap.Logger {
	if l, ok := c.Get("logger"); ok {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return GetLogger()
}

// ErrorHandler turns a panic in a later handler into a 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestLogger(c).Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message:   "Internal Server Error",
					Details:   "An unexpected error occurred. Please try again later.",
					RequestID: c.Writer.Header().Get(RequestIDHeader),
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response. Server-side failures
// log at error level, client mistakes at warn.
func JSONError(c *gin.Context, status int, message string, details string) {
	logger := requestLogger(c)
	fields := []zap.Field{zap.String("details", details), zap.Int("status", status), zap.String("path", c.Request.URL.Path)}
	if status >= http.StatusInternalServerError {
		logger.Error(message, fields...)
	} else {
		logger.Warn(message, fields...)
	}
	c.JSON(status, ErrorResponse{
		Message:   message,
		Details:   details,
		RequestID: c.Writer.Header().Get(RequestIDHeader),
	})
}
