package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthguide/utils"
)

// ClientSession resolves the browser-session id from the signed cookie or the
// X-Client-Token header. A missing or invalid token starts a new browser
// session and issues a fresh token in both places.
func ClientSession(ttl time.Duration, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(utils.ClientTokenHeader)
		if token == "" {
			token, _ = c.Cookie(utils.ClientCookieName)
		}

		if token != "" {
			if id, err := utils.ExtractIDFromToken(token); err == nil {
				c.Set(utils.ClientIDKey, id)
				c.Next()
				return
			}
			zap.L().Debug("discarding invalid client token", zap.String("ip", getClientIP(c)))
		}

		id := uuid.NewString()
		signed, err := utils.GenerateClientToken(id, ttl)
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "Failed to start session", err.Error())
			c.Abort()
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(utils.ClientCookieName, signed, int(ttl.Seconds()), "/", "", secureCookie, true)
		c.Header(utils.ClientTokenHeader, signed)
		c.Set(utils.ClientIDKey, id)
		c.Next()
	}
}

// RequestLogger stores a request-scoped logger under "logger" carrying the
// request and browser-session ids.
func RequestLogger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(utils.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(utils.RequestIDHeader, requestID)

		fields := []zap.Field{zap.String("requestID", requestID)}
		if id := c.GetString(utils.ClientIDKey); id != "" {
			fields = append(fields, zap.String("clientID", id))
		}
		c.Set("logger", base.With(fields...))
		c.Next()
	}
}
