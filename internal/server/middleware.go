package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xtding233/wayward-coins/internal/cart"
)

const (
	sessionKey    = "session"
	sessionHeader = "X-Session-ID"
)

// DefaultSessionCookie names the session cookie when none is configured.
const DefaultSessionCookie = "wc_session"

// Recovery turns a handler panic into a 500 and logs it.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}

// AccessLog logs requests that failed or recorded errors.
func AccessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		if status < 400 && len(c.Errors) == 0 {
			return
		}

		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if session := c.GetString(sessionKey); session != "" {
			fields = append(fields, zap.String("session", session))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		logger.Error("[ACCESS]", fields...)
	}
}

// WithSession attaches the visitor's session id, minting one and setting the cookie
// when the request carries none. API clients without cookies may send the id in the
// X-Session-ID header.
func WithSession(cookie string, ttl time.Duration, newID func() string) gin.HandlerFunc {
	if cookie == "" {
		cookie = DefaultSessionCookie
	}
	return func(c *gin.Context) {
		id, err := c.Cookie(cookie)
		if err != nil || !cart.ValidID(id) {
			id = c.GetHeader(sessionHeader)
		}
		if !cart.ValidID(id) {
			id = newID()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookie, id, int(ttl.Seconds()), "/", "", false, true)
		c.Header(sessionHeader, id)
		c.Set(sessionKey, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}

// WithTimeout bounds the request context.
func WithTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
