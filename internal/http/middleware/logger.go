package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", latency,
			"request_id", c.GetString(RequestIDHeader),
			"ip", c.ClientIP(),
		}
		if user := CurrentUser(c); user != nil {
			attrs = append(attrs, "user_id", user.ID)
		}

		// Errors attached by utils.RespondError and RespondBindError never
		// reach the client.
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
			if c.Writer.Status() < http.StatusInternalServerError {
				log.WarnContext(c.Request.Context(), "request rejected", attrs...)
				return
			}
			log.ErrorContext(c.Request.Context(), "request failed", attrs...)
			return
		}
		log.InfoContext(c.Request.Context(), "request completed", attrs...)
	}
}
