package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coursereviews/internal/pkg/logger"
	"coursereviews/internal/pkg/response"
)

// RequestLogger tags the request with an id, stores a request-scoped logger in
// the context and logs one line per request.
func RequestLogger(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := requestID(c)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)

		l := base.With("request_id", id)
		c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), l))

		c.Next()

		l.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
			"student_id", c.GetString("student_id"),
		)
	}
}

// ErrorLogger logs handler errors and recovers from panics.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			l := logger.FromContext(c.Request.Context())

			if recovered := recover(); recovered != nil {
				l.Error("panic recovered",
					"error", fmt.Sprintf("%v", recovered),
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)
				response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
				return
			}

			for _, err := range c.Errors {
				l.Error("request_error",
					"type", fmt.Sprintf("%v", err.Type),
					"status", c.Writer.Status(),
					"path", c.Request.URL.Path,
					"error", err.Error(),
				)
			}
		}()

		c.Next()
	}
}

func requestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-Id")
	}
	return requestID
}
