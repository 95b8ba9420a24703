package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"coursefit-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := telemetry.Fields{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if id := StaffIDFromContext(c); id != "" {
			fields["staff_id"] = id
			fields["role"] = StaffRoleFromContext(c)
		}
		if id := c.GetString(SubmissionIDKey); id != "" {
			fields["submission_id"] = id
		}
		if course := c.GetString(CourseKey); course != "" {
			fields["course"] = course
		}
		telemetry.Info("request.complete", fields)
	}
}

// Keys handlers set so the request log carries domain identifiers.
const (
	SubmissionIDKey = "submissionId"
	CourseKey       = "course"
)
