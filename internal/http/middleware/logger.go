package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger writes one record per request once the handler chain returns.
// Requests to quiet routes (probes, scrapes) are only logged when they fail.
// Query strings are never logged.
func Logger(quiet ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(quiet))
	for _, route := range quiet {
		skip[route] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if _, ok := skip[route]; ok && status < 400 {
			return
		}

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Int64("latency_ms", time.Since(start).Milliseconds()),
			slog.Int("response_bytes", max(c.Writer.Size(), 0)),
			slog.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		level, msg := requestLevel(status)
		slog.LogAttrs(c.Request.Context(), level, msg, attrs...)
	}
}

func requestLevel(status int) (slog.Level, string) {
	switch {
	case status >= 500:
		return slog.LevelError, "request failed"
	case status == 401 || status == 429:
		// expected in normal use: expired sessions and throttled generations
		return slog.LevelInfo, "request rejected"
	case status >= 400:
		return slog.LevelWarn, "request error"
	default:
		return slog.LevelInfo, "request"
	}
}
