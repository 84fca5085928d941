package logger

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLogMessage is the message of every access log entry
const AccessLogMessage = "HTTP request"

// DefaultQuietPaths are logged only when they fail
var DefaultQuietPaths = []string{"/health", "/health/live", "/health/ready"}

type ginOptions struct {
	quietPaths []string
}

// GinOption configures GinMiddleware
type GinOption func(*ginOptions)

// WithQuietPaths replaces the paths whose successful requests are not logged
func WithQuietPaths(paths ...string) GinOption {
	return func(o *ginOptions) {
		o.quietPaths = paths
	}
}

// GinMiddleware writes one access log entry per request. The base logger is
// stored in the request context so that handlers and services log through
// FromContext with the request scope attached.
func GinMiddleware(base *zap.Logger, opts ...GinOption) gin.HandlerFunc {
	o := ginOptions{quietPaths: DefaultQuietPaths}
	for _, opt := range opts {
		opt(&o)
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Request = c.Request.WithContext(WithContext(c.Request.Context(), base))

		c.Next()

		status := c.Writer.Status()
		if status < http.StatusBadRequest && slices.Contains(o.quietPaths, path) {
			return
		}

		// Later middleware may have added the user and company
		reqLogger := FromContext(c.Request.Context())
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		if route := c.FullPath(); route != "" {
			fields = append(fields, zap.String("route", route))
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			reqLogger.Error(AccessLogMessage, fields...)
		case status >= http.StatusBadRequest:
			reqLogger.Warn(AccessLogMessage, fields...)
		default:
			reqLogger.Info(AccessLogMessage, fields...)
		}
	}
}

// Recovery turns a panic into a 500 with the usual error envelope
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID := GetRequestID(c.Request.Context())
				base.Error("Panic recovered",
					zap.String("request_id", requestID),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", err),
					zap.Stack("stacktrace"),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":       "ERR_INTERNAL",
						"message":    "Internal server error",
						"request_id": requestID,
					},
				})
			}
		}()
		c.Next()
	}
}
