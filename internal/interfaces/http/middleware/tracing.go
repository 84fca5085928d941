package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing starts a server span per request through otelgin. Health probes
// are not traced.
func Tracing(serviceName string, opts ...otelgin.Option) gin.HandlerFunc {
	opts = append(opts, otelgin.WithFilter(func(r *http.Request) bool {
		return r.URL.Path != "/health/live" && r.URL.Path != "/health/ready"
	}))
	return otelgin.Middleware(serviceName, opts...)
}

// SpanAttributes copies the caller identity onto the active span and marks
// 4xx and 5xx responses as errors. Place it after JWTAuth.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpan(c, span)
		}
		c.Next()
		if span.IsRecording() {
			markSpanStatus(span, c.Writer.Status())
		}
	}
}

func enrichSpan(c *gin.Context, span trace.Span) {
	if id := GetRequestID(c); id != "" {
		span.SetAttributes(attribute.String("request_id", id))
	}
	if id := GetJWTTenantID(c); id != "" {
		span.SetAttributes(attribute.String("company_id", id))
	}
	if id := GetJWTUserID(c); id != "" {
		span.SetAttributes(attribute.String("user_id", id))
	}
	if role := GetJWTRole(c); role != "" {
		span.SetAttributes(attribute.String("user_role", string(role)))
	}
}

func markSpanStatus(span trace.Span, status int) {
	if status < http.StatusBadRequest {
		return
	}
	span.SetAttributes(attribute.Int("http.status_code", status))
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, "Internal Server Error")
		return
	}
	span.SetStatus(codes.Error, http.StatusText(status))
}
