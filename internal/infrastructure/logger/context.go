package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey int

const (
	loggerKey contextKey = iota
	scopeKey
)

// scope identifies who a request acts for. The HTTP middleware fills it
// step by step as the request ID, the token and the company are resolved.
type scope struct {
	requestID string
	tenantID  string
	userID    string
}

func scopeFrom(ctx context.Context) scope {
	s, _ := ctx.Value(scopeKey).(scope)
	return s
}

func withScope(ctx context.Context, change func(*scope)) context.Context {
	s := scopeFrom(ctx)
	change(&s)
	return context.WithValue(ctx, scopeKey, s)
}

// WithContext stores the base logger of a request or job
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// WithRequestID records the request ID
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withScope(ctx, func(s *scope) { s.requestID = requestID })
}

// WithTenantID records the company the request acts for
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return withScope(ctx, func(s *scope) { s.tenantID = tenantID })
}

// WithUserID records the authenticated user
func WithUserID(ctx context.Context, userID string) context.Context {
	return withScope(ctx, func(s *scope) { s.userID = userID })
}

// GetRequestID returns the recorded request ID or ""
func GetRequestID(ctx context.Context) string { return scopeFrom(ctx).requestID }

// GetTenantID returns the recorded company ID or ""
func GetTenantID(ctx context.Context) string { return scopeFrom(ctx).tenantID }

// GetUserID returns the recorded user ID or ""
func GetUserID(ctx context.Context) string { return scopeFrom(ctx).userID }

// scopeFields returns the request scope and trace correlation as zap fields
func scopeFields(ctx context.Context) []zap.Field {
	s := scopeFrom(ctx)
	fields := make([]zap.Field, 0, 5)
	if s.requestID != "" {
		fields = append(fields, zap.String("request_id", s.requestID))
	}
	if s.tenantID != "" {
		fields = append(fields, zap.String("tenant_id", s.tenantID))
	}
	if s.userID != "" {
		fields = append(fields, zap.String("user_id", s.userID))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	return fields
}

// FromContext returns the stored logger, or a no-op logger, enriched with
// the request scope and the active trace span
func FromContext(ctx context.Context) *zap.Logger {
	l, ok := ctx.Value(loggerKey).(*zap.Logger)
	if !ok || l == nil {
		l = zap.NewNop()
	}
	if fields := scopeFields(ctx); len(fields) > 0 {
		return l.With(fields...)
	}
	return l
}

// L is shorthand for FromContext
func L(ctx context.Context) *zap.Logger {
	return FromContext(ctx)
}
