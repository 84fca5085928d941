package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// Profiling labels CPU samples taken while a request runs with its route and
// resource so profiles can be filtered per endpoint. Place it after
// JWTAuth to get the company label too.
func Profiling() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/health") || strings.HasPrefix(c.Request.URL.Path, "/swagger") {
			c.Next()
			return
		}
		pyroscope.TagWrapper(c.Request.Context(), pyroscope.Labels(profilingLabels(c)...), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func profilingLabels(c *gin.Context) []string {
	labels := []string{"method", c.Request.Method}
	if route := c.FullPath(); route != "" {
		labels = append(labels, "route", route)
		if resource := resourceFromRoute(route); resource != "" {
			labels = append(labels, "resource", resource)
		}
	}
	if company := GetJWTTenantID(c); company != "" {
		labels = append(labels, "company_id", company)
	}
	return labels
}

// resourceFromRoute returns the first static segment after the api prefix,
// e.g. "/api/v1/activities/:id/status" gives "activities"
func resourceFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) || strings.HasPrefix(part, ":") {
			continue
		}
		return part
	}
	return ""
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
