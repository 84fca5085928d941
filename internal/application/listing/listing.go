// Package listing holds the paging and sorting query shared by every list
// endpoint.
package listing

import "github.com/derbent/backend/internal/domain/shared"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Query is embedded in list filters and bound from the query string
type Query struct {
	Search   string `form:"search" binding:"max=200"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"max=50"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Filter converts the query into a domain filter, applying defaults.
// Column names are checked against a whitelist by the repository.
func (q Query) Filter(defaultOrderBy, defaultOrderDir string) shared.Filter {
	f := shared.Filter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
		Search:   q.Search,
		Filters:  make(map[string]any),
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	f.PageSize = min(f.PageSize, MaxPageSize)
	if f.OrderBy == "" {
		f.OrderBy = defaultOrderBy
	}
	if f.OrderDir == "" {
		f.OrderDir = defaultOrderDir
	}
	return f
}

// Paging returns the query itself. Filters embedding Query expose it
// through this method.
func (q Query) Paging() Query {
	return q
}
