// Package tenant restricts GORM queries to one company, and optionally to
// one project of that company. Repositories apply TenantScope to every query
// on a company-owned table.
//
//	db.Scopes(tenant.TenantScope(companyID), tenant.ProjectScope(projectID)).Find(&activities)
package tenant

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrTenantIDRequired is returned when a scoped query is built without a company
	ErrTenantIDRequired = errors.New("tenant_id is required")
	// ErrProjectIDRequired is returned when a project scope is built without a project
	ErrProjectIDRequired = errors.New("project_id is required")
)

// scopeBy filters column by id. A nil id adds missing to the statement,
// so the query fails instead of running unfiltered.
func scopeBy(column string, id uuid.UUID, missing error) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id == uuid.Nil {
			_ = db.AddError(missing)
			return db
		}
		return db.Where(column+" = ?", id)
	}
}

// TenantScope limits a query to rows owned by tenantID
func TenantScope(tenantID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return scopeBy("tenant_id", tenantID, ErrTenantIDRequired)
}

// ProjectScope limits a query to items of projectID
func ProjectScope(projectID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return scopeBy("project_id", projectID, ErrProjectIDRequired)
}
