// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: Base persistence models (BaseModel, TenantAggregateModel, ProjectItemModel)
// - identity.go: Companies and users
// - project.go, workflow.go: Projects, members, statuses and workflows
// - planning.go: Activities, meetings and sprints
// - governance.go, finance.go, asset.go: Project records
// - kanban.go, validation.go, collaboration.go, settings.go
//
// Child collections (invoice items, transitions, kanban columns, ...) live in
// their own tables and are replaced as a whole when the parent is saved.
// Small ID lists are stored as jsonb through the gorm json serializer.
package models
