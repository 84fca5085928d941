package models

import (
	"time"

	"github.com/derbent/backend/internal/domain/project"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectModel is the persistence model for the Project aggregate.
type ProjectModel struct {
	TenantAggregateModel
	Name        string          `gorm:"type:varchar(200);not null"`
	Code        string          `gorm:"type:varchar(50)"`
	Description string          `gorm:"type:text"`
	Status      project.Status  `gorm:"type:varchar(20);not null;default:'active'"`
	StartDate   *time.Time      `gorm:"type:date"`
	EndDate     *time.Time      `gorm:"type:date"`
	Budget      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the persistence model to a domain Project.
func (m *ProjectModel) ToDomain() *project.Project {
	p := &project.Project{
		Name:        m.Name,
		Code:        m.Code,
		Description: m.Description,
		Status:      m.Status,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		Budget:      m.Budget,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)
	return p
}

// ProjectModelFromDomain creates a new persistence model from a domain Project.
func ProjectModelFromDomain(p *project.Project) *ProjectModel {
	m := &ProjectModel{
		Name:        p.Name,
		Code:        p.Code,
		Description: p.Description,
		Status:      p.Status,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Budget:      p.Budget,
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	return m
}

// ProjectMemberModel is the persistence model for project membership.
type ProjectMemberModel struct {
	BaseModel
	TenantID  uuid.UUID          `gorm:"type:uuid;not null;index"`
	ProjectID uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_project_member,priority:1"`
	UserID    uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_project_member,priority:2"`
	Role      project.MemberRole `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (ProjectMemberModel) TableName() string {
	return "project_members"
}

// ToDomain converts the persistence model to a domain Member.
func (m *ProjectMemberModel) ToDomain() *project.Member {
	return &project.Member{
		BaseEntity: m.BaseModel.ToDomain(),
		TenantID:   m.TenantID,
		ProjectID:  m.ProjectID,
		UserID:     m.UserID,
		Role:       m.Role,
	}
}

// ProjectMemberModelFromDomain creates a new persistence model from a domain Member.
func ProjectMemberModelFromDomain(mem *project.Member) *ProjectMemberModel {
	m := &ProjectMemberModel{
		TenantID:  mem.TenantID,
		ProjectID: mem.ProjectID,
		UserID:    mem.UserID,
		Role:      mem.Role,
	}
	m.FromDomainBaseEntity(mem.BaseEntity)
	return m
}
