package project

import (
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MemberRole is the role a user holds inside one project
type MemberRole string

const (
	MemberRoleManager MemberRole = "manager"
	MemberRoleMember  MemberRole = "member"
	MemberRoleViewer  MemberRole = "viewer"
)

// IsValid reports whether r is a known project role
func (r MemberRole) IsValid() bool {
	return r == MemberRoleManager || r == MemberRoleMember || r == MemberRoleViewer
}

// Member links a user to a project
type Member struct {
	shared.BaseEntity
	TenantID  uuid.UUID
	ProjectID uuid.UUID
	UserID    uuid.UUID
	Role      MemberRole
}

// NewMember creates a project membership
func NewMember(tenantID, projectID, userID uuid.UUID, role MemberRole) (*Member, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project is required")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User is required")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown project role")
	}
	return &Member{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		ProjectID:  projectID,
		UserID:     userID,
		Role:       role,
	}, nil
}
