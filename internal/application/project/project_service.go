// Package project manages projects and their members.
package project

import (
	"context"
	"errors"
	"time"

	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/project"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrProjectArchived = shared.NewDomainError("PROJECT_ARCHIVED", "Project is archived")
	ErrProjectNotEmpty = shared.NewDomainError("PROJECT_NOT_EMPTY", "Project still has items and cannot be deleted")
)

// ProjectService handles project lifecycle and membership
type ProjectService struct {
	projectRepo project.ProjectRepository
	memberRepo  project.MemberRepository
	userRepo    identity.UserRepository
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo project.ProjectRepository,
	memberRepo project.MemberRepository,
	userRepo identity.UserRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		memberRepo:  memberRepo,
		userRepo:    userRepo,
		events:      events,
		logger:      logger,
	}
}

// Create creates a project with a unique name
func (s *ProjectService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, req CreateProjectRequest) (*ProjectResponse, error) {
	if err := s.checkName(ctx, tenantID, req.Name, nil); err != nil {
		return nil, err
	}
	p, err := project.NewProject(tenantID, req.Name, req.Code)
	if err != nil {
		return nil, err
	}
	if err := apply(p, req.Name, req.Description, req.StartDate, req.EndDate, req.Budget); err != nil {
		return nil, err
	}
	p.SetCreatedBy(createdBy)

	resp, err := s.save(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Project created", zap.String("project_id", p.ID.String()), zap.String("name", p.Name))
	return resp, nil
}

// GetByID retrieves a project
func (s *ProjectService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToProjectResponse(p)
	return &resp, nil
}

// List retrieves projects with filtering and pagination
func (s *ProjectService) List(ctx context.Context, tenantID uuid.UUID, filter ProjectListFilter) ([]ProjectResponse, int64, error) {
	domainFilter := filter.Query.Filter("name", "asc")
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	projects, total, err := s.projectRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ProjectResponse, len(projects))
	for i := range projects {
		out[i] = ToProjectResponse(&projects[i])
	}
	return out, total, nil
}

// Update changes an active project
func (s *ProjectService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateProjectRequest) (*ProjectResponse, error) {
	p, err := s.RequireActive(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, tenantID, req.Name, &id); err != nil {
		return nil, err
	}
	if err := apply(p, req.Name, req.Description, req.StartDate, req.EndDate, req.Budget); err != nil {
		return nil, err
	}
	return s.save(ctx, p)
}

// Archive makes a project read-only
func (s *ProjectService) Archive(ctx context.Context, tenantID, id uuid.UUID) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := p.Archive(); err != nil {
		return nil, err
	}
	return s.save(ctx, p)
}

// Activate reopens an archived project
func (s *ProjectService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := p.Activate(); err != nil {
		return nil, err
	}
	return s.save(ctx, p)
}

// Delete removes a project that has no items left
func (s *ProjectService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.projectRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	count, err := s.projectRepo.CountItems(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrProjectNotEmpty
	}
	if err := s.projectRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("Project deleted", zap.String("project_id", id.String()))
	return nil
}

// RequireActive loads a project and fails when it is archived. Services
// that create or change project items call it first.
func (s *ProjectService) RequireActive(ctx context.Context, tenantID, id uuid.UUID) (*project.Project, error) {
	p, err := s.projectRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, ErrProjectArchived
	}
	return p, nil
}

// ListMembers returns a project's members with their user names
func (s *ProjectService) ListMembers(ctx context.Context, tenantID, projectID uuid.UUID) ([]MemberResponse, error) {
	if _, err := s.projectRepo.FindByIDForTenant(ctx, tenantID, projectID); err != nil {
		return nil, err
	}
	members, err := s.memberRepo.FindByProject(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]MemberResponse, 0, len(members))
	for i := range members {
		resp := toMemberResponse(&members[i])
		user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, members[i].UserID)
		switch {
		case err == nil:
			resp.Username = user.Username
			resp.DisplayName = user.GetDisplayNameOrUsername()
		case !errors.Is(err, shared.ErrNotFound):
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// AddMember adds a company user to a project
func (s *ProjectService) AddMember(ctx context.Context, tenantID, projectID uuid.UUID, req AddMemberRequest) (*MemberResponse, error) {
	if _, err := s.RequireActive(ctx, tenantID, projectID); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, req.UserID)
	if err != nil {
		return nil, err
	}

	existing, err := s.memberRepo.FindOne(ctx, tenantID, projectID, req.UserID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "User is already a member of this project")
	}

	member, err := project.NewMember(tenantID, projectID, req.UserID, project.MemberRole(req.Role))
	if err != nil {
		return nil, err
	}
	if err := s.memberRepo.Save(ctx, member); err != nil {
		return nil, err
	}
	resp := toMemberResponse(member)
	resp.Username = user.Username
	resp.DisplayName = user.GetDisplayNameOrUsername()
	return &resp, nil
}

// RemoveMember removes a user from a project
func (s *ProjectService) RemoveMember(ctx context.Context, tenantID, projectID, userID uuid.UUID) error {
	member, err := s.memberRepo.FindOne(ctx, tenantID, projectID, userID)
	if err != nil {
		return err
	}
	return s.memberRepo.Delete(ctx, tenantID, member.ID)
}

func (s *ProjectService) checkName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) error {
	exists, err := s.projectRepo.ExistsByName(ctx, tenantID, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Project with this name already exists")
	}
	return nil
}

func (s *ProjectService) save(ctx context.Context, p *project.Project) (*ProjectResponse, error) {
	if err := s.projectRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.events, p); err != nil {
		s.logger.Warn("Failed to publish project events", zap.Error(err))
	}
	resp := ToProjectResponse(p)
	return &resp, nil
}

func apply(p *project.Project, name, description string, start, end *time.Time, budget *decimal.Decimal) error {
	if err := p.Update(name, description); err != nil {
		return err
	}
	if err := p.SetSchedule(start, end); err != nil {
		return err
	}
	if budget != nil {
		return p.SetBudget(*budget)
	}
	return nil
}

func toMemberResponse(m *project.Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt,
	}
}
