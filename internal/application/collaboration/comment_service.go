// Package collaboration manages comments and file attachments on projects
// and project items.
package collaboration

import (
	"context"

	"github.com/derbent/backend/internal/domain/collaboration"
	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errNotAllowed = shared.NewDomainError("FORBIDDEN", "You are not allowed to change this item")

// CommentService handles comments
type CommentService struct {
	commentRepo collaboration.CommentRepository
	targets     collaboration.TargetResolver
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(commentRepo collaboration.CommentRepository, targets collaboration.TargetResolver, events shared.EventPublisher, logger *zap.Logger) *CommentService {
	return &CommentService{commentRepo: commentRepo, targets: targets, events: events, logger: logger}
}

// requireTarget fails with NOT_FOUND unless the target record exists in the
// company
func requireTarget(ctx context.Context, targets collaboration.TargetResolver, tenantID uuid.UUID, target collaboration.Target) error {
	ok, err := targets.Exists(ctx, tenantID, target)
	if err != nil {
		return err
	}
	if !ok {
		d, _ := registry.Lookup(target.EntityType)
		return shared.NotFound(d.Title)
	}
	return nil
}

// List returns the comments of an entity, oldest first
func (s *CommentService) List(ctx context.Context, tenantID uuid.UUID, q TargetQuery) ([]CommentResponse, error) {
	target := collaboration.Target{EntityType: registry.EntityType(q.EntityType), EntityID: q.EntityID}
	if err := registry.RequireCommentable(target.EntityType); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.FindByTarget(ctx, tenantID, target)
	if err != nil {
		return nil, err
	}
	out := make([]CommentResponse, len(comments))
	for i := range comments {
		out[i] = ToCommentResponse(&comments[i])
	}
	return out, nil
}

// Create adds a comment
func (s *CommentService) Create(ctx context.Context, tenantID, authorID uuid.UUID, req CreateCommentRequest) (*CommentResponse, error) {
	target := collaboration.Target{EntityType: registry.EntityType(req.EntityType), EntityID: req.EntityID}
	c, err := collaboration.NewComment(tenantID, target, authorID, req.Text)
	if err != nil {
		return nil, err
	}
	if err := requireTarget(ctx, s.targets, tenantID, target); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.events, c); err != nil {
		s.logger.Warn("Failed to publish comment events", zap.String("comment_id", c.ID.String()), zap.Error(err))
	}
	resp := ToCommentResponse(c)
	return &resp, nil
}

// Update replaces the text. Only the author may edit.
func (s *CommentService) Update(ctx context.Context, tenantID, id, editorID uuid.UUID, req UpdateCommentRequest) (*CommentResponse, error) {
	c, err := s.commentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := c.Edit(editorID, req.Text); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCommentResponse(c)
	return &resp, nil
}

// Delete removes a comment. Authors delete their own, managers any.
func (s *CommentService) Delete(ctx context.Context, tenantID, id, userID uuid.UUID, role identity.Role) error {
	c, err := s.commentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !c.CanDelete(userID, role.CanManage()) {
		return errNotAllowed
	}
	return s.commentRepo.DeleteForTenant(ctx, tenantID, id)
}
