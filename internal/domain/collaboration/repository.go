package collaboration

import (
	"context"

	"github.com/google/uuid"
)

// CommentRepository persists comments
type CommentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Comment, error)
	// FindByTarget returns comments oldest first
	FindByTarget(ctx context.Context, tenantID uuid.UUID, target Target) ([]Comment, error)
	Save(ctx context.Context, c *Comment) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// TargetResolver checks that a target names a stored record of its type
type TargetResolver interface {
	Exists(ctx context.Context, tenantID uuid.UUID, target Target) (bool, error)
}

// AttachmentRepository persists attachment metadata
type AttachmentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Attachment, error)
	// FindByTarget returns active attachments newest first
	FindByTarget(ctx context.Context, tenantID uuid.UUID, target Target) ([]Attachment, error)
	Save(ctx context.Context, a *Attachment) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
