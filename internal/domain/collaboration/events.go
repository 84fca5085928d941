package collaboration

import (
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/shared"
)

const (
	AggregateTypeComment    = "Comment"
	AggregateTypeAttachment = "Attachment"
)

const (
	EventTypeCommentAdded       = "CommentAdded"
	EventTypeAttachmentUploaded = "AttachmentUploaded"
)

// CommentAddedEvent is published when a comment is created
type CommentAddedEvent struct {
	shared.BaseDomainEvent
	EntityType registry.EntityType `json:"entity_type"`
	EntityID   string              `json:"entity_id"`
	AuthorID   string              `json:"author_id"`
}

// NewCommentAddedEvent creates a new CommentAddedEvent
func NewCommentAddedEvent(c *Comment) *CommentAddedEvent {
	return &CommentAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCommentAdded, AggregateTypeComment, c.ID, c.TenantID),
		EntityType:      c.EntityType,
		EntityID:        c.EntityID.String(),
		AuthorID:        c.AuthorID.String(),
	}
}

// AttachmentUploadedEvent is published when an upload is confirmed
type AttachmentUploadedEvent struct {
	shared.BaseDomainEvent
	EntityType registry.EntityType `json:"entity_type"`
	EntityID   string              `json:"entity_id"`
	FileName   string              `json:"file_name"`
	Size       int64               `json:"size"`
}

// NewAttachmentUploadedEvent creates a new AttachmentUploadedEvent
func NewAttachmentUploadedEvent(a *Attachment) *AttachmentUploadedEvent {
	return &AttachmentUploadedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAttachmentUploaded, AggregateTypeAttachment, a.ID, a.TenantID),
		EntityType:      a.EntityType,
		EntityID:        a.EntityID.String(),
		FileName:        a.FileName,
		Size:            a.Size,
	}
}
