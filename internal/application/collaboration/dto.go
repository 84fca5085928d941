package collaboration

import (
	"time"

	"github.com/derbent/backend/internal/domain/collaboration"
	"github.com/google/uuid"
)

// TargetQuery selects the entity whose comments or attachments are listed
type TargetQuery struct {
	EntityType string    `form:"entity_type" binding:"required"`
	EntityID   uuid.UUID `form:"entity_id" binding:"required"`
}

// CreateCommentRequest adds a comment to an entity
type CreateCommentRequest struct {
	EntityType string    `json:"entity_type" binding:"required"`
	EntityID   uuid.UUID `json:"entity_id" binding:"required"`
	Text       string    `json:"text" binding:"required,min=1"`
}

// UpdateCommentRequest replaces the text of a comment
type UpdateCommentRequest struct {
	Text string `json:"text" binding:"required,min=1"`
}

// CommentResponse represents a comment in API responses
type CommentResponse struct {
	ID         uuid.UUID `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   uuid.UUID `json:"entity_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	Text       string    `json:"text"`
	Edited     bool      `json:"edited"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToCommentResponse converts a domain Comment to CommentResponse
func ToCommentResponse(c *collaboration.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		EntityType: string(c.EntityType),
		EntityID:   c.EntityID,
		AuthorID:   c.AuthorID,
		Text:       c.Text,
		Edited:     c.Edited,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// RequestUploadRequest announces a file the client is about to upload
type RequestUploadRequest struct {
	EntityType  string    `json:"entity_type" binding:"required"`
	EntityID    uuid.UUID `json:"entity_id" binding:"required"`
	FileName    string    `json:"file_name" binding:"required,max=255"`
	ContentType string    `json:"content_type" binding:"max=100"`
	Size        int64     `json:"size" binding:"required,min=1"`
}

// UploadResponse carries the presigned PUT URL for a pending attachment
type UploadResponse struct {
	Attachment AttachmentResponse `json:"attachment"`
	UploadURL  string             `json:"upload_url"`
	ExpiresAt  time.Time          `json:"expires_at"`
}

// DownloadResponse carries a presigned GET URL
type DownloadResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AttachmentResponse represents an attachment in API responses
type AttachmentResponse struct {
	ID          uuid.UUID `json:"id"`
	EntityType  string    `json:"entity_type"`
	EntityID    uuid.UUID `json:"entity_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Status      string    `json:"status"`
	UploaderID  uuid.UUID `json:"uploader_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToAttachmentResponse converts a domain Attachment to AttachmentResponse.
// The storage key stays internal.
func ToAttachmentResponse(a *collaboration.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID,
		EntityType:  string(a.EntityType),
		EntityID:    a.EntityID,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		Size:        a.Size,
		Status:      string(a.Status),
		UploaderID:  a.UploaderID,
		CreatedAt:   a.CreatedAt,
	}
}
