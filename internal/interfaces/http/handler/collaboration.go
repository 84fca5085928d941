package handler

import (
	"context"

	"github.com/derbent/backend/internal/application/collaboration"
	"github.com/derbent/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CommentService is the comment use cases
type CommentService interface {
	List(ctx context.Context, tenantID uuid.UUID, q collaboration.TargetQuery) ([]collaboration.CommentResponse, error)
	Create(ctx context.Context, tenantID, authorID uuid.UUID, req collaboration.CreateCommentRequest) (*collaboration.CommentResponse, error)
	Update(ctx context.Context, tenantID, id, editorID uuid.UUID, req collaboration.UpdateCommentRequest) (*collaboration.CommentResponse, error)
	Delete(ctx context.Context, tenantID, id, userID uuid.UUID, role identity.Role) error
}

// AttachmentService is the attachment use cases
type AttachmentService interface {
	List(ctx context.Context, tenantID uuid.UUID, q collaboration.TargetQuery) ([]collaboration.AttachmentResponse, error)
	RequestUpload(ctx context.Context, tenantID, uploaderID uuid.UUID, req collaboration.RequestUploadRequest) (*collaboration.UploadResponse, error)
	ConfirmUpload(ctx context.Context, tenantID, id uuid.UUID) (*collaboration.AttachmentResponse, error)
	GetDownloadURL(ctx context.Context, tenantID, id uuid.UUID) (*collaboration.DownloadResponse, error)
	Delete(ctx context.Context, tenantID, id, userID uuid.UUID, role identity.Role) error
}

// CollaborationHandler handles comments and attachments on any entity that
// supports them
type CollaborationHandler struct {
	BaseHandler
	comments    CommentService
	attachments AttachmentService
}

// NewCollaborationHandler creates a new collaboration handler
func NewCollaborationHandler(comments CommentService, attachments AttachmentService) *CollaborationHandler {
	return &CollaborationHandler{comments: comments, attachments: attachments}
}

// targetQuery reads entity_type and entity_id from the query string
func (h *CollaborationHandler) targetQuery(c *gin.Context) (collaboration.TargetQuery, bool) {
	q := collaboration.TargetQuery{EntityType: c.Query("entity_type")}
	if q.EntityType == "" {
		h.BadRequest(c, "entity_type is required")
		return q, false
	}
	id, ok := h.requiredQueryUUID(c, "entity_id")
	if !ok {
		return q, false
	}
	q.EntityID = id
	return q, true
}

// ListComments godoc
// @Summary      List comments
// @Description  Comments of an entity, oldest first
// @Tags         comments
// @Produce      json
// @Param        entity_type query string true "Entity type"
// @Param        entity_id query string true "Entity ID"
// @Success      200 {object} dto.Response{data=[]collaboration.CommentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /comments [get]
func (h *CollaborationHandler) ListComments(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	q, ok := h.targetQuery(c)
	if !ok {
		return
	}
	comments, err := h.comments.List(c.Request.Context(), who.TenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, comments)
}

// CreateComment godoc
// @Summary      Add comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        request body collaboration.CreateCommentRequest true "Comment"
// @Success      201 {object} dto.Response{data=collaboration.CommentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo} "Commented record not found"
// @Security     BearerAuth
// @Router       /comments [post]
func (h *CollaborationHandler) CreateComment(c *gin.Context) {
	handleCreate(&h.BaseHandler, c, h.comments.Create)
}

// UpdateComment godoc
// @Summary      Edit comment
// @Description  Only the author may edit a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id path string true "Comment ID"
// @Param        request body collaboration.UpdateCommentRequest true "Text"
// @Success      200 {object} dto.Response{data=collaboration.CommentResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /comments/{id} [put]
func (h *CollaborationHandler) UpdateComment(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req collaboration.UpdateCommentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	comment, err := h.comments.Update(c.Request.Context(), who.TenantID, id, who.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, comment)
}

// DeleteComment godoc
// @Summary      Delete comment
// @Description  Authors may delete their own comments, managers any comment
// @Tags         comments
// @Param        id path string true "Comment ID"
// @Success      204
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /comments/{id} [delete]
func (h *CollaborationHandler) DeleteComment(c *gin.Context) {
	h.ownedDelete(c, h.comments.Delete)
}

// ListAttachments godoc
// @Summary      List attachments
// @Tags         attachments
// @Produce      json
// @Param        entity_type query string true "Entity type"
// @Param        entity_id query string true "Entity ID"
// @Success      200 {object} dto.Response{data=[]collaboration.AttachmentResponse}
// @Security     BearerAuth
// @Router       /attachments [get]
func (h *CollaborationHandler) ListAttachments(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	q, ok := h.targetQuery(c)
	if !ok {
		return
	}
	attachments, err := h.attachments.List(c.Request.Context(), who.TenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, attachments)
}

// RequestUpload godoc
// @Summary      Request upload URL
// @Description  Creates a pending attachment and returns a presigned PUT URL. Confirm the upload once the file is stored.
// @Tags         attachments
// @Accept       json
// @Produce      json
// @Param        request body collaboration.RequestUploadRequest true "File"
// @Success      201 {object} dto.Response{data=collaboration.UploadResponse}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo} "Target record not found"
// @Security     BearerAuth
// @Router       /attachments [post]
func (h *CollaborationHandler) RequestUpload(c *gin.Context) {
	handleCreate(&h.BaseHandler, c, h.attachments.RequestUpload)
}

// ConfirmUpload godoc
// @Summary      Confirm upload
// @Tags         attachments
// @Produce      json
// @Param        id path string true "Attachment ID"
// @Success      200 {object} dto.Response{data=collaboration.AttachmentResponse}
// @Security     BearerAuth
// @Router       /attachments/{id}/confirm [post]
func (h *CollaborationHandler) ConfirmUpload(c *gin.Context) {
	handleAction(&h.BaseHandler, c, h.attachments.ConfirmUpload)
}

// Download godoc
// @Summary      Download URL
// @Tags         attachments
// @Produce      json
// @Param        id path string true "Attachment ID"
// @Success      200 {object} dto.Response{data=collaboration.DownloadResponse}
// @Security     BearerAuth
// @Router       /attachments/{id}/download [get]
func (h *CollaborationHandler) Download(c *gin.Context) {
	handleGet(&h.BaseHandler, c, h.attachments.GetDownloadURL)
}

// DeleteAttachment godoc
// @Summary      Delete attachment
// @Tags         attachments
// @Param        id path string true "Attachment ID"
// @Success      204
// @Security     BearerAuth
// @Router       /attachments/{id} [delete]
func (h *CollaborationHandler) DeleteAttachment(c *gin.Context) {
	h.ownedDelete(c, h.attachments.Delete)
}

func (h *CollaborationHandler) ownedDelete(c *gin.Context, fn func(ctx context.Context, tenantID, id, userID uuid.UUID, role identity.Role) error) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), who.TenantID, id, who.UserID, who.Role); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
