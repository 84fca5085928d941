package handler

import (
	"context"

	"github.com/derbent/backend/internal/application/project"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProjectService is the project use cases behind ProjectHandler
type ProjectService interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req project.CreateProjectRequest) (*project.ProjectResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*project.ProjectResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter project.ProjectListFilter) ([]project.ProjectResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req project.UpdateProjectRequest) (*project.ProjectResponse, error)
	Archive(ctx context.Context, tenantID, id uuid.UUID) (*project.ProjectResponse, error)
	Activate(ctx context.Context, tenantID, id uuid.UUID) (*project.ProjectResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	ListMembers(ctx context.Context, tenantID, projectID uuid.UUID) ([]project.MemberResponse, error)
	AddMember(ctx context.Context, tenantID, projectID uuid.UUID, req project.AddMemberRequest) (*project.MemberResponse, error)
	RemoveMember(ctx context.Context, tenantID, projectID, userID uuid.UUID) error
}

// ProjectHandler handles projects and their members
type ProjectHandler struct {
	BaseHandler
	projects ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projects ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// Create godoc
// @Summary      Create project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body project.CreateProjectRequest true "Project"
// @Success      201 {object} dto.Response{data=project.ProjectResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	handleCreate(&h.BaseHandler, c, h.projects.Create)
}

// Get godoc
// @Summary      Get project
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} dto.Response{data=project.ProjectResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	handleGet(&h.BaseHandler, c, h.projects.GetByID)
}

// List godoc
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Param        status query string false "active or archived"
// @Param        search query string false "Name or code"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]project.ProjectResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	handleList(&h.BaseHandler, c, h.projects.List)
}

// Update godoc
// @Summary      Update project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        request body project.UpdateProjectRequest true "Project"
// @Success      200 {object} dto.Response{data=project.ProjectResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.projects.Update)
}

// Archive godoc
// @Summary      Archive project
// @Description  Archived projects reject new items
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} dto.Response{data=project.ProjectResponse}
// @Security     BearerAuth
// @Router       /projects/{id}/archive [post]
func (h *ProjectHandler) Archive(c *gin.Context) {
	handleAction(&h.BaseHandler, c, h.projects.Archive)
}

// Activate godoc
// @Summary      Reactivate project
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} dto.Response{data=project.ProjectResponse}
// @Security     BearerAuth
// @Router       /projects/{id}/activate [post]
func (h *ProjectHandler) Activate(c *gin.Context) {
	handleAction(&h.BaseHandler, c, h.projects.Activate)
}

// Delete godoc
// @Summary      Delete project
// @Description  Only projects without items can be deleted
// @Tags         projects
// @Param        id path string true "Project ID"
// @Success      204
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	handleDelete(&h.BaseHandler, c, h.projects.Delete)
}

// ListMembers godoc
// @Summary      List project members
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} dto.Response{data=[]project.MemberResponse}
// @Security     BearerAuth
// @Router       /projects/{id}/members [get]
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	members, err := h.projects.ListMembers(c.Request.Context(), who.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, members)
}

// AddMember godoc
// @Summary      Add project member
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        request body project.AddMemberRequest true "Member"
// @Success      201 {object} dto.Response{data=project.MemberResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /projects/{id}/members [post]
func (h *ProjectHandler) AddMember(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req project.AddMemberRequest
	if !h.bindJSON(c, &req) {
		return
	}
	member, err := h.projects.AddMember(c.Request.Context(), who.TenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, member)
}

// RemoveMember godoc
// @Summary      Remove project member
// @Tags         projects
// @Param        id path string true "Project ID"
// @Param        userId path string true "User ID"
// @Success      204
// @Security     BearerAuth
// @Router       /projects/{id}/members/{userId} [delete]
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := h.pathID(c, "userId")
	if !ok {
		return
	}
	if err := h.projects.RemoveMember(c.Request.Context(), who.TenantID, id, userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
