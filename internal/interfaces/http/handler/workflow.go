package handler

import (
	"context"

	"github.com/derbent/backend/internal/application/workflow"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StatusService is the item status use cases behind WorkflowHandler
type StatusService interface {
	List(ctx context.Context, tenantID uuid.UUID) ([]workflow.StatusResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*workflow.StatusResponse, error)
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req workflow.StatusRequest) (*workflow.StatusResponse, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req workflow.StatusRequest) (*workflow.StatusResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// WorkflowService is the workflow use cases behind WorkflowHandler
type WorkflowService interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req workflow.CreateWorkflowRequest) (*workflow.WorkflowResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*workflow.WorkflowResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter workflow.WorkflowListFilter) ([]workflow.WorkflowResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req workflow.UpdateWorkflowRequest) (*workflow.WorkflowResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	AddTransition(ctx context.Context, tenantID, id uuid.UUID, req workflow.TransitionRequest) (*workflow.WorkflowResponse, error)
	RemoveTransition(ctx context.Context, tenantID, id, transitionID uuid.UUID) (*workflow.WorkflowResponse, error)
}

// WorkflowHandler handles item statuses and the workflows built on them
type WorkflowHandler struct {
	BaseHandler
	statuses  StatusService
	workflows WorkflowService
}

// NewWorkflowHandler creates a new workflow handler
func NewWorkflowHandler(statuses StatusService, workflows WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{statuses: statuses, workflows: workflows}
}

// ListStatuses godoc
// @Summary      List statuses
// @Tags         workflows
// @Produce      json
// @Success      200 {object} dto.Response{data=[]workflow.StatusResponse}
// @Security     BearerAuth
// @Router       /statuses [get]
func (h *WorkflowHandler) ListStatuses(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	statuses, err := h.statuses.List(c.Request.Context(), who.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, statuses)
}

// GetStatus godoc
// @Summary      Get status
// @Tags         workflows
// @Produce      json
// @Param        id path string true "Status ID"
// @Success      200 {object} dto.Response{data=workflow.StatusResponse}
// @Security     BearerAuth
// @Router       /statuses/{id} [get]
func (h *WorkflowHandler) GetStatus(c *gin.Context) {
	handleGet(&h.BaseHandler, c, h.statuses.GetByID)
}

// CreateStatus godoc
// @Summary      Create status
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Param        request body workflow.StatusRequest true "Status"
// @Success      201 {object} dto.Response{data=workflow.StatusResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /statuses [post]
func (h *WorkflowHandler) CreateStatus(c *gin.Context) {
	handleCreate(&h.BaseHandler, c, h.statuses.Create)
}

// UpdateStatus godoc
// @Summary      Update status
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Param        id path string true "Status ID"
// @Param        request body workflow.StatusRequest true "Status"
// @Success      200 {object} dto.Response{data=workflow.StatusResponse}
// @Security     BearerAuth
// @Router       /statuses/{id} [put]
func (h *WorkflowHandler) UpdateStatus(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.statuses.Update)
}

// DeleteStatus godoc
// @Summary      Delete status
// @Description  Statuses referenced by a workflow cannot be deleted
// @Tags         workflows
// @Param        id path string true "Status ID"
// @Success      204
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /statuses/{id} [delete]
func (h *WorkflowHandler) DeleteStatus(c *gin.Context) {
	handleDelete(&h.BaseHandler, c, h.statuses.Delete)
}

// List godoc
// @Summary      List workflows
// @Tags         workflows
// @Produce      json
// @Param        entity_type query string false "Entity type"
// @Success      200 {object} dto.Response{data=[]workflow.WorkflowResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /workflows [get]
func (h *WorkflowHandler) List(c *gin.Context) {
	handleList(&h.BaseHandler, c, h.workflows.List)
}

// Get godoc
// @Summary      Get workflow
// @Tags         workflows
// @Produce      json
// @Param        id path string true "Workflow ID"
// @Success      200 {object} dto.Response{data=workflow.WorkflowResponse}
// @Security     BearerAuth
// @Router       /workflows/{id} [get]
func (h *WorkflowHandler) Get(c *gin.Context) {
	handleGet(&h.BaseHandler, c, h.workflows.GetByID)
}

// Create godoc
// @Summary      Create workflow
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Param        request body workflow.CreateWorkflowRequest true "Workflow"
// @Success      201 {object} dto.Response{data=workflow.WorkflowResponse}
// @Security     BearerAuth
// @Router       /workflows [post]
func (h *WorkflowHandler) Create(c *gin.Context) {
	handleCreate(&h.BaseHandler, c, h.workflows.Create)
}

// Update godoc
// @Summary      Update workflow
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Param        id path string true "Workflow ID"
// @Param        request body workflow.UpdateWorkflowRequest true "Workflow"
// @Success      200 {object} dto.Response{data=workflow.WorkflowResponse}
// @Security     BearerAuth
// @Router       /workflows/{id} [put]
func (h *WorkflowHandler) Update(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.workflows.Update)
}

// Delete godoc
// @Summary      Delete workflow
// @Tags         workflows
// @Param        id path string true "Workflow ID"
// @Success      204
// @Security     BearerAuth
// @Router       /workflows/{id} [delete]
func (h *WorkflowHandler) Delete(c *gin.Context) {
	handleDelete(&h.BaseHandler, c, h.workflows.Delete)
}

// AddTransition godoc
// @Summary      Add transition
// @Description  Allow moving from one status to another, optionally only for some roles
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Param        id path string true "Workflow ID"
// @Param        request body workflow.TransitionRequest true "Transition"
// @Success      200 {object} dto.Response{data=workflow.WorkflowResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /workflows/{id}/transitions [post]
func (h *WorkflowHandler) AddTransition(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.workflows.AddTransition)
}

// RemoveTransition godoc
// @Summary      Remove transition
// @Tags         workflows
// @Produce      json
// @Param        id path string true "Workflow ID"
// @Param        transitionId path string true "Transition ID"
// @Success      200 {object} dto.Response{data=workflow.WorkflowResponse}
// @Security     BearerAuth
// @Router       /workflows/{id}/transitions/{transitionId} [delete]
func (h *WorkflowHandler) RemoveTransition(c *gin.Context) {
	handleChildAction(&h.BaseHandler, c, "transitionId", h.workflows.RemoveTransition)
}
