package handler

import (
	"context"

	"github.com/derbent/backend/internal/application/governance"
	workflowapp "github.com/derbent/backend/internal/application/workflow"
	"github.com/derbent/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RiskService is the risk register use cases
type RiskService interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req governance.CreateRiskRequest) (*governance.RiskResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*governance.RiskResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter governance.RiskListFilter) ([]governance.RiskResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req governance.UpdateRiskRequest) (*governance.RiskResponse, error)
	ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, role identity.Role, req workflowapp.ChangeStatusRequest) (*governance.RiskResponse, error)
	NextStatuses(ctx context.Context, tenantID, id uuid.UUID, role identity.Role) ([]workflowapp.StatusOption, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// RiskHandler handles risk endpoints
type RiskHandler struct {
	BaseHandler
	risks RiskService
}

// NewRiskHandler creates a new risk handler
func NewRiskHandler(risks RiskService) *RiskHandler {
	return &RiskHandler{risks: risks}
}

// Create godoc
// @Summary      Create risk
// @Description  Exposure is derived from probability and impact
// @Tags         risks
// @Accept       json
// @Produce      json
// @Param        request body governance.CreateRiskRequest true "Risk"
// @Success      201 {object} dto.Response{data=governance.RiskResponse}
// @Security     BearerAuth
// @Router       /risks [post]
func (h *RiskHandler) Create(c *gin.Context) {
	handleCreate(&h.BaseHandler, c, h.risks.Create)
}

// Get godoc
// @Summary      Get risk
// @Tags         risks
// @Produce      json
// @Param        id path string true "Risk ID"
// @Success      200 {object} dto.Response{data=governance.RiskResponse}
// @Security     BearerAuth
// @Router       /risks/{id} [get]
func (h *RiskHandler) Get(c *gin.Context) {
	handleGet(&h.BaseHandler, c, h.risks.GetByID)
}

// List godoc
// @Summary      List risks
// @Tags         risks
// @Produce      json
// @Param        project_id query string false "Project ID"
// @Param        status_id query string false "Status ID"
// @Param        severity query string false "low, medium, high or critical"
// @Success      200 {object} dto.Response{data=[]governance.RiskResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /risks [get]
func (h *RiskHandler) List(c *gin.Context) {
	handleList(&h.BaseHandler, c, h.risks.List)
}

// Update godoc
// @Summary      Update risk
// @Tags         risks
// @Accept       json
// @Produce      json
// @Param        id path string true "Risk ID"
// @Param        request body governance.UpdateRiskRequest true "Risk"
// @Success      200 {object} dto.Response{data=governance.RiskResponse}
// @Security     BearerAuth
// @Router       /risks/{id} [put]
func (h *RiskHandler) Update(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.risks.Update)
}

// ChangeStatus godoc
// @Summary      Change risk status
// @Tags         risks
// @Accept       json
// @Produce      json
// @Param        id path string true "Risk ID"
// @Param        request body workflow.ChangeStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=governance.RiskResponse}
// @Security     BearerAuth
// @Router       /risks/{id}/status [put]
func (h *RiskHandler) ChangeStatus(c *gin.Context) {
	handleChangeStatus(&h.BaseHandler, c, h.risks.ChangeStatus)
}

// NextStatuses godoc
// @Summary      Allowed next statuses
// @Tags         risks
// @Produce      json
// @Param        id path string true "Risk ID"
// @Success      200 {object} dto.Response{data=[]workflow.StatusOption}
// @Security     BearerAuth
// @Router       /risks/{id}/next-statuses [get]
func (h *RiskHandler) NextStatuses(c *gin.Context) {
	handleNextStatuses(&h.BaseHandler, c, h.risks.NextStatuses)
}

// Delete godoc
// @Summary      Delete risk
// @Tags         risks
// @Param        id path string true "Risk ID"
// @Success      204
// @Security     BearerAuth
// @Router       /risks/{id} [delete]
func (h *RiskHandler) Delete(c *gin.Context) {
	handleDelete(&h.BaseHandler, c, h.risks.Delete)
}

// DecisionService is the decision log use cases, including approvals
type DecisionService interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req governance.CreateDecisionRequest) (*governance.DecisionResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*governance.DecisionResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter governance.DecisionListFilter) ([]governance.DecisionResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req governance.UpdateDecisionRequest) (*governance.DecisionResponse, error)
	ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, role identity.Role, req workflowapp.ChangeStatusRequest) (*governance.DecisionResponse, error)
	NextStatuses(ctx context.Context, tenantID, id uuid.UUID, role identity.Role) ([]workflowapp.StatusOption, error)
	RequestApproval(ctx context.Context, tenantID, id uuid.UUID, req governance.RequestApprovalRequest) (*governance.DecisionResponse, error)
	Approve(ctx context.Context, tenantID, id, approverID uuid.UUID, req governance.VerdictRequest) (*governance.DecisionResponse, error)
	Reject(ctx context.Context, tenantID, id, approverID uuid.UUID, req governance.VerdictRequest) (*governance.DecisionResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// DecisionHandler handles decision endpoints
type DecisionHandler struct {
	BaseHandler
	decisions DecisionService
}

// NewDecisionHandler creates a new decision handler
func NewDecisionHandler(decisions DecisionService) *DecisionHandler {
	return &DecisionHandler{decisions: decisions}
}

// Create godoc
// @Summary      Create decision
// @Tags         decisions
// @Accept       json
// @Produce      json
// @Param        request body governance.CreateDecisionRequest true "Decision"
// @Success      201 {object} dto.Response{data=governance.DecisionResponse}
// @Security     BearerAuth
// @Router       /decisions [post]
func (h *DecisionHandler) Create(c *gin.Context) {
	handleCreate(&h.BaseHandler, c, h.decisions.Create)
}

// Get godoc
// @Summary      Get decision
// @Tags         decisions
// @Produce      json
// @Param        id path string true "Decision ID"
// @Success      200 {object} dto.Response{data=governance.DecisionResponse}
// @Security     BearerAuth
// @Router       /decisions/{id} [get]
func (h *DecisionHandler) Get(c *gin.Context) {
	handleGet(&h.BaseHandler, c, h.decisions.GetByID)
}

// List godoc
// @Summary      List decisions
// @Tags         decisions
// @Produce      json
// @Param        project_id query string false "Project ID"
// @Param        status_id query string false "Status ID"
// @Success      200 {object} dto.Response{data=[]governance.DecisionResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /decisions [get]
func (h *DecisionHandler) List(c *gin.Context) {
	handleList(&h.BaseHandler, c, h.decisions.List)
}

// Update godoc
// @Summary      Update decision
// @Tags         decisions
// @Accept       json
// @Produce      json
// @Param        id path string true "Decision ID"
// @Param        request body governance.UpdateDecisionRequest true "Decision"
// @Success      200 {object} dto.Response{data=governance.DecisionResponse}
// @Security     BearerAuth
// @Router       /decisions/{id} [put]
func (h *DecisionHandler) Update(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.decisions.Update)
}

// ChangeStatus godoc
// @Summary      Change decision status
// @Tags         decisions
// @Accept       json
// @Produce      json
// @Param        id path string true "Decision ID"
// @Param        request body workflow.ChangeStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=governance.DecisionResponse}
// @Security     BearerAuth
// @Router       /decisions/{id}/status [put]
func (h *DecisionHandler) ChangeStatus(c *gin.Context) {
	handleChangeStatus(&h.BaseHandler, c, h.decisions.ChangeStatus)
}

// NextStatuses godoc
// @Summary      Allowed next statuses
// @Tags         decisions
// @Produce      json
// @Param        id path string true "Decision ID"
// @Success      200 {object} dto.Response{data=[]workflow.StatusOption}
// @Security     BearerAuth
// @Router       /decisions/{id}/next-statuses [get]
func (h *DecisionHandler) NextStatuses(c *gin.Context) {
	handleNextStatuses(&h.BaseHandler, c, h.decisions.NextStatuses)
}

// RequestApproval godoc
// @Summary      Request approval
// @Description  Adds a pending approval for each listed approver
// @Tags         decisions
// @Accept       json
// @Produce      json
// @Param        id path string true "Decision ID"
// @Param        request body governance.RequestApprovalRequest true "Approvers"
// @Success      200 {object} dto.Response{data=governance.DecisionResponse}
// @Security     BearerAuth
// @Router       /decisions/{id}/approvals [post]
func (h *DecisionHandler) RequestApproval(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.decisions.RequestApproval)
}

// Approve godoc
// @Summary      Approve decision
// @Description  Records the caller's approval. The caller must be a pending approver.
// @Tags         decisions
// @Accept       json
// @Produce      json
// @Param        id path string true "Decision ID"
// @Param        request body governance.VerdictRequest false "Comment"
// @Success      200 {object} dto.Response{data=governance.DecisionResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /decisions/{id}/approve [post]
func (h *DecisionHandler) Approve(c *gin.Context) {
	h.verdict(c, h.decisions.Approve)
}

// Reject godoc
// @Summary      Reject decision
// @Tags         decisions
// @Accept       json
// @Produce      json
// @Param        id path string true "Decision ID"
// @Param        request body governance.VerdictRequest false "Comment"
// @Success      200 {object} dto.Response{data=governance.DecisionResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /decisions/{id}/reject [post]
func (h *DecisionHandler) Reject(c *gin.Context) {
	h.verdict(c, h.decisions.Reject)
}

func (h *DecisionHandler) verdict(c *gin.Context, fn func(ctx context.Context, tenantID, id, approverID uuid.UUID, req governance.VerdictRequest) (*governance.DecisionResponse, error)) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req governance.VerdictRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	decision, err := fn(c.Request.Context(), who.TenantID, id, who.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, decision)
}

// Delete godoc
// @Summary      Delete decision
// @Tags         decisions
// @Param        id path string true "Decision ID"
// @Success      204
// @Security     BearerAuth
// @Router       /decisions/{id} [delete]
func (h *DecisionHandler) Delete(c *gin.Context) {
	handleDelete(&h.BaseHandler, c, h.decisions.Delete)
}
