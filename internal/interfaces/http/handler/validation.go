package handler

import (
	"context"

	"github.com/derbent/backend/internal/application/validation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CaseService is the validation case use cases
type CaseService interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req validation.CreateCaseRequest) (*validation.CaseResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*validation.CaseResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter validation.CaseListFilter) ([]validation.CaseResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req validation.UpdateCaseRequest) (*validation.CaseResponse, error)
	AddStep(ctx context.Context, tenantID, id uuid.UUID, req validation.StepRequest) (*validation.CaseResponse, error)
	UpdateStep(ctx context.Context, tenantID, id, stepID uuid.UUID, req validation.StepRequest) (*validation.CaseResponse, error)
	RemoveStep(ctx context.Context, tenantID, id, stepID uuid.UUID) (*validation.CaseResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// CaseHandler handles validation case endpoints
type CaseHandler struct {
	BaseHandler
	cases CaseService
}

// NewCaseHandler creates a new validation case handler
func NewCaseHandler(cases CaseService) *CaseHandler {
	return &CaseHandler{cases: cases}
}

// Create godoc
// @Summary      Create validation case
// @Tags         validation
// @Accept       json
// @Produce      json
// @Param        request body validation.CreateCaseRequest true "Case"
// @Success      201 {object} dto.Response{data=validation.CaseResponse}
// @Security     BearerAuth
// @Router       /validation/cases [post]
func (h *CaseHandler) Create(c *gin.Context) {
	handleCreate(&h.BaseHandler, c, h.cases.Create)
}

// Get godoc
// @Summary      Get validation case
// @Tags         validation
// @Produce      json
// @Param        id path string true "Case ID"
// @Success      200 {object} dto.Response{data=validation.CaseResponse}
// @Security     BearerAuth
// @Router       /validation/cases/{id} [get]
func (h *CaseHandler) Get(c *gin.Context) {
	handleGet(&h.BaseHandler, c, h.cases.GetByID)
}

// List godoc
// @Summary      List validation cases
// @Tags         validation
// @Produce      json
// @Param        project_id query string false "Project ID"
// @Param        priority query string false "low, medium, high or critical"
// @Success      200 {object} dto.Response{data=[]validation.CaseResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /validation/cases [get]
func (h *CaseHandler) List(c *gin.Context) {
	handleList(&h.BaseHandler, c, h.cases.List)
}

// Update godoc
// @Summary      Update validation case
// @Tags         validation
// @Accept       json
// @Produce      json
// @Param        id path string true "Case ID"
// @Param        request body validation.UpdateCaseRequest true "Case"
// @Success      200 {object} dto.Response{data=validation.CaseResponse}
// @Security     BearerAuth
// @Router       /validation/cases/{id} [put]
func (h *CaseHandler) Update(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.cases.Update)
}

// AddStep godoc
// @Summary      Append step
// @Tags         validation
// @Accept       json
// @Produce      json
// @Param        id path string true "Case ID"
// @Param        request body validation.StepRequest true "Step"
// @Success      200 {object} dto.Response{data=validation.CaseResponse}
// @Security     BearerAuth
// @Router       /validation/cases/{id}/steps [post]
func (h *CaseHandler) AddStep(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.cases.AddStep)
}

// UpdateStep godoc
// @Summary      Update step
// @Tags         validation
// @Accept       json
// @Produce      json
// @Param        id path string true "Case ID"
// @Param        stepId path string true "Step ID"
// @Param        request body validation.StepRequest true "Step"
// @Success      200 {object} dto.Response{data=validation.CaseResponse}
// @Security     BearerAuth
// @Router       /validation/cases/{id}/steps/{stepId} [put]
func (h *CaseHandler) UpdateStep(c *gin.Context) {
	handleChildUpdate(&h.BaseHandler, c, "stepId", h.cases.UpdateStep)
}

// RemoveStep godoc
// @Summary      Remove step
// @Description  Remaining steps are renumbered
// @Tags         validation
// @Produce      json
// @Param        id path string true "Case ID"
// @Param        stepId path string true "Step ID"
// @Success      200 {object} dto.Response{data=validation.CaseResponse}
// @Security     BearerAuth
// @Router       /validation/cases/{id}/steps/{stepId} [delete]
func (h *CaseHandler) RemoveStep(c *gin.Context) {
	handleChildAction(&h.BaseHandler, c, "stepId", h.cases.RemoveStep)
}

// Delete godoc
// @Summary      Delete validation case
// @Tags         validation
// @Param        id path string true "Case ID"
// @Success      204
// @Security     BearerAuth
// @Router       /validation/cases/{id} [delete]
func (h *CaseHandler) Delete(c *gin.Context) {
	handleDelete(&h.BaseHandler, c, h.cases.Delete)
}

// SuiteService is the validation suite use cases
type SuiteService interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req validation.CreateSuiteRequest) (*validation.SuiteResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*validation.SuiteResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter validation.SuiteListFilter) ([]validation.SuiteResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req validation.UpdateSuiteRequest) (*validation.SuiteResponse, error)
	AddCase(ctx context.Context, tenantID, id, caseID uuid.UUID) (*validation.SuiteResponse, error)
	RemoveCase(ctx context.Context, tenantID, id, caseID uuid.UUID) (*validation.SuiteResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// SuiteHandler handles validation suite endpoints
type SuiteHandler struct {
	BaseHandler
	suites SuiteService
}

// NewSuiteHandler creates a new validation suite handler
func NewSuiteHandler(suites SuiteService) *SuiteHandler {
	return &SuiteHandler{suites: suites}
}

// @Summary      Create validation suite
// @Tags         validation
// @Accept       json
// @Produce      json
// @Param        request body validation.CreateSuiteRequest true "Suite"
// @Success      201 {object} dto.Response{data=validation.SuiteResponse}
// @Security     BearerAuth
// @Router       /validation/suites [post]
func (h *SuiteHandler) Create(c *gin.Context) {
	handleCreate(&h.BaseHandler, c, h.suites.Create)
}

// @Summary      Get validation suite
// @Tags         validation
// @Produce      json
// @Param        id path string true "Suite ID"
// @Success      200 {object} dto.Response{data=validation.SuiteResponse}
// @Security     BearerAuth
// @Router       /validation/suites/{id} [get]
func (h *SuiteHandler) Get(c *gin.Context) {
	handleGet(&h.BaseHandler, c, h.suites.GetByID)
}

// @Summary      List validation suites
// @Tags         validation
// @Produce      json
// @Param        project_id query string false "Project ID"
// @Success      200 {object} dto.Response{data=[]validation.SuiteResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /validation/suites [get]
func (h *SuiteHandler) List(c *gin.Context) {
	handleList(&h.BaseHandler, c, h.suites.List)
}

// @Summary      Update validation suite
// @Tags         validation
// @Accept       json
// @Produce      json
// @Param        id path string true "Suite ID"
// @Param        request body validation.UpdateSuiteRequest true "Suite"
// @Success      200 {object} dto.Response{data=validation.SuiteResponse}
// @Security     BearerAuth
// @Router       /validation/suites/{id} [put]
func (h *SuiteHandler) Update(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.suites.Update)
}

// @Summary      Add case to suite
// @Description  The case must belong to the suite's project
// @Tags         validation
// @Produce      json
// @Param        id path string true "Suite ID"
// @Param        caseId path string true "Case ID"
// @Success      200 {object} dto.Response{data=validation.SuiteResponse}
// @Security     BearerAuth
// @Router       /validation/suites/{id}/cases/{caseId} [put]
func (h *SuiteHandler) AddCase(c *gin.Context) {
	handleChildAction(&h.BaseHandler, c, "caseId", h.suites.AddCase)
}

// @Summary      Remove case from suite
// @Tags         validation
// @Produce      json
// @Param        id path string true "Suite ID"
// @Param        caseId path string true "Case ID"
// @Success      200 {object} dto.Response{data=validation.SuiteResponse}
// @Security     BearerAuth
// @Router       /validation/suites/{id}/cases/{caseId} [delete]
func (h *SuiteHandler) RemoveCase(c *gin.Context) {
	handleChildAction(&h.BaseHandler, c, "caseId", h.suites.RemoveCase)
}

// @Summary      Delete validation suite
// @Tags         validation
// @Param        id path string true "Suite ID"
// @Success      204
// @Security     BearerAuth
// @Router       /validation/suites/{id} [delete]
func (h *SuiteHandler) Delete(c *gin.Context) {
	handleDelete(&h.BaseHandler, c, h.suites.Delete)
}

// SessionService is the validation session use cases
type SessionService interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req validation.CreateSessionRequest) (*validation.SessionResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*validation.SessionResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter validation.SessionListFilter) ([]validation.SessionResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req validation.UpdateSessionRequest) (*validation.SessionResponse, error)
	Execute(ctx context.Context, tenantID, id, executedBy uuid.UUID) (*validation.SessionResponse, error)
	RecordCaseResult(ctx context.Context, tenantID, id, caseID uuid.UUID, req validation.RecordCaseResultRequest) (*validation.SessionResponse, error)
	RecordStepResult(ctx context.Context, tenantID, id, caseID, stepID uuid.UUID, req validation.RecordStepResultRequest) (*validation.SessionResponse, error)
	Complete(ctx context.Context, tenantID, id uuid.UUID) (*validation.SessionResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// SessionHandler handles validation session endpoints
type SessionHandler struct {
	BaseHandler
	sessions SessionService
}

// NewSessionHandler creates a new validation session handler
func NewSessionHandler(sessions SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Create godoc
// @Summary      Plan validation session
// @Tags         validation
// @Accept       json
// @Produce      json
// @Param        request body validation.CreateSessionRequest true "Session"
// @Success      201 {object} dto.Response{data=validation.SessionResponse}
// @Security     BearerAuth
// @Router       /validation/sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	handleCreate(&h.BaseHandler, c, h.sessions.Create)
}

// Get godoc
// @Summary      Get validation session
// @Tags         validation
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.Response{data=validation.SessionResponse}
// @Security     BearerAuth
// @Router       /validation/sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	handleGet(&h.BaseHandler, c, h.sessions.GetByID)
}

// List godoc
// @Summary      List validation sessions
// @Tags         validation
// @Produce      json
// @Param        project_id query string false "Project ID"
// @Param        suite_id query string false "Suite ID"
// @Param        result query string false "not_executed, passed, failed or partial"
// @Success      200 {object} dto.Response{data=[]validation.SessionResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /validation/sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	handleList(&h.BaseHandler, c, h.sessions.List)
}

// Update godoc
// @Summary      Update session run information
// @Tags         validation
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body validation.UpdateSessionRequest true "Session"
// @Success      200 {object} dto.Response{data=validation.SessionResponse}
// @Security     BearerAuth
// @Router       /validation/sessions/{id} [put]
func (h *SessionHandler) Update(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.sessions.Update)
}

// Execute godoc
// @Summary      Start session
// @Description  Snapshots the suite's cases into not-executed results. The caller is recorded as executor.
// @Tags         validation
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.Response{data=validation.SessionResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /validation/sessions/{id}/execute [post]
func (h *SessionHandler) Execute(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	session, err := h.sessions.Execute(c.Request.Context(), who.TenantID, id, who.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// RecordCaseResult godoc
// @Summary      Record case result
// @Tags         validation
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        caseId path string true "Case ID"
// @Param        request body validation.RecordCaseResultRequest true "Result"
// @Success      200 {object} dto.Response{data=validation.SessionResponse}
// @Security     BearerAuth
// @Router       /validation/sessions/{id}/cases/{caseId}/result [put]
func (h *SessionHandler) RecordCaseResult(c *gin.Context) {
	handleChildUpdate(&h.BaseHandler, c, "caseId", h.sessions.RecordCaseResult)
}

// RecordStepResult godoc
// @Summary      Record step result
// @Tags         validation
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        caseId path string true "Case ID"
// @Param        stepId path string true "Step ID"
// @Param        request body validation.RecordStepResultRequest true "Result"
// @Success      200 {object} dto.Response{data=validation.SessionResponse}
// @Security     BearerAuth
// @Router       /validation/sessions/{id}/cases/{caseId}/steps/{stepId}/result [put]
func (h *SessionHandler) RecordStepResult(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	caseID, ok := h.pathID(c, "caseId")
	if !ok {
		return
	}
	stepID, ok := h.pathID(c, "stepId")
	if !ok {
		return
	}
	var req validation.RecordStepResultRequest
	if !h.bindJSON(c, &req) {
		return
	}
	session, err := h.sessions.RecordStepResult(c.Request.Context(), who.TenantID, id, caseID, stepID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// Complete godoc
// @Summary      Complete session
// @Description  Derives the overall result from the case results
// @Tags         validation
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.Response{data=validation.SessionResponse}
// @Security     BearerAuth
// @Router       /validation/sessions/{id}/complete [post]
func (h *SessionHandler) Complete(c *gin.Context) {
	handleAction(&h.BaseHandler, c, h.sessions.Complete)
}

// Delete godoc
// @Summary      Delete validation session
// @Tags         validation
// @Param        id path string true "Session ID"
// @Success      204
// @Security     BearerAuth
// @Router       /validation/sessions/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	handleDelete(&h.BaseHandler, c, h.sessions.Delete)
}
