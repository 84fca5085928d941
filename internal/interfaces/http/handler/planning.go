package handler

import (
	"context"

	"github.com/derbent/backend/internal/application/planning"
	workflowapp "github.com/derbent/backend/internal/application/workflow"
	"github.com/derbent/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActivityService is the activity use cases behind ActivityHandler
type ActivityService interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req planning.CreateActivityRequest) (*planning.ActivityResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*planning.ActivityResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter planning.ActivityListFilter) ([]planning.ActivityResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req planning.UpdateActivityRequest) (*planning.ActivityResponse, error)
	ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, role identity.Role, req workflowapp.ChangeStatusRequest) (*planning.ActivityResponse, error)
	NextStatuses(ctx context.Context, tenantID, id uuid.UUID, role identity.Role) ([]workflowapp.StatusOption, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// ActivityHandler serves the activity list and detail views
type ActivityHandler struct {
	BaseHandler
	pageView
	activities ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activities ActivityService, layout LayoutService) *ActivityHandler {
	return &ActivityHandler{activities: activities, pageView: pageView{layout: layout}}
}

// Create godoc
// @Summary      Create activity
// @Description  The activity starts in the initial status of the default activity workflow
// @Tags         activities
// @Accept       json
// @Produce      json
// @Param        request body planning.CreateActivityRequest true "Activity"
// @Success      201 {object} dto.Response{data=planning.ActivityResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /activities [post]
func (h *ActivityHandler) Create(c *gin.Context) {
	handleCreate(&h.BaseHandler, c, h.activities.Create)
}

// Get godoc
// @Summary      Get activity
// @Tags         activities
// @Produce      json
// @Param        id path string true "Activity ID"
// @Success      200 {object} dto.Response{data=planning.ActivityResponse,meta=dto.Meta}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /activities/{id} [get]
func (h *ActivityHandler) Get(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	activity, err := h.activities.GetByID(c.Request.Context(), who.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.pageData(c, who, activity)
}

// List godoc
// @Summary      List activities
// @Tags         activities
// @Produce      json
// @Param        project_id query string false "Project ID"
// @Param        status_id query string false "Status ID"
// @Param        assigned_to_id query string false "Assignee"
// @Param        parent_id query string false "Parent activity"
// @Param        priority query string false "low, medium, high or critical"
// @Param        search query string false "Name"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]planning.ActivityResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	var filter planning.ActivityListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.activities.List(c.Request.Context(), who.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.pageList(c, who, items, total, filter.Query)
}

// Update godoc
// @Summary      Update activity
// @Tags         activities
// @Accept       json
// @Produce      json
// @Param        id path string true "Activity ID"
// @Param        request body planning.UpdateActivityRequest true "Activity"
// @Success      200 {object} dto.Response{data=planning.ActivityResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /activities/{id} [put]
func (h *ActivityHandler) Update(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.activities.Update)
}

// ChangeStatus godoc
// @Summary      Change activity status
// @Description  The target must be allowed by the workflow for the caller's role. A final status completes the activity.
// @Tags         activities
// @Accept       json
// @Produce      json
// @Param        id path string true "Activity ID"
// @Param        request body workflow.ChangeStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=planning.ActivityResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /activities/{id}/status [put]
func (h *ActivityHandler) ChangeStatus(c *gin.Context) {
	handleChangeStatus(&h.BaseHandler, c, h.activities.ChangeStatus)
}

// NextStatuses godoc
// @Summary      Allowed next statuses
// @Tags         activities
// @Produce      json
// @Param        id path string true "Activity ID"
// @Success      200 {object} dto.Response{data=[]workflow.StatusOption}
// @Security     BearerAuth
// @Router       /activities/{id}/next-statuses [get]
func (h *ActivityHandler) NextStatuses(c *gin.Context) {
	handleNextStatuses(&h.BaseHandler, c, h.activities.NextStatuses)
}

// Delete godoc
// @Summary      Delete activity
// @Tags         activities
// @Param        id path string true "Activity ID"
// @Success      204
// @Security     BearerAuth
// @Router       /activities/{id} [delete]
func (h *ActivityHandler) Delete(c *gin.Context) {
	handleDelete(&h.BaseHandler, c, h.activities.Delete)
}

// MeetingService is the meeting use cases behind MeetingHandler
type MeetingService interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req planning.CreateMeetingRequest) (*planning.MeetingResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*planning.MeetingResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter planning.MeetingListFilter) ([]planning.MeetingResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req planning.UpdateMeetingRequest) (*planning.MeetingResponse, error)
	ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, role identity.Role, req workflowapp.ChangeStatusRequest) (*planning.MeetingResponse, error)
	NextStatuses(ctx context.Context, tenantID, id uuid.UUID, role identity.Role) ([]workflowapp.StatusOption, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// MeetingHandler serves the meeting list and detail views
type MeetingHandler struct {
	BaseHandler
	pageView
	meetings MeetingService
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(meetings MeetingService, layout LayoutService) *MeetingHandler {
	return &MeetingHandler{meetings: meetings, pageView: pageView{layout: layout}}
}

// Create godoc
// @Summary      Create meeting
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        request body planning.CreateMeetingRequest true "Meeting"
// @Success      201 {object} dto.Response{data=planning.MeetingResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /meetings [post]
func (h *MeetingHandler) Create(c *gin.Context) {
	handleCreate(&h.BaseHandler, c, h.meetings.Create)
}

// Get godoc
// @Summary      Get meeting
// @Tags         meetings
// @Produce      json
// @Param        id path string true "Meeting ID"
// @Success      200 {object} dto.Response{data=planning.MeetingResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /meetings/{id} [get]
func (h *MeetingHandler) Get(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	meeting, err := h.meetings.GetByID(c.Request.Context(), who.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.pageData(c, who, meeting)
}

// List godoc
// @Summary      List meetings
// @Tags         meetings
// @Produce      json
// @Param        project_id query string false "Project ID"
// @Param        status_id query string false "Status ID"
// @Param        from query string false "Starting on or after (YYYY-MM-DD)"
// @Param        to query string false "Starting on or before (YYYY-MM-DD)"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]planning.MeetingResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /meetings [get]
func (h *MeetingHandler) List(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	var filter planning.MeetingListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.meetings.List(c.Request.Context(), who.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.pageList(c, who, items, total, filter.Query)
}

// Update godoc
// @Summary      Update meeting
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        id path string true "Meeting ID"
// @Param        request body planning.UpdateMeetingRequest true "Meeting"
// @Success      200 {object} dto.Response{data=planning.MeetingResponse}
// @Security     BearerAuth
// @Router       /meetings/{id} [put]
func (h *MeetingHandler) Update(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.meetings.Update)
}

// ChangeStatus godoc
// @Summary      Change meeting status
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        id path string true "Meeting ID"
// @Param        request body workflow.ChangeStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=planning.MeetingResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /meetings/{id}/status [put]
func (h *MeetingHandler) ChangeStatus(c *gin.Context) {
	handleChangeStatus(&h.BaseHandler, c, h.meetings.ChangeStatus)
}

// NextStatuses godoc
// @Summary      Allowed next statuses
// @Tags         meetings
// @Produce      json
// @Param        id path string true "Meeting ID"
// @Success      200 {object} dto.Response{data=[]workflow.StatusOption}
// @Security     BearerAuth
// @Router       /meetings/{id}/next-statuses [get]
func (h *MeetingHandler) NextStatuses(c *gin.Context) {
	handleNextStatuses(&h.BaseHandler, c, h.meetings.NextStatuses)
}

// Delete godoc
// @Summary      Delete meeting
// @Tags         meetings
// @Param        id path string true "Meeting ID"
// @Success      204
// @Security     BearerAuth
// @Router       /meetings/{id} [delete]
func (h *MeetingHandler) Delete(c *gin.Context) {
	handleDelete(&h.BaseHandler, c, h.meetings.Delete)
}

// SprintService is the sprint use cases behind SprintHandler
type SprintService interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req planning.CreateSprintRequest) (*planning.SprintResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*planning.SprintResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter planning.SprintListFilter) ([]planning.SprintResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req planning.UpdateSprintRequest) (*planning.SprintResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	AddItem(ctx context.Context, tenantID, sprintID uuid.UUID, req planning.AddSprintItemRequest) (*planning.SprintResponse, error)
	RemoveItem(ctx context.Context, tenantID, sprintID, itemID uuid.UUID) (*planning.SprintResponse, error)
}

// SprintHandler handles sprint endpoints
type SprintHandler struct {
	BaseHandler
	sprints SprintService
}

// NewSprintHandler creates a new sprint handler
func NewSprintHandler(sprints SprintService) *SprintHandler {
	return &SprintHandler{sprints: sprints}
}

// Create godoc
// @Summary      Create sprint
// @Tags         sprints
// @Accept       json
// @Produce      json
// @Param        request body planning.CreateSprintRequest true "Sprint"
// @Success      201 {object} dto.Response{data=planning.SprintResponse}
// @Security     BearerAuth
// @Router       /sprints [post]
func (h *SprintHandler) Create(c *gin.Context) {
	handleCreate(&h.BaseHandler, c, h.sprints.Create)
}

// Get godoc
// @Summary      Get sprint
// @Description  Includes the sprint items and the derived story point totals
// @Tags         sprints
// @Produce      json
// @Param        id path string true "Sprint ID"
// @Success      200 {object} dto.Response{data=planning.SprintResponse}
// @Security     BearerAuth
// @Router       /sprints/{id} [get]
func (h *SprintHandler) Get(c *gin.Context) {
	handleGet(&h.BaseHandler, c, h.sprints.GetByID)
}

// List godoc
// @Summary      List sprints
// @Tags         sprints
// @Produce      json
// @Param        project_id query string false "Project ID"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]planning.SprintResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /sprints [get]
func (h *SprintHandler) List(c *gin.Context) {
	handleList(&h.BaseHandler, c, h.sprints.List)
}

// Update godoc
// @Summary      Update sprint
// @Tags         sprints
// @Accept       json
// @Produce      json
// @Param        id path string true "Sprint ID"
// @Param        request body planning.UpdateSprintRequest true "Sprint"
// @Success      200 {object} dto.Response{data=planning.SprintResponse}
// @Security     BearerAuth
// @Router       /sprints/{id} [put]
func (h *SprintHandler) Update(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.sprints.Update)
}

// Delete godoc
// @Summary      Delete sprint
// @Tags         sprints
// @Param        id path string true "Sprint ID"
// @Success      204
// @Security     BearerAuth
// @Router       /sprints/{id} [delete]
func (h *SprintHandler) Delete(c *gin.Context) {
	handleDelete(&h.BaseHandler, c, h.sprints.Delete)
}

// AddItem godoc
// @Summary      Add item to sprint
// @Description  The item must be an activity or meeting of the sprint's project
// @Tags         sprints
// @Accept       json
// @Produce      json
// @Param        id path string true "Sprint ID"
// @Param        request body planning.AddSprintItemRequest true "Item"
// @Success      200 {object} dto.Response{data=planning.SprintResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sprints/{id}/items [post]
func (h *SprintHandler) AddItem(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.sprints.AddItem)
}

// RemoveItem godoc
// @Summary      Remove item from sprint
// @Tags         sprints
// @Produce      json
// @Param        id path string true "Sprint ID"
// @Param        itemId path string true "Sprint item ID"
// @Success      200 {object} dto.Response{data=planning.SprintResponse}
// @Security     BearerAuth
// @Router       /sprints/{id}/items/{itemId} [delete]
func (h *SprintHandler) RemoveItem(c *gin.Context) {
	handleChildAction(&h.BaseHandler, c, "itemId", h.sprints.RemoveItem)
}

// TimelineService builds the gantt view of a project
type TimelineService interface {
	GetProjectTimeline(ctx context.Context, tenantID, projectID uuid.UUID, q planning.TimelineQuery) (*planning.TimelineResponse, error)
}

// TimelineHandler serves the project gantt timeline
type TimelineHandler struct {
	BaseHandler
	pageView
	timeline TimelineService
}

// NewTimelineHandler creates a new timeline handler
func NewTimelineHandler(timeline TimelineService, layout LayoutService) *TimelineHandler {
	return &TimelineHandler{timeline: timeline, pageView: pageView{layout: layout}}
}

// Get godoc
// @Summary      Project timeline
// @Description  Gantt rows for the project's activities and meetings. Without start and end the window fits the items.
// @Tags         timeline
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        start query string false "Window start (YYYY-MM-DD)"
// @Param        end query string false "Window end (YYYY-MM-DD)"
// @Param        zoom query number false "Zoom factor, 1 keeps the window"
// @Param        scroll query int false "Number of scroll steps of 30% of the window each, negative moves back"
// @Param        scale query string false "auto, week, month, quarter or year"
// @Success      200 {object} dto.Response{data=planning.TimelineResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /projects/{id}/timeline [get]
func (h *TimelineHandler) Get(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	projectID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var q planning.TimelineQuery
	if !h.bindQuery(c, &q) {
		return
	}
	timeline, err := h.timeline.GetProjectTimeline(c.Request.Context(), who.TenantID, projectID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.pageData(c, who, timeline)
}
