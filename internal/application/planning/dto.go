package planning

import (
	"time"

	"github.com/derbent/backend/internal/application/listing"
	"github.com/derbent/backend/internal/domain/planning"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ActivityFields are the editable fields of an activity
type ActivityFields struct {
	Name               string           `json:"name" binding:"required,min=1,max=200"`
	Description        string           `json:"description" binding:"max=4000"`
	AssignedToID       *uuid.UUID       `json:"assigned_to_id"`
	ParentID           *uuid.UUID       `json:"parent_id"`
	Priority           string           `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	StartDate          *time.Time       `json:"start_date"`
	DueDate            *time.Time       `json:"due_date"`
	EstimatedHours     *decimal.Decimal `json:"estimated_hours"`
	ActualHours        *decimal.Decimal `json:"actual_hours"`
	RemainingHours     *decimal.Decimal `json:"remaining_hours"`
	EstimatedCost      *decimal.Decimal `json:"estimated_cost"`
	ActualCost         *decimal.Decimal `json:"actual_cost"`
	HourlyRate         *decimal.Decimal `json:"hourly_rate"`
	Progress           int              `json:"progress" binding:"min=0,max=100"`
	StoryPoints        int              `json:"story_points" binding:"min=0"`
	AcceptanceCriteria string           `json:"acceptance_criteria" binding:"max=4000"`
	Notes              string           `json:"notes" binding:"max=4000"`
	Results            string           `json:"results" binding:"max=4000"`
}

// CreateActivityRequest represents a request to create an activity
type CreateActivityRequest struct {
	ProjectID uuid.UUID `json:"project_id" binding:"required"`
	ActivityFields
}

// UpdateActivityRequest represents a request to update an activity
type UpdateActivityRequest struct {
	ActivityFields
}

// ActivityListFilter represents filter options for the activity list
type ActivityListFilter struct {
	listing.Query
	ProjectID    string `form:"project_id" binding:"omitempty,uuid"`
	StatusID     string `form:"status_id" binding:"omitempty,uuid"`
	AssignedToID string `form:"assigned_to_id" binding:"omitempty,uuid"`
	ParentID     string `form:"parent_id" binding:"omitempty,uuid"`
	Priority     string `form:"priority" binding:"omitempty,oneof=low medium high critical"`
}

// ActivityResponse represents an activity in API responses
type ActivityResponse struct {
	ID                 uuid.UUID       `json:"id"`
	ProjectID          uuid.UUID       `json:"project_id"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	AssignedToID       *uuid.UUID      `json:"assigned_to_id,omitempty"`
	WorkflowID         *uuid.UUID      `json:"workflow_id,omitempty"`
	StatusID           *uuid.UUID      `json:"status_id,omitempty"`
	ParentID           *uuid.UUID      `json:"parent_id,omitempty"`
	Priority           string          `json:"priority"`
	StartDate          *time.Time      `json:"start_date,omitempty"`
	DueDate            *time.Time      `json:"due_date,omitempty"`
	CompletionDate     *time.Time      `json:"completion_date,omitempty"`
	EstimatedHours     decimal.Decimal `json:"estimated_hours"`
	ActualHours        decimal.Decimal `json:"actual_hours"`
	RemainingHours     decimal.Decimal `json:"remaining_hours"`
	EstimatedCost      decimal.Decimal `json:"estimated_cost"`
	ActualCost         decimal.Decimal `json:"actual_cost"`
	HourlyRate         decimal.Decimal `json:"hourly_rate"`
	CostVariance       decimal.Decimal `json:"cost_variance"`
	TimeVariance       decimal.Decimal `json:"time_variance"`
	Progress           int             `json:"progress"`
	StoryPoints        int             `json:"story_points"`
	AcceptanceCriteria string          `json:"acceptance_criteria"`
	Notes              string          `json:"notes"`
	Results            string          `json:"results"`
	IsCompleted        bool            `json:"is_completed"`
	IsOverdue          bool            `json:"is_overdue"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int             `json:"version"`
}

// ToActivityResponse converts a domain Activity to ActivityResponse
func ToActivityResponse(a *planning.Activity, final planning.FinalStatuses, now time.Time) ActivityResponse {
	return ActivityResponse{
		ID:                 a.ID,
		ProjectID:          a.ProjectID,
		Name:               a.Name,
		Description:        a.Description,
		AssignedToID:       a.AssignedToID,
		WorkflowID:         a.WorkflowID,
		StatusID:           a.StatusID,
		ParentID:           a.ParentID,
		Priority:           string(a.Priority),
		StartDate:          a.StartDate,
		DueDate:            a.DueDate,
		CompletionDate:     a.CompletionDate,
		EstimatedHours:     a.EstimatedHours,
		ActualHours:        a.ActualHours,
		RemainingHours:     a.RemainingHours,
		EstimatedCost:      a.EstimatedCost,
		ActualCost:         a.ActualCost,
		HourlyRate:         a.HourlyRate,
		CostVariance:       a.CostVariance(),
		TimeVariance:       a.TimeVariance(),
		Progress:           a.Progress,
		StoryPoints:        a.StoryPoints,
		AcceptanceCriteria: a.AcceptanceCriteria,
		Notes:              a.Notes,
		Results:            a.Results,
		IsCompleted:        a.IsCompleted(final),
		IsOverdue:          a.IsOverdue(now, final),
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
		Version:            a.Version,
	}
}

// MeetingFields are the editable fields of a meeting
type MeetingFields struct {
	Name              string      `json:"name" binding:"required,min=1,max=200"`
	Description       string      `json:"description" binding:"max=4000"`
	AssignedToID      *uuid.UUID  `json:"assigned_to_id"`
	StartAt           *time.Time  `json:"start_at"`
	EndAt             *time.Time  `json:"end_at"`
	Location          string      `json:"location" binding:"max=500"`
	Agenda            string      `json:"agenda" binding:"max=4000"`
	Minutes           string      `json:"minutes" binding:"max=10000"`
	AttendeeIDs       []uuid.UUID `json:"attendee_ids"`
	RelatedActivityID *uuid.UUID  `json:"related_activity_id"`
}

// CreateMeetingRequest represents a request to create a meeting
type CreateMeetingRequest struct {
	ProjectID uuid.UUID `json:"project_id" binding:"required"`
	MeetingFields
}

// UpdateMeetingRequest represents a request to update a meeting
type UpdateMeetingRequest struct {
	MeetingFields
}

// MeetingListFilter represents filter options for the meeting list
type MeetingListFilter struct {
	listing.Query
	ProjectID string     `form:"project_id" binding:"omitempty,uuid"`
	StatusID  string     `form:"status_id" binding:"omitempty,uuid"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
}

// MeetingResponse represents a meeting in API responses
type MeetingResponse struct {
	ID                uuid.UUID   `json:"id"`
	ProjectID         uuid.UUID   `json:"project_id"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	AssignedToID      *uuid.UUID  `json:"assigned_to_id,omitempty"`
	WorkflowID        *uuid.UUID  `json:"workflow_id,omitempty"`
	StatusID          *uuid.UUID  `json:"status_id,omitempty"`
	StartAt           *time.Time  `json:"start_at,omitempty"`
	EndAt             *time.Time  `json:"end_at,omitempty"`
	Location          string      `json:"location"`
	Agenda            string      `json:"agenda"`
	Minutes           string      `json:"minutes"`
	AttendeeIDs       []uuid.UUID `json:"attendee_ids"`
	RelatedActivityID *uuid.UUID  `json:"related_activity_id,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
	Version           int         `json:"version"`
}

// ToMeetingResponse converts a domain Meeting to MeetingResponse
func ToMeetingResponse(m *planning.Meeting) MeetingResponse {
	return MeetingResponse{
		ID:                m.ID,
		ProjectID:         m.ProjectID,
		Name:              m.Name,
		Description:       m.Description,
		AssignedToID:      m.AssignedToID,
		WorkflowID:        m.WorkflowID,
		StatusID:          m.StatusID,
		StartAt:           m.StartAt,
		EndAt:             m.EndAt,
		Location:          m.Location,
		Agenda:            m.Agenda,
		Minutes:           m.Minutes,
		AttendeeIDs:       m.AttendeeIDs,
		RelatedActivityID: m.RelatedActivityID,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
		Version:           m.Version,
	}
}

// SprintFields are the editable fields of a sprint
type SprintFields struct {
	Name               string    `json:"name" binding:"required,min=1,max=200"`
	Goal               string    `json:"goal" binding:"max=2000"`
	StartDate          time.Time `json:"start_date" binding:"required"`
	EndDate            time.Time `json:"end_date" binding:"required"`
	DefinitionOfDone   string    `json:"definition_of_done" binding:"max=4000"`
	RetrospectiveNotes string    `json:"retrospective_notes" binding:"max=4000"`
}

// CreateSprintRequest represents a request to create a sprint
type CreateSprintRequest struct {
	ProjectID uuid.UUID `json:"project_id" binding:"required"`
	SprintFields
}

// UpdateSprintRequest represents a request to update a sprint
type UpdateSprintRequest struct {
	SprintFields
}

// SprintListFilter represents filter options for the sprint list
type SprintListFilter struct {
	listing.Query
	ProjectID string `form:"project_id" binding:"omitempty,uuid"`
}

// AddSprintItemRequest plans an activity or meeting into a sprint
type AddSprintItemRequest struct {
	ItemType    string    `json:"item_type" binding:"required,oneof=activity meeting"`
	ItemID      uuid.UUID `json:"item_id" binding:"required"`
	StoryPoints int       `json:"story_points" binding:"min=0"`
}

// SprintItemResponse represents a sprint item in API responses
type SprintItemResponse struct {
	ID          uuid.UUID `json:"id"`
	ItemType    string    `json:"item_type"`
	ItemID      uuid.UUID `json:"item_id"`
	StoryPoints int       `json:"story_points"`
	ItemOrder   int       `json:"item_order"`
	Completed   bool      `json:"completed"`
}

// SprintResponse represents a sprint in API responses
type SprintResponse struct {
	ID                 uuid.UUID            `json:"id"`
	ProjectID          uuid.UUID            `json:"project_id"`
	Name               string               `json:"name"`
	Goal               string               `json:"goal"`
	StartDate          time.Time            `json:"start_date"`
	EndDate            time.Time            `json:"end_date"`
	DefinitionOfDone   string               `json:"definition_of_done"`
	RetrospectiveNotes string               `json:"retrospective_notes"`
	Velocity           int                  `json:"velocity"`
	Progress           int                  `json:"progress"`
	IsActive           bool                 `json:"is_active"`
	IsCompleted        bool                 `json:"is_completed"`
	Items              []SprintItemResponse `json:"items"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
	Version            int                  `json:"version"`
}

// ToSprintResponse converts a domain Sprint to SprintResponse. completed
// holds the IDs of the finished items.
func ToSprintResponse(s *planning.Sprint, completed planning.ItemSet, now time.Time) SprintResponse {
	items := make([]SprintItemResponse, len(s.Items))
	for i, it := range s.Items {
		items[i] = SprintItemResponse{
			ID:          it.ID,
			ItemType:    string(it.ItemType),
			ItemID:      it.ItemID,
			StoryPoints: it.StoryPoints,
			ItemOrder:   it.ItemOrder,
			Completed:   completed[it.ItemID],
		}
	}
	return SprintResponse{
		ID:                 s.ID,
		ProjectID:          s.ProjectID,
		Name:               s.Name,
		Goal:               s.Goal,
		StartDate:          s.StartDate,
		EndDate:            s.EndDate,
		DefinitionOfDone:   s.DefinitionOfDone,
		RetrospectiveNotes: s.RetrospectiveNotes,
		Velocity:           s.Velocity,
		Progress:           s.Progress(completed),
		IsActive:           s.IsActive(now),
		IsCompleted:        s.IsCompleted(now),
		Items:              items,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
		Version:            s.Version,
	}
}

// TimelineQuery positions the Gantt window. Zero values show the full
// project range.
type TimelineQuery struct {
	Start  *time.Time `form:"start" time_format:"2006-01-02"`
	End    *time.Time `form:"end" time_format:"2006-01-02"`
	Zoom   float64    `form:"zoom" binding:"omitempty,gt=0,lte=10"`
	Scroll int        `form:"scroll" binding:"omitempty,min=-100,max=100"`
	Scale  string     `form:"scale" binding:"omitempty,oneof=auto week month quarter year"`
}

// TimelineResponse is the Gantt chart of one project
type TimelineResponse struct {
	ProjectID     uuid.UUID               `json:"project_id"`
	Window        planning.TimelineWindow `json:"window"`
	DurationDays  int                     `json:"duration_days"`
	ResolvedScale planning.Scale          `json:"resolved_scale"`
	Items         []planning.TimelineItem `json:"items"`
	Unscheduled   []planning.TimelineItem `json:"unscheduled"`
}
