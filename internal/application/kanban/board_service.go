package kanban

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/kanban"
	"github.com/derbent/backend/internal/domain/planning"
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/settings"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/domain/workflow"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNoLine             = shared.NewDomainError("NO_KANBAN_LINE", "No Kanban line selected and no default line configured")
	ErrColumnNotFound     = shared.NewDomainError("COLUMN_NOT_FOUND", "Column does not belong to this line")
	ErrStatusChoiceNeeded = shared.NewDomainError("STATUS_CHOICE_REQUIRED", "Several statuses fit this column, choose one")
)

// StatusChoiceError is returned when a drop fits more than one status.
// It matches ErrStatusChoiceNeeded with errors.Is.
type StatusChoiceError struct {
	Candidates []workflow.ItemStatus
}

func (e *StatusChoiceError) Error() string {
	return fmt.Sprintf("%s (%d candidates)", ErrStatusChoiceNeeded.Message, len(e.Candidates))
}

func (e *StatusChoiceError) Unwrap() error { return ErrStatusChoiceNeeded }

// StatusGuard is the part of the workflow guard the board needs
type StatusGuard interface {
	ValidNextStatuses(ctx context.Context, tenantID uuid.UUID, entityType registry.EntityType, item shared.StatusAware, role identity.Role) ([]workflow.ItemStatus, error)
	StatusNames(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]string, error)
}

// ActivityMover applies a validated status change to an activity
type ActivityMover interface {
	MoveToStatus(ctx context.Context, activity *planning.Activity, statusID uuid.UUID, role identity.Role) error
}

// MeetingMover applies a validated status change to a meeting
type MeetingMover interface {
	MoveToStatus(ctx context.Context, meeting *planning.Meeting, statusID uuid.UUID, role identity.Role) error
}

// BoardService fills Kanban lines with a project's items and handles drops
type BoardService struct {
	lineRepo      kanban.LineRepository
	placementRepo kanban.PlacementRepository
	settingsRepo  settings.Repository
	activityRepo  planning.ActivityRepository
	meetingRepo   planning.MeetingRepository
	sprintRepo    planning.SprintRepository
	guard         StatusGuard
	activities    ActivityMover
	meetings      MeetingMover
	logger        *zap.Logger
	now           func() time.Time
}

// BoardDeps groups the collaborators of a BoardService
type BoardDeps struct {
	Lines      kanban.LineRepository
	Placements kanban.PlacementRepository
	Settings   settings.Repository
	Activities planning.ActivityRepository
	Meetings   planning.MeetingRepository
	Sprints    planning.SprintRepository
	Guard      StatusGuard
	ActivityMv ActivityMover
	MeetingMv  MeetingMover
}

// NewBoardService creates a new board service
func NewBoardService(deps BoardDeps, logger *zap.Logger) *BoardService {
	return &BoardService{
		lineRepo:      deps.Lines,
		placementRepo: deps.Placements,
		settingsRepo:  deps.Settings,
		activityRepo:  deps.Activities,
		meetingRepo:   deps.Meetings,
		sprintRepo:    deps.Sprints,
		guard:         deps.Guard,
		activities:    deps.ActivityMv,
		meetings:      deps.MeetingMv,
		logger:        logger,
		now:           time.Now,
	}
}

// GetBoard groups the project's items into the columns of a line. Without
// a sprint every activity of the project is shown; with one, only the
// sprint's items. A stored placement overrides the status mapping as long
// as its column still exists.
func (s *BoardService) GetBoard(ctx context.Context, tenantID uuid.UUID, q BoardQuery) (*Board, error) {
	line, err := s.resolveLine(ctx, tenantID, q.LineID)
	if err != nil {
		return nil, err
	}

	cards, err := s.loadCards(ctx, tenantID, q)
	if err != nil {
		return nil, err
	}

	placements, err := s.placementRepo.FindByLine(ctx, tenantID, line.ID)
	if err != nil {
		return nil, err
	}
	placed := make(map[uuid.UUID]uuid.UUID, len(placements))
	for _, p := range placements {
		placed[p.ItemID] = p.ColumnID
	}

	board := &Board{
		LineID:     line.ID,
		LineName:   line.Name,
		ProjectID:  q.ProjectID,
		SprintID:   q.SprintID,
		Columns:    make([]BoardColumn, len(line.Columns)),
		Unassigned: []Card{},
	}
	index := make(map[uuid.UUID]int, len(line.Columns))
	for i := range line.Columns {
		board.Columns[i] = BoardColumn{ColumnResponse: toColumnResponse(&line.Columns[i]), Cards: []Card{}}
		index[line.Columns[i].ID] = i
	}

	for _, card := range cards {
		col := line.ColumnForStatus(card.StatusID)
		if columnID, ok := placed[card.ID]; ok {
			if c := line.Column(columnID); c != nil {
				col = c
			}
		}
		if col == nil {
			board.Unassigned = append(board.Unassigned, card)
			continue
		}
		i := index[col.ID]
		board.Columns[i].Cards = append(board.Columns[i].Cards, card)
	}

	for i := range board.Columns {
		limit := board.Columns[i].WIPLimit
		board.Columns[i].OverLimit = limit > 0 && len(board.Columns[i].Cards) > limit
	}
	return board, nil
}

// MoveItem handles a card dropped into a column. The column's statuses
// that the workflow allows from the current status are the candidates:
// one candidate is applied, several need an explicit choice, none just
// records the placement.
func (s *BoardService) MoveItem(ctx context.Context, tenantID uuid.UUID, role identity.Role, req MoveItemRequest) (*MoveResult, error) {
	line, err := s.lineRepo.FindByIDForTenant(ctx, tenantID, req.LineID)
	if err != nil {
		return nil, err
	}
	column := line.Column(req.ColumnID)
	if column == nil {
		return nil, ErrColumnNotFound
	}

	entityType := registry.EntityType(req.ItemType)
	item, err := s.loadItem(ctx, tenantID, entityType, req.ItemID)
	if err != nil {
		return nil, err
	}

	result := &MoveResult{ItemID: req.ItemID, ColumnID: column.ID, StatusID: item.CurrentStatus()}

	if current := item.CurrentStatus(); current != nil && column.Includes(*current) {
		if err := s.placementRepo.Delete(ctx, tenantID, line.ID, req.ItemID); err != nil {
			return nil, err
		}
		return result, nil
	}

	next, err := s.guard.ValidNextStatuses(ctx, tenantID, entityType, item, role)
	if err != nil {
		return nil, err
	}
	candidates := make([]workflow.ItemStatus, 0, len(next))
	for _, st := range next {
		if column.Includes(st.ID) && !sameStatus(item.CurrentStatus(), st.ID) {
			candidates = append(candidates, st)
		}
	}

	var target *uuid.UUID
	switch len(candidates) {
	case 0:
		if err := s.placementRepo.Upsert(ctx, &kanban.Placement{
			TenantID:  tenantID,
			LineID:    line.ID,
			ItemType:  entityType,
			ItemID:    req.ItemID,
			ColumnID:  column.ID,
			UpdatedAt: s.now(),
		}); err != nil {
			return nil, err
		}
		result.PlacementOnly = true
		return result, nil
	case 1:
		target = &candidates[0].ID
	default:
		if req.StatusID == nil || !slices.ContainsFunc(candidates, func(st workflow.ItemStatus) bool { return st.ID == *req.StatusID }) {
			return nil, &StatusChoiceError{Candidates: candidates}
		}
		target = req.StatusID
	}

	if err := s.applyStatus(ctx, item, *target, role); err != nil {
		return nil, err
	}
	if err := s.placementRepo.Delete(ctx, tenantID, line.ID, req.ItemID); err != nil {
		s.logger.Warn("Failed to clear Kanban placement",
			zap.String("item_id", req.ItemID.String()),
			zap.Error(err),
		)
	}
	result.StatusID = target
	result.StatusChanged = true
	return result, nil
}

func (s *BoardService) resolveLine(ctx context.Context, tenantID uuid.UUID, lineID *uuid.UUID) (*kanban.Line, error) {
	if lineID == nil {
		cs, err := s.settingsRepo.GetCompany(ctx, tenantID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if cs == nil || cs.DefaultKanbanLineID == nil {
			return nil, ErrNoLine
		}
		lineID = cs.DefaultKanbanLineID
	}
	return s.lineRepo.FindByIDForTenant(ctx, tenantID, *lineID)
}

func (s *BoardService) loadCards(ctx context.Context, tenantID uuid.UUID, q BoardQuery) ([]Card, error) {
	var (
		activities []planning.Activity
		meetings   []planning.Meeting
	)
	if q.SprintID == nil {
		acts, err := s.activityRepo.FindByProject(ctx, tenantID, q.ProjectID)
		if err != nil {
			return nil, err
		}
		activities = acts
	} else {
		sprint, err := s.sprintRepo.FindByIDForTenant(ctx, tenantID, *q.SprintID)
		if err != nil {
			return nil, err
		}
		if sprint.ProjectID != q.ProjectID {
			return nil, shared.NotFound("Sprint")
		}
		if ids := sprint.ItemIDs(registry.TypeActivity); len(ids) > 0 {
			if activities, err = s.activityRepo.FindByIDs(ctx, tenantID, ids); err != nil {
				return nil, err
			}
		}
		if ids := sprint.ItemIDs(registry.TypeMeeting); len(ids) > 0 {
			if meetings, err = s.meetingRepo.FindByIDs(ctx, tenantID, ids); err != nil {
				return nil, err
			}
		}
	}

	names, err := s.guard.StatusNames(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	cards := make([]Card, 0, len(activities)+len(meetings))
	for i := range activities {
		a := &activities[i]
		cards = append(cards, Card{
			EntityType:   string(registry.TypeActivity),
			ID:           a.ID,
			Name:         a.Name,
			StatusID:     a.StatusID,
			Status:       statusName(names, a.StatusID),
			AssignedToID: a.AssignedToID,
			Priority:     string(a.Priority),
			StoryPoints:  a.StoryPoints,
			Progress:     a.Progress,
			DueDate:      a.DueDate,
		})
	}
	for i := range meetings {
		m := &meetings[i]
		cards = append(cards, Card{
			EntityType:   string(registry.TypeMeeting),
			ID:           m.ID,
			Name:         m.Name,
			StatusID:     m.StatusID,
			Status:       statusName(names, m.StatusID),
			AssignedToID: m.AssignedToID,
			DueDate:      m.StartAt,
		})
	}
	return cards, nil
}

func (s *BoardService) loadItem(ctx context.Context, tenantID uuid.UUID, entityType registry.EntityType, id uuid.UUID) (shared.StatusAware, error) {
	switch entityType {
	case registry.TypeActivity:
		a, err := s.activityRepo.FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}
		return a, nil
	case registry.TypeMeeting:
		m, err := s.meetingRepo.FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", "Only activities and meetings can be moved on a board")
	}
}

func (s *BoardService) applyStatus(ctx context.Context, item shared.StatusAware, statusID uuid.UUID, role identity.Role) error {
	switch it := item.(type) {
	case *planning.Activity:
		return s.activities.MoveToStatus(ctx, it, statusID, role)
	case *planning.Meeting:
		return s.meetings.MoveToStatus(ctx, it, statusID, role)
	}
	return nil
}

func sameStatus(current *uuid.UUID, id uuid.UUID) bool {
	return current != nil && *current == id
}

func statusName(names map[uuid.UUID]string, id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return names[*id]
}
