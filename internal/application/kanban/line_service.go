// Package kanban manages Kanban lines and fills them with project items.
package kanban

import (
	"context"

	"github.com/derbent/backend/internal/domain/kanban"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/domain/workflow"
	"github.com/google/uuid"
)

var errUnknownStatus = shared.NewDomainError("INVALID_STATUS", "Column refers to a status that does not exist")

// LineService manages Kanban lines and their columns
type LineService struct {
	lineRepo   kanban.LineRepository
	statusRepo workflow.StatusRepository
}

// NewLineService creates a new line service
func NewLineService(lineRepo kanban.LineRepository, statusRepo workflow.StatusRepository) *LineService {
	return &LineService{lineRepo: lineRepo, statusRepo: statusRepo}
}

// Create creates a line without columns
func (s *LineService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, req LineRequest) (*LineResponse, error) {
	if err := s.checkName(ctx, tenantID, req.Name, nil); err != nil {
		return nil, err
	}
	line, err := kanban.NewLine(tenantID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	line.SetCreatedBy(createdBy)
	return s.save(ctx, line)
}

// GetByID retrieves a line with its columns
func (s *LineService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*LineResponse, error) {
	line, err := s.lineRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToLineResponse(line)
	return &resp, nil
}

// List retrieves lines with pagination
func (s *LineService) List(ctx context.Context, tenantID uuid.UUID, filter LineListFilter) ([]LineResponse, int64, error) {
	lines, total, err := s.lineRepo.FindAllForTenant(ctx, tenantID, filter.Query.Filter("name", "asc"))
	if err != nil {
		return nil, 0, err
	}
	out := make([]LineResponse, len(lines))
	for i := range lines {
		out[i] = ToLineResponse(&lines[i])
	}
	return out, total, nil
}

// Update renames a line
func (s *LineService) Update(ctx context.Context, tenantID, id uuid.UUID, req LineRequest) (*LineResponse, error) {
	line, err := s.lineRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, tenantID, req.Name, &id); err != nil {
		return nil, err
	}
	if err := line.Rename(req.Name, req.Description); err != nil {
		return nil, err
	}
	return s.save(ctx, line)
}

// Delete removes a line
func (s *LineService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.lineRepo.DeleteForTenant(ctx, tenantID, id)
}

// AddColumn appends a column. Other columns lose the statuses it claims.
func (s *LineService) AddColumn(ctx context.Context, tenantID, lineID uuid.UUID, req ColumnRequest) (*LineResponse, error) {
	return s.mutate(ctx, tenantID, lineID, req.StatusIDs, func(line *kanban.Line) error {
		_, err := line.AddColumn(req.spec())
		return err
	})
}

// UpdateColumn changes a column
func (s *LineService) UpdateColumn(ctx context.Context, tenantID, lineID, columnID uuid.UUID, req ColumnRequest) (*LineResponse, error) {
	return s.mutate(ctx, tenantID, lineID, req.StatusIDs, func(line *kanban.Line) error {
		_, err := line.UpdateColumn(columnID, req.spec())
		return err
	})
}

// RemoveColumn deletes a column
func (s *LineService) RemoveColumn(ctx context.Context, tenantID, lineID, columnID uuid.UUID) (*LineResponse, error) {
	return s.mutate(ctx, tenantID, lineID, nil, func(line *kanban.Line) error {
		return line.RemoveColumn(columnID)
	})
}

// MoveColumn moves a column one step up or down
func (s *LineService) MoveColumn(ctx context.Context, tenantID, lineID, columnID uuid.UUID, up bool) (*LineResponse, error) {
	return s.mutate(ctx, tenantID, lineID, nil, func(line *kanban.Line) error {
		if up {
			return line.MoveColumnUp(columnID)
		}
		return line.MoveColumnDown(columnID)
	})
}

func (s *LineService) mutate(ctx context.Context, tenantID, lineID uuid.UUID, statusIDs []uuid.UUID, change func(*kanban.Line) error) (*LineResponse, error) {
	line, err := s.lineRepo.FindByIDForTenant(ctx, tenantID, lineID)
	if err != nil {
		return nil, err
	}
	if err := s.checkStatuses(ctx, tenantID, statusIDs); err != nil {
		return nil, err
	}
	if err := change(line); err != nil {
		return nil, err
	}
	return s.save(ctx, line)
}

func (s *LineService) checkStatuses(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.statusRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return err
	}
	known := make(map[uuid.UUID]bool, len(found))
	for _, st := range found {
		known[st.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return errUnknownStatus
		}
	}
	return nil
}

func (s *LineService) checkName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) error {
	exists, err := s.lineRepo.ExistsByName(ctx, tenantID, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Kanban line with this name already exists")
	}
	return nil
}

func (s *LineService) save(ctx context.Context, line *kanban.Line) (*LineResponse, error) {
	if err := s.lineRepo.Save(ctx, line); err != nil {
		return nil, err
	}
	resp := ToLineResponse(line)
	return &resp, nil
}
