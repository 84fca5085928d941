package kanban

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Column is one lane of a Kanban line
type Column struct {
	ID        uuid.UUID
	Name      string
	ItemOrder int
	StatusIDs []uuid.UUID
	IsDefault bool
	Color     string
	WIPLimit  int // 0 means unlimited
}

// Includes reports whether the column shows the status
func (c *Column) Includes(statusID uuid.UUID) bool {
	for _, id := range c.StatusIDs {
		if id == statusID {
			return true
		}
	}
	return false
}

// ColumnSpec holds the editable fields of a column
type ColumnSpec struct {
	Name      string
	Color     string
	StatusIDs []uuid.UUID
	IsDefault bool
	WIPLimit  int
}

// Line is a company-wide board definition made of ordered columns
type Line struct {
	shared.TenantAggregateRoot
	Name        string
	Description string
	Columns     []Column
}

// NewLine creates a line without columns
func NewLine(tenantID uuid.UUID, name, description string) (*Line, error) {
	l := &Line{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Columns:             make([]Column, 0),
	}
	if err := l.Rename(name, description); err != nil {
		return nil, err
	}
	return l, nil
}

// Rename changes name and description
func (l *Line) Rename(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Kanban line name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Kanban line name cannot exceed 200 characters")
	}
	l.Name = name
	l.Description = strings.TrimSpace(description)
	l.MarkModified()
	return nil
}

// AddColumn appends a column after the last one
func (l *Line) AddColumn(spec ColumnSpec) (*Column, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}
	l.NormalizeOrder()
	col := Column{
		ID:        uuid.New(),
		ItemOrder: len(l.Columns) + 1,
	}
	applySpec(&col, spec)
	l.Columns = append(l.Columns, col)
	l.enforceConstraints(col.ID)
	l.MarkModified()
	return l.column(col.ID), nil
}

// UpdateColumn changes a column and re-applies the line constraints
func (l *Line) UpdateColumn(columnID uuid.UUID, spec ColumnSpec) (*Column, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}
	col := l.column(columnID)
	if col == nil {
		return nil, shared.NotFound("Kanban column")
	}
	applySpec(col, spec)
	l.enforceConstraints(columnID)
	l.MarkModified()
	return col, nil
}

// RemoveColumn deletes a column and renumbers the rest
func (l *Line) RemoveColumn(columnID uuid.UUID) error {
	for i := range l.Columns {
		if l.Columns[i].ID == columnID {
			l.Columns = append(l.Columns[:i], l.Columns[i+1:]...)
			l.NormalizeOrder()
			l.MarkModified()
			return nil
		}
	}
	return shared.NotFound("Kanban column")
}

// MoveColumnUp swaps the column with its predecessor
func (l *Line) MoveColumnUp(columnID uuid.UUID) error {
	return l.swap(columnID, -1)
}

// MoveColumnDown swaps the column with its successor
func (l *Line) MoveColumnDown(columnID uuid.UUID) error {
	return l.swap(columnID, 1)
}

func (l *Line) swap(columnID uuid.UUID, delta int) error {
	l.NormalizeOrder()
	for i := range l.Columns {
		if l.Columns[i].ID != columnID {
			continue
		}
		j := i + delta
		if j < 0 || j >= len(l.Columns) {
			return nil
		}
		l.Columns[i].ItemOrder, l.Columns[j].ItemOrder = l.Columns[j].ItemOrder, l.Columns[i].ItemOrder
		l.Columns[i], l.Columns[j] = l.Columns[j], l.Columns[i]
		l.MarkModified()
		return nil
	}
	return shared.NotFound("Kanban column")
}

// NormalizeOrder sorts columns by order and renumbers them 1..n
func (l *Line) NormalizeOrder() {
	sort.SliceStable(l.Columns, func(i, j int) bool {
		return l.Columns[i].ItemOrder < l.Columns[j].ItemOrder
	})
	for i := range l.Columns {
		l.Columns[i].ItemOrder = i + 1
	}
}

// ColumnForStatus returns the column that includes the status, else the
// default column, else nil.
func (l *Line) ColumnForStatus(statusID *uuid.UUID) *Column {
	if statusID != nil {
		for i := range l.Columns {
			if l.Columns[i].Includes(*statusID) {
				return &l.Columns[i]
			}
		}
	}
	return l.DefaultColumn()
}

// DefaultColumn returns the default column or nil
func (l *Line) DefaultColumn() *Column {
	for i := range l.Columns {
		if l.Columns[i].IsDefault {
			return &l.Columns[i]
		}
	}
	return nil
}

// Column returns the column with the given ID or nil
func (l *Line) Column(columnID uuid.UUID) *Column {
	return l.column(columnID)
}

func (l *Line) column(columnID uuid.UUID) *Column {
	for i := range l.Columns {
		if l.Columns[i].ID == columnID {
			return &l.Columns[i]
		}
	}
	return nil
}

// enforceConstraints makes the saved column win: other columns lose its
// statuses, and lose the default flag when it is the default.
func (l *Line) enforceConstraints(savedID uuid.UUID) {
	saved := l.column(savedID)
	if saved == nil {
		return
	}
	for i := range l.Columns {
		other := &l.Columns[i]
		if other.ID == savedID {
			continue
		}
		if saved.IsDefault {
			other.IsDefault = false
		}
		if len(saved.StatusIDs) == 0 || len(other.StatusIDs) == 0 {
			continue
		}
		remaining := other.StatusIDs[:0:0]
		for _, id := range other.StatusIDs {
			if !saved.Includes(id) {
				remaining = append(remaining, id)
			}
		}
		other.StatusIDs = remaining
	}
}

func validateSpec(spec ColumnSpec) error {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Column name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Column name cannot exceed 100 characters")
	}
	if spec.WIPLimit < 0 {
		return shared.NewDomainError("INVALID_WIP_LIMIT", "WIP limit cannot be negative")
	}
	return nil
}

func applySpec(col *Column, spec ColumnSpec) {
	col.Name = strings.TrimSpace(spec.Name)
	col.Color = spec.Color
	col.IsDefault = spec.IsDefault
	col.WIPLimit = spec.WIPLimit
	seen := make(map[uuid.UUID]bool, len(spec.StatusIDs))
	col.StatusIDs = make([]uuid.UUID, 0, len(spec.StatusIDs))
	for _, id := range spec.StatusIDs {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		col.StatusIDs = append(col.StatusIDs, id)
	}
}
