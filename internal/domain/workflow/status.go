package workflow

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

var colorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ItemStatus is a company-wide status that workflows move items through
type ItemStatus struct {
	shared.TenantAggregateRoot
	Name        string
	Description string
	Color       string
	SortOrder   int
	IsInitial   bool
	IsFinal     bool
}

// NewItemStatus creates a new status
func NewItemStatus(tenantID uuid.UUID, name, color string, sortOrder int) (*ItemStatus, error) {
	s := &ItemStatus{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
	}
	if err := s.Update(name, "", color, sortOrder); err != nil {
		return nil, err
	}
	return s, nil
}

// Update changes the display fields
func (s *ItemStatus) Update(name, description, color string, sortOrder int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Status name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Status name cannot exceed 100 characters")
	}
	if color == "" {
		color = "#9E9E9E"
	}
	if !colorRegex.MatchString(color) {
		return shared.NewDomainError("INVALID_COLOR", "Color must be a hex value like #1E88E5")
	}
	if sortOrder < 0 {
		return shared.NewDomainError("INVALID_SORT_ORDER", "Sort order cannot be negative")
	}
	s.Name = name
	s.Description = strings.TrimSpace(description)
	s.Color = strings.ToUpper(color)
	s.SortOrder = sortOrder
	s.MarkModified()
	return nil
}

// SetFlags marks the status as initial and/or final.
// A status cannot be both.
func (s *ItemStatus) SetFlags(initial, final bool) error {
	if initial && final {
		return shared.NewDomainError("INVALID_STATUS_FLAGS", "A status cannot be both initial and final")
	}
	s.IsInitial = initial
	s.IsFinal = final
	s.MarkModified()
	return nil
}
