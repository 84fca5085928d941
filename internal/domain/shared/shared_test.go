package shared

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := NotFound("Project")

	assert.Equal(t, "Project not found", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, fmt.Errorf("loading: %w", err), ErrNotFound)
	assert.NotErrorIs(t, err, ErrInvalidState)
	assert.False(t, err.Is(errors.New("NOT_FOUND")))
}

func TestBaseAggregateRoot_Versioning(t *testing.T) {
	root := NewBaseAggregateRoot()
	require.NotEqual(t, uuid.Nil, root.GetID())
	assert.Equal(t, 1, root.GetVersion())
	created := root.UpdatedAt

	root.MarkModified()
	assert.Equal(t, 2, root.GetVersion())
	assert.False(t, root.UpdatedAt.Before(created))
}

func TestBaseAggregateRoot_LoadedVersion(t *testing.T) {
	root := NewBaseAggregateRoot()
	assert.Zero(t, root.LoadedVersion())

	root.Restore(7)
	assert.Equal(t, 7, root.GetVersion())
	assert.Equal(t, 7, root.LoadedVersion())

	root.MarkModified()
	root.MarkModified()
	assert.Equal(t, 9, root.GetVersion())
	assert.Equal(t, 7, root.LoadedVersion())

	root.MarkPersisted()
	assert.Equal(t, 9, root.LoadedVersion())
}

func TestBaseAggregateRoot_PendingEvents(t *testing.T) {
	root := NewBaseAggregateRoot()
	assert.Empty(t, root.GetDomainEvents())

	tenantID := uuid.New()
	event := NewBaseDomainEvent("project.created", "Project", root.GetID(), tenantID)
	root.AddDomainEvent(event)

	require.Len(t, root.GetDomainEvents(), 1)
	got := root.GetDomainEvents()[0]
	assert.Equal(t, "project.created", got.EventType())
	assert.Equal(t, "Project", got.AggregateType())
	assert.Equal(t, tenantID, got.TenantID())
	assert.Equal(t, root.GetID(), got.AggregateID())
	assert.NotEqual(t, uuid.Nil, got.EventID())

	root.ClearDomainEvents()
	assert.Empty(t, root.GetDomainEvents())
}

func TestTenantAggregateRoot_CreatedBy(t *testing.T) {
	tenantID := uuid.New()
	root := NewTenantAggregateRoot(tenantID)
	assert.Equal(t, tenantID, root.TenantID)
	assert.Nil(t, root.GetCreatedBy())

	userID := uuid.New()
	root.SetCreatedBy(userID)
	require.NotNil(t, root.GetCreatedBy())
	assert.Equal(t, userID, *root.GetCreatedBy())
}

func TestNewProjectItem(t *testing.T) {
	tenantID, projectID := uuid.New(), uuid.New()

	tests := []struct {
		name      string
		projectID uuid.UUID
		itemName  string
		wantCode  string
	}{
		{name: "valid", projectID: projectID, itemName: "  Design review  "},
		{name: "missing project", projectID: uuid.Nil, itemName: "x", wantCode: "INVALID_PROJECT"},
		{name: "blank name", projectID: projectID, itemName: "   ", wantCode: "INVALID_NAME"},
		{name: "long name", projectID: projectID, itemName: strings.Repeat("a", 201), wantCode: "INVALID_NAME"},
		{name: "long non-ASCII name", projectID: projectID, itemName: strings.Repeat("я", 201), wantCode: "INVALID_NAME"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := NewProjectItem(tenantID, tt.projectID, tt.itemName)
			if tt.wantCode != "" {
				var de *DomainError
				require.ErrorAs(t, err, &de)
				assert.Equal(t, tt.wantCode, de.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Design review", item.Name)
			assert.Equal(t, tenantID, item.TenantID)
			assert.Nil(t, item.CurrentStatus())
		})
	}
}

func TestProjectItem_Mutations(t *testing.T) {
	item, err := NewProjectItem(uuid.New(), uuid.New(), "Kickoff")
	require.NoError(t, err)

	require.NoError(t, item.Rename(" Kickoff meeting "))
	assert.Equal(t, "Kickoff meeting", item.Name)
	assert.Error(t, item.Rename(""))
	assert.Equal(t, "Kickoff meeting", item.Name)

	workflowID, statusID := uuid.New(), uuid.New()
	item.BindWorkflow(workflowID, statusID)
	assert.Equal(t, workflowID, *item.CurrentWorkflow())
	assert.Equal(t, statusID, *item.CurrentStatus())

	next := uuid.New()
	item.ApplyStatus(next)
	assert.Equal(t, next, *item.CurrentStatus())
	assert.Equal(t, 4, item.GetVersion())
}

func TestValidateItemName_CountsCharacters(t *testing.T) {
	assert.NoError(t, ValidateItemName(strings.Repeat("я", 200)))
	assert.Error(t, ValidateItemName(strings.Repeat("я", 201)))
}

func TestFilter_WithFilterCopies(t *testing.T) {
	base := DefaultFilter()
	derived := base.WithFilter("project_id", "p1")

	assert.Empty(t, base.Filters)
	assert.Equal(t, "p1", derived.Filters["project_id"])

	unpaged := derived.Unpaged()
	assert.Zero(t, unpaged.Page)
	assert.Zero(t, unpaged.PageSize)
	assert.Equal(t, 20, derived.PageSize)
}

func TestNewPaginated_TotalPages(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{total: 0, pageSize: 20, want: 0},
		{total: 20, pageSize: 20, want: 1},
		{total: 21, pageSize: 20, want: 2},
		{total: 5, pageSize: 0, want: 0},
	}
	for _, tt := range tests {
		got := NewPaginated([]int{}, tt.total, 1, tt.pageSize)
		assert.Equal(t, tt.want, got.TotalPages, "total=%d size=%d", tt.total, tt.pageSize)
	}
}
