package workflow

import (
	"context"
	"testing"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/domain/workflow"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStatusService_Create(t *testing.T) {
	statuses, workflows := new(MockStatusRepository), new(MockWorkflowRepository)
	svc := NewStatusService(statuses, workflows)
	tenantID := uuid.New()

	statuses.On("ExistsByName", mock.Anything, tenantID, "Blocked", (*uuid.UUID)(nil)).Return(false, nil)
	statuses.On("Save", mock.Anything, mock.AnythingOfType("*workflow.ItemStatus")).Return(nil)

	resp, err := svc.Create(context.Background(), tenantID, uuid.New(), StatusRequest{
		Name:        "Blocked",
		Description: "Waiting on someone",
		Color:       "#e53935",
		SortOrder:   3,
	})
	require.NoError(t, err)
	assert.Equal(t, "Blocked", resp.Name)
	assert.Equal(t, "#E53935", resp.Color)
	assert.Equal(t, "Waiting on someone", resp.Description)
	assert.False(t, resp.IsFinal)
}

func TestStatusService_Create_DuplicateName(t *testing.T) {
	statuses := new(MockStatusRepository)
	svc := NewStatusService(statuses, new(MockWorkflowRepository))
	tenantID := uuid.New()
	statuses.On("ExistsByName", mock.Anything, tenantID, "Done", (*uuid.UUID)(nil)).Return(true, nil)

	_, err := svc.Create(context.Background(), tenantID, uuid.New(), StatusRequest{Name: "Done"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	statuses.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestStatusService_Create_InitialAndFinal(t *testing.T) {
	statuses := new(MockStatusRepository)
	svc := NewStatusService(statuses, new(MockWorkflowRepository))
	statuses.On("ExistsByName", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), StatusRequest{Name: "Odd", IsInitial: true, IsFinal: true})
	assert.Error(t, err)
}

func TestStatusService_Update(t *testing.T) {
	statuses := new(MockStatusRepository)
	svc := NewStatusService(statuses, new(MockWorkflowRepository))
	tenantID := uuid.New()
	status, err := workflow.NewItemStatus(tenantID, "Review", "", 2)
	require.NoError(t, err)

	statuses.On("FindByIDForTenant", mock.Anything, tenantID, status.ID).Return(status, nil)
	statuses.On("ExistsByName", mock.Anything, tenantID, "Closed", &status.ID).Return(false, nil)
	statuses.On("Save", mock.Anything, status).Return(nil)

	resp, err := svc.Update(context.Background(), tenantID, status.ID, StatusRequest{Name: "Closed", SortOrder: 9, IsFinal: true})
	require.NoError(t, err)
	assert.Equal(t, "Closed", resp.Name)
	assert.Equal(t, 9, resp.SortOrder)
	assert.True(t, resp.IsFinal)
}

func TestStatusService_Delete(t *testing.T) {
	tenantID, statusID := uuid.New(), uuid.New()

	t.Run("in use", func(t *testing.T) {
		statuses, workflows := new(MockStatusRepository), new(MockWorkflowRepository)
		workflows.On("IsStatusInUse", mock.Anything, tenantID, statusID).Return(true, nil)

		err := NewStatusService(statuses, workflows).Delete(context.Background(), tenantID, statusID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "STATUS_IN_USE", domainErr.Code)
		statuses.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unused", func(t *testing.T) {
		statuses, workflows := new(MockStatusRepository), new(MockWorkflowRepository)
		workflows.On("IsStatusInUse", mock.Anything, tenantID, statusID).Return(false, nil)
		statuses.On("DeleteForTenant", mock.Anything, tenantID, statusID).Return(nil)

		require.NoError(t, NewStatusService(statuses, workflows).Delete(context.Background(), tenantID, statusID))
		statuses.AssertExpectations(t)
	})
}
