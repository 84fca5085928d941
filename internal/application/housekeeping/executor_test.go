package housekeeping

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/derbent/backend/internal/domain/finance"
	"github.com/derbent/backend/internal/domain/planning"
	"github.com/derbent/backend/internal/domain/project"
	"github.com/derbent/backend/internal/infrastructure/scheduler"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type executorFixture struct {
	tenantID   uuid.UUID
	activities *MockOverdueActivities
	invoices   *MockOverdueInvoices
	sprints    *MockVelocityRecalculator
	projects   *MockActiveProjectLister
	snapshots  *MockSnapshotRenderer
	events     *recordingPublisher
	executor   *Executor
}

func newExecutorFixture() *executorFixture {
	f := &executorFixture{
		tenantID:   uuid.New(),
		activities: new(MockOverdueActivities),
		invoices:   new(MockOverdueInvoices),
		sprints:    new(MockVelocityRecalculator),
		projects:   new(MockActiveProjectLister),
		snapshots:  new(MockSnapshotRenderer),
		events:     &recordingPublisher{},
	}
	f.executor = NewExecutor(f.activities, f.invoices, f.sprints, f.projects, f.snapshots, f.events, zap.NewNop())
	return f
}

func (f *executorFixture) job(jobType scheduler.JobType) *scheduler.Job {
	return scheduler.NewJob(f.tenantID, jobType, time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC), 3)
}

func TestExecutor_OverdueScan(t *testing.T) {
	f := newExecutorFixture()
	a, err := planning.NewActivity(f.tenantID, uuid.New(), "Cable pulling")
	require.NoError(t, err)
	inv, err := finance.NewInvoice(f.tenantID, uuid.New(), "INV-7", "Harbor Rail", time.Now(), "EUR")
	require.NoError(t, err)

	f.activities.On("Overdue", mock.Anything, f.tenantID).Return([]planning.Activity{*a}, nil)
	f.invoices.On("Overdue", mock.Anything, f.tenantID).Return([]finance.Invoice{*inv}, nil)

	require.NoError(t, f.executor.Execute(context.Background(), f.job(scheduler.JobTypeOverdueScan)))
	require.Len(t, f.events.events, 2)
	assert.Equal(t, planning.EventTypeActivityOverdue, f.events.events[0].EventType())
	assert.Equal(t, finance.EventTypeInvoiceOverdue, f.events.events[1].EventType())
}

func TestExecutor_OverdueScan_NothingLate(t *testing.T) {
	f := newExecutorFixture()
	f.activities.On("Overdue", mock.Anything, f.tenantID).Return([]planning.Activity{}, nil)
	f.invoices.On("Overdue", mock.Anything, f.tenantID).Return([]finance.Invoice{}, nil)

	require.NoError(t, f.executor.Execute(context.Background(), f.job(scheduler.JobTypeOverdueScan)))
	assert.Empty(t, f.events.events)
}

func TestExecutor_OverdueScan_RepositoryError(t *testing.T) {
	f := newExecutorFixture()
	f.activities.On("Overdue", mock.Anything, f.tenantID).Return(nil, errors.New("db down"))

	err := f.executor.Execute(context.Background(), f.job(scheduler.JobTypeOverdueScan))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	f.invoices.AssertNotCalled(t, "Overdue", mock.Anything, mock.Anything)
}

func TestExecutor_SprintVelocity(t *testing.T) {
	f := newExecutorFixture()
	f.sprints.On("RecalculateAll", mock.Anything, f.tenantID).Return(4, nil)

	require.NoError(t, f.executor.Execute(context.Background(), f.job(scheduler.JobTypeSprintVelocity)))
	f.sprints.AssertExpectations(t)
}

func TestExecutor_FinancialSnapshot(t *testing.T) {
	f := newExecutorFixture()
	p1, err := project.NewProject(f.tenantID, "Depot Upgrade", "DU")
	require.NoError(t, err)
	p2, err := project.NewProject(f.tenantID, "Harbor Crane Retrofit", "HCR")
	require.NoError(t, err)
	job := f.job(scheduler.JobTypeFinancialSnapshot)

	f.projects.On("FindAllActive", mock.Anything, f.tenantID).Return([]project.Project{*p1, *p2}, nil)
	f.snapshots.On("MonthlySnapshot", mock.Anything, f.tenantID, p1.ID, job.RunDate).Return("", errors.New("boom"))
	f.snapshots.On("MonthlySnapshot", mock.Anything, f.tenantID, p2.ID, job.RunDate).Return("Total cost: 1200.00", nil)

	require.NoError(t, f.executor.Execute(context.Background(), job), "one failing project does not fail the job")
	f.snapshots.AssertNumberOfCalls(t, "MonthlySnapshot", 2)
}

func TestExecutor_FinancialSnapshot_AllFail(t *testing.T) {
	f := newExecutorFixture()
	p, err := project.NewProject(f.tenantID, "Depot Upgrade", "DU")
	require.NoError(t, err)
	f.projects.On("FindAllActive", mock.Anything, f.tenantID).Return([]project.Project{*p}, nil)
	f.snapshots.On("MonthlySnapshot", mock.Anything, f.tenantID, p.ID, mock.Anything).Return("", errors.New("boom"))

	assert.Error(t, f.executor.Execute(context.Background(), f.job(scheduler.JobTypeFinancialSnapshot)))
}

func TestExecutor_RejectsUnknownJob(t *testing.T) {
	f := newExecutorFixture()
	err := f.executor.Execute(context.Background(), f.job("REINDEX"))
	assert.ErrorIs(t, err, scheduler.ErrInvalidJobType)

	err = f.executor.Execute(context.Background(), scheduler.NewJob(uuid.Nil, scheduler.JobTypeOverdueScan, time.Now(), 0))
	assert.Error(t, err)
}

func TestExecutor_RecordsMetrics(t *testing.T) {
	f := newExecutorFixture()
	metrics := new(MockMetrics)
	f.executor.SetMetrics(metrics)
	tenant := f.tenantID.String()

	f.activities.On("Overdue", mock.Anything, f.tenantID).Return([]planning.Activity{}, nil)
	f.invoices.On("Overdue", mock.Anything, f.tenantID).Return(nil, errors.New("db down"))
	f.sprints.On("RecalculateAll", mock.Anything, f.tenantID).Return(3, nil)
	metrics.On("RecordSprintsRecalculated", mock.Anything, tenant, int64(3)).Return()
	metrics.On("RecordJob", mock.Anything, "SPRINT_VELOCITY", nil).Return()
	metrics.On("RecordJob", mock.Anything, "OVERDUE_SCAN", mock.AnythingOfType("*fmt.wrapError")).Return()

	require.NoError(t, f.executor.Execute(context.Background(), f.job(scheduler.JobTypeSprintVelocity)))
	require.Error(t, f.executor.Execute(context.Background(), f.job(scheduler.JobTypeOverdueScan)))

	metrics.AssertExpectations(t)
	metrics.AssertNotCalled(t, "RecordOverdue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
