package housekeeping

import (
	"context"
	"time"

	"github.com/derbent/backend/internal/domain/finance"
	"github.com/derbent/backend/internal/domain/planning"
	"github.com/derbent/backend/internal/domain/project"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockOverdueActivities struct {
	mock.Mock
}

func (m *MockOverdueActivities) Overdue(ctx context.Context, tenantID uuid.UUID) ([]planning.Activity, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]planning.Activity), args.Error(1)
}

type MockOverdueInvoices struct {
	mock.Mock
}

func (m *MockOverdueInvoices) Overdue(ctx context.Context, tenantID uuid.UUID) ([]finance.Invoice, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

type MockVelocityRecalculator struct {
	mock.Mock
}

func (m *MockVelocityRecalculator) RecalculateAll(ctx context.Context, tenantID uuid.UUID) (int, error) {
	args := m.Called(ctx, tenantID)
	return args.Int(0), args.Error(1)
}

type MockActiveProjectLister struct {
	mock.Mock
}

func (m *MockActiveProjectLister) FindAllActive(ctx context.Context, tenantID uuid.UUID) ([]project.Project, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Project), args.Error(1)
}

type MockSnapshotRenderer struct {
	mock.Mock
}

func (m *MockSnapshotRenderer) MonthlySnapshot(ctx context.Context, tenantID, projectID uuid.UUID, day time.Time) (string, error) {
	args := m.Called(ctx, tenantID, projectID, day)
	return args.String(0), args.Error(1)
}

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordOverdue(ctx context.Context, tenantID, kind string, count int64) {
	m.Called(ctx, tenantID, kind, count)
}

func (m *MockMetrics) RecordSprintsRecalculated(ctx context.Context, tenantID string, count int64) {
	m.Called(ctx, tenantID, count)
}

func (m *MockMetrics) RecordJob(ctx context.Context, jobType string, err error) {
	m.Called(ctx, jobType, err)
}
