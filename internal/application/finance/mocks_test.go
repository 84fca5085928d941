package finance

import (
	"context"
	"time"

	"github.com/derbent/backend/internal/domain/finance"
	"github.com/derbent/backend/internal/domain/project"
	"github.com/derbent/backend/internal/domain/settings"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Order, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *finance.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Invoice, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]finance.Invoice, error) {
	args := m.Called(ctx, tenantID, projectID)
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOpenDueBefore(ctx context.Context, tenantID uuid.UUID, day time.Time) ([]finance.Invoice, error) {
	args := m.Called(ctx, tenantID, day)
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	args := m.Called(ctx, tenantID, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *finance.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.LedgerEntry, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.LedgerEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerRepository) FindByProjectBetween(ctx context.Context, tenantID, projectID uuid.UUID, from, to time.Time) ([]finance.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, projectID, from, to)
	return args.Get(0).([]finance.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) Save(ctx context.Context, entry *finance.LedgerEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockLedgerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockActiveProjects struct {
	mock.Mock
}

func (m *MockActiveProjects) RequireActive(ctx context.Context, tenantID, id uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

// MockProjectRepository only answers FindByIDForTenant
type MockProjectRepository struct {
	mock.Mock
	project.ProjectRepository
}

func (m *MockProjectRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

type MockSettingsRepository struct {
	mock.Mock
	settings.Repository
}

func (m *MockSettingsRepository) GetCompany(ctx context.Context, tenantID uuid.UUID) (*settings.CompanySettings, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.CompanySettings), args.Error(1)
}

type fakeSummaryRenderer struct {
	got *finance.Summary
}

func (f *fakeSummaryRenderer) RenderSummary(_ context.Context, s *finance.Summary) ([]byte, error) {
	f.got = s
	return []byte("%PDF-1.4"), nil
}

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}
