package collaboration

import (
	"context"
	"time"

	"github.com/derbent/backend/internal/domain/collaboration"
	"github.com/derbent/backend/internal/domain/settings"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*collaboration.Comment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*collaboration.Comment), args.Error(1)
}

func (m *MockCommentRepository) FindByTarget(ctx context.Context, tenantID uuid.UUID, target collaboration.Target) ([]collaboration.Comment, error) {
	args := m.Called(ctx, tenantID, target)
	return args.Get(0).([]collaboration.Comment), args.Error(1)
}

func (m *MockCommentRepository) Save(ctx context.Context, c *collaboration.Comment) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCommentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockAttachmentRepository struct {
	mock.Mock
}

func (m *MockAttachmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*collaboration.Attachment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*collaboration.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) FindByTarget(ctx context.Context, tenantID uuid.UUID, target collaboration.Target) ([]collaboration.Attachment, error) {
	args := m.Called(ctx, tenantID, target)
	return args.Get(0).([]collaboration.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) Save(ctx context.Context, a *collaboration.Attachment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAttachmentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockTargetResolver struct {
	mock.Mock
}

func (m *MockTargetResolver) Exists(ctx context.Context, tenantID uuid.UUID, target collaboration.Target) (bool, error) {
	args := m.Called(ctx, tenantID, target)
	return args.Bool(0), args.Error(1)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	return m.Called(ctx, storageKey).Error(0)
}

func (m *MockObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

// MockSettingsRepository only serves the system settings
type MockSettingsRepository struct {
	mock.Mock
	settings.Repository
}

func (m *MockSettingsRepository) GetSystem(ctx context.Context) (*settings.SystemSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.SystemSettings), args.Error(1)
}

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}
