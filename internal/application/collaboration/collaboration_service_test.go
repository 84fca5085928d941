package collaboration

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/derbent/backend/internal/domain/collaboration"
	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/settings"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCommentService_CreateAndList(t *testing.T) {
	tenantID, author := uuid.New(), uuid.New()
	activityID := uuid.New()
	repo := new(MockCommentRepository)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*collaboration.Comment")).Return(nil)
	targets := new(MockTargetResolver)
	targets.On("Exists", mock.Anything, tenantID, collaboration.Target{EntityType: registry.TypeActivity, EntityID: activityID}).Return(true, nil)
	events := &recordingPublisher{}
	svc := NewCommentService(repo, targets, events, zap.NewNop())
	ctx := context.Background()

	resp, err := svc.Create(ctx, tenantID, author, CreateCommentRequest{EntityType: "activity", EntityID: activityID, Text: " Ready for review "})
	require.NoError(t, err)
	assert.Equal(t, "Ready for review", resp.Text)
	require.Len(t, events.events, 1)
	assert.Equal(t, collaboration.EventTypeCommentAdded, events.events[0].EventType())

	target := collaboration.Target{EntityType: registry.TypeActivity, EntityID: activityID}
	existing, err := collaboration.NewComment(tenantID, target, author, "first")
	require.NoError(t, err)
	repo.On("FindByTarget", mock.Anything, tenantID, target).Return([]collaboration.Comment{*existing}, nil)

	list, err := svc.List(ctx, tenantID, TargetQuery{EntityType: "activity", EntityID: activityID})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.List(ctx, tenantID, TargetQuery{EntityType: "widget", EntityID: activityID})
	assert.Error(t, err)
}

func TestCommentService_Create_RequiresTarget(t *testing.T) {
	owner, stranger, author := uuid.New(), uuid.New(), uuid.New()
	target := collaboration.Target{EntityType: registry.TypeMeeting, EntityID: uuid.New()}
	targets := new(MockTargetResolver)
	targets.On("Exists", mock.Anything, owner, target).Return(true, nil)
	targets.On("Exists", mock.Anything, stranger, target).Return(false, nil)
	targets.On("Exists", mock.Anything, owner, mock.Anything).Return(false, nil)
	repo := new(MockCommentRepository)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*collaboration.Comment")).Return(nil)
	svc := NewCommentService(repo, targets, nil, zap.NewNop())
	ctx := context.Background()

	t.Run("missing record", func(t *testing.T) {
		_, err := svc.Create(ctx, owner, author, CreateCommentRequest{EntityType: "meeting", EntityID: uuid.New(), Text: "hello"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Contains(t, err.Error(), "Meeting")
	})

	t.Run("record of another company", func(t *testing.T) {
		_, err := svc.Create(ctx, stranger, author, CreateCommentRequest{EntityType: "meeting", EntityID: target.EntityID, Text: "hello"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)

	t.Run("own record", func(t *testing.T) {
		_, err := svc.Create(ctx, owner, author, CreateCommentRequest{EntityType: "meeting", EntityID: target.EntityID, Text: "hello"})
		require.NoError(t, err)
		repo.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("lookup failure", func(t *testing.T) {
		failing := new(MockTargetResolver)
		failing.On("Exists", mock.Anything, owner, target).Return(false, errors.New("db down"))
		_, err := NewCommentService(repo, failing, nil, zap.NewNop()).
			Create(ctx, owner, author, CreateCommentRequest{EntityType: "meeting", EntityID: target.EntityID, Text: "hello"})
		assert.EqualError(t, err, "db down")
	})
}

func TestCommentService_EditAndDeleteRights(t *testing.T) {
	tenantID, author, other := uuid.New(), uuid.New(), uuid.New()
	c, err := collaboration.NewComment(tenantID, collaboration.Target{EntityType: registry.TypeRisk, EntityID: uuid.New()}, author, "draft")
	require.NoError(t, err)

	repo := new(MockCommentRepository)
	repo.On("FindByIDForTenant", mock.Anything, tenantID, c.ID).Return(c, nil)
	repo.On("Save", mock.Anything, c).Return(nil)
	repo.On("DeleteForTenant", mock.Anything, tenantID, c.ID).Return(nil)
	svc := NewCommentService(repo, new(MockTargetResolver), nil, zap.NewNop())
	ctx := context.Background()

	_, err = svc.Update(ctx, tenantID, c.ID, other, UpdateCommentRequest{Text: "hijack"})
	assert.Error(t, err)

	resp, err := svc.Update(ctx, tenantID, c.ID, author, UpdateCommentRequest{Text: "final"})
	require.NoError(t, err)
	assert.True(t, resp.Edited)

	assert.ErrorIs(t, svc.Delete(ctx, tenantID, c.ID, other, identity.RoleMember), errNotAllowed)
	assert.NoError(t, svc.Delete(ctx, tenantID, c.ID, other, identity.RoleManager))
}

type attachmentFixture struct {
	tenantID uuid.UUID
	repo     *MockAttachmentRepository
	targets  *MockTargetResolver
	storage  *MockObjectStorage
	settings *MockSettingsRepository
	events   *recordingPublisher
	svc      *AttachmentService
}

func newAttachmentFixture() *attachmentFixture {
	f := &attachmentFixture{
		tenantID: uuid.New(),
		repo:     new(MockAttachmentRepository),
		targets:  new(MockTargetResolver),
		storage:  new(MockObjectStorage),
		settings: new(MockSettingsRepository),
		events:   &recordingPublisher{},
	}
	f.svc = NewAttachmentService(f.repo, f.targets, f.storage, f.settings, f.events, zap.NewNop(), 0)
	return f
}

func TestAttachmentService_UploadHandshake(t *testing.T) {
	f := newAttachmentFixture()
	f.settings.On("GetSystem", mock.Anything).Return(nil, shared.NotFound("Settings"))
	f.targets.On("Exists", mock.Anything, f.tenantID, mock.AnythingOfType("collaboration.Target")).Return(true, nil)
	expires := time.Now().Add(15 * time.Minute)
	f.storage.On("GenerateUploadURL", mock.Anything, mock.AnythingOfType("string"), "application/pdf", defaultPresignExpiration).
		Return("https://minio/put", expires, nil)

	var saved *collaboration.Attachment
	f.repo.On("Save", mock.Anything, mock.AnythingOfType("*collaboration.Attachment")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*collaboration.Attachment) }).
		Return(nil)
	ctx := context.Background()

	upload, err := f.svc.RequestUpload(ctx, f.tenantID, uuid.New(), RequestUploadRequest{
		EntityType: "invoice", EntityID: uuid.New(), FileName: "scan.pdf", ContentType: "application/pdf", Size: 2048,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://minio/put", upload.UploadURL)
	assert.Equal(t, "pending", upload.Attachment.Status)
	require.NotNil(t, saved)
	assert.True(t, strings.HasPrefix(saved.StorageKey, f.tenantID.String()+"/invoice/"))

	f.repo.On("FindByIDForTenant", mock.Anything, f.tenantID, saved.ID).Return(saved, nil)

	_, err = f.svc.GetDownloadURL(ctx, f.tenantID, saved.ID)
	assert.ErrorIs(t, err, ErrUploadPending)

	f.storage.On("ObjectExists", mock.Anything, saved.StorageKey).Return(false, nil).Once()
	_, err = f.svc.ConfirmUpload(ctx, f.tenantID, saved.ID)
	assert.ErrorIs(t, err, ErrUploadMissing)

	f.storage.On("ObjectExists", mock.Anything, saved.StorageKey).Return(true, nil).Once()
	confirmed, err := f.svc.ConfirmUpload(ctx, f.tenantID, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", confirmed.Status)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, collaboration.EventTypeAttachmentUploaded, f.events.events[0].EventType())

	f.storage.On("GenerateDownloadURL", mock.Anything, saved.StorageKey, defaultPresignExpiration).Return("https://minio/get", expires, nil)
	download, err := f.svc.GetDownloadURL(ctx, f.tenantID, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://minio/get", download.URL)
}

func TestAttachmentService_RequestUpload_TooLarge(t *testing.T) {
	f := newAttachmentFixture()
	system := settings.DefaultSystemSettings()
	require.NoError(t, system.Update("Derbent", identity.LayoutHorizontal, 60, 1, false))
	f.settings.On("GetSystem", mock.Anything).Return(system, nil)

	_, err := f.svc.RequestUpload(context.Background(), f.tenantID, uuid.New(), RequestUploadRequest{
		EntityType: "activity", EntityID: uuid.New(), FileName: "video.mp4", Size: 2 * 1024 * 1024,
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FILE_TOO_LARGE", domainErr.Code)
	f.storage.AssertNotCalled(t, "GenerateUploadURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAttachmentService_RequestUpload_RequiresTarget(t *testing.T) {
	f := newAttachmentFixture()
	f.settings.On("GetSystem", mock.Anything).Return(nil, shared.NotFound("Settings"))
	invoiceID := uuid.New()
	f.targets.On("Exists", mock.Anything, f.tenantID, collaboration.Target{EntityType: registry.TypeInvoice, EntityID: invoiceID}).Return(false, nil)

	_, err := f.svc.RequestUpload(context.Background(), f.tenantID, uuid.New(), RequestUploadRequest{
		EntityType: "invoice", EntityID: invoiceID, FileName: "scan.pdf", ContentType: "application/pdf", Size: 2048,
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	f.storage.AssertNotCalled(t, "GenerateUploadURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAttachmentService_Delete(t *testing.T) {
	f := newAttachmentFixture()
	uploader := uuid.New()
	a, err := collaboration.NewAttachment(f.tenantID, collaboration.Target{EntityType: registry.TypeProject, EntityID: uuid.New()}, uploader, "plan.xlsx", "", 10, 0)
	require.NoError(t, err)
	f.repo.On("FindByIDForTenant", mock.Anything, f.tenantID, a.ID).Return(a, nil)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.Delete(ctx, f.tenantID, a.ID, uuid.New(), identity.RoleMember), errNotAllowed)

	f.storage.On("DeleteObject", mock.Anything, a.StorageKey).Return(errors.New("connection refused")).Once()
	assert.ErrorIs(t, f.svc.Delete(ctx, f.tenantID, a.ID, uploader, identity.RoleMember), errStorageFailure)
	f.repo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)

	f.storage.On("DeleteObject", mock.Anything, a.StorageKey).Return(nil).Once()
	f.repo.On("DeleteForTenant", mock.Anything, f.tenantID, a.ID).Return(nil)
	assert.NoError(t, f.svc.Delete(ctx, f.tenantID, a.ID, uploader, identity.RoleMember))
}
