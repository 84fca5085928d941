package collaboration

import (
	"context"
	"errors"
	"time"

	"github.com/derbent/backend/internal/domain/collaboration"
	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/settings"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultPresignExpiration = 15 * time.Minute

var (
	ErrUploadMissing  = shared.NewDomainError("UPLOAD_MISSING", "The file has not been uploaded yet")
	ErrUploadPending  = shared.NewDomainError("UPLOAD_PENDING", "The attachment upload has not been confirmed")
	errStorageFailure = shared.NewDomainError("STORAGE_UNAVAILABLE", "Object storage is unavailable")
)

// ObjectStorage hands out presigned URLs for attachment objects
type ObjectStorage interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// AttachmentService runs the two-step upload handshake: the client asks for
// a presigned URL, uploads directly to storage, then confirms.
type AttachmentService struct {
	attachmentRepo collaboration.AttachmentRepository
	targets        collaboration.TargetResolver
	storage        ObjectStorage
	settingsRepo   settings.Repository
	events         shared.EventPublisher
	logger         *zap.Logger
	presignTTL     time.Duration
}

// NewAttachmentService creates a new attachment service. A zero presignTTL
// uses 15 minutes.
func NewAttachmentService(
	attachmentRepo collaboration.AttachmentRepository,
	targets collaboration.TargetResolver,
	storage ObjectStorage,
	settingsRepo settings.Repository,
	events shared.EventPublisher,
	logger *zap.Logger,
	presignTTL time.Duration,
) *AttachmentService {
	if presignTTL <= 0 {
		presignTTL = defaultPresignExpiration
	}
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		targets:        targets,
		storage:        storage,
		settingsRepo:   settingsRepo,
		events:         events,
		logger:         logger,
		presignTTL:     presignTTL,
	}
}

// List returns the confirmed attachments of an entity
func (s *AttachmentService) List(ctx context.Context, tenantID uuid.UUID, q TargetQuery) ([]AttachmentResponse, error) {
	target := collaboration.Target{EntityType: registry.EntityType(q.EntityType), EntityID: q.EntityID}
	if err := registry.RequireAttachable(target.EntityType); err != nil {
		return nil, err
	}
	attachments, err := s.attachmentRepo.FindByTarget(ctx, tenantID, target)
	if err != nil {
		return nil, err
	}
	out := make([]AttachmentResponse, len(attachments))
	for i := range attachments {
		out[i] = ToAttachmentResponse(&attachments[i])
	}
	return out, nil
}

// RequestUpload stores a pending attachment and returns a presigned PUT URL
func (s *AttachmentService) RequestUpload(ctx context.Context, tenantID, uploaderID uuid.UUID, req RequestUploadRequest) (*UploadResponse, error) {
	maxSize, err := s.maxUploadBytes(ctx)
	if err != nil {
		return nil, err
	}
	target := collaboration.Target{EntityType: registry.EntityType(req.EntityType), EntityID: req.EntityID}
	a, err := collaboration.NewAttachment(tenantID, target, uploaderID, req.FileName, req.ContentType, req.Size, maxSize)
	if err != nil {
		return nil, err
	}
	if err := requireTarget(ctx, s.targets, tenantID, target); err != nil {
		return nil, err
	}

	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, a.StorageKey, a.ContentType, s.presignTTL)
	if err != nil {
		s.logger.Error("Failed to presign upload", zap.String("storage_key", a.StorageKey), zap.Error(err))
		return nil, errStorageFailure
	}
	if err := s.attachmentRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	return &UploadResponse{
		Attachment: ToAttachmentResponse(a),
		UploadURL:  url,
		ExpiresAt:  expiresAt,
	}, nil
}

// ConfirmUpload activates a pending attachment once its object exists
func (s *AttachmentService) ConfirmUpload(ctx context.Context, tenantID, id uuid.UUID) (*AttachmentResponse, error) {
	a, err := s.attachmentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	exists, err := s.storage.ObjectExists(ctx, a.StorageKey)
	if err != nil {
		s.logger.Error("Failed to check uploaded object", zap.String("storage_key", a.StorageKey), zap.Error(err))
		return nil, errStorageFailure
	}
	if !exists {
		return nil, ErrUploadMissing
	}
	if err := a.Activate(); err != nil {
		return nil, err
	}
	if err := s.attachmentRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.events, a); err != nil {
		s.logger.Warn("Failed to publish attachment events", zap.String("attachment_id", a.ID.String()), zap.Error(err))
	}
	resp := ToAttachmentResponse(a)
	return &resp, nil
}

// GetDownloadURL returns a presigned GET URL for a confirmed attachment
func (s *AttachmentService) GetDownloadURL(ctx context.Context, tenantID, id uuid.UUID) (*DownloadResponse, error) {
	a, err := s.attachmentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !a.IsActive() {
		return nil, ErrUploadPending
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, a.StorageKey, s.presignTTL)
	if err != nil {
		s.logger.Error("Failed to presign download", zap.String("storage_key", a.StorageKey), zap.Error(err))
		return nil, errStorageFailure
	}
	return &DownloadResponse{URL: url, ExpiresAt: expiresAt}, nil
}

// Delete removes the object and its metadata. Uploaders delete their own
// attachments, managers any.
func (s *AttachmentService) Delete(ctx context.Context, tenantID, id, userID uuid.UUID, role identity.Role) error {
	a, err := s.attachmentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if a.UploaderID != userID && !role.CanManage() {
		return errNotAllowed
	}
	if err := s.storage.DeleteObject(ctx, a.StorageKey); err != nil {
		s.logger.Error("Failed to delete object", zap.String("storage_key", a.StorageKey), zap.Error(err))
		return errStorageFailure
	}
	return s.attachmentRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *AttachmentService) maxUploadBytes(ctx context.Context) (int64, error) {
	system, err := s.settingsRepo.GetSystem(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		system = settings.DefaultSystemSettings()
	} else if err != nil {
		return 0, err
	}
	return system.MaxUploadBytes(), nil
}
