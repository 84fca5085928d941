package collaboration

import (
	"path"
	"strings"

	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
)

// AttachmentStatus tracks the upload handshake
type AttachmentStatus string

const (
	AttachmentPending AttachmentStatus = "pending"
	AttachmentActive  AttachmentStatus = "active"
)

const maxFileNameLength = 255

// Attachment is a file stored in object storage and linked to an entity
type Attachment struct {
	shared.TenantAggregateRoot
	Target
	FileName    string
	ContentType string
	Size        int64
	StorageKey  string
	Status      AttachmentStatus
	UploaderID  uuid.UUID
}

// NewAttachment creates a pending attachment and derives its storage key.
// maxSize of 0 disables the size check.
func NewAttachment(tenantID uuid.UUID, target Target, uploaderID uuid.UUID, fileName, contentType string, size, maxSize int64) (*Attachment, error) {
	if err := registry.RequireAttachable(target.EntityType); err != nil {
		return nil, err
	}
	if target.EntityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TARGET", "Entity ID is required")
	}
	name := SanitizeFileName(fileName)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name is required")
	}
	if size <= 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size must be positive")
	}
	if maxSize > 0 && size > maxSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE", "File exceeds the maximum upload size")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	a := &Attachment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Target:              target,
		FileName:            name,
		ContentType:         contentType,
		Size:                size,
		Status:              AttachmentPending,
		UploaderID:          uploaderID,
	}
	a.StorageKey = StorageKey(tenantID, target.EntityType, name)
	a.SetCreatedBy(uploaderID)
	return a, nil
}

// StorageKey builds "<tenant>/<entityType>/<ksuid>/<file>"
func StorageKey(tenantID uuid.UUID, entityType registry.EntityType, fileName string) string {
	return path.Join(tenantID.String(), string(entityType), ksuid.New().String(), fileName)
}

// Activate marks the upload as confirmed
func (a *Attachment) Activate() error {
	if a.Status == AttachmentActive {
		return shared.NewDomainError("ATTACHMENT_ACTIVE", "Attachment is already active")
	}
	a.Status = AttachmentActive
	a.MarkModified()
	a.AddDomainEvent(NewAttachmentUploadedEvent(a))
	return nil
}

// IsActive reports whether the upload was confirmed
func (a *Attachment) IsActive() bool {
	return a.Status == AttachmentActive
}

// SanitizeFileName strips directories and characters unsafe in object keys
func SanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 0x20, r == 0x7f:
			continue
		case strings.ContainsRune(`?#%"<>|*:`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	out := []rune(b.String())
	if len(out) > maxFileNameLength {
		ext := []rune(path.Ext(string(out)))
		if len(ext) > 20 {
			ext = nil
		}
		out = append(out[:maxFileNameLength-len(ext)], ext...)
	}
	return string(out)
}
