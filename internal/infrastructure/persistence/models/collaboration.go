package models

import (
	"github.com/derbent/backend/internal/domain/collaboration"
	"github.com/derbent/backend/internal/domain/registry"
	"github.com/google/uuid"
)

// CommentModel is the persistence model for comments.
type CommentModel struct {
	TenantAggregateModel
	EntityType registry.EntityType `gorm:"type:varchar(50);not null;index:idx_comment_target,priority:1"`
	EntityID   uuid.UUID           `gorm:"type:uuid;not null;index:idx_comment_target,priority:2"`
	AuthorID   uuid.UUID           `gorm:"type:uuid;not null"`
	Text       string              `gorm:"type:text;not null"`
	Edited     bool                `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CommentModel) TableName() string {
	return "comments"
}

// ToDomain converts the persistence model to a domain Comment.
func (m *CommentModel) ToDomain() *collaboration.Comment {
	c := &collaboration.Comment{
		Target:   collaboration.Target{EntityType: m.EntityType, EntityID: m.EntityID},
		AuthorID: m.AuthorID,
		Text:     m.Text,
		Edited:   m.Edited,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// CommentModelFromDomain creates a new persistence model from a domain Comment.
func CommentModelFromDomain(c *collaboration.Comment) *CommentModel {
	m := &CommentModel{
		EntityType: c.EntityType,
		EntityID:   c.EntityID,
		AuthorID:   c.AuthorID,
		Text:       c.Text,
		Edited:     c.Edited,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}

// AttachmentModel is the persistence model for attachment metadata.
type AttachmentModel struct {
	TenantAggregateModel
	EntityType  registry.EntityType            `gorm:"type:varchar(50);not null;index:idx_attachment_target,priority:1"`
	EntityID    uuid.UUID                      `gorm:"type:uuid;not null;index:idx_attachment_target,priority:2"`
	FileName    string                         `gorm:"type:varchar(255);not null"`
	ContentType string                         `gorm:"type:varchar(200);not null"`
	Size        int64                          `gorm:"not null"`
	StorageKey  string                         `gorm:"type:varchar(600);not null;uniqueIndex"`
	Status      collaboration.AttachmentStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	UploaderID  uuid.UUID                      `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (AttachmentModel) TableName() string {
	return "attachments"
}

// ToDomain converts the persistence model to a domain Attachment.
func (m *AttachmentModel) ToDomain() *collaboration.Attachment {
	a := &collaboration.Attachment{
		Target:      collaboration.Target{EntityType: m.EntityType, EntityID: m.EntityID},
		FileName:    m.FileName,
		ContentType: m.ContentType,
		Size:        m.Size,
		StorageKey:  m.StorageKey,
		Status:      m.Status,
		UploaderID:  m.UploaderID,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

// AttachmentModelFromDomain creates a new persistence model from a domain Attachment.
func AttachmentModelFromDomain(a *collaboration.Attachment) *AttachmentModel {
	m := &AttachmentModel{
		EntityType:  a.EntityType,
		EntityID:    a.EntityID,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		Size:        a.Size,
		StorageKey:  a.StorageKey,
		Status:      a.Status,
		UploaderID:  a.UploaderID,
	}
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	return m
}
