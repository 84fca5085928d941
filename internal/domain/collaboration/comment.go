package collaboration

import (
	"strings"
	"unicode/utf8"

	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxCommentLength bounds comment text in characters
const MaxCommentLength = 4000

// Target identifies the entity a comment or attachment belongs to
type Target struct {
	EntityType registry.EntityType
	EntityID   uuid.UUID
}

// Comment is free text attached to an entity
type Comment struct {
	shared.TenantAggregateRoot
	Target
	AuthorID uuid.UUID
	Text     string
	Edited   bool
}

// NewComment creates a comment on a commentable entity
func NewComment(tenantID uuid.UUID, target Target, authorID uuid.UUID, text string) (*Comment, error) {
	if err := registry.RequireCommentable(target.EntityType); err != nil {
		return nil, err
	}
	if target.EntityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TARGET", "Entity ID is required")
	}
	text, err := normalizeText(text)
	if err != nil {
		return nil, err
	}
	c := &Comment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Target:              target,
		AuthorID:            authorID,
		Text:                text,
	}
	c.SetCreatedBy(authorID)
	c.AddDomainEvent(NewCommentAddedEvent(c))
	return c, nil
}

// Edit replaces the text. Only the author may edit.
func (c *Comment) Edit(editorID uuid.UUID, text string) error {
	if editorID != c.AuthorID {
		return shared.NewDomainError("FORBIDDEN", "Only the author can edit a comment")
	}
	text, err := normalizeText(text)
	if err != nil {
		return err
	}
	if text == c.Text {
		return nil
	}
	c.Text = text
	c.Edited = true
	c.MarkModified()
	return nil
}

// CanDelete reports whether the user may delete the comment
func (c *Comment) CanDelete(userID uuid.UUID, isManager bool) bool {
	return isManager || userID == c.AuthorID
}

func normalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", shared.NewDomainError("INVALID_COMMENT", "Comment text cannot be empty")
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return "", shared.NewDomainError("INVALID_COMMENT", "Comment text cannot exceed 4000 characters")
	}
	return text, nil
}
