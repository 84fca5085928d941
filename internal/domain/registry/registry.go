// Package registry catalogues the entity types exposed by the application.
// Comments, attachments and workflows reference records by entity type, and
// this catalogue decides which types accept them.
package registry

import (
	"sort"

	"github.com/derbent/backend/internal/domain/shared"
)

// EntityType is the stable name of a record type
type EntityType string

const (
	TypeProject           EntityType = "project"
	TypeActivity          EntityType = "activity"
	TypeMeeting           EntityType = "meeting"
	TypeRisk              EntityType = "risk"
	TypeDecision          EntityType = "decision"
	TypeOrder             EntityType = "order"
	TypeInvoice           EntityType = "invoice"
	TypeAsset             EntityType = "asset"
	TypeSprint            EntityType = "sprint"
	TypeValidationSession EntityType = "validation_session"
)

// Descriptor carries display and capability metadata for an entity type
type Descriptor struct {
	Type        EntityType `json:"type"`
	Title       string     `json:"title"`
	PluralTitle string     `json:"plural_title"`
	Icon        string     `json:"icon"`
	Color       string     `json:"color"`
	StatusAware bool       `json:"status_aware"`
	Commentable bool       `json:"commentable"`
	Attachable  bool       `json:"attachable"`
}

var descriptors = map[EntityType]Descriptor{
	TypeProject:           {TypeProject, "Project", "Projects", "folder", "#1E88E5", false, true, true},
	TypeActivity:          {TypeActivity, "Activity", "Activities", "tasks", "#43A047", true, true, true},
	TypeMeeting:           {TypeMeeting, "Meeting", "Meetings", "calendar", "#8E24AA", true, true, true},
	TypeRisk:              {TypeRisk, "Risk", "Risks", "warning", "#E53935", true, true, true},
	TypeDecision:          {TypeDecision, "Decision", "Decisions", "gavel", "#6D4C41", true, true, true},
	TypeOrder:             {TypeOrder, "Order", "Orders", "cart", "#FB8C00", false, true, true},
	TypeInvoice:           {TypeInvoice, "Invoice", "Invoices", "receipt", "#00897B", false, true, true},
	TypeAsset:             {TypeAsset, "Asset", "Assets", "box", "#546E7A", false, true, true},
	TypeSprint:            {TypeSprint, "Sprint", "Sprints", "flag", "#3949AB", false, true, false},
	TypeValidationSession: {TypeValidationSession, "Validation Session", "Validation Sessions", "check", "#7CB342", false, true, true},
}

// Lookup returns the descriptor of an entity type
func Lookup(t EntityType) (Descriptor, bool) {
	d, ok := descriptors[t]
	return d, ok
}

// All returns every descriptor ordered by type name
func All() []Descriptor {
	out := make([]Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// RequireStatusAware fails unless t can carry a workflow status
func RequireStatusAware(t EntityType) error {
	d, ok := descriptors[t]
	if !ok || !d.StatusAware {
		return shared.NewDomainError("INVALID_ENTITY_TYPE", "Entity type '"+string(t)+"' does not support workflows")
	}
	return nil
}

// RequireCommentable fails unless t accepts comments
func RequireCommentable(t EntityType) error {
	d, ok := descriptors[t]
	if !ok || !d.Commentable {
		return shared.NewDomainError("INVALID_ENTITY_TYPE", "Entity type '"+string(t)+"' does not accept comments")
	}
	return nil
}

// RequireAttachable fails unless t accepts attachments
func RequireAttachable(t EntityType) error {
	d, ok := descriptors[t]
	if !ok || !d.Attachable {
		return shared.NewDomainError("INVALID_ENTITY_TYPE", "Entity type '"+string(t)+"' does not accept attachments")
	}
	return nil
}
