package planning

import (
	"context"
	"fmt"

	"github.com/derbent/backend/internal/domain/planning"
	"github.com/derbent/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// VelocityHandler recalculates sprint velocity when an activity changes
// status
type VelocityHandler struct {
	sprints *SprintService
	logger  *zap.Logger
}

// NewVelocityHandler creates a handler for activity status events
func NewVelocityHandler(sprints *SprintService, logger *zap.Logger) *VelocityHandler {
	return &VelocityHandler{sprints: sprints, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *VelocityHandler) EventTypes() []string {
	return []string{planning.EventTypeActivityStatusChanged}
}

// Handle processes an ActivityStatusChangedEvent
func (h *VelocityHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*planning.ActivityStatusChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			planning.EventTypeActivityStatusChanged, event.EventType())
	}

	updated, err := h.sprints.RecalculateForItem(ctx, changed.TenantID(), changed.AggregateID())
	if err != nil {
		return fmt.Errorf("failed to recalculate sprint velocity: %w", err)
	}
	if updated > 0 {
		h.logger.Info("Sprint velocity recalculated",
			zap.String("activity_id", changed.AggregateID().String()),
			zap.Int("sprints", updated),
		)
	}
	return nil
}
