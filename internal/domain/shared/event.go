package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact recorded by an aggregate. Every event belongs to the
// company of the aggregate that raised it; the bus uses TenantID to keep
// handlers inside one company.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
}

// BaseDomainEvent is embedded by concrete events to satisfy DomainEvent
type BaseDomainEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Aggregate uuid.UUID `json:"aggregate_id"`
	Kind      string    `json:"aggregate_type"`
	Company   uuid.UUID `json:"tenant_id"`
}

// NewBaseDomainEvent stamps a new event raised by the aggregate kind/id of tenantID
func NewBaseDomainEvent(eventType, kind string, aggregateID, tenantID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Aggregate: aggregateID,
		Kind:      kind,
		Company:   tenantID,
	}
}

func (e BaseDomainEvent) EventID() uuid.UUID     { return e.ID }
func (e BaseDomainEvent) EventType() string      { return e.Type }
func (e BaseDomainEvent) OccurredAt() time.Time  { return e.Timestamp }
func (e BaseDomainEvent) AggregateID() uuid.UUID { return e.Aggregate }
func (e BaseDomainEvent) AggregateType() string  { return e.Kind }
func (e BaseDomainEvent) TenantID() uuid.UUID    { return e.Company }
