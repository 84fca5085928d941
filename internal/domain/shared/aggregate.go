package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries identity and audit timestamps
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity assigns a fresh ID and stamps both timestamps
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

func (e *BaseEntity) GetID() uuid.UUID { return e.ID }

// Touch refreshes UpdatedAt
func (e *BaseEntity) Touch() { e.UpdatedAt = time.Now() }

// AggregateRoot is what PublishPending needs from an aggregate
type AggregateRoot interface {
	GetID() uuid.UUID
	GetVersion() int
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot adds the optimistic-lock version and the events raised
// since the aggregate was loaded. Repositories update the stored row only
// while it still carries the loaded version.
type BaseAggregateRoot struct {
	BaseEntity
	Version int
	loaded  int
	pending []DomainEvent
}

// NewBaseAggregateRoot starts a new aggregate at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

// LoadedVersion is the version the stored row had when the aggregate was
// read or last saved. Zero means the aggregate was never stored.
func (a *BaseAggregateRoot) LoadedVersion() int { return a.loaded }

// Restore sets the version read from storage
func (a *BaseAggregateRoot) Restore(version int) {
	a.Version = version
	a.loaded = version
}

// MarkPersisted records that the current version is now stored
func (a *BaseAggregateRoot) MarkPersisted() { a.loaded = a.Version }

// MarkModified records a state change
func (a *BaseAggregateRoot) MarkModified() {
	a.Touch()
	a.Version++
}

func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.pending = append(a.pending, event)
}

func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent { return a.pending }

func (a *BaseAggregateRoot) ClearDomainEvents() { a.pending = nil }

// TenantAggregateRoot is an aggregate owned by one company
type TenantAggregateRoot struct {
	BaseAggregateRoot
	TenantID  uuid.UUID
	CreatedBy *uuid.UUID
}

// NewTenantAggregateRoot starts a new aggregate owned by tenantID
func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{BaseAggregateRoot: NewBaseAggregateRoot(), TenantID: tenantID}
}

func (t *TenantAggregateRoot) SetCreatedBy(userID uuid.UUID) { t.CreatedBy = &userID }

func (t *TenantAggregateRoot) GetCreatedBy() *uuid.UUID { return t.CreatedBy }
