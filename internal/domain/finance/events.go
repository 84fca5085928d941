package finance

import (
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeInvoice = "Invoice"
	AggregateTypeOrder   = "Order"
)

// Event type constants
const (
	EventTypeInvoiceCreated         = "InvoiceCreated"
	EventTypeInvoicePaymentRecorded = "InvoicePaymentRecorded"
	EventTypeInvoiceCancelled       = "InvoiceCancelled"
	EventTypeInvoiceOverdue         = "InvoiceOverdue"
	EventTypeOrderCreated           = "OrderCreated"
	EventTypeOrderStatusChanged     = "OrderStatusChanged"
)

// InvoiceCreatedEvent is published when an invoice is issued
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	ProjectID    uuid.UUID `json:"project_id"`
	Number       string    `json:"number"`
	CustomerName string    `json:"customer_name"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(i *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, i.ID, i.TenantID),
		ProjectID:       i.ProjectID,
		Number:          i.Number,
		CustomerName:    i.CustomerName,
	}
}

// InvoicePaymentRecordedEvent is published for every payment
type InvoicePaymentRecordedEvent struct {
	shared.BaseDomainEvent
	Number        string          `json:"number"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
}

// NewInvoicePaymentRecordedEvent creates a new InvoicePaymentRecordedEvent
func NewInvoicePaymentRecordedEvent(i *Invoice, p Payment) *InvoicePaymentRecordedEvent {
	return &InvoicePaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaymentRecorded, AggregateTypeInvoice, i.ID, i.TenantID),
		Number:          i.Number,
		Amount:          p.Amount,
		PaidAmount:      i.PaidAmount,
		PaymentStatus:   i.PaymentStatus,
	}
}

// InvoiceCancelledEvent is published when an invoice is voided
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewInvoiceCancelledEvent creates a new InvoiceCancelledEvent
func NewInvoiceCancelledEvent(i *Invoice) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCancelled, AggregateTypeInvoice, i.ID, i.TenantID),
		Number:          i.Number,
	}
}

// InvoiceOverdueEvent is published by the overdue scan
type InvoiceOverdueEvent struct {
	shared.BaseDomainEvent
	ProjectID        uuid.UUID       `json:"project_id"`
	Number           string          `json:"number"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// NewInvoiceOverdueEvent creates a new InvoiceOverdueEvent
func NewInvoiceOverdueEvent(i *Invoice) *InvoiceOverdueEvent {
	return &InvoiceOverdueEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeInvoiceOverdue, AggregateTypeInvoice, i.ID, i.TenantID),
		ProjectID:        i.ProjectID,
		Number:           i.Number,
		RemainingBalance: i.RemainingBalance(),
	}
}

// OrderCreatedEvent is published when an order is drafted
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	ProjectID    uuid.UUID `json:"project_id"`
	Number       string    `json:"number"`
	ProviderName string    `json:"provider_name"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID, o.TenantID),
		ProjectID:       o.ProjectID,
		Number:          o.Number,
		ProviderName:    o.ProviderName,
	}
}

// OrderStatusChangedEvent is published on every order transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	Number    string      `json:"number"`
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, oldStatus OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID, o.TenantID),
		Number:          o.Number,
		OldStatus:       oldStatus,
		NewStatus:       o.Status,
	}
}
