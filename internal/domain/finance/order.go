package finance

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
	"github.com/shopspring/decimal"
)

// OrderStatus of a purchase order
type OrderStatus string

const (
	OrderDraft     OrderStatus = "draft"
	OrderSubmitted OrderStatus = "submitted"
	OrderApproved  OrderStatus = "approved"
	OrderReceived  OrderStatus = "received"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is a project-scoped purchase order to a provider
type Order struct {
	shared.TenantAggregateRoot
	ProjectID    uuid.UUID
	Number       string
	Name         string
	ProviderName string
	Description  string
	OrderDate    time.Time
	RequiredDate *time.Time
	Currency     string
	Amount       decimal.Decimal
	Status       OrderStatus
}

// NewOrder creates a draft order. An empty number is generated as PO-<ksuid>.
func NewOrder(tenantID, projectID uuid.UUID, name, providerName string, orderDate time.Time, currency string) (*Order, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project is required")
	}
	name = strings.TrimSpace(name)
	if err := shared.ValidateItemName(name); err != nil {
		return nil, err
	}
	providerName = strings.TrimSpace(providerName)
	if providerName == "" {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "Provider name is required")
	}
	currency, err := normalizeCurrency(currency)
	if err != nil {
		return nil, err
	}
	if orderDate.IsZero() {
		orderDate = time.Now()
	}
	o := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		Number:              "PO-" + ksuid.New().String(),
		Name:                name,
		ProviderName:        providerName,
		OrderDate:           truncateDay(orderDate),
		Currency:            currency,
		Amount:              decimal.Zero,
		Status:              OrderDraft,
	}
	o.AddDomainEvent(NewOrderCreatedEvent(o))
	return o, nil
}

// SetNumber overrides the generated order number
func (o *Order) SetNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" || utf8.RuneCountInString(number) > 50 {
		return shared.NewDomainError("INVALID_NUMBER", "Order number must be 1 to 50 characters")
	}
	o.Number = number
	o.MarkModified()
	return nil
}

// SetAmount sets the order total; only drafts can change it
func (o *Order) SetAmount(amount decimal.Decimal) error {
	if o.Status != OrderDraft {
		return shared.NewDomainError("ORDER_LOCKED", "Only draft orders can change their amount")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	o.Amount = amount.Round(2)
	o.MarkModified()
	return nil
}

// SetRequiredDate sets the date the goods are needed by
func (o *Order) SetRequiredDate(d *time.Time) error {
	if d != nil && truncateDay(*d).Before(o.OrderDate) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "Required date cannot be before order date")
	}
	o.RequiredDate = d
	o.MarkModified()
	return nil
}

// Update changes the name and provider of an order that is still open
func (o *Order) Update(name, providerName string) error {
	if o.Status == OrderReceived || o.Status == OrderCancelled {
		return shared.NewDomainError("ORDER_LOCKED", "Received or cancelled orders cannot be changed")
	}
	name = strings.TrimSpace(name)
	if err := shared.ValidateItemName(name); err != nil {
		return err
	}
	providerName = strings.TrimSpace(providerName)
	if providerName == "" {
		return shared.NewDomainError("INVALID_PROVIDER", "Provider name is required")
	}
	o.Name = name
	o.ProviderName = providerName
	o.MarkModified()
	return nil
}

// SetDescription replaces the description
func (o *Order) SetDescription(description string) {
	o.Description = strings.TrimSpace(description)
	o.MarkModified()
}

// Submit sends a draft to approval
func (o *Order) Submit() error {
	if o.Status != OrderDraft {
		return shared.NewDomainError("INVALID_ORDER_STATUS", "Only draft orders can be submitted")
	}
	if !o.Amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Order amount must be positive before submission")
	}
	return o.setStatus(OrderSubmitted)
}

// Approve approves a submitted order
func (o *Order) Approve() error {
	if o.Status != OrderSubmitted {
		return shared.NewDomainError("INVALID_ORDER_STATUS", "Only submitted orders can be approved")
	}
	return o.setStatus(OrderApproved)
}

// Receive marks an approved order as delivered
func (o *Order) Receive() error {
	if o.Status != OrderApproved {
		return shared.NewDomainError("INVALID_ORDER_STATUS", "Only approved orders can be received")
	}
	return o.setStatus(OrderReceived)
}

// Cancel voids an order that has not been received
func (o *Order) Cancel() error {
	switch o.Status {
	case OrderReceived:
		return shared.NewDomainError("INVALID_ORDER_STATUS", "A received order cannot be cancelled")
	case OrderCancelled:
		return shared.NewDomainError("ALREADY_CANCELLED", "Order is already cancelled")
	}
	return o.setStatus(OrderCancelled)
}

func (o *Order) setStatus(status OrderStatus) error {
	old := o.Status
	o.Status = status
	o.MarkModified()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, old))
	return nil
}
