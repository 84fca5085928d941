package models

import (
	"time"

	"github.com/derbent/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate.
type InvoiceModel struct {
	TenantAggregateModel
	ProjectID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	Number         string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_tenant_number,priority:2"`
	CustomerName   string                `gorm:"type:varchar(200);not null"`
	CustomerEmail  string                `gorm:"type:varchar(200)"`
	CustomerTaxID  string                `gorm:"type:varchar(50)"`
	InvoiceDate    time.Time             `gorm:"type:date;not null"`
	DueDate        *time.Time            `gorm:"type:date;index"`
	Currency       string                `gorm:"type:varchar(3);not null"`
	DiscountRate   decimal.Decimal       `gorm:"type:decimal(5,2);not null;default:0"`
	TaxRate        decimal.Decimal       `gorm:"type:decimal(5,2);not null;default:0"`
	Subtotal       decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount      decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount    decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	PaidAmount     decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentStatus  finance.PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	Notes          string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice with its
// items and payments.
func (m *InvoiceModel) ToDomain(items []InvoiceItemModel, payments []InvoicePaymentModel) *finance.Invoice {
	inv := &finance.Invoice{
		ProjectID:      m.ProjectID,
		Number:         m.Number,
		Name:           m.Number,
		CustomerName:   m.CustomerName,
		CustomerEmail:  m.CustomerEmail,
		CustomerTaxID:  m.CustomerTaxID,
		InvoiceDate:    m.InvoiceDate,
		DueDate:        m.DueDate,
		Currency:       m.Currency,
		DiscountRate:   m.DiscountRate,
		TaxRate:        m.TaxRate,
		Subtotal:       m.Subtotal,
		DiscountAmount: m.DiscountAmount,
		TaxAmount:      m.TaxAmount,
		TotalAmount:    m.TotalAmount,
		PaidAmount:     m.PaidAmount,
		PaymentStatus:  m.PaymentStatus,
		Notes:          m.Notes,
		Items:          make([]finance.InvoiceItem, len(items)),
		Payments:       make([]finance.Payment, len(payments)),
	}
	m.PopulateTenantAggregateRoot(&inv.TenantAggregateRoot)
	for i, it := range items {
		inv.Items[i] = finance.InvoiceItem{
			ID:          it.ID,
			LineNumber:  it.LineNumber,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		}
	}
	for i, p := range payments {
		inv.Payments[i] = finance.Payment{
			ID:        p.ID,
			Amount:    p.Amount,
			PaidAt:    p.PaidAt,
			Reference: p.Reference,
		}
	}
	return inv
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *finance.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		ProjectID:      inv.ProjectID,
		Number:         inv.Number,
		CustomerName:   inv.CustomerName,
		CustomerEmail:  inv.CustomerEmail,
		CustomerTaxID:  inv.CustomerTaxID,
		InvoiceDate:    inv.InvoiceDate,
		DueDate:        inv.DueDate,
		Currency:       inv.Currency,
		DiscountRate:   inv.DiscountRate,
		TaxRate:        inv.TaxRate,
		Subtotal:       inv.Subtotal,
		DiscountAmount: inv.DiscountAmount,
		TaxAmount:      inv.TaxAmount,
		TotalAmount:    inv.TotalAmount,
		PaidAmount:     inv.PaidAmount,
		PaymentStatus:  inv.PaymentStatus,
		Notes:          inv.Notes,
	}
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	return m
}

// InvoiceItemModel is one invoice line.
type InvoiceItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNumber  int             `gorm:"not null"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// InvoicePaymentModel is one payment received against an invoice.
type InvoicePaymentModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaidAt    time.Time       `gorm:"not null"`
	Reference string          `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (InvoicePaymentModel) TableName() string {
	return "invoice_payments"
}

// InvoiceChildModelsFromDomain maps the invoice's lines and payments.
func InvoiceChildModelsFromDomain(inv *finance.Invoice) ([]InvoiceItemModel, []InvoicePaymentModel) {
	items := make([]InvoiceItemModel, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = InvoiceItemModel{
			ID:          it.ID,
			InvoiceID:   inv.ID,
			LineNumber:  it.LineNumber,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		}
	}
	payments := make([]InvoicePaymentModel, len(inv.Payments))
	for i, p := range inv.Payments {
		payments[i] = InvoicePaymentModel{
			ID:        p.ID,
			InvoiceID: inv.ID,
			Amount:    p.Amount,
			PaidAt:    p.PaidAt,
			Reference: p.Reference,
		}
	}
	return items, payments
}

// OrderModel is the persistence model for the Order aggregate.
type OrderModel struct {
	TenantAggregateModel
	ProjectID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	Number       string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_order_tenant_number,priority:2"`
	Name         string              `gorm:"type:varchar(200);not null"`
	ProviderName string              `gorm:"type:varchar(200);not null"`
	Description  string              `gorm:"type:text"`
	OrderDate    time.Time           `gorm:"type:date;not null"`
	RequiredDate *time.Time          `gorm:"type:date"`
	Currency     string              `gorm:"type:varchar(3);not null"`
	Amount       decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	Status       finance.OrderStatus `gorm:"type:varchar(20);not null;default:'draft'"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *finance.Order {
	o := &finance.Order{
		ProjectID:    m.ProjectID,
		Number:       m.Number,
		Name:         m.Name,
		ProviderName: m.ProviderName,
		Description:  m.Description,
		OrderDate:    m.OrderDate,
		RequiredDate: m.RequiredDate,
		Currency:     m.Currency,
		Amount:       m.Amount,
		Status:       m.Status,
	}
	m.PopulateTenantAggregateRoot(&o.TenantAggregateRoot)
	return o
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *finance.Order) *OrderModel {
	m := &OrderModel{
		ProjectID:    o.ProjectID,
		Number:       o.Number,
		Name:         o.Name,
		ProviderName: o.ProviderName,
		Description:  o.Description,
		OrderDate:    o.OrderDate,
		RequiredDate: o.RequiredDate,
		Currency:     o.Currency,
		Amount:       o.Amount,
		Status:       o.Status,
	}
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	return m
}

// LedgerEntryModel stores project expenses and income in one table.
type LedgerEntryModel struct {
	TenantAggregateModel
	ProjectID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	Kind        finance.EntryKind `gorm:"type:varchar(10);not null;index"`
	Amount      decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	EntryDate   time.Time         `gorm:"type:date;not null;index"`
	Category    string            `gorm:"type:varchar(100)"`
	Description string            `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the persistence model to a domain LedgerEntry.
func (m *LedgerEntryModel) ToDomain() *finance.LedgerEntry {
	e := &finance.LedgerEntry{
		ProjectID:   m.ProjectID,
		Kind:        m.Kind,
		Amount:      m.Amount,
		EntryDate:   m.EntryDate,
		Category:    m.Category,
		Description: m.Description,
	}
	m.PopulateTenantAggregateRoot(&e.TenantAggregateRoot)
	return e
}

// LedgerEntryModelFromDomain creates a new persistence model from a domain LedgerEntry.
func LedgerEntryModelFromDomain(e *finance.LedgerEntry) *LedgerEntryModel {
	m := &LedgerEntryModel{
		ProjectID:   e.ProjectID,
		Kind:        e.Kind,
		Amount:      e.Amount,
		EntryDate:   e.EntryDate,
		Category:    e.Category,
		Description: e.Description,
	}
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	return m
}
