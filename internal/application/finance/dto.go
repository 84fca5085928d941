package finance

import (
	"time"

	"github.com/derbent/backend/internal/application/listing"
	"github.com/derbent/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest represents a request to create a purchase order
type CreateOrderRequest struct {
	ProjectID    uuid.UUID        `json:"project_id" binding:"required"`
	Number       string           `json:"number" binding:"max=50"`
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	ProviderName string           `json:"provider_name" binding:"required,max=200"`
	Description  string           `json:"description" binding:"max=2000"`
	OrderDate    time.Time        `json:"order_date"`
	RequiredDate *time.Time       `json:"required_date"`
	Currency     string           `json:"currency" binding:"omitempty,len=3"`
	Amount       *decimal.Decimal `json:"amount"`
}

// UpdateOrderRequest represents a request to update an order
type UpdateOrderRequest struct {
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	ProviderName string           `json:"provider_name" binding:"required,max=200"`
	Description  string           `json:"description" binding:"max=2000"`
	RequiredDate *time.Time       `json:"required_date"`
	Amount       *decimal.Decimal `json:"amount"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	listing.Query
	ProjectID string `form:"project_id" binding:"omitempty,uuid"`
	Status    string `form:"status" binding:"omitempty,oneof=draft submitted approved received cancelled"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProjectID    uuid.UUID       `json:"project_id"`
	Number       string          `json:"number"`
	Name         string          `json:"name"`
	ProviderName string          `json:"provider_name"`
	Description  string          `json:"description"`
	OrderDate    time.Time       `json:"order_date"`
	RequiredDate *time.Time      `json:"required_date,omitempty"`
	Currency     string          `json:"currency"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *finance.Order) OrderResponse {
	return OrderResponse{
		ID:           o.ID,
		ProjectID:    o.ProjectID,
		Number:       o.Number,
		Name:         o.Name,
		ProviderName: o.ProviderName,
		Description:  o.Description,
		OrderDate:    o.OrderDate,
		RequiredDate: o.RequiredDate,
		Currency:     o.Currency,
		Amount:       o.Amount,
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		Version:      o.Version,
	}
}

// InvoiceItemRequest is one billed line
type InvoiceItemRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateInvoiceRequest represents a request to create an invoice
type CreateInvoiceRequest struct {
	ProjectID     uuid.UUID            `json:"project_id" binding:"required"`
	Number        string               `json:"number" binding:"max=50"`
	CustomerName  string               `json:"customer_name" binding:"required,max=200"`
	CustomerEmail string               `json:"customer_email" binding:"omitempty,email,max=200"`
	CustomerTaxID string               `json:"customer_tax_id" binding:"max=50"`
	InvoiceDate   time.Time            `json:"invoice_date"`
	DueDate       *time.Time           `json:"due_date"`
	Currency      string               `json:"currency" binding:"omitempty,len=3"`
	DiscountRate  decimal.Decimal      `json:"discount_rate"`
	TaxRate       decimal.Decimal      `json:"tax_rate"`
	Notes         string               `json:"notes" binding:"max=5000"`
	Items         []InvoiceItemRequest `json:"items" binding:"dive"`
}

// UpdateInvoiceRequest represents a request to update invoice header fields
type UpdateInvoiceRequest struct {
	CustomerName  string          `json:"customer_name" binding:"required,max=200"`
	CustomerEmail string          `json:"customer_email" binding:"omitempty,email,max=200"`
	CustomerTaxID string          `json:"customer_tax_id" binding:"max=50"`
	DueDate       *time.Time      `json:"due_date"`
	DiscountRate  decimal.Decimal `json:"discount_rate"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Notes         string          `json:"notes" binding:"max=5000"`
}

// RecordPaymentRequest registers money received
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	PaidAt    time.Time       `json:"paid_at"`
	Reference string          `json:"reference" binding:"max=100"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	listing.Query
	ProjectID     string `form:"project_id" binding:"omitempty,uuid"`
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=pending partial paid cancelled"`
}

// InvoiceItemResponse represents an invoice line in API responses
type InvoiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	LineNumber  int             `json:"line_number"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    time.Time       `json:"paid_at"`
	Reference string          `json:"reference"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID               uuid.UUID             `json:"id"`
	ProjectID        uuid.UUID             `json:"project_id"`
	Number           string                `json:"number"`
	CustomerName     string                `json:"customer_name"`
	CustomerEmail    string                `json:"customer_email"`
	CustomerTaxID    string                `json:"customer_tax_id"`
	InvoiceDate      time.Time             `json:"invoice_date"`
	DueDate          *time.Time            `json:"due_date,omitempty"`
	Currency         string                `json:"currency"`
	Items            []InvoiceItemResponse `json:"items"`
	DiscountRate     decimal.Decimal       `json:"discount_rate"`
	TaxRate          decimal.Decimal       `json:"tax_rate"`
	Subtotal         decimal.Decimal       `json:"subtotal"`
	DiscountAmount   decimal.Decimal       `json:"discount_amount"`
	TaxAmount        decimal.Decimal       `json:"tax_amount"`
	TotalAmount      decimal.Decimal       `json:"total_amount"`
	PaidAmount       decimal.Decimal       `json:"paid_amount"`
	RemainingBalance decimal.Decimal       `json:"remaining_balance"`
	Payments         []PaymentResponse     `json:"payments"`
	PaymentStatus    string                `json:"payment_status"`
	IsOverdue        bool                  `json:"is_overdue"`
	DaysUntilDue     int                   `json:"days_until_due"`
	Notes            string                `json:"notes"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
	Version          int                   `json:"version"`
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(i *finance.Invoice, now time.Time) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(i.Items))
	for n, it := range i.Items {
		items[n] = InvoiceItemResponse{
			ID:          it.ID,
			LineNumber:  it.LineNumber,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		}
	}
	payments := make([]PaymentResponse, len(i.Payments))
	for n, p := range i.Payments {
		payments[n] = PaymentResponse{ID: p.ID, Amount: p.Amount, PaidAt: p.PaidAt, Reference: p.Reference}
	}
	return InvoiceResponse{
		ID:               i.ID,
		ProjectID:        i.ProjectID,
		Number:           i.Number,
		CustomerName:     i.CustomerName,
		CustomerEmail:    i.CustomerEmail,
		CustomerTaxID:    i.CustomerTaxID,
		InvoiceDate:      i.InvoiceDate,
		DueDate:          i.DueDate,
		Currency:         i.Currency,
		Items:            items,
		DiscountRate:     i.DiscountRate,
		TaxRate:          i.TaxRate,
		Subtotal:         i.Subtotal,
		DiscountAmount:   i.DiscountAmount,
		TaxAmount:        i.TaxAmount,
		TotalAmount:      i.TotalAmount,
		PaidAmount:       i.PaidAmount,
		RemainingBalance: i.RemainingBalance(),
		Payments:         payments,
		PaymentStatus:    string(i.PaymentStatus),
		IsOverdue:        i.IsOverdue(now),
		DaysUntilDue:     i.DaysUntilDue(now),
		Notes:            i.Notes,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
		Version:          i.Version,
	}
}

// LedgerEntryRequest creates or updates an expense or income
type LedgerEntryRequest struct {
	ProjectID   uuid.UUID       `json:"project_id" binding:"required"`
	Kind        string          `json:"kind" binding:"required,oneof=expense income"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	EntryDate   time.Time       `json:"entry_date" binding:"required"`
	Category    string          `json:"category" binding:"max=100"`
	Description string          `json:"description" binding:"max=2000"`
}

// LedgerListFilter represents filter options for the ledger list
type LedgerListFilter struct {
	listing.Query
	ProjectID string `form:"project_id" binding:"omitempty,uuid"`
	Kind      string `form:"kind" binding:"omitempty,oneof=expense income"`
	Category  string `form:"category"`
}

// LedgerEntryResponse represents an expense or income in API responses
type LedgerEntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProjectID   uuid.UUID       `json:"project_id"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	EntryDate   time.Time       `json:"entry_date"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToLedgerEntryResponse converts a domain LedgerEntry
func ToLedgerEntryResponse(e *finance.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:          e.ID,
		ProjectID:   e.ProjectID,
		Kind:        string(e.Kind),
		Amount:      e.Amount,
		EntryDate:   e.EntryDate,
		Category:    e.Category,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// SummaryQuery selects the project and period of a financial summary
type SummaryQuery struct {
	ProjectID uuid.UUID  `form:"project_id" binding:"required"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
}
