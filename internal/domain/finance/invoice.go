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

// PaymentStatus of an invoice
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPartial   PaymentStatus = "partial"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
)

// DefaultPaymentTermDays is used when an invoice has no due date
const DefaultPaymentTermDays = 30

var hundred = decimal.NewFromInt(100)

// InvoiceItem is one billed line
type InvoiceItem struct {
	ID          uuid.UUID
	LineNumber  int
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// Payment is money received against an invoice
type Payment struct {
	ID        uuid.UUID
	Amount    decimal.Decimal
	PaidAt    time.Time
	Reference string
}

// Invoice is a project-scoped customer invoice
type Invoice struct {
	shared.TenantAggregateRoot
	ProjectID      uuid.UUID
	Number         string
	Name           string
	CustomerName   string
	CustomerEmail  string
	CustomerTaxID  string
	InvoiceDate    time.Time
	DueDate        *time.Time
	Currency       string
	Items          []InvoiceItem
	DiscountRate   decimal.Decimal
	TaxRate        decimal.Decimal
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
	PaidAmount     decimal.Decimal
	Payments       []Payment
	PaymentStatus  PaymentStatus
	Notes          string
}

// NewInvoice creates a pending invoice. An empty number is generated as
// INV-<ksuid>, which sorts by creation time.
func NewInvoice(tenantID, projectID uuid.UUID, number, customerName string, invoiceDate time.Time, currency string) (*Invoice, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project is required")
	}
	number = strings.TrimSpace(number)
	if number == "" {
		number = "INV-" + ksuid.New().String()
	}
	if utf8.RuneCountInString(number) > 50 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name is required")
	}
	currency, err := normalizeCurrency(currency)
	if err != nil {
		return nil, err
	}
	if invoiceDate.IsZero() {
		invoiceDate = time.Now()
	}
	invoiceDate = truncateDay(invoiceDate)
	due := invoiceDate.AddDate(0, 0, DefaultPaymentTermDays)

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		Number:              number,
		Name:                number,
		CustomerName:        customerName,
		InvoiceDate:         invoiceDate,
		DueDate:             &due,
		Currency:            currency,
		Items:               make([]InvoiceItem, 0),
		DiscountRate:        decimal.Zero,
		TaxRate:             decimal.Zero,
		Subtotal:            decimal.Zero,
		DiscountAmount:      decimal.Zero,
		TaxAmount:           decimal.Zero,
		TotalAmount:         decimal.Zero,
		PaidAmount:          decimal.Zero,
		Payments:            make([]Payment, 0),
		PaymentStatus:       PaymentPending,
	}
	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))
	return inv, nil
}

// SetCustomer updates the billing contact
func (i *Invoice) SetCustomer(name, email, taxID string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer name is required")
	}
	if utf8.RuneCountInString(name) > 200 || utf8.RuneCountInString(email) > 200 || utf8.RuneCountInString(taxID) > 50 {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer fields are too long")
	}
	i.CustomerName = name
	i.CustomerEmail = strings.ToLower(strings.TrimSpace(email))
	i.CustomerTaxID = strings.TrimSpace(taxID)
	i.MarkModified()
	return nil
}

// SetNotes replaces the free-text notes
func (i *Invoice) SetNotes(notes string) error {
	if utf8.RuneCountInString(notes) > 5000 {
		return shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 5000 characters")
	}
	i.Notes = strings.TrimSpace(notes)
	i.MarkModified()
	return nil
}

// SetDueDate sets the due date, which cannot precede the invoice date
func (i *Invoice) SetDueDate(due *time.Time) error {
	if due != nil {
		d := truncateDay(*due)
		if d.Before(i.InvoiceDate) {
			return shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before invoice date")
		}
		due = &d
	}
	i.DueDate = due
	i.MarkModified()
	return nil
}

// SetRates sets discount and tax percentages and recalculates
func (i *Invoice) SetRates(discountRate, taxRate decimal.Decimal) error {
	if err := i.ensureEditable(); err != nil {
		return err
	}
	if discountRate.IsNegative() || discountRate.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_DISCOUNT_RATE", "Discount rate must be between 0 and 100")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	i.DiscountRate = discountRate
	i.TaxRate = taxRate
	i.RecalculateAmounts()
	return nil
}

// AddItem appends a line and recalculates
func (i *Invoice) AddItem(description string, quantity, unitPrice decimal.Decimal) (*InvoiceItem, error) {
	if err := i.ensureEditable(); err != nil {
		return nil, err
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item description is required")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	item := InvoiceItem{
		ID:          uuid.New(),
		LineNumber:  len(i.Items) + 1,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		LineTotal:   quantity.Mul(unitPrice).Round(2),
	}
	i.Items = append(i.Items, item)
	i.RecalculateAmounts()
	return &item, nil
}

// RemoveItem drops a line, renumbers the rest and recalculates
func (i *Invoice) RemoveItem(itemID uuid.UUID) error {
	if err := i.ensureEditable(); err != nil {
		return err
	}
	for idx, it := range i.Items {
		if it.ID != itemID {
			continue
		}
		i.Items = append(i.Items[:idx], i.Items[idx+1:]...)
		for n := range i.Items {
			i.Items[n].LineNumber = n + 1
		}
		i.RecalculateAmounts()
		return nil
	}
	return shared.NotFound("Invoice item")
}

// RecalculateAmounts derives subtotal, discount, tax and total from the
// lines and rates. Discount and tax are rounded half-up to cents.
func (i *Invoice) RecalculateAmounts() {
	subtotal := decimal.Zero
	for _, it := range i.Items {
		subtotal = subtotal.Add(it.LineTotal)
	}
	discount := decimal.Zero
	if i.DiscountRate.IsPositive() {
		discount = subtotal.Mul(i.DiscountRate).Div(hundred).Round(2)
	}
	taxable := subtotal.Sub(discount)
	tax := decimal.Zero
	if i.TaxRate.IsPositive() {
		tax = taxable.Mul(i.TaxRate).Div(hundred).Round(2)
	}
	i.Subtotal = subtotal
	i.DiscountAmount = discount
	i.TaxAmount = tax
	i.TotalAmount = taxable.Add(tax)
	i.MarkModified()
}

// RecordPayment registers a payment and updates the payment status
func (i *Invoice) RecordPayment(amount decimal.Decimal, paidAt time.Time, reference string) (*Payment, error) {
	if i.PaymentStatus == PaymentCancelled {
		return nil, shared.NewDomainError("INVOICE_CANCELLED", "Cannot record a payment on a cancelled invoice")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(i.RemainingBalance()) {
		return nil, shared.NewDomainError("OVERPAYMENT", "Payment exceeds the remaining balance")
	}
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	p := Payment{ID: uuid.New(), Amount: amount.Round(2), PaidAt: paidAt, Reference: strings.TrimSpace(reference)}
	i.Payments = append(i.Payments, p)
	i.PaidAmount = i.PaidAmount.Add(p.Amount)
	if i.RemainingBalance().IsZero() {
		i.PaymentStatus = PaymentPaid
	} else {
		i.PaymentStatus = PaymentPartial
	}
	i.MarkModified()
	i.AddDomainEvent(NewInvoicePaymentRecordedEvent(i, p))
	return &p, nil
}

// Cancel voids an unpaid invoice
func (i *Invoice) Cancel() error {
	switch i.PaymentStatus {
	case PaymentPaid:
		return shared.NewDomainError("INVOICE_PAID", "A paid invoice cannot be cancelled")
	case PaymentCancelled:
		return shared.NewDomainError("ALREADY_CANCELLED", "Invoice is already cancelled")
	}
	i.PaymentStatus = PaymentCancelled
	i.MarkModified()
	i.AddDomainEvent(NewInvoiceCancelledEvent(i))
	return nil
}

// RemainingBalance is total minus paid, never negative
func (i *Invoice) RemainingBalance() decimal.Decimal {
	return decimal.Max(i.TotalAmount.Sub(i.PaidAmount), decimal.Zero)
}

// IsOverdue is true when the due date lies before today and the invoice
// is neither paid nor cancelled.
func (i *Invoice) IsOverdue(now time.Time) bool {
	if i.DueDate == nil || i.PaymentStatus == PaymentPaid || i.PaymentStatus == PaymentCancelled {
		return false
	}
	return i.DueDate.Before(truncateDay(now))
}

// DaysUntilDue is negative for past due dates and 0 without a due date
func (i *Invoice) DaysUntilDue(now time.Time) int {
	if i.DueDate == nil {
		return 0
	}
	return daysBetween(truncateDay(now), truncateDay(*i.DueDate))
}

func (i *Invoice) ensureEditable() error {
	if i.PaymentStatus != PaymentPending {
		return shared.NewDomainError("INVOICE_LOCKED", "Only pending invoices can be edited")
	}
	return nil
}
