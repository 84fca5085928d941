package finance

import (
	"context"
	"time"

	"github.com/derbent/backend/internal/domain/finance"
	"github.com/derbent/backend/internal/domain/settings"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InvoiceService handles invoices, their lines and payments
type InvoiceService struct {
	invoiceRepo  finance.InvoiceRepository
	projects     ActiveProjects
	settingsRepo settings.Repository
	events       shared.EventPublisher
	logger       *zap.Logger
	now          func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo finance.InvoiceRepository,
	projects ActiveProjects,
	settingsRepo settings.Repository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		projects:     projects,
		settingsRepo: settingsRepo,
		events:       events,
		logger:       logger,
		now:          time.Now,
	}
}

// Create creates a pending invoice with its lines
func (s *InvoiceService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if _, err := s.projects.RequireActive(ctx, tenantID, req.ProjectID); err != nil {
		return nil, err
	}
	if req.Number != "" {
		exists, err := s.invoiceRepo.ExistsByNumber(ctx, tenantID, req.Number)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Invoice with this number already exists")
		}
	}
	currency := req.Currency
	if currency == "" {
		c, err := companyCurrency(ctx, s.settingsRepo, tenantID)
		if err != nil {
			return nil, err
		}
		currency = c
	}

	invoice, err := finance.NewInvoice(tenantID, req.ProjectID, req.Number, req.CustomerName, req.InvoiceDate, currency)
	if err != nil {
		return nil, err
	}
	if err := invoice.SetCustomer(req.CustomerName, req.CustomerEmail, req.CustomerTaxID); err != nil {
		return nil, err
	}
	if req.DueDate != nil {
		if err := invoice.SetDueDate(req.DueDate); err != nil {
			return nil, err
		}
	}
	for _, it := range req.Items {
		if _, err := invoice.AddItem(it.Description, it.Quantity, it.UnitPrice); err != nil {
			return nil, err
		}
	}
	if err := invoice.SetRates(req.DiscountRate, req.TaxRate); err != nil {
		return nil, err
	}
	if err := invoice.SetNotes(req.Notes); err != nil {
		return nil, err
	}
	invoice.SetCreatedBy(createdBy)
	return s.save(ctx, invoice)
}

// GetByID retrieves an invoice
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(invoice, s.now())
	return &resp, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := filter.Query.Filter("invoice_date", "desc")
	setFilter(domainFilter, "project_id", filter.ProjectID)
	setFilter(domainFilter, "payment_status", filter.PaymentStatus)

	invoices, total, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	out := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = ToInvoiceResponse(&invoices[i], now)
	}
	return out, total, nil
}

// Update changes the customer, due date, rates and notes
func (s *InvoiceService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, id, func(invoice *finance.Invoice) error {
		if err := invoice.SetCustomer(req.CustomerName, req.CustomerEmail, req.CustomerTaxID); err != nil {
			return err
		}
		if req.DueDate != nil {
			if err := invoice.SetDueDate(req.DueDate); err != nil {
				return err
			}
		}
		if !req.DiscountRate.Equal(invoice.DiscountRate) || !req.TaxRate.Equal(invoice.TaxRate) {
			if err := invoice.SetRates(req.DiscountRate, req.TaxRate); err != nil {
				return err
			}
		}
		return invoice.SetNotes(req.Notes)
	})
}

// AddItem appends a line to a pending invoice
func (s *InvoiceService) AddItem(ctx context.Context, tenantID, id uuid.UUID, req InvoiceItemRequest) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, id, func(invoice *finance.Invoice) error {
		_, err := invoice.AddItem(req.Description, req.Quantity, req.UnitPrice)
		return err
	})
}

// RemoveItem drops a line from a pending invoice
func (s *InvoiceService) RemoveItem(ctx context.Context, tenantID, id, itemID uuid.UUID) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, id, func(invoice *finance.Invoice) error {
		return invoice.RemoveItem(itemID)
	})
}

// RecordPayment registers a payment against the remaining balance
func (s *InvoiceService) RecordPayment(ctx context.Context, tenantID, id uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, id, func(invoice *finance.Invoice) error {
		_, err := invoice.RecordPayment(req.Amount, req.PaidAt, req.Reference)
		return err
	})
}

// Cancel voids an unpaid invoice
func (s *InvoiceService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, id, (*finance.Invoice).Cancel)
}

// Delete removes an invoice that has no payments
func (s *InvoiceService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if len(invoice.Payments) > 0 {
		return shared.NewDomainError("INVOICE_HAS_PAYMENTS", "Invoices with payments cannot be deleted, cancel them instead")
	}
	return s.invoiceRepo.DeleteForTenant(ctx, tenantID, id)
}

// Overdue returns the company's open invoices that are past due
func (s *InvoiceService) Overdue(ctx context.Context, tenantID uuid.UUID) ([]finance.Invoice, error) {
	now := s.now()
	invoices, err := s.invoiceRepo.FindOpenDueBefore(ctx, tenantID, now)
	if err != nil {
		return nil, err
	}
	overdue := invoices[:0]
	for _, inv := range invoices {
		if inv.IsOverdue(now) {
			overdue = append(overdue, inv)
		}
	}
	return overdue, nil
}

func (s *InvoiceService) mutate(ctx context.Context, tenantID, id uuid.UUID, change func(*finance.Invoice) error) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := change(invoice); err != nil {
		return nil, err
	}
	return s.save(ctx, invoice)
}

func (s *InvoiceService) save(ctx context.Context, invoice *finance.Invoice) (*InvoiceResponse, error) {
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.events, invoice); err != nil {
		s.logger.Warn("Failed to publish invoice events", zap.String("invoice_id", invoice.ID.String()), zap.Error(err))
	}
	resp := ToInvoiceResponse(invoice, s.now())
	return &resp, nil
}
