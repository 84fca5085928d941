package finance

import (
	"context"
	"time"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for invoice persistence.
// Items and payments are loaded and saved with their invoice.
type InvoiceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	// FindAllForTenant supports the "project_id" and "payment_status" filters
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, int64, error)
	FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]Invoice, error)
	// FindOpenDueBefore returns pending and partial invoices due before day
	FindOpenDueBefore(ctx context.Context, tenantID uuid.UUID, day time.Time) ([]Invoice, error)
	ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error)
	Save(ctx context.Context, invoice *Invoice) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)
	// FindAllForTenant supports the "project_id" and "status" filters
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Order, int64, error)
	Save(ctx context.Context, order *Order) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// LedgerRepository defines the interface for expense and income persistence
type LedgerRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*LedgerEntry, error)
	// FindAllForTenant supports the "project_id", "kind" and "category" filters
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]LedgerEntry, int64, error)
	FindByProjectBetween(ctx context.Context, tenantID, projectID uuid.UUID, from, to time.Time) ([]LedgerEntry, error)
	Save(ctx context.Context, entry *LedgerEntry) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
