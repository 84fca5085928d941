package persistence

import (
	"context"
	"time"

	"github.com/derbent/backend/internal/domain/finance"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/infrastructure/persistence/models"
	"github.com/derbent/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByIDForTenant finds an invoice with its lines and payments
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	db := r.db.WithContext(ctx)
	var model models.InvoiceModel
	if err := db.Scopes(tenant.TenantScope(tenantID)).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	invoices, err := r.attach(db, []models.InvoiceModel{model})
	if err != nil {
		return nil, err
	}
	return &invoices[0], nil
}

// FindAllForTenant lists invoices; supports "project_id" and "payment_status"
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Invoice, int64, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.InvoiceModel{}).Scopes(tenant.TenantScope(tenantID))
	query = applySearch(query, filter.Search, "number", "customer_name")
	query = applyEquals(query, filter.Filters, "project_id", "payment_status")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.InvoiceModel
	if err := applyPaging(query, filter, InvoiceSortFields, "invoice_date DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	invoices, err := r.attach(db, rows)
	return invoices, total, err
}

// FindByProject returns every invoice of a project
func (r *GormInvoiceRepository) FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]finance.Invoice, error) {
	db := r.db.WithContext(ctx)
	var rows []models.InvoiceModel
	if err := db.Scopes(tenant.TenantScope(tenantID), tenant.ProjectScope(projectID)).
		Order("invoice_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.attach(db, rows)
}

// FindOpenDueBefore returns unpaid or partially paid invoices due before day
func (r *GormInvoiceRepository) FindOpenDueBefore(ctx context.Context, tenantID uuid.UUID, day time.Time) ([]finance.Invoice, error) {
	db := r.db.WithContext(ctx)
	var rows []models.InvoiceModel
	if err := db.Scopes(tenant.TenantScope(tenantID)).
		Where("payment_status IN ? AND due_date < ?",
			[]finance.PaymentStatus{finance.PaymentPending, finance.PaymentPartial}, day).
		Order("due_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.attach(db, rows)
}

// ExistsByNumber checks whether the invoice number is taken
func (r *GormInvoiceRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Scopes(tenant.TenantScope(tenantID)).
		Where("number = ?", number).
		Count(&count).Error
	return count > 0, err
}

// Save writes the invoice and replaces its lines and payments
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *finance.Invoice) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, models.InvoiceModelFromDomain(inv), inv.ID, &inv.BaseAggregateRoot); err != nil {
			return err
		}
		items, payments := models.InvoiceChildModelsFromDomain(inv)
		if err := replaceChildren(tx, &models.InvoiceItemModel{}, "invoice_id", inv.ID, items, len(items)); err != nil {
			return err
		}
		return replaceChildren(tx, &models.InvoicePaymentModel{}, "invoice_id", inv.ID, payments, len(payments))
	})
	return persisted(&inv.BaseAggregateRoot, err)
}

// DeleteForTenant deletes an invoice with its lines and payments
func (r *GormInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteScoped(tx, &models.InvoiceModel{}, tenantID, id); err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItemModel{}).Error; err != nil {
			return err
		}
		return tx.Where("invoice_id = ?", id).Delete(&models.InvoicePaymentModel{}).Error
	})
}

func (r *GormInvoiceRepository) attach(db *gorm.DB, rows []models.InvoiceModel) ([]finance.Invoice, error) {
	ids := make([]uuid.UUID, len(rows))
	for i, m := range rows {
		ids[i] = m.ID
	}
	items := make(map[uuid.UUID][]models.InvoiceItemModel, len(rows))
	payments := make(map[uuid.UUID][]models.InvoicePaymentModel, len(rows))
	if len(ids) > 0 {
		var itemRows []models.InvoiceItemModel
		if err := db.Where("invoice_id IN ?", ids).Order("line_number ASC").Find(&itemRows).Error; err != nil {
			return nil, err
		}
		for _, it := range itemRows {
			items[it.InvoiceID] = append(items[it.InvoiceID], it)
		}
		var paymentRows []models.InvoicePaymentModel
		if err := db.Where("invoice_id IN ?", ids).Order("paid_at ASC").Find(&paymentRows).Error; err != nil {
			return nil, err
		}
		for _, p := range paymentRows {
			payments[p.InvoiceID] = append(payments[p.InvoiceID], p)
		}
	}
	out := make([]finance.Invoice, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain(items[rows[i].ID], payments[rows[i].ID])
	}
	return out, nil
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByIDForTenant finds an order by ID within the company
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists orders; supports "project_id" and "status"
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).Scopes(tenant.TenantScope(tenantID))
	query = applySearch(query, filter.Search, "number", "name", "provider_name")
	query = applyEquals(query, filter.Filters, "project_id", "status")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.OrderModel
	if err := applyPaging(query, filter, OrderSortFields, "order_date DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]finance.Order, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Save creates or updates an order
func (r *GormOrderRepository) Save(ctx context.Context, o *finance.Order) error {
	err := saveVersioned(r.db.WithContext(ctx), models.OrderModelFromDomain(o), o.ID, &o.BaseAggregateRoot)
	return persisted(&o.BaseAggregateRoot, err)
}

// DeleteForTenant deletes an order
func (r *GormOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteScoped(r.db.WithContext(ctx), &models.OrderModel{}, tenantID, id)
}

// GormLedgerRepository implements LedgerRepository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// FindByIDForTenant finds a ledger entry by ID within the company
func (r *GormLedgerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.LedgerEntry, error) {
	var model models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists entries; supports "project_id", "kind" and "category"
func (r *GormLedgerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.LedgerEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}).Scopes(tenant.TenantScope(tenantID))
	query = applySearch(query, filter.Search, "category", "description")
	query = applyEquals(query, filter.Filters, "project_id", "kind", "category")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.LedgerEntryModel
	if err := applyPaging(query, filter, LedgerSortFields, "entry_date DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return ledgerToDomain(rows), total, nil
}

// FindByProjectBetween returns a project's entries dated in [from, to]
func (r *GormLedgerRepository) FindByProjectBetween(ctx context.Context, tenantID, projectID uuid.UUID, from, to time.Time) ([]finance.LedgerEntry, error) {
	var rows []models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.TenantScope(tenantID)).
		Where("project_id = ? AND entry_date BETWEEN ? AND ?", projectID, from, to).
		Order("entry_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return ledgerToDomain(rows), nil
}

// Save creates or updates a ledger entry
func (r *GormLedgerRepository) Save(ctx context.Context, e *finance.LedgerEntry) error {
	err := saveVersioned(r.db.WithContext(ctx), models.LedgerEntryModelFromDomain(e), e.ID, &e.BaseAggregateRoot)
	return persisted(&e.BaseAggregateRoot, err)
}

// DeleteForTenant deletes a ledger entry
func (r *GormLedgerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteScoped(r.db.WithContext(ctx), &models.LedgerEntryModel{}, tenantID, id)
}

func ledgerToDomain(rows []models.LedgerEntryModel) []finance.LedgerEntry {
	out := make([]finance.LedgerEntry, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var (
	_ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)
	_ finance.OrderRepository   = (*GormOrderRepository)(nil)
	_ finance.LedgerRepository  = (*GormLedgerRepository)(nil)
)
