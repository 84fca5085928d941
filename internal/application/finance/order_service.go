// Package finance manages project orders, invoices, expenses and income,
// and renders financial summaries.
package finance

import (
	"context"
	"errors"
	"time"

	"github.com/derbent/backend/internal/domain/finance"
	"github.com/derbent/backend/internal/domain/project"
	"github.com/derbent/backend/internal/domain/settings"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ActiveProjects loads a project and rejects archived ones
type ActiveProjects interface {
	RequireActive(ctx context.Context, tenantID, id uuid.UUID) (*project.Project, error)
}

// OrderService handles purchase orders
type OrderService struct {
	orderRepo    finance.OrderRepository
	projects     ActiveProjects
	settingsRepo settings.Repository
	events       shared.EventPublisher
	logger       *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo finance.OrderRepository,
	projects ActiveProjects,
	settingsRepo settings.Repository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		projects:     projects,
		settingsRepo: settingsRepo,
		events:       events,
		logger:       logger,
	}
}

// Create creates a draft order. The company currency applies when none is given.
func (s *OrderService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	if _, err := s.projects.RequireActive(ctx, tenantID, req.ProjectID); err != nil {
		return nil, err
	}
	currency := req.Currency
	if currency == "" {
		c, err := companyCurrency(ctx, s.settingsRepo, tenantID)
		if err != nil {
			return nil, err
		}
		currency = c
	}
	order, err := finance.NewOrder(tenantID, req.ProjectID, req.Name, req.ProviderName, req.OrderDate, currency)
	if err != nil {
		return nil, err
	}
	if req.Number != "" {
		if err := order.SetNumber(req.Number); err != nil {
			return nil, err
		}
	}
	if err := s.apply(order, req.Description, req.RequiredDate, req.Amount); err != nil {
		return nil, err
	}
	order.SetCreatedBy(createdBy)
	return s.save(ctx, order)
}

// GetByID retrieves an order
func (s *OrderService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := filter.Query.Filter("order_date", "desc")
	setFilter(domainFilter, "project_id", filter.ProjectID)
	setFilter(domainFilter, "status", filter.Status)

	orders, total, err := s.orderRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out, total, nil
}

// Update changes an open order
func (s *OrderService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := order.Update(req.Name, req.ProviderName); err != nil {
		return nil, err
	}
	if err := s.apply(order, req.Description, req.RequiredDate, req.Amount); err != nil {
		return nil, err
	}
	return s.save(ctx, order)
}

// Submit sends a draft order to approval
func (s *OrderService) Submit(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, tenantID, id, (*finance.Order).Submit)
}

// Approve approves a submitted order
func (s *OrderService) Approve(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, tenantID, id, (*finance.Order).Approve)
}

// Receive marks an approved order as delivered
func (s *OrderService) Receive(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, tenantID, id, (*finance.Order).Receive)
}

// Cancel voids an order that has not been received
func (s *OrderService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, tenantID, id, (*finance.Order).Cancel)
}

// Delete removes an order
func (s *OrderService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	return s.orderRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *OrderService) transition(ctx context.Context, tenantID, id uuid.UUID, step func(*finance.Order) error) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := step(order); err != nil {
		return nil, err
	}
	return s.save(ctx, order)
}

func (s *OrderService) apply(order *finance.Order, description string, required *time.Time, amount *decimal.Decimal) error {
	order.SetDescription(description)
	if err := order.SetRequiredDate(required); err != nil {
		return err
	}
	if amount != nil && !amount.Equal(order.Amount) {
		return order.SetAmount(*amount)
	}
	return nil
}

func (s *OrderService) save(ctx context.Context, order *finance.Order) (*OrderResponse, error) {
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.events, order); err != nil {
		s.logger.Warn("Failed to publish order events", zap.String("order_id", order.ID.String()), zap.Error(err))
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// companyCurrency returns the company's configured currency, or the
// finance default when the company never saved settings
func companyCurrency(ctx context.Context, repo settings.Repository, tenantID uuid.UUID) (string, error) {
	cs, err := repo.GetCompany(ctx, tenantID)
	if errors.Is(err, shared.ErrNotFound) {
		return finance.DefaultCurrency, nil
	}
	if err != nil {
		return "", err
	}
	return cs.Currency, nil
}

func setFilter(f shared.Filter, key, value string) {
	if value != "" {
		f.Filters[key] = value
	}
}
