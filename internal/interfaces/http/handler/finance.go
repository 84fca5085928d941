package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/derbent/backend/internal/application/finance"
	financedomain "github.com/derbent/backend/internal/domain/finance"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceService is the invoicing use cases
type InvoiceService interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req finance.CreateInvoiceRequest) (*finance.InvoiceResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.InvoiceResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter finance.InvoiceListFilter) ([]finance.InvoiceResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req finance.UpdateInvoiceRequest) (*finance.InvoiceResponse, error)
	AddItem(ctx context.Context, tenantID, id uuid.UUID, req finance.InvoiceItemRequest) (*finance.InvoiceResponse, error)
	RemoveItem(ctx context.Context, tenantID, id, itemID uuid.UUID) (*finance.InvoiceResponse, error)
	RecordPayment(ctx context.Context, tenantID, id uuid.UUID, req finance.RecordPaymentRequest) (*finance.InvoiceResponse, error)
	Cancel(ctx context.Context, tenantID, id uuid.UUID) (*finance.InvoiceResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoices InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoices InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// Create godoc
// @Summary      Create invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body finance.CreateInvoiceRequest true "Invoice"
// @Success      201 {object} dto.Response{data=finance.InvoiceResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	handleCreate(&h.BaseHandler, c, h.invoices.Create)
}

// Get godoc
// @Summary      Get invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response{data=finance.InvoiceResponse}
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	handleGet(&h.BaseHandler, c, h.invoices.GetByID)
}

// List godoc
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        project_id query string false "Project ID"
// @Param        payment_status query string false "pending, partial, paid or cancelled"
// @Success      200 {object} dto.Response{data=[]finance.InvoiceResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	handleList(&h.BaseHandler, c, h.invoices.List)
}

// Update godoc
// @Summary      Update invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        request body finance.UpdateInvoiceRequest true "Invoice"
// @Success      200 {object} dto.Response{data=finance.InvoiceResponse}
// @Security     BearerAuth
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.invoices.Update)
}

// AddItem godoc
// @Summary      Add invoice line
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        request body finance.InvoiceItemRequest true "Line"
// @Success      200 {object} dto.Response{data=finance.InvoiceResponse}
// @Security     BearerAuth
// @Router       /invoices/{id}/items [post]
func (h *InvoiceHandler) AddItem(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.invoices.AddItem)
}

// RemoveItem godoc
// @Summary      Remove invoice line
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        itemId path string true "Line ID"
// @Success      200 {object} dto.Response{data=finance.InvoiceResponse}
// @Security     BearerAuth
// @Router       /invoices/{id}/items/{itemId} [delete]
func (h *InvoiceHandler) RemoveItem(c *gin.Context) {
	handleChildAction(&h.BaseHandler, c, "itemId", h.invoices.RemoveItem)
}

// RecordPayment godoc
// @Summary      Record payment
// @Description  Payments may not exceed the outstanding amount
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        request body finance.RecordPaymentRequest true "Payment"
// @Success      200 {object} dto.Response{data=finance.InvoiceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.invoices.RecordPayment)
}

// Cancel godoc
// @Summary      Cancel invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response{data=finance.InvoiceResponse}
// @Security     BearerAuth
// @Router       /invoices/{id}/cancel [post]
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	handleAction(&h.BaseHandler, c, h.invoices.Cancel)
}

// Delete godoc
// @Summary      Delete invoice
// @Tags         invoices
// @Param        id path string true "Invoice ID"
// @Success      204
// @Security     BearerAuth
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	handleDelete(&h.BaseHandler, c, h.invoices.Delete)
}

// OrderService is the purchase order use cases
type OrderService interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req finance.CreateOrderRequest) (*finance.OrderResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.OrderResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter finance.OrderListFilter) ([]finance.OrderResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req finance.UpdateOrderRequest) (*finance.OrderResponse, error)
	Submit(ctx context.Context, tenantID, id uuid.UUID) (*finance.OrderResponse, error)
	Approve(ctx context.Context, tenantID, id uuid.UUID) (*finance.OrderResponse, error)
	Receive(ctx context.Context, tenantID, id uuid.UUID) (*finance.OrderResponse, error)
	Cancel(ctx context.Context, tenantID, id uuid.UUID) (*finance.OrderResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// OrderHandler handles purchase order endpoints
type OrderHandler struct {
	BaseHandler
	orders OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Create godoc
// @Summary      Create order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body finance.CreateOrderRequest true "Order"
// @Success      201 {object} dto.Response{data=finance.OrderResponse}
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	handleCreate(&h.BaseHandler, c, h.orders.Create)
}

// Get godoc
// @Summary      Get order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=finance.OrderResponse}
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	handleGet(&h.BaseHandler, c, h.orders.GetByID)
}

// List godoc
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        project_id query string false "Project ID"
// @Param        status query string false "draft, submitted, approved, received or cancelled"
// @Success      200 {object} dto.Response{data=[]finance.OrderResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	handleList(&h.BaseHandler, c, h.orders.List)
}

// Update godoc
// @Summary      Update draft order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body finance.UpdateOrderRequest true "Order"
// @Success      200 {object} dto.Response{data=finance.OrderResponse}
// @Security     BearerAuth
// @Router       /orders/{id} [put]
func (h *OrderHandler) Update(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.orders.Update)
}

// Submit godoc
// @Summary      Submit order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=finance.OrderResponse}
// @Security     BearerAuth
// @Router       /orders/{id}/submit [post]
func (h *OrderHandler) Submit(c *gin.Context) {
	handleAction(&h.BaseHandler, c, h.orders.Submit)
}

// Approve godoc
// @Summary      Approve order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=finance.OrderResponse}
// @Security     BearerAuth
// @Router       /orders/{id}/approve [post]
func (h *OrderHandler) Approve(c *gin.Context) {
	handleAction(&h.BaseHandler, c, h.orders.Approve)
}

// Receive godoc
// @Summary      Receive order
// @Description  Receiving books the order amount as a project expense
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=finance.OrderResponse}
// @Security     BearerAuth
// @Router       /orders/{id}/receive [post]
func (h *OrderHandler) Receive(c *gin.Context) {
	handleAction(&h.BaseHandler, c, h.orders.Receive)
}

// Cancel godoc
// @Summary      Cancel order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=finance.OrderResponse}
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	handleAction(&h.BaseHandler, c, h.orders.Cancel)
}

// Delete godoc
// @Summary      Delete order
// @Tags         orders
// @Param        id path string true "Order ID"
// @Success      204
// @Security     BearerAuth
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	handleDelete(&h.BaseHandler, c, h.orders.Delete)
}

// LedgerService is the expense and income ledger use cases
type LedgerService interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req finance.LedgerEntryRequest) (*finance.LedgerEntryResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.LedgerEntryResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter finance.LedgerListFilter) ([]finance.LedgerEntryResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req finance.LedgerEntryRequest) (*finance.LedgerEntryResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// LedgerHandler handles ledger entry endpoints
type LedgerHandler struct {
	BaseHandler
	ledger LedgerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledger LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// Create godoc
// @Summary      Book ledger entry
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        request body finance.LedgerEntryRequest true "Entry"
// @Success      201 {object} dto.Response{data=finance.LedgerEntryResponse}
// @Security     BearerAuth
// @Router       /ledger [post]
func (h *LedgerHandler) Create(c *gin.Context) {
	handleCreate(&h.BaseHandler, c, h.ledger.Create)
}

// Get godoc
// @Summary      Get ledger entry
// @Tags         ledger
// @Produce      json
// @Param        id path string true "Entry ID"
// @Success      200 {object} dto.Response{data=finance.LedgerEntryResponse}
// @Security     BearerAuth
// @Router       /ledger/{id} [get]
func (h *LedgerHandler) Get(c *gin.Context) {
	handleGet(&h.BaseHandler, c, h.ledger.GetByID)
}

// List godoc
// @Summary      List ledger entries
// @Tags         ledger
// @Produce      json
// @Param        project_id query string false "Project ID"
// @Param        kind query string false "expense or income"
// @Param        category query string false "Category"
// @Success      200 {object} dto.Response{data=[]finance.LedgerEntryResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /ledger [get]
func (h *LedgerHandler) List(c *gin.Context) {
	handleList(&h.BaseHandler, c, h.ledger.List)
}

// Update godoc
// @Summary      Update ledger entry
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        id path string true "Entry ID"
// @Param        request body finance.LedgerEntryRequest true "Entry"
// @Success      200 {object} dto.Response{data=finance.LedgerEntryResponse}
// @Security     BearerAuth
// @Router       /ledger/{id} [put]
func (h *LedgerHandler) Update(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.ledger.Update)
}

// Delete godoc
// @Summary      Delete ledger entry
// @Tags         ledger
// @Param        id path string true "Entry ID"
// @Success      204
// @Security     BearerAuth
// @Router       /ledger/{id} [delete]
func (h *LedgerHandler) Delete(c *gin.Context) {
	handleDelete(&h.BaseHandler, c, h.ledger.Delete)
}

// SummaryService aggregates a project's finances
type SummaryService interface {
	GetSummary(ctx context.Context, tenantID uuid.UUID, q finance.SummaryQuery) (*financedomain.Summary, error)
	TextReport(ctx context.Context, tenantID uuid.UUID, q finance.SummaryQuery) (string, error)
	PDFReport(ctx context.Context, tenantID uuid.UUID, q finance.SummaryQuery) ([]byte, error)
}

// SummaryHandler serves the project financial summary and its exports
type SummaryHandler struct {
	BaseHandler
	summaries SummaryService
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(summaries SummaryService) *SummaryHandler {
	return &SummaryHandler{summaries: summaries}
}

// Get godoc
// @Summary      Financial summary
// @Description  Budget, orders, invoices and ledger totals of a project for a period
// @Tags         finance
// @Produce      json
// @Param        project_id query string true "Project ID"
// @Param        from query string false "Period start (YYYY-MM-DD)"
// @Param        to query string false "Period end (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=financedomain.Summary}
// @Security     BearerAuth
// @Router       /finance/summary [get]
func (h *SummaryHandler) Get(c *gin.Context) {
	who, q, ok := h.summaryQuery(c)
	if !ok {
		return
	}
	summary, err := h.summaries.GetSummary(c.Request.Context(), who.TenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// TextReport godoc
// @Summary      Financial summary as text
// @Tags         finance
// @Produce      plain
// @Param        project_id query string true "Project ID"
// @Param        from query string false "Period start (YYYY-MM-DD)"
// @Param        to query string false "Period end (YYYY-MM-DD)"
// @Success      200 {string} string
// @Security     BearerAuth
// @Router       /finance/summary/report [get]
func (h *SummaryHandler) TextReport(c *gin.Context) {
	who, q, ok := h.summaryQuery(c)
	if !ok {
		return
	}
	report, err := h.summaries.TextReport(c.Request.Context(), who.TenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.String(http.StatusOK, report)
}

// PDFReport godoc
// @Summary      Financial summary as PDF
// @Tags         finance
// @Produce      application/pdf
// @Param        project_id query string true "Project ID"
// @Param        from query string false "Period start (YYYY-MM-DD)"
// @Param        to query string false "Period end (YYYY-MM-DD)"
// @Success      200 {file} file
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /finance/summary/report.pdf [get]
func (h *SummaryHandler) PDFReport(c *gin.Context) {
	who, q, ok := h.summaryQuery(c)
	if !ok {
		return
	}
	pdf, err := h.summaries.PDFReport(c.Request.Context(), who.TenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="summary-%s.pdf"`, q.ProjectID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *SummaryHandler) summaryQuery(c *gin.Context) (Caller, finance.SummaryQuery, bool) {
	var q finance.SummaryQuery
	who, ok := h.caller(c)
	if !ok {
		return who, q, false
	}
	if q.ProjectID, ok = h.requiredQueryUUID(c, "project_id"); !ok {
		return who, q, false
	}
	if q.From, ok = h.queryDate(c, "from"); !ok {
		return who, q, false
	}
	if q.To, ok = h.queryDate(c, "to"); !ok {
		return who, q, false
	}
	return who, q, true
}
