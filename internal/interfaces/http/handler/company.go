package handler

import (
	"context"

	"github.com/derbent/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CompanyService is the company use cases behind CompanyHandler
type CompanyService interface {
	GetCurrent(ctx context.Context, tenantID uuid.UUID) (*identity.CompanyResponse, error)
	UpdateCurrent(ctx context.Context, tenantID uuid.UUID, req identity.UpdateCompanyRequest) (*identity.CompanyResponse, error)
	Create(ctx context.Context, req identity.CreateCompanyRequest) (*identity.CompanyResponse, error)
	List(ctx context.Context, filter identity.CompanyListFilter) ([]identity.CompanyResponse, int64, error)
	SetActive(ctx context.Context, companyID uuid.UUID, active bool) (*identity.CompanyResponse, error)
}

// SetCompanyActiveRequest activates or suspends a company
type SetCompanyActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// CompanyHandler serves the caller's company and, for admins, the
// company directory
type CompanyHandler struct {
	BaseHandler
	companies CompanyService
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companies CompanyService) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

// GetCurrent godoc
// @Summary      Get current company
// @Tags         companies
// @Produce      json
// @Success      200 {object} dto.Response{data=identity.CompanyResponse}
// @Security     BearerAuth
// @Router       /company [get]
func (h *CompanyHandler) GetCurrent(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	company, err := h.companies.GetCurrent(c.Request.Context(), who.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// UpdateCurrent godoc
// @Summary      Update current company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        request body identity.UpdateCompanyRequest true "Company"
// @Success      200 {object} dto.Response{data=identity.CompanyResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /company [put]
func (h *CompanyHandler) UpdateCurrent(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	var req identity.UpdateCompanyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	company, err := h.companies.UpdateCurrent(c.Request.Context(), who.TenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}

// Create godoc
// @Summary      Create company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        request body identity.CreateCompanyRequest true "Company"
// @Success      201 {object} dto.Response{data=identity.CompanyResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /companies [post]
func (h *CompanyHandler) Create(c *gin.Context) {
	var req identity.CreateCompanyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	company, err := h.companies.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, company)
}

// List godoc
// @Summary      List companies
// @Tags         companies
// @Produce      json
// @Param        status query string false "active or suspended"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]identity.CompanyResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /companies [get]
func (h *CompanyHandler) List(c *gin.Context) {
	var filter identity.CompanyListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	companies, total, err := h.companies.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.ListPage(c, companies, total, filter.Query)
}

// SetActive godoc
// @Summary      Activate or suspend company
// @Description  Users of a suspended company are rejected at the next request
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id path string true "Company ID"
// @Param        request body SetCompanyActiveRequest true "Active flag"
// @Success      200 {object} dto.Response{data=identity.CompanyResponse}
// @Security     BearerAuth
// @Router       /companies/{id}/active [put]
func (h *CompanyHandler) SetActive(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req SetCompanyActiveRequest
	if !h.bindJSON(c, &req) {
		return
	}
	company, err := h.companies.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, company)
}
