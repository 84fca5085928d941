package handler

import (
	"context"

	"github.com/derbent/backend/internal/application/settings"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SettingsService reads and writes system and company settings
type SettingsService interface {
	GetSystem(ctx context.Context) (*settings.SystemSettingsResponse, error)
	UpdateSystem(ctx context.Context, req settings.UpdateSystemSettingsRequest) (*settings.SystemSettingsResponse, error)
	GetCompany(ctx context.Context, tenantID uuid.UUID) (*settings.CompanySettingsResponse, error)
	UpdateCompany(ctx context.Context, tenantID uuid.UUID, req settings.UpdateCompanySettingsRequest) (*settings.CompanySettingsResponse, error)
}

// SettingsHandler handles settings endpoints
type SettingsHandler struct {
	BaseHandler
	settings SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSystem godoc
// @Summary      Get system settings
// @Tags         settings
// @Produce      json
// @Success      200 {object} dto.Response{data=settings.SystemSettingsResponse}
// @Security     BearerAuth
// @Router       /settings/system [get]
func (h *SettingsHandler) GetSystem(c *gin.Context) {
	resp, err := h.settings.GetSystem(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateSystem godoc
// @Summary      Update system settings
// @Description  Admin only
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body settings.UpdateSystemSettingsRequest true "Settings"
// @Success      200 {object} dto.Response{data=settings.SystemSettingsResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /settings/system [put]
func (h *SettingsHandler) UpdateSystem(c *gin.Context) {
	var req settings.UpdateSystemSettingsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.settings.UpdateSystem(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetCompany godoc
// @Summary      Get company settings
// @Tags         settings
// @Produce      json
// @Success      200 {object} dto.Response{data=settings.CompanySettingsResponse}
// @Security     BearerAuth
// @Router       /settings/company [get]
func (h *SettingsHandler) GetCompany(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	resp, err := h.settings.GetCompany(c.Request.Context(), who.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateCompany godoc
// @Summary      Update company settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body settings.UpdateCompanySettingsRequest true "Settings"
// @Success      200 {object} dto.Response{data=settings.CompanySettingsResponse}
// @Security     BearerAuth
// @Router       /settings/company [put]
func (h *SettingsHandler) UpdateCompany(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	var req settings.UpdateCompanySettingsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.settings.UpdateCompany(c.Request.Context(), who.TenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
