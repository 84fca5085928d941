package handler

import (
	"context"
	"net/http"

	identityapp "github.com/derbent/backend/internal/application/identity"
	"github.com/derbent/backend/internal/application/listing"
	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/infrastructure/logger"
	"github.com/derbent/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LayoutService resolves and changes a user's layout mode. One instance is
// shared by every page-style handler.
type LayoutService interface {
	Current(ctx context.Context, tenantID, userID uuid.UUID) (*identityapp.LayoutResponse, error)
	Set(ctx context.Context, tenantID, userID uuid.UUID, mode identity.LayoutMode) (*identityapp.LayoutResponse, error)
	Toggle(ctx context.Context, tenantID, userID uuid.UUID) (*identityapp.LayoutResponse, error)
}

// pageView is embedded by handlers that serve list and detail views. It
// adds the caller's layout mode to their responses.
type pageView struct {
	layout LayoutService
}

// layoutMode returns the caller's layout, empty when it cannot be resolved.
// A layout lookup failure never fails the page itself.
func (p pageView) layoutMode(c *gin.Context, who Caller) string {
	if p.layout == nil {
		return ""
	}
	current, err := p.layout.Current(c.Request.Context(), who.TenantID, who.UserID)
	if err != nil {
		logger.FromContext(c.Request.Context()).Warn("Failed to resolve layout", zap.Error(err))
		return ""
	}
	return string(current.Mode)
}

// pageList sends a list page decorated with the caller's layout
func (p pageView) pageList(c *gin.Context, who Caller, items any, total int64, q listing.Query) {
	f := q.Filter("", "")
	resp := dto.NewSuccessResponseWithMeta(items, total, f.Page, f.PageSize)
	resp.Meta.Layout = p.layoutMode(c, who)
	c.JSON(http.StatusOK, resp)
}

// pageData sends a single view decorated with the caller's layout
func (p pageView) pageData(c *gin.Context, who Caller, data any) {
	resp := dto.NewSuccessResponse(data)
	if mode := p.layoutMode(c, who); mode != "" {
		resp.Meta = &dto.Meta{Layout: mode}
	}
	c.JSON(http.StatusOK, resp)
}

// SetLayoutRequest selects a layout mode
type SetLayoutRequest struct {
	Mode string `json:"mode" binding:"required,oneof=horizontal vertical"`
}

// LayoutHandler exposes the caller's layout preference
type LayoutHandler struct {
	BaseHandler
	layout LayoutService
}

// NewLayoutHandler creates a new layout handler
func NewLayoutHandler(layout LayoutService) *LayoutHandler {
	return &LayoutHandler{layout: layout}
}

// Get godoc
// @Summary      Get layout
// @Description  Effective layout mode of the caller and the system default
// @Tags         layout
// @Produce      json
// @Success      200 {object} dto.Response{data=identity.LayoutResponse}
// @Security     BearerAuth
// @Router       /me/layout [get]
func (h *LayoutHandler) Get(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	resp, err := h.layout.Current(c.Request.Context(), who.TenantID, who.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Set godoc
// @Summary      Set layout
// @Tags         layout
// @Accept       json
// @Produce      json
// @Param        request body SetLayoutRequest true "Layout mode"
// @Success      200 {object} dto.Response{data=identity.LayoutResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /me/layout [put]
func (h *LayoutHandler) Set(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	var req SetLayoutRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.layout.Set(c.Request.Context(), who.TenantID, who.UserID, identity.LayoutMode(req.Mode))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Toggle godoc
// @Summary      Toggle layout
// @Description  Switch between horizontal and vertical layout
// @Tags         layout
// @Produce      json
// @Success      200 {object} dto.Response{data=identity.LayoutResponse}
// @Security     BearerAuth
// @Router       /me/layout/toggle [post]
func (h *LayoutHandler) Toggle(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	resp, err := h.layout.Toggle(c.Request.Context(), who.TenantID, who.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
