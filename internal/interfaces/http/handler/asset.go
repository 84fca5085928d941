package handler

import (
	"context"

	"github.com/derbent/backend/internal/application/asset"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AssetService is the asset register use cases
type AssetService interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req asset.CreateAssetRequest) (*asset.AssetResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*asset.AssetResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter asset.AssetListFilter) ([]asset.AssetResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req asset.UpdateAssetRequest) (*asset.AssetResponse, error)
	Assign(ctx context.Context, tenantID, id uuid.UUID, req asset.AssignAssetRequest) (*asset.AssetResponse, error)
	Release(ctx context.Context, tenantID, id uuid.UUID) (*asset.AssetResponse, error)
	SendToMaintenance(ctx context.Context, tenantID, id uuid.UUID) (*asset.AssetResponse, error)
	ReturnFromMaintenance(ctx context.Context, tenantID, id uuid.UUID) (*asset.AssetResponse, error)
	Retire(ctx context.Context, tenantID, id uuid.UUID) (*asset.AssetResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// AssetHandler handles asset endpoints
type AssetHandler struct {
	BaseHandler
	assets AssetService
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(assets AssetService) *AssetHandler {
	return &AssetHandler{assets: assets}
}

// Create godoc
// @Summary      Register asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        request body asset.CreateAssetRequest true "Asset"
// @Success      201 {object} dto.Response{data=asset.AssetResponse}
// @Security     BearerAuth
// @Router       /assets [post]
func (h *AssetHandler) Create(c *gin.Context) {
	handleCreate(&h.BaseHandler, c, h.assets.Create)
}

// Get godoc
// @Summary      Get asset
// @Tags         assets
// @Produce      json
// @Param        id path string true "Asset ID"
// @Success      200 {object} dto.Response{data=asset.AssetResponse}
// @Security     BearerAuth
// @Router       /assets/{id} [get]
func (h *AssetHandler) Get(c *gin.Context) {
	handleGet(&h.BaseHandler, c, h.assets.GetByID)
}

// List godoc
// @Summary      List assets
// @Tags         assets
// @Produce      json
// @Param        project_id query string false "Project ID"
// @Param        status query string false "available, in_use, maintenance or retired"
// @Param        category query string false "Category"
// @Param        assigned_to_id query string false "Holder"
// @Success      200 {object} dto.Response{data=[]asset.AssetResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /assets [get]
func (h *AssetHandler) List(c *gin.Context) {
	handleList(&h.BaseHandler, c, h.assets.List)
}

// Update godoc
// @Summary      Update asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        id path string true "Asset ID"
// @Param        request body asset.UpdateAssetRequest true "Asset"
// @Success      200 {object} dto.Response{data=asset.AssetResponse}
// @Security     BearerAuth
// @Router       /assets/{id} [put]
func (h *AssetHandler) Update(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.assets.Update)
}

// Assign godoc
// @Summary      Assign asset
// @Description  Only available assets can be assigned
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        id path string true "Asset ID"
// @Param        request body asset.AssignAssetRequest true "Holder"
// @Success      200 {object} dto.Response{data=asset.AssetResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /assets/{id}/assign [post]
func (h *AssetHandler) Assign(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.assets.Assign)
}

// @Summary      Release asset
// @Tags         assets
// @Produce      json
// @Param        id path string true "Asset ID"
// @Success      200 {object} dto.Response{data=asset.AssetResponse}
// @Security     BearerAuth
// @Router       /assets/{id}/release [post]
func (h *AssetHandler) Release(c *gin.Context) {
	handleAction(&h.BaseHandler, c, h.assets.Release)
}

// @Summary      Send asset to maintenance
// @Tags         assets
// @Produce      json
// @Param        id path string true "Asset ID"
// @Success      200 {object} dto.Response{data=asset.AssetResponse}
// @Security     BearerAuth
// @Router       /assets/{id}/maintenance [post]
func (h *AssetHandler) SendToMaintenance(c *gin.Context) {
	handleAction(&h.BaseHandler, c, h.assets.SendToMaintenance)
}

// @Summary      Return asset from maintenance
// @Tags         assets
// @Produce      json
// @Param        id path string true "Asset ID"
// @Success      200 {object} dto.Response{data=asset.AssetResponse}
// @Security     BearerAuth
// @Router       /assets/{id}/maintenance [delete]
func (h *AssetHandler) ReturnFromMaintenance(c *gin.Context) {
	handleAction(&h.BaseHandler, c, h.assets.ReturnFromMaintenance)
}

// @Summary      Retire asset
// @Tags         assets
// @Produce      json
// @Param        id path string true "Asset ID"
// @Success      200 {object} dto.Response{data=asset.AssetResponse}
// @Security     BearerAuth
// @Router       /assets/{id}/retire [post]
func (h *AssetHandler) Retire(c *gin.Context) {
	handleAction(&h.BaseHandler, c, h.assets.Retire)
}

// @Summary      Delete asset
// @Tags         assets
// @Param        id path string true "Asset ID"
// @Success      204
// @Security     BearerAuth
// @Router       /assets/{id} [delete]
func (h *AssetHandler) Delete(c *gin.Context) {
	handleDelete(&h.BaseHandler, c, h.assets.Delete)
}
