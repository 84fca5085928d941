package handler

import (
	"context"

	"github.com/derbent/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserService is the user management use cases behind UserHandler
type UserService interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req identity.CreateUserRequest) (*identity.UserResponse, error)
	GetByID(ctx context.Context, tenantID, userID uuid.UUID) (*identity.UserResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter identity.UserListFilter) ([]identity.UserResponse, int64, error)
	Update(ctx context.Context, tenantID, actorID, userID uuid.UUID, req identity.UpdateUserRequest) (*identity.UserResponse, error)
	Delete(ctx context.Context, tenantID, actorID, userID uuid.UUID) error
}

// UserHandler handles user management within the caller's company
type UserHandler struct {
	BaseHandler
	users UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Create godoc
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body identity.CreateUserRequest true "User"
// @Success      201 {object} dto.Response{data=identity.UserResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	handleCreate(&h.BaseHandler, c, h.users.Create)
}

// Get godoc
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identity.UserResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	handleGet(&h.BaseHandler, c, h.users.GetByID)
}

// List godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        status query string false "active, locked or deactivated"
// @Param        role query string false "admin, manager, member or viewer"
// @Param        search query string false "Username, email or display name"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]identity.UserResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	handleList(&h.BaseHandler, c, h.users.List)
}

// Update godoc
// @Summary      Update user
// @Description  Change email, display name, role or active flag. Users cannot demote or deactivate themselves.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body identity.UpdateUserRequest true "Changes"
// @Success      200 {object} dto.Response{data=identity.UserResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req identity.UpdateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.users.Update(c.Request.Context(), who.TenantID, who.UserID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Delete godoc
// @Summary      Delete user
// @Tags         users
// @Param        id path string true "User ID"
// @Success      204
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), who.TenantID, who.UserID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
