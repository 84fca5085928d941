package handler

import (
	"errors"
	"net/http"

	"github.com/derbent/backend/internal/application/listing"
	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/infrastructure/logger"
	"github.com/derbent/backend/internal/interfaces/http/dto"
	"github.com/derbent/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// ListPage sends a page of items with pagination meta derived from the query
func (h *BaseHandler) ListPage(c *gin.Context, items any, total int64, q listing.Query) {
	f := q.Filter("", "")
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(items, total, f.Page, f.PageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status and code
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError converts an application error into a response. Domain errors
// keep their code and message; anything else is logged and hidden behind a
// generic 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.DomainStatus(domainErr.Code), dto.NormalizeErrorCode(domainErr.Code), domainErr.Message)
		return
	}

	logger.FromContext(c.Request.Context()).Error("Unhandled error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	h.InternalError(c, "An unexpected error occurred")
}

// bindJSON binds the request body, answering 400 on failure
func (h *BaseHandler) bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// bindQuery binds the query string, answering 400 on failure
func (h *BaseHandler) bindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// pathID parses a uuid path parameter, answering 400 when malformed
func (h *BaseHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// Caller is the authenticated user behind a request
type Caller struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Role     identity.Role
}

// caller reads the authenticated identity set by the JWT and tenant
// middleware, answering 401 when it is incomplete
func (h *BaseHandler) caller(c *gin.Context) (Caller, bool) {
	tenantID := middleware.GetTenantID(c)
	userID, err := uuid.Parse(middleware.GetJWTUserID(c))
	if tenantID == uuid.Nil || err != nil {
		h.Unauthorized(c, "Authentication required")
		return Caller{}, false
	}
	return Caller{TenantID: tenantID, UserID: userID, Role: middleware.GetJWTRole(c)}, true
}
