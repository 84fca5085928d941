package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/derbent/backend/internal/application/listing"
	workflowapp "github.com/derbent/backend/internal/application/workflow"
	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// The helpers below carry the request plumbing shared by every resource
// handler: caller lookup, binding, path ids and response shaping.

type pager interface {
	Paging() listing.Query
}

type createFunc[Req, Resp any] func(ctx context.Context, tenantID, userID uuid.UUID, req Req) (*Resp, error)
type getFunc[Resp any] func(ctx context.Context, tenantID, id uuid.UUID) (*Resp, error)
type listFunc[F pager, Resp any] func(ctx context.Context, tenantID uuid.UUID, filter F) ([]Resp, int64, error)
type updateFunc[Req, Resp any] func(ctx context.Context, tenantID, id uuid.UUID, req Req) (*Resp, error)
type deleteFunc func(ctx context.Context, tenantID, id uuid.UUID) error
type changeStatusFunc[Resp any] func(ctx context.Context, tenantID, id uuid.UUID, role identity.Role, req workflowapp.ChangeStatusRequest) (*Resp, error)
type nextStatusesFunc func(ctx context.Context, tenantID, id uuid.UUID, role identity.Role) ([]workflowapp.StatusOption, error)

func handleCreate[Req, Resp any](h *BaseHandler, c *gin.Context, fn createFunc[Req, Resp]) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	var req Req
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := fn(c.Request.Context(), who.TenantID, who.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func handleGet[Resp any](h *BaseHandler, c *gin.Context, fn getFunc[Resp]) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := fn(c.Request.Context(), who.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// handleAction runs a body-less state change on the resource named by :id
func handleAction[Resp any](h *BaseHandler, c *gin.Context, fn getFunc[Resp]) {
	handleGet(h, c, fn)
}

func handleList[F pager, Resp any](h *BaseHandler, c *gin.Context, fn listFunc[F, Resp]) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	var filter F
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := fn(c.Request.Context(), who.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.ListPage(c, items, total, filter.Paging())
}

func handleUpdate[Req, Resp any](h *BaseHandler, c *gin.Context, fn updateFunc[Req, Resp]) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req Req
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := fn(c.Request.Context(), who.TenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func handleDelete(h *BaseHandler, c *gin.Context, fn deleteFunc) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), who.TenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// handleChildAction runs fn for the :id resource and its :childParam child
func handleChildAction[Resp any](h *BaseHandler, c *gin.Context, childParam string, fn func(ctx context.Context, tenantID, id, childID uuid.UUID) (*Resp, error)) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	childID, ok := h.pathID(c, childParam)
	if !ok {
		return
	}
	resp, err := fn(c.Request.Context(), who.TenantID, id, childID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// handleChildUpdate binds a body and applies it to the :childParam child of
// the :id resource
func handleChildUpdate[Req, Resp any](h *BaseHandler, c *gin.Context, childParam string, fn func(ctx context.Context, tenantID, id, childID uuid.UUID, req Req) (*Resp, error)) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	childID, ok := h.pathID(c, childParam)
	if !ok {
		return
	}
	var req Req
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := fn(c.Request.Context(), who.TenantID, id, childID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func handleChangeStatus[Resp any](h *BaseHandler, c *gin.Context, fn changeStatusFunc[Resp]) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req workflowapp.ChangeStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := fn(c.Request.Context(), who.TenantID, id, who.Role, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func handleNextStatuses(h *BaseHandler, c *gin.Context, fn nextStatusesFunc) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	options, err := fn(c.Request.Context(), who.TenantID, id, who.Role)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, options)
}

// queryUUID reads an optional uuid query parameter
func (h *BaseHandler) queryUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid "+name)
		return nil, false
	}
	return &id, true
}

// requiredQueryUUID reads a mandatory uuid query parameter
func (h *BaseHandler) requiredQueryUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, ok := h.queryUUID(c, name)
	if !ok {
		return uuid.Nil, false
	}
	if id == nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, name+" is required")
		return uuid.Nil, false
	}
	return *id, true
}

// queryDate reads an optional YYYY-MM-DD query parameter
func (h *BaseHandler) queryDate(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, name+" must be a date (YYYY-MM-DD)")
		return nil, false
	}
	return &d, true
}
