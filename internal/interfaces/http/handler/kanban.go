package handler

import (
	"context"

	"github.com/derbent/backend/internal/application/kanban"
	"github.com/derbent/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LineService is the Kanban line configuration use cases
type LineService interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req kanban.LineRequest) (*kanban.LineResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*kanban.LineResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter kanban.LineListFilter) ([]kanban.LineResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req kanban.LineRequest) (*kanban.LineResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	AddColumn(ctx context.Context, tenantID, lineID uuid.UUID, req kanban.ColumnRequest) (*kanban.LineResponse, error)
	UpdateColumn(ctx context.Context, tenantID, lineID, columnID uuid.UUID, req kanban.ColumnRequest) (*kanban.LineResponse, error)
	RemoveColumn(ctx context.Context, tenantID, lineID, columnID uuid.UUID) (*kanban.LineResponse, error)
	MoveColumn(ctx context.Context, tenantID, lineID, columnID uuid.UUID, up bool) (*kanban.LineResponse, error)
}

// KanbanLineHandler handles Kanban line and column endpoints
type KanbanLineHandler struct {
	BaseHandler
	lines LineService
}

// NewKanbanLineHandler creates a new Kanban line handler
func NewKanbanLineHandler(lines LineService) *KanbanLineHandler {
	return &KanbanLineHandler{lines: lines}
}

// Create godoc
// @Summary      Create Kanban line
// @Tags         kanban
// @Accept       json
// @Produce      json
// @Param        request body kanban.LineRequest true "Line"
// @Success      201 {object} dto.Response{data=kanban.LineResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /kanban/lines [post]
func (h *KanbanLineHandler) Create(c *gin.Context) {
	handleCreate(&h.BaseHandler, c, h.lines.Create)
}

// Get godoc
// @Summary      Get Kanban line
// @Tags         kanban
// @Produce      json
// @Param        id path string true "Line ID"
// @Success      200 {object} dto.Response{data=kanban.LineResponse}
// @Security     BearerAuth
// @Router       /kanban/lines/{id} [get]
func (h *KanbanLineHandler) Get(c *gin.Context) {
	handleGet(&h.BaseHandler, c, h.lines.GetByID)
}

// List godoc
// @Summary      List Kanban lines
// @Tags         kanban
// @Produce      json
// @Success      200 {object} dto.Response{data=[]kanban.LineResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /kanban/lines [get]
func (h *KanbanLineHandler) List(c *gin.Context) {
	handleList(&h.BaseHandler, c, h.lines.List)
}

// Update godoc
// @Summary      Rename Kanban line
// @Tags         kanban
// @Accept       json
// @Produce      json
// @Param        id path string true "Line ID"
// @Param        request body kanban.LineRequest true "Line"
// @Success      200 {object} dto.Response{data=kanban.LineResponse}
// @Security     BearerAuth
// @Router       /kanban/lines/{id} [put]
func (h *KanbanLineHandler) Update(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.lines.Update)
}

// Delete godoc
// @Summary      Delete Kanban line
// @Tags         kanban
// @Param        id path string true "Line ID"
// @Success      204
// @Security     BearerAuth
// @Router       /kanban/lines/{id} [delete]
func (h *KanbanLineHandler) Delete(c *gin.Context) {
	handleDelete(&h.BaseHandler, c, h.lines.Delete)
}

// AddColumn godoc
// @Summary      Add column
// @Description  A status may be mapped by at most one column of a line
// @Tags         kanban
// @Accept       json
// @Produce      json
// @Param        id path string true "Line ID"
// @Param        request body kanban.ColumnRequest true "Column"
// @Success      200 {object} dto.Response{data=kanban.LineResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /kanban/lines/{id}/columns [post]
func (h *KanbanLineHandler) AddColumn(c *gin.Context) {
	handleUpdate(&h.BaseHandler, c, h.lines.AddColumn)
}

// UpdateColumn godoc
// @Summary      Update column
// @Tags         kanban
// @Accept       json
// @Produce      json
// @Param        id path string true "Line ID"
// @Param        columnId path string true "Column ID"
// @Param        request body kanban.ColumnRequest true "Column"
// @Success      200 {object} dto.Response{data=kanban.LineResponse}
// @Security     BearerAuth
// @Router       /kanban/lines/{id}/columns/{columnId} [put]
func (h *KanbanLineHandler) UpdateColumn(c *gin.Context) {
	handleChildUpdate(&h.BaseHandler, c, "columnId", h.lines.UpdateColumn)
}

// RemoveColumn godoc
// @Summary      Remove column
// @Tags         kanban
// @Produce      json
// @Param        id path string true "Line ID"
// @Param        columnId path string true "Column ID"
// @Success      200 {object} dto.Response{data=kanban.LineResponse}
// @Security     BearerAuth
// @Router       /kanban/lines/{id}/columns/{columnId} [delete]
func (h *KanbanLineHandler) RemoveColumn(c *gin.Context) {
	handleChildAction(&h.BaseHandler, c, "columnId", h.lines.RemoveColumn)
}

// MoveColumnRequest names the direction of a column move
type MoveColumnRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// MoveColumn godoc
// @Summary      Reorder column
// @Description  Swaps the column with its neighbour. Moving past either end is a no-op.
// @Tags         kanban
// @Accept       json
// @Produce      json
// @Param        id path string true "Line ID"
// @Param        columnId path string true "Column ID"
// @Param        request body MoveColumnRequest true "Direction"
// @Success      200 {object} dto.Response{data=kanban.LineResponse}
// @Security     BearerAuth
// @Router       /kanban/lines/{id}/columns/{columnId}/move [post]
func (h *KanbanLineHandler) MoveColumn(c *gin.Context) {
	handleChildUpdate(&h.BaseHandler, c, "columnId",
		func(ctx context.Context, tenantID, lineID, columnID uuid.UUID, req MoveColumnRequest) (*kanban.LineResponse, error) {
			return h.lines.MoveColumn(ctx, tenantID, lineID, columnID, req.Direction == "up")
		})
}

// BoardService builds Kanban boards and applies card drops
type BoardService interface {
	GetBoard(ctx context.Context, tenantID uuid.UUID, q kanban.BoardQuery) (*kanban.Board, error)
	MoveItem(ctx context.Context, tenantID uuid.UUID, role identity.Role, req kanban.MoveItemRequest) (*kanban.MoveResult, error)
}

// BoardHandler serves the Kanban board
type BoardHandler struct {
	BaseHandler
	pageView
	boards BoardService
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(boards BoardService, layout LayoutService) *BoardHandler {
	return &BoardHandler{boards: boards, pageView: pageView{layout: layout}}
}

// Get godoc
// @Summary      Kanban board
// @Description  Cards of the project grouped by the columns of the line. Without line_id the company's first line is used.
// @Tags         kanban
// @Produce      json
// @Param        project_id query string true "Project ID"
// @Param        line_id query string false "Line ID"
// @Param        sprint_id query string false "Only items of this sprint"
// @Success      200 {object} dto.Response{data=kanban.Board,meta=dto.Meta}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /kanban/board [get]
func (h *BoardHandler) Get(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	var q kanban.BoardQuery
	if q.ProjectID, ok = h.requiredQueryUUID(c, "project_id"); !ok {
		return
	}
	if q.LineID, ok = h.queryUUID(c, "line_id"); !ok {
		return
	}
	if q.SprintID, ok = h.queryUUID(c, "sprint_id"); !ok {
		return
	}
	board, err := h.boards.GetBoard(c.Request.Context(), who.TenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.pageData(c, who, board)
}

// MoveItem godoc
// @Summary      Drop card into column
// @Description  Changes the item status when the column maps a status the workflow allows. Otherwise only the placement is stored.
// @Tags         kanban
// @Accept       json
// @Produce      json
// @Param        request body kanban.MoveItemRequest true "Drop"
// @Success      200 {object} dto.Response{data=kanban.MoveResult}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /kanban/board/move [post]
func (h *BoardHandler) MoveItem(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	var req kanban.MoveItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.boards.MoveItem(c.Request.Context(), who.TenantID, who.Role, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
