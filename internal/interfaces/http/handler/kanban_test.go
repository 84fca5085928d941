package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/derbent/backend/internal/application/kanban"
	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBoardService struct {
	mock.Mock
}

func (m *MockBoardService) GetBoard(ctx context.Context, tenantID uuid.UUID, q kanban.BoardQuery) (*kanban.Board, error) {
	args := m.Called(ctx, tenantID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*kanban.Board), args.Error(1)
}

func (m *MockBoardService) MoveItem(ctx context.Context, tenantID uuid.UUID, role identity.Role, req kanban.MoveItemRequest) (*kanban.MoveResult, error) {
	args := m.Called(ctx, tenantID, role, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*kanban.MoveResult), args.Error(1)
}

func newBoardRouter(svc BoardService, layout LayoutService) *gin.Engine {
	h := NewBoardHandler(svc, layout)
	r := newTestEngine()
	r.GET("/kanban/board", h.Get)
	r.POST("/kanban/board/move", h.MoveItem)
	return r
}

func TestBoardHandler_Get(t *testing.T) {
	svc := new(MockBoardService)
	projectID, sprintID := uuid.New(), uuid.New()
	svc.On("GetBoard", mock.Anything, testCaller.TenantID, kanban.BoardQuery{ProjectID: projectID, SprintID: &sprintID}).
		Return(&kanban.Board{ProjectID: projectID, LineName: "Delivery"}, nil)

	w := doJSON(newBoardRouter(svc, layoutReturning("vertical")), http.MethodGet,
		"/kanban/board?project_id="+projectID.String()+"&sprint_id="+sprintID.String(), nil)

	require.Equal(t, http.StatusOK, w.Code)
	var board kanban.Board
	resp := decodeResponse(t, w, &board)
	assert.Equal(t, "Delivery", board.LineName)
	assert.Equal(t, "vertical", resp.Meta.Layout)
	svc.AssertExpectations(t)
}

func TestBoardHandler_Get_QueryErrors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		code  string
	}{
		{"missing project", "", dto.ErrCodeValidation},
		{"malformed project", "?project_id=abc", dto.ErrCodeInvalidInput},
		{"malformed line", "?project_id=" + uuid.NewString() + "&line_id=abc", dto.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockBoardService)
			w := doJSON(newBoardRouter(svc, nil), http.MethodGet, "/kanban/board"+tt.query, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, decodeResponse(t, w, nil).Error.Code)
			svc.AssertNotCalled(t, "GetBoard")
		})
	}
}

func TestBoardHandler_MoveItem(t *testing.T) {
	svc := new(MockBoardService)
	req := kanban.MoveItemRequest{LineID: uuid.New(), ItemType: "activity", ItemID: uuid.New(), ColumnID: uuid.New()}
	svc.On("MoveItem", mock.Anything, testCaller.TenantID, testCaller.Role, req).
		Return(&kanban.MoveResult{ItemID: req.ItemID, ColumnID: req.ColumnID, PlacementOnly: true}, nil)

	w := doJSON(newBoardRouter(svc, nil), http.MethodPost, "/kanban/board/move", req)

	require.Equal(t, http.StatusOK, w.Code)
	var result kanban.MoveResult
	decodeResponse(t, w, &result)
	assert.True(t, result.PlacementOnly)
	svc.AssertExpectations(t)
}

func TestBoardHandler_MoveItem_RejectsUnknownItemType(t *testing.T) {
	svc := new(MockBoardService)
	body := gin.H{"line_id": uuid.New(), "item_type": "invoice", "item_id": uuid.New(), "column_id": uuid.New()}

	w := doJSON(newBoardRouter(svc, nil), http.MethodPost, "/kanban/board/move", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "MoveItem")
}
