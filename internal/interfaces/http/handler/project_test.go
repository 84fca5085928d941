package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/derbent/backend/internal/application/project"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, req project.CreateProjectRequest) (*project.ProjectResponse, error) {
	args := m.Called(ctx, tenantID, createdBy, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.ProjectResponse), args.Error(1)
}

func (m *MockProjectService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*project.ProjectResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.ProjectResponse), args.Error(1)
}

func (m *MockProjectService) List(ctx context.Context, tenantID uuid.UUID, filter project.ProjectListFilter) ([]project.ProjectResponse, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]project.ProjectResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockProjectService) Update(ctx context.Context, tenantID, id uuid.UUID, req project.UpdateProjectRequest) (*project.ProjectResponse, error) {
	args := m.Called(ctx, tenantID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.ProjectResponse), args.Error(1)
}

func (m *MockProjectService) Archive(ctx context.Context, tenantID, id uuid.UUID) (*project.ProjectResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.ProjectResponse), args.Error(1)
}

func (m *MockProjectService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*project.ProjectResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.ProjectResponse), args.Error(1)
}

func (m *MockProjectService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockProjectService) ListMembers(ctx context.Context, tenantID, projectID uuid.UUID) ([]project.MemberResponse, error) {
	args := m.Called(ctx, tenantID, projectID)
	return args.Get(0).([]project.MemberResponse), args.Error(1)
}

func (m *MockProjectService) AddMember(ctx context.Context, tenantID, projectID uuid.UUID, req project.AddMemberRequest) (*project.MemberResponse, error) {
	args := m.Called(ctx, tenantID, projectID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.MemberResponse), args.Error(1)
}

func (m *MockProjectService) RemoveMember(ctx context.Context, tenantID, projectID, userID uuid.UUID) error {
	return m.Called(ctx, tenantID, projectID, userID).Error(0)
}

func newProjectRouter(svc ProjectService) *gin.Engine {
	h := NewProjectHandler(svc)
	r := newTestEngine()
	r.POST("/projects", h.Create)
	r.GET("/projects", h.List)
	r.GET("/projects/:id", h.Get)
	r.PUT("/projects/:id", h.Update)
	r.POST("/projects/:id/archive", h.Archive)
	r.DELETE("/projects/:id", h.Delete)
	r.POST("/projects/:id/members", h.AddMember)
	r.DELETE("/projects/:id/members/:userId", h.RemoveMember)
	return r
}

func TestProjectHandler_Create(t *testing.T) {
	svc := new(MockProjectService)
	req := project.CreateProjectRequest{Name: "Harbour refit", Code: "HR-1"}
	svc.On("Create", mock.Anything, testCaller.TenantID, testCaller.UserID, req).
		Return(&project.ProjectResponse{ID: uuid.New(), Name: "Harbour refit", Code: "HR-1", Status: "active"}, nil)

	w := doJSON(newProjectRouter(svc), http.MethodPost, "/projects", req)

	require.Equal(t, http.StatusCreated, w.Code)
	var got project.ProjectResponse
	decodeResponse(t, w, &got)
	assert.Equal(t, "HR-1", got.Code)
	svc.AssertExpectations(t)
}

func TestProjectHandler_Create_Duplicate(t *testing.T) {
	svc := new(MockProjectService)
	svc.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, shared.NewDomainError("ALREADY_EXISTS", "Project code already in use"))

	w := doJSON(newProjectRouter(svc), http.MethodPost, "/projects", project.CreateProjectRequest{Name: "x", Code: "HR-1"})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProjectHandler_Create_MissingName(t *testing.T) {
	svc := new(MockProjectService)

	w := doJSON(newProjectRouter(svc), http.MethodPost, "/projects", gin.H{"code": "HR-1"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Create")
}

func TestProjectHandler_List(t *testing.T) {
	svc := new(MockProjectService)
	svc.On("List", mock.Anything, testCaller.TenantID, mock.MatchedBy(func(f project.ProjectListFilter) bool {
		return f.Status == "archived" && f.Page == 2 && f.PageSize == 5 && f.Search == "harbour"
	})).Return([]project.ProjectResponse{{Name: "Harbour refit"}}, int64(6), nil)

	w := doJSON(newProjectRouter(svc), http.MethodGet, "/projects?status=archived&page=2&page_size=5&search=harbour", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var items []project.ProjectResponse
	resp := decodeResponse(t, w, &items)
	assert.Len(t, items, 1)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(6), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)
	svc.AssertExpectations(t)
}

func TestProjectHandler_List_InvalidStatus(t *testing.T) {
	w := doJSON(newProjectRouter(new(MockProjectService)), http.MethodGet, "/projects?status=deleted", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectHandler_Get(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		svc := new(MockProjectService)
		id := uuid.New()
		svc.On("GetByID", mock.Anything, testCaller.TenantID, id).Return(nil, shared.NotFound("Project"))

		w := doJSON(newProjectRouter(svc), http.MethodGet, "/projects/"+id.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, decodeResponse(t, w, nil).Error.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := doJSON(newProjectRouter(new(MockProjectService)), http.MethodGet, "/projects/nope", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProjectHandler_Archive(t *testing.T) {
	svc := new(MockProjectService)
	id := uuid.New()
	svc.On("Archive", mock.Anything, testCaller.TenantID, id).
		Return(&project.ProjectResponse{ID: id, Status: "archived"}, nil)

	w := doJSON(newProjectRouter(svc), http.MethodPost, "/projects/"+id.String()+"/archive", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got project.ProjectResponse
	decodeResponse(t, w, &got)
	assert.Equal(t, "archived", got.Status)
}

func TestProjectHandler_Delete_InUse(t *testing.T) {
	svc := new(MockProjectService)
	id := uuid.New()
	svc.On("Delete", mock.Anything, testCaller.TenantID, id).
		Return(shared.NewDomainError("PROJECT_NOT_EMPTY", "Project still has items"))

	w := doJSON(newProjectRouter(svc), http.MethodDelete, "/projects/"+id.String(), nil)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProjectHandler_Members(t *testing.T) {
	svc := new(MockProjectService)
	projectID, userID := uuid.New(), uuid.New()
	req := project.AddMemberRequest{UserID: userID, Role: "member"}
	svc.On("AddMember", mock.Anything, testCaller.TenantID, projectID, req).
		Return(&project.MemberResponse{ProjectID: projectID, UserID: userID, Role: "member"}, nil)
	svc.On("RemoveMember", mock.Anything, testCaller.TenantID, projectID, userID).Return(nil)
	r := newProjectRouter(svc)

	w := doJSON(r, http.MethodPost, "/projects/"+projectID.String()+"/members", req)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/projects/"+projectID.String()+"/members", gin.H{"user_id": userID, "role": "owner"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodDelete, "/projects/"+projectID.String()+"/members/"+userID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	svc.AssertExpectations(t)
}
