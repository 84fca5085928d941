package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCompanyChecker struct {
	mock.Mock
}

func (m *MockCompanyChecker) IsActive(ctx context.Context, companyID uuid.UUID) (bool, error) {
	args := m.Called(ctx, companyID)
	return args.Bool(0), args.Error(1)
}

func TestTenant_FromClaims(t *testing.T) {
	svc := newTestJWTService()
	pair, sub := issueToken(t, svc, identity.RoleMember)
	checker := new(MockCompanyChecker)
	checker.On("IsActive", mock.Anything, sub.TenantID).Return(true, nil)

	router := gin.New()
	router.Use(JWTAuth(JWTConfig{Validator: svc}), Tenant(TenantConfig{Checker: checker}))
	router.GET("/test", func(c *gin.Context) {
		assert.Equal(t, sub.TenantID, GetTenantID(c))
		assert.Equal(t, sub.TenantID.String(), logger.GetTenantID(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	w := serve(router, authedRequest(http.MethodGet, "/test", pair.AccessToken))
	assert.Equal(t, http.StatusOK, w.Code)
	checker.AssertExpectations(t)
}

func TestTenant_SuspendedCompany(t *testing.T) {
	svc := newTestJWTService()
	pair, sub := issueToken(t, svc, identity.RoleMember)
	checker := new(MockCompanyChecker)
	checker.On("IsActive", mock.Anything, sub.TenantID).Return(false, nil)

	router := gin.New()
	router.Use(JWTAuth(JWTConfig{Validator: svc}), Tenant(TenantConfig{Checker: checker}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, authedRequest(http.MethodGet, "/test", pair.AccessToken))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTenant_CheckerError(t *testing.T) {
	svc := newTestJWTService()
	pair, sub := issueToken(t, svc, identity.RoleMember)
	checker := new(MockCompanyChecker)
	checker.On("IsActive", mock.Anything, sub.TenantID).Return(false, errors.New("db down"))

	router := gin.New()
	router.Use(JWTAuth(JWTConfig{Validator: svc}), Tenant(TenantConfig{Checker: checker}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, authedRequest(http.MethodGet, "/test", pair.AccessToken))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTenant_WithoutClaims(t *testing.T) {
	router := gin.New()
	router.Use(Tenant(TenantConfig{}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := authedRequest(http.MethodGet, "/test", "")
	req.Header.Set("X-Tenant-ID", uuid.NewString())
	w := serve(router, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "headers never select the company")
}
