package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/derbent/backend/internal/application/identity"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/infrastructure/auth"
	"github.com/derbent/backend/internal/interfaces/http/dto"
	"github.com/derbent/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, input identity.LoginInput) (*identity.LoginResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.LoginResult), args.Error(1)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*identity.TokenResult, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.TokenResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, input identity.LogoutInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *MockAuthService) GetCurrentUser(ctx context.Context, tenantID, userID uuid.UUID) (*identity.UserResponse, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.UserResponse), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, input identity.ChangePasswordInput) error {
	return m.Called(ctx, input).Error(0)
}

func newAuthRouter(svc AuthService) *gin.Engine {
	h := NewAuthHandler(svc)
	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.RefreshToken)

	authed := r.Group("", asCaller(testCaller))
	authed.POST("/auth/logout", h.Logout)
	authed.GET("/auth/me", h.GetCurrentUser)
	authed.PUT("/auth/password", h.ChangePassword)
	return r
}

func TestAuthHandler_Login(t *testing.T) {
	svc := new(MockAuthService)
	r := newAuthRouter(svc)

	result := &identity.LoginResult{
		TokenResult: identity.TokenResult{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"},
		User:        identity.UserResponse{ID: testCaller.UserID, Username: "jdoe", Role: "manager"},
	}
	svc.On("Login", mock.Anything, mock.MatchedBy(func(in identity.LoginInput) bool {
		return in.CompanyCode == "ACME" && in.Username == "jdoe" && in.Password == "Secret123" && in.IP != ""
	})).Return(result, nil)

	w := doJSON(r, http.MethodPost, "/auth/login", LoginRequest{CompanyCode: "ACME", Username: "jdoe", Password: "Secret123"})

	require.Equal(t, http.StatusOK, w.Code)
	var got identity.LoginResult
	decodeResponse(t, w, &got)
	assert.Equal(t, "access", got.AccessToken)
	assert.Equal(t, "jdoe", got.User.Username)
	svc.AssertExpectations(t)
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	t.Run("missing company code", func(t *testing.T) {
		svc := new(MockAuthService)
		w := doJSON(newAuthRouter(svc), http.MethodPost, "/auth/login", gin.H{"username": "jdoe", "password": "x"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w, nil)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password"))

		w := doJSON(newAuthRouter(svc), http.MethodPost, "/auth/login", LoginRequest{CompanyCode: "ACME", Username: "jdoe", Password: "wrong"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "ERR_INVALID_CREDENTIALS", decodeResponse(t, w, nil).Error.Code)
	})

	t.Run("suspended company", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError("COMPANY_SUSPENDED", "Company is suspended"))

		w := doJSON(newAuthRouter(svc), http.MethodPost, "/auth/login", LoginRequest{CompanyCode: "ACME", Username: "jdoe", Password: "Secret123"})

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("RefreshToken", mock.Anything, "old-refresh").
		Return(&identity.TokenResult{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil)

	w := doJSON(newAuthRouter(svc), http.MethodPost, "/auth/refresh", RefreshTokenRequest{RefreshToken: "old-refresh"})

	require.Equal(t, http.StatusOK, w.Code)
	var got identity.TokenResult
	decodeResponse(t, w, &got)
	assert.Equal(t, "new-access", got.AccessToken)
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := new(MockAuthService)
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(10 * time.Minute)),
		},
	}

	h := NewAuthHandler(svc)
	r := gin.New()
	r.POST("/auth/logout", asCaller(testCaller), func(c *gin.Context) {
		c.Set(middleware.JWTClaimsKey, claims)
		c.Next()
	}, h.Logout)

	svc.On("Logout", mock.Anything, mock.MatchedBy(func(in identity.LogoutInput) bool {
		return in.UserID == testCaller.UserID &&
			in.TokenJTI == "jti-1" &&
			in.TokenTTL > 9*time.Minute &&
			in.AllSessions
	})).Return(nil)

	w := doJSON(r, http.MethodPost, "/auth/logout", LogoutRequest{AllSessions: true})

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestAuthHandler_Logout_WithoutBody(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Logout", mock.Anything, mock.MatchedBy(func(in identity.LogoutInput) bool {
		return !in.AllSessions && in.RefreshToken == ""
	})).Return(nil)

	w := doJSON(newAuthRouter(svc), http.MethodPost, "/auth/logout", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("GetCurrentUser", mock.Anything, testCaller.TenantID, testCaller.UserID).
		Return(&identity.UserResponse{ID: testCaller.UserID, Username: "jdoe", LayoutMode: "vertical"}, nil)

	w := doJSON(newAuthRouter(svc), http.MethodGet, "/auth/me", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got identity.UserResponse
	decodeResponse(t, w, &got)
	assert.Equal(t, "vertical", got.LayoutMode)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("ChangePassword", mock.Anything, identity.ChangePasswordInput{
			TenantID:    testCaller.TenantID,
			UserID:      testCaller.UserID,
			OldPassword: "Secret123",
			NewPassword: "Better456!",
		}).Return(nil)

		w := doJSON(newAuthRouter(svc), http.MethodPut, "/auth/password",
			ChangePasswordRequest{OldPassword: "Secret123", NewPassword: "Better456!"})

		assert.Equal(t, http.StatusNoContent, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("new password too short", func(t *testing.T) {
		svc := new(MockAuthService)
		w := doJSON(newAuthRouter(svc), http.MethodPut, "/auth/password",
			ChangePasswordRequest{OldPassword: "Secret123", NewPassword: "short"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w, nil)
		require.NotEmpty(t, resp.Error.Details)
		assert.Equal(t, "new_password", resp.Error.Details[0].Field)
	})
}
