package identity

import (
	"time"

	"github.com/derbent/backend/internal/application/listing"
	"github.com/derbent/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// LoginInput contains the input for user login
type LoginInput struct {
	CompanyCode string
	Username    string
	Password    string
	IP          string // Client IP for login tracking
}

// TokenResult is the token pair handed to the client
type TokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	TokenResult
	User UserResponse `json:"user"`
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	TenantID     uuid.UUID
	UserID       uuid.UUID
	TokenJTI     string
	TokenTTL     time.Duration // remaining lifetime of the access token
	RefreshToken string        // optional, revoked as well when present
	AllSessions  bool
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	TenantID    uuid.UUID
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// CreateUserRequest represents a request to create a new user
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	DisplayName string `json:"display_name" binding:"max=100"`
	Role        string `json:"role" binding:"required,oneof=admin manager member viewer"`
}

// UpdateUserRequest represents a request to update a user
type UpdateUserRequest struct {
	Email       *string `json:"email" binding:"omitempty,email,max=200"`
	DisplayName *string `json:"display_name" binding:"omitempty,max=100"`
	Role        *string `json:"role" binding:"omitempty,oneof=admin manager member viewer"`
	Active      *bool   `json:"active"`
}

// UserListFilter represents filter options for the user list
type UserListFilter struct {
	listing.Query
	Status string `form:"status" binding:"omitempty,oneof=active locked deactivated"`
	Role   string `form:"role" binding:"omitempty,oneof=admin manager member viewer"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LayoutMode  string     `json:"layout_mode,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int        `json:"version"`
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.GetDisplayNameOrUsername(),
		Role:        string(u.Role),
		Status:      string(u.Status),
		LayoutMode:  string(u.LayoutMode),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		Version:     u.Version,
	}
}

// CreateCompanyRequest represents a request to create a company
type CreateCompanyRequest struct {
	Code         string `json:"code" binding:"required,min=2,max=20"`
	Name         string `json:"name" binding:"required,min=1,max=200"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email,max=200"`
	Address      string `json:"address" binding:"max=500"`
}

// UpdateCompanyRequest represents a request to update the current company
type UpdateCompanyRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=200"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email,max=200"`
	Address      string `json:"address" binding:"max=500"`
}

// CompanyListFilter represents filter options for the company list
type CompanyListFilter struct {
	listing.Query
	Status string `form:"status" binding:"omitempty,oneof=active suspended"`
}

// CompanyResponse represents a company in API responses
type CompanyResponse struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	ContactEmail string    `json:"contact_email"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

// ToCompanyResponse converts a domain Company to CompanyResponse
func ToCompanyResponse(c *identity.Company) CompanyResponse {
	return CompanyResponse{
		ID:           c.ID,
		Code:         c.Code,
		Name:         c.Name,
		Status:       string(c.Status),
		ContactEmail: c.ContactEmail,
		Address:      c.Address,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		Version:      c.Version,
	}
}

// LayoutResponse is the effective layout of the calling user
type LayoutResponse struct {
	Mode    identity.LayoutMode `json:"mode"`
	Default identity.LayoutMode `json:"default"`
}
