package models

import (
	"time"

	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/shared"
)

// CompanyModel is the persistence model for the Company (tenant) aggregate.
type CompanyModel struct {
	AggregateModel
	Code         string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string                 `gorm:"type:varchar(200);not null"`
	Status       identity.CompanyStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ContactEmail string                 `gorm:"type:varchar(200)"`
	Address      string                 `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company.
func (m *CompanyModel) ToDomain() *identity.Company {
	c := &identity.Company{
		Code:         m.Code,
		Name:         m.Name,
		Status:       m.Status,
		ContactEmail: m.ContactEmail,
		Address:      m.Address,
	}
	m.PopulateAggregateRoot(&c.BaseAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Company.
func (m *CompanyModel) FromDomain(c *identity.Company) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Code = c.Code
	m.Name = c.Name
	m.Status = c.Status
	m.ContactEmail = c.ContactEmail
	m.Address = c.Address
}

// CompanyModelFromDomain creates a new persistence model from a domain Company.
func CompanyModelFromDomain(c *identity.Company) *CompanyModel {
	m := &CompanyModel{}
	m.FromDomain(c)
	return m
}

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	TenantAggregateModel
	Username          string              `gorm:"type:varchar(100);not null"`
	Email             string              `gorm:"type:varchar(200)"`
	DisplayName       string              `gorm:"type:varchar(200)"`
	PasswordHash      string              `gorm:"type:varchar(255);not null"`
	Role              identity.Role       `gorm:"type:varchar(20);not null;default:'member'"`
	Status            identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LayoutMode        identity.LayoutMode `gorm:"type:varchar(20)"`
	LastLoginAt       *time.Time          `gorm:"index"`
	LastLoginIP       string              `gorm:"type:varchar(45)"`
	FailedAttempts    int                 `gorm:"not null;default:0"`
	LockedUntil       *time.Time
	PasswordChangedAt *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	user := &identity.User{
		TenantAggregateRoot: shared.TenantAggregateRoot{},
		Username:            m.Username,
		Email:               m.Email,
		DisplayName:         m.DisplayName,
		PasswordHash:        m.PasswordHash,
		Role:                m.Role,
		Status:              m.Status,
		LayoutMode:          m.LayoutMode,
		LastLoginAt:         m.LastLoginAt,
		LastLoginIP:         m.LastLoginIP,
		FailedAttempts:      m.FailedAttempts,
		LockedUntil:         m.LockedUntil,
		PasswordChangedAt:   m.PasswordChangedAt,
	}
	m.PopulateTenantAggregateRoot(&user.TenantAggregateRoot)
	return user
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	m.Username = u.Username
	m.Email = u.Email
	m.DisplayName = u.DisplayName
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.Status = u.Status
	m.LayoutMode = u.LayoutMode
	m.LastLoginAt = u.LastLoginAt
	m.LastLoginIP = u.LastLoginIP
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
	m.PasswordChangedAt = u.PasswordChangedAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
