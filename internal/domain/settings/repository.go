package settings

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists both settings aggregates. Getters return
// shared.ErrNotFound when nothing is stored yet.
type Repository interface {
	GetSystem(ctx context.Context) (*SystemSettings, error)
	SaveSystem(ctx context.Context, s *SystemSettings) error
	GetCompany(ctx context.Context, tenantID uuid.UUID) (*CompanySettings, error)
	SaveCompany(ctx context.Context, s *CompanySettings) error
}
