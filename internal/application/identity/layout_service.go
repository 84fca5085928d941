package identity

import (
	"context"
	"errors"

	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/settings"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LayoutService resolves the list/detail layout of a user. A single
// instance is built at startup and handed to every page handler.
type LayoutService struct {
	userRepo     identity.UserRepository
	settingsRepo settings.Repository
}

// NewLayoutService creates the layout service
func NewLayoutService(userRepo identity.UserRepository, settingsRepo settings.Repository) *LayoutService {
	return &LayoutService{userRepo: userRepo, settingsRepo: settingsRepo}
}

// Current returns the user's layout, or the system default when they
// never chose one
func (s *LayoutService) Current(ctx context.Context, tenantID, userID uuid.UUID) (*LayoutResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	def, err := s.defaultMode(ctx)
	if err != nil {
		return nil, err
	}
	return &LayoutResponse{Mode: identity.ResolveLayout(user.LayoutMode, def), Default: def}, nil
}

// Set stores the user's layout. An empty mode resets it to the default.
func (s *LayoutService) Set(ctx context.Context, tenantID, userID uuid.UUID, mode identity.LayoutMode) (*LayoutResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if err := user.SetLayoutMode(mode); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	def, err := s.defaultMode(ctx)
	if err != nil {
		return nil, err
	}
	return &LayoutResponse{Mode: identity.ResolveLayout(user.LayoutMode, def), Default: def}, nil
}

// Toggle switches between horizontal and vertical
func (s *LayoutService) Toggle(ctx context.Context, tenantID, userID uuid.UUID) (*LayoutResponse, error) {
	current, err := s.Current(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	return s.Set(ctx, tenantID, userID, current.Mode.Toggle())
}

func (s *LayoutService) defaultMode(ctx context.Context) (identity.LayoutMode, error) {
	sys, err := s.settingsRepo.GetSystem(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return settings.DefaultSystemSettings().DefaultLayoutMode, nil
	}
	if err != nil {
		return "", err
	}
	return sys.DefaultLayoutMode, nil
}
