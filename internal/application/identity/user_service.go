package identity

import (
	"context"
	"time"

	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles user management within a company
type UserService struct {
	userRepo  identity.UserRepository
	blacklist auth.TokenBlacklist
	revokeTTL time.Duration
	events    shared.EventPublisher
	logger    *zap.Logger
}

// NewUserService creates a new user service. Deactivating a user revokes
// their tokens for revokeTTL, which should be the refresh token lifetime.
// blacklist may be nil.
func NewUserService(
	userRepo identity.UserRepository,
	blacklist auth.TokenBlacklist,
	revokeTTL time.Duration,
	events shared.EventPublisher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		blacklist: blacklist,
		revokeTTL: revokeTTL,
		events:    events,
		logger:    logger,
	}
}

// Create creates a new user in the company
func (s *UserService) Create(ctx context.Context, tenantID, createdBy uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, tenantID, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}

	user, err := identity.NewUser(tenantID, req.Username, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if req.Email != "" {
		if err := user.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != "" {
		if err := user.SetDisplayName(req.DisplayName); err != nil {
			return nil, err
		}
	}
	user.SetCreatedBy(createdBy)

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publish(ctx, user)

	s.logger.Info("User created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("role", req.Role),
	)
	resp := ToUserResponse(user)
	return &resp, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// List retrieves users with filtering and pagination
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := filter.Query.Filter("username", "asc")
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Role != "" {
		domainFilter.Filters["role"] = filter.Role
	}

	users, total, err := s.userRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out, total, nil
}

// Update changes profile, role and activation of a user. A user cannot
// change their own role or deactivate themselves.
func (s *UserService) Update(ctx context.Context, tenantID, actorID, userID uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != nil {
		if err := user.SetDisplayName(*req.DisplayName); err != nil {
			return nil, err
		}
	}
	if req.Role != nil && identity.Role(*req.Role) != user.Role {
		if actorID == userID {
			return nil, shared.NewDomainError("SELF_ROLE_CHANGE", "You cannot change your own role")
		}
		if err := user.SetRole(identity.Role(*req.Role)); err != nil {
			return nil, err
		}
	}

	revoke := false
	if req.Active != nil {
		switch {
		case *req.Active && user.Status != identity.UserStatusActive:
			if err := user.Activate(); err != nil {
				return nil, err
			}
		case !*req.Active && user.Status != identity.UserStatusDeactivated:
			if actorID == userID {
				return nil, shared.NewDomainError("SELF_DEACTIVATION", "You cannot deactivate yourself")
			}
			if err := user.Deactivate(); err != nil {
				return nil, err
			}
			revoke = true
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publish(ctx, user)

	if revoke {
		s.revokeSessions(ctx, user.ID)
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// Delete removes a user. Users cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, tenantID, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return shared.NewDomainError("SELF_DELETION", "You cannot delete yourself")
	}
	if err := s.userRepo.DeleteForTenant(ctx, tenantID, userID); err != nil {
		return err
	}
	s.revokeSessions(ctx, userID)
	return nil
}

func (s *UserService) revokeSessions(ctx context.Context, userID uuid.UUID) {
	if s.blacklist == nil {
		return
	}
	if err := s.blacklist.InvalidateUser(ctx, userID.String(), s.revokeTTL); err != nil {
		s.logger.Error("Failed to revoke user sessions", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func (s *UserService) publish(ctx context.Context, user *identity.User) {
	if err := shared.PublishPending(ctx, s.events, user); err != nil {
		s.logger.Warn("Failed to publish user events", zap.Error(err))
	}
}
