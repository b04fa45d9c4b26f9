package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"boardinghouse/internal/apperr"
	"boardinghouse/internal/auth"
	"boardinghouse/internal/billing"
	"boardinghouse/internal/model"
	"boardinghouse/internal/repository"
)

const minPasswordLength = 8

// NewUserInput is an account created by an admin or landlord.
type NewUserInput struct {
	Name     string
	Email    string
	Password string
}

// NewTenantInput creates a tenant and moves them into a room.
type NewTenantInput struct {
	NewUserInput
	RoomID        string
	BillingDueDay int
}

type UserService interface {
	Get(ctx context.Context, id string) (*model.User, error)
	CreateLandlord(ctx context.Context, p auth.Principal, in NewUserInput) (*model.User, error)
	ListLandlords(ctx context.Context, p auth.Principal) ([]model.UserSummary, error)
	CreateTenant(ctx context.Context, p auth.Principal, in NewTenantInput) (*model.User, error)
	ListTenants(ctx context.Context, p auth.Principal) ([]model.UserSummary, error)
	// CreateAdmin bootstraps an admin account from the operator CLI.
	CreateAdmin(ctx context.Context, in NewUserInput) (*model.User, error)
}

type userService struct {
	store      repository.Store
	bcryptCost int
	logger     zerolog.Logger
}

func NewUserService(store repository.Store, logger zerolog.Logger) UserService {
	return &userService{
		store:      store,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger.With().Str("service", "UserService").Logger(),
	}
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.store.Repos().Users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user %s", id)
	}
	return u, nil
}

func (s *userService) newUser(in NewUserInput, role auth.Role) (*model.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(in.Email))
	if err != nil {
		return nil, apperr.Validation("invalid email %q", in.Email)
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperr.Validation("password must be at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	return &model.User{
		Name:         name,
		Email:        strings.ToLower(addr.Address),
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}, nil
}

func (s *userService) create(ctx context.Context, in NewUserInput, role auth.Role) (*model.User, error) {
	u, err := s.newUser(in, role)
	if err != nil {
		return nil, err
	}
	if err := s.store.Repos().Users.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", u.ID).Str("role", role.String()).Msg("User created")
	return u, nil
}

func (s *userService) CreateLandlord(ctx context.Context, p auth.Principal, in NewUserInput) (*model.User, error) {
	if err := auth.Require(p, auth.RoleAdmin); err != nil {
		return nil, err
	}
	return s.create(ctx, in, auth.RoleLandlord)
}

func (s *userService) ListLandlords(ctx context.Context, p auth.Principal) ([]model.UserSummary, error) {
	if err := auth.Require(p, auth.RoleAdmin); err != nil {
		return nil, err
	}
	return s.store.Repos().Users.ListLandlords(ctx)
}

func (s *userService) CreateAdmin(ctx context.Context, in NewUserInput) (*model.User, error) {
	return s.create(ctx, in, auth.RoleAdmin)
}

// CreateTenant creates the tenant account and assigns it to one of the
// landlord's vacant rooms in one transaction.
func (s *userService) CreateTenant(ctx context.Context, p auth.Principal, in NewTenantInput) (*model.User, error) {
	if err := auth.Require(p, auth.RoleLandlord); err != nil {
		return nil, err
	}
	if err := billing.ValidateDueDay(in.BillingDueDay); err != nil {
		return nil, err
	}
	u, err := s.newUser(in.NewUserInput, auth.RoleTenant)
	if err != nil {
		return nil, err
	}

	err = s.store.WithTx(ctx, func(r repository.Repositories) error {
		room, err := ownedRoom(ctx, r.Rooms, p, in.RoomID, true)
		if err != nil {
			return err
		}
		if room.HasTenant() {
			return apperr.Conflict("room %s already has a tenant", room.RoomNumber)
		}
		if err := r.Users.CreateUser(ctx, u); err != nil {
			return err
		}
		return r.Rooms.AssignTenant(ctx, room.ID, u.ID, in.BillingDueDay)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", u.ID).Str("room_id", in.RoomID).Msg("Tenant created")
	return u, nil
}

func (s *userService) ListTenants(ctx context.Context, p auth.Principal) ([]model.UserSummary, error) {
	if err := auth.Require(p, auth.RoleLandlord); err != nil {
		return nil, err
	}
	return s.store.Repos().Users.ListTenantsByLandlord(ctx, p.UserID)
}
