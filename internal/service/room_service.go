package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"boardinghouse/internal/apperr"
	"boardinghouse/internal/auth"
	"boardinghouse/internal/billing"
	"boardinghouse/internal/model"
	"boardinghouse/internal/repository"
)

// CreateRoomInput is a new room's configuration.
type CreateRoomInput struct {
	RoomNumber            string
	MonthlyRent           decimal.Decimal
	WifiFee               decimal.Decimal
	ElectricityRatePerKwh decimal.Decimal
	BillingDueDay         int
}

type RoomService interface {
	Create(ctx context.Context, p auth.Principal, in CreateRoomInput) (*model.Room, error)
	Update(ctx context.Context, p auth.Principal, roomID string, in model.RoomUpdate) (*model.Room, error)
	ListByLandlord(ctx context.Context, p auth.Principal) ([]model.RoomOverview, error)
	Get(ctx context.Context, p auth.Principal, roomID string) (*model.Room, error)
	RemoveTenant(ctx context.Context, p auth.Principal, roomID string) error
}

type roomService struct {
	store  repository.Store
	logger zerolog.Logger
}

func NewRoomService(store repository.Store, logger zerolog.Logger) RoomService {
	return &roomService{
		store:  store,
		logger: logger.With().Str("service", "RoomService").Logger(),
	}
}

func validateRates(rent, wifi, rate *decimal.Decimal) error {
	for _, f := range []struct {
		name  string
		value *decimal.Decimal
		cents bool
	}{{"monthly rent", rent, true}, {"wifi fee", wifi, true}, {"electricity rate", rate, false}} {
		if f.value == nil {
			continue
		}
		if f.value.IsNegative() {
			return apperr.Validation("%s cannot be negative", f.name)
		}
		if f.cents {
			if err := billing.CheckPrecision(f.name, *f.value); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *roomService) Create(ctx context.Context, p auth.Principal, in CreateRoomInput) (*model.Room, error) {
	if err := auth.Require(p, auth.RoleLandlord); err != nil {
		return nil, err
	}
	number := strings.TrimSpace(in.RoomNumber)
	if number == "" {
		return nil, apperr.Validation("room number is required")
	}
	if err := validateRates(&in.MonthlyRent, &in.WifiFee, &in.ElectricityRatePerKwh); err != nil {
		return nil, err
	}
	if err := billing.ValidateDueDay(in.BillingDueDay); err != nil {
		return nil, err
	}

	room := &model.Room{
		LandlordID:            p.UserID,
		RoomNumber:            number,
		MonthlyRent:           in.MonthlyRent,
		WifiFee:               in.WifiFee,
		ElectricityRatePerKwh: in.ElectricityRatePerKwh,
		BillingDueDay:         in.BillingDueDay,
	}
	if err := s.store.Repos().Rooms.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	s.logger.Info().Str("room_id", room.ID).Str("room_number", room.RoomNumber).Msg("Room created")
	return room, nil
}

func (s *roomService) Update(ctx context.Context, p auth.Principal, roomID string, in model.RoomUpdate) (*model.Room, error) {
	if err := auth.Require(p, auth.RoleLandlord); err != nil {
		return nil, err
	}
	if err := validateRates(in.MonthlyRent, in.WifiFee, in.ElectricityRatePerKwh); err != nil {
		return nil, err
	}
	if in.BillingDueDay != nil {
		if err := billing.ValidateDueDay(*in.BillingDueDay); err != nil {
			return nil, err
		}
	}

	var room *model.Room
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		var err error
		room, err = ownedRoom(ctx, r.Rooms, p, roomID, true)
		if err != nil {
			return err
		}
		if in.MonthlyRent != nil {
			room.MonthlyRent = *in.MonthlyRent
		}
		if in.WifiFee != nil {
			room.WifiFee = *in.WifiFee
		}
		if in.ElectricityRatePerKwh != nil {
			room.ElectricityRatePerKwh = *in.ElectricityRatePerKwh
		}
		if in.BillingDueDay != nil {
			room.BillingDueDay = *in.BillingDueDay
		}
		return r.Rooms.UpdateRoom(ctx, room)
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *roomService) ListByLandlord(ctx context.Context, p auth.Principal) ([]model.RoomOverview, error) {
	if err := auth.Require(p, auth.RoleLandlord); err != nil {
		return nil, err
	}
	return s.store.Repos().Rooms.ListRoomsByLandlord(ctx, p.UserID)
}

func (s *roomService) Get(ctx context.Context, p auth.Principal, roomID string) (*model.Room, error) {
	if err := auth.Require(p, auth.RoleLandlord, auth.RoleTenant); err != nil {
		return nil, err
	}
	room, err := s.store.Repos().Rooms.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, apperr.NotFound("room %s", roomID)
	}
	if err := canViewRoom(p, room); err != nil {
		return nil, err
	}
	return room, nil
}

// RemoveTenant vacates a room. Past billings keep their tenant.
func (s *roomService) RemoveTenant(ctx context.Context, p auth.Principal, roomID string) error {
	if err := auth.Require(p, auth.RoleLandlord); err != nil {
		return err
	}
	return s.store.WithTx(ctx, func(r repository.Repositories) error {
		room, err := ownedRoom(ctx, r.Rooms, p, roomID, true)
		if err != nil {
			return err
		}
		if !room.HasTenant() {
			return nil
		}
		if err := r.Rooms.ClearTenant(ctx, room.ID); err != nil {
			return err
		}
		s.logger.Info().Str("room_id", room.ID).Str("tenant_id", *room.TenantID).Msg("Tenant removed from room")
		return nil
	})
}
