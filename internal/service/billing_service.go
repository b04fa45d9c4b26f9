package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"boardinghouse/internal/apperr"
	"boardinghouse/internal/auth"
	"boardinghouse/internal/billing"
	"boardinghouse/internal/model"
	"boardinghouse/internal/pubsub"
	"boardinghouse/internal/repository"
)

// ManualBillingInput is a hand-entered billing. Nil amounts fall back to
// the room's configuration, electricity to zero.
type ManualBillingInput struct {
	RoomID      string
	Month       billing.Month
	Rent        *decimal.Decimal
	Wifi        *decimal.Decimal
	Electricity *decimal.Decimal
}

// BillingView is a billing with its derived due-date status and, for
// tenants, the meter reading of the same month.
type BillingView struct {
	model.Billing
	MeterReading *model.MeterReading   `json:"meter_reading,omitempty"`
	DueStatus    billing.DueDateStatus `json:"due_status"`
}

type BillingService interface {
	CreateManual(ctx context.Context, p auth.Principal, in ManualBillingInput) (*model.Billing, error)
	Get(ctx context.Context, p auth.Principal, billingID string) (*BillingView, error)
	ListForTenant(ctx context.Context, p auth.Principal) ([]BillingView, error)
	ListForLandlord(ctx context.Context, p auth.Principal) ([]BillingView, error)
	// PendingCount counts PENDING billings in the caller's scope.
	PendingCount(ctx context.Context, p auth.Principal) (int, error)
}

type billingService struct {
	store  repository.Store
	events pubsub.Emitter
	clock  Clock
	logger zerolog.Logger
}

func NewBillingService(store repository.Store, events pubsub.Emitter, clock Clock, logger zerolog.Logger) BillingService {
	return &billingService{
		store:  store,
		events: events,
		clock:  clock,
		logger: logger.With().Str("service", "BillingService").Logger(),
	}
}

func (s *billingService) CreateManual(ctx context.Context, p auth.Principal, in ManualBillingInput) (*model.Billing, error) {
	if err := auth.Require(p, auth.RoleLandlord); err != nil {
		return nil, err
	}
	if in.Month.IsZero() {
		return nil, apperr.Validation("month is required")
	}

	var created *model.Billing
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		room, err := ownedRoom(ctx, r.Rooms, p, in.RoomID, true)
		if err != nil {
			return err
		}
		if !room.HasTenant() {
			return apperr.Validation("room %s has no tenant", room.RoomNumber)
		}
		existing, err := r.Billings.GetBillingByRoomMonth(ctx, room.ID, in.Month)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.Conflict("billing for %s already exists", in.Month)
		}
		charges, err := billing.ManualCharges(room.Rates(), billing.Overrides{
			Rent:        in.Rent,
			Wifi:        in.Wifi,
			Electricity: in.Electricity,
		})
		if err != nil {
			return err
		}
		b := &model.Billing{
			RoomID:   room.ID,
			TenantID: *room.TenantID,
			Month:    in.Month,
			Status:   billing.StatusPending,
		}
		b.SetCharges(charges)
		if err := r.Billings.CreateBilling(ctx, b); err != nil {
			return err
		}
		b.RoomNumber, b.BillingDueDay, b.LandlordID = room.RoomNumber, room.BillingDueDay, room.LandlordID
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("billing_id", created.ID).Str("month", created.Month.String()).Msg("Manual billing created")
	s.events.Emit(ctx, billingEvent(pubsub.BillingCreated, created, p.UserID, s.clock.now()))
	return created, nil
}

func (s *billingService) Get(ctx context.Context, p auth.Principal, billingID string) (*BillingView, error) {
	if err := auth.Require(p, auth.RoleLandlord, auth.RoleTenant); err != nil {
		return nil, err
	}
	repos := s.store.Repos()
	b, err := repos.Billings.GetBillingByID(ctx, billingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.NotFound("billing %s", billingID)
	}
	if err := canViewBilling(p, b); err != nil {
		return nil, err
	}
	reading, err := repos.Readings.GetReadingByRoomMonth(ctx, b.RoomID, b.Month)
	if err != nil {
		return nil, err
	}
	view, err := s.view(*b, reading)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *billingService) ListForTenant(ctx context.Context, p auth.Principal) ([]BillingView, error) {
	if err := auth.Require(p, auth.RoleTenant); err != nil {
		return nil, err
	}
	repos := s.store.Repos()
	billings, err := repos.Billings.ListBillingsByTenant(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]BillingView, 0, len(billings))
	for _, b := range billings {
		reading, err := repos.Readings.GetReadingByRoomMonth(ctx, b.RoomID, b.Month)
		if err != nil {
			return nil, err
		}
		view, err := s.view(b, reading)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *billingService) ListForLandlord(ctx context.Context, p auth.Principal) ([]BillingView, error) {
	if err := auth.Require(p, auth.RoleLandlord); err != nil {
		return nil, err
	}
	billings, err := s.store.Repos().Billings.ListBillingsByLandlord(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]BillingView, 0, len(billings))
	for _, b := range billings {
		view, err := s.view(b, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *billingService) PendingCount(ctx context.Context, p auth.Principal) (int, error) {
	if err := auth.Require(p, auth.RoleLandlord, auth.RoleTenant); err != nil {
		return 0, err
	}
	billings := s.store.Repos().Billings
	if p.Role == auth.RoleLandlord {
		return billings.CountByLandlordStatus(ctx, p.UserID, billing.StatusPending)
	}
	return billings.CountByTenantStatus(ctx, p.UserID, billing.StatusPending)
}

func (s *billingService) view(b model.Billing, reading *model.MeterReading) (BillingView, error) {
	due, err := billing.CalculateDueDateStatus(b.Month, b.BillingDueDay, b.Status, s.clock.now())
	if err != nil {
		return BillingView{}, err
	}
	return BillingView{Billing: b, MeterReading: reading, DueStatus: due}, nil
}
