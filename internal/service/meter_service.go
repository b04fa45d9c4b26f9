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
	"boardinghouse/internal/pubsub"
	"boardinghouse/internal/repository"
	"boardinghouse/internal/storage"
)

const recentReadingsLimit = 50

// RecordReadingInput is a landlord's monthly meter entry.
type RecordReadingInput struct {
	RoomID         string
	Month          billing.Month
	CurrentReading decimal.Decimal
	PhotoURL       string
}

// UpdateReadingInput corrects a reading. A nil PhotoURL keeps the photo.
type UpdateReadingInput struct {
	CurrentReading decimal.Decimal
	PhotoURL       *string
}

// ReadingResult is a stored reading and the billing it produced or
// recomputed, if any.
type ReadingResult struct {
	Reading *model.MeterReading `json:"reading"`
	Billing *model.Billing      `json:"billing,omitempty"`
}

type MeterService interface {
	Record(ctx context.Context, p auth.Principal, in RecordReadingInput) (*ReadingResult, error)
	Update(ctx context.Context, p auth.Principal, readingID string, in UpdateReadingInput) (*ReadingResult, error)
	ListByRoom(ctx context.Context, p auth.Principal, roomID string) ([]model.MeterReading, error)
	ListRecent(ctx context.Context, p auth.Principal) ([]model.MeterReading, error)
}

type meterService struct {
	store  repository.Store
	images Images
	events pubsub.Emitter
	clock  Clock
	logger zerolog.Logger
}

func NewMeterService(store repository.Store, images Images, events pubsub.Emitter, clock Clock, logger zerolog.Logger) MeterService {
	return &meterService{
		store:  store,
		images: images,
		events: events,
		clock:  clock,
		logger: logger.With().Str("service", "MeterService").Logger(),
	}
}

// Record stores the reading for (room, month). The previous value is the
// room's latest reading for an earlier month, or zero. When the room has
// a tenant the month's billing is generated in the same transaction.
func (s *meterService) Record(ctx context.Context, p auth.Principal, in RecordReadingInput) (*ReadingResult, error) {
	if err := auth.Require(p, auth.RoleLandlord); err != nil {
		return nil, err
	}
	if in.Month.IsZero() {
		return nil, apperr.Validation("month is required")
	}
	if strings.TrimSpace(in.PhotoURL) == "" {
		return nil, apperr.Validation("meter photo is required")
	}
	if err := storedImage(s.images, in.PhotoURL, storage.MeterPhotos); err != nil {
		return nil, err
	}

	var (
		res       ReadingResult
		eventType pubsub.EventType
	)
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		room, err := ownedRoom(ctx, r.Rooms, p, in.RoomID, true)
		if err != nil {
			return err
		}
		existing, err := r.Readings.GetReadingByRoomMonth(ctx, room.ID, in.Month)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.Conflict("meter reading for %s already exists", in.Month)
		}

		previous := decimal.Zero
		last, err := r.Readings.GetLatestReadingBefore(ctx, room.ID, in.Month)
		if err != nil {
			return err
		}
		if last != nil {
			previous = last.CurrentReading
		}
		usage, err := billing.Usage(previous, in.CurrentReading)
		if err != nil {
			return err
		}

		reading := &model.MeterReading{
			RoomID:          room.ID,
			Month:           in.Month,
			PreviousReading: previous,
			CurrentReading:  in.CurrentReading,
			Usage:           usage,
			MeterPhotoURL:   in.PhotoURL,
			RecordedByID:    p.UserID,
		}
		if err := r.Readings.CreateReading(ctx, reading); err != nil {
			return err
		}
		res.Reading = reading

		if !room.HasTenant() {
			return nil
		}
		b, err := r.Billings.GetBillingByRoomMonth(ctx, room.ID, in.Month)
		if err != nil {
			return err
		}
		if b != nil {
			// A billing entered by hand before the reading gets its
			// electricity from the reading.
			b.SetCharges(billing.Recompute(b.Charges(), room.Rates(), usage))
			if err := r.Billings.UpdateCharges(ctx, b); err != nil {
				return err
			}
			res.Billing, eventType = b, pubsub.BillingRecomputed
			return nil
		}
		b = &model.Billing{
			RoomID:   room.ID,
			TenantID: *room.TenantID,
			Month:    in.Month,
			Status:   billing.StatusPending,
		}
		b.SetCharges(billing.GenerateCharges(room.Rates(), usage))
		if err := r.Billings.CreateBilling(ctx, b); err != nil {
			return err
		}
		b.RoomNumber, b.BillingDueDay, b.LandlordID = room.RoomNumber, room.BillingDueDay, room.LandlordID
		res.Billing, eventType = b, pubsub.BillingCreated
		return nil
	})
	if err != nil {
		s.logger.Debug().Err(err).Str("room_id", in.RoomID).Str("month", in.Month.String()).Msg("Record meter reading failed")
		return nil, err
	}

	s.logger.Info().Str("room_id", in.RoomID).Str("month", in.Month.String()).Str("usage", res.Reading.Usage.String()).Msg("Meter reading recorded")
	if res.Billing != nil {
		s.emit(ctx, eventType, res.Billing, p.UserID)
	}
	return &res, nil
}

// Update recomputes usage against the stored previous value and reprices
// the month's billing when one exists.
func (s *meterService) Update(ctx context.Context, p auth.Principal, readingID string, in UpdateReadingInput) (*ReadingResult, error) {
	if err := auth.Require(p, auth.RoleLandlord); err != nil {
		return nil, err
	}
	if in.PhotoURL != nil {
		if strings.TrimSpace(*in.PhotoURL) == "" {
			return nil, apperr.Validation("meter photo cannot be empty")
		}
		if err := storedImage(s.images, *in.PhotoURL, storage.MeterPhotos); err != nil {
			return nil, err
		}
	}

	var res ReadingResult
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		reading, err := r.Readings.GetReadingByID(ctx, readingID)
		if err != nil {
			return err
		}
		if reading == nil {
			return apperr.NotFound("meter reading %s", readingID)
		}
		room, err := ownedRoom(ctx, r.Rooms, p, reading.RoomID, true)
		if err != nil {
			return err
		}
		usage, err := billing.Usage(reading.PreviousReading, in.CurrentReading)
		if err != nil {
			return err
		}
		reading.CurrentReading = in.CurrentReading
		reading.Usage = usage
		if in.PhotoURL != nil {
			reading.MeterPhotoURL = *in.PhotoURL
		}
		if err := r.Readings.UpdateReading(ctx, reading); err != nil {
			return err
		}
		res.Reading = reading

		b, err := r.Billings.GetBillingByRoomMonth(ctx, room.ID, reading.Month)
		if err != nil || b == nil {
			return err
		}
		b.SetCharges(billing.Recompute(b.Charges(), room.Rates(), usage))
		if err := r.Billings.UpdateCharges(ctx, b); err != nil {
			return err
		}
		res.Billing = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("reading_id", readingID).Str("usage", res.Reading.Usage.String()).Msg("Meter reading updated")
	if res.Billing != nil {
		s.emit(ctx, pubsub.BillingRecomputed, res.Billing, p.UserID)
	}
	return &res, nil
}

func (s *meterService) ListByRoom(ctx context.Context, p auth.Principal, roomID string) ([]model.MeterReading, error) {
	if err := auth.Require(p, auth.RoleLandlord, auth.RoleTenant); err != nil {
		return nil, err
	}
	repos := s.store.Repos()
	room, err := repos.Rooms.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, apperr.NotFound("room %s", roomID)
	}
	if err := canViewRoom(p, room); err != nil {
		return nil, err
	}
	return repos.Readings.ListReadingsByRoom(ctx, roomID)
}

func (s *meterService) ListRecent(ctx context.Context, p auth.Principal) ([]model.MeterReading, error) {
	if err := auth.Require(p, auth.RoleLandlord); err != nil {
		return nil, err
	}
	return s.store.Repos().Readings.ListRecentReadingsByLandlord(ctx, p.UserID, recentReadingsLimit)
}

func (s *meterService) emit(ctx context.Context, t pubsub.EventType, b *model.Billing, actorID string) {
	s.events.Emit(ctx, billingEvent(t, b, actorID, s.clock.now()))
}
