package service

import (
	"context"
	"strings"
	"time"

	"boardinghouse/internal/apperr"
	"boardinghouse/internal/auth"
	"boardinghouse/internal/model"
	"boardinghouse/internal/repository"
	"boardinghouse/internal/storage"
)

// Clock supplies the current time to services. Due dates are decided on
// the calendar day of the clock's zone.
type Clock func() time.Time

// ClockIn returns the wall clock in loc.
func ClockIn(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// Images is the part of the image store services work with.
type Images interface {
	KeyFromURL(url string) (string, error)
	DeleteImage(ctx context.Context, url string) error
	PresignGet(ctx context.Context, key string) (string, error)
}

// storedImage checks url points at an object in folder of the image store.
func storedImage(images Images, url string, folder storage.Folder) error {
	key, err := images.KeyFromURL(url)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(key, string(folder)+"/") {
		return apperr.Validation("image must be uploaded to %s", folder)
	}
	return nil
}

// ownedRoom loads a room and checks it belongs to the landlord p.
func ownedRoom(ctx context.Context, rooms repository.RoomRepository, p auth.Principal, roomID string, lock bool) (*model.Room, error) {
	var (
		room *model.Room
		err  error
	)
	if lock {
		room, err = rooms.GetRoomForUpdate(ctx, roomID)
	} else {
		room, err = rooms.GetRoomByID(ctx, roomID)
	}
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, apperr.NotFound("room %s", roomID)
	}
	if room.LandlordID != p.UserID {
		return nil, apperr.Forbidden("room %s belongs to another landlord", roomID)
	}
	return room, nil
}

// canViewRoom allows the owning landlord and the assigned tenant.
func canViewRoom(p auth.Principal, room *model.Room) error {
	switch p.Role {
	case auth.RoleLandlord:
		if room.LandlordID == p.UserID {
			return nil
		}
	case auth.RoleTenant:
		if room.IsTenant(p.UserID) {
			return nil
		}
	}
	return apperr.Forbidden("no access to room %s", room.ID)
}

// canViewBilling allows the owning landlord and the billed tenant.
func canViewBilling(p auth.Principal, b *model.Billing) error {
	switch p.Role {
	case auth.RoleLandlord:
		if b.LandlordID == p.UserID {
			return nil
		}
	case auth.RoleTenant:
		if b.TenantID == p.UserID {
			return nil
		}
	}
	return apperr.Forbidden("no access to billing %s", b.ID)
}
