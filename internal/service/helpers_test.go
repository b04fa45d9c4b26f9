package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"boardinghouse/internal/apperr"
	"boardinghouse/internal/auth"
	"boardinghouse/internal/billing"
	"boardinghouse/internal/model"
)

var testNow = time.Date(2024, 2, 20, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func mustMonth(t *testing.T, s string) billing.Month {
	t.Helper()
	m, err := billing.ParseMonth(s)
	if err != nil {
		t.Fatalf("ParseMonth(%q): %v", s, err)
	}
	return m
}

func assertErrIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
}

func assertDec(t *testing.T, field string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s = %s, want %s", field, got, want)
	}
}

func assertTotal(t *testing.T, b *model.Billing) {
	t.Helper()
	sum := b.RentAmount.Add(b.WifiAmount).Add(b.ElectricityAmount)
	if !b.TotalAmount.Equal(sum) {
		t.Fatalf("total %s != rent %s + wifi %s + electricity %s", b.TotalAmount, b.RentAmount, b.WifiAmount, b.ElectricityAmount)
	}
}

type fixture struct {
	store    *memStore
	events   *recordingEvents
	images   *fakeImages
	landlord model.User
	other    model.User
	tenant   model.User
	room     model.Room
	vacant   model.Room

	meter    MeterService
	billings BillingService
	payments PaymentService
	rooms    RoomService
	users    UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	f := &fixture{
		store:  store,
		events: &recordingEvents{},
		images: &fakeImages{},
	}
	f.landlord = store.addUser("Landlord", auth.RoleLandlord)
	f.other = store.addUser("Other", auth.RoleLandlord)
	f.tenant = store.addUser("Tenant", auth.RoleTenant)
	f.room = store.addRoom(f.landlord.ID, "101", &f.tenant.ID)
	f.vacant = store.addRoom(f.landlord.ID, "102", nil)

	logger := zerolog.Nop()
	f.meter = NewMeterService(store, f.images, f.events, fixedClock, logger)
	f.billings = NewBillingService(store, f.events, fixedClock, logger)
	f.payments = NewPaymentService(store, f.images, f.events, fixedClock, logger)
	f.rooms = NewRoomService(store, logger)
	f.users = &userService{store: store, bcryptCost: 4, logger: logger}
	return f
}

func (f *fixture) asLandlord() auth.Principal { return f.landlord.Principal() }
func (f *fixture) asOther() auth.Principal    { return f.other.Principal() }
func (f *fixture) asTenant() auth.Principal   { return f.tenant.Principal() }

const (
	imageBase  = "https://cdn.example/kos/"
	photoURL   = imageBase + "meter-photos/landlord-1.jpg"
	receiptURL = imageBase + "payment-receipts/tenant-1.png"
)

type fakeImages struct {
	deleted []string
}

func (f *fakeImages) KeyFromURL(url string) (string, error) {
	key, ok := strings.CutPrefix(url, imageBase)
	if !ok || key == "" {
		return "", apperr.Validation("url does not belong to this store")
	}
	return key, nil
}

func (f *fakeImages) DeleteImage(ctx context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeImages) PresignGet(ctx context.Context, key string) (string, error) {
	return "https://signed.example/" + key + "?X-Amz-Expires=900", nil
}
