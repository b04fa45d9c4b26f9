package service

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"boardinghouse/internal/apperr"
	"boardinghouse/internal/auth"
	"boardinghouse/internal/billing"
	"boardinghouse/internal/model"
	"boardinghouse/internal/pubsub"
	"boardinghouse/internal/repository"
)

// memState is the table data of the fake store.
type memState struct {
	users    map[string]model.User
	rooms    map[string]model.Room
	readings map[string]model.MeterReading
	billings map[string]model.Billing
	proofs   map[string]model.PaymentProof
}

func (s memState) clone() memState {
	return memState{
		users:    maps.Clone(s.users),
		rooms:    maps.Clone(s.rooms),
		readings: maps.Clone(s.readings),
		billings: maps.Clone(s.billings),
		proofs:   maps.Clone(s.proofs),
	}
}

// memStore is an in-memory repository.Store enforcing the same unique
// constraints as the schema. Transactions are serialized and rolled back
// on error.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data memState
	tick time.Time
}

func newMemStore() *memStore {
	return &memStore{
		data: memState{
			users:    map[string]model.User{},
			rooms:    map[string]model.Room{},
			readings: map[string]model.MeterReading{},
			billings: map[string]model.Billing{},
			proofs:   map[string]model.PaymentProof{},
		},
		tick: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) Repos() repository.Repositories {
	return repository.Repositories{
		Users:    memUsers{m},
		Rooms:    memRooms{m},
		Readings: memReadings{m},
		Billings: memBillings{m},
		Proofs:   memProofs{m},
	}
}

// WithTx runs transactions one at a time. Races on the unique indexes are
// covered against Postgres in the repository package.
func (m *memStore) WithTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	snapshot := m.data.clone()
	m.mu.Unlock()

	if err := fn(m.Repos()); err != nil {
		m.mu.Lock()
		m.data = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

// now returns strictly increasing timestamps. Callers hold mu.
func (m *memStore) now() time.Time {
	m.tick = m.tick.Add(time.Second)
	return m.tick
}

// seed helpers

func (m *memStore) addUser(name string, role auth.Role) model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := model.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    strings.ToLower(name) + "@example.com",
		Role:     role,
		IsActive: true,
	}
	m.data.users[u.ID] = u
	return u
}

func (m *memStore) addRoom(landlordID, number string, tenantID *string) model.Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := model.Room{
		ID:                    uuid.NewString(),
		LandlordID:            landlordID,
		RoomNumber:            number,
		MonthlyRent:           dec("1500000"),
		WifiFee:               dec("100000"),
		ElectricityRatePerKwh: dec("1444.70"),
		BillingDueDay:         5,
		TenantID:              tenantID,
	}
	m.data.rooms[r.ID] = r
	return r
}

func (m *memStore) billing(id string) model.Billing {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.billings[id]
}

func (m *memStore) proofCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data.proofs)
}

// users

type memUsers struct{ m *memStore }

func (r memUsers) CreateUser(ctx context.Context, u *model.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.data.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return apperr.Conflict("email already exists")
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = r.m.now()
	u.UpdatedAt = u.CreatedAt
	r.m.data.users[u.ID] = *u
	return nil
}

func (r memUsers) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.data.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r memUsers) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.data.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r memUsers) SetGoogleID(ctx context.Context, userID, googleID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u := r.m.data.users[userID]
	if u.GoogleID == nil {
		u.GoogleID = &googleID
		r.m.data.users[userID] = u
	}
	return nil
}

func (r memUsers) ListLandlords(ctx context.Context) ([]model.UserSummary, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []model.UserSummary{}
	for _, u := range r.m.data.users {
		if u.Role != auth.RoleLandlord {
			continue
		}
		owned := 0
		for _, room := range r.m.data.rooms {
			if room.LandlordID == u.ID {
				owned++
			}
		}
		out = append(out, model.UserSummary{User: u, RoomsOwned: owned})
	}
	return out, nil
}

func (r memUsers) ListTenantsByLandlord(ctx context.Context, landlordID string) ([]model.UserSummary, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []model.UserSummary{}
	for _, room := range r.m.data.rooms {
		if room.LandlordID != landlordID || !room.HasTenant() {
			continue
		}
		number := room.RoomNumber
		out = append(out, model.UserSummary{User: r.m.data.users[*room.TenantID], RoomNumber: &number})
	}
	return out, nil
}

// rooms

type memRooms struct{ m *memStore }

func (r memRooms) CreateRoom(ctx context.Context, room *model.Room) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.data.rooms {
		if existing.LandlordID == room.LandlordID && existing.RoomNumber == room.RoomNumber {
			return apperr.Conflict("room number already exists")
		}
	}
	room.ID = uuid.NewString()
	room.CreatedAt = r.m.now()
	room.UpdatedAt = room.CreatedAt
	r.m.data.rooms[room.ID] = *room
	return nil
}

func (r memRooms) GetRoomByID(ctx context.Context, id string) (*model.Room, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	room, ok := r.m.data.rooms[id]
	if !ok {
		return nil, nil
	}
	return &room, nil
}

func (r memRooms) GetRoomForUpdate(ctx context.Context, id string) (*model.Room, error) {
	return r.GetRoomByID(ctx, id)
}

func (r memRooms) GetRoomByTenant(ctx context.Context, tenantID string) (*model.Room, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, room := range r.m.data.rooms {
		if room.IsTenant(tenantID) {
			return &room, nil
		}
	}
	return nil, nil
}

func (r memRooms) UpdateRoom(ctx context.Context, room *model.Room) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.data.rooms[room.ID]; !ok {
		return apperr.NotFound("room %s", room.ID)
	}
	room.UpdatedAt = r.m.now()
	r.m.data.rooms[room.ID] = *room
	return nil
}

func (r memRooms) ListRoomsByLandlord(ctx context.Context, landlordID string) ([]model.RoomOverview, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []model.RoomOverview{}
	for _, room := range r.m.data.rooms {
		if room.LandlordID == landlordID {
			out = append(out, model.RoomOverview{Room: room})
		}
	}
	slices.SortFunc(out, func(a, b model.RoomOverview) int { return strings.Compare(a.RoomNumber, b.RoomNumber) })
	return out, nil
}

func (r memRooms) AssignTenant(ctx context.Context, roomID, tenantID string, billingDueDay int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	room := r.m.data.rooms[roomID]
	if room.HasTenant() {
		return apperr.Conflict("room already has a tenant")
	}
	room.TenantID = &tenantID
	room.BillingDueDay = billingDueDay
	r.m.data.rooms[roomID] = room
	return nil
}

func (r memRooms) ClearTenant(ctx context.Context, roomID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	room := r.m.data.rooms[roomID]
	room.TenantID = nil
	r.m.data.rooms[roomID] = room
	return nil
}

// meter readings

type memReadings struct{ m *memStore }

func (r memReadings) CreateReading(ctx context.Context, reading *model.MeterReading) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.data.readings {
		if existing.RoomID == reading.RoomID && existing.Month == reading.Month {
			return apperr.Conflict("meter reading for this month already exists")
		}
	}
	reading.ID = uuid.NewString()
	reading.CreatedAt = r.m.now()
	reading.UpdatedAt = reading.CreatedAt
	r.m.data.readings[reading.ID] = *reading
	return nil
}

func (r memReadings) GetReadingByID(ctx context.Context, id string) (*model.MeterReading, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	reading, ok := r.m.data.readings[id]
	if !ok {
		return nil, nil
	}
	return &reading, nil
}

func (r memReadings) GetReadingByRoomMonth(ctx context.Context, roomID string, month billing.Month) (*model.MeterReading, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, reading := range r.m.data.readings {
		if reading.RoomID == roomID && reading.Month == month {
			return &reading, nil
		}
	}
	return nil, nil
}

func (r memReadings) GetLatestReadingBefore(ctx context.Context, roomID string, month billing.Month) (*model.MeterReading, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var latest *model.MeterReading
	for _, reading := range r.m.data.readings {
		if reading.RoomID != roomID || !reading.Month.Before(month) {
			continue
		}
		if latest == nil || latest.Month.Before(reading.Month) {
			latest = &reading
		}
	}
	return latest, nil
}

func (r memReadings) UpdateReading(ctx context.Context, reading *model.MeterReading) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	reading.UpdatedAt = r.m.now()
	r.m.data.readings[reading.ID] = *reading
	return nil
}

func (r memReadings) ListReadingsByRoom(ctx context.Context, roomID string) ([]model.MeterReading, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []model.MeterReading{}
	for _, reading := range r.m.data.readings {
		if reading.RoomID == roomID {
			out = append(out, reading)
		}
	}
	slices.SortFunc(out, func(a, b model.MeterReading) int { return strings.Compare(b.Month.String(), a.Month.String()) })
	return out, nil
}

func (r memReadings) ListRecentReadingsByLandlord(ctx context.Context, landlordID string, limit int) ([]model.MeterReading, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []model.MeterReading{}
	for _, reading := range r.m.data.readings {
		if r.m.data.rooms[reading.RoomID].LandlordID == landlordID {
			out = append(out, reading)
		}
	}
	slices.SortFunc(out, func(a, b model.MeterReading) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// billings

type memBillings struct{ m *memStore }

func (r memBillings) joined(b model.Billing) model.Billing {
	room := r.m.data.rooms[b.RoomID]
	b.RoomNumber, b.BillingDueDay, b.LandlordID = room.RoomNumber, room.BillingDueDay, room.LandlordID
	return b
}

func (r memBillings) CreateBilling(ctx context.Context, b *model.Billing) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.data.billings {
		if existing.RoomID == b.RoomID && existing.Month == b.Month {
			return apperr.Conflict("billing for this month already exists")
		}
	}
	b.ID = uuid.NewString()
	b.CreatedAt = r.m.now()
	b.UpdatedAt = b.CreatedAt
	r.m.data.billings[b.ID] = *b
	return nil
}

func (r memBillings) GetBillingByID(ctx context.Context, id string) (*model.Billing, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.data.billings[id]
	if !ok {
		return nil, nil
	}
	b = r.joined(b)
	return &b, nil
}

func (r memBillings) GetBillingByRoomMonth(ctx context.Context, roomID string, month billing.Month) (*model.Billing, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, b := range r.m.data.billings {
		if b.RoomID == roomID && b.Month == month {
			b = r.joined(b)
			return &b, nil
		}
	}
	return nil, nil
}

func (r memBillings) UpdateCharges(ctx context.Context, b *model.Billing) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.data.billings[b.ID]
	if !ok {
		return apperr.NotFound("billing %s", b.ID)
	}
	stored.SetCharges(b.Charges())
	stored.UpdatedAt = r.m.now()
	b.UpdatedAt = stored.UpdatedAt
	r.m.data.billings[b.ID] = stored
	return nil
}

func (r memBillings) UpdateStatus(ctx context.Context, id string, status billing.Status) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.data.billings[id]
	if !ok {
		return apperr.NotFound("billing %s", id)
	}
	stored.Status = status
	r.m.data.billings[id] = stored
	return nil
}

func (r memBillings) filter(keep func(model.Billing) bool) []model.Billing {
	out := []model.Billing{}
	for _, b := range r.m.data.billings {
		if b = r.joined(b); keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func (r memBillings) ListBillingsByTenant(ctx context.Context, tenantID string) ([]model.Billing, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := r.filter(func(b model.Billing) bool { return b.TenantID == tenantID })
	slices.SortFunc(out, func(a, b model.Billing) int { return strings.Compare(b.Month.String(), a.Month.String()) })
	return out, nil
}

func (r memBillings) ListBillingsByLandlord(ctx context.Context, landlordID string) ([]model.Billing, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := r.filter(func(b model.Billing) bool { return b.LandlordID == landlordID })
	slices.SortFunc(out, func(a, b model.Billing) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (r memBillings) CountByLandlordStatus(ctx context.Context, landlordID string, status billing.Status) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return len(r.filter(func(b model.Billing) bool { return b.LandlordID == landlordID && b.Status == status })), nil
}

func (r memBillings) CountByTenantStatus(ctx context.Context, tenantID string, status billing.Status) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return len(r.filter(func(b model.Billing) bool { return b.TenantID == tenantID && b.Status == status })), nil
}

// payment proofs

type memProofs struct{ m *memStore }

func (r memProofs) CreateProof(ctx context.Context, p *model.PaymentProof) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.data.proofs {
		if existing.BillingID == p.BillingID && !existing.IsVerified() {
			return apperr.Conflict("a payment proof is already awaiting verification")
		}
	}
	p.ID = uuid.NewString()
	p.CreatedAt = r.m.now()
	r.m.data.proofs[p.ID] = *p
	return nil
}

func (r memProofs) GetProofByID(ctx context.Context, id string) (*model.PaymentProof, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.data.proofs[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r memProofs) MarkVerified(ctx context.Context, id, verifierID string, at time.Time) (*model.PaymentProof, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.data.proofs[id]
	if !ok || p.IsVerified() {
		return nil, apperr.Conflict("payment proof already verified")
	}
	p.VerifiedByID = &verifierID
	p.VerifiedAt = &at
	r.m.data.proofs[id] = p
	return &p, nil
}

func (r memProofs) DeleteUnverified(ctx context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.data.proofs[id]
	if !ok || p.IsVerified() {
		return apperr.Conflict("verified payment proofs cannot be rejected")
	}
	delete(r.m.data.proofs, id)
	return nil
}

func (r memProofs) CountByBilling(ctx context.Context, billingID string) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	n := 0
	for _, p := range r.m.data.proofs {
		if p.BillingID == billingID {
			n++
		}
	}
	return n, nil
}

func (r memProofs) ListByBilling(ctx context.Context, billingID string) ([]model.PaymentProof, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []model.PaymentProof{}
	for _, p := range r.m.data.proofs {
		if p.BillingID == billingID {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b model.PaymentProof) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (r memProofs) ListPendingByLandlord(ctx context.Context, landlordID string) ([]model.PaymentProof, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []model.PaymentProof{}
	for _, p := range r.m.data.proofs {
		b := r.m.data.billings[p.BillingID]
		if !p.IsVerified() && r.m.data.rooms[b.RoomID].LandlordID == landlordID {
			out = append(out, p)
		}
	}
	return out, nil
}

// recordingEvents captures emitted events.
type recordingEvents struct {
	mu     sync.Mutex
	events []pubsub.Event
}

func (e *recordingEvents) Emit(ctx context.Context, evt pubsub.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, evt)
}

func (e *recordingEvents) types() []pubsub.EventType {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]pubsub.EventType, 0, len(e.events))
	for _, evt := range e.events {
		out = append(out, evt.Type)
	}
	return out
}
