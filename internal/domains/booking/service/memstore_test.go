package service_test

import (
	"context"
	"fmt"
	"maps"
	"parking/internal/domains/booking/model"
	slotModel "parking/internal/domains/slot/model"
	"parking/shared/constant"
	gDto "parking/shared/dto"
	"parking/shared/failure"
	"slices"
	"sort"
	"sync"
	"time"
)

// memStore backs the booking and slot repositories with maps. Transactions run one at a time
// and roll back to a snapshot on error, which is enough to model the slot row lock.
type memStore struct {
	txMu     sync.Mutex
	mu       sync.RWMutex
	bookings map[string]model.Booking
	slots    map[string]slotModel.Slot
}

func newMemStore(slotIDs ...string) *memStore {
	store := &memStore{
		bookings: map[string]model.Booking{},
		slots:    map[string]slotModel.Slot{},
	}

	for _, id := range slotIDs {
		store.slots[id] = slotModel.Slot{ID: id, SlotNo: id, RoadName: "Moi Avenue", Status: slotModel.StatusAvailable}
	}

	return store
}

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.RLock()
	bookings := maps.Clone(m.bookings)
	slots := maps.Clone(m.slots)
	m.mu.RUnlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.bookings = bookings
		m.slots = slots
		m.mu.Unlock()

		return err
	}

	return nil
}

func (m *memStore) booking(id string) model.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.bookings[id]
}

func (m *memStore) slot(id string) slotModel.Slot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.slots[id]
}

func (m *memStore) liveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0

	for _, b := range m.bookings {
		if model.IsLive(b.Status) {
			count++
		}
	}

	return count
}

// bookingRepo implements the booking repository over memStore.
type bookingRepo struct {
	store *memStore
}

func (r bookingRepo) Insert(_ context.Context, booking model.Booking) error {
	m := r.store
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.bookings {
		if !model.IsLive(b.Status) {
			continue
		}

		if b.SlotID == booking.SlotID {
			return failure.SlotUnavailable("slot is already booked")
		}

		if b.UserID == booking.UserID {
			return failure.AlreadyBooked("driver already holds a booking")
		}
	}

	m.bookings[booking.ID] = booking

	return nil
}

func (r bookingRepo) Get(_ context.Context, _ gDto.FilterGroup, _ ...string) (model.Booking, error) {
	return model.Booking{}, fmt.Errorf("not supported")
}

func (r bookingRepo) Count(_ context.Context, _ gDto.FilterGroup) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return len(r.store.bookings), nil
}

func (r bookingRepo) GetByIDAndUser(_ context.Context, id, userID string) (model.Booking, error) {
	b := r.store.booking(id)
	if b.UserID != userID {
		return model.Booking{}, nil
	}

	return b, nil
}

func (r bookingRepo) FindLiveByUser(_ context.Context, userID string) (model.Booking, error) {
	return r.findLive(func(b model.Booking) bool { return b.UserID == userID }), nil
}

func (r bookingRepo) FindLiveBySlot(_ context.Context, slotID string) (model.Booking, error) {
	return r.findLive(func(b model.Booking) bool { return b.SlotID == slotID }), nil
}

func (r bookingRepo) findLive(match func(model.Booking) bool) model.Booking {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, b := range r.store.bookings {
		if model.IsLive(b.Status) && match(b) {
			return b
		}
	}

	return model.Booking{}
}

func (r bookingRepo) FindAllLive(ctx context.Context) ([]model.Booking, error) {
	live, _, err := r.FindByStatuses(ctx, gDto.QueryParams{}, model.LiveStatuses...)

	return live, err
}

func (r bookingRepo) FindByStatuses(_ context.Context, _ gDto.QueryParams, statuses ...string) ([]model.Booking, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	res := make([]model.Booking, 0)

	for _, b := range r.store.bookings {
		if slices.Contains(statuses, b.Status) {
			res = append(res, b)
		}
	}

	sort.Slice(res, func(i, j int) bool { return res[i].BookedAt.Before(res[j].BookedAt) })

	return res, len(res), nil
}

func (r bookingRepo) UpdateStatus(_ context.Context, transition model.Transition) error {
	m := r.store
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[transition.BookingID]
	if !ok || b.Status != transition.From {
		return failure.StaleState("booking changed since it was read")
	}

	b.Status = transition.To
	b.ModifiedAt = transition.At
	b.ModifiedBy = transition.By

	if transition.ArrivedAt != nil {
		b.ArrivedAt = transition.ArrivedAt
	}

	m.bookings[b.ID] = b

	return nil
}

func (r bookingRepo) ExtendDuration(_ context.Context, id string, extraMinutes, ceilingMinutes float64, at time.Time) (float64, error) {
	m := r.store
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]

	switch {
	case !ok:
		return 0, failure.NotFound("booking not found")
	case model.IsTerminal(b.Status):
		return 0, failure.InvalidTransition("booking is " + b.Status)
	case ceilingMinutes > 0 && b.DurationMinutes+extraMinutes > ceilingMinutes:
		return 0, failure.LimitExceeded("total duration exceeds ceiling")
	}

	b.DurationMinutes += extraMinutes
	b.ModifiedAt = at
	m.bookings[id] = b

	return b.DurationMinutes, nil
}

// slotRepo implements the slot repository over memStore.
type slotRepo struct {
	store *memStore
}

func (r slotRepo) Get(_ context.Context, _ gDto.FilterGroup, _ ...string) (slotModel.Slot, error) {
	return slotModel.Slot{}, fmt.Errorf("not supported")
}

func (r slotRepo) GetAll(_ context.Context, _ gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]slotModel.Slot, error) {
	return nil, fmt.Errorf("not supported")
}

func (r slotRepo) GetByID(_ context.Context, id string) (slotModel.Slot, error) {
	return r.store.slot(id), nil
}

func (r slotRepo) GetByIDs(_ context.Context, ids []string) ([]slotModel.Slot, error) {
	res := make([]slotModel.Slot, 0, len(ids))

	for _, id := range ids {
		if s := r.store.slot(id); s.ID != constant.Empty {
			res = append(res, s)
		}
	}

	return res, nil
}

func (r slotRepo) SetStatus(_ context.Context, id, status string) error {
	m := r.store
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.slots[id]
	if !ok {
		return failure.NotFound("slot not found")
	}

	s.Status = status
	m.slots[id] = s

	return nil
}

func (r slotRepo) AcquireForUpdate(_ context.Context, id string) (slotModel.Slot, error) {
	s := r.store.slot(id)
	if s.ID == constant.Empty {
		return s, failure.NotFound("slot not found")
	}

	return s, nil
}
