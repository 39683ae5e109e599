package booking

import (
	"context"
	"sync"
	"time"

	bookingRepo "reserva/database/repository/booking"
	scheduleRepo "reserva/database/repository/schedule"
	"reserva/models"
)

// memBookingRepo is an in-memory BookingRepository with the same version
// semantics as the Mongo implementation.
type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
	counters map[string]int
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{
		bookings: make(map[string]*models.Booking),
		counters: make(map[string]int),
	}
}

func (r *memBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *booking
	r.bookings[booking.ID] = &stored
	return nil
}

func (r *memBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	out := *stored
	return &out, nil
}

func (r *memBookingRepo) GetByNumber(_ context.Context, bookingNumber string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.bookings {
		if stored.BookingNumber == bookingNumber {
			out := *stored
			return &out, nil
		}
	}
	return nil, bookingRepo.ErrNotFound
}

func (r *memBookingRepo) ActiveOnDate(_ context.Context, providerID, date string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, stored := range r.bookings {
		if stored.ProviderRef == providerID && stored.Date == date && stored.Status.IsActive() {
			out = append(out, *stored)
		}
	}
	return out, nil
}

func (r *memBookingRepo) UpdateWithVersion(_ context.Context, booking *models.Booking, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[booking.ID]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return bookingRepo.ErrStaleVersion
	}
	next := *booking
	next.Version = expectedVersion + 1
	next.UpdatedAt = time.Now().UTC()
	r.bookings[booking.ID] = &next

	booking.Version = next.Version
	booking.UpdatedAt = next.UpdatedAt
	return nil
}

func (r *memBookingRepo) AppendMessage(_ context.Context, bookingID string, msg models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[bookingID]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	stored.Messages = append(stored.Messages, msg)
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memBookingRepo) NextDaySequence(_ context.Context, providerID, date string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := providerID + "|" + date
	r.counters[key]++
	return r.counters[key], nil
}

func (r *memBookingRepo) EnsureIndexes(context.Context) error { return nil }

// memScheduleRepo is an in-memory ScheduleRepository.
type memScheduleRepo struct {
	mu         sync.Mutex
	schedules  map[string]*models.ProviderSchedule
	exceptions map[string]*models.DateException
	blocked    map[string][]models.BlockedPeriod
}

func newMemScheduleRepo() *memScheduleRepo {
	return &memScheduleRepo{
		schedules:  make(map[string]*models.ProviderSchedule),
		exceptions: make(map[string]*models.DateException),
		blocked:    make(map[string][]models.BlockedPeriod),
	}
}

func (r *memScheduleRepo) GetSchedule(_ context.Context, providerID string) (*models.ProviderSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.schedules[providerID]
	if !ok {
		return nil, scheduleRepo.ErrNotFound
	}
	out := *stored
	return &out, nil
}

func (r *memScheduleRepo) UpsertSchedule(_ context.Context, schedule *models.ProviderSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *schedule
	stored.UpdatedAt = time.Now().UTC()
	r.schedules[schedule.ProviderID] = &stored
	return nil
}

func (r *memScheduleRepo) GetException(_ context.Context, providerID, date string) (*models.DateException, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.exceptions[providerID+"|"+date]
	if !ok {
		return nil, nil
	}
	out := *stored
	return &out, nil
}

func (r *memScheduleRepo) ListExceptions(_ context.Context, providerID string) ([]models.DateException, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.DateException
	for _, exc := range r.exceptions {
		if exc.ProviderID == providerID {
			out = append(out, *exc)
		}
	}
	return out, nil
}

func (r *memScheduleRepo) UpsertException(_ context.Context, exc *models.DateException) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *exc
	r.exceptions[exc.ProviderID+"|"+exc.Date] = &stored
	return nil
}

func (r *memScheduleRepo) ListBlocked(_ context.Context, providerID, date string) ([]models.BlockedPeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.BlockedPeriod
	for _, block := range r.blocked[providerID] {
		if block.Date == date {
			out = append(out, block)
		}
	}
	return out, nil
}

func (r *memScheduleRepo) CreateBlocked(_ context.Context, block *models.BlockedPeriod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blocked[block.ProviderID] = append(r.blocked[block.ProviderID], *block)
	return nil
}

func (r *memScheduleRepo) EnsureIndexes(context.Context) error { return nil }

// recordingDispatcher captures emitted events for assertions.
type recordingDispatcher struct {
	mu        sync.Mutex
	created   []models.BookingCreatedEvent
	changed   []models.BookingStatusChangedEvent
	completed []models.BookingCompletedEvent
	messages  []models.MessageAddedEvent
}

func (d *recordingDispatcher) BookingCreated(_ context.Context, ev models.BookingCreatedEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.created = append(d.created, ev)
}

func (d *recordingDispatcher) BookingStatusChanged(_ context.Context, ev models.BookingStatusChangedEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.changed = append(d.changed, ev)
}

func (d *recordingDispatcher) BookingCompleted(_ context.Context, ev models.BookingCompletedEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.completed = append(d.completed, ev)
}

func (d *recordingDispatcher) MessageAdded(_ context.Context, ev models.MessageAddedEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, ev)
}
