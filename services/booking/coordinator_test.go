package booking

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reserva/models"
	"reserva/services/availability"
)

// 2026-09-07 is a Monday.
const testDate = "2026-09-07"

func coordinatorFixture(t *testing.T) (*Coordinator, *memBookingRepo, *memScheduleRepo, *recordingDispatcher) {
	t.Helper()
	bookings := newMemBookingRepo()
	schedules := newMemScheduleRepo()
	dispatcher := &recordingDispatcher{}

	require.NoError(t, schedules.UpsertSchedule(context.Background(), &models.ProviderSchedule{
		ProviderID:   "prov-1",
		BusinessName: "Glow Spa",
		Week: models.WeeklySchedule{
			time.Monday: {IsAvailable: true, Slots: []models.TimeSlot{{Start: 9 * 60, End: 17 * 60}}},
		},
	}))

	c := &Coordinator{
		Bookings:   bookings,
		Schedules:  schedules,
		Resolver:   availability.NewResolver(zap.NewNop()),
		Numbers:    &NumberGenerator{Repo: bookings},
		Locker:     NewKeyedMutexLocker(),
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
		Now:        func() time.Time { return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC) },
	}
	return c, bookings, schedules, dispatcher
}

func reserveRequest(clock string) models.CreateBookingRequest {
	return models.CreateBookingRequest{
		ServiceID:       "svc-1",
		ProviderID:      "prov-1",
		ScheduledDate:   testDate,
		ScheduledTime:   clock,
		DurationMinutes: 60,
		CustomerInfo:    models.CustomerInfo{Ref: "cust-1", Name: "Ada"},
		Pricing: models.Pricing{
			BasePrice:   decimal.RequireFromString("100.00"),
			Subtotal:    decimal.RequireFromString("100.00"),
			Tax:         decimal.RequireFromString("18.00"),
			TotalAmount: decimal.RequireFromString("118.00"),
			Currency:    "USD",
		},
	}
}

func TestReserveSuccess(t *testing.T) {
	c, bookings, _, dispatcher := coordinatorFixture(t)

	got, err := c.Reserve(context.Background(), reserveRequest("14:00"))
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, 14*60, got.StartMinute)
	assert.Equal(t, 15*60, got.EndMinute)
	assert.Equal(t, 1, got.Version)
	require.NotNil(t, got.CustomerRef)
	assert.Equal(t, "cust-1", *got.CustomerRef)
	require.Len(t, got.StatusHistory, 1)
	assert.Equal(t, models.StatusPending, got.StatusHistory[0].Status)
	assert.Equal(t, "cust-1", got.StatusHistory[0].Actor)

	assert.Regexp(t, regexp.MustCompile(`^GS-20260907-\d{3}$`), got.BookingNumber)
	assert.Equal(t, "GS-20260907-001", got.BookingNumber)

	// Default policy: full refund until 24h before the start.
	assert.Equal(t, 100, got.CancellationPolicy.RefundPercentage)
	wantUntil := time.Date(2026, 9, 6, 14, 0, 0, 0, time.UTC)
	assert.True(t, got.CancellationPolicy.AllowedUntil.Equal(wantUntil))

	stored, err := bookings.GetByID(context.Background(), got.ID)
	require.NoError(t, err)
	assert.Equal(t, got.BookingNumber, stored.BookingNumber)

	require.Len(t, dispatcher.created, 1)
	assert.Equal(t, got.ID, dispatcher.created[0].BookingID)
}

func TestReserveGuestBooking(t *testing.T) {
	c, _, _, _ := coordinatorFixture(t)

	req := reserveRequest("10:00")
	req.CustomerInfo = models.CustomerInfo{Name: "Walk In"}

	got, err := c.Reserve(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, got.CustomerRef)
	assert.Equal(t, "guest", got.StatusHistory[0].Actor)
}

func TestReserveValidation(t *testing.T) {
	c, _, _, _ := coordinatorFixture(t)

	cases := map[string]func(*models.CreateBookingRequest){
		"missing provider":   func(r *models.CreateBookingRequest) { r.ProviderID = "" },
		"bad date":           func(r *models.CreateBookingRequest) { r.ScheduledDate = "07-09-2026" },
		"bad time":           func(r *models.CreateBookingRequest) { r.ScheduledTime = "2pm" },
		"zero duration":      func(r *models.CreateBookingRequest) { r.DurationMinutes = 0 },
		"past midnight":      func(r *models.CreateBookingRequest) { r.ScheduledTime = "23:30"; r.DurationMinutes = 60 },
		"broken pricing":     func(r *models.CreateBookingRequest) { r.Pricing.TotalAmount = decimal.RequireFromString("1.00") },
		"missing currency":   func(r *models.CreateBookingRequest) { r.Pricing.Currency = "" },
		"negative base fare": func(r *models.CreateBookingRequest) { r.Pricing.BasePrice = decimal.RequireFromString("-1") },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := reserveRequest("14:00")
			mutate(&req)
			_, err := c.Reserve(context.Background(), req)
			var engineErr *Error
			require.ErrorAs(t, err, &engineErr)
			assert.Equal(t, CodeValidation, engineErr.Code)
		})
	}
}

func TestReserveNoProfile(t *testing.T) {
	c, _, _, _ := coordinatorFixture(t)

	req := reserveRequest("14:00")
	req.ProviderID = "prov-unknown"

	_, err := c.Reserve(context.Background(), req)
	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, CodeNoProfile, engineErr.Code)
}

func TestReserveConflict(t *testing.T) {
	c, _, _, dispatcher := coordinatorFixture(t)

	_, err := c.Reserve(context.Background(), reserveRequest("14:00"))
	require.NoError(t, err)

	_, err = c.Reserve(context.Background(), reserveRequest("14:30"))
	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, CodeSlotConflict, engineErr.Code)
	assert.True(t, engineErr.Retryable())
	assert.Nil(t, engineErr.Alternatives)

	// Only the winner's event was emitted.
	assert.Len(t, dispatcher.created, 1)
}

func TestReserveOutsideSlotSuggestsAlternatives(t *testing.T) {
	c, _, _, _ := coordinatorFixture(t)

	_, err := c.Reserve(context.Background(), reserveRequest("18:00"))
	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, CodeNotInSlot, engineErr.Code)
	assert.Contains(t, engineErr.Alternatives, "09:00")
	assert.Contains(t, engineErr.Alternatives, "16:00")
	assert.NotContains(t, engineErr.Alternatives, "16:30")
}

func TestReserveConcurrentOneWinner(t *testing.T) {
	c, bookings, _, _ := coordinatorFixture(t)

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Reserve(context.Background(), reserveRequest("14:00"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var wins, conflicts int
	for err := range errs {
		if err == nil {
			wins++
			continue
		}
		var engineErr *Error
		require.ErrorAs(t, err, &engineErr)
		assert.Equal(t, CodeSlotConflict, engineErr.Code)
		conflicts++
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, n-1, conflicts)

	active, err := bookings.ActiveOnDate(context.Background(), "prov-1", testDate)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestReserveLockTimeout(t *testing.T) {
	c, _, _, _ := coordinatorFixture(t)
	c.LockTimeout = 50 * time.Millisecond

	// Hold the provider-day lock so the reservation cannot enter.
	release, err := c.Locker.Acquire(context.Background(), "prov-1|"+testDate)
	require.NoError(t, err)
	defer release()

	_, err = c.Reserve(context.Background(), reserveRequest("14:00"))
	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, CodeLockTimeout, engineErr.Code)
	assert.True(t, engineErr.Retryable())

	// A different provider-day is unaffected.
	req := reserveRequest("14:00")
	req.ScheduledDate = "2026-09-14"
	_, err = c.Reserve(context.Background(), req)
	assert.NoError(t, err)
}

func TestKeyedMutexLockerIndependentKeys(t *testing.T) {
	locker := NewKeyedMutexLocker()

	release, err := locker.Acquire(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	releaseB, err := locker.Acquire(ctx, "b")
	require.NoError(t, err)
	releaseB()

	_, err = locker.Acquire(ctx, "a")
	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, CodeLockTimeout, engineErr.Code)

	release()
	release2, err := locker.Acquire(context.Background(), "a")
	require.NoError(t, err)
	release2()
}
