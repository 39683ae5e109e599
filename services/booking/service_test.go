package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reserva/models"
	"reserva/services/availability"
)

func serviceFixture(t *testing.T) (*DefaultBookingService, *memBookingRepo, *recordingDispatcher) {
	t.Helper()
	bookings := newMemBookingRepo()
	schedules := newMemScheduleRepo()
	dispatcher := &recordingDispatcher{}
	logger := zap.NewNop()

	require.NoError(t, schedules.UpsertSchedule(context.Background(), &models.ProviderSchedule{
		ProviderID:   "prov-1",
		BusinessName: "Glow Spa",
		Week: models.WeeklySchedule{
			time.Monday: {IsAvailable: true, Slots: []models.TimeSlot{{Start: 9 * 60, End: 17 * 60}}},
		},
	}))

	now := func() time.Time { return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC) }

	tracking := &TrackingService{Repo: bookings, Logger: logger}
	lifecycle := &Lifecycle{
		Repo:       bookings,
		Refunds:    RefundEngine{},
		Dispatcher: dispatcher,
		Tracking:   tracking,
		Logger:     logger,
		Now:        now,
	}
	coordinator := &Coordinator{
		Bookings:   bookings,
		Schedules:  schedules,
		Resolver:   availability.NewResolver(logger),
		Numbers:    &NumberGenerator{Repo: bookings},
		Locker:     NewKeyedMutexLocker(),
		Dispatcher: dispatcher,
		Logger:     logger,
		Now:        now,
	}

	svc := &DefaultBookingService{
		Coordinator: coordinator,
		Lifecycle:   lifecycle,
		TrackingSvc: tracking,
		Repo:        bookings,
		Dispatcher:  dispatcher,
		Logger:      logger,
	}
	return svc, bookings, dispatcher
}

func createTestBooking(t *testing.T, svc *DefaultBookingService) *models.Booking {
	t.Helper()
	b, err := svc.CreateBooking(context.Background(), reserveRequest("14:00"))
	require.NoError(t, err)
	return b
}

func TestServiceAcceptFlow(t *testing.T) {
	svc, _, dispatcher := serviceFixture(t)
	b := createTestBooking(t, svc)

	got, err := svc.Accept(context.Background(), b.ID, "prov-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)
	assert.NotNil(t, got.AcceptedAt)

	// A second accept is an invalid transition.
	_, err = svc.Accept(context.Background(), b.ID, "prov-1")
	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, CodeInvalidTransition, engineErr.Code)
	assert.Equal(t, models.StatusConfirmed, engineErr.CurrentStatus)

	require.Len(t, dispatcher.changed, 1)
}

func TestServiceRejectOnlyPending(t *testing.T) {
	svc, _, _ := serviceFixture(t)
	b := createTestBooking(t, svc)

	_, err := svc.Accept(context.Background(), b.ID, "prov-1")
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), b.ID, "prov-1", "fully booked")
	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, CodeInvalidTransition, engineErr.Code)
}

func TestServiceRejectRefundsInFull(t *testing.T) {
	svc, _, _ := serviceFixture(t)
	b := createTestBooking(t, svc)

	got, err := svc.Reject(context.Background(), b.ID, "prov-1", "fully booked")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)
	require.NotNil(t, got.Cancellation)
	assert.Equal(t, "prov-1", got.Cancellation.CancelledBy)
	// Rejected six days out: the full-refund tier applies.
	assert.Equal(t, "118.00", got.Cancellation.RefundAmount.StringFixed(2))
}

func TestServiceFullLifecycle(t *testing.T) {
	svc, _, dispatcher := serviceFixture(t)
	b := createTestBooking(t, svc)

	_, err := svc.Accept(context.Background(), b.ID, "prov-1")
	require.NoError(t, err)
	_, err = svc.Start(context.Background(), b.ID, "prov-1")
	require.NoError(t, err)

	actual := 75
	got, err := svc.Complete(context.Background(), b.ID, "prov-1", &actual)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	require.NotNil(t, got.ActualDurationMinutes)
	assert.Equal(t, 75, *got.ActualDurationMinutes)
	assert.NotNil(t, got.CompletedAt)
	assert.Len(t, got.StatusHistory, 4)
	assert.True(t, got.CurrentStatusMatchesHistory())

	require.Len(t, dispatcher.completed, 1)
	assert.Equal(t, "118.00", dispatcher.completed[0].TotalAmount)
}

func TestServiceCompleteRejectsBadDuration(t *testing.T) {
	svc, _, _ := serviceFixture(t)
	b := createTestBooking(t, svc)

	_, err := svc.Accept(context.Background(), b.ID, "prov-1")
	require.NoError(t, err)
	_, err = svc.Start(context.Background(), b.ID, "prov-1")
	require.NoError(t, err)

	zero := 0
	_, err = svc.Complete(context.Background(), b.ID, "prov-1", &zero)
	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, CodeValidation, engineErr.Code)
}

func TestServiceNoShow(t *testing.T) {
	svc, _, _ := serviceFixture(t)
	b := createTestBooking(t, svc)

	_, err := svc.Accept(context.Background(), b.ID, "prov-1")
	require.NoError(t, err)

	// Before the scheduled start a no-show cannot be recorded.
	_, err = svc.MarkNoShow(context.Background(), b.ID, "prov-1", "did not arrive")
	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, CodeValidation, engineErr.Code)

	// After the start it lands in the terminal no_show state.
	svc.Lifecycle.Now = func() time.Time { return time.Date(2026, 9, 7, 15, 0, 0, 0, time.UTC) }
	got, err := svc.MarkNoShow(context.Background(), b.ID, "prov-1", "did not arrive")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNoShow, got.Status)
	assert.True(t, got.Status.IsTerminal())
}

func TestServiceAddMessage(t *testing.T) {
	svc, bookings, dispatcher := serviceFixture(t)
	b := createTestBooking(t, svc)

	got, err := svc.AddMessage(context.Background(), b.ID, "cust-1", "running 10 minutes late")
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "cust-1", got.Messages[0].From)

	stored, err := bookings.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Messages, 1)

	require.Len(t, dispatcher.messages, 1)
	assert.Equal(t, b.ID, dispatcher.messages[0].BookingID)

	_, err = svc.AddMessage(context.Background(), b.ID, "cust-1", "")
	assert.Error(t, err)
}

func TestServiceTrack(t *testing.T) {
	svc, _, _ := serviceFixture(t)
	b := createTestBooking(t, svc)

	view, err := svc.Track(context.Background(), b.BookingNumber)
	require.NoError(t, err)
	assert.Equal(t, b.BookingNumber, view.BookingNumber)
	assert.Equal(t, models.StatusPending, view.Status)
	assert.Equal(t, "14:00", view.ScheduledTime)
	assert.Equal(t, "118.00", view.TotalAmount)

	// Reads are idempotent without intervening mutation.
	again, err := svc.Track(context.Background(), b.BookingNumber)
	require.NoError(t, err)
	assert.Equal(t, view, again)

	_, err = svc.Track(context.Background(), "GS-20260907-999")
	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, CodeNotFound, engineErr.Code)
}
