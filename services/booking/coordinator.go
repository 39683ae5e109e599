package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "reserva/database/repository/booking"
	scheduleRepo "reserva/database/repository/schedule"
	"reserva/models"
	"reserva/services/availability"
	"reserva/services/events"
)

// Coordinator makes "check availability" and "commit the booking" atomic
// with respect to other reservation attempts for the same provider-day: the
// conflict scan and the insert run inside one per-(provider, date) critical
// section, so two overlapping concurrent attempts always resolve to one
// success and one SlotConflict. Requests for other providers proceed
// unimpeded.
type Coordinator struct {
	Bookings   bookingRepo.BookingRepository
	Schedules  scheduleRepo.ScheduleRepository
	Resolver   *availability.Resolver
	Numbers    *NumberGenerator
	Locker     SlotLocker
	Dispatcher events.Dispatcher
	Logger     *zap.Logger

	// LockTimeout bounds how long a reservation waits for the critical
	// section before failing fast with a retryable error.
	LockTimeout time.Duration
	Now         func() time.Time // defaults to time.Now
}

func (c *Coordinator) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now().UTC()
}

// Reserve validates the request, serializes on the provider-day, re-checks
// availability against a fresh booking scan, and persists the booking in
// pending with its number assigned. No partial state is left behind on any
// failure path.
func (c *Coordinator) Reserve(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	startMinute, err := c.validate(&req)
	if err != nil {
		return nil, err
	}

	schedule, err := c.Schedules.GetSchedule(ctx, req.ProviderID)
	if errors.Is(err, scheduleRepo.ErrNotFound) {
		return nil, NewAvailabilityError(CodeNoProfile, "provider has no availability profile", nil)
	}
	if err != nil {
		return nil, err
	}

	timeout := c.LockTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	release, err := c.Locker.Acquire(lockCtx, req.ProviderID+"|"+req.ScheduledDate)
	if err != nil {
		return nil, err
	}
	defer release()

	day, err := c.loadDay(ctx, schedule, req.ProviderID, req.ScheduledDate)
	if err != nil {
		return nil, err
	}

	now := c.now()
	res := c.Resolver.CheckSlot(day, req.ScheduledDate, startMinute, req.DurationMinutes, now)
	if !res.OK {
		return nil, availabilityFailure(res)
	}

	number, err := c.Numbers.Generate(ctx, req.ProviderID, schedule.BusinessName, req.ScheduledDate)
	if err != nil {
		return nil, err
	}

	booking := c.buildBooking(&req, startMinute, number, now)
	if err := c.Bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	c.Dispatcher.BookingCreated(ctx, models.BookingCreatedEvent{
		BookingID:       booking.ID,
		BookingNumber:   booking.BookingNumber,
		ProviderID:      booking.ProviderRef,
		CustomerRef:     req.CustomerInfo.Ref,
		Date:            booking.Date,
		StartMinute:     booking.StartMinute,
		DurationMinutes: booking.DurationMinutes,
		OccurredAt:      now,
	})

	c.Logger.Info("booking reserved",
		zap.String("booking", booking.ID),
		zap.String("number", booking.BookingNumber),
		zap.String("provider", booking.ProviderRef),
		zap.String("date", booking.Date))
	return booking, nil
}

func (c *Coordinator) validate(req *models.CreateBookingRequest) (int, error) {
	if req.ProviderID == "" || req.ServiceID == "" {
		return 0, NewValidationError("provider_id and service_id are required")
	}
	if _, err := time.Parse("2006-01-02", req.ScheduledDate); err != nil {
		return 0, NewValidationError("invalid scheduled_date %q, expected YYYY-MM-DD", req.ScheduledDate)
	}
	startMinute, err := models.ClockToMinutes(req.ScheduledTime)
	if err != nil {
		return 0, NewValidationError("%v", err)
	}
	if req.DurationMinutes <= 0 {
		return 0, NewValidationError("duration_minutes must be positive")
	}
	if startMinute+req.DurationMinutes > 24*60 {
		return 0, NewValidationError("booking cannot extend past midnight")
	}
	if err := req.Pricing.Validate(); err != nil {
		return 0, NewValidationError("invalid pricing: %v", err)
	}
	return startMinute, nil
}

func (c *Coordinator) loadDay(ctx context.Context, schedule *models.ProviderSchedule, providerID, date string) (availability.DayContext, error) {
	exception, err := c.Schedules.GetException(ctx, providerID, date)
	if err != nil {
		return availability.DayContext{}, err
	}
	blocked, err := c.Schedules.ListBlocked(ctx, providerID, date)
	if err != nil {
		return availability.DayContext{}, err
	}
	existing, err := c.Bookings.ActiveOnDate(ctx, providerID, date)
	if err != nil {
		return availability.DayContext{}, err
	}
	return availability.DayContext{
		Schedule:  schedule,
		Exception: exception,
		Blocked:   blocked,
		Existing:  existing,
	}, nil
}

func (c *Coordinator) buildBooking(req *models.CreateBookingRequest, startMinute int, number string, now time.Time) *models.Booking {
	actor := req.CustomerInfo.Ref
	if actor == "" {
		actor = "guest"
	}
	var customerRef *string
	if req.CustomerInfo.Ref != "" {
		ref := req.CustomerInfo.Ref
		customerRef = &ref
	}

	return &models.Booking{
		ID:              uuid.New().String(),
		BookingNumber:   number,
		CustomerRef:     customerRef,
		ProviderRef:     req.ProviderID,
		ServiceRef:      req.ServiceID,
		Date:            req.ScheduledDate,
		StartMinute:     startMinute,
		DurationMinutes: req.DurationMinutes,
		EndMinute:       startMinute + req.DurationMinutes,
		Status:          models.StatusPending,
		StatusHistory: []models.StatusHistoryEntry{{
			Status:    models.StatusPending,
			Timestamp: now,
			Actor:     actor,
		}},
		Pricing:            req.Pricing,
		CancellationPolicy: defaultCancellationPolicy(req.ScheduledDate, startMinute),
		Location:           req.Location,
		PaymentMethod:      req.PaymentMethod,
		Version:            1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// defaultCancellationPolicy allows full-refund cancellation until 24 hours
// before the scheduled start.
func defaultCancellationPolicy(date string, startMinute int) models.CancellationPolicy {
	day, _ := time.Parse("2006-01-02", date)
	start := day.Add(time.Duration(startMinute) * time.Minute)
	return models.CancellationPolicy{
		AllowedUntil:     start.Add(-24 * time.Hour),
		RefundPercentage: 100,
	}
}

// availabilityFailure maps a resolver result onto the typed error taxonomy.
// Conflicts carry no alternatives: they signal a lost race, not a schedule
// the client should pick from.
func availabilityFailure(res availability.Result) *Error {
	switch res.Reason {
	case availability.ReasonNoProfile:
		return NewAvailabilityError(CodeNoProfile, "provider has no availability profile", nil)
	case availability.ReasonNotAvailableDay:
		return NewAvailabilityError(CodeDayUnavailable, "provider is not available on this day", nil)
	case availability.ReasonDateException:
		return NewAvailabilityError(CodeDateException, "provider is unavailable on this date", nil)
	case availability.ReasonPastSlot:
		return NewAvailabilityError(CodePastSlot, "requested time is too soon",
			availability.CollectClock(res.Alternatives))
	case availability.ReasonNotInSlot:
		return NewAvailabilityError(CodeNotInSlot, "requested window does not fit an open slot",
			availability.CollectClock(res.Alternatives))
	case availability.ReasonConflict:
		return NewSlotConflictError()
	}
	return NewValidationError("slot is not bookable")
}
