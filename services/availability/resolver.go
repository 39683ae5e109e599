package availability

import (
	"iter"
	"time"

	"go.uber.org/zap"

	"reserva/models"
)

// ReasonCode identifies why a requested window is not bookable. Each code
// maps to a distinct caller-facing failure so clients can branch instead of
// parsing a generic error.
type ReasonCode string

const (
	ReasonNoProfile       ReasonCode = "NO_PROFILE"
	ReasonNotAvailableDay ReasonCode = "NOT_AVAILABLE_DAY"
	ReasonDateException   ReasonCode = "DATE_EXCEPTION"
	ReasonPastSlot        ReasonCode = "PAST_SLOT"
	ReasonNotInSlot       ReasonCode = "NOT_IN_SLOT"
	ReasonConflict        ReasonCode = "CONFLICT"
)

// DayContext is everything known about a provider's day: the weekly
// schedule, the day's exception (nil when none), blocked periods, and the
// provider's active bookings on the date.
type DayContext struct {
	Schedule  *models.ProviderSchedule
	Exception *models.DateException
	Blocked   []models.BlockedPeriod
	Existing  []models.Booking
}

// Result is the outcome of a slot check. Alternatives is a lazy, finite,
// restartable sequence of minute-aligned start times; ranging over it again
// restarts the enumeration. It is nil when no suggestions apply (conflicts
// are a race-resolution signal, not a scheduling suggestion).
type Result struct {
	OK           bool
	Reason       ReasonCode
	Alternatives iter.Seq[int]
}

// Resolver decides slot availability against a provider's schedule,
// exceptions, blocked periods and existing bookings.
type Resolver struct {
	// CutoffMinutes is the same-day buffer: a request today must start at
	// least this many minutes after now.
	CutoffMinutes int
	// StepMinutes is the increment used when enumerating alternatives.
	StepMinutes int
	Logger      *zap.Logger
}

// NewResolver applies the default 60-minute cutoff and 30-minute step.
func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{CutoffMinutes: 60, StepMinutes: 30, Logger: logger}
}

// CheckSlot runs the availability checks in order, short-circuiting on the
// first failure:
//  1. no schedule configured
//  2. weekday closed or without slots
//  3. date exception marks the day unavailable (custom exceptions replace
//     the day's slots instead)
//  4. same-day requests must clear the cutoff buffer
//  5. the window must fit one open slot with spare capacity, outside any
//     blocked period
//  6. the window must not overlap an active booking
func (r *Resolver) CheckSlot(day DayContext, date string, startMinute, durationMinutes int, now time.Time) Result {
	if day.Schedule == nil || len(day.Schedule.Week) == 0 {
		return Result{Reason: ReasonNoProfile}
	}

	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		if r.Logger != nil {
			r.Logger.Warn("availability check on unparseable date", zap.String("date", date))
		}
		return Result{Reason: ReasonNotAvailableDay}
	}

	daySchedule, ok := day.Schedule.Week[parsed.Weekday()]
	if !ok || !daySchedule.IsAvailable || len(daySchedule.Slots) == 0 {
		return Result{Reason: ReasonNotAvailableDay}
	}

	slots := daySchedule.Slots
	if day.Exception != nil {
		switch day.Exception.Kind {
		case models.ExceptionUnavailable:
			return Result{Reason: ReasonDateException}
		case models.ExceptionCustom:
			slots = day.Exception.Slots
		}
	}

	// Same-day bookings must start at least CutoffMinutes after now.
	minStart := 0
	if date == now.Format("2006-01-02") {
		minStart = now.Hour()*60 + now.Minute() + r.CutoffMinutes
	}

	end := startMinute + durationMinutes
	if startMinute < minStart {
		return Result{
			Reason:       ReasonPastSlot,
			Alternatives: r.Enumerate(slots, day.Blocked, date, durationMinutes, minStart),
		}
	}

	fits := false
	for _, slot := range slots {
		if slot.Contains(startMinute, durationMinutes) && slot.HasCapacity() {
			fits = true
			break
		}
	}
	if fits && overlapsBlocked(day.Blocked, date, startMinute, end) {
		fits = false
	}
	if !fits {
		return Result{
			Reason:       ReasonNotInSlot,
			Alternatives: r.Enumerate(slots, day.Blocked, date, durationMinutes, minStart),
		}
	}

	for i := range day.Existing {
		b := &day.Existing[i]
		if b.Status.IsActive() && b.Overlaps(date, startMinute, end) {
			return Result{Reason: ReasonConflict}
		}
	}

	return Result{OK: true}
}

func overlapsBlocked(blocked []models.BlockedPeriod, date string, start, end int) bool {
	for _, b := range blocked {
		if b.Covers(date, start, end) {
			return true
		}
	}
	return false
}
