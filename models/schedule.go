package models

import (
	"fmt"
	"time"
)

// TimeSlot represents one contiguous open window within a provider's day.
type TimeSlot struct {
	Start         int  `bson:"start" json:"start"`                   // minutes from midnight (e.g., 540 for 9:00 AM)
	End           int  `bson:"end" json:"end"`                       // minutes from midnight (e.g., 1020 for 5:00 PM)
	IsBooked      bool `bson:"is_booked" json:"is_booked"`           // slot closed to further bookings
	MaxConcurrent int  `bson:"max_concurrent" json:"max_concurrent"` // bookings the provider can serve in parallel
	CurrentCount  int  `bson:"current_count" json:"current_count"`
}

// HasCapacity reports whether the slot can still take a booking.
func (ts TimeSlot) HasCapacity() bool {
	if ts.IsBooked {
		return false
	}
	max := ts.MaxConcurrent
	if max <= 0 {
		max = 1
	}
	return ts.CurrentCount < max
}

// Contains reports whether [start, start+duration) fits entirely inside the slot.
func (ts TimeSlot) Contains(start, duration int) bool {
	return start >= ts.Start && start+duration <= ts.End
}

// DaySchedule is one weekday's availability.
type DaySchedule struct {
	IsAvailable bool       `bson:"is_available" json:"is_available"`
	Slots       []TimeSlot `bson:"slots,omitempty" json:"slots,omitempty"`
}

// Validate enforces that an unavailable day carries no slots.
func (d DaySchedule) Validate() error {
	if !d.IsAvailable && len(d.Slots) > 0 {
		return fmt.Errorf("day marked unavailable must have an empty slot list")
	}
	for _, s := range d.Slots {
		if s.Start < 0 || s.End > 24*60 || s.Start >= s.End {
			return fmt.Errorf("slot [%d, %d) is out of range", s.Start, s.End)
		}
	}
	return nil
}

// WeeklySchedule maps the 7 weekdays to their schedules. Keys are
// time.Weekday values (Sunday == 0).
type WeeklySchedule map[time.Weekday]DaySchedule

// Validate checks every configured day.
func (w WeeklySchedule) Validate() error {
	for day, ds := range w {
		if day < time.Sunday || day > time.Saturday {
			return fmt.Errorf("invalid weekday %d", day)
		}
		if err := ds.Validate(); err != nil {
			return fmt.Errorf("weekday %s: %w", day, err)
		}
	}
	return nil
}

// ProviderSchedule is a provider's persisted weekly recurring schedule.
type ProviderSchedule struct {
	ProviderID   string         `bson:"provider_id" json:"provider_id"`
	BusinessName string         `bson:"business_name" json:"business_name"`
	Week         WeeklySchedule `bson:"week" json:"week"`
	UpdatedAt    time.Time      `bson:"updated_at" json:"updated_at"`
}

// Exception kinds.
const (
	ExceptionUnavailable = "unavailable"
	ExceptionCustom      = "custom"
)

// DateException overrides the weekly schedule for one calendar date.
// At most one exception exists per (provider, date).
type DateException struct {
	ProviderID string     `bson:"provider_id" json:"provider_id"`
	Date       string     `bson:"date" json:"date"` // "YYYY-MM-DD"
	Kind       string     `bson:"kind" json:"kind"` // "unavailable" or "custom"
	Slots      []TimeSlot `bson:"slots,omitempty" json:"slots,omitempty"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
}

// Validate checks the exception shape.
func (e DateException) Validate() error {
	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return fmt.Errorf("invalid exception date %q: %w", e.Date, err)
	}
	switch e.Kind {
	case ExceptionUnavailable:
		if len(e.Slots) > 0 {
			return fmt.Errorf("unavailable exception must not carry slots")
		}
	case ExceptionCustom:
		if len(e.Slots) == 0 {
			return fmt.Errorf("custom exception must carry at least one slot")
		}
	default:
		return fmt.Errorf("unknown exception kind %q", e.Kind)
	}
	return nil
}

// BlockedPeriod marks an interval a provider has closed to bookings.
type BlockedPeriod struct {
	BlockID    string    `bson:"block_id" json:"block_id"`
	ProviderID string    `bson:"provider_id" json:"provider_id"`
	Date       string    `bson:"date" json:"date"` // "YYYY-MM-DD"
	Start      int       `bson:"start" json:"start"`
	End        int       `bson:"end" json:"end"`
	Reason     string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// Covers reports whether the blocked period intersects [start, end) on date.
func (b BlockedPeriod) Covers(date string, start, end int) bool {
	return b.Date == date && b.Start < end && start < b.End
}
