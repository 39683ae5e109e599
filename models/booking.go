package models

import "time"

// Booking is the aggregate root for a reservation. It is created in "pending"
// by the reservation coordinator and mutated only through lifecycle
// transitions; terminal bookings are retained for audit, never deleted.
type Booking struct {
	ID            string `bson:"id" json:"id"`                         // Unique booking identifier (UUID)
	BookingNumber string `bson:"booking_number" json:"booking_number"` // Human-readable number, assigned once before first persistence

	CustomerRef *string `bson:"customer_ref,omitempty" json:"customer_ref,omitempty"` // nil for guest bookings
	ProviderRef string  `bson:"provider_ref" json:"provider_ref"`
	ServiceRef  string  `bson:"service_ref" json:"service_ref"`

	Date            string `bson:"date" json:"date"`                         // Booking date in "YYYY-MM-DD" format
	StartMinute     int    `bson:"start_minute" json:"start_minute"`         // minutes from midnight
	DurationMinutes int    `bson:"duration_minutes" json:"duration_minutes"` // requested duration
	EndMinute       int    `bson:"end_minute" json:"end_minute"`             // StartMinute + DurationMinutes

	Status        BookingStatus        `bson:"status" json:"status"`
	StatusHistory []StatusHistoryEntry `bson:"status_history" json:"status_history"` // append-only; last entry always matches Status

	Pricing            Pricing              `bson:"pricing" json:"pricing"`
	CancellationPolicy CancellationPolicy   `bson:"cancellation_policy" json:"cancellation_policy"`
	Cancellation       *CancellationDetails `bson:"cancellation,omitempty" json:"cancellation,omitempty"` // set only when status becomes cancelled

	Messages []Message `bson:"messages,omitempty" json:"messages,omitempty"`

	Location      string `bson:"location,omitempty" json:"location,omitempty"`
	PaymentMethod string `bson:"payment_method,omitempty" json:"payment_method,omitempty"`

	ActualDurationMinutes *int `bson:"actual_duration_minutes,omitempty" json:"actual_duration_minutes,omitempty"` // recorded on completion

	AcceptedAt  *time.Time `bson:"accepted_at,omitempty" json:"accepted_at,omitempty"`
	ArrivalTime *time.Time `bson:"arrival_time,omitempty" json:"arrival_time,omitempty"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CancelledAt *time.Time `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`

	Version   int       `bson:"version" json:"version"` // optimistic concurrency stamp
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// StatusHistoryEntry records one step of the booking's audit trail.
type StatusHistoryEntry struct {
	Status    BookingStatus `bson:"status" json:"status"`
	Timestamp time.Time     `bson:"timestamp" json:"timestamp"`
	Actor     string        `bson:"actor" json:"actor"`
	Reason    string        `bson:"reason,omitempty" json:"reason,omitempty"`
	Notes     string        `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Message is one entry of the booking's append-only message thread.
type Message struct {
	From      string    `bson:"from" json:"from"`
	Text      string    `bson:"text" json:"text"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	IsRead    bool      `bson:"is_read" json:"is_read"`
}

// Overlaps reports whether the booking's [start, end) interval intersects
// the given interval on the same date.
func (b *Booking) Overlaps(date string, start, end int) bool {
	if b.Date != date {
		return false
	}
	return b.StartMinute < end && start < b.EndMinute
}

// CurrentStatusMatchesHistory verifies the invariant that the current status
// equals the last history entry's status.
func (b *Booking) CurrentStatusMatchesHistory() bool {
	if len(b.StatusHistory) == 0 {
		return false
	}
	return b.StatusHistory[len(b.StatusHistory)-1].Status == b.Status
}

// CanBeCancelled reports whether cancellation is still a legal transition.
func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanTransitionTo(StatusCancelled)
}

// ScheduledStart returns the absolute start time of the booking in UTC.
func (b *Booking) ScheduledStart() (time.Time, error) {
	day, err := time.Parse("2006-01-02", b.Date)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(b.StartMinute) * time.Minute), nil
}
