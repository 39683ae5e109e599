package models

import "fmt"

// TrackingView is the public, read-only projection returned for a booking
// number. It carries nothing beyond what was public at booking time.
type TrackingView struct {
	BookingNumber string               `json:"booking_number"`
	Status        BookingStatus        `json:"status"`
	StatusHistory []StatusHistoryEntry `json:"status_history"`
	ScheduledDate string               `json:"scheduled_date"`
	ScheduledTime string               `json:"scheduled_time"` // "HH:MM"
	TotalAmount   string               `json:"total_amount"`   // decimal string
	Currency      string               `json:"currency"`
}

// NewTrackingView builds the public projection from a booking.
func NewTrackingView(b *Booking) *TrackingView {
	history := make([]StatusHistoryEntry, len(b.StatusHistory))
	copy(history, b.StatusHistory)
	return &TrackingView{
		BookingNumber: b.BookingNumber,
		Status:        b.Status,
		StatusHistory: history,
		ScheduledDate: b.Date,
		ScheduledTime: MinutesToClock(b.StartMinute),
		TotalAmount:   b.Pricing.TotalAmount.StringFixed(2),
		Currency:      b.Pricing.Currency,
	}
}

// MinutesToClock formats minutes-from-midnight as "HH:MM".
func MinutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ClockToMinutes parses "HH:MM" into minutes from midnight.
func ClockToMinutes(clock string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(clock, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", clock)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", clock)
	}
	return h*60 + m, nil
}
