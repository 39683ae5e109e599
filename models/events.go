package models

import "time"

// Asynq task type names for outbound booking events.
const (
	TaskBookingCreated       = "booking:created"
	TaskBookingStatusChanged = "booking:status_changed"
	TaskBookingCompleted     = "booking:completed"
	TaskMessageAdded         = "booking:message_added"
)

// BookingCreatedEvent is emitted after a reservation is persisted.
type BookingCreatedEvent struct {
	BookingID       string    `json:"booking_id"`
	BookingNumber   string    `json:"booking_number"`
	ProviderID      string    `json:"provider_id"`
	CustomerRef     string    `json:"customer_ref,omitempty"`
	Date            string    `json:"date"`
	StartMinute     int       `json:"start_minute"`
	DurationMinutes int       `json:"duration_minutes"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// BookingStatusChangedEvent is emitted after every successful transition.
type BookingStatusChangedEvent struct {
	BookingID     string        `json:"booking_id"`
	BookingNumber string        `json:"booking_number"`
	From          BookingStatus `json:"from"`
	To            BookingStatus `json:"to"`
	Actor         string        `json:"actor"`
	Reason        string        `json:"reason,omitempty"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

// BookingCompletedEvent triggers loyalty-point award and provider-analytics
// refresh in downstream consumers.
type BookingCompletedEvent struct {
	BookingID     string    `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	ProviderID    string    `json:"provider_id"`
	CustomerRef   string    `json:"customer_ref,omitempty"`
	TotalAmount   string    `json:"total_amount"` // decimal string
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// MessageAddedEvent is emitted when a message is appended to a booking thread.
type MessageAddedEvent struct {
	BookingID  string    `json:"booking_id"`
	From       string    `json:"from"`
	OccurredAt time.Time `json:"occurred_at"`
}
