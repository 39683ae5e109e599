package models

import "github.com/shopspring/decimal"

// CustomerInfo identifies the customer on a creation request. Ref is empty
// for guest bookings.
type CustomerInfo struct {
	Ref   string `json:"ref,omitempty"`
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// AddOnInput is a priced extra selected at creation time.
type AddOnInput struct {
	Name   string          `json:"name" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateBookingRequest is the inbound payload for reserving a slot.
type CreateBookingRequest struct {
	ServiceID       string       `json:"service_id" binding:"required"`
	ProviderID      string       `json:"provider_id" binding:"required"`
	ScheduledDate   string       `json:"scheduled_date" binding:"required"` // "YYYY-MM-DD"
	ScheduledTime   string       `json:"scheduled_time" binding:"required"` // "HH:MM"
	DurationMinutes int          `json:"duration_minutes" binding:"required"`
	Location        string       `json:"location,omitempty"`
	CustomerInfo    CustomerInfo `json:"customer_info" binding:"required"`
	AddOns          []AddOnInput `json:"add_ons,omitempty"`
	PaymentMethod   string       `json:"payment_method,omitempty"`
	Pricing         Pricing      `json:"pricing" binding:"required"`
}

// StatusActionRequest carries the optional fields of a lifecycle action.
type StatusActionRequest struct {
	Reason                string `json:"reason,omitempty"`
	Notes                 string `json:"notes,omitempty"`
	ActualDurationMinutes *int   `json:"actual_duration_minutes,omitempty"`
}

// AddMessageRequest appends one message to a booking thread.
type AddMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// SetupScheduleRequest replaces a provider's weekly schedule.
type SetupScheduleRequest struct {
	BusinessName string         `json:"business_name" binding:"required"`
	Week         WeeklySchedule `json:"week" binding:"required"`
}

// AddExceptionRequest creates or replaces a date exception.
type AddExceptionRequest struct {
	Date  string     `json:"date" binding:"required"`
	Kind  string     `json:"kind" binding:"required"`
	Slots []TimeSlot `json:"slots,omitempty"`
}

// AddBlockedPeriodRequest closes an interval on one date.
type AddBlockedPeriodRequest struct {
	Date   string `json:"date" binding:"required"`
	Start  int    `json:"start"`
	End    int    `json:"end" binding:"required"`
	Reason string `json:"reason,omitempty"`
}
