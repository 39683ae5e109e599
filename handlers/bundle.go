package handlers

import (
	"github.com/gin-gonic/gin"

	bookingSvc "reserva/services/booking"
	providerSvc "reserva/services/provider"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Booking endpoints
	CreateBooking   gin.HandlerFunc
	GetBooking      gin.HandlerFunc
	AcceptBooking   gin.HandlerFunc
	RejectBooking   gin.HandlerFunc
	StartBooking    gin.HandlerFunc
	CompleteBooking gin.HandlerFunc
	CancelBooking   gin.HandlerFunc
	NoShowBooking   gin.HandlerFunc
	AddMessage      gin.HandlerFunc
	TrackBooking    gin.HandlerFunc

	// Provider schedule endpoints
	SetupSchedule    gin.HandlerFunc
	AddException     gin.HandlerFunc
	AddBlockedPeriod gin.HandlerFunc
	DayAvailability  gin.HandlerFunc
}

// NewHandlerBundle wires every handler to its service.
func NewHandlerBundle(bookings bookingSvc.BookingService, schedules providerSvc.ScheduleService) *HandlerBundle {
	return &HandlerBundle{
		CreateBooking:   CreateBookingHandler(bookings),
		GetBooking:      GetBookingHandler(bookings),
		AcceptBooking:   AcceptBookingHandler(bookings),
		RejectBooking:   RejectBookingHandler(bookings),
		StartBooking:    StartBookingHandler(bookings),
		CompleteBooking: CompleteBookingHandler(bookings),
		CancelBooking:   CancelBookingHandler(bookings),
		NoShowBooking:   NoShowBookingHandler(bookings),
		AddMessage:      AddMessageHandler(bookings),
		TrackBooking:    TrackBookingHandler(bookings),

		SetupSchedule:    SetupScheduleHandler(schedules),
		AddException:     AddExceptionHandler(schedules),
		AddBlockedPeriod: AddBlockedPeriodHandler(schedules),
		DayAvailability:  DayAvailabilityHandler(schedules),
	}
}
