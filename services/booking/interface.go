package booking

import (
	"context"

	"reserva/models"
)

// BookingService is the caller-facing surface of the reservation engine.
// Authorization (who may act as which actor) is performed by the caller.
type BookingService interface {
	CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	Accept(ctx context.Context, id, actor string) (*models.Booking, error)
	Reject(ctx context.Context, id, actor, reason string) (*models.Booking, error)
	Start(ctx context.Context, id, actor string) (*models.Booking, error)
	Complete(ctx context.Context, id, actor string, actualDurationMinutes *int) (*models.Booking, error)
	Cancel(ctx context.Context, id, actor, reason string) (*models.Booking, error)
	MarkNoShow(ctx context.Context, id, actor, reason string) (*models.Booking, error)
	AddMessage(ctx context.Context, id, from, text string) (*models.Booking, error)
	Track(ctx context.Context, bookingNumber string) (*models.TrackingView, error)
}
