package bookingRepo

import (
	"context"
	"errors"

	"reserva/models"
)

// ErrNotFound is returned when no booking matches the lookup.
var ErrNotFound = errors.New("booking not found")

// ErrStaleVersion is returned when an optimistic update loses to a newer
// write; the caller must reload the booking and retry.
var ErrStaleVersion = errors.New("booking version is stale")

// BookingRepository persists booking aggregates. Bookings are never deleted;
// terminal states remain for audit.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByNumber(ctx context.Context, bookingNumber string) (*models.Booking, error)
	// ActiveOnDate returns the provider's bookings on a date whose status is
	// pending, confirmed or in_progress; the conflict-scan input.
	ActiveOnDate(ctx context.Context, providerID, date string) ([]models.Booking, error)
	// UpdateWithVersion persists the booking only if the stored version still
	// equals expectedVersion; otherwise ErrStaleVersion.
	UpdateWithVersion(ctx context.Context, booking *models.Booking, expectedVersion int) error
	AppendMessage(ctx context.Context, bookingID string, msg models.Message) error
	// NextDaySequence atomically increments and returns the per-provider,
	// per-day booking counter.
	NextDaySequence(ctx context.Context, providerID, date string) (int, error)
	EnsureIndexes(ctx context.Context) error
}
