package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	bookingRepo "reserva/database/repository/booking"
	"reserva/models"
	"reserva/services/events"
)

// DefaultBookingService implements BookingService by composing the
// coordinator, the lifecycle state machine and the tracking projection.
type DefaultBookingService struct {
	Coordinator *Coordinator
	Lifecycle   *Lifecycle
	TrackingSvc *TrackingService
	Repo        bookingRepo.BookingRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// CreateBooking reserves a slot through the coordinator.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	return s.Coordinator.Reserve(ctx, req)
}

// GetBooking fetches one booking by id.
func (s *DefaultBookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, NewNotFoundError("booking")
	}
	return b, err
}

// Accept confirms a pending booking.
func (s *DefaultBookingService) Accept(ctx context.Context, id, actor string) (*models.Booking, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Lifecycle.Transition(ctx, b, models.StatusConfirmed, actor, "", "")
}

// Reject declines a pending booking; it lands in cancelled with the
// provider's reason and the computed refund attached.
func (s *DefaultBookingService) Reject(ctx context.Context, id, actor, reason string) (*models.Booking, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != models.StatusPending {
		return nil, NewInvalidTransitionError(b.Status, models.StatusCancelled)
	}
	return s.Lifecycle.Cancel(ctx, b, actor, reason)
}

// Start marks arrival and moves a confirmed booking to in_progress.
func (s *DefaultBookingService) Start(ctx context.Context, id, actor string) (*models.Booking, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Lifecycle.Transition(ctx, b, models.StatusInProgress, actor, "", "")
}

// Complete finishes an in_progress booking, recording the actual duration
// when the provider supplies one.
func (s *DefaultBookingService) Complete(ctx context.Context, id, actor string, actualDurationMinutes *int) (*models.Booking, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if actualDurationMinutes != nil {
		if *actualDurationMinutes <= 0 {
			return nil, NewValidationError("actual duration must be positive")
		}
		withDuration := *b
		withDuration.ActualDurationMinutes = actualDurationMinutes
		b = &withDuration
	}
	return s.Lifecycle.Transition(ctx, b, models.StatusCompleted, actor, "", "")
}

// Cancel cancels an active booking with a refund per policy and timing.
func (s *DefaultBookingService) Cancel(ctx context.Context, id, actor, reason string) (*models.Booking, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Lifecycle.Cancel(ctx, b, actor, reason)
}

// MarkNoShow records a customer absence on a confirmed booking after the
// scheduled start has passed.
func (s *DefaultBookingService) MarkNoShow(ctx context.Context, id, actor, reason string) (*models.Booking, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	start, startErr := b.ScheduledStart()
	if startErr == nil && s.lifecycleNow().Before(start) {
		return nil, NewValidationError("cannot mark no-show before the scheduled start")
	}
	return s.Lifecycle.Transition(ctx, b, models.StatusNoShow, actor, reason, "")
}

// AddMessage appends one message to the booking thread and emits the event.
func (s *DefaultBookingService) AddMessage(ctx context.Context, id, from, text string) (*models.Booking, error) {
	if text == "" {
		return nil, NewValidationError("message text is required")
	}
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	msg := models.Message{
		From:      from,
		Text:      text,
		Timestamp: s.lifecycleNow(),
	}
	if err := s.Repo.AppendMessage(ctx, b.ID, msg); err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, NewNotFoundError("booking")
		}
		return nil, err
	}
	b.Messages = append(b.Messages, msg)

	s.Dispatcher.MessageAdded(ctx, models.MessageAddedEvent{
		BookingID:  b.ID,
		From:       from,
		OccurredAt: msg.Timestamp,
	})
	return b, nil
}

// Track serves the public snapshot for a booking number.
func (s *DefaultBookingService) Track(ctx context.Context, bookingNumber string) (*models.TrackingView, error) {
	return s.TrackingSvc.Track(ctx, bookingNumber)
}

func (s *DefaultBookingService) lifecycleNow() time.Time {
	if s.Lifecycle != nil && s.Lifecycle.Now != nil {
		return s.Lifecycle.Now()
	}
	return time.Now().UTC()
}
