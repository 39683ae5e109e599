package booking

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.uber.org/zap"

	bookingRepo "reserva/database/repository/booking"
	"reserva/models"
	"reserva/services/events"
)

// TrackingInvalidator drops a cached tracking snapshot after a mutation.
type TrackingInvalidator interface {
	Invalidate(ctx context.Context, bookingNumber string)
}

// Lifecycle is the booking state machine. Every caller-facing action reduces
// to one Transition call; the transition table lives on models.BookingStatus.
// Updates go through the repository's optimistic version check, so a stale
// in-memory booking can never overwrite a newer status.
type Lifecycle struct {
	Repo       bookingRepo.BookingRepository
	Refunds    RefundEngine
	Dispatcher events.Dispatcher
	Tracking   TrackingInvalidator // may be nil
	Logger     *zap.Logger
	Now        func() time.Time // defaults to time.Now
}

func (l *Lifecycle) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now().UTC()
}

// Transition validates the edge, appends the history entry, applies the
// per-target side effects, and persists the result against the booking's
// loaded version. All-or-nothing: on any failure the stored booking is
// untouched and the passed-in aggregate is not modified.
func (l *Lifecycle) Transition(ctx context.Context, b *models.Booking, target models.BookingStatus, actor, reason, notes string) (*models.Booking, error) {
	if !b.Status.CanTransitionTo(target) {
		return nil, NewInvalidTransitionError(b.Status, target)
	}
	if target == models.StatusCancelled && b.Cancellation == nil {
		// Callers populate cancellation details (actor, reason, refund)
		// before or as part of the cancel call; see Cancel.
		return nil, NewValidationError("cancellation details must be set before cancelling")
	}

	now := l.now()
	next := *b
	next.Status = target
	next.StatusHistory = append(slices.Clone(b.StatusHistory), models.StatusHistoryEntry{
		Status:    target,
		Timestamp: now,
		Actor:     actor,
		Reason:    reason,
		Notes:     notes,
	})

	switch target {
	case models.StatusConfirmed:
		next.AcceptedAt = &now
	case models.StatusInProgress:
		next.ArrivalTime = &now
	case models.StatusCompleted:
		next.CompletedAt = &now
	case models.StatusCancelled:
		next.CancelledAt = &now
	}

	if err := l.Repo.UpdateWithVersion(ctx, &next, b.Version); err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrStaleVersion):
			return nil, NewStaleVersionError()
		case errors.Is(err, bookingRepo.ErrNotFound):
			return nil, NewNotFoundError("booking")
		}
		return nil, err
	}

	l.Dispatcher.BookingStatusChanged(ctx, models.BookingStatusChangedEvent{
		BookingID:     next.ID,
		BookingNumber: next.BookingNumber,
		From:          b.Status,
		To:            target,
		Actor:         actor,
		Reason:        reason,
		OccurredAt:    now,
	})
	if target == models.StatusCompleted {
		customerRef := ""
		if next.CustomerRef != nil {
			customerRef = *next.CustomerRef
		}
		l.Dispatcher.BookingCompleted(ctx, models.BookingCompletedEvent{
			BookingID:     next.ID,
			BookingNumber: next.BookingNumber,
			ProviderID:    next.ProviderRef,
			CustomerRef:   customerRef,
			TotalAmount:   next.Pricing.TotalAmount.StringFixed(2),
			Currency:      next.Pricing.Currency,
			OccurredAt:    now,
		})
	}
	if l.Tracking != nil {
		l.Tracking.Invalidate(ctx, next.BookingNumber)
	}

	l.Logger.Info("booking transitioned",
		zap.String("booking", next.ID),
		zap.String("from", b.Status.String()),
		zap.String("to", target.String()),
		zap.String("actor", actor))
	return &next, nil
}

// Cancel computes the refund, attaches the cancellation details, and runs
// the cancelled transition.
func (l *Lifecycle) Cancel(ctx context.Context, b *models.Booking, actor, reason string) (*models.Booking, error) {
	if !b.CanBeCancelled() {
		return nil, NewInvalidTransitionError(b.Status, models.StatusCancelled)
	}
	now := l.now()
	refund, err := l.Refunds.CalculateRefund(b, now)
	if err != nil {
		return nil, err
	}

	withDetails := *b
	withDetails.Cancellation = &models.CancellationDetails{
		CancelledBy:  actor,
		Reason:       reason,
		RefundAmount: refund,
		CancelledAt:  now,
	}
	return l.Transition(ctx, &withDetails, models.StatusCancelled, actor, reason, "")
}
