package events

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"reserva/models"
)

// Notifier is the boundary to the excluded notification delivery system
// (email/SMS/push). The worker calls it outside of any request path.
type Notifier interface {
	NotifyCustomer(ctx context.Context, customerRef, subject, body string) error
	NotifyProvider(ctx context.Context, providerID, subject, body string) error
}

// LoyaltyAwarder credits loyalty points on completed bookings.
type LoyaltyAwarder interface {
	Award(ctx context.Context, customerRef string, amount string, currency string) error
}

// AnalyticsRefresher recomputes provider analytics after completions.
type AnalyticsRefresher interface {
	Refresh(ctx context.Context, providerID string) error
}

// LogNotifier logs deliveries instead of sending them; the default wiring
// until a real delivery integration is attached.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) NotifyCustomer(_ context.Context, customerRef, subject, body string) error {
	n.Logger.Info("customer notification",
		zap.String("customer", customerRef), zap.String("subject", subject), zap.String("body", body))
	return nil
}

func (n LogNotifier) NotifyProvider(_ context.Context, providerID, subject, body string) error {
	n.Logger.Info("provider notification",
		zap.String("provider", providerID), zap.String("subject", subject), zap.String("body", body))
	return nil
}

// LogLoyaltyAwarder records awards in the log only.
type LogLoyaltyAwarder struct {
	Logger *zap.Logger
}

func (a LogLoyaltyAwarder) Award(_ context.Context, customerRef, amount, currency string) error {
	a.Logger.Info("loyalty award",
		zap.String("customer", customerRef), zap.String("amount", amount), zap.String("currency", currency))
	return nil
}

// LogAnalyticsRefresher records refresh requests in the log only.
type LogAnalyticsRefresher struct {
	Logger *zap.Logger
}

func (r LogAnalyticsRefresher) Refresh(_ context.Context, providerID string) error {
	r.Logger.Info("analytics refresh", zap.String("provider", providerID))
	return nil
}

// Consumers wires event handlers onto an asynq mux.
type Consumers struct {
	Notifier  Notifier
	Loyalty   LoyaltyAwarder
	Analytics AnalyticsRefresher
	Logger    *zap.Logger
}

// Register attaches one handler per event task type.
func (c *Consumers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(models.TaskBookingCreated, c.handleBookingCreated)
	mux.HandleFunc(models.TaskBookingStatusChanged, c.handleStatusChanged)
	mux.HandleFunc(models.TaskBookingCompleted, c.handleCompleted)
	mux.HandleFunc(models.TaskMessageAdded, c.handleMessageAdded)
}

func (c *Consumers) handleBookingCreated(ctx context.Context, task *asynq.Task) error {
	var ev models.BookingCreatedEvent
	if err := json.Unmarshal(task.Payload(), &ev); err != nil {
		c.Logger.Error("invalid booking-created payload", zap.Error(err))
		return err
	}
	if err := c.Notifier.NotifyProvider(ctx, ev.ProviderID,
		"New booking request", "Booking "+ev.BookingNumber+" is awaiting your confirmation."); err != nil {
		return err
	}
	if ev.CustomerRef == "" {
		return nil
	}
	return c.Notifier.NotifyCustomer(ctx, ev.CustomerRef,
		"Booking received", "Your booking "+ev.BookingNumber+" was created.")
}

func (c *Consumers) handleStatusChanged(ctx context.Context, task *asynq.Task) error {
	var ev models.BookingStatusChangedEvent
	if err := json.Unmarshal(task.Payload(), &ev); err != nil {
		c.Logger.Error("invalid status-changed payload", zap.Error(err))
		return err
	}
	c.Logger.Info("booking status changed",
		zap.String("booking", ev.BookingID),
		zap.String("from", ev.From.String()),
		zap.String("to", ev.To.String()))
	return nil
}

func (c *Consumers) handleCompleted(ctx context.Context, task *asynq.Task) error {
	var ev models.BookingCompletedEvent
	if err := json.Unmarshal(task.Payload(), &ev); err != nil {
		c.Logger.Error("invalid booking-completed payload", zap.Error(err))
		return err
	}
	if ev.CustomerRef != "" {
		if err := c.Loyalty.Award(ctx, ev.CustomerRef, ev.TotalAmount, ev.Currency); err != nil {
			return err
		}
	}
	return c.Analytics.Refresh(ctx, ev.ProviderID)
}

func (c *Consumers) handleMessageAdded(ctx context.Context, task *asynq.Task) error {
	var ev models.MessageAddedEvent
	if err := json.Unmarshal(task.Payload(), &ev); err != nil {
		c.Logger.Error("invalid message-added payload", zap.Error(err))
		return err
	}
	c.Logger.Info("booking message added",
		zap.String("booking", ev.BookingID), zap.String("from", ev.From))
	return nil
}
