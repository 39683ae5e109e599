package events

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"reserva/models"
)

// Dispatcher emits outbound booking events. Delivery is fire-and-forget:
// implementations must never block the calling operation on a downstream
// integration, and enqueue failures are logged, not returned.
type Dispatcher interface {
	BookingCreated(ctx context.Context, ev models.BookingCreatedEvent)
	BookingStatusChanged(ctx context.Context, ev models.BookingStatusChangedEvent)
	BookingCompleted(ctx context.Context, ev models.BookingCompletedEvent)
	MessageAdded(ctx context.Context, ev models.MessageAddedEvent)
}

// AsynqDispatcher queues events as asynq tasks for the background worker.
type AsynqDispatcher struct {
	Client *asynq.Client
	Logger *zap.Logger
}

func NewAsynqDispatcher(client *asynq.Client, logger *zap.Logger) *AsynqDispatcher {
	return &AsynqDispatcher{Client: client, Logger: logger}
}

func (d *AsynqDispatcher) enqueue(ctx context.Context, taskType string, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		d.Logger.Error("failed to marshal event payload",
			zap.String("task", taskType), zap.Error(err))
		return
	}
	if _, err := d.Client.EnqueueContext(ctx, asynq.NewTask(taskType, b)); err != nil {
		d.Logger.Warn("failed to enqueue event",
			zap.String("task", taskType), zap.Error(err))
	}
}

func (d *AsynqDispatcher) BookingCreated(ctx context.Context, ev models.BookingCreatedEvent) {
	d.enqueue(ctx, models.TaskBookingCreated, ev)
}

func (d *AsynqDispatcher) BookingStatusChanged(ctx context.Context, ev models.BookingStatusChangedEvent) {
	d.enqueue(ctx, models.TaskBookingStatusChanged, ev)
}

func (d *AsynqDispatcher) BookingCompleted(ctx context.Context, ev models.BookingCompletedEvent) {
	d.enqueue(ctx, models.TaskBookingCompleted, ev)
}

func (d *AsynqDispatcher) MessageAdded(ctx context.Context, ev models.MessageAddedEvent) {
	d.enqueue(ctx, models.TaskMessageAdded, ev)
}

// NopDispatcher drops all events. Used when the worker queue is disabled.
type NopDispatcher struct{}

func (NopDispatcher) BookingCreated(context.Context, models.BookingCreatedEvent)             {}
func (NopDispatcher) BookingStatusChanged(context.Context, models.BookingStatusChangedEvent) {}
func (NopDispatcher) BookingCompleted(context.Context, models.BookingCompletedEvent)         {}
func (NopDispatcher) MessageAdded(context.Context, models.MessageAddedEvent)                 {}
