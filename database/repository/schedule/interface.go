package scheduleRepo

import (
	"context"
	"errors"

	"reserva/models"
)

// ErrNotFound is returned when a provider has no schedule configured.
var ErrNotFound = errors.New("provider schedule not found")

// ScheduleRepository persists weekly schedules, date exceptions and blocked
// periods per provider.
type ScheduleRepository interface {
	GetSchedule(ctx context.Context, providerID string) (*models.ProviderSchedule, error)
	UpsertSchedule(ctx context.Context, schedule *models.ProviderSchedule) error
	// GetException returns the exception for (provider, date), or nil.
	GetException(ctx context.Context, providerID, date string) (*models.DateException, error)
	ListExceptions(ctx context.Context, providerID string) ([]models.DateException, error)
	UpsertException(ctx context.Context, exc *models.DateException) error
	ListBlocked(ctx context.Context, providerID, date string) ([]models.BlockedPeriod, error)
	CreateBlocked(ctx context.Context, block *models.BlockedPeriod) error
	EnsureIndexes(ctx context.Context) error
}
