package provider

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "reserva/database/repository/booking"
	scheduleRepo "reserva/database/repository/schedule"
	"reserva/models"
	"reserva/services/availability"
)

// ErrNoSchedule is returned when availability is requested for a provider
// without a configured profile.
var ErrNoSchedule = errors.New("provider has no availability profile")

// ScheduleService manages a provider's weekly schedule, date exceptions and
// blocked periods, and answers day-availability queries.
type ScheduleService interface {
	SetupSchedule(ctx context.Context, providerID string, req models.SetupScheduleRequest) error
	AddException(ctx context.Context, providerID string, req models.AddExceptionRequest) error
	AddBlockedPeriod(ctx context.Context, providerID string, req models.AddBlockedPeriodRequest) (*models.BlockedPeriod, error)
	// DayAvailability lists the bookable "HH:MM" start times for a duration
	// on one date.
	DayAvailability(ctx context.Context, providerID, date string, durationMinutes int) ([]string, error)
}

// DefaultScheduleService is the production implementation.
type DefaultScheduleService struct {
	Repo     scheduleRepo.ScheduleRepository
	Bookings bookingRepo.BookingRepository
	Resolver *availability.Resolver
	Logger   *zap.Logger
	Now      func() time.Time
}

func (s *DefaultScheduleService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// SetupSchedule validates and replaces the provider's weekly schedule.
func (s *DefaultScheduleService) SetupSchedule(ctx context.Context, providerID string, req models.SetupScheduleRequest) error {
	if err := req.Week.Validate(); err != nil {
		return err
	}
	schedule := &models.ProviderSchedule{
		ProviderID:   providerID,
		BusinessName: req.BusinessName,
		Week:         req.Week,
	}
	if err := s.Repo.UpsertSchedule(ctx, schedule); err != nil {
		return err
	}
	s.Logger.Info("provider schedule updated", zap.String("provider", providerID))
	return nil
}

// AddException creates or replaces the date's exception.
func (s *DefaultScheduleService) AddException(ctx context.Context, providerID string, req models.AddExceptionRequest) error {
	exc := &models.DateException{
		ProviderID: providerID,
		Date:       req.Date,
		Kind:       req.Kind,
		Slots:      req.Slots,
	}
	if err := exc.Validate(); err != nil {
		return err
	}
	return s.Repo.UpsertException(ctx, exc)
}

// AddBlockedPeriod closes an interval on one date.
func (s *DefaultScheduleService) AddBlockedPeriod(ctx context.Context, providerID string, req models.AddBlockedPeriodRequest) (*models.BlockedPeriod, error) {
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, errors.New("invalid date, expected YYYY-MM-DD")
	}
	if req.Start < 0 || req.End > 24*60 || req.Start >= req.End {
		return nil, errors.New("blocked interval is out of range")
	}
	block := &models.BlockedPeriod{
		BlockID:    uuid.New().String(),
		ProviderID: providerID,
		Date:       req.Date,
		Start:      req.Start,
		End:        req.End,
		Reason:     req.Reason,
	}
	if err := s.Repo.CreateBlocked(ctx, block); err != nil {
		return nil, err
	}
	return block, nil
}

// DayAvailability enumerates bookable start times for the date, filtered
// against blocked periods, the same-day cutoff and active bookings.
func (s *DefaultScheduleService) DayAvailability(ctx context.Context, providerID, date string, durationMinutes int) ([]string, error) {
	if durationMinutes <= 0 {
		return nil, errors.New("duration must be positive")
	}
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, errors.New("invalid date, expected YYYY-MM-DD")
	}

	schedule, err := s.Repo.GetSchedule(ctx, providerID)
	if errors.Is(err, scheduleRepo.ErrNotFound) {
		return nil, ErrNoSchedule
	}
	if err != nil {
		return nil, err
	}

	exception, err := s.Repo.GetException(ctx, providerID, date)
	if err != nil {
		return nil, err
	}
	if exception != nil && exception.Kind == models.ExceptionUnavailable {
		return nil, nil
	}

	daySchedule, ok := schedule.Week[parsed.Weekday()]
	if !ok || !daySchedule.IsAvailable {
		return nil, nil
	}
	slots := daySchedule.Slots
	if exception != nil && exception.Kind == models.ExceptionCustom {
		slots = exception.Slots
	}

	blocked, err := s.Repo.ListBlocked(ctx, providerID, date)
	if err != nil {
		return nil, err
	}
	active, err := s.Bookings.ActiveOnDate(ctx, providerID, date)
	if err != nil {
		return nil, err
	}

	now := s.now()
	minStart := 0
	if date == now.Format("2006-01-02") {
		minStart = now.Hour()*60 + now.Minute() + s.Resolver.CutoffMinutes
	}

	var out []string
	for candidate := range s.Resolver.Enumerate(slots, blocked, date, durationMinutes, minStart) {
		taken := false
		for i := range active {
			if active[i].Overlaps(date, candidate, candidate+durationMinutes) {
				taken = true
				break
			}
		}
		if !taken {
			out = append(out, models.MinutesToClock(candidate))
		}
	}
	return out, nil
}
