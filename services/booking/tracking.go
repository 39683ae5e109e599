package booking

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	bookingRepo "reserva/database/repository/booking"
	"reserva/models"
)

const trackingKeyPrefix = "track:"

// TrackingService serves the public, read-only tracking projection keyed by
// booking number. Snapshots are cached in redis with a short TTL and
// invalidated on every transition, so repeated reads without intervening
// mutation return identical results.
type TrackingService struct {
	Repo   bookingRepo.BookingRepository
	Cache  *redis.Client // nil disables caching
	TTL    time.Duration
	Logger *zap.Logger
}

// Track resolves a booking number to its public snapshot.
func (s *TrackingService) Track(ctx context.Context, bookingNumber string) (*models.TrackingView, error) {
	if bookingNumber == "" {
		return nil, NewValidationError("booking number is required")
	}

	if s.Cache != nil {
		cached, err := s.Cache.Get(ctx, trackingKeyPrefix+bookingNumber).Result()
		if err == nil {
			var view models.TrackingView
			if jsonErr := json.Unmarshal([]byte(cached), &view); jsonErr == nil {
				return &view, nil
			}
			// Corrupt entry: fall through to the repository and rewrite it.
		}
	}

	b, err := s.Repo.GetByNumber(ctx, bookingNumber)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, NewNotFoundError("booking")
	}
	if err != nil {
		return nil, err
	}

	view := models.NewTrackingView(b)
	if s.Cache != nil {
		if data, jsonErr := json.Marshal(view); jsonErr == nil {
			ttl := s.TTL
			if ttl <= 0 {
				ttl = time.Minute
			}
			if setErr := s.Cache.Set(ctx, trackingKeyPrefix+bookingNumber, data, ttl).Err(); setErr != nil {
				s.Logger.Warn("failed to cache tracking snapshot",
					zap.String("number", bookingNumber), zap.Error(setErr))
			}
		}
	}
	return view, nil
}

// Invalidate drops the cached snapshot after a mutation.
func (s *TrackingService) Invalidate(ctx context.Context, bookingNumber string) {
	if s.Cache == nil || bookingNumber == "" {
		return
	}
	if err := s.Cache.Del(ctx, trackingKeyPrefix+bookingNumber).Err(); err != nil {
		s.Logger.Warn("failed to invalidate tracking snapshot",
			zap.String("number", bookingNumber), zap.Error(err))
	}
}
