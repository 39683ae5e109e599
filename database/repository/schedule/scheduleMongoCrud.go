package scheduleRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"reserva/models"
)

const opTimeout = 5 * time.Second

// GetSchedule fetches a provider's weekly schedule; ErrNotFound when the
// provider has no profile configured.
func (repo *MongoScheduleRepo) GetSchedule(ctx context.Context, providerID string) (*models.ProviderSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var schedule models.ProviderSchedule
	err := repo.scheduleColl.FindOne(ctx, bson.M{"provider_id": providerID}).Decode(&schedule)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching schedule for provider %s: %w", providerID, err)
	}
	return &schedule, nil
}

// UpsertSchedule replaces the provider's weekly schedule.
func (repo *MongoScheduleRepo) UpsertSchedule(ctx context.Context, schedule *models.ProviderSchedule) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	schedule.UpdatedAt = time.Now().UTC()
	filter := bson.M{"provider_id": schedule.ProviderID}
	opts := options.Replace().SetUpsert(true)
	if _, err := repo.scheduleColl.ReplaceOne(ctx, filter, schedule, opts); err != nil {
		return fmt.Errorf("error upserting schedule for provider %s: %w", schedule.ProviderID, err)
	}
	return nil
}

// GetException returns the exception for (provider, date), or nil when the
// date follows the weekly schedule.
func (repo *MongoScheduleRepo) GetException(ctx context.Context, providerID, date string) (*models.DateException, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var exc models.DateException
	err := repo.exceptionColl.FindOne(ctx, bson.M{"provider_id": providerID, "date": date}).Decode(&exc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching exception for provider %s on %s: %w", providerID, date, err)
	}
	return &exc, nil
}

// ListExceptions returns all exceptions configured for the provider.
func (repo *MongoScheduleRepo) ListExceptions(ctx context.Context, providerID string) ([]models.DateException, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := repo.exceptionColl.Find(ctx, bson.M{"provider_id": providerID})
	if err != nil {
		return nil, fmt.Errorf("error listing exceptions for provider %s: %w", providerID, err)
	}
	defer cursor.Close(ctx)

	var exceptions []models.DateException
	if err := cursor.All(ctx, &exceptions); err != nil {
		return nil, fmt.Errorf("error decoding exceptions: %w", err)
	}
	return exceptions, nil
}

// UpsertException creates or replaces the single exception allowed per
// (provider, date); the unique index keeps the invariant under races.
func (repo *MongoScheduleRepo) UpsertException(ctx context.Context, exc *models.DateException) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	exc.CreatedAt = time.Now().UTC()
	filter := bson.M{"provider_id": exc.ProviderID, "date": exc.Date}
	opts := options.Replace().SetUpsert(true)
	if _, err := repo.exceptionColl.ReplaceOne(ctx, filter, exc, opts); err != nil {
		return fmt.Errorf("error upserting exception for provider %s on %s: %w", exc.ProviderID, exc.Date, err)
	}
	return nil
}

// ListBlocked returns the blocked periods for a provider on one date.
func (repo *MongoScheduleRepo) ListBlocked(ctx context.Context, providerID, date string) ([]models.BlockedPeriod, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := repo.blockedColl.Find(ctx, bson.M{"provider_id": providerID, "date": date})
	if err != nil {
		return nil, fmt.Errorf("error listing blocked periods for provider %s on %s: %w", providerID, date, err)
	}
	defer cursor.Close(ctx)

	var blocked []models.BlockedPeriod
	if err := cursor.All(ctx, &blocked); err != nil {
		return nil, fmt.Errorf("error decoding blocked periods: %w", err)
	}
	return blocked, nil
}

// CreateBlocked inserts one blocked period.
func (repo *MongoScheduleRepo) CreateBlocked(ctx context.Context, block *models.BlockedPeriod) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	block.CreatedAt = time.Now().UTC()
	if _, err := repo.blockedColl.InsertOne(ctx, block); err != nil {
		return fmt.Errorf("error creating blocked period: %w", err)
	}
	return nil
}

// EnsureIndexes creates the uniqueness and lookup indexes.
func (repo *MongoScheduleRepo) EnsureIndexes(ctx context.Context) error {
	scheduleIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "provider_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.scheduleColl.Indexes().CreateOne(ctx, scheduleIndex); err != nil {
		return fmt.Errorf("failed to create schedule index: %w", err)
	}

	exceptionIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "provider_id", Value: 1},
			{Key: "date", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.exceptionColl.Indexes().CreateOne(ctx, exceptionIndex); err != nil {
		return fmt.Errorf("failed to create exception index: %w", err)
	}

	blockedIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "provider_id", Value: 1},
			{Key: "date", Value: 1},
		},
	}
	if _, err := repo.blockedColl.Indexes().CreateOne(ctx, blockedIndex); err != nil {
		return fmt.Errorf("failed to create blocked-period index: %w", err)
	}
	return nil
}
