package bookingRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes conflict scans and tracking depend on:
// (provider_ref, date, status) for the overlap scan, a unique booking_number,
// and a unique (provider_id, date) on the counter collection.
func (repo *MongoBookingRepo) EnsureIndexes(ctx context.Context) error {
	bookingIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "provider_ref", Value: 1},
				{Key: "date", Value: 1},
				{Key: "status", Value: 1},
			},
		},
		{
			Keys:    bson.D{{Key: "booking_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := repo.bookingColl.Indexes().CreateMany(ctx, bookingIndexes); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}

	counterIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "provider_id", Value: 1},
			{Key: "date", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.counterColl.Indexes().CreateOne(ctx, counterIndex); err != nil {
		return fmt.Errorf("failed to create counter index: %w", err)
	}
	return nil
}
