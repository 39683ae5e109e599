package bookingRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// counterDoc holds one per-provider, per-day monotonic sequence.
type counterDoc struct {
	ProviderID string `bson:"provider_id"`
	Date       string `bson:"date"`
	Seq        int    `bson:"seq"`
}

// NextDaySequence atomically increments and returns the day's counter for the
// provider. The upserted findOneAndUpdate makes concurrent callers observe
// distinct values, so two simultaneous reservations can never share a
// booking-number sequence.
func (repo *MongoBookingRepo) NextDaySequence(ctx context.Context, providerID, date string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"provider_id": providerID, "date": date}
	update := bson.M{"$inc": bson.M{"seq": 1}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc counterDoc
	if err := repo.counterColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return 0, fmt.Errorf("error incrementing booking counter for provider %s on %s: %w", providerID, date, err)
	}
	return doc.Seq, nil
}
