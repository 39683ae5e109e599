package bookingRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"reserva/models"
)

// ActiveOnDate returns the provider's bookings on the given date whose status
// still occupies the time window (pending, confirmed, in_progress).
func (repo *MongoBookingRepo) ActiveOnDate(ctx context.Context, providerID, date string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{
		"provider_ref": providerID,
		"date":         date,
		"status": bson.M{"$in": []models.BookingStatus{
			models.StatusPending,
			models.StatusConfirmed,
			models.StatusInProgress,
		}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_minute", Value: 1}})

	cursor, err := repo.bookingColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error scanning active bookings for provider %s on %s: %w", providerID, date, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding active bookings: %w", err)
	}
	return bookings, nil
}
