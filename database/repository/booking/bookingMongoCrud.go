package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"reserva/models"
)

const opTimeout = 5 * time.Second

// Create inserts a new booking document.
func (repo *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := repo.bookingColl.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its ID.
func (repo *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var booking models.Booking
	err := repo.bookingColl.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking %s: %w", id, err)
	}
	return &booking, nil
}

// GetByNumber retrieves a booking by its human-readable number.
func (repo *MongoBookingRepo) GetByNumber(ctx context.Context, bookingNumber string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var booking models.Booking
	err := repo.bookingColl.FindOne(ctx, bson.M{"booking_number": bookingNumber}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking %s: %w", bookingNumber, err)
	}
	return &booking, nil
}

// UpdateWithVersion replaces the booking document if the stored version still
// matches. The stored version is bumped by one in the same write.
func (repo *MongoBookingRepo) UpdateWithVersion(ctx context.Context, booking *models.Booking, expectedVersion int) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	next := *booking
	next.Version = expectedVersion + 1
	next.UpdatedAt = time.Now().UTC()

	filter := bson.M{"id": booking.ID, "version": expectedVersion}
	res, err := repo.bookingColl.ReplaceOne(ctx, filter, &next)
	if err != nil {
		return fmt.Errorf("error updating booking %s: %w", booking.ID, err)
	}
	if res.MatchedCount == 0 {
		// Either the booking is gone or a newer write won the race.
		if _, getErr := repo.GetByID(ctx, booking.ID); getErr != nil {
			return getErr
		}
		return ErrStaleVersion
	}

	booking.Version = next.Version
	booking.UpdatedAt = next.UpdatedAt
	return nil
}

// AppendMessage pushes one message onto the booking's thread.
func (repo *MongoBookingRepo) AppendMessage(ctx context.Context, bookingID string, msg models.Message) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"id": bookingID}
	update := bson.M{
		"$push": bson.M{"messages": msg},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := repo.bookingColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error appending message to booking %s: %w", bookingID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
