package bookingRepo

import (
	"go.mongodb.org/mongo-driver/mongo"

	"reserva/database"
)

// MongoBookingRepo is the MongoDB implementation of BookingRepository.
type MongoBookingRepo struct {
	bookingColl *mongo.Collection
	counterColl *mongo.Collection
}

// NewMongoBookingRepo builds the repository on the global Mongo client.
func NewMongoBookingRepo() *MongoBookingRepo {
	db := database.MongoClient.Database(database.DatabaseName)
	return &MongoBookingRepo{
		bookingColl: db.Collection("bookings"),
		counterColl: db.Collection("booking_counters"),
	}
}
