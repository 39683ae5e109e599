package scheduleRepo

import (
	"go.mongodb.org/mongo-driver/mongo"

	"reserva/database"
)

// MongoScheduleRepo is the MongoDB implementation of ScheduleRepository.
type MongoScheduleRepo struct {
	scheduleColl  *mongo.Collection
	exceptionColl *mongo.Collection
	blockedColl   *mongo.Collection
}

// NewMongoScheduleRepo builds the repository on the global Mongo client.
func NewMongoScheduleRepo() *MongoScheduleRepo {
	db := database.MongoClient.Database(database.DatabaseName)
	return &MongoScheduleRepo{
		scheduleColl:  db.Collection("provider_schedules"),
		exceptionColl: db.Collection("date_exceptions"),
		blockedColl:   db.Collection("blocked_periods"),
	}
}
