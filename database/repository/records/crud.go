package recordsRepo

import (
	"context"
	"fmt"
	"time"

	"wildhaven/database"
	"wildhaven/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingArchiveRepo implements BookingArchiveRepository using MongoDB.
type MongoBookingArchiveRepo struct {
	coll *mongo.Collection
}

func NewMongoBookingArchiveRepo() BookingArchiveRepository {
	coll := database.MongoClient.Database("wildhaven").Collection("booking_archive")
	return &MongoBookingArchiveRepo{coll: coll}
}

func (r *MongoBookingArchiveRepo) Insert(record *models.ArchivedBooking) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to archive booking %s: %w", record.BookingID, err)
	}
	return nil
}

func (r *MongoBookingArchiveRepo) GetByBookingID(bookingID string) (*models.ArchivedBooking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var record models.ArchivedBooking
	filter := bson.M{"booking_id": bookingID}
	if err := r.coll.FindOne(ctx, filter).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to fetch archived booking %s: %w", bookingID, err)
	}
	return &record, nil
}

func (r *MongoBookingArchiveRepo) ListByUser(userID string) ([]models.ArchivedBooking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var records []models.ArchivedBooking
	for cursor.Next(ctx) {
		var rec models.ArchivedBooking
		if err := cursor.Decode(&rec); err != nil {
			return nil, fmt.Errorf("failed to decode archived booking: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
