package deviceRepo

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

// DeviceRepository maps users to the FCM token of their registered device.
type DeviceRepository interface {
	Upsert(device *models.Device) error
	GetToken(userID string) (string, error)
}

// MongoDeviceRepo implements DeviceRepository using MongoDB.
type MongoDeviceRepo struct {
	coll *mongo.Collection
}

func NewMongoDeviceRepo() DeviceRepository {
	coll := database.MongoClient.Database("wildhaven").Collection("devices")
	return &MongoDeviceRepo{coll: coll}
}

func (r *MongoDeviceRepo) Upsert(device *models.Device) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	device.UpdatedAt = time.Now().Unix()
	filter := bson.M{"user_id": device.UserID}
	update := bson.M{"$set": device}
	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert device for user %s: %w", device.UserID, err)
	}
	return nil
}

func (r *MongoDeviceRepo) GetToken(userID string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var device models.Device
	filter := bson.M{"user_id": userID}
	if err := r.coll.FindOne(ctx, filter).Decode(&device); err != nil {
		return "", fmt.Errorf("failed to fetch device for user %s: %w", userID, err)
	}
	return device.FCMToken, nil
}
