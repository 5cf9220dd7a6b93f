package propertyRepo

import (
	"context"
	"fmt"
	"time"

	"wildhaven/database"
	"wildhaven/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoPropertyRepo implements PropertyRepository using MongoDB.
type MongoPropertyRepo struct {
	coll *mongo.Collection
}

// NewMongoPropertyRepo creates a new instance of PropertyRepository using MongoDB.
func NewMongoPropertyRepo() PropertyRepository {
	coll := database.MongoClient.Database("wildhaven").Collection("properties")
	return &MongoPropertyRepo{coll: coll}
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func (r *MongoPropertyRepo) GetByID(id string) (*models.Property, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var property models.Property
	filter := bson.M{"id": id}
	if err := r.coll.FindOne(ctx, filter).Decode(&property); err != nil {
		return nil, fmt.Errorf("failed to fetch property with id %s: %w", id, err)
	}
	return &property, nil
}

func (r *MongoPropertyRepo) GetByOwner(ownerID string) ([]models.Property, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve properties for owner %s: %w", ownerID, err)
	}
	defer cursor.Close(ctx)

	var properties []models.Property
	for cursor.Next(ctx) {
		var p models.Property
		if err := cursor.Decode(&p); err != nil {
			return nil, fmt.Errorf("failed to decode property: %w", err)
		}
		properties = append(properties, p)
	}
	return properties, nil
}

func (r *MongoPropertyRepo) Create(property *models.Property) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, property); err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

func (r *MongoPropertyRepo) Update(property *models.Property) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": property.ID}
	update := bson.M{"$set": property}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update property with id %s: %w", property.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("property with id %s not found", property.ID)
	}
	return nil
}

func (r *MongoPropertyRepo) AddPhoto(id string, publicID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	update := bson.M{
		"$push": bson.M{"photos": publicID},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to add photo to property %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("property with id %s not found", id)
	}
	return nil
}

func (r *MongoPropertyRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	result, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete property with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("property with id %s not found", id)
	}
	return nil
}
