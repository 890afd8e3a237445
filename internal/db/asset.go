package db

import (
	"context"
	"fmt"
	"time"

	"github.com/mattduff36/avsworklog-sub000/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AssetCollection defines the interface for asset data operations.
// Assets are never deleted: Retire soft-retires them so maintenance
// records and task history stay intact for audit.
type AssetCollection interface {
	InsertAsset(ctx context.Context, asset models.Asset) (primitive.ObjectID, error)
	FindAssetByID(ctx context.Context, id string) (*models.Asset, error)
	FindAssets(ctx context.Context, includeRetired bool) ([]models.Asset, error)
	UpdateAsset(ctx context.Context, id string, asset models.Asset) error
	UpdateNickname(ctx context.Context, id string, nickname string) error
	RetireAsset(ctx context.Context, id string) error
	StampLastTaskCompleted(ctx context.Context, id string, at time.Time) error
}

// MongoAssetCollection implements AssetCollection for MongoDB.
type MongoAssetCollection struct {
	Collection *mongo.Collection
}

// InsertAsset inserts an asset record into the collection.
func (c *MongoAssetCollection) InsertAsset(ctx context.Context, asset models.Asset) (primitive.ObjectID, error) {
	if c.Collection == nil {
		return primitive.NilObjectID, fmt.Errorf("mongo collection is nil")
	}
	asset.CreatedAt = time.Now()
	asset.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, asset)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// FindAssetByID finds an asset by its ID.
func (c *MongoAssetCollection) FindAssetByID(ctx context.Context, id string) (*models.Asset, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid asset ID: %w", err)
	}

	var asset models.Asset
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&asset)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("asset not found")
		}
		return nil, err
	}
	return &asset, nil
}

// FindAssets lists assets, optionally including retired ones.
func (c *MongoAssetCollection) FindAssets(ctx context.Context, includeRetired bool) ([]models.Asset, error) {
	filter := bson.M{}
	if !includeRetired {
		filter["retired"] = false
	}

	cursor, err := c.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "fleet_number", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assets []models.Asset
	if err := cursor.All(ctx, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

// UpdateAsset updates an asset by its ID.
func (c *MongoAssetCollection) UpdateAsset(ctx context.Context, id string, asset models.Asset) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid asset ID: %w", err)
	}

	asset.UpdatedAt = time.Now()
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": asset})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("asset not found")
	}
	return nil
}

// UpdateNickname sets only the denormalized nickname field.
func (c *MongoAssetCollection) UpdateNickname(ctx context.Context, id string, nickname string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid asset ID: %w", err)
	}

	_, err = c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"nickname": nickname, "updated_at": time.Now()}},
	)
	return err
}

// RetireAsset soft-retires an asset. The document and its maintenance
// history remain.
func (c *MongoAssetCollection) RetireAsset(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid asset ID: %w", err)
	}

	now := time.Now()
	result, err := c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"retired": true, "retired_at": now, "updated_at": now}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("asset not found")
	}
	return nil
}

// StampLastTaskCompleted updates the denormalized completion stamp.
func (c *MongoAssetCollection) StampLastTaskCompleted(ctx context.Context, id string, at time.Time) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid asset ID: %w", err)
	}

	_, err = c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"last_task_completed_at": at, "updated_at": time.Now()}},
	)
	return err
}
