package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mattduff36/avsworklog-sub000/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateRecord signals that an asset already has a maintenance
// record. Callers handle it with a lookup-then-update fallback rather
// than surfacing a raw database error.
var ErrDuplicateRecord = errors.New("maintenance record already exists for asset")

// ErrRecordNotFound signals that an asset has no maintenance record yet.
var ErrRecordNotFound = errors.New("maintenance record not found")

// MaintenanceCollection defines the interface for maintenance record
// operations. Records are one per asset and never deleted.
type MaintenanceCollection interface {
	InsertRecord(ctx context.Context, record models.MaintenanceRecord) error
	FindRecordByAssetID(ctx context.Context, assetID primitive.ObjectID) (*models.MaintenanceRecord, error)
	UpdateRecord(ctx context.Context, assetID primitive.ObjectID, record models.MaintenanceRecord) error
}

// MongoMaintenanceCollection implements MaintenanceCollection for MongoDB.
// The collection carries a unique index on asset_id; a duplicate insert
// is reported as ErrDuplicateRecord.
type MongoMaintenanceCollection struct {
	Collection *mongo.Collection
}

// EnsureIndexes creates the unique asset_id index.
func (c *MongoMaintenanceCollection) EnsureIndexes(ctx context.Context) error {
	_, err := c.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "asset_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// InsertRecord inserts a maintenance record for an asset.
func (c *MongoMaintenanceCollection) InsertRecord(ctx context.Context, record models.MaintenanceRecord) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, record)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateRecord
	}
	return err
}

// FindRecordByAssetID finds the maintenance record for an asset.
func (c *MongoMaintenanceCollection) FindRecordByAssetID(ctx context.Context, assetID primitive.ObjectID) (*models.MaintenanceRecord, error) {
	var record models.MaintenanceRecord
	err := c.Collection.FindOne(ctx, bson.M{"asset_id": assetID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

// UpdateRecord replaces the editable fields of an asset's record.
func (c *MongoMaintenanceCollection) UpdateRecord(ctx context.Context, assetID primitive.ObjectID, record models.MaintenanceRecord) error {
	record.UpdatedAt = time.Now()
	record.AssetID = assetID
	result, err := c.Collection.ReplaceOne(ctx, bson.M{"asset_id": assetID}, record)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}
