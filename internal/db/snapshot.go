package db

import (
	"context"
	"fmt"

	"github.com/mattduff36/avsworklog-sub000/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SnapshotCollection stores the locally cached government register and
// MOT-history data, one document per registration per source.
type SnapshotCollection interface {
	UpsertVehicleSnapshot(ctx context.Context, snapshot models.VehicleSnapshot) error
	FindVehicleSnapshot(ctx context.Context, registration string) (*models.VehicleSnapshot, error)
	UpsertMotHistorySnapshot(ctx context.Context, snapshot models.MotHistorySnapshot) error
	FindMotHistorySnapshot(ctx context.Context, registration string) (*models.MotHistorySnapshot, error)
}

// MongoSnapshotCollection implements SnapshotCollection with two backing
// collections, one per snapshot kind.
type MongoSnapshotCollection struct {
	Vehicles   *mongo.Collection
	MotHistory *mongo.Collection
}

// UpsertVehicleSnapshot replaces the cached register data for a registration.
func (c *MongoSnapshotCollection) UpsertVehicleSnapshot(ctx context.Context, snapshot models.VehicleSnapshot) error {
	if c.Vehicles == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	snapshot.ID = primitive.NilObjectID
	_, err := c.Vehicles.ReplaceOne(
		ctx,
		bson.M{"registration": snapshot.Registration},
		snapshot,
		options.Replace().SetUpsert(true),
	)
	return err
}

// FindVehicleSnapshot returns the cached register data, or nil when the
// registration was never fetched.
func (c *MongoSnapshotCollection) FindVehicleSnapshot(ctx context.Context, registration string) (*models.VehicleSnapshot, error) {
	var snapshot models.VehicleSnapshot
	err := c.Vehicles.FindOne(ctx, bson.M{"registration": registration}).Decode(&snapshot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &snapshot, nil
}

// UpsertMotHistorySnapshot replaces the cached MOT history for a registration.
func (c *MongoSnapshotCollection) UpsertMotHistorySnapshot(ctx context.Context, snapshot models.MotHistorySnapshot) error {
	if c.MotHistory == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	snapshot.ID = primitive.NilObjectID
	_, err := c.MotHistory.ReplaceOne(
		ctx,
		bson.M{"registration": snapshot.Registration},
		snapshot,
		options.Replace().SetUpsert(true),
	)
	return err
}

// FindMotHistorySnapshot returns the cached MOT history, or nil when the
// registration was never fetched.
func (c *MongoSnapshotCollection) FindMotHistorySnapshot(ctx context.Context, registration string) (*models.MotHistorySnapshot, error) {
	var snapshot models.MotHistorySnapshot
	err := c.MotHistory.FindOne(ctx, bson.M{"registration": registration}).Decode(&snapshot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &snapshot, nil
}
