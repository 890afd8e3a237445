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

// HistoryCollection is the append-only maintenance change ledger. It
// deliberately has no update or delete operations.
type HistoryCollection interface {
	InsertEntries(ctx context.Context, entries []models.MaintenanceHistoryEntry) error
	FindEntriesByAssetID(ctx context.Context, assetID primitive.ObjectID, includeNoChanges bool) ([]models.MaintenanceHistoryEntry, error)
	CountEntriesByAssetID(ctx context.Context, assetID primitive.ObjectID, includeNoChanges bool) (int64, error)
}

// MongoHistoryCollection implements HistoryCollection for MongoDB.
type MongoHistoryCollection struct {
	Collection *mongo.Collection
}

// InsertEntries writes one edit submission's ledger rows in a single batch.
func (c *MongoHistoryCollection) InsertEntries(ctx context.Context, entries []models.MaintenanceHistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	docs := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, e)
	}
	_, err := c.Collection.InsertMany(ctx, docs)
	return err
}

// FindEntriesByAssetID returns the ledger for an asset, newest first.
// Whether comment-only (no_changes) rows are included is a display
// choice passed down by the caller.
func (c *MongoHistoryCollection) FindEntriesByAssetID(ctx context.Context, assetID primitive.ObjectID, includeNoChanges bool) ([]models.MaintenanceHistoryEntry, error) {
	filter := entriesFilter(assetID, includeNoChanges)
	cursor, err := c.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.MaintenanceHistoryEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CountEntriesByAssetID tallies ledger rows for the "total updates"
// display, with or without no_changes rows.
func (c *MongoHistoryCollection) CountEntriesByAssetID(ctx context.Context, assetID primitive.ObjectID, includeNoChanges bool) (int64, error) {
	return c.Collection.CountDocuments(ctx, entriesFilter(assetID, includeNoChanges))
}

func entriesFilter(assetID primitive.ObjectID, includeNoChanges bool) bson.M {
	filter := bson.M{"asset_id": assetID}
	if !includeNoChanges {
		filter["field"] = bson.M{"$ne": string(models.FieldNoChanges)}
	}
	return filter
}
