package db

import (
	"context"
	"os"
	"testing"

	"github.com/mattduff36/avsworklog-sub000/internal/models"
)

func TestConnectMongo_BadURI(t *testing.T) {
	os.Setenv("MONGO_URI", "mongodb://bad:uri")
	client, err := ConnectMongo()
	if err == nil {
		t.Error("expected error for bad URI, got nil")
	}
	if client != nil {
		t.Error("expected nil client on error")
	}
}

func TestInsertEntries_EmptyBatchIsNoOp(t *testing.T) {
	coll := &MongoHistoryCollection{Collection: nil}
	if err := coll.InsertEntries(context.Background(), nil); err != nil {
		t.Errorf("empty batch should be a no-op, got error: %v", err)
	}
}

func TestInsertTask_NilCollection(t *testing.T) {
	coll := &MongoTaskCollection{Collection: nil}
	if _, err := coll.InsertTask(context.Background(), models.WorkshopTask{}); err == nil {
		t.Error("expected error when collection is nil")
	}
}

func TestInsertAsset_NilCollection(t *testing.T) {
	coll := &MongoAssetCollection{Collection: nil}
	if _, err := coll.InsertAsset(context.Background(), models.Asset{}); err == nil {
		t.Error("expected error when collection is nil")
	}
}
