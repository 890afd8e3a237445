package handlers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mattduff36/avsworklog-sub000/internal/models"
)

// MockAssetCollection is a mock implementation of AssetCollection
type MockAssetCollection struct {
	mock.Mock
}

func (m *MockAssetCollection) InsertAsset(ctx context.Context, asset models.Asset) (primitive.ObjectID, error) {
	args := m.Called(ctx, asset)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockAssetCollection) FindAssetByID(ctx context.Context, id string) (*models.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

func (m *MockAssetCollection) FindAssets(ctx context.Context, includeRetired bool) ([]models.Asset, error) {
	args := m.Called(ctx, includeRetired)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Asset), args.Error(1)
}

func (m *MockAssetCollection) UpdateAsset(ctx context.Context, id string, asset models.Asset) error {
	args := m.Called(ctx, id, asset)
	return args.Error(0)
}

func (m *MockAssetCollection) UpdateNickname(ctx context.Context, id string, nickname string) error {
	args := m.Called(ctx, id, nickname)
	return args.Error(0)
}

func (m *MockAssetCollection) RetireAsset(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssetCollection) StampLastTaskCompleted(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockMaintenanceCollection is a mock implementation of MaintenanceCollection
type MockMaintenanceCollection struct {
	mock.Mock
}

func (m *MockMaintenanceCollection) InsertRecord(ctx context.Context, record models.MaintenanceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockMaintenanceCollection) FindRecordByAssetID(ctx context.Context, assetID primitive.ObjectID) (*models.MaintenanceRecord, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceRecord), args.Error(1)
}

func (m *MockMaintenanceCollection) UpdateRecord(ctx context.Context, assetID primitive.ObjectID, record models.MaintenanceRecord) error {
	args := m.Called(ctx, assetID, record)
	return args.Error(0)
}

// MockHistoryCollection is a mock implementation of HistoryCollection
type MockHistoryCollection struct {
	mock.Mock
}

func (m *MockHistoryCollection) InsertEntries(ctx context.Context, entries []models.MaintenanceHistoryEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockHistoryCollection) FindEntriesByAssetID(ctx context.Context, assetID primitive.ObjectID, includeNoChanges bool) ([]models.MaintenanceHistoryEntry, error) {
	args := m.Called(ctx, assetID, includeNoChanges)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MaintenanceHistoryEntry), args.Error(1)
}

func (m *MockHistoryCollection) CountEntriesByAssetID(ctx context.Context, assetID primitive.ObjectID, includeNoChanges bool) (int64, error) {
	args := m.Called(ctx, assetID, includeNoChanges)
	return args.Get(0).(int64), args.Error(1)
}

// MockTaskCollection is a mock implementation of TaskCollection
type MockTaskCollection struct {
	mock.Mock
}

func (m *MockTaskCollection) InsertTask(ctx context.Context, task models.WorkshopTask) (primitive.ObjectID, error) {
	args := m.Called(ctx, task)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockTaskCollection) FindTaskByID(ctx context.Context, id string) (*models.WorkshopTask, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkshopTask), args.Error(1)
}

func (m *MockTaskCollection) FindTasks(ctx context.Context, assetID *primitive.ObjectID, status *models.TaskStatus) ([]models.WorkshopTask, error) {
	args := m.Called(ctx, assetID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WorkshopTask), args.Error(1)
}

func (m *MockTaskCollection) ReplaceTask(ctx context.Context, id string, task models.WorkshopTask) error {
	args := m.Called(ctx, id, task)
	return args.Error(0)
}

// MockCommentCollection is a mock implementation of CommentCollection
type MockCommentCollection struct {
	mock.Mock
}

func (m *MockCommentCollection) InsertComment(ctx context.Context, comment models.WorkshopComment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentCollection) FindCommentsByTaskID(ctx context.Context, taskID primitive.ObjectID) ([]models.WorkshopComment, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WorkshopComment), args.Error(1)
}

// MockSnapshotCollection is a mock implementation of SnapshotCollection
type MockSnapshotCollection struct {
	mock.Mock
}

func (m *MockSnapshotCollection) UpsertVehicleSnapshot(ctx context.Context, snapshot models.VehicleSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockSnapshotCollection) FindVehicleSnapshot(ctx context.Context, registration string) (*models.VehicleSnapshot, error) {
	args := m.Called(ctx, registration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VehicleSnapshot), args.Error(1)
}

func (m *MockSnapshotCollection) UpsertMotHistorySnapshot(ctx context.Context, snapshot models.MotHistorySnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockSnapshotCollection) FindMotHistorySnapshot(ctx context.Context, registration string) (*models.MotHistorySnapshot, error) {
	args := m.Called(ctx, registration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MotHistorySnapshot), args.Error(1)
}
