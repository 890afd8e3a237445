package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mattduff36/avsworklog-sub000/internal/db"
	"github.com/mattduff36/avsworklog-sub000/internal/models"
	"github.com/mattduff36/avsworklog-sub000/internal/status"
)

func TestAssetHandler_List(t *testing.T) {
	t.Run("retired assets hidden by default", func(t *testing.T) {
		mockAssets := new(MockAssetCollection)
		handler := NewAssetHandler(mockAssets, nil, nil)

		mockAssets.On("FindAssets", mock.Anything, false).Return([]models.Asset{
			{Class: models.AssetClassVehicle, FleetNumber: "V-1"},
		}, nil)

		req := authenticatedRequest("GET", "/api/assets", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockAssets.AssertExpectations(t)
	})

	t.Run("include_retired lists everything", func(t *testing.T) {
		mockAssets := new(MockAssetCollection)
		handler := NewAssetHandler(mockAssets, nil, nil)

		mockAssets.On("FindAssets", mock.Anything, true).Return([]models.Asset{}, nil)

		req := authenticatedRequest("GET", "/api/assets?include_retired=true", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockAssets.AssertExpectations(t)
	})
}

func TestAssetHandler_Create(t *testing.T) {
	t.Run("vehicle without registration rejected", func(t *testing.T) {
		handler := NewAssetHandler(new(MockAssetCollection), nil, nil)

		body, _ := json.Marshal(models.Asset{Class: models.AssetClassVehicle, FleetNumber: "V-2"})
		req := authenticatedRequest("POST", "/api/assets", body)
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("plant without registration is fine", func(t *testing.T) {
		mockAssets := new(MockAssetCollection)
		handler := NewAssetHandler(mockAssets, nil, nil)

		mockAssets.On("InsertAsset", mock.Anything, mock.MatchedBy(func(asset models.Asset) bool {
			return asset.Class == models.AssetClassPlant && !asset.Retired
		})).Return(primitive.NewObjectID(), nil)

		body, _ := json.Marshal(models.Asset{Class: models.AssetClassPlant, FleetNumber: "P-9"})
		req := authenticatedRequest("POST", "/api/assets", body)
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockAssets.AssertExpectations(t)
	})

	t.Run("invalid class rejected", func(t *testing.T) {
		handler := NewAssetHandler(new(MockAssetCollection), nil, nil)

		req := authenticatedRequest("POST", "/api/assets", []byte(`{"class":"trailer","fleet_number":"T-1"}`))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAssetHandler_Status(t *testing.T) {
	assetID := primitive.NewObjectID()

	t.Run("vehicle with overdue mot", func(t *testing.T) {
		mockAssets := new(MockAssetCollection)
		mockRecords := new(MockMaintenanceCollection)
		handler := NewAssetHandler(mockAssets, mockRecords, nil)

		asset := &models.Asset{ID: assetID, Class: models.AssetClassVehicle, FleetNumber: "V-3"}
		pastDue := time.Now().UTC().AddDate(0, 0, -5)
		record := &models.MaintenanceRecord{AssetID: assetID, MotDueDate: &pastDue}

		mockAssets.On("FindAssetByID", mock.Anything, assetID.Hex()).Return(asset, nil)
		mockRecords.On("FindRecordByAssetID", mock.Anything, assetID).Return(record, nil)

		req := authenticatedRequest("GET", "/api/assets/"+assetID.Hex()+"/status", nil)
		req.SetPathValue("id", assetID.Hex())
		w := httptest.NewRecorder()

		handler.Status(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var summary status.Summary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
		assert.Equal(t, 1, summary.OverdueCount)
		assert.Len(t, summary.Categories, 5)
	})

	t.Run("asset with no record reports everything not set", func(t *testing.T) {
		mockAssets := new(MockAssetCollection)
		mockRecords := new(MockMaintenanceCollection)
		handler := NewAssetHandler(mockAssets, mockRecords, nil)

		asset := &models.Asset{ID: assetID, Class: models.AssetClassPlant, FleetNumber: "P-1"}
		mockAssets.On("FindAssetByID", mock.Anything, assetID.Hex()).Return(asset, nil)
		mockRecords.On("FindRecordByAssetID", mock.Anything, assetID).Return(nil, db.ErrRecordNotFound)

		req := authenticatedRequest("GET", "/api/assets/"+assetID.Hex()+"/status", nil)
		req.SetPathValue("id", assetID.Hex())
		w := httptest.NewRecorder()

		handler.Status(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var summary status.Summary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
		assert.Equal(t, 0, summary.OverdueCount)
		assert.Equal(t, 0, summary.DueSoonCount)
		for _, category := range summary.Categories {
			assert.Equal(t, status.StateNotSet, category.Check.State)
		}
	})
}

func TestAssetHandler_Details(t *testing.T) {
	assetID := primitive.NewObjectID()

	t.Run("merges snapshots under register precedence", func(t *testing.T) {
		mockAssets := new(MockAssetCollection)
		mockRecords := new(MockMaintenanceCollection)
		mockSnapshots := new(MockSnapshotCollection)
		handler := NewAssetHandler(mockAssets, mockRecords, mockSnapshots)

		asset := &models.Asset{ID: assetID, Class: models.AssetClassVehicle, FleetNumber: "V-4", Registration: "AB12 CDE"}
		mockAssets.On("FindAssetByID", mock.Anything, assetID.Hex()).Return(asset, nil)
		mockSnapshots.On("FindVehicleSnapshot", mock.Anything, "AB12 CDE").Return(&models.VehicleSnapshot{
			Registration: "AB12CDE",
			Make:         "Ford",
		}, nil)
		mockSnapshots.On("FindMotHistorySnapshot", mock.Anything, "AB12 CDE").Return(&models.MotHistorySnapshot{
			Make:  "FORD MOTOR CO",
			Model: "Transit",
		}, nil)
		mockRecords.On("FindRecordByAssetID", mock.Anything, assetID).Return(nil, db.ErrRecordNotFound)

		req := authenticatedRequest("GET", "/api/assets/"+assetID.Hex()+"/details", nil)
		req.SetPathValue("id", assetID.Hex())
		w := httptest.NewRecorder()

		handler.Details(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Fields map[string]string `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Ford", resp.Fields["make"])
		assert.Equal(t, "Transit", resp.Fields["model"])
	})
}

func TestAssetHandler_Retire(t *testing.T) {
	assetID := primitive.NewObjectID()

	mockAssets := new(MockAssetCollection)
	handler := NewAssetHandler(mockAssets, nil, nil)

	mockAssets.On("RetireAsset", mock.Anything, assetID.Hex()).Return(nil)

	req := authenticatedRequest("POST", "/api/assets/"+assetID.Hex()+"/retire", nil)
	req.SetPathValue("id", assetID.Hex())
	w := httptest.NewRecorder()

	handler.Retire(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockAssets.AssertExpectations(t)
}
