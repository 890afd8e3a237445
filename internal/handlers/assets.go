package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mattduff36/avsworklog-sub000/internal/db"
	"github.com/mattduff36/avsworklog-sub000/internal/middleware"
	"github.com/mattduff36/avsworklog-sub000/internal/models"
	"github.com/mattduff36/avsworklog-sub000/internal/status"
	"github.com/mattduff36/avsworklog-sub000/internal/vehicledata"
)

// AssetHandler handles asset requests.
type AssetHandler struct {
	assets      db.AssetCollection
	maintenance db.MaintenanceCollection
	snapshots   db.SnapshotCollection
}

// NewAssetHandler creates a new asset handler.
func NewAssetHandler(assets db.AssetCollection, maintenance db.MaintenanceCollection, snapshots db.SnapshotCollection) *AssetHandler {
	return &AssetHandler{
		assets:      assets,
		maintenance: maintenance,
		snapshots:   snapshots,
	}
}

// List handles GET /api/assets. Retired assets are hidden unless
// include_retired=true.
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	includeRetired := r.URL.Query().Get("include_retired") == "true"
	assets, err := h.assets.FindAssets(r.Context(), includeRetired)
	if err != nil {
		log.WithError(err).Error("failed to list assets")
		http.Error(w, "Failed to list assets", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, assets)
}

// Create handles POST /api/assets.
func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if _, ok := middleware.GetUserFromContext(r.Context()); !ok {
		http.Error(w, sessionExpiredMessage, http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var asset models.Asset
	if err := json.Unmarshal(body, &asset); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if !models.IsValidAssetClass(asset.Class) {
		http.Error(w, "Invalid asset class", http.StatusBadRequest)
		return
	}
	if asset.FleetNumber == "" {
		http.Error(w, "Fleet number is required", http.StatusBadRequest)
		return
	}
	if asset.Class == models.AssetClassVehicle && asset.Registration == "" {
		http.Error(w, "Registration is required for vehicles", http.StatusBadRequest)
		return
	}

	asset.Retired = false
	asset.RetiredAt = nil
	id, err := h.assets.InsertAsset(r.Context(), asset)
	if err != nil {
		log.WithError(err).Error("failed to create asset")
		http.Error(w, "Failed to create asset", http.StatusInternalServerError)
		return
	}

	asset.ID = id
	writeJSON(w, http.StatusCreated, asset)
}

// Get handles GET /api/assets/{id}.
func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	asset, err := h.assets.FindAssetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "Asset not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, asset)
}

// Retire handles POST /api/assets/{id}/retire. Assets are never
// deleted; retirement keeps maintenance history for audit.
func (h *AssetHandler) Retire(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if _, ok := middleware.GetUserFromContext(r.Context()); !ok {
		http.Error(w, sessionExpiredMessage, http.StatusUnauthorized)
		return
	}

	if err := h.assets.RetireAsset(r.Context(), r.PathValue("id")); err != nil {
		http.Error(w, "Asset not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Asset retired"})
}

// Status handles GET /api/assets/{id}/status: the aggregated
// per-category maintenance status plus overdue/due-soon counts.
func (h *AssetHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	asset, err := h.assets.FindAssetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "Asset not found", http.StatusNotFound)
		return
	}

	record, err := h.maintenance.FindRecordByAssetID(r.Context(), asset.ID)
	if err != nil && err != db.ErrRecordNotFound {
		log.WithError(err).Error("failed to load maintenance record")
		http.Error(w, "Failed to load maintenance record", http.StatusInternalServerError)
		return
	}
	// No record yet: every category reports not_set.
	if record == nil {
		record = &models.MaintenanceRecord{}
	}

	summary := status.ForAsset(time.Now().UTC(), asset.Class, *record)
	writeJSON(w, http.StatusOK, summary)
}

// Details handles GET /api/assets/{id}/details: the display record
// merged from the register snapshot, MOT history snapshot and the
// manual maintenance record under fixed precedence.
func (h *AssetHandler) Details(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	asset, err := h.assets.FindAssetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "Asset not found", http.StatusNotFound)
		return
	}

	sources := vehicledata.Sources{}
	if asset.Registration != "" {
		if snapshot, err := h.snapshots.FindVehicleSnapshot(r.Context(), asset.Registration); err == nil {
			sources.Register = snapshot
		}
		if snapshot, err := h.snapshots.FindMotHistorySnapshot(r.Context(), asset.Registration); err == nil {
			sources.MotHistory = snapshot
		}
	}
	if record, err := h.maintenance.FindRecordByAssetID(r.Context(), asset.ID); err == nil {
		sources.Record = record
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"asset":  asset,
		"fields": vehicledata.Merge(sources),
	})
}
