package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mattduff36/avsworklog-sub000/internal/db"
	"github.com/mattduff36/avsworklog-sub000/internal/maintenance"
	"github.com/mattduff36/avsworklog-sub000/internal/middleware"
	"github.com/mattduff36/avsworklog-sub000/internal/models"
	"github.com/mattduff36/avsworklog-sub000/internal/notify"
)

// MaintenanceHandler handles maintenance record and history requests.
type MaintenanceHandler struct {
	assets      db.AssetCollection
	maintenance db.MaintenanceCollection
	history     db.HistoryCollection
	publisher   *notify.Publisher
}

// NewMaintenanceHandler creates a new maintenance handler.
func NewMaintenanceHandler(assets db.AssetCollection, maintenanceColl db.MaintenanceCollection, history db.HistoryCollection, publisher *notify.Publisher) *MaintenanceHandler {
	return &MaintenanceHandler{
		assets:      assets,
		maintenance: maintenanceColl,
		history:     history,
		publisher:   publisher,
	}
}

// UpdateMaintenanceRequest is the edit submission: the full editable
// record, a mandatory comment, and optionally a new asset nickname.
type UpdateMaintenanceRequest struct {
	Record   models.MaintenanceRecord `json:"record"`
	Comment  string                   `json:"comment"`
	Nickname *string                  `json:"nickname,omitempty"`
}

// UpdateMaintenanceResponse reports the saved record plus any warnings
// from secondary updates that failed after the primary one succeeded.
type UpdateMaintenanceResponse struct {
	Record   models.MaintenanceRecord `json:"record"`
	Changes  int                      `json:"changes"`
	Warnings []string                 `json:"warnings,omitempty"`
}

// Record dispatches GET and PUT on /api/assets/{id}/maintenance.
func (h *MaintenanceHandler) Record(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getRecord(w, r)
	case http.MethodPut:
		h.updateRecord(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *MaintenanceHandler) getRecord(w http.ResponseWriter, r *http.Request) {
	asset, err := h.assets.FindAssetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "Asset not found", http.StatusNotFound)
		return
	}

	record, err := h.maintenance.FindRecordByAssetID(r.Context(), asset.ID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			http.Error(w, "No maintenance record for asset", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("failed to load maintenance record")
		http.Error(w, "Failed to load maintenance record", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// updateRecord runs the comment-mandatory edit flow: validate identity
// and comment before any write, create or update the record, then
// append the ledger rows. The nickname update is secondary: its failure
// is reported as a warning, never rolled into a hard failure.
func (h *MaintenanceHandler) updateRecord(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, sessionExpiredMessage, http.StatusUnauthorized)
		return
	}

	asset, err := h.assets.FindAssetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "Asset not found", http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req UpdateMaintenanceRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := maintenance.ValidateComment(req.Comment); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	existing, created, err := h.loadOrCreateRecord(r, asset, req.Record)
	if err != nil {
		log.WithError(err).Error("failed to save maintenance record")
		http.Error(w, "Failed to save maintenance record", http.StatusInternalServerError)
		return
	}

	changes := maintenance.DiffRecords(*existing, req.Record)
	if req.Nickname != nil && *req.Nickname != asset.Nickname {
		changes = append(changes, maintenance.FieldChange{
			Field:     models.FieldNickname,
			ValueType: models.ValueTypeText,
			OldValue:  asset.Nickname,
			NewValue:  *req.Nickname,
		})
	}

	entries, err := maintenance.BuildHistoryEntries(asset.ID, changes, req.Comment, claims.UserID, claims.Name, now)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Primary mutation. A brand-new record was already inserted by
	// loadOrCreateRecord; an existing one is updated here.
	if !created {
		if err := h.maintenance.UpdateRecord(r.Context(), asset.ID, req.Record); err != nil {
			log.WithError(err).Error("failed to save maintenance record")
			http.Error(w, "Failed to save maintenance record", http.StatusInternalServerError)
			return
		}
	}

	// Ledger rows are a dependent write: they are only attempted once
	// the record mutation succeeded.
	if err := h.history.InsertEntries(r.Context(), entries); err != nil {
		log.WithError(err).Error("failed to write maintenance history")
		http.Error(w, "Record saved but history write failed", http.StatusInternalServerError)
		return
	}

	var warnings []string
	if req.Nickname != nil && *req.Nickname != asset.Nickname {
		if err := h.assets.UpdateNickname(r.Context(), asset.ID.Hex(), *req.Nickname); err != nil {
			log.WithError(err).Warn("nickname update failed after record save")
			warnings = append(warnings, "Record saved, but the nickname update failed")
		}
	}

	h.publisher.PublishMaintenanceEdit(asset.ID.Hex(), entries)

	saved, err := h.maintenance.FindRecordByAssetID(r.Context(), asset.ID)
	if err != nil {
		saved = &req.Record
	}
	writeJSON(w, http.StatusOK, UpdateMaintenanceResponse{
		Record:   *saved,
		Changes:  len(changes),
		Warnings: warnings,
	})
}

// loadOrCreateRecord returns the stored record, creating it on first
// edit. A duplicate-key conflict on create (two operators racing the
// first edit) falls back to looking the record up rather than surfacing
// a raw database error.
func (h *MaintenanceHandler) loadOrCreateRecord(r *http.Request, asset *models.Asset, submitted models.MaintenanceRecord) (*models.MaintenanceRecord, bool, error) {
	existing, err := h.maintenance.FindRecordByAssetID(r.Context(), asset.ID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, db.ErrRecordNotFound) {
		return nil, false, err
	}

	submitted.AssetID = asset.ID
	err = h.maintenance.InsertRecord(r.Context(), submitted)
	if err == nil {
		// First edit: diff against an empty record so every set field
		// appears on the ledger.
		return &models.MaintenanceRecord{AssetID: asset.ID}, true, nil
	}
	if errors.Is(err, db.ErrDuplicateRecord) {
		existing, lookupErr := h.maintenance.FindRecordByAssetID(r.Context(), asset.ID)
		if lookupErr != nil {
			return nil, false, lookupErr
		}
		return existing, false, nil
	}
	return nil, false, err
}

// History handles GET /api/assets/{id}/maintenance/history. Comment-only
// (no_changes) rows are filtered by default; include_no_changes=true
// keeps them, so both "total updates" interpretations stay available.
func (h *MaintenanceHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	asset, err := h.assets.FindAssetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "Asset not found", http.StatusNotFound)
		return
	}

	includeNoChanges := r.URL.Query().Get("include_no_changes") == "true"
	entries, err := h.history.FindEntriesByAssetID(r.Context(), asset.ID, includeNoChanges)
	if err != nil {
		log.WithError(err).Error("failed to load maintenance history")
		http.Error(w, "Failed to load maintenance history", http.StatusInternalServerError)
		return
	}

	total, err := h.history.CountEntriesByAssetID(r.Context(), asset.ID, includeNoChanges)
	if err != nil {
		total = int64(len(entries))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"total":   total,
	})
}
