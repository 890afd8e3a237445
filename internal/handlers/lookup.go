package handlers

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/mattduff36/avsworklog-sub000/internal/db"
	"github.com/mattduff36/avsworklog-sub000/internal/lookup"
	"github.com/mattduff36/avsworklog-sub000/internal/models"
)

// LookupHandler refreshes vehicle register and MOT history snapshots
// from the upstream DVLA and DVSA services.
type LookupHandler struct {
	client    *lookup.Client
	snapshots db.SnapshotCollection
}

// NewLookupHandler creates a new lookup handler.
func NewLookupHandler(client *lookup.Client, snapshots db.SnapshotCollection) *LookupHandler {
	return &LookupHandler{client: client, snapshots: snapshots}
}

// LookupResponse carries whichever snapshots could be obtained. A nil
// snapshot means neither the upstream service nor the stored copy had
// data for the registration.
type LookupResponse struct {
	Register   *models.VehicleSnapshot    `json:"register,omitempty"`
	MotHistory *models.MotHistorySnapshot `json:"mot_history,omitempty"`
	Warnings   []string                   `json:"warnings,omitempty"`
}

// Lookup handles GET /api/lookup/{registration}. Fresh upstream data is
// persisted for later merges; on upstream failure the stored snapshot is
// served with a warning so the dashboard degrades rather than errors.
func (h *LookupHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	registration := r.PathValue("registration")
	if registration == "" {
		http.Error(w, "Registration is required", http.StatusBadRequest)
		return
	}

	var resp LookupResponse

	register, err := h.client.VehicleSnapshot(r.Context(), registration)
	switch {
	case err == nil:
		resp.Register = register
		if err := h.snapshots.UpsertVehicleSnapshot(r.Context(), *register); err != nil {
			log.WithError(err).WithField("registration", registration).Warn("failed to store vehicle snapshot")
		}
	case errors.Is(err, lookup.ErrNotFound):
		// Registration unknown to the register; nothing to store.
	default:
		log.WithError(err).WithField("registration", registration).Warn("vehicle register lookup failed")
		stored, ferr := h.snapshots.FindVehicleSnapshot(r.Context(), registration)
		if ferr == nil && stored != nil {
			resp.Register = stored
			resp.Warnings = append(resp.Warnings, "Vehicle register lookup failed; showing stored data")
		} else {
			resp.Warnings = append(resp.Warnings, "Vehicle register lookup failed")
		}
	}

	mot, err := h.client.MotHistorySnapshot(r.Context(), registration)
	switch {
	case err == nil:
		resp.MotHistory = mot
		if err := h.snapshots.UpsertMotHistorySnapshot(r.Context(), *mot); err != nil {
			log.WithError(err).WithField("registration", registration).Warn("failed to store MOT history snapshot")
		}
	case errors.Is(err, lookup.ErrNotFound):
		// No MOT history for this registration.
	default:
		log.WithError(err).WithField("registration", registration).Warn("MOT history lookup failed")
		stored, ferr := h.snapshots.FindMotHistorySnapshot(r.Context(), registration)
		if ferr == nil && stored != nil {
			resp.MotHistory = stored
			resp.Warnings = append(resp.Warnings, "MOT history lookup failed; showing stored data")
		} else {
			resp.Warnings = append(resp.Warnings, "MOT history lookup failed")
		}
	}

	if resp.Register == nil && resp.MotHistory == nil && len(resp.Warnings) == 0 {
		http.Error(w, "Registration not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
