package session

import (
	"encoding/json"
	"net/http"

	"github.com/agendaluz/studio-agenda/internal/settings"
	"github.com/agendaluz/studio-agenda/pkg/logging"
)

// Handler exposes the settings screen and the sync status endpoint.
type Handler struct {
	manager *Manager
	logger  *logging.Logger
}

// NewHandler creates the session HTTP handler.
func NewHandler(manager *Manager, logger *logging.Logger) *Handler {
	if manager == nil {
		panic("session: manager required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{manager: manager, logger: logger}
}

// GetSettings handles GET /api/settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.manager.Settings())
}

// UpdateSettings handles PUT /api/settings. Slot catalogs and blocks in the
// payload are ignored; they are managed through their own endpoints.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var cfg settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	updated := h.manager.UpdateSettings(r.Context(), cfg)
	h.logger.Info("settings updated", "partners", len(updated.Partners))
	writeJSON(w, updated)
}

// GetUnsynced handles GET /api/sync/unsynced: the records whose last write to
// the document store failed.
func (h *Handler) GetUnsynced(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, struct {
		Records []UnsyncedRecord `json:"records"`
	}{Records: h.manager.Unsynced()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
