package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agendaluz/studio-agenda/pkg/logging"
)

// Persister receives fire-and-forget persistence requests for client records.
type Persister interface {
	SaveClient(ctx context.Context, c Client)
	DeleteClient(ctx context.Context, id string)
}

// Handler exposes the client book over HTTP.
type Handler struct {
	store     *Store
	persister Persister
	logger    *logging.Logger
}

// NewHandler creates the clients HTTP handler.
func NewHandler(store *Store, persister Persister, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, persister: persister, logger: logger}
}

// List handles GET /api/clients?q=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	records := h.store.Search(r.URL.Query().Get("q"))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"clients": records, "count": len(records)})
}

// Create handles POST /api/clients.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var c Client
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.store.Create(c)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if h.persister != nil {
		h.persister.SaveClient(r.Context(), created)
	}
	h.logger.Info("client added", "id", created.ID, "name", created.Name)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// Delete handles DELETE /api/clients/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "delete failed", http.StatusInternalServerError)
		return
	}
	if h.persister != nil {
		h.persister.DeleteClient(r.Context(), id)
	}
	w.WriteHeader(http.StatusNoContent)
}
