package expenses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agendaluz/studio-agenda/pkg/logging"
)

// Persister receives fire-and-forget persistence requests for expenses.
type Persister interface {
	SaveExpense(ctx context.Context, e Expense)
	DeleteExpense(ctx context.Context, id string)
}

// Broadcaster pushes collection-changed events to connected UIs.
type Broadcaster interface {
	Broadcast(collection string)
}

// Handler exposes expense CRUD over HTTP (owner only).
type Handler struct {
	store     *Store
	persister Persister
	hub       Broadcaster
	logger    *logging.Logger
}

// NewHandler creates the expenses HTTP handler.
func NewHandler(store *Store, persister Persister, hub Broadcaster, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, persister: persister, hub: hub, logger: logger}
}

// List handles GET /api/expenses.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	records := h.store.All()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"expenses": records, "count": len(records)})
}

// Create handles POST /api/expenses.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var e Expense
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.store.Create(e)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if h.persister != nil {
		h.persister.SaveExpense(r.Context(), created)
	}
	if h.hub != nil {
		h.hub.Broadcast("expenses")
	}
	h.logger.Info("expense recorded", "id", created.ID, "name", created.Name, "value", created.Value)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// Delete handles DELETE /api/expenses/{id}.
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
		h.persister.DeleteExpense(r.Context(), id)
	}
	if h.hub != nil {
		h.hub.Broadcast("expenses")
	}
	w.WriteHeader(http.StatusNoContent)
}
