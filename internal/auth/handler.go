package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/agendaluz/studio-agenda/pkg/logging"
)

// Handler exposes the login endpoint.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates the auth HTTP handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

type loginRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string  `json:"token"`
	Session Session `json:"session"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, session, err := h.service.Login(req.Handle, req.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	case errors.Is(err, ErrAuthDisabled):
		http.Error(w, "auth disabled", http.StatusServiceUnavailable)
		return
	case err != nil:
		h.logger.Error("login failed", "error", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loginResponse{Token: token, Session: session})
}
