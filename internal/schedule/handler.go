package schedule

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agendaluz/studio-agenda/internal/auth"
	"github.com/agendaluz/studio-agenda/pkg/logging"
)

// CalendarConfig supplies the calendar-level configuration the handlers need.
type CalendarConfig interface {
	ClosedWeekday() time.Weekday
}

// Handler exposes the scheduling engine over HTTP.
type Handler struct {
	service *Service
	config  CalendarConfig
	logger  *logging.Logger
}

// NewHandler creates the scheduling HTTP handler.
func NewHandler(service *Service, config CalendarConfig, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, config: config, logger: logger}
}

// GetDayAvailability handles GET /api/availability/day?date=&staff=.
func (h *Handler) GetDayAvailability(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if _, err := time.Parse(DateLayout, date); err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.service.Availability(date, staffScope(r)))
}

// GetMonthAvailability handles GET /api/availability/month?year=&month=&staff=&q=.
func (h *Handler) GetMonthAvailability(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2200 {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return
	}
	monthNum, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		http.Error(w, "invalid month", http.StatusBadRequest)
		return
	}

	days := h.service.MonthAvailability(
		year,
		time.Month(monthNum),
		staffScope(r),
		r.URL.Query().Get("q"),
		h.config.ClosedWeekday(),
	)
	writeJSON(w, http.StatusOK, map[string]any{"days": days, "count": len(days)})
}

// CheckConflict handles GET /api/appointments/conflict. The UI calls this on
// every date/staff/time change to disable submission live.
func (h *Handler) CheckConflict(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cand := Candidate{
		Date:          q.Get("date"),
		StaffName:     q.Get("staff"),
		PrimaryTime:   q.Get("primary"),
		SecondaryTime: q.Get("secondary"),
		ExcludeID:     q.Get("exclude"),
	}
	writeJSON(w, http.StatusOK, h.service.CheckConflict(cand))
}

// ListAppointments handles GET /api/appointments?date=.
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appts := h.service.List(r.URL.Query().Get("date"), staffScope(r))
	writeJSON(w, http.StatusOK, map[string]any{"appointments": appts, "count": len(appts)})
}

// CreateAppointment handles POST /api/appointments.
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var appt Appointment
	if err := json.NewDecoder(r.Body).Decode(&appt); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.service.Book(r.Context(), appt)
	if err != nil {
		h.writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateAppointment handles PUT /api/appointments/{id}.
func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	var appt Appointment
	if err := json.NewDecoder(r.Body).Decode(&appt); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	appt.ID = chi.URLParam(r, "id")

	updated, err := h.service.Reschedule(r.Context(), appt)
	if err != nil {
		h.writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteAppointment handles DELETE /api/appointments/{id}.
func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Cancel(r.Context(), id); err != nil {
		h.writeBookingError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBlocks handles GET /api/blocks.
func (h *Handler) ListBlocks(w http.ResponseWriter, r *http.Request) {
	days, times := h.service.BlocksSnapshot()
	writeJSON(w, http.StatusOK, map[string]any{"days": days, "times": times})
}

type dayBlockRequest struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// CreateDayBlock handles POST /api/blocks/day (owner only).
func (h *Handler) CreateDayBlock(w http.ResponseWriter, r *http.Request) {
	var req dayBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := time.Parse(DateLayout, req.Date); err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	h.service.BlockDay(r.Context(), req.Date, req.Reason)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteDayBlock handles DELETE /api/blocks/day/{date} (owner only).
func (h *Handler) DeleteDayBlock(w http.ResponseWriter, r *http.Request) {
	h.service.UnblockDay(r.Context(), chi.URLParam(r, "date"))
	w.WriteHeader(http.StatusNoContent)
}

type timeBlockRequest struct {
	Date  string   `json:"date"`
	Times []string `json:"times"`
}

// CreateTimeBlock handles POST /api/blocks/time (owner only). One or more
// available slots are reserved in a single action.
func (h *Handler) CreateTimeBlock(w http.ResponseWriter, r *http.Request) {
	var req timeBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := time.Parse(DateLayout, req.Date); err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if len(req.Times) == 0 {
		http.Error(w, "at least one time is required", http.StatusBadRequest)
		return
	}
	h.service.BlockTimes(r.Context(), req.Date, req.Times)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteTimeBlock handles DELETE /api/blocks/time/{date}/{time} (owner only).
func (h *Handler) DeleteTimeBlock(w http.ResponseWriter, r *http.Request) {
	h.service.UnblockTime(r.Context(), chi.URLParam(r, "date"), chi.URLParam(r, "time"))
	w.WriteHeader(http.StatusNoContent)
}

type slotRequest struct {
	Action  string `json:"action"` // add | remove | update
	Slot    string `json:"slot"`
	NewSlot string `json:"newSlot,omitempty"`
}

// UpdateCatalog handles PUT /api/slots/{catalog} (owner only).
func (h *Handler) UpdateCatalog(w http.ResponseWriter, r *http.Request) {
	kind := CatalogKind(chi.URLParam(r, "catalog"))
	if !kind.Valid() {
		http.Error(w, "unknown catalog", http.StatusNotFound)
		return
	}
	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Slot == "" {
		http.Error(w, "slot is required", http.StatusBadRequest)
		return
	}

	var err error
	switch req.Action {
	case "add":
		err = h.service.AddSlot(r.Context(), kind, req.Slot)
	case "remove":
		err = h.service.RemoveSlot(r.Context(), kind, req.Slot)
	case "update":
		if req.NewSlot == "" {
			http.Error(w, "newSlot is required for update", http.StatusBadRequest)
			return
		}
		err = h.service.UpdateSlot(r.Context(), kind, req.Slot, req.NewSlot)
	default:
		http.Error(w, "action must be add, remove or update", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error("catalog update failed", "error", err)
		http.Error(w, "catalog update failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.service.CatalogSnapshot())
}

func (h *Handler) writeBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSlotConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrAppointmentNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrDayBlocked),
		errors.Is(err, ErrRetroactiveDate),
		errors.Is(err, ErrClientNameRequired),
		errors.Is(err, ErrStaffRequired),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrPrimaryTimeRequired),
		errors.Is(err, ErrIncompleteSecondary),
		errors.Is(err, ErrSameTimeTwice),
		errors.Is(err, ErrNegativeValue),
		errors.Is(err, ErrInvalidPaymentMethod):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		h.logger.Error("booking mutation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// staffScope resolves the staff filter: partners are pinned to their own
// bookings, the owner may filter by query parameter.
func staffScope(r *http.Request) string {
	if session, ok := auth.SessionFromContext(r.Context()); ok && session.Role == auth.RolePartner {
		return session.StaffName
	}
	return r.URL.Query().Get("staff")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
