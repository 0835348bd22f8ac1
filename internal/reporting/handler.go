package reporting

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/agendaluz/studio-agenda/internal/auth"
	"github.com/agendaluz/studio-agenda/internal/expenses"
	"github.com/agendaluz/studio-agenda/internal/schedule"
	"github.com/agendaluz/studio-agenda/pkg/logging"
)

// TargetSource supplies the configured annual revenue target.
type TargetSource interface {
	AnnualTarget() float64
}

// Handler exposes the revenue and expense reports over HTTP.
type Handler struct {
	appointments *schedule.Store
	expenses     *expenses.Store
	target       TargetSource
	logger       *logging.Logger
}

// NewHandler creates the reporting HTTP handler.
func NewHandler(appointments *schedule.Store, expenseStore *expenses.Store, target TargetSource, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		appointments: appointments,
		expenses:     expenseStore,
		target:       target,
		logger:       logger,
	}
}

type summaryResponse struct {
	Summary
	WeekdayBuckets        [7]float64 `json:"weekdayBuckets"`
	WeekOfMonthBuckets    [5]float64 `json:"weekOfMonthBuckets"`
	AnnualTotal           float64    `json:"annualTotal"`
	AnnualProgressPercent float64    `json:"annualProgressPercent"`
	CommissionPercent     float64    `json:"commissionPercent"`
}

// GetSummary handles GET /api/reports/summary?year=&month=&day=&week=&staff=.
// Partner sessions are scoped to their own bookings at their configured
// commission; the owner sees everything at 100% unless filtering by staff.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	window, ok := parseWindow(w, r)
	if !ok {
		return
	}

	staff, commission := h.scope(r)
	appts := h.appointments.All()

	resp := summaryResponse{
		Summary:            AppointmentSummary(appts, staff, window, commission),
		WeekdayBuckets:     WeekdayBuckets(appts, staff, window, commission),
		WeekOfMonthBuckets: WeekOfMonthBuckets(appts, staff, window.Year, window.Month, commission),
		CommissionPercent:  commission,
	}
	resp.AnnualTotal = AnnualTotal(appts, staff, window.Year, commission)
	resp.AnnualProgressPercent = AnnualProgressPercent(resp.AnnualTotal, h.target.AnnualTarget())

	writeJSON(w, resp)
}

// GetExpenseSummary handles GET /api/reports/expenses?year=&month=&day=&week=.
func (h *Handler) GetExpenseSummary(w http.ResponseWriter, r *http.Request) {
	window, ok := parseWindow(w, r)
	if !ok {
		return
	}
	writeJSON(w, ExpenseSummary(h.expenses.All(), window))
}

// scope resolves the staff filter and commission for the session. The owner
// may narrow to one staff member via query parameter; reports stay at 100%
// commission in that case because the owner sees gross revenue.
func (h *Handler) scope(r *http.Request) (staff string, commission float64) {
	if session, ok := auth.SessionFromContext(r.Context()); ok && session.Role == auth.RolePartner {
		return session.StaffName, session.CommissionPercent
	}
	return r.URL.Query().Get("staff"), 100
}

func parseWindow(w http.ResponseWriter, r *http.Request) (Window, bool) {
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil || year < 2000 || year > 2200 {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return Window{}, false
	}
	monthNum, err := strconv.Atoi(q.Get("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		http.Error(w, "invalid month", http.StatusBadRequest)
		return Window{}, false
	}

	window := Window{Year: year, Month: time.Month(monthNum)}
	if v := q.Get("day"); v != "" {
		day, err := strconv.Atoi(v)
		if err != nil || day < 0 || day > 31 {
			http.Error(w, "invalid day", http.StatusBadRequest)
			return Window{}, false
		}
		window.Day = day
	}
	if v := q.Get("week"); v != "" {
		week, err := strconv.Atoi(v)
		if err != nil || week < 0 || week > 5 {
			http.Error(w, "invalid week", http.StatusBadRequest)
			return Window{}, false
		}
		window.Week = week
	}
	return window, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
