// Package router assembles the HTTP surface: public endpoints, the
// session-protected API, and the owner-only configuration routes.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/agendaluz/studio-agenda/internal/auth"
	"github.com/agendaluz/studio-agenda/internal/clients"
	"github.com/agendaluz/studio-agenda/internal/expenses"
	httpmiddleware "github.com/agendaluz/studio-agenda/internal/http/middleware"
	"github.com/agendaluz/studio-agenda/internal/live"
	"github.com/agendaluz/studio-agenda/internal/reporting"
	"github.com/agendaluz/studio-agenda/internal/schedule"
	"github.com/agendaluz/studio-agenda/internal/session"
	"github.com/agendaluz/studio-agenda/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	AuthHandler        *auth.Handler
	AuthService        *auth.Service
	ScheduleHandler    *schedule.Handler
	ExpensesHandler    *expenses.Handler
	ClientsHandler     *clients.Handler
	ReportingHandler   *reporting.Handler
	SessionHandler     *session.Handler
	Hub                *live.Hub
	LoginThrottle      *httpmiddleware.LoginThrottle
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.LoginThrottle != nil {
			public.With(cfg.LoginThrottle.Middleware).Post("/auth/login", cfg.AuthHandler.Login)
		} else {
			public.Post("/auth/login", cfg.AuthHandler.Login)
		}
		if cfg.Hub != nil {
			public.Get("/ws", cfg.Hub.HandleWS)
		}
	})

	// Session-protected API
	r.Route("/api", func(api chi.Router) {
		api.Use(httpmiddleware.RequireSession(cfg.AuthService))

		api.Route("/availability", func(r chi.Router) {
			r.Get("/day", cfg.ScheduleHandler.GetDayAvailability)
			r.Get("/month", cfg.ScheduleHandler.GetMonthAvailability)
		})

		api.Route("/appointments", func(r chi.Router) {
			r.Get("/", cfg.ScheduleHandler.ListAppointments)
			r.Post("/", cfg.ScheduleHandler.CreateAppointment)
			r.Get("/conflict", cfg.ScheduleHandler.CheckConflict)
			r.Put("/{id}", cfg.ScheduleHandler.UpdateAppointment)
			r.Delete("/{id}", cfg.ScheduleHandler.DeleteAppointment)
		})

		api.Route("/blocks", func(r chi.Router) {
			r.Get("/", cfg.ScheduleHandler.ListBlocks)
			r.With(httpmiddleware.RequireMaster).Post("/day", cfg.ScheduleHandler.CreateDayBlock)
			r.With(httpmiddleware.RequireMaster).Delete("/day/{date}", cfg.ScheduleHandler.DeleteDayBlock)
			r.With(httpmiddleware.RequireMaster).Post("/time", cfg.ScheduleHandler.CreateTimeBlock)
			r.With(httpmiddleware.RequireMaster).Delete("/time/{date}/{time}", cfg.ScheduleHandler.DeleteTimeBlock)
		})

		api.With(httpmiddleware.RequireMaster).Put("/slots/{catalog}", cfg.ScheduleHandler.UpdateCatalog)

		api.Route("/expenses", func(r chi.Router) {
			r.Use(httpmiddleware.RequireMaster)
			r.Get("/", cfg.ExpensesHandler.List)
			r.Post("/", cfg.ExpensesHandler.Create)
			r.Delete("/{id}", cfg.ExpensesHandler.Delete)
		})

		api.Route("/clients", func(r chi.Router) {
			r.Get("/", cfg.ClientsHandler.List)
			r.With(httpmiddleware.RequireMaster).Post("/", cfg.ClientsHandler.Create)
			r.With(httpmiddleware.RequireMaster).Delete("/{id}", cfg.ClientsHandler.Delete)
		})

		api.Route("/reports", func(r chi.Router) {
			r.Get("/summary", cfg.ReportingHandler.GetSummary)
			r.With(httpmiddleware.RequireMaster).Get("/expenses", cfg.ReportingHandler.GetExpenseSummary)
		})

		api.Route("/settings", func(r chi.Router) {
			r.Use(httpmiddleware.RequireMaster)
			r.Get("/", cfg.SessionHandler.GetSettings)
			r.Put("/", cfg.SessionHandler.UpdateSettings)
		})

		api.Get("/sync/unsynced", cfg.SessionHandler.GetUnsynced)
	})

	return r
}
