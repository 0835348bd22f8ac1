package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agendaluz/studio-agenda/internal/auth"
	"github.com/agendaluz/studio-agenda/internal/clients"
	"github.com/agendaluz/studio-agenda/internal/expenses"
	"github.com/agendaluz/studio-agenda/internal/kvstore"
	"github.com/agendaluz/studio-agenda/internal/reporting"
	"github.com/agendaluz/studio-agenda/internal/schedule"
	"github.com/agendaluz/studio-agenda/internal/session"
)

// newTestServer wires the whole stack with an unconfigured document store, so
// the app runs on built-in defaults (master/master credentials).
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := kvstore.New("", "", time.Second, nil)
	manager := session.NewManager(store, nil, nil, nil)
	manager.Load(context.Background())

	authService := auth.NewService(manager, "test-secret", time.Hour, nil)
	scheduleService := schedule.NewService(
		manager.Appointments(),
		manager.Blocks(),
		manager.Catalog(),
		manager,
		nil,
		nil,
		nil,
	)

	r := New(&Config{
		AuthHandler:      auth.NewHandler(authService, nil),
		AuthService:      authService,
		ScheduleHandler:  schedule.NewHandler(scheduleService, manager, nil),
		ExpensesHandler:  expenses.NewHandler(manager.Expenses(), manager, nil, nil),
		ClientsHandler:   clients.NewHandler(manager.Clients(), manager, nil),
		ReportingHandler: reporting.NewHandler(manager.Appointments(), manager.Expenses(), manager, nil),
		SessionHandler:   session.NewHandler(manager, nil),
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func login(t *testing.T, srv *httptest.Server, handle, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"handle": handle, "password": password})
	resp, err := http.Post(srv.URL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed with status %d", resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	return out.Token
}

func doAuthed(t *testing.T, srv *httptest.Server, token, method, path string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestRouter_HealthIsPublic(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func TestRouter_APIRequiresSession(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/appointments")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestRouter_BookingFlowEndToEnd(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "master", "master")

	date := time.Now().UTC().AddDate(0, 0, 7).Format(schedule.DateLayout)
	appt, _ := json.Marshal(schedule.Appointment{
		Date:          date,
		ClientName:    "Carla",
		StaffName:     "Ana",
		PrimaryTime:   "09:30",
		TotalValue:    120,
		PaymentMethod: schedule.PaymentPix,
	})

	resp := doAuthed(t, srv, token, http.MethodPost, "/api/appointments", appt)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}

	dup := doAuthed(t, srv, token, http.MethodPost, "/api/appointments", appt)
	defer dup.Body.Close()
	if dup.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, dup.StatusCode)
	}

	day := doAuthed(t, srv, token, http.MethodGet, "/api/availability/day?date="+date, nil)
	defer day.Body.Close()
	var availability schedule.DayAvailability
	if err := json.NewDecoder(day.Body).Decode(&availability); err != nil {
		t.Fatalf("failed to decode availability: %v", err)
	}
	if !schedule.SlotList(availability.Occupied.Standard).Contains("09:30") {
		t.Errorf("expected booked slot occupied, got %+v", availability.Occupied)
	}
}

func TestRouter_OwnerOnlyRoutesRejectPartners(t *testing.T) {
	srv := newTestServer(t)
	ownerToken := login(t, srv, "master", "master")

	// Register a partner through the settings endpoint, then log in as them.
	settingsResp := doAuthed(t, srv, ownerToken, http.MethodGet, "/api/settings", nil)
	var cfg map[string]any
	if err := json.NewDecoder(settingsResp.Body).Decode(&cfg); err != nil {
		t.Fatalf("failed to decode settings: %v", err)
	}
	settingsResp.Body.Close()

	cfg["partners"] = []map[string]any{{"name": "Ana", "password": "pw", "commissionPercent": 60}}
	body, _ := json.Marshal(cfg)
	update := doAuthed(t, srv, ownerToken, http.MethodPut, "/api/settings", body)
	update.Body.Close()
	if update.StatusCode != http.StatusOK {
		t.Fatalf("settings update failed with status %d", update.StatusCode)
	}

	partnerToken := login(t, srv, "ana", "pw")

	blocked := doAuthed(t, srv, partnerToken, http.MethodPost, "/api/blocks/day",
		[]byte(`{"date":"2026-12-24","reason":"holiday"}`))
	blocked.Body.Close()
	if blocked.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, blocked.StatusCode)
	}

	settings := doAuthed(t, srv, partnerToken, http.MethodGet, "/api/settings", nil)
	settings.Body.Close()
	if settings.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, settings.StatusCode)
	}

	expensesResp := doAuthed(t, srv, partnerToken, http.MethodGet, "/api/expenses", nil)
	expensesResp.Body.Close()
	if expensesResp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, expensesResp.StatusCode)
	}
}

func TestRouter_UnsyncedReportsFailedWrites(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv, "master", "master")

	// The document store is unconfigured, so the optimistic write fails and
	// the record must show up as unsynced.
	appt, _ := json.Marshal(schedule.Appointment{
		Date:          time.Now().UTC().AddDate(0, 0, 7).Format(schedule.DateLayout),
		ClientName:    "Carla",
		StaffName:     "Ana",
		PrimaryTime:   "13:00",
		TotalValue:    120,
		PaymentMethod: schedule.PaymentPix,
	})
	created := doAuthed(t, srv, token, http.MethodPost, "/api/appointments", appt)
	created.Body.Close()
	if created.StatusCode != http.StatusCreated {
		t.Fatalf("booking must succeed locally, got %d", created.StatusCode)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		resp := doAuthed(t, srv, token, http.MethodGet, "/api/sync/unsynced", nil)
		var out struct {
			Records []session.UnsyncedRecord `json:"records"`
		}
		err := json.NewDecoder(resp.Body).Decode(&out)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(out.Records) > 0 {
			if out.Records[0].Collection != "appointments" {
				t.Errorf("expected appointments collection, got %+v", out.Records)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("expected an unsynced record after failed persist")
		}
		time.Sleep(20 * time.Millisecond)
	}
}
