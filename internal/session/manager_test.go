package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/agendaluz/studio-agenda/internal/kvstore"
	"github.com/agendaluz/studio-agenda/internal/schedule"
)

type stubRemote struct {
	mu       sync.Mutex
	snapshot *kvstore.Snapshot
	fetchErr error
	writeErr error

	puts    []string // "collection/id"
	deletes []string
	patches []map[string]string
}

func (r *stubRemote) FetchSnapshot(context.Context) (*kvstore.Snapshot, error) {
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	return r.snapshot, nil
}

func (r *stubRemote) PutRecord(_ context.Context, collection, id string, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.puts = append(r.puts, collection+"/"+id)
	return r.writeErr
}

func (r *stubRemote) DeleteRecord(_ context.Context, collection, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes = append(r.deletes, collection+"/"+id)
	return r.writeErr
}

func (r *stubRemote) PatchSettings(_ context.Context, values map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patches = append(r.patches, values)
	return r.writeErr
}

type stubCache struct {
	snapshot *kvstore.Snapshot
	getErr   error
	sets     int
}

func (c *stubCache) Get(context.Context) (*kvstore.Snapshot, error) {
	return c.snapshot, c.getErr
}

func (c *stubCache) Set(context.Context, *kvstore.Snapshot) error {
	c.sets++
	return nil
}

func storeSnapshot() *kvstore.Snapshot {
	return &kvstore.Snapshot{
		Appointments: []schedule.Appointment{
			{ID: "a1", Date: "2026-09-10", ClientName: "Carla", StaffName: "Ana", PrimaryTime: "09:30"},
		},
		Settings: map[string]string{
			"studioName":    "Studio Luz",
			"annualTarget":  "90000",
			"closedWeekday": "1",
		},
	}
}

func TestLoad_FromStorePopulatesStateAndCache(t *testing.T) {
	remote := &stubRemote{snapshot: storeSnapshot()}
	cache := &stubCache{}
	m := NewManager(remote, cache, nil, nil)

	m.Load(context.Background())

	if got := m.Appointments().All(); len(got) != 1 || got[0].ID != "a1" {
		t.Errorf("expected snapshot appointments, got %+v", got)
	}
	if m.Settings().StudioName != "Studio Luz" {
		t.Errorf("expected decoded settings, got %+v", m.Settings())
	}
	if m.AnnualTarget() != 90000 {
		t.Errorf("expected annual target from snapshot, got %v", m.AnnualTarget())
	}
	if m.ClosedWeekday() != time.Monday {
		t.Errorf("expected Monday closed, got %v", m.ClosedWeekday())
	}
	if cache.sets != 1 {
		t.Errorf("expected snapshot to be cached once, got %d", cache.sets)
	}
}

func TestLoad_FallsBackToCache(t *testing.T) {
	remote := &stubRemote{fetchErr: errors.New("store down")}
	cache := &stubCache{snapshot: storeSnapshot()}
	m := NewManager(remote, cache, nil, nil)

	m.Load(context.Background())

	if got := m.Appointments().All(); len(got) != 1 {
		t.Errorf("expected cached appointments, got %+v", got)
	}
}

func TestLoad_FallsBackToDefaults(t *testing.T) {
	remote := &stubRemote{fetchErr: errors.New("store down")}
	m := NewManager(remote, nil, nil, nil)

	m.Load(context.Background())

	if got := m.Appointments().All(); len(got) != 0 {
		t.Errorf("expected empty collections, got %+v", got)
	}
	cfg := m.Settings()
	if cfg.MasterHandle != "master" || len(cfg.StandardSlots) == 0 {
		t.Errorf("expected default settings, got %+v", cfg)
	}
}

func TestSaveAppointment_SuccessfulWriteStaysSynced(t *testing.T) {
	remote := &stubRemote{}
	m := NewManager(remote, nil, nil, nil)

	m.SaveAppointment(context.Background(), schedule.Appointment{ID: "a1"})
	m.Flush()

	if len(remote.puts) != 1 || remote.puts[0] != "appointments/a1" {
		t.Errorf("expected one put, got %v", remote.puts)
	}
	if got := m.Unsynced(); len(got) != 0 {
		t.Errorf("expected no unsynced records, got %v", got)
	}
}

func TestSaveAppointment_FailedWriteFlagsUnsynced(t *testing.T) {
	remote := &stubRemote{writeErr: errors.New("store down")}
	m := NewManager(remote, nil, nil, nil)

	m.SaveAppointment(context.Background(), schedule.Appointment{ID: "a1"})
	m.Flush()

	got := m.Unsynced()
	if len(got) != 1 || got[0].ID != "a1" || got[0].Collection != "appointments" {
		t.Fatalf("expected a1 flagged unsynced, got %v", got)
	}
}

func TestSaveAppointment_RetrySucceedsAndClearsFlag(t *testing.T) {
	remote := &stubRemote{writeErr: errors.New("store down")}
	m := NewManager(remote, nil, nil, nil)

	m.SaveAppointment(context.Background(), schedule.Appointment{ID: "a1"})
	m.Flush()
	if len(m.Unsynced()) != 1 {
		t.Fatal("expected record flagged after failure")
	}

	remote.mu.Lock()
	remote.writeErr = nil
	remote.mu.Unlock()

	m.SaveAppointment(context.Background(), schedule.Appointment{ID: "a1"})
	m.Flush()

	if got := m.Unsynced(); len(got) != 0 {
		t.Errorf("expected flag cleared after successful retry, got %v", got)
	}
}

func TestUpdateSettings_PatchesEncodedSettings(t *testing.T) {
	remote := &stubRemote{snapshot: storeSnapshot()}
	m := NewManager(remote, nil, nil, nil)
	m.Load(context.Background())

	cfg := m.Settings()
	cfg.StudioName = "Studio Sol"
	cfg.AnnualTarget = 120000
	updated := m.UpdateSettings(context.Background(), cfg)
	m.Flush()

	if updated.StudioName != "Studio Sol" {
		t.Errorf("expected updated name, got %q", updated.StudioName)
	}
	if len(remote.patches) != 1 {
		t.Fatalf("expected one settings patch, got %d", len(remote.patches))
	}
	if remote.patches[0]["studioName"] != "Studio Sol" {
		t.Errorf("expected encoded patch, got %v", remote.patches[0])
	}
	if remote.patches[0]["annualTarget"] != "120000" {
		t.Errorf("expected encoded annual target, got %v", remote.patches[0])
	}
}

func TestSettings_MergesLiveCatalogAndBlocks(t *testing.T) {
	remote := &stubRemote{snapshot: storeSnapshot()}
	m := NewManager(remote, nil, nil, nil)
	m.Load(context.Background())

	m.Catalog().Add(schedule.CatalogStandard, "21:00")
	m.Blocks().BlockDay("2026-09-12", "holiday")

	cfg := m.Settings()
	if !schedule.SlotList(cfg.StandardSlots).Contains("21:00") {
		t.Errorf("expected live catalog in settings, got %v", cfg.StandardSlots)
	}
	if cfg.DayBlocks["2026-09-12"] != "holiday" {
		t.Errorf("expected live blocks in settings, got %v", cfg.DayBlocks)
	}
}

func TestSaveBlocks_PersistsViaSettingsPatch(t *testing.T) {
	remote := &stubRemote{}
	m := NewManager(remote, nil, nil, nil)

	m.Blocks().BlockDay("2026-09-12", "holiday")
	m.SaveBlocks(context.Background())
	m.Flush()

	if len(remote.patches) != 1 {
		t.Fatalf("expected one settings patch, got %d", len(remote.patches))
	}
	if remote.patches[0]["dayBlocks"] == "{}" {
		t.Errorf("expected day blocks in patch, got %v", remote.patches[0]["dayBlocks"])
	}
}
