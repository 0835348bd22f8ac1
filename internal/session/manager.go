// Package session owns the application state: the materialized stores and
// settings for the single studio, replaced wholesale when a fresh snapshot
// arrives, plus the optimistic persistence pipeline back to the document
// store.
package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/agendaluz/studio-agenda/internal/clients"
	"github.com/agendaluz/studio-agenda/internal/expenses"
	"github.com/agendaluz/studio-agenda/internal/kvstore"
	"github.com/agendaluz/studio-agenda/internal/observability/metrics"
	"github.com/agendaluz/studio-agenda/internal/schedule"
	"github.com/agendaluz/studio-agenda/internal/settings"
	"github.com/agendaluz/studio-agenda/pkg/logging"
)

// RemoteStore is the document store surface the manager needs.
type RemoteStore interface {
	FetchSnapshot(ctx context.Context) (*kvstore.Snapshot, error)
	PutRecord(ctx context.Context, collection, id string, record any) error
	DeleteRecord(ctx context.Context, collection, id string) error
	PatchSettings(ctx context.Context, values map[string]string) error
}

// Cache holds the last good snapshot for offline starts.
type Cache interface {
	Get(ctx context.Context) (*kvstore.Snapshot, error)
	Set(ctx context.Context, snap *kvstore.Snapshot) error
}

// UnsyncedRecord identifies a local mutation whose write to the document
// store failed. The local state is kept; the record is flagged instead of
// rolled back.
type UnsyncedRecord struct {
	ID         string `json:"id"`
	Collection string `json:"collection"`
}

// Manager is the application-state object. All computations in the schedule
// and reporting packages run over the stores it owns.
type Manager struct {
	remote  RemoteStore
	cache   Cache
	metrics *metrics.BookingMetrics
	logger  *logging.Logger

	catalog      *schedule.TimeCatalog
	blocks       *schedule.BlockRegistry
	appointments *schedule.Store
	expenseStore *expenses.Store
	clientStore  *clients.Store

	writeTimeout time.Duration

	mu       sync.RWMutex
	config   settings.Settings
	unsynced map[string]string // record id -> collection

	wg sync.WaitGroup
}

// NewManager builds the state around empty stores and default settings.
// Load materializes the real state.
func NewManager(remote RemoteStore, cache Cache, m *metrics.BookingMetrics, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Default()
	}
	defaults := settings.Defaults()
	return &Manager{
		remote:       remote,
		cache:        cache,
		metrics:      m,
		logger:       logger,
		catalog:      schedule.NewTimeCatalog(defaults.StandardSlots, defaults.FreeSlots),
		blocks:       schedule.NewBlockRegistry(),
		appointments: schedule.NewStore(),
		expenseStore: expenses.NewStore(),
		clientStore:  clients.NewStore(),
		writeTimeout: 20 * time.Second,
		config:       defaults,
		unsynced:     make(map[string]string),
	}
}

// Catalog returns the shared slot catalogs.
func (m *Manager) Catalog() *schedule.TimeCatalog { return m.catalog }

// Blocks returns the shared block registry.
func (m *Manager) Blocks() *schedule.BlockRegistry { return m.blocks }

// Appointments returns the appointment store.
func (m *Manager) Appointments() *schedule.Store { return m.appointments }

// Expenses returns the expense store.
func (m *Manager) Expenses() *expenses.Store { return m.expenseStore }

// Clients returns the client store.
func (m *Manager) Clients() *clients.Store { return m.clientStore }

// Load fetches the snapshot and replaces all local state. When the store is
// unreachable it falls back to the cached snapshot, then to built-in
// defaults, so the app stays usable offline (data collections then start
// empty).
func (m *Manager) Load(ctx context.Context) {
	snap, err := m.remote.FetchSnapshot(ctx)
	if err == nil {
		m.apply(snap)
		m.metrics.ObserveSnapshotLoad("store")
		if m.cache != nil {
			if cacheErr := m.cache.Set(ctx, snap); cacheErr != nil {
				m.logger.Warn("snapshot cache write failed", "error", cacheErr)
			}
		}
		m.logger.Info("snapshot loaded",
			"appointments", len(snap.Appointments),
			"expenses", len(snap.Expenses),
			"clients", len(snap.Clients),
		)
		return
	}
	m.logger.Error("snapshot fetch failed", "error", err)

	if m.cache != nil {
		cached, cacheErr := m.cache.Get(ctx)
		if cacheErr != nil {
			m.logger.Warn("snapshot cache read failed", "error", cacheErr)
		} else if cached != nil {
			m.apply(cached)
			m.metrics.ObserveSnapshotLoad("cache")
			m.logger.Info("snapshot restored from cache")
			return
		}
	}

	m.apply(&kvstore.Snapshot{Settings: map[string]string{}})
	m.metrics.ObserveSnapshotLoad("defaults")
	m.logger.Warn("running on default configuration, data collections are empty")
}

func (m *Manager) apply(snap *kvstore.Snapshot) {
	cfg := settings.Decode(snap.Settings)

	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()

	m.catalog.Replace(cfg.StandardSlots, cfg.FreeSlots)
	m.blocks.Replace(cfg.DayBlocks, cfg.TimeBlocks)
	m.appointments.Replace(snap.Appointments)
	m.expenseStore.Replace(snap.Expenses)
	m.clientStore.Replace(snap.Clients)
}

// Settings assembles the current typed settings, merging the live catalog and
// block structures over the stored configuration fields.
func (m *Manager) Settings() settings.Settings {
	m.mu.RLock()
	cfg := m.config
	m.mu.RUnlock()

	cat := m.catalog.Snapshot()
	cfg.StandardSlots = cat.Standard
	cfg.FreeSlots = cat.Free
	cfg.DayBlocks, cfg.TimeBlocks = m.blocks.Snapshot()
	return cfg
}

// UpdateSettings replaces the configuration fields managed on the settings
// screen. Slot catalogs and blocks have dedicated endpoints and are ignored
// here; their live structures stay authoritative.
func (m *Manager) UpdateSettings(ctx context.Context, cfg settings.Settings) settings.Settings {
	for i := range cfg.Partners {
		cfg.Partners[i] = settings.NormalizePartner(cfg.Partners[i])
	}

	m.mu.Lock()
	m.config.StudioName = cfg.StudioName
	m.config.Procedures = cfg.Procedures
	m.config.Partners = cfg.Partners
	m.config.MasterHandle = cfg.MasterHandle
	m.config.MasterPassword = cfg.MasterPassword
	m.config.AnnualTarget = cfg.AnnualTarget
	m.config.ClosedWeekday = cfg.ClosedWeekday
	m.mu.Unlock()

	m.persistSettings(ctx)
	return m.Settings()
}

// ClosedWeekday returns the studio's weekly non-operating day.
func (m *Manager) ClosedWeekday() time.Weekday {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.ClosedWeekday
}

// AnnualTarget returns the configured annual revenue target.
func (m *Manager) AnnualTarget() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.AnnualTarget
}

// SaveAppointment persists an appointment write, fire-and-forget.
func (m *Manager) SaveAppointment(ctx context.Context, appt schedule.Appointment) {
	m.persist("appointments", appt.ID, func(ctx context.Context) error {
		return m.remote.PutRecord(ctx, "appointments", appt.ID, appt)
	})
}

// DeleteAppointment persists an appointment delete, fire-and-forget.
func (m *Manager) DeleteAppointment(ctx context.Context, id string) {
	m.persist("appointments", id, func(ctx context.Context) error {
		return m.remote.DeleteRecord(ctx, "appointments", id)
	})
}

// SaveExpense persists an expense write, fire-and-forget.
func (m *Manager) SaveExpense(ctx context.Context, e expenses.Expense) {
	m.persist("expenses", e.ID, func(ctx context.Context) error {
		return m.remote.PutRecord(ctx, "expenses", e.ID, e)
	})
}

// DeleteExpense persists an expense delete, fire-and-forget.
func (m *Manager) DeleteExpense(ctx context.Context, id string) {
	m.persist("expenses", id, func(ctx context.Context) error {
		return m.remote.DeleteRecord(ctx, "expenses", id)
	})
}

// SaveClient persists a client write, fire-and-forget.
func (m *Manager) SaveClient(ctx context.Context, c clients.Client) {
	m.persist("clients", c.ID, func(ctx context.Context) error {
		return m.remote.PutRecord(ctx, "clients", c.ID, c)
	})
}

// DeleteClient persists a client delete, fire-and-forget.
func (m *Manager) DeleteClient(ctx context.Context, id string) {
	m.persist("clients", id, func(ctx context.Context) error {
		return m.remote.DeleteRecord(ctx, "clients", id)
	})
}

// SaveBlocks persists the block maps as part of the settings patch.
func (m *Manager) SaveBlocks(ctx context.Context) { m.persistSettings(ctx) }

// SaveCatalog persists the slot catalogs as part of the settings patch.
func (m *Manager) SaveCatalog(ctx context.Context) { m.persistSettings(ctx) }

func (m *Manager) persistSettings(ctx context.Context) {
	encoded := m.Settings().Encode()
	m.persist("settings", "settings", func(ctx context.Context) error {
		return m.remote.PatchSettings(ctx, encoded)
	})
}

// persist runs the write on a detached context so an aborted HTTP request
// does not cancel it. The local optimistic state is never rolled back; a
// failed write flags the record as unsynced instead.
func (m *Manager) persist(collection, id string, op func(ctx context.Context) error) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), m.writeTimeout)
		defer cancel()

		if err := op(ctx); err != nil {
			m.logger.Error("persistence write failed",
				"collection", collection,
				"id", id,
				"error", err,
			)
			m.metrics.ObservePersistFailure(collection)
			m.mu.Lock()
			m.unsynced[id] = collection
			m.mu.Unlock()
			return
		}
		m.mu.Lock()
		delete(m.unsynced, id)
		m.mu.Unlock()
	}()
}

// Unsynced lists the records whose last write failed, oldest ids first.
func (m *Manager) Unsynced() []UnsyncedRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]UnsyncedRecord, 0, len(m.unsynced))
	for id, collection := range m.unsynced {
		out = append(out, UnsyncedRecord{ID: id, Collection: collection})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Flush waits for in-flight persistence writes. Used in tests and shutdown.
func (m *Manager) Flush() {
	m.wg.Wait()
}
