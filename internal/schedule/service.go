package schedule

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/agendaluz/studio-agenda/internal/observability/metrics"
	"github.com/agendaluz/studio-agenda/pkg/logging"
)

var scheduleTracer = otel.Tracer("studio.internal.schedule")

// Persister receives fire-and-forget persistence requests after a local
// mutation has already been applied. Implementations log failures and flag
// the record as unsynced; they never roll the local state back.
type Persister interface {
	SaveAppointment(ctx context.Context, appt Appointment)
	DeleteAppointment(ctx context.Context, id string)
	SaveBlocks(ctx context.Context)
	SaveCatalog(ctx context.Context)
}

// Broadcaster pushes collection-changed events to connected UIs so they can
// recompute availability live.
type Broadcaster interface {
	Broadcast(collection string)
}

// Service gates booking mutations behind validation and conflict detection,
// then applies them to the in-memory state and schedules persistence.
type Service struct {
	store     *Store
	blocks    *BlockRegistry
	catalog   *TimeCatalog
	persister Persister
	hub       Broadcaster
	metrics   *metrics.BookingMetrics
	logger    *logging.Logger
	now       func() time.Time
}

// NewService constructs the booking service.
func NewService(store *Store, blocks *BlockRegistry, catalog *TimeCatalog, persister Persister, hub Broadcaster, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if store == nil || blocks == nil || catalog == nil {
		panic("schedule: store, blocks and catalog required")
	}
	if persister == nil {
		persister = nopPersister{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:     store,
		blocks:    blocks,
		catalog:   catalog,
		persister: persister,
		hub:       hub,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// Book validates and stores a new appointment. Conflicts and blocked days are
// soft failures surfaced to the caller; nothing is persisted on rejection.
func (s *Service) Book(ctx context.Context, appt Appointment) (Appointment, error) {
	ctx, span := scheduleTracer.Start(ctx, "schedule.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("studio.date", appt.Date),
		attribute.String("studio.staff", appt.StaffName),
	)
	start := s.now()

	if err := appt.Validate(); err != nil {
		s.metrics.ObserveBooking("create", "rejected_validation")
		return Appointment{}, err
	}
	if s.isRetroactive(appt.Date) {
		s.metrics.ObserveBooking("create", "rejected_validation")
		return Appointment{}, ErrRetroactiveDate
	}
	if _, blocked := s.blocks.DayBlock(appt.Date); blocked {
		s.metrics.ObserveBooking("create", "rejected_blocked")
		return Appointment{}, ErrDayBlocked
	}
	if s.CheckConflict(candidateOf(appt, "")).Any() {
		s.metrics.ObserveConflict()
		s.metrics.ObserveBooking("create", "rejected_conflict")
		return Appointment{}, ErrSlotConflict
	}

	appt.CreatedAt = s.now().UTC()
	created := s.store.Create(appt)
	s.persister.SaveAppointment(ctx, created)
	s.metrics.ObserveBooking("create", "created")
	s.metrics.ObserveBookingLatency("create", s.now().Sub(start).Seconds())
	s.broadcast("appointments")
	s.logger.Info("appointment booked",
		"id", created.ID,
		"date", created.Date,
		"staff", created.StaffName,
		"time", created.PrimaryTime,
	)
	return created, nil
}

// Reschedule replaces an existing appointment in full, re-validating the slot
// invariant with the record's own id excluded. Date and staff may change.
// Unlike Book, a past date is allowed: edits of historical records are legal.
func (s *Service) Reschedule(ctx context.Context, appt Appointment) (Appointment, error) {
	ctx, span := scheduleTracer.Start(ctx, "schedule.reschedule")
	defer span.End()
	span.SetAttributes(attribute.String("studio.appointment_id", appt.ID))

	if err := appt.Validate(); err != nil {
		s.metrics.ObserveBooking("update", "rejected_validation")
		return Appointment{}, err
	}
	if _, blocked := s.blocks.DayBlock(appt.Date); blocked {
		s.metrics.ObserveBooking("update", "rejected_blocked")
		return Appointment{}, ErrDayBlocked
	}
	if s.CheckConflict(candidateOf(appt, appt.ID)).Any() {
		s.metrics.ObserveConflict()
		s.metrics.ObserveBooking("update", "rejected_conflict")
		return Appointment{}, ErrSlotConflict
	}

	updated, err := s.store.Update(appt)
	if err != nil {
		return Appointment{}, err
	}
	s.persister.SaveAppointment(ctx, updated)
	s.metrics.ObserveBooking("update", "updated")
	s.broadcast("appointments")
	s.logger.Info("appointment rescheduled", "id", updated.ID, "date", updated.Date, "staff", updated.StaffName)
	return updated, nil
}

// Cancel deletes an appointment after explicit confirmation upstream.
func (s *Service) Cancel(ctx context.Context, id string) error {
	ctx, span := scheduleTracer.Start(ctx, "schedule.cancel")
	defer span.End()
	span.SetAttributes(attribute.String("studio.appointment_id", id))

	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.persister.DeleteAppointment(ctx, id)
	s.metrics.ObserveBooking("delete", "deleted")
	s.broadcast("appointments")
	s.logger.Info("appointment cancelled", "id", id)
	return nil
}

// CheckConflict runs the conflict detector over the current snapshot. The UI
// calls this on every relevant field change; Book and Reschedule re-run it
// authoritatively at submission time.
func (s *Service) CheckConflict(cand Candidate) Conflict {
	return DetectConflict(cand, s.store.ByDate(cand.Date, cand.StaffName))
}

// BlockDay closes a whole day to new bookings. Existing appointments stay.
func (s *Service) BlockDay(ctx context.Context, date, reason string) {
	s.blocks.BlockDay(date, reason)
	s.persister.SaveBlocks(ctx)
	s.broadcast("blocks")
	s.logger.Info("day blocked", "date", date)
}

// UnblockDay reopens a day. Time blocks on the date are untouched.
func (s *Service) UnblockDay(ctx context.Context, date string) {
	s.blocks.UnblockDay(date)
	s.persister.SaveBlocks(ctx)
	s.broadcast("blocks")
	s.logger.Info("day unblocked", "date", date)
}

// BlockTimes reserves the given times on a date in one action.
func (s *Service) BlockTimes(ctx context.Context, date string, times []string) {
	for _, t := range times {
		if t != "" {
			s.blocks.BlockTime(date, t)
		}
	}
	s.persister.SaveBlocks(ctx)
	s.broadcast("blocks")
	s.logger.Info("times blocked", "date", date, "count", len(times))
}

// UnblockTime releases one reserved time on a date.
func (s *Service) UnblockTime(ctx context.Context, date, slot string) {
	s.blocks.UnblockTime(date, slot)
	s.persister.SaveBlocks(ctx)
	s.broadcast("blocks")
}

// AddSlot inserts a slot into a catalog and persists the configuration.
func (s *Service) AddSlot(ctx context.Context, kind CatalogKind, slot string) error {
	if err := s.catalog.Add(kind, slot); err != nil {
		return err
	}
	s.persister.SaveCatalog(ctx)
	s.broadcast("catalog")
	return nil
}

// RemoveSlot deletes a slot from a catalog and persists the configuration.
func (s *Service) RemoveSlot(ctx context.Context, kind CatalogKind, slot string) error {
	if err := s.catalog.Remove(kind, slot); err != nil {
		return err
	}
	s.persister.SaveCatalog(ctx)
	s.broadcast("catalog")
	return nil
}

// UpdateSlot replaces a slot in a catalog and persists the configuration.
func (s *Service) UpdateSlot(ctx context.Context, kind CatalogKind, oldSlot, newSlot string) error {
	if err := s.catalog.Update(kind, oldSlot, newSlot); err != nil {
		return err
	}
	s.persister.SaveCatalog(ctx)
	s.broadcast("catalog")
	return nil
}

// List returns appointments for a date, or the whole book when the date is
// empty. The staff filter applies either way.
func (s *Service) List(date, staff string) []Appointment {
	if date != "" {
		return s.store.ByDate(date, staff)
	}
	appts := s.store.All()
	if staff == "" {
		return appts
	}
	out := appts[:0]
	for _, a := range appts {
		if a.StaffName == staff {
			out = append(out, a)
		}
	}
	return out
}

// BlocksSnapshot returns copies of the day and time block maps.
func (s *Service) BlocksSnapshot() (map[string]string, map[string][]string) {
	return s.blocks.Snapshot()
}

// CatalogSnapshot returns a copy of both slot catalogs.
func (s *Service) CatalogSnapshot() Catalog {
	return s.catalog.Snapshot()
}

// Availability computes the slot picture for one date.
func (s *Service) Availability(date, staff string) DayAvailability {
	return ForDay(date, s.catalog.Snapshot(), s.blocks, s.store, staff)
}

// MonthAvailability computes the slot picture for a month view.
func (s *Service) MonthAvailability(year int, month time.Month, staff, query string, closedWeekday time.Weekday) []DayAvailability {
	return ForMonth(year, month, s.catalog.Snapshot(), s.blocks, s.store, staff, query, closedWeekday)
}

func (s *Service) isRetroactive(date string) bool {
	today := s.now().UTC().Format(DateLayout)
	return date < today
}

func (s *Service) broadcast(collection string) {
	if s.hub != nil {
		s.hub.Broadcast(collection)
	}
}

type nopPersister struct{}

func (nopPersister) SaveAppointment(context.Context, Appointment) {}
func (nopPersister) DeleteAppointment(context.Context, string)    {}
func (nopPersister) SaveBlocks(context.Context)                   {}
func (nopPersister) SaveCatalog(context.Context)                  {}

func candidateOf(a Appointment, excludeID string) Candidate {
	return Candidate{
		Date:          a.Date,
		StaffName:     a.StaffName,
		PrimaryTime:   a.PrimaryTime,
		SecondaryTime: a.SecondaryTime,
		ExcludeID:     excludeID,
	}
}
