package schedule

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Store is the in-memory appointment collection, the source of truth for
// occupancy. The whole collection is replaced when a fresh snapshot arrives
// from the backing store.
type Store struct {
	mu   sync.RWMutex
	byID map[string]Appointment
}

// NewStore creates an empty appointment store.
func NewStore() *Store {
	return &Store{byID: make(map[string]Appointment)}
}

// Replace swaps the whole collection for the given records.
func (s *Store) Replace(appts []Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]Appointment, len(appts))
	for _, a := range appts {
		if a.ID == "" {
			continue
		}
		s.byID[a.ID] = a
	}
}

// Create assigns an id and stores the record. The caller stamps CreatedAt.
func (s *Store) Create(a Appointment) Appointment {
	a.ID = uuid.New().String()
	s.mu.Lock()
	s.byID[a.ID] = a
	s.mu.Unlock()
	return a
}

// Update replaces an existing record in place. CreatedAt is preserved.
func (s *Store) Update(a Appointment) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.byID[a.ID]
	if !ok {
		return Appointment{}, ErrAppointmentNotFound
	}
	a.CreatedAt = prev.CreatedAt
	s.byID[a.ID] = a
	return a, nil
}

// Delete removes a record by id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return ErrAppointmentNotFound
	}
	delete(s.byID, id)
	return nil
}

// Get returns a record by id.
func (s *Store) Get(id string) (Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[id]
	if !ok {
		return Appointment{}, ErrAppointmentNotFound
	}
	return a, nil
}

// ByDate returns the appointments on a calendar day, ordered by primary time.
// An empty staff filter returns every staff member's bookings.
func (s *Store) ByDate(date, staff string) []Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Appointment, 0, 4)
	for _, a := range s.byID {
		if a.Date != date {
			continue
		}
		if staff != "" && a.StaffName != staff {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PrimaryTime < out[j].PrimaryTime })
	return out
}

// All returns every appointment, ordered by date then primary time.
func (s *Store) All() []Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Appointment, 0, len(s.byID))
	for _, a := range s.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].PrimaryTime < out[j].PrimaryTime
	})
	return out
}
