// Package expenses tracks the studio's outgoing costs. Expenses are
// studio-wide, never staff-attributable, and are created or deleted whole;
// there is no edit-in-place.
package expenses

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agendaluz/studio-agenda/internal/schedule"
)

var (
	// ErrNameRequired is returned when an expense has no name.
	ErrNameRequired = errors.New("expense name is required")

	// ErrNegativeValue is returned when the value is negative.
	ErrNegativeValue = errors.New("expense value must be non-negative")

	// ErrInvalidDate is returned when the date is not a valid day.
	ErrInvalidDate = errors.New("date must be a valid YYYY-MM-DD day")

	// ErrInvalidPaymentMethod is returned for unknown payment methods.
	ErrInvalidPaymentMethod = errors.New("payment method must be Pix, Card or Cash")

	// ErrNotFound is returned when the expense id is unknown.
	ErrNotFound = errors.New("expense not found")
)

// Expense is one cost record.
type Expense struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Value         float64                `json:"value"`
	PaymentMethod schedule.PaymentMethod `json:"paymentMethod"`
	Date          string                 `json:"date"`
	CreatedAt     time.Time              `json:"createdAt"`
}

// Validate checks the record's fields.
func (e *Expense) Validate() error {
	if e.Name == "" {
		return ErrNameRequired
	}
	if e.Value < 0 {
		return ErrNegativeValue
	}
	if _, err := time.Parse(schedule.DateLayout, e.Date); err != nil {
		return ErrInvalidDate
	}
	if !e.PaymentMethod.Valid() {
		return ErrInvalidPaymentMethod
	}
	return nil
}

// Store is the in-memory expense collection.
type Store struct {
	mu   sync.RWMutex
	byID map[string]Expense
}

// NewStore creates an empty expense store.
func NewStore() *Store {
	return &Store{byID: make(map[string]Expense)}
}

// Replace swaps the whole collection for the given records.
func (s *Store) Replace(records []Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]Expense, len(records))
	for _, e := range records {
		if e.ID == "" {
			continue
		}
		s.byID[e.ID] = e
	}
}

// Create assigns an id and stores the record.
func (s *Store) Create(e Expense) (Expense, error) {
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	e.ID = uuid.New().String()
	e.CreatedAt = time.Now().UTC()
	s.mu.Lock()
	s.byID[e.ID] = e
	s.mu.Unlock()
	return e, nil
}

// Delete removes a record by id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

// All returns every expense, newest date first.
func (s *Store) All() []Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Expense, 0, len(s.byID))
	for _, e := range s.byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
