// Package clients keeps the studio's client book.
package clients

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNameRequired is returned when a client record has no name.
	ErrNameRequired = errors.New("client name is required")

	// ErrNotFound is returned when the client id is unknown.
	ErrNotFound = errors.New("client not found")
)

// Client is one entry of the client book.
type Client struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ContactNumber string    `json:"contactNumber"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Store is the in-memory client collection.
type Store struct {
	mu   sync.RWMutex
	byID map[string]Client
}

// NewStore creates an empty client store.
func NewStore() *Store {
	return &Store{byID: make(map[string]Client)}
}

// Replace swaps the whole collection for the given records.
func (s *Store) Replace(records []Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]Client, len(records))
	for _, c := range records {
		if c.ID == "" {
			continue
		}
		s.byID[c.ID] = c
	}
}

// Create assigns an id and stores the record.
func (s *Store) Create(c Client) (Client, error) {
	if strings.TrimSpace(c.Name) == "" {
		return Client{}, ErrNameRequired
	}
	c.ID = uuid.New().String()
	c.CreatedAt = time.Now().UTC()
	s.mu.Lock()
	s.byID[c.ID] = c
	s.mu.Unlock()
	return c, nil
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

// Search returns clients whose name or contact number contains the query,
// sorted by name. An empty query returns everyone.
func (s *Store) Search(query string) []Client {
	q := strings.ToLower(strings.TrimSpace(query))
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Client, 0, len(s.byID))
	for _, c := range s.byID {
		if q == "" ||
			strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(c.ContactNumber, q) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
