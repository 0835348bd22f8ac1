// Package kvstore talks to the remote JSON document store that persists the
// studio's data. The store is a thin key/value HTTP facade: one endpoint
// returns the whole snapshot, writes are partial patches keyed by entity id.
package kvstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agendaluz/studio-agenda/internal/clients"
	"github.com/agendaluz/studio-agenda/internal/expenses"
	"github.com/agendaluz/studio-agenda/internal/schedule"
	"github.com/agendaluz/studio-agenda/pkg/logging"
)

const defaultTimeout = 20 * time.Second

// ErrNotConfigured is returned when no store base URL is set. The app then
// runs offline on built-in defaults.
var ErrNotConfigured = errors.New("kvstore: no base URL configured")

// Snapshot is the full state the document store returns on read.
type Snapshot struct {
	Appointments []schedule.Appointment `json:"appointments"`
	Expenses     []expenses.Expense     `json:"expenses"`
	Clients      []clients.Client       `json:"clients"`
	Settings     map[string]string      `json:"settings"`
}

// Client is the HTTP client for the document store.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
	logger     *logging.Logger
}

// New creates a document store client. An empty baseURL yields a client whose
// calls fail with ErrNotConfigured.
func New(baseURL, authToken string, timeout time.Duration, logger *logging.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL:    baseURL,
		authToken:  authToken,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchSnapshot reads the whole studio state.
func (c *Client) FetchSnapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	if err := c.do(ctx, http.MethodGet, "/snapshot", nil, &snap); err != nil {
		return nil, err
	}
	if snap.Settings == nil {
		snap.Settings = map[string]string{}
	}
	return &snap, nil
}

// PutRecord upserts one record of a collection, keyed by its id.
func (c *Client) PutRecord(ctx context.Context, collection, id string, record any) error {
	return c.do(ctx, http.MethodPut, "/"+collection+"/"+id, record, nil)
}

// DeleteRecord removes one record of a collection by id.
func (c *Client) DeleteRecord(ctx context.Context, collection, id string) error {
	return c.do(ctx, http.MethodDelete, "/"+collection+"/"+id, nil, nil)
}

// PatchSettings merges the given keys into the flat settings map.
func (c *Client) PatchSettings(ctx context.Context, values map[string]string) error {
	return c.do(ctx, http.MethodPatch, "/settings", values, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("kvstore: marshal %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("kvstore: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("kvstore: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("kvstore: %s %s: status %d: %s", method, path, resp.StatusCode, snippet)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("kvstore: decode %s %s: %w", method, path, err)
		}
	}
	return nil
}
