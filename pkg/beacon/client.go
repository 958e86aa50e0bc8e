package beacon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Round is one published value of a public randomness beacon
type Round struct {
	Round      uint64 `json:"round"`
	Randomness string `json:"randomness"`
	Signature  string `json:"signature,omitempty"`
}

// Source provides public randomness that nobody running the service controls
type Source interface {
	Latest(ctx context.Context) (*Round, error)
}

// Client is a drand HTTP API client
type Client struct {
	BaseURL string
	client  *http.Client
}

// NewClient creates a new drand client
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Latest fetches the most recent beacon round
func (c *Client) Latest(ctx context.Context) (*Round, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/public/latest", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("beacon request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var round Round
	if err := json.Unmarshal(body, &round); err != nil {
		return nil, fmt.Errorf("failed to parse beacon response: %w", err)
	}
	if round.Randomness == "" {
		return nil, errors.New("beacon response has no randomness")
	}
	return &round, nil
}

// StaticSource always returns the same round. Used for tests and offline runs.
type StaticSource struct {
	Value Round
}

// Latest returns the configured round
func (s StaticSource) Latest(context.Context) (*Round, error) {
	r := s.Value
	return &r, nil
}
