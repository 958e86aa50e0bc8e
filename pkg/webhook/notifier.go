package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SignatureHeader carries the hex HMAC-SHA256 of the request body when a secret is set
const SignatureHeader = "X-Groupbuy-Signature"

// Event is the payload posted when a session is adjudicated
type Event struct {
	Type                string    `json:"type"`
	SessionID           string    `json:"session_id"`
	ProductID           string    `json:"product_id"`
	GroupID             string    `json:"group_id"`
	WinnerParticipantID string    `json:"winner_participant_id"`
	WinnerTicketNumber  int64     `json:"winner_ticket_number"`
	ResultHash          string    `json:"result_hash"`
	OccurredAt          time.Time `json:"occurred_at"`
}

// Notifier delivers events to an external system
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// HTTPNotifier posts events as JSON to a fixed URL
type HTTPNotifier struct {
	URL        string
	secret     []byte
	httpClient *http.Client
}

// NewHTTPNotifier creates a notifier. An empty secret disables signing.
func NewHTTPNotifier(url, secret string, timeout time.Duration) *HTTPNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPNotifier{
		URL:        url,
		secret:     []byte(secret),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Notify posts the event and treats any non-2xx response as a failure
func (n *HTTPNotifier) Notify(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if len(n.secret) > 0 {
		req.Header.Set(SignatureHeader, Sign(n.secret, body))
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook failed with status %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of body
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// NoopNotifier drops every event
type NoopNotifier struct{}

// Notify does nothing
func (NoopNotifier) Notify(context.Context, Event) error { return nil }
