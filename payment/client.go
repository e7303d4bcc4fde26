// Package payment is a thin HTTP client for the hosted-checkout API of
// the external payment processor. An order is correlated to a session
// by storing the session id on the order and embedding the order id in
// the session metadata.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	SessionPaid   = "paid"
	SessionUnpaid = "unpaid"

	defaultTimeout = 15 * time.Second
)

type LineItem struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`
	// UnitAmount is in minor currency units (pence).
	UnitAmount int64 `json:"unit_amount"`
	Quantity   int   `json:"quantity"`
}

type SessionParams struct {
	LineItems  []LineItem        `json:"line_items"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type Session struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
}

// Paid reports whether the session has been settled.
func (s *Session) Paid() bool {
	return s.PaymentStatus == SessionPaid
}

type Client struct {
	baseURL   string
	secretKey string
	httpc     *http.Client
}

func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpc:     &http.Client{Timeout: defaultTimeout},
	}
}

// CreateSession opens a checkout session and returns its id plus the
// redirect URL the customer is sent to.
func (c *Client) CreateSession(ctx context.Context, params *SessionParams) (*Session, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode session params: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	// Retried creates must not open duplicate sessions.
	req.Header.Set("Idempotency-Key", uuid.NewString())

	return c.do(req)
}

// RetrieveSession fetches the current state of a session by id.
func (c *Client) RetrieveSession(ctx context.Context, id string) (*Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/checkout/sessions/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Session, error) {
	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment processor request: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read processor response: %w", err)
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("payment processor returned %d: %s", res.StatusCode, data)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}
