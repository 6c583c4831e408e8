// Package notify delivers attribution messages to the configured outbound
// webhook as a `{"text": ...}` JSON POST.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrDelivery is returned when the webhook endpoint answers outside the 2xx
// range.
var ErrDelivery = errors.New("notify: delivery failed")

type message struct {
	Text string `json:"text"`
}

// Client posts notification messages to a single webhook URL.
type Client struct {
	webhookURL string
	httpClient *http.Client
}

// NewClient returns a client for the webhook URL. A nil httpClient falls
// back to http.DefaultClient.
func NewClient(webhookURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{webhookURL: webhookURL, httpClient: httpClient}
}

// Send posts the message text. Any 2xx response is success; everything else
// wraps ErrDelivery with the status code.
func (c *Client) Send(ctx context.Context, text string) error {
	if c == nil || c.webhookURL == "" {
		return fmt.Errorf("notify: webhook URL not configured")
	}

	body, err := json.Marshal(message{Text: text})
	if err != nil {
		return fmt.Errorf("notify: encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: unexpected status %d", ErrDelivery, resp.StatusCode)
	}
	return nil
}
