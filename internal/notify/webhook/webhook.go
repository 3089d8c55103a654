// Package webhook posts feedback notifications to an HTTP endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/NomadCrew/feedback-intake/internal/notify"
)

// Request is the JSON body posted to the endpoint.
type Request struct {
	Topic   string `json:"topic"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// response is the optional JSON body returned on failure.
type response struct {
	Error string `json:"error,omitempty"`
}

// Client posts notifications to url.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient creates a new webhook client. apiKey is sent as x-api-key when set.
func NewClient(url, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		url:    url,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Publish posts a Request and treats any 2xx response as delivered.
func (c *Client) Publish(ctx context.Context, topic, subject, message string) error {
	if topic == "" {
		return notify.ErrEmptyTopic
	}

	jsonData, err := json.Marshal(Request{Topic: topic, Subject: subject, Message: message})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var whResp response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&whResp); err == nil && whResp.Error != "" {
		return fmt.Errorf("webhook failed with status %d: %s", resp.StatusCode, whResp.Error)
	}
	return fmt.Errorf("webhook failed with status %d", resp.StatusCode)
}
