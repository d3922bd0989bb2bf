// Package ingest implements the HTTP transport to the New Relic ingest service.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	HeaderLicenseKey      = "X-License-Key"
	HeaderContentEncoding = "Content-Encoding"

	// maxErrorBody bounds how much of a non-2xx response is kept for logging.
	maxErrorBody = 1 << 10
)

// Client posts gzip-compressed payloads to the ingest endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a new ingest client.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// NewClientWithHTTP creates a client around an existing http.Client.
func NewClientWithHTTP(endpoint string, hc *http.Client) *Client {
	return &Client{endpoint: endpoint, httpClient: hc}
}

// Endpoint returns the URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Send posts one compressed payload. It returns the response status code, or
// an error when no response was received. Non-2xx responses are not errors.
func (c *Client) Send(ctx context.Context, body []byte, licenseKey string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(HeaderLicenseKey, licenseKey)
	req.Header.Set(HeaderContentEncoding, "gzip")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("ingest call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		slog.Debug("Ingest service returned non-2xx",
			"status", resp.StatusCode,
			"body", string(snippet),
		)
	}
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
