// Package scryfall is a minimal Scryfall API client for acquiring bulk
// card data. It only speaks the endpoints the import job needs: the bulk
// data listing and the bulk file download.
package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.scryfall.com"
	rateLimitDelay = 100 * time.Millisecond // 10 req/sec per Scryfall guidelines
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second
)

// Client is a rate-limited Scryfall API client.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string

	// downloadClient has no timeout; bulk files run to hundreds of MB
	// and cancellation comes from the request context instead.
	downloadClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// NewClient creates a new Scryfall client with default rate limiting.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:        defaultBaseURL,
		httpClient:     &http.Client{Timeout: requestTimeout},
		rateLimiter:    rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		userAgent:      "deckport/1.0",
		downloadClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetBulkData retrieves the list of available bulk data downloads.
func (c *Client) GetBulkData(ctx context.Context) (*BulkDataList, error) {
	url := fmt.Sprintf("%s/bulk-data", c.baseURL)

	var bulkData BulkDataList
	if err := c.doRequest(ctx, url, &bulkData); err != nil {
		return nil, fmt.Errorf("failed to get bulk data: %w", err)
	}

	return &bulkData, nil
}

// DefaultCards finds the "default_cards" entry in a bulk data listing.
func (c *Client) DefaultCards(ctx context.Context) (*BulkData, error) {
	list, err := c.GetBulkData(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list.Data {
		if list.Data[i].Type == "default_cards" {
			return &list.Data[i], nil
		}
	}
	return nil, fmt.Errorf("default_cards bulk data not found")
}

// DownloadBulkFile streams a bulk data file to destPath. The download is
// not rate limited beyond the initial token: bulk files are served from a
// CDN, not the API.
func (c *Client) DownloadBulkFile(ctx context.Context, bulk *BulkData, destPath string) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, bulk.DownloadURI, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return fmt.Errorf("bulk download failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bulk download failed with status %d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create bulk file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(destPath)
		return fmt.Errorf("failed to write bulk file: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close bulk file: %w", err)
	}

	return nil
}

// doRequest performs a GET with rate limiting and retry on transient errors.
func (c *Client) doRequest(ctx context.Context, url string, result any) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			if attempt < maxRetries {
				time.Sleep(backoff)
				backoff = min(backoff*2, maxBackoff)
				continue
			}
			return lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			if readErr != nil {
				return fmt.Errorf("failed to read response body: %w", readErr)
			}
			if err := json.Unmarshal(body, result); err != nil {
				return fmt.Errorf("failed to parse JSON response: %w", err)
			}
			return nil

		case http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limited (HTTP 429)")
			if attempt < maxRetries {
				time.Sleep(backoff)
				backoff = min(backoff*2, maxBackoff)
				continue
			}
			return lastErr

		case http.StatusNotFound:
			return &NotFoundError{URL: url}

		default:
			var apiErr APIError
			if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
				return &apiErr
			}
			return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
