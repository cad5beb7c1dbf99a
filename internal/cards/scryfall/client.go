// Package scryfall implements the card database client used for candidate
// resolution and generic fallback searches.
package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the production card database endpoint.
	DefaultBaseURL = "https://api.scryfall.com"

	// minRequestInterval is the minimum time between any two requests,
	// enforced process-wide regardless of how many clients exist.
	minRequestInterval = 100 * time.Millisecond

	requestTimeout = 30 * time.Second

	// rateLimitBackoff is the fixed wait before the single retry that a
	// 429 response earns. A second 429 is surfaced to the caller.
	rateLimitBackoff = 2 * time.Second
)

// Process-wide throttling gate. Concurrent generation runs share it, so the
// card database never sees bursts from this process.
var limiter = rate.NewLimiter(rate.Every(minRequestInterval), 1)

// Client is a card database API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// ClientOptions configures the client.
type ClientOptions struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with the given options. Zero-value options
// select production defaults.
func NewClient(options ClientOptions) *Client {
	if options.BaseURL == "" {
		options.BaseURL = DefaultBaseURL
	}
	if options.HTTPClient == nil {
		options.HTTPClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{
		baseURL:    options.BaseURL,
		httpClient: options.HTTPClient,
		userAgent:  "EDH-Companion/1.0",
	}
}

// ResolveByName retrieves a card by its exact name.
// Returns *NotFoundError when the name does not resolve.
func (c *Client) ResolveByName(ctx context.Context, name string) (*Card, error) {
	endpoint := fmt.Sprintf("%s/cards/named?exact=%s", c.baseURL, url.QueryEscape(name))

	var card Card
	if err := c.doRequest(ctx, endpoint, &card); err != nil {
		return nil, fmt.Errorf("resolve card %q: %w", name, err)
	}
	return &card, nil
}

// Search performs a full-text card search and returns the first page,
// sorted by the given order ("edhrec", "name", ...).
func (c *Client) Search(ctx context.Context, query, order string) (*SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	if order != "" {
		params.Set("order", order)
	}
	endpoint := fmt.Sprintf("%s/cards/search?%s", c.baseURL, params.Encode())

	var result SearchResult
	if err := c.doRequest(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("search cards %q: %w", query, err)
	}
	return &result, nil
}

// doRequest performs a rate-limited GET. A 429 gets exactly one retry after
// a fixed backoff; all other failures surface immediately.
func (c *Client) doRequest(ctx context.Context, endpoint string, result interface{}) error {
	retried := false

	for {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("execute request: %w", err)
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			if readErr != nil {
				return fmt.Errorf("read response body: %w", readErr)
			}
			if err := json.Unmarshal(body, result); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}
			return nil

		case http.StatusTooManyRequests:
			if retried {
				return &RateLimitError{URL: endpoint}
			}
			retried = true
			select {
			case <-time.After(rateLimitBackoff):
			case <-ctx.Done():
				return ctx.Err()
			}

		case http.StatusNotFound:
			return &NotFoundError{URL: endpoint}

		default:
			var apiErr APIError
			if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
				return &apiErr
			}
			return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
		}
	}
}
