package edhrec

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ramonehamilton/EDH-Companion/internal/deckgen"
)

const (
	// DefaultBaseURL is the production recommendation service endpoint.
	DefaultBaseURL = "https://json.edhrec.com"

	// minRequestInterval is enforced process-wide across all clients.
	minRequestInterval = 500 * time.Millisecond

	requestTimeout = 30 * time.Second

	// rateLimitBackoff is the fixed wait before the single retry a 429
	// earns; a second 429 surfaces as ErrRateLimited.
	rateLimitBackoff = 2 * time.Second
)

// Process-wide throttling gate, shared by every client instance.
var limiter = rate.NewLimiter(rate.Every(minRequestInterval), 1)

var slugCleanRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a commander name into the service's URL slug.
func Slugify(name string) string {
	slug := slugCleanRe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// Client fetches aggregated recommendation data over HTTP.
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

// NewClient creates a recommendation service client.
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

// FetchStats retrieves the aggregated deck statistics for a commander.
func (c *Client) FetchStats(ctx context.Context, commander string, opts deckgen.RecOptions) (*deckgen.CommanderStats, error) {
	if commander == "" {
		return nil, &APIError{Type: ErrInvalidParams, Message: "commander name is required"}
	}

	endpoint := fmt.Sprintf("%s/api/commanders/%s/stats%s",
		c.baseURL, Slugify(commander), encodeRecOptions(opts, ""))

	var response statsResponse
	if err := c.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}
	return response.toDomain(), nil
}

// FetchCardLists retrieves the per-type candidate lists for a commander,
// optionally narrowed to a sub-theme.
func (c *Client) FetchCardLists(ctx context.Context, commander, theme string, opts deckgen.RecOptions) (*deckgen.CardLists, error) {
	if commander == "" {
		return nil, &APIError{Type: ErrInvalidParams, Message: "commander name is required"}
	}

	endpoint := fmt.Sprintf("%s/api/commanders/%s/cards%s",
		c.baseURL, Slugify(commander), encodeRecOptions(opts, theme))

	var response cardListsResponse
	if err := c.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}
	lists := response.toDomain()
	if lists.Theme == "" {
		lists.Theme = theme
	}
	return lists, nil
}

func encodeRecOptions(opts deckgen.RecOptions, theme string) string {
	params := url.Values{}
	if theme != "" {
		params.Set("theme", theme)
	}
	if opts.Bracket > 0 {
		params.Set("bracket", fmt.Sprintf("%d", opts.Bracket))
	}
	if opts.BudgetTier != "" {
		params.Set("budget", opts.BudgetTier)
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

// doRequest performs a rate-limited GET with a single fixed-backoff retry
// on 429.
func (c *Client) doRequest(ctx context.Context, endpoint string, result interface{}) error {
	retried := false

	for {
		if err := limiter.Wait(ctx); err != nil {
			return &APIError{Type: ErrUnavailable, Message: "rate limiter wait", Err: err}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return &APIError{Type: ErrInvalidParams, Message: "create request", Err: err}
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &APIError{Type: ErrUnavailable, Message: "execute request", Err: err}
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				return &APIError{Type: ErrUnavailable, Message: "read response body", Err: readErr}
			}
			if err := json.Unmarshal(body, result); err != nil {
				return &APIError{Type: ErrParseError, Message: "parse response", Err: err}
			}
			return nil

		case resp.StatusCode == http.StatusTooManyRequests:
			if retried {
				return &APIError{Type: ErrRateLimited, StatusCode: resp.StatusCode, Message: "rate limited after retry"}
			}
			retried = true
			select {
			case <-time.After(rateLimitBackoff):
			case <-ctx.Done():
				return &APIError{Type: ErrUnavailable, Message: "context done during backoff", Err: ctx.Err()}
			}

		default:
			return &APIError{
				Type:       ErrUnavailable,
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)),
			}
		}
	}
}
