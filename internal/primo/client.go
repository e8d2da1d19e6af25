// Package primo provides a client for the Ex Libris Primo VE search API
// abstracted behind interfaces for testability.
package primo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/rexlibris/rexlibris/internal/metrics"
)

const (
	pnxsPath = "/primaws/rest/pub/pnxs"

	// Primo rejects requests without a browser-like User-Agent.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0 Safari/537.36"

	defaultTimeout = 10 * time.Second
)

// SearchRequest defines the parameters for one Primo search.
type SearchRequest struct {
	Query        string
	Field        string // "any", "title", "sub", "creator"
	MaterialType string // key into MaterialTypes, empty for no facet
	Offset       int
	Limit        int
}

// SearchClient defines the interface for querying a Primo VE instance.
type SearchClient interface {
	Search(ctx context.Context, cfg LibraryConfig, req SearchRequest) ([]Doc, error)
}

// Client implements SearchClient against the Primo VE pnxs REST endpoint.
type Client struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.client = hc
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRateLimiter injects a token-bucket limiter applied before every
// request. Keeps randomized fan-out polite toward the library's API.
func WithRateLimiter(l *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient creates a new Primo search client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		client:    &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type pnxsResponse struct {
	Docs []Doc `json:"docs"`
}

// Search executes one search against the library's pnxs endpoint and
// returns the raw documents. A non-200 status or malformed payload is an
// error; callers that want "failed" and "no matches" collapsed treat any
// error as an empty result.
func (c *Client) Search(
	ctx context.Context,
	cfg LibraryConfig,
	req SearchRequest,
) ([]Doc, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	metrics.SearchRequestsTotal.Inc()

	u := buildSearchURL(cfg, req)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"primo API error (status %d): %s",
			resp.StatusCode,
			string(body),
		)
	}

	var apiResp pnxsResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	return apiResp.Docs, nil
}

func buildSearchURL(cfg LibraryConfig, req SearchRequest) string {
	field := req.Field
	if field == "" {
		field = "any"
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}

	params := url.Values{}
	params.Set("vid", cfg.VID)
	params.Set("tab", cfg.Tab)
	params.Set("scope", cfg.Scope)
	params.Set("q", field+",contains,"+req.Query)
	params.Set("lang", "en")
	params.Set("offset", strconv.Itoa(req.Offset))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort", "rank")
	params.Set("pcAvailability", "false")
	params.Set("getMore", "0")
	params.Set("conVoc", "true")
	params.Set("inst", cfg.Institution)
	params.Set("skipDelivery", "Y")
	params.Set("disableSplitFacets", "true")

	if facet, ok := MaterialTypes[req.MaterialType]; ok && req.MaterialType != "" {
		params.Set("qInclude", "facet_rtype,exact,"+facet)
	}

	return cfg.BaseURL + pnxsPath + "?" + params.Encode()
}
