// Package words maintains the buffer of random query words that fuels
// randomized catalogue searches.
package words

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	defaultSourceURL     = "https://random-word-api.vercel.app/api"
	defaultSourceTimeout = 8 * time.Second

	minWordLen = 3
	maxWordLen = 12
)

// Source fetches a batch of candidate query words.
type Source interface {
	Fetch(ctx context.Context, n int) ([]string, error)
}

// HTTPSource implements Source against a random-word HTTP API that returns
// a JSON array of words.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// HTTPSourceOption configures the HTTPSource.
type HTTPSourceOption func(*HTTPSource)

// WithSourceURL overrides the default word API endpoint.
func WithSourceURL(u string) HTTPSourceOption {
	return func(s *HTTPSource) {
		s.baseURL = u
	}
}

// WithSourceHTTPClient overrides the default HTTP client.
func WithSourceHTTPClient(hc *http.Client) HTTPSourceOption {
	return func(s *HTTPSource) {
		s.client = hc
	}
}

// NewHTTPSource creates a word source backed by the random-word API.
func NewHTTPSource(opts ...HTTPSourceOption) *HTTPSource {
	s := &HTTPSource{
		baseURL: defaultSourceURL,
		client:  &http.Client{Timeout: defaultSourceTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch requests n words and returns the usable ones: lower-cased,
// alphabetic, 3-12 characters. The returned slice may be shorter than n.
func (s *HTTPSource) Fetch(ctx context.Context, n int) ([]string, error) {
	u := s.baseURL + "?words=" + strconv.Itoa(n) + "&type=uppercase"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing word request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("word API error (status %d)", resp.StatusCode)
	}

	var raw []string
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parsing word response: %w", err)
	}

	return filterWords(raw), nil
}

// filterWords keeps alphabetic words of usable length, lower-cased.
func filterWords(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, w := range raw {
		if len(w) < minWordLen || len(w) > maxWordLen {
			continue
		}
		if !isAlpha(w) {
			continue
		}
		out = append(out, strings.ToLower(w))
	}
	return out
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
