// Package feed fetches and parses spreadsheet exports (CSV over HTTP, or XLSX
// workbooks) into the row matrix the course builder consumes.
package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/studyloop/studyloop/internal/platform/cache"
)

// StatusError reports a non-success HTTP status from a feed endpoint.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("feed %s returned status %d", e.URL, e.Code)
}

// Fetcher retrieves feed payloads over HTTP with a shared TTL cache. A second
// fetch racing a cache miss is harmless: both writes store equivalent payloads.
type Fetcher struct {
	client *http.Client
	cache  *cache.Cache
	ttl    time.Duration
}

// NewFetcher creates a fetcher. The cache may be nil, in which case every
// call goes to the network.
func NewFetcher(c *cache.Cache, ttl time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: 30 * time.Second},
		cache:  c,
		ttl:    ttl,
	}
}

// Fetch returns the payload at url, from cache when fresh. The payload is
// decoded as UTF-8 with any leading byte-order mark stripped.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	key := "feed:payload:" + url

	if f.cache != nil {
		cached, ok, err := f.cache.GetString(ctx, key)
		if err != nil {
			slog.Warn("feed cache read failed", "url", url, "error", err)
		} else if ok {
			return cached, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building feed request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching feed %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{URL: url, Code: resp.StatusCode}
	}

	decoded := transform.NewReader(resp.Body, unicode.UTF8BOM.NewDecoder())
	body, err := io.ReadAll(decoded)
	if err != nil {
		return "", fmt.Errorf("reading feed %s: %w", url, err)
	}

	payload := string(body)
	if f.cache != nil {
		if err := f.cache.SetString(ctx, key, payload, f.ttl); err != nil {
			slog.Warn("feed cache write failed", "url", url, "error", err)
		}
	}
	return payload, nil
}
