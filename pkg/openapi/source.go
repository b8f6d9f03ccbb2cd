package openapi

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Fetcher reads raw OpenAPI documents from disk, an fs.FS or HTTP.
type Fetcher struct {
	fs      fs.FS
	http    *http.Client
	timeout time.Duration
}

// FetchOption configures a Fetcher.
type FetchOption func(*Fetcher)

// WithFS resolves relative locations inside files instead of the working
// directory.
func WithFS(files fs.FS) FetchOption {
	return func(f *Fetcher) {
		f.fs = files
	}
}

// WithHTTPClient enables http and https locations.
func WithHTTPClient(client *http.Client) FetchOption {
	return func(f *Fetcher) {
		f.http = client
	}
}

// WithTimeout caps remote fetches. It enables HTTP with a default client
// when none was given.
func WithTimeout(timeout time.Duration) FetchOption {
	return func(f *Fetcher) {
		f.timeout = timeout
	}
}

// NewFetcher builds a Fetcher. HTTP is disabled unless WithHTTPClient or
// WithTimeout is given.
func NewFetcher(options ...FetchOption) *Fetcher {
	f := &Fetcher{}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	if f.http == nil && f.timeout > 0 {
		f.http = &http.Client{Timeout: f.timeout}
	}
	return f
}

// Fetch returns the document stored at location.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		return nil, fmt.Errorf("openapi: empty location")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if parsed, err := url.Parse(location); err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") {
		return f.fetchHTTP(ctx, parsed.String())
	}
	if f.fs != nil {
		data, err := fs.ReadFile(f.fs, location)
		if err != nil {
			return nil, fmt.Errorf("openapi: read %s: %w", location, err)
		}
		return data, nil
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", location, err)
	}
	return data, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, location string) ([]byte, error) {
	if f.http == nil {
		return nil, fmt.Errorf("openapi: http sources are disabled: %s", location)
	}
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("openapi: build request: %w", err)
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openapi: fetch %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("openapi: fetch %s: unexpected status %d", location, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", location, err)
	}
	return data, nil
}
