// Package source fetches declaration documents.
//
// The remote document is the webhook payload schema published in the
// octokit/webhooks repository, addressed by branch or tag. A CachedFetcher
// puts a read-through cache in front of any Fetcher.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/roach88/tsbind/internal/store"
)

const (
	// DefaultBaseURL serves raw files of the octokit/webhooks repository.
	DefaultBaseURL = "https://raw.githubusercontent.com/octokit/webhooks"

	// SchemaPath is the document path inside the repository.
	SchemaPath = "payload-types/schema.d.ts"

	userAgent = "tsbind/1.0"
)

// Fetcher returns the document for ref.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// FileFetcher reads documents from the local filesystem. ref is a path.
type FileFetcher struct{}

// Fetch reads the file at path.
func (FileFetcher) Fetch(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return data, nil
}

// HTTPError represents an HTTP error response.
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// HTTPFetcher downloads the schema document for a version (branch or tag).
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPFetcher returns a fetcher for DefaultBaseURL.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL: DefaultBaseURL,
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// URL returns the document URL for version.
func (f *HTTPFetcher) URL(version string) (string, error) {
	if version == "" {
		return "", errors.New("empty version")
	}
	return url.JoinPath(f.BaseURL, version, SchemaPath)
}

// Fetch downloads the document for version.
func (f *HTTPFetcher) Fetch(ctx context.Context, version string) ([]byte, error) {
	u, err := f.URL(version)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", version, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	slog.Debug("fetching document", "url", u)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &HTTPError{URL: u, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return data, nil
}

// Cache stores documents by version. *store.Store implements it.
type Cache interface {
	GetDocument(ctx context.Context, version string) (store.Document, bool, error)
	PutDocument(ctx context.Context, version string, body []byte) (store.Document, error)
}

// CachedFetcher serves documents from Cache and falls back to Fetcher on a
// miss, storing what it fetched.
type CachedFetcher struct {
	Fetcher Fetcher
	Cache   Cache
}

// Fetch returns the cached document for version or fetches it.
func (f *CachedFetcher) Fetch(ctx context.Context, version string) ([]byte, error) {
	doc, found, err := f.Cache.GetDocument(ctx, version)
	if err != nil {
		return nil, err
	}
	if found {
		slog.Debug("document cache hit", "version", version, "doc_id", doc.ID)
		return doc.Body, nil
	}

	body, err := f.Fetcher.Fetch(ctx, version)
	if err != nil {
		return nil, err
	}
	doc, err = f.Cache.PutDocument(ctx, version, body)
	if err != nil {
		return nil, err
	}
	slog.Debug("document cached", "version", version, "doc_id", doc.ID, "bytes", len(body))
	return body, nil
}
