package docloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
)

// Document is the result of resolving an identifier. Document holds either
// the raw JSON string as fetched or an already-parsed object.
type Document struct {
	DocumentURL string
	Document    interface{}
}

// Loader resolves an identifier, such as a verification method URL, into
// a document.
type Loader interface {
	Load(ctx context.Context, id string) (*Document, error)
}

// LoaderOpt configures an HTTPLoader.
type LoaderOpt func(*HTTPLoader)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) LoaderOpt {
	return func(l *HTTPLoader) {
		l.client = client
	}
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) LoaderOpt {
	return func(l *HTTPLoader) {
		l.client.Timeout = timeout
	}
}

// HTTPLoader fetches documents from a resolver endpoint over HTTP.
// Nothing is cached; concurrent requests for the same identifier share a
// single in-flight fetch.
type HTTPLoader struct {
	baseURL string
	client  *http.Client
	group   singleflight.Group
}

// NewHTTPLoader creates a loader that resolves identifiers against the
// given base URL.
func NewHTTPLoader(baseURL string, opts ...LoaderOpt) *HTTPLoader {
	l := &HTTPLoader{
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load fetches the document for the given identifier.
func (l *HTTPLoader) Load(ctx context.Context, id string) (*Document, error) {
	if id == "" {
		return nil, fmt.Errorf("document identifier is empty")
	}

	apiURL := l.baseURL + "/" + url.PathEscape(id)

	body, err, _ := l.group.Do(id, func() (interface{}, error) {
		return l.fetch(ctx, apiURL)
	})
	if err != nil {
		return nil, err
	}

	return &Document{
		DocumentURL: apiURL,
		Document:    string(body.([]byte)),
	}, nil
}

func (l *HTTPLoader) fetch(ctx context.Context, apiURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build document request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request to document resolver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("document resolver returned non-200 status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from document resolver: %w", err)
	}

	return body, nil
}
