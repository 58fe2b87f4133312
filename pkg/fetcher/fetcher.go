package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dtnitsch/gdp-etl/models"
	"github.com/dtnitsch/gdp-etl/pkg/caching"
)

const userAgent = "gdp-etl/1.0 (+https://github.com/dtnitsch/gdp-etl)"

type Fetcher struct {
	client *http.Client
	cache  *caching.Cache
	logger *slog.Logger
}

type Option func(*Fetcher)

// WithCache serves fresh pages from c and stores every successful fetch in it.
func WithCache(c *caching.Cache) Option {
	return func(f *Fetcher) { f.cache = c }
}

func WithClient(client *http.Client) Option {
	return func(f *Fetcher) { f.client = client }
}

func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = logger }
}

func NewFetcher(timeout time.Duration, opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: timeout},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// GetHtmlBytes returns the raw page body. Transport failures and non-200
// responses are reported as models.ErrFetch. No retries.
func (f *Fetcher) GetHtmlBytes(ctx context.Context, url string) ([]byte, error) {
	if f.cache != nil {
		if data, ok := f.cache.Get(url); ok {
			f.logger.Info("page served from cache", "url", url, "bytes", len(data))
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %w", models.ErrFetch, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to make HTTP request: %w", models.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: failed to fetch HTML, status code: %d", models.ErrFetch, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", models.ErrFetch, err)
	}

	if f.cache != nil {
		// A cache miss on the next run is harmless.
		if err := f.cache.Set(url, bodyBytes); err != nil {
			f.logger.Warn("failed to cache page", "url", url, "error", err)
		}
	}
	return bodyBytes, nil
}
