package dataset

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/popchart/pkg/buildinfo"
	"github.com/matzehuels/popchart/pkg/errors"
	"github.com/matzehuels/popchart/pkg/httputil"
	"github.com/matzehuels/popchart/pkg/observability"
)

const (
	// FetchTTL is how long a downloaded CSV body is reused.
	FetchTTL = 24 * time.Hour

	maxBodySize    = 32 << 20
	defaultTimeout = 30 * time.Second
	fetchAttempts  = 3
)

// Fetcher downloads remote CSV datasets.
type Fetcher struct {
	client     *http.Client
	cache      *httputil.Cache
	logger     *log.Logger
	retryDelay time.Duration
}

// NewFetcher returns a Fetcher backed by cache. A nil cache disables body
// caching; a nil logger discards output.
func NewFetcher(cache *httputil.Cache, logger *log.Logger) *Fetcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Fetcher{
		client:     &http.Client{Timeout: defaultTimeout},
		cache:      cache,
		logger:     logger,
		retryDelay: time.Second,
	}
}

// Load fetches rawURL and parses the body. With refresh set the cached body
// is ignored and replaced.
func (f *Fetcher) Load(ctx context.Context, rawURL string, refresh bool, opts ParseOptions) (Dataset, error) {
	body, err := f.Fetch(ctx, rawURL, refresh)
	if err != nil {
		return nil, err
	}
	return ParseBytes(body, opts)
}

// Fetch returns the body at rawURL, from cache when possible.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, refresh bool) ([]byte, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return nil, err
	}

	if f.cache != nil && !refresh {
		var body []byte
		if ok, _ := f.cache.Get(rawURL, &body); ok {
			f.logger.Debug("dataset cache hit", "url", rawURL, "bytes", len(body))
			return body, nil
		}
	}

	var body []byte
	err := httputil.Retry(ctx, fetchAttempts, f.retryDelay, func() error {
		var err error
		body, err = f.get(ctx, rawURL)
		if httputil.IsRetryable(err) {
			f.logger.Warn("fetch failed, retrying", "url", rawURL, "err", err)
		}
		return err
	})
	if err != nil {
		return nil, classify(ctx, rawURL, err)
	}

	if f.cache != nil {
		if err := f.cache.Set(rawURL, body); err != nil {
			f.logger.Debug("dataset cache write failed", "url", rawURL, "err", err)
		}
	}
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	u, _ := url.Parse(rawURL)
	hooks := observability.HTTP()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &httputil.RetryableError{Err: err}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeNotFound, "dataset %s not found", rawURL)
	case resp.StatusCode >= 500:
		return nil, &httputil.RetryableError{Err: fmt.Errorf("server returned %s", resp.Status)}
	case resp.StatusCode != http.StatusOK:
		return nil, errors.New(errors.ErrCodeNetwork, "fetch %s: %s", rawURL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, &httputil.RetryableError{Err: err}
	}
	if len(body) > maxBodySize {
		return nil, errors.New(errors.ErrCodeInvalidCSV, "dataset %s exceeds %d bytes", rawURL, maxBodySize)
	}
	return body, nil
}

// classify maps a final fetch failure onto an error code.
func classify(ctx context.Context, rawURL string, err error) error {
	switch {
	case errors.GetCode(err) != "":
		return err
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", rawURL)
	case ctx.Err() != nil:
		return err
	default:
		return errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", rawURL)
	}
}
