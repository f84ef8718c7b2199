// Package httputil provides the HTTP plumbing used to fetch remote datasets.
//
// # Overview
//
//   - [Cache]: file-based cache of fetched bodies (~/.cache/popchart/http/)
//   - [Retry]: automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores JSON-encoded values under SHA-256 hashed file names, so any
// string (typically a URL) is a safe key. Entries expire after the cache TTL,
// measured from the file's modification time:
//
//	c, _ := httputil.NewCache("", 24*time.Hour)
//	var body []byte
//	if ok, _ := c.Get(url, &body); !ok {
//	    body = download(url)
//	    _ = c.Set(url, body)
//	}
//
// # Retry
//
// [Retry] only retries errors wrapped in [RetryableError]. Wrap transient
// failures (connection errors, 5xx responses) and return everything else
// unwrapped so it fails fast:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
package httputil
