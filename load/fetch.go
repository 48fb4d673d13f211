/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package load

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"bennypowers.dev/tokenref/internal/logger"
	"bennypowers.dev/tokenref/internal/version"
)

const (
	// DefaultTimeout is the maximum time to wait for a network fetch.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxSize is the maximum allowed token document size (10 MB).
	DefaultMaxSize int64 = 10 * 1024 * 1024
)

// ErrNotTokenDocument indicates a response that cannot hold token data,
// such as an HTML error page or an empty body.
var ErrNotTokenDocument = errors.New("response is not a token document")

// tokenAccept lists the media types token documents are served as.
const tokenAccept = "application/json, application/yaml, text/yaml, text/plain;q=0.9, */*;q=0.1"

// Fetcher fetches token documents from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches token documents over HTTP, capping their size and
// rejecting responses that are plainly not JSON or YAML.
type HTTPFetcher struct {
	maxSize int64
	client  *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher with the given maximum document size.
func NewHTTPFetcher(maxSize int64) *HTTPFetcher {
	return &HTTPFetcher{
		maxSize: maxSize,
		client:  &http.Client{},
	}
}

// Fetch downloads the token document at url.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", "tokenref/"+version.Get())
	req.Header.Set("Accept", tokenAccept)

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("timeout fetching %s: %w", url, err)
		}
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: %s", url, resp.Status)
	}
	if final := resp.Request.URL.String(); final != url {
		// unpkg redirects bare package paths to a pinned version.
		logger.Debug("fetched %s as %s", url, final)
	}
	if isHTML(resp.Header.Get("Content-Type")) {
		return nil, fmt.Errorf("%w: %s served %s", ErrNotTokenDocument, url, resp.Header.Get("Content-Type"))
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}
	if int64(len(content)) > f.maxSize {
		return nil, fmt.Errorf("token document at %s exceeds maximum size of %d bytes", url, f.maxSize)
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, fmt.Errorf("%w: %s returned an empty body", ErrNotTokenDocument, url)
	}

	return content, nil
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && (mediaType == "text/html" || mediaType == "application/xhtml+xml")
}
