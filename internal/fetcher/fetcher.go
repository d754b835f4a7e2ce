// Package fetcher performs HTTP page retrieval for the scan pipeline.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonesrussell/agentscan/internal/logger"
)

// maxResponseBodyBytes limits the size of fetched page responses.
const maxResponseBodyBytes = 10 * 1024 * 1024 // 10 MB

// acceptHeader is sent on every page request.
const acceptHeader = "text/html,application/xhtml+xml"

// Config configures the fetcher.
type Config struct {
	UserAgent      string
	RequestTimeout time.Duration
	RateLimitRPS   int
	RateLimitBurst int
}

// Fetcher retrieves pages with a fixed identity header and follows redirects.
// Outbound requests share a token-bucket rate limit.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	log       logger.Interface
}

// New creates a fetcher from the given configuration.
func New(cfg Config, log logger.Interface) *Fetcher {
	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = rps
	}

	return &Fetcher{
		client:    &http.Client{Timeout: cfg.RequestTimeout},
		limiter:   rate.NewLimiter(rate.Limit(rps), burst),
		userAgent: cfg.UserAgent,
		log:       log,
	}
}

// Fetch performs a single GET request against rawURL and returns the body
// along with the final URL after redirects. Non-2xx responses yield an
// *HTTPStatusError; transport failures yield a *NetworkError. Callers bound
// the call by passing a context with a deadline.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (html, finalURL string, err error) {
	if waitErr := f.limiter.Wait(ctx); waitErr != nil {
		return "", "", &NetworkError{Err: waitErr}
	}

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if reqErr != nil {
		return "", "", fmt.Errorf("create request: %w", reqErr)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, doErr := f.client.Do(req)
	if doErr != nil {
		return "", "", &NetworkError{Err: doErr}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", "", &HTTPStatusError{Status: resp.StatusCode}
	}

	limited := io.LimitReader(resp.Body, maxResponseBodyBytes)

	body, readErr := io.ReadAll(limited)
	if readErr != nil {
		return "", "", &NetworkError{Err: readErr}
	}

	finalURL = rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	f.log.Debug("page fetched", "url", rawURL, "final_url", finalURL, "bytes", len(body))

	return string(body), finalURL, nil
}
