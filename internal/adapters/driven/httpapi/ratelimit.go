// Package httpapi holds shared plumbing for HTTP provider adapters:
// proactive request throttling and rate-limit response handling.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// HeaderRetryAfter is the standard retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"

	// HeaderRateRemaining is the remaining-requests header used by
	// OpenAI-compatible APIs.
	HeaderRateRemaining = "x-ratelimit-remaining-requests"
)

// RateLimitError indicates the provider rejected a request for quota
// reasons. Callers can wait until ResetAt before retrying.
type RateLimitError struct {
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited until %s", e.ResetAt.Format(time.RFC3339))
}

// RateLimiter combines a proactive token bucket with reactive handling
// of provider rate-limit responses. One limiter guards one provider
// endpoint; embedding and completion calls to the same provider share
// it so the combined request rate stays under the quota.
type RateLimiter struct {
	mu      sync.Mutex
	bucket  *rate.Limiter
	resetAt time.Time
}

// NewRateLimiter creates a limiter allowing reqPerSec sustained
// requests with bursts up to burst.
func NewRateLimiter(reqPerSec float64, burst int) *RateLimiter {
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(reqPerSec), burst),
	}
}

// Wait blocks until a request may be sent. It honours both the token
// bucket and any reset time learned from a prior 429 response.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	resetAt := r.resetAt
	r.mu.Unlock()

	if until := time.Until(resetAt); until > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(until):
		}
	}
	return nil
}

// CheckResponse inspects a provider response for rate limiting. On a
// 429 it records the reset time and returns a RateLimitError; any other
// status returns nil.
func (r *RateLimiter) CheckResponse(resp *http.Response) error {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	resetAt := time.Now().Add(time.Second)
	if retryAfter := resp.Header.Get(HeaderRetryAfter); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil {
			resetAt = time.Now().Add(time.Duration(seconds) * time.Second)
		}
	}

	r.mu.Lock()
	if resetAt.After(r.resetAt) {
		r.resetAt = resetAt
	}
	r.mu.Unlock()

	return &RateLimitError{ResetAt: resetAt}
}
