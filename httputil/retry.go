// Package httputil provides HTTP helpers shared by the upstream providers.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// MaxRetryAfter caps how long a Retry-After header may make us wait.
var MaxRetryAfter = 30 * time.Second

const defaultMaxRetries = 3

// DoWithRetry executes an HTTP request and retries on HTTP 429 (Too Many
// Requests) with exponential backoff starting at RetryBaseDelay. A
// Retry-After header given in seconds replaces the computed delay, capped
// at MaxRetryAfter.
//
// When maxRetries is 0 the default (3) is used. Requests with a body must
// be built with http.NewRequest* so GetBody can rewind it between attempts.
// If the context is cancelled during a backoff wait ctx.Err() is returned.
// After exhausting retries the last 429 response is returned so the caller
// can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if client == nil {
		client = http.DefaultClient
	}

	for attempt := 0; ; attempt++ {
		r := req.Clone(ctx)
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			r.Body = body
		}

		resp, err := client.Do(r)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		if attempt >= maxRetries {
			return resp, nil
		}

		backoff := retryAfter(resp.Header.Get("Retry-After"))
		if backoff == 0 {
			backoff = time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	d := time.Duration(secs) * time.Second
	if d > MaxRetryAfter {
		d = MaxRetryAfter
	}
	return d
}
