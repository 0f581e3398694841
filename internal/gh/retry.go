package gh

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const listRetryMaxElapsed = 30 * time.Second

func newListBackoff(retries uint64) backoff.BackOff {
	// BackOff implementations are stateful; always return a fresh instance.
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = listRetryMaxElapsed
	return backoff.WithMaxRetries(bo, retries)
}

// isRetryableError reports whether err looks like a transient GitHub or
// network failure.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	// machinebox/graphql decodes the body before it looks at the status, so
	// a gateway's HTML error page surfaces as a decoding error
	if strings.Contains(errStr, "decoding response") {
		return true
	}
	// JSON error bodies come back as "non-200 status code: NNN"
	for _, code := range []string{"status code: 500", "status code: 502", "status code: 503", "status code: 504"} {
		if strings.Contains(errStr, code) {
			return true
		}
	}
	if strings.Contains(errStr, "connection reset") {
		return true
	}
	if strings.Contains(errStr, "connection refused") {
		return true
	}
	if strings.Contains(errStr, "i/o timeout") {
		return true
	}
	return strings.Contains(errStr, "eof")
}

// withRetry runs op, retrying transient errors with exponential backoff.
// Used for the issue listing only; per-issue calls are never retried.
func (c *Client) withRetry(ctx context.Context, op func() error) error {
	if c.retries == 0 {
		return op()
	}

	bo := newListBackoff(c.retries)
	return backoff.Retry(func() error {
		err := op()
		if err != nil && isRetryableError(err) {
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}, backoff.WithContext(bo, ctx))
}
