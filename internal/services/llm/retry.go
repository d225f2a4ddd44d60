package llm

import (
	"math/rand"
	"time"
)

// Retry timing for transient completion failures.
const (
	// retryBaseDelay is the base of the exponential backoff schedule.
	retryBaseDelay = 1 * time.Second

	// retryMaxDelay caps any single backoff delay.
	retryMaxDelay = 60 * time.Second

	// retryMaxJitter bounds the random jitter added to each delay.
	retryMaxJitter = 1 * time.Second
)

// backoffDelay computes the delay before retry attempt number attempt
// (1-based): min(base * 2^(attempt-1) + jitter, 60s). jitter must be in
// [0, retryMaxJitter).
func backoffDelay(attempt int, jitter time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := retryBaseDelay << (attempt - 1)
	if delay > retryMaxDelay || delay <= 0 { // shift overflow guard
		return retryMaxDelay
	}
	delay += jitter
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}

// randomJitter returns a uniformly random duration in [0, retryMaxJitter).
func randomJitter() time.Duration {
	return time.Duration(rand.Int63n(int64(retryMaxJitter)))
}

// isTransientStatus reports whether an HTTP-equivalent status code marks a
// retryable upstream failure: rate limited (429), request timeout (408), or
// any server error (>=500).
func isTransientStatus(status int) bool {
	return status == 429 || status == 408 || status >= 500
}
