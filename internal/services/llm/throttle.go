// -----------------------------------------------------------------------
// RateLimiterState - process-wide throttling state for the completion client
//
// Three independent gates live here: a counting semaphore bounding in-flight
// requests, a sliding one-minute window bounding request rate, and a rolling
// daily token budget. All of it is safe under concurrent access and owned
// explicitly by whoever constructs it (no package-level singletons).
// -----------------------------------------------------------------------

package llm

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/ternarybob/repodoc/internal/models"
)

const (
	// rateWindow is the rolling interval over which the request count cap
	// is enforced.
	rateWindow = time.Minute

	// tokenRetentionDays bounds how long daily token buckets are retained.
	tokenRetentionDays = 7

	// dayKeyFormat keys the daily token map by UTC calendar day.
	dayKeyFormat = "2006-01-02"
)

// RateLimiterState holds the shared throttling state for the completion
// client. Construct once at process start and inject where needed.
type RateLimiterState struct {
	sem *semaphore.Weighted

	mu          sync.Mutex
	requests    []time.Time    // timestamps of requests within the window, oldest first
	perMinute   int            // requests-per-minute cap
	dailyTokens map[string]int // UTC day -> accumulated token estimate
	maxDaily    int            // daily token cap

	// now is replaceable in tests.
	now func() time.Time
}

// NewRateLimiterState creates throttling state for the given limits.
func NewRateLimiterState(maxConcurrent, requestsPerMinute, maxDailyTokens int) *RateLimiterState {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	return &RateLimiterState{
		sem:         semaphore.NewWeighted(int64(maxConcurrent)),
		perMinute:   requestsPerMinute,
		dailyTokens: make(map[string]int),
		maxDaily:    maxDailyTokens,
		now:         time.Now,
	}
}

// AcquireSlot blocks until a concurrency slot is available or ctx is done.
// Every successful acquire must be paired with ReleaseSlot on all exit paths.
func (r *RateLimiterState) AcquireSlot(ctx context.Context) error {
	return r.sem.Acquire(ctx, 1)
}

// ReleaseSlot returns a concurrency slot.
func (r *RateLimiterState) ReleaseSlot() {
	r.sem.Release(1)
}

// WaitForWindow blocks until issuing one more request keeps the rolling
// one-minute request count at or below the configured cap, then records the
// request. Cancellation aborts the wait.
func (r *RateLimiterState) WaitForWindow(ctx context.Context) error {
	for {
		r.mu.Lock()
		now := r.now()
		r.pruneWindowLocked(now)
		if len(r.requests) < r.perMinute {
			r.requests = append(r.requests, now)
			r.mu.Unlock()
			return nil
		}
		// Wait until the oldest recorded request exits the window.
		wait := r.requests[0].Add(rateWindow).Sub(now)
		r.mu.Unlock()

		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// pruneWindowLocked drops request timestamps older than the rolling window.
// Caller holds r.mu.
func (r *RateLimiterState) pruneWindowLocked(now time.Time) {
	cutoff := now.Add(-rateWindow)
	idx := 0
	for idx < len(r.requests) && !r.requests[idx].After(cutoff) {
		idx++
	}
	if idx > 0 {
		r.requests = append(r.requests[:0], r.requests[idx:]...)
	}
}

// CheckBudget fails with models.ErrQuotaExceeded when the current UTC day's
// accumulated token estimate has reached the daily cap. The estimate for the
// pending call is not reserved; accounting happens after success via
// RecordTokens.
func (r *RateLimiterState) CheckBudget() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := r.now().UTC().Format(dayKeyFormat)
	if r.maxDaily > 0 && r.dailyTokens[day] >= r.maxDaily {
		return models.ErrQuotaExceeded
	}
	return nil
}

// RecordTokens adds the estimated token consumption of a completed call to
// the current UTC day's bucket and prunes buckets older than seven days.
func (r *RateLimiterState) RecordTokens(tokens int) {
	if tokens <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	day := now.Format(dayKeyFormat)
	r.dailyTokens[day] += tokens

	cutoff := now.AddDate(0, 0, -tokenRetentionDays).Format(dayKeyFormat)
	for key := range r.dailyTokens {
		if key < cutoff {
			delete(r.dailyTokens, key)
		}
	}
}

// Usage returns the accumulated token estimate for the current UTC day.
func (r *RateLimiterState) Usage() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dailyTokens[r.now().UTC().Format(dayKeyFormat)]
}

// WindowCount returns the number of requests currently inside the rolling
// window. Exposed for maintenance sweeps and tests.
func (r *RateLimiterState) WindowCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneWindowLocked(r.now())
	return len(r.requests)
}

// Sweep prunes expired window entries and stale daily buckets. Wired to a
// periodic maintenance schedule so idle processes do not hold a week of
// dead buckets in memory.
func (r *RateLimiterState) Sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.pruneWindowLocked(now)
	cutoff := now.UTC().AddDate(0, 0, -tokenRetentionDays).Format(dayKeyFormat)
	for key := range r.dailyTokens {
		if key < cutoff {
			delete(r.dailyTokens, key)
		}
	}
}
