package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/repodoc/internal/models"
)

func TestWaitForWindow_NeverExceedsCap(t *testing.T) {
	limiter := NewRateLimiterState(1, 5, 0)

	current := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.WaitForWindow(context.Background()))
		current = current.Add(time.Second)
	}
	assert.Equal(t, 5, limiter.WindowCount())

	// The window is full and nothing has expired yet, so one more request
	// must block until cancellation.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := limiter.WaitForWindow(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 5, limiter.WindowCount())
}

func TestWaitForWindow_AdmitsAfterOldestExpires(t *testing.T) {
	limiter := NewRateLimiterState(1, 3, 0)

	current := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.WaitForWindow(context.Background()))
	}

	// Move past the rolling window: all three entries expire and the next
	// request is admitted without blocking.
	current = current.Add(rateWindow + time.Second)
	require.NoError(t, limiter.WaitForWindow(context.Background()))
	assert.Equal(t, 1, limiter.WindowCount())
}

func TestRecordTokens_PrunesBucketsOlderThanSevenDays(t *testing.T) {
	limiter := NewRateLimiterState(1, 10, 1000)

	current := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }
	limiter.RecordTokens(100)

	current = current.AddDate(0, 0, 8)
	limiter.RecordTokens(50)

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Len(t, limiter.dailyTokens, 1)
	assert.NotContains(t, limiter.dailyTokens, "2026-08-01")
	assert.Equal(t, 50, limiter.dailyTokens["2026-08-09"])
}

func TestCheckBudget_FailsFastAtCap(t *testing.T) {
	limiter := NewRateLimiterState(1, 10, 100)

	current := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	require.NoError(t, limiter.CheckBudget())

	limiter.RecordTokens(100)
	require.ErrorIs(t, limiter.CheckBudget(), models.ErrQuotaExceeded)

	// A new UTC day resets the relevant bucket.
	current = current.AddDate(0, 0, 1)
	require.NoError(t, limiter.CheckBudget())
}

func TestSweep_DropsStaleState(t *testing.T) {
	limiter := NewRateLimiterState(1, 10, 1000)

	current := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	require.NoError(t, limiter.WaitForWindow(context.Background()))
	limiter.RecordTokens(10)

	current = current.AddDate(0, 0, 10)
	limiter.Sweep()

	assert.Equal(t, 0, limiter.WindowCount())
	assert.Equal(t, 0, limiter.Usage())
}

func TestAcquireSlot_CancellationDoesNotLeakSlot(t *testing.T) {
	limiter := NewRateLimiterState(1, 10, 0)

	require.NoError(t, limiter.AcquireSlot(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.Error(t, limiter.AcquireSlot(ctx))

	limiter.ReleaseSlot()
	require.NoError(t, limiter.AcquireSlot(context.Background()))
	limiter.ReleaseSlot()
}
