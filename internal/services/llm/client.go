// -----------------------------------------------------------------------
// Rate-limited completion client
//
// Wraps the provider factory behind the CompletionService contract:
// concurrency gate, sliding-window request limit, daily token budget, and
// exponential backoff with jitter for transient upstream failures.
// -----------------------------------------------------------------------

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/repodoc/internal/common"
	"github.com/ternarybob/repodoc/internal/interfaces"
	"github.com/ternarybob/repodoc/internal/models"
)

// charsPerToken is the crude completion-service token estimate used for
// budget accounting: ~1 token per 4 characters.
const charsPerToken = 4

// Client is the rate-limited completion client. It is safe for concurrent
// use; the injected RateLimiterState is the only shared mutable state.
type Client struct {
	factory *ProviderFactory
	config  *common.GenerationConfig
	limiter *RateLimiterState
	logger  arbor.ILogger

	// sleep, jitter and getProvider are replaceable in tests.
	sleep       func(ctx context.Context, d time.Duration) error
	jitter      func() time.Duration
	getProvider func(ctx context.Context, model string) (Provider, error)
}

// Compile-time assertion: Client implements CompletionService.
var _ interfaces.CompletionService = (*Client)(nil)

// NewClient creates a rate-limited completion client around the provider
// factory. The RateLimiterState should be constructed once at process start
// and shared by every client in the process.
func NewClient(factory *ProviderFactory, config *common.GenerationConfig, limiter *RateLimiterState, logger arbor.ILogger) *Client {
	return &Client{
		factory:     factory,
		config:      config,
		limiter:     limiter,
		logger:      logger,
		sleep:       sleepCtx,
		jitter:      randomJitter,
		getProvider: factory.GetProvider,
	}
}

// sleepCtx waits for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// EstimateTokens returns the token estimate for the given text.
func (c *Client) EstimateTokens(text string) int {
	return (len(text) + charsPerToken - 1) / charsPerToken
}

// Usage returns the accumulated token estimate for the current UTC day.
func (c *Client) Usage() int {
	return c.limiter.Usage()
}

// Complete issues one completion call through every gate: daily budget
// check, concurrency semaphore, sliding-window rate limit, then the
// provider call with retries for transient failures.
//
// Cancellation propagates from every wait without being retried. The
// semaphore slot is released on every exit path.
func (c *Client) Complete(ctx context.Context, req interfaces.CompletionRequest) (string, error) {
	if c.config.EnableTokenTracking {
		if err := c.limiter.CheckBudget(); err != nil {
			c.logger.Warn().
				Int("daily_usage", c.limiter.Usage()).
				Int("daily_cap", c.config.MaxDailyTokens).
				Msg("Daily token budget exhausted, failing fast")
			return "", err
		}
	}

	if err := c.limiter.AcquireSlot(ctx); err != nil {
		return "", err
	}
	defer c.limiter.ReleaseSlot()

	provider, err := c.getProvider(ctx, req.Model)
	if err != nil {
		return "", err
	}

	request := &ContentRequest{
		Prompt:            req.Prompt,
		SystemInstruction: req.SystemInstruction,
		Model:             c.factory.NormalizeModel(req.Model),
		Temperature:       req.Temperature,
		MaxTokens:         req.MaxTokens,
	}
	if request.Temperature <= 0 {
		request.Temperature = c.config.Temperature
	}
	if request.MaxTokens <= 0 {
		request.MaxTokens = c.config.MaxTokensPerSection
	}

	attempts := c.config.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			delay := backoffDelay(attempt-1, c.jitter())
			c.logger.Debug().
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("Retrying completion after transient failure")
			if err := c.sleep(ctx, delay); err != nil {
				return "", err
			}
		}

		if c.config.EnableRateLimiting {
			if err := c.limiter.WaitForWindow(ctx); err != nil {
				return "", err
			}
		}

		resp, err := provider.GenerateContent(ctx, request)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return "", err
			}
			if models.IsNonRetryable(err) {
				return "", err
			}
			lastErr = err
			continue
		}

		if strings.TrimSpace(resp.Text) == "" {
			return "", models.ErrEmptyCompletion
		}

		if c.config.EnableTokenTracking {
			used := c.EstimateTokens(req.Prompt) + c.EstimateTokens(req.SystemInstruction) + c.EstimateTokens(resp.Text)
			c.limiter.RecordTokens(used)
		}

		return resp.Text, nil
	}

	return "", fmt.Errorf("completion service unavailable after %d attempts: %w", attempts, lastErr)
}
