package interfaces

import (
	"context"
)

// CompletionRequest is a single chat-style request to a completion provider.
type CompletionRequest struct {
	// Prompt is the user-role message content.
	Prompt string

	// SystemInstruction is the system-role instruction, optional.
	SystemInstruction string

	// MaxTokens caps the completion length. Zero means provider default.
	MaxTokens int

	// Temperature controls sampling randomness. Zero means provider default.
	Temperature float32

	// Model overrides the configured default model, optional.
	Model string
}

// CompletionService is the rate-limited entry point to the external
// completion service. Implementations enforce the concurrency gate, the
// sliding-window request limit and the daily token budget, and retry
// transient failures before surfacing an error.
//
// Failure modes:
//   - models.ErrQuotaExceeded: daily token budget exhausted, call not issued
//   - models.ErrEmptyCompletion: upstream succeeded with no content
//   - *models.NonRetryableError: upstream rejected the request itself
//   - service-unavailable error after all retry attempts are exhausted
//
// Cancellation of ctx propagates through every suspension point (semaphore,
// rate-limit wait, retry delay, network call) without being retried.
type CompletionService interface {
	// Complete issues one completion call and returns the generated text.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// EstimateTokens returns the token estimate used for budget accounting
	// (~1 token per 4 characters).
	EstimateTokens(text string) int

	// Usage returns the accumulated token estimate for the current UTC day.
	Usage() int
}
