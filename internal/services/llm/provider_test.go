package llm

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/repodoc/internal/common"
)

func newTestFactory() *ProviderFactory {
	return NewProviderFactory(
		&common.GeminiConfig{APIKey: "test-key", Timeout: "2m"},
		&common.ClaudeConfig{APIKey: "test-key", Timeout: "2m"},
		&common.LLMConfig{DefaultProvider: common.LLMProviderClaude},
		arbor.NewLogger(),
	)
}

func TestDetectProvider(t *testing.T) {
	factory := newTestFactory()

	tests := []struct {
		model string
		want  ProviderType
	}{
		{"claude-sonnet-4-20250514", ProviderClaude},
		{"claude/claude-sonnet-4-20250514", ProviderClaude},
		{"anthropic/claude-opus-4", ProviderClaude},
		{"gemini-2.5-flash", ProviderGemini},
		{"google/gemini-2.5-flash", ProviderGemini},
		{"", ProviderClaude}, // default provider
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, factory.DetectProvider(tt.model))
		})
	}
}

func TestGetProvider_ConcurrentCallsShareOneInstance(t *testing.T) {
	factory := newTestFactory()

	const goroutines = 8
	providers := make([]Provider, goroutines)
	errs := make([]error, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			providers[i], errs[i] = factory.GetProvider(context.Background(), "claude-sonnet-4-20250514")
		}(i)
	}
	wg.Wait()

	for i := 0; i < goroutines; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, providers[i])
		assert.Same(t, providers[0], providers[i], "all callers must receive the cached provider")
	}
}

func TestGetProvider_MissingKeyFails(t *testing.T) {
	factory := NewProviderFactory(
		&common.GeminiConfig{Timeout: "2m"},
		&common.ClaudeConfig{Timeout: "2m"},
		&common.LLMConfig{DefaultProvider: common.LLMProviderClaude},
		arbor.NewLogger(),
	)

	_, err := factory.GetProvider(context.Background(), "claude-sonnet-4-20250514")
	require.Error(t, err)
}
