// -----------------------------------------------------------------------
// Provider abstraction over completion backends (Claude, Gemini)
// -----------------------------------------------------------------------

package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/repodoc/internal/common"
)

// ProviderType represents the AI provider type.
type ProviderType string

const (
	// ProviderGemini uses Google Gemini API
	ProviderGemini ProviderType = "gemini"
	// ProviderClaude uses Anthropic Claude API
	ProviderClaude ProviderType = "claude"
)

// ContentRequest represents a provider-agnostic content generation request.
type ContentRequest struct {
	Prompt            string
	SystemInstruction string
	Model             string
	Temperature       float32
	MaxTokens         int
}

// ContentResponse represents a provider-agnostic content generation response.
type ContentResponse struct {
	Text     string
	Provider ProviderType
	Model    string
}

// Provider defines the interface for AI content generation. Providers return
// raw upstream results; error classification into transient/non-retryable is
// applied here so the rate-limited client can make retry decisions.
type Provider interface {
	GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error)
	GetProviderType() ProviderType
	Close() error
}

// ProviderFactory creates and caches AI providers. Safe for concurrent use:
// section generation fans out across goroutines that all resolve providers
// through one factory.
type ProviderFactory struct {
	geminiConfig *common.GeminiConfig
	claudeConfig *common.ClaudeConfig
	llmConfig    *common.LLMConfig
	logger       arbor.ILogger

	mu     sync.Mutex
	claude *ClaudeProvider
	gemini *GeminiProvider
}

// NewProviderFactory creates a new provider factory.
func NewProviderFactory(
	geminiConfig *common.GeminiConfig,
	claudeConfig *common.ClaudeConfig,
	llmConfig *common.LLMConfig,
	logger arbor.ILogger,
) *ProviderFactory {
	return &ProviderFactory{
		geminiConfig: geminiConfig,
		claudeConfig: claudeConfig,
		llmConfig:    llmConfig,
		logger:       logger,
	}
}

// DetectProvider determines the provider type from a model string.
// Model strings can be:
//   - "claude-sonnet-4-20250514" -> Claude
//   - "claude/claude-sonnet-4-20250514" -> Claude (with prefix)
//   - "gemini-2.5-flash" -> Gemini
//   - Empty string -> uses default provider from config
func (f *ProviderFactory) DetectProvider(model string) ProviderType {
	if model == "" {
		return ProviderType(f.llmConfig.DefaultProvider)
	}

	model = strings.ToLower(model)

	if strings.HasPrefix(model, "claude/") || strings.HasPrefix(model, "anthropic/") {
		return ProviderClaude
	}
	if strings.HasPrefix(model, "gemini/") || strings.HasPrefix(model, "google/") {
		return ProviderGemini
	}
	if strings.HasPrefix(model, "claude-") {
		return ProviderClaude
	}
	if strings.HasPrefix(model, "gemini-") {
		return ProviderGemini
	}

	return ProviderType(f.llmConfig.DefaultProvider)
}

// NormalizeModel removes a provider prefix from a model name if present.
func (f *ProviderFactory) NormalizeModel(model string) string {
	for _, prefix := range []string{"claude/", "anthropic/", "gemini/", "google/"} {
		if strings.HasPrefix(strings.ToLower(model), prefix) {
			return model[len(prefix):]
		}
	}
	return model
}

// GetProvider returns the provider for the given model string, creating it
// on first use.
func (f *ProviderFactory) GetProvider(ctx context.Context, model string) (Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.DetectProvider(model) {
	case ProviderClaude:
		if f.claude == nil {
			provider, err := NewClaudeProvider(f.claudeConfig, f.logger)
			if err != nil {
				return nil, fmt.Errorf("failed to create Claude provider: %w", err)
			}
			f.claude = provider
		}
		return f.claude, nil
	case ProviderGemini:
		if f.gemini == nil {
			provider, err := NewGeminiProvider(ctx, f.geminiConfig, f.logger)
			if err != nil {
				return nil, fmt.Errorf("failed to create Gemini provider: %w", err)
			}
			f.gemini = provider
		}
		return f.gemini, nil
	default:
		return nil, fmt.Errorf("unknown provider for model %q", model)
	}
}

// Close shuts down all created providers.
func (f *ProviderFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.claude != nil {
		if err := f.claude.Close(); err != nil {
			return err
		}
	}
	if f.gemini != nil {
		if err := f.gemini.Close(); err != nil {
			return err
		}
	}
	return nil
}
