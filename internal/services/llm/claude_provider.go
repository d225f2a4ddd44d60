package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/repodoc/internal/common"
	"github.com/ternarybob/repodoc/internal/models"
)

// ClaudeProvider implements the Provider interface using the Anthropic
// Claude API.
type ClaudeProvider struct {
	config  *common.ClaudeConfig
	logger  arbor.ILogger
	client  anthropic.Client
	timeout time.Duration
}

// NewClaudeProvider creates a new Claude provider instance.
func NewClaudeProvider(claudeConfig *common.ClaudeConfig, logger arbor.ILogger) (*ClaudeProvider, error) {
	if claudeConfig.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required for Claude provider (set ANTHROPIC_API_KEY, REPODOC_CLAUDE_API_KEY, or claude.api_key in config)")
	}

	if claudeConfig.Model == "" {
		claudeConfig.Model = "claude-sonnet-4-20250514"
	}

	timeout, err := time.ParseDuration(claudeConfig.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", claudeConfig.Timeout, err)
	}

	client := anthropic.NewClient(
		option.WithAPIKey(claudeConfig.APIKey),
	)

	provider := &ClaudeProvider{
		config:  claudeConfig,
		logger:  logger,
		client:  client,
		timeout: timeout,
	}

	logger.Debug().
		Str("model", claudeConfig.Model).
		Dur("timeout", timeout).
		Float32("temperature", claudeConfig.Temperature).
		Msg("Claude provider initialized")

	return provider, nil
}

// GenerateContent generates a completion for the given request. Upstream
// failures are classified into models.TransientError (retryable) or
// models.NonRetryableError before being returned.
func (p *ClaudeProvider) GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	if strings.TrimSpace(request.Prompt) == "" {
		return nil, &models.NonRetryableError{Code: "empty_prompt", Err: fmt.Errorf("prompt cannot be empty")}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	model := request.Model
	if model == "" {
		model = p.config.Model
	}

	params := anthropic.MessageNewParams{
		Model: anthropic.Model(model),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(request.Prompt)),
		},
	}

	maxTokens := request.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	params.MaxTokens = int64(maxTokens)

	temperature := request.Temperature
	if temperature <= 0 {
		temperature = p.config.Temperature
	}
	if temperature > 0 {
		params.Temperature = anthropic.Float(float64(temperature))
	}

	if request.SystemInstruction != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: request.SystemInstruction},
		}
	}

	resp, err := p.client.Messages.New(timeoutCtx, params)
	if err != nil {
		return nil, p.classifyError(err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &ContentResponse{
		Text:     text.String(),
		Provider: ProviderClaude,
		Model:    model,
	}, nil
}

// classifyError maps Anthropic SDK errors onto the domain error taxonomy.
// Cancellation passes through unchanged so callers never retry it.
func (p *ClaudeProvider) classifyError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		if isTransientStatus(apierr.StatusCode) {
			return &models.TransientError{StatusCode: apierr.StatusCode, Err: err}
		}
		return &models.NonRetryableError{Code: fmt.Sprintf("http_%d", apierr.StatusCode), Err: err}
	}

	// Network-level failures without an HTTP status are treated as transient.
	return &models.TransientError{StatusCode: 0, Err: err}
}

// GetProviderType returns ProviderClaude.
func (p *ClaudeProvider) GetProviderType() ProviderType {
	return ProviderClaude
}

// Close releases resources. The Anthropic client needs no explicit cleanup.
func (p *ClaudeProvider) Close() error {
	p.logger.Debug().Msg("Closing Claude provider")
	return nil
}
