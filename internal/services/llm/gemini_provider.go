package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/repodoc/internal/common"
	"github.com/ternarybob/repodoc/internal/models"
	"google.golang.org/genai"
)

// GeminiProvider implements the Provider interface using the Google Gemini API.
type GeminiProvider struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	timeout time.Duration
}

// NewGeminiProvider creates a new Gemini provider instance.
func NewGeminiProvider(ctx context.Context, geminiConfig *common.GeminiConfig, logger arbor.ILogger) (*GeminiProvider, error) {
	if geminiConfig.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required for Gemini provider (set GEMINI_API_KEY, REPODOC_GEMINI_API_KEY, or gemini.api_key in config)")
	}

	if geminiConfig.Model == "" {
		geminiConfig.Model = "gemini-2.5-flash"
	}

	timeout, err := time.ParseDuration(geminiConfig.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", geminiConfig.Timeout, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	provider := &GeminiProvider{
		config:  geminiConfig,
		logger:  logger,
		client:  client,
		timeout: timeout,
	}

	logger.Debug().
		Str("model", geminiConfig.Model).
		Dur("timeout", timeout).
		Msg("Gemini provider initialized")

	return provider, nil
}

// GenerateContent generates a completion for the given request.
func (p *GeminiProvider) GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	if strings.TrimSpace(request.Prompt) == "" {
		return nil, &models.NonRetryableError{Code: "empty_prompt", Err: fmt.Errorf("prompt cannot be empty")}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	model := request.Model
	if model == "" {
		model = p.config.Model
	}

	temperature := request.Temperature
	if temperature <= 0 {
		temperature = p.config.Temperature
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	}
	if request.MaxTokens > 0 {
		config.MaxOutputTokens = int32(request.MaxTokens)
	}
	if request.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(request.SystemInstruction, genai.RoleUser)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(request.Prompt, genai.RoleUser),
	}

	resp, err := p.client.Models.GenerateContent(timeoutCtx, model, contents, config)
	if err != nil {
		return nil, p.classifyError(err)
	}

	var text strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					text.WriteString(part.Text)
				}
			}
			if text.Len() > 0 {
				break
			}
		}
	}

	return &ContentResponse{
		Text:     text.String(),
		Provider: ProviderGemini,
		Model:    model,
	}, nil
}

// classifyError maps Gemini API errors onto the domain error taxonomy.
// The genai SDK does not expose structured status codes on every path, so
// classification falls back to message inspection for quota errors.
func (p *GeminiProvider) classifyError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "RESOURCE_EXHAUSTED"), strings.Contains(msg, "quota"):
		return &models.TransientError{StatusCode: 429, Err: err}
	case strings.Contains(msg, "500"), strings.Contains(msg, "503"), strings.Contains(msg, "UNAVAILABLE"), strings.Contains(msg, "INTERNAL"):
		return &models.TransientError{StatusCode: 500, Err: err}
	case strings.Contains(msg, "400"), strings.Contains(msg, "INVALID_ARGUMENT"):
		return &models.NonRetryableError{Code: "invalid_argument", Err: err}
	case strings.Contains(msg, "401"), strings.Contains(msg, "403"), strings.Contains(msg, "PERMISSION_DENIED"), strings.Contains(msg, "UNAUTHENTICATED"):
		return &models.NonRetryableError{Code: "auth", Err: err}
	default:
		return &models.TransientError{StatusCode: 0, Err: err}
	}
}

// GetProviderType returns ProviderGemini.
func (p *GeminiProvider) GetProviderType() ProviderType {
	return ProviderGemini
}

// Close releases resources. The genai client needs no explicit cleanup.
func (p *GeminiProvider) Close() error {
	p.logger.Debug().Msg("Closing Gemini provider")
	p.client = nil
	return nil
}
