// -----------------------------------------------------------------------
// Configuration - defaults -> file(s) -> env -> CLI overrides
// -----------------------------------------------------------------------

package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Logging     LoggingConfig    `toml:"logging"`
	Storage     StorageConfig    `toml:"storage"`
	GitHub      GitHubConfig     `toml:"github"`
	Gemini      GeminiConfig     `toml:"gemini"`
	Claude      ClaudeConfig     `toml:"claude"`
	LLM         LLMConfig        `toml:"llm"`
	Generation  GenerationConfig `toml:"generation"`
	Analysis    AnalysisConfig   `toml:"analysis"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration.
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"`
	ResetOnStartup bool   `toml:"reset_on_startup"`
}

// GitHubConfig contains source-hosting API configuration.
type GitHubConfig struct {
	Token             string  `toml:"token"`               // Personal access token (or REPODOC_GITHUB_TOKEN)
	RequestsPerSecond float64 `toml:"requests_per_second"` // Outbound API politeness limit (default: 5)
}

// GeminiConfig contains Google Gemini API configuration.
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`       // default: "gemini-2.5-flash"
	Timeout     string  `toml:"timeout"`     // duration string (default: "2m")
	Temperature float32 `toml:"temperature"` // default: 0.7
}

// ClaudeConfig contains Anthropic Claude API configuration.
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`       // default: "claude-sonnet-4-20250514"
	Timeout     string  `toml:"timeout"`     // duration string (default: "2m")
	Temperature float32 `toml:"temperature"` // default: 0.7
}

// LLMProvider identifies a completion provider.
type LLMProvider string

const (
	LLMProviderGemini LLMProvider = "gemini"
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig selects the default completion provider.
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider" validate:"oneof=gemini claude"`
}

// GenerationConfig controls the section generation orchestrator and the
// rate-limited completion client.
type GenerationConfig struct {
	MaxConcurrentGenerations int     `toml:"max_concurrent_generations" validate:"min=1"`
	RequestsPerMinute        int     `toml:"requests_per_minute" validate:"min=1"`
	RetryAttempts            int     `toml:"retry_attempts" validate:"min=1"`
	MaxTokensPerSection      int     `toml:"max_tokens_per_section" validate:"min=1"`
	MaxDailyTokens           int     `toml:"max_daily_tokens" validate:"min=1"`
	Temperature              float32 `toml:"temperature"`

	EnableRateLimiting      bool `toml:"enable_rate_limiting"`
	EnableQualityValidation bool `toml:"enable_quality_validation"`
	EnableCodeExtraction    bool `toml:"enable_code_extraction"`
	EnableTokenTracking     bool `toml:"enable_token_tracking"`

	// LanguageInstructions overrides the built-in per-language prompt
	// instruction fragments, keyed by language name.
	LanguageInstructions map[string]string `toml:"language_instructions"`

	MinContentLength int `toml:"min_content_length"`
	MaxContentLength int `toml:"max_content_length"`
}

// AnalysisConfig controls the repository analysis engine.
type AnalysisConfig struct {
	CacheTTL          string `toml:"cache_ttl"`           // duration string (default: "24h")
	MaxImportantFiles int    `toml:"max_important_files"` // default: 20
}

// NewDefaultConfig returns a Config with production-safe defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/repodoc",
			},
		},
		GitHub: GitHubConfig{
			RequestsPerSecond: 5,
		},
		Gemini: GeminiConfig{
			Model:       "gemini-2.5-flash",
			Timeout:     "2m",
			Temperature: 0.7,
		},
		Claude: ClaudeConfig{
			Model:       "claude-sonnet-4-20250514",
			Timeout:     "2m",
			Temperature: 0.7,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderClaude,
		},
		Generation: GenerationConfig{
			MaxConcurrentGenerations: 3,
			RequestsPerMinute:        15,
			RetryAttempts:            3,
			MaxTokensPerSection:      4096,
			MaxDailyTokens:           1_000_000,
			Temperature:              0.7,
			EnableRateLimiting:       true,
			EnableQualityValidation:  true,
			EnableCodeExtraction:     true,
			EnableTokenTracking:      true,
			MinContentLength:         200,
			MaxContentLength:         8000,
		},
		Analysis: AnalysisConfig{
			CacheTTL:          "24h",
			MaxImportantFiles: 20,
		},
	}
}

// LoadFromFiles loads configuration from multiple TOML files with priority:
// defaults -> file1 -> file2 -> ... -> env. Later files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// applyEnvOverrides applies REPODOC_* environment variable overrides.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("REPODOC_ENV"); env != "" {
		config.Environment = env
	}
	if level := os.Getenv("REPODOC_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("REPODOC_LOG_OUTPUT"); output != "" {
		config.Logging.Output = strings.Split(output, ",")
	}
	if path := os.Getenv("REPODOC_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}
	if token := os.Getenv("REPODOC_GITHUB_TOKEN"); token != "" {
		config.GitHub.Token = token
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" && config.GitHub.Token == "" {
		config.GitHub.Token = token
	}
	if key := os.Getenv("REPODOC_GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" && config.Gemini.APIKey == "" {
		config.Gemini.APIKey = key
	}
	if key := os.Getenv("REPODOC_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" && config.Claude.APIKey == "" {
		config.Claude.APIKey = key
	}
	if provider := os.Getenv("REPODOC_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}
	if rpm := os.Getenv("REPODOC_REQUESTS_PER_MINUTE"); rpm != "" {
		if v, err := strconv.Atoi(rpm); err == nil {
			config.Generation.RequestsPerMinute = v
		}
	}
	if daily := os.Getenv("REPODOC_MAX_DAILY_TOKENS"); daily != "" {
		if v, err := strconv.Atoi(daily); err == nil {
			config.Generation.MaxDailyTokens = v
		}
	}
	if concurrent := os.Getenv("REPODOC_MAX_CONCURRENT"); concurrent != "" {
		if v, err := strconv.Atoi(concurrent); err == nil {
			config.Generation.MaxConcurrentGenerations = v
		}
	}
}
