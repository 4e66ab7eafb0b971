package coach

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in configuration.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

// defaultModels holds the friendly default model per provider.
var defaultModels = map[string]string{
	ProviderAnthropic:  "claude-haiku",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderOpenRouter: "google/gemini-2.0-flash-exp",
	ProviderGemini:     "gemini-flash",
	ProviderMock:       "mock",
}

// discoveryOrder is the order in which standard API key variables are
// probed when no provider is configured.
var discoveryOrder = []string{ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter}

// Config selects and configures one provider.
type Config struct {
	Provider string
	Model    string
	APIKey   string

	// BaseURL overrides the provider endpoint. Optional.
	BaseURL string

	Retry RetryConfig

	// Timeout bounds a whole Advise call including retries.
	Timeout time.Duration
}

// RetryConfig configures retries of transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig returns the default retry policy.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Second,
		MaxWait:     10 * time.Second,
		Multiplier:  2.0,
	}
}

// ConfigFromEnv builds a Config for provider and model. Empty values fall
// back to defaults. The API key comes from INKDRILL_<PROVIDER>_API_KEY or
// the provider's standard <PROVIDER>_API_KEY variable. With no provider
// named, the first provider with a standard key set is used.
func ConfigFromEnv(provider, model string) (Config, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		provider = discoverProvider()
		if provider == "" {
			return Config{}, ErrDisabled
		}
	}

	cfg := Config{
		Provider: provider,
		Model:    model,
		APIKey:   apiKeyFromEnv(provider),
		BaseURL:  os.Getenv("INKDRILL_COACH_BASE_URL"),
		Retry:    DefaultRetryConfig(),
		Timeout:  60 * time.Second,
	}
	if cfg.Model == "" {
		cfg.Model = defaultModels[provider]
	}
	return cfg, cfg.Validate()
}

// Validate checks that the provider is known and has its API key.
func (c Config) Validate() error {
	if _, ok := defaultModels[c.Provider]; !ok {
		return fmt.Errorf("unknown coach provider: %q", c.Provider)
	}
	if c.Provider != ProviderMock && c.APIKey == "" {
		return fmt.Errorf("%s is required for the %s provider", envKey(c.Provider), c.Provider)
	}
	return nil
}

func discoverProvider() string {
	for _, p := range discoveryOrder {
		if os.Getenv(strings.ToUpper(p)+"_API_KEY") != "" {
			return p
		}
	}
	return ""
}

func apiKeyFromEnv(provider string) string {
	if k := os.Getenv(envKey(provider)); k != "" {
		return k
	}
	return os.Getenv(strings.ToUpper(provider) + "_API_KEY")
}

func envKey(provider string) string {
	return "INKDRILL_" + strings.ToUpper(provider) + "_API_KEY"
}
