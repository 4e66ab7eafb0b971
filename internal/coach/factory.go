package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// mockAdvice is what the mock provider answers outside tests.
var mockAdvice = json.RawMessage(`{"summary":"Mock coach: no model was called.","tips":[],"next_focus":[]}`)

// NewProvider builds the configured provider wrapped as
// caller -> retry -> logging -> provider.
func NewProvider(ctx context.Context, cfg Config, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg)
	case ProviderMock:
		base = NewMockProvider(MockResponse{Content: mockAdvice})
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(WithLogging(base, cfg.Provider, logger), cfg.Retry, logger), nil
}
