package llm

import (
	"context"
	"fmt"
)

// NewProvider builds the configured provider and wraps it with retry.
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case "gemini":
		p, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openai":
		p, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		p, err = NewAnthropicProvider(cfg.Anthropic)
	case "mock":
		p = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return WithRetry(p, cfg.Retry), nil
}
