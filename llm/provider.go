package llm

import (
	"context"
	"fmt"

	"github.com/mdbplc/advisor/config"
	"github.com/mdbplc/advisor/schema"
)

// Provider generates a completion from an ordered message list. Failures
// surface as errors; callers map them to user-facing text.
type Provider interface {
	Chat(ctx context.Context, messages []schema.ChatMessage) (string, error)
	GetProviderType() string
}

func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai", "":
		return newOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
