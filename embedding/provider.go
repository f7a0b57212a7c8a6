// Package embedding converts query text into vectors for the vector
// backend.
package embedding

import (
	"context"
	"fmt"

	"github.com/mdbplc/advisor/config"
)

// Provider produces an embedding vector for a piece of text.
type Provider interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
	GetProviderType() string
}

// NewProvider builds the configured embedding provider.
func NewProvider(cfg config.EmbeddingConfig) (Provider, error) {
	switch cfg.Provider {
	case "", "openai":
		return newOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
