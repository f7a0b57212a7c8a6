// Package vectordb abstracts the vector-similarity backends holding the
// knowledge base.
package vectordb

import (
	"context"
	"fmt"

	"github.com/mdbplc/advisor/config"
	"github.com/mdbplc/advisor/schema"
)

// VectorStoreProvider is the consumed interface of the vector backend:
// nearest-neighbour search plus metadata-filtered enumeration for the
// product-listing helpers.
type VectorStoreProvider interface {
	SearchDocs(ctx context.Context, vector []float32, opts *schema.SearchOptions) ([]schema.SearchResult, error)
	GetDocs(ctx context.Context, filter schema.Filter, limit int) ([]schema.Document, error)
	Close() error
}

// NewProvider builds the configured vector store.
func NewProvider(ctx context.Context, cfg *config.VectorDBConfig) (VectorStoreProvider, error) {
	switch cfg.Provider {
	case "", "milvus":
		return newMilvusStore(ctx, cfg)
	case "chroma":
		return newChromaStore(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported vectordb provider: %s", cfg.Provider)
	}
}
