package search

import (
	"context"

	"github.com/starpoint-ai/image-search-demo/internal/domain"
)

// Querier executes queries against the hosted search service.
type Querier interface {
	Query(
		ctx context.Context, apiKey, collection string,
		embedding []float32, sql string,
	) (*domain.QueryResponse, error)
}

// Embedder vectorizes query text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
