package search

import (
	"context"
	"fmt"

	"github.com/starpoint-ai/image-search-demo/internal/domain"
	"github.com/starpoint-ai/image-search-demo/internal/domain/search/sqlfilter"
	"github.com/starpoint-ai/image-search-demo/internal/metrics"
)

// Service handles natural-language image search against the hosted service.
type Service struct {
	querier Querier
	embed   Embedder
}

// New creates a search service. embed can be nil when no embedding
// provider is configured; SQL-only queries still work.
func New(querier Querier, embed Embedder) *Service {
	return &Service{querier: querier, embed: embed}
}

// Search validates the query, embeds its text when present, and
// forwards it to the search service. The upstream response is returned
// verbatim: result order, reserved fields, and the echoed sql are
// passed through untouched.
func (s *Service) Search(ctx context.Context, q *domain.SearchQuery) (*domain.QueryResponse, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	sql, err := sqlfilter.Normalize(q.SQL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidFilter, err)
	}

	var embedding []float32
	if q.HasQueryText() {
		if s.embed == nil {
			return nil, domain.ErrEmbeddingNotConfigured
		}
		embResult, err := s.embed.Embed(ctx, q.Query)
		if err != nil {
			return nil, fmt.Errorf("vectorize query: %w", err)
		}
		embedding = embResult.Embedding
	}

	resp, err := s.querier.Query(ctx, q.APIKey, q.CollectionName, embedding, sql)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	metrics.SearchResultsReturned.Observe(float64(len(resp.Results)))

	return resp, nil
}
