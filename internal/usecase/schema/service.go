// Package schema implements the collection schema probe backing the
// frontend's schema inspection panel.
package schema

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/starpoint-ai/image-search-demo/internal/domain"
	domschema "github.com/starpoint-ai/image-search-demo/internal/domain/schema"
)

// sampleSize is the number of records sampled to infer field types.
const sampleSize = 10

// Querier executes queries against the hosted search service.
type Querier interface {
	Query(
		ctx context.Context, apiKey, collection string,
		embedding []float32, sql string,
	) (*domain.QueryResponse, error)
}

// Service infers a collection's metadata schema from a small sample.
type Service struct {
	querier Querier
}

// New creates a schema service.
func New(querier Querier) *Service {
	return &Service{querier: querier}
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Inspect samples a few records from the collection and infers the
// field schema. Reserved fields are excluded by inference.
func (s *Service) Inspect(ctx context.Context, apiKey, collection string) (domschema.Schema, error) {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(collection) == "" {
		return domschema.Schema{}, domain.ErrMissingCredentials
	}
	if !identRe.MatchString(collection) {
		return domschema.Schema{}, fmt.Errorf(
			"%w: collection name %q cannot be probed", domain.ErrInvalidFilter, collection,
		)
	}

	sql := fmt.Sprintf("SELECT * FROM %s LIMIT %d", collection, sampleSize)
	resp, err := s.querier.Query(ctx, apiKey, collection, nil, sql)
	if err != nil {
		return domschema.Schema{}, fmt.Errorf("probe collection: %w", err)
	}

	return domschema.Infer(resp.Results), nil
}
