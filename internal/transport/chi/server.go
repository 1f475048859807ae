package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/starpoint-ai/image-search-demo/internal/domain"
	logpkg "github.com/starpoint-ai/image-search-demo/internal/logger"
	healthuc "github.com/starpoint-ai/image-search-demo/internal/usecase/health"
	schemauc "github.com/starpoint-ai/image-search-demo/internal/usecase/schema"
	searchuc "github.com/starpoint-ai/image-search-demo/internal/usecase/search"
)

// ErrorCode identifies an API error category.
type ErrorCode string

const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeMissingCredentials ErrorCode = "missing_credentials"
	CodeInvalidFilter      ErrorCode = "invalid_filter"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeCollectionNotFound ErrorCode = "collection_not_found"
	CodeUpstreamError      ErrorCode = "upstream_error"
	CodeEmbeddingError     ErrorCode = "embedding_error"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body for all API routes.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the search proxy HTTP API.
type Server struct {
	search        *searchuc.Service
	schema        *schemauc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	schema *schemauc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search: search,
		schema: schema,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrMissingCredentials, http.StatusBadRequest, CodeMissingCredentials),
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, CodeBadRequest),
		sentinelHandler(domain.ErrInvalidFilter, http.StatusBadRequest, CodeInvalidFilter),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized),
		sentinelHandler(domain.ErrCollectionNotFound, http.StatusNotFound, CodeCollectionNotFound),
		sentinelHandler(domain.ErrEmbeddingNotConfigured, http.StatusBadRequest, CodeEmbeddingError),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingError),
		upstreamStatusHandler,
		sentinelHandler(domain.ErrUpstreamError, http.StatusBadGateway, CodeUpstreamError),
	}
	return s
}

// Routes registers the API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/search", s.SearchImages)
	r.Post("/api/schema", s.InspectSchema)
	r.Get("/health", s.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// SearchImages handles POST /api/search.
func (s *Server) SearchImages(w http.ResponseWriter, r *http.Request) {
	var query domain.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	resp, err := s.search.Search(r.Context(), &query)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// schemaRequest is the body of POST /api/schema.
type schemaRequest struct {
	APIKey         string `json:"api_key"`
	CollectionName string `json:"collection_name"`
}

// InspectSchema handles POST /api/schema.
func (s *Server) InspectSchema(w http.ResponseWriter, r *http.Request) {
	var req schemaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	schema, err := s.schema.Inspect(r.Context(), req.APIKey, req.CollectionName)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, schema)
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrMissingCredentials,
		domain.ErrEmptyQuery,
		domain.ErrInvalidFilter,
		domain.ErrUnauthorized,
		domain.ErrCollectionNotFound,
		domain.ErrEmbeddingNotConfigured,
		domain.ErrEmbeddingProviderError,
		domain.ErrUpstreamError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// upstreamStatusHandler surfaces the upstream HTTP status alongside the error.
func upstreamStatusHandler(w http.ResponseWriter, err error, msg string) bool {
	var use *domain.UpstreamStatusError
	if !errors.As(err, &use) {
		return false
	}
	writeJSON(w, http.StatusBadGateway, map[string]any{
		"code":            CodeUpstreamError,
		"message":         msg,
		"upstream_status": use.Status,
	})
	return true
}

// handleDomainError logs with the request-scoped logger so the
// request_id from the wide-event middleware stays attached.
func (s *Server) handleDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logpkg.FromContextOr(ctx, s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
