// Package health aggregates component health checks.
package health

import "context"

// UpstreamPinger checks search service reachability.
type UpstreamPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckDisabled indicates a component that is not configured.
	CheckDisabled CheckResult = "disabled"
)

// Report aggregates health check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks. The upstream check is plain
// reachability: queries need a caller-supplied API key, which the
// server never holds, but any HTTP response proves the service is up.
type Service struct {
	upstream  UpstreamPinger
	embedding EmbeddingChecker
}

// New creates a Service. upstream and embedding can be nil.
func New(upstream UpstreamPinger, embedding EmbeddingChecker) *Service {
	return &Service{upstream: upstream, embedding: embedding}
}

// Check runs health checks against all configured components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.upstream == nil {
		checks["upstream"] = CheckDisabled
	} else if err := s.upstream.Ping(ctx); err != nil {
		checks["upstream"] = CheckError
	} else {
		checks["upstream"] = CheckOK
	}

	if s.embedding == nil {
		checks["embedding"] = CheckDisabled
	} else if err := s.embedding.HealthCheck(ctx); err != nil {
		checks["embedding"] = CheckError
	} else {
		checks["embedding"] = CheckOK
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
