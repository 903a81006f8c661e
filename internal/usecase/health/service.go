// Package health aggregates component availability checks. The tagger
// is optional infrastructure: the API keeps serving plain-text search
// when it is down, so its failure degrades the report rather than
// failing it.
package health

import "context"

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
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store    StorePinger
	analyzer AnalyzerChecker
}

// New creates a Service. analyzer can be nil.
func New(store StorePinger, analyzer AnalyzerChecker) *Service {
	return &Service{store: store, analyzer: analyzer}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.store.Ping(ctx); err != nil {
		checks["store"] = CheckError
	} else {
		checks["store"] = CheckOK
	}

	if s.analyzer != nil {
		if err := s.analyzer.HealthCheck(ctx); err != nil {
			checks["analyzer"] = CheckError
		} else {
			checks["analyzer"] = CheckOK
		}
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
