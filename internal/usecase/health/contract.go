package health

import "context"

// StorePinger checks search store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// AnalyzerChecker checks dependency-tagger availability.
type AnalyzerChecker interface {
	HealthCheck(ctx context.Context) error
}
