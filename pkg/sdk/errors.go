package sequoyah

import "github.com/tsalagi-lab/sequoyah/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound            = domain.ErrNotFound
	ErrSentenceNotFound    = domain.ErrSentenceNotFound
	ErrInvalidRequest      = domain.ErrInvalidRequest
	ErrAnalyzerUnavailable = domain.ErrAnalyzerUnavailable
)
