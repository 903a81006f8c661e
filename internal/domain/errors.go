package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrSentenceNotFound signals a missing sentence record.
	ErrSentenceNotFound = errors.New("sentence not found")
	// ErrInvalidRequest signals a malformed client request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrAnalyzerUnavailable signals that the external dependency tagger
	// could not be reached or returned garbage. Lemma-mode search must
	// propagate this rather than silently degrade to surface-text search.
	ErrAnalyzerUnavailable = errors.New("analyzer unavailable")
)
