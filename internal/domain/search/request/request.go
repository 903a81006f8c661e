// Package request defines the structured filter request the search core
// accepts: one free-text query plus the orthogonal filter dimensions.
// Dimensions combine with AND; multiple values inside the subclause
// dimension combine with OR. The JSON shape matches the API query
// parameters so tagging-group presets round-trip losslessly.
package request

import "fmt"

// Sort selects the result ordering.
type Sort string

const (
	// SortRelevance orders by BM25 score (default; undefined for an
	// empty query, which falls back to identity order).
	SortRelevance Sort = ""
	// SortLengthAsc orders by syllabary character length, shortest first.
	SortLengthAsc Sort = "length_asc"
	// SortLengthDesc orders by syllabary character length, longest first.
	SortLengthDesc Sort = "length_desc"
)

// ParseSort maps a raw sort parameter to a Sort. Unknown values fall
// back to relevance rather than erroring; the search core is
// permissive about dimension values.
func ParseSort(raw string) Sort {
	switch Sort(raw) {
	case SortLengthAsc:
		return SortLengthAsc
	case SortLengthDesc:
		return SortLengthDesc
	default:
		return SortRelevance
	}
}

// Request is a full search filter request.
type Request struct {
	Query    string `json:"q"`
	UseLemma bool   `json:"use_lemma,omitempty"`
	Sort     Sort   `json:"sort,omitempty"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`

	// Tri-state boolean dimensions: nil = dimension not filtered.
	IsCommand      *bool `json:"is_command,omitempty"`
	IsHypothetical *bool `json:"is_hypothetical,omitempty"`
	IsTimeClause   *bool `json:"is_time_clause,omitempty"`

	// SubclauseTypes values OR together; recognizes the fixed dependency
	// label vocabulary plus the meta-values "any" and "none".
	SubclauseTypes []string `json:"subclause_types,omitempty"`

	TagFilter    string `json:"tag,omitempty"`
	UntaggedOnly bool   `json:"untagged_only,omitempty"`
}

// HasFilters reports whether any filter dimension beyond the free-text
// query is set.
func (r *Request) HasFilters() bool {
	return r.IsCommand != nil ||
		r.IsHypothetical != nil ||
		r.IsTimeClause != nil ||
		len(r.SubclauseTypes) > 0 ||
		r.TagFilter != "" ||
		r.UntaggedOnly
}

// Validate rejects requests the search core cannot satisfy: negative
// pagination and the empty request (no query, no filters).
func (r *Request) Validate() error {
	if r.Limit < 0 {
		return fmt.Errorf("limit must be non-negative, got %d", r.Limit)
	}
	if r.Offset < 0 {
		return fmt.Errorf("offset must be non-negative, got %d", r.Offset)
	}
	if r.Query == "" && !r.HasFilters() {
		return fmt.Errorf("query or at least one filter is required")
	}
	return nil
}
