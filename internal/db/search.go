package db

import "github.com/tsalagi-lab/sequoyah/internal/domain/search/filter"

// TextQuery is the input for a scored, filtered, paginated FT.SEARCH.
//
// Text is the free-text part; empty Text with a non-empty filter means
// "match everything the filter admits". TextFields restricts the text
// part to the named columns; empty TextFields matches every TEXT column
// in the index. SortBy, when non-empty, replaces relevance ordering with
// a sortable-field sort.
type TextQuery struct {
	IndexName    string
	Text         string
	TextFields   []string
	Filters      filter.Expression
	SortBy       string
	SortDesc     bool
	WithScores   bool
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation. Total is the size of
// the full matching set, independent of Offset/Limit.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
