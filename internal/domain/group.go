package domain

import "github.com/tsalagi-lab/sequoyah/internal/domain/search/request"

// SentenceGroup is a named manual grouping of sentences. A group exists
// iff it has at least one member; there is no separate group entity.
type SentenceGroup struct {
	Name    string
	Members []string // ref_ids
}

// TaggingGroup is a saved search-plus-tagging preset: the filter request
// to replay and the tag vocabulary intended for the session. Name is
// unique (upsert key); RefID is a generated stable session identifier.
type TaggingGroup struct {
	RefID string          `json:"ref_id"`
	Name  string          `json:"name"`
	Tags  []string        `json:"tags"`
	Query request.Request `json:"query"`
}
