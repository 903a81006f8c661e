package search

import (
	"context"

	"github.com/tsalagi-lab/sequoyah/internal/db"
	"github.com/tsalagi-lab/sequoyah/internal/domain"
)

// SentenceRepository executes composed queries against the sentence index.
type SentenceRepository interface {
	Search(ctx context.Context, q *db.TextQuery) ([]domain.SentenceRecord, []float64, int, error)
}

// VerseRepository executes composed queries against the verse index.
type VerseRepository interface {
	Search(ctx context.Context, q *db.TextQuery) ([]domain.Verse, []float64, int, error)
}

// TagReader fetches word tags for a page of sentences.
type TagReader interface {
	ListForSentences(ctx context.Context, refIDs []string) (map[string][]domain.WordTag, error)
}
