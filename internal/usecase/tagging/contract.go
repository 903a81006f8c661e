package tagging

import (
	"context"

	"github.com/tsalagi-lab/sequoyah/internal/domain"
)

// TagRepository is the slice of the tag store this service mutates.
type TagRepository interface {
	Upsert(ctx context.Context, refID string, wordIndex int, tag string) error
	Remove(ctx context.Context, refID string, wordIndex int) (int, error)
	List(ctx context.Context, refID string) ([]domain.WordTag, error)
	Summary(ctx context.Context, refID string) (labels []string, count int, err error)
}

// SentenceRepository checks sentence existence and keeps the
// denormalized tag columns on the sentence hash in sync.
type SentenceRepository interface {
	Exists(ctx context.Context, refID string) (bool, error)
	SetTagSummary(ctx context.Context, refID string, labels []string, count int) error
}
