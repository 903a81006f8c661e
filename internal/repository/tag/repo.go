// Package tag persists word-level annotations: one hash per sentence,
// field = word index, value = label. At most one tag per word position.
package tag

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tsalagi-lab/sequoyah/internal/domain"
)

// store is the consumer interface for word tags (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) (int64, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the tag store contract.
type Repo struct {
	store  store
	prefix string
}

// New creates a tag repository.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) key(refID string) string {
	return r.prefix + "tags:" + refID
}

// Upsert creates or replaces the tag at (refID, wordIndex).
func (r *Repo) Upsert(ctx context.Context, refID string, wordIndex int, tag string) error {
	fields := map[string]string{strconv.Itoa(wordIndex): tag}
	if err := r.store.HSet(ctx, r.key(refID), fields); err != nil {
		return fmt.Errorf("upsert tag %s[%d]: %w", refID, wordIndex, err)
	}
	return nil
}

// Remove deletes the tag at (refID, wordIndex), returning how many
// entries existed (0 or 1). Absent keys are not an error.
func (r *Repo) Remove(ctx context.Context, refID string, wordIndex int) (int, error) {
	n, err := r.store.HDel(ctx, r.key(refID), strconv.Itoa(wordIndex))
	if err != nil {
		return 0, fmt.Errorf("remove tag %s[%d]: %w", refID, wordIndex, err)
	}
	return int(n), nil
}

// List returns all tags for one sentence, sorted by word index.
func (r *Repo) List(ctx context.Context, refID string) ([]domain.WordTag, error) {
	fields, err := r.store.HGetAll(ctx, r.key(refID))
	if err != nil {
		return nil, fmt.Errorf("list tags %s: %w", refID, err)
	}
	return tagsFromHash(refID, fields), nil
}

// ListForSentences fetches tags for a page of sentences in one
// round-trip. Every requested ref_id appears in the result map, with
// an empty (non-nil) slice when untagged.
func (r *Repo) ListForSentences(ctx context.Context, refIDs []string) (map[string][]domain.WordTag, error) {
	out := make(map[string][]domain.WordTag, len(refIDs))
	if len(refIDs) == 0 {
		return out, nil
	}

	keys := make([]string, len(refIDs))
	for i, id := range refIDs {
		keys[i] = r.key(id)
	}

	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	for i, fields := range rows {
		out[refIDs[i]] = tagsFromHash(refIDs[i], fields)
	}
	return out, nil
}

// TaggedRefIDs returns the ref_id of every sentence that has at least
// one stored tag hash, including orphans whose sentence is gone.
func (r *Repo) TaggedRefIDs(ctx context.Context) ([]string, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"tags:*")
	if err != nil {
		return nil, fmt.Errorf("scan tags: %w", err)
	}
	refIDs := make([]string, 0, len(keys))
	for _, key := range keys {
		refIDs = append(refIDs, strings.TrimPrefix(key, r.prefix+"tags:"))
	}
	sort.Strings(refIDs)
	return refIDs, nil
}

// Summary returns the distinct labels and total tag count for one
// sentence, the inputs to the denormalized filter columns.
func (r *Repo) Summary(ctx context.Context, refID string) (labels []string, count int, err error) {
	fields, err := r.store.HGetAll(ctx, r.key(refID))
	if err != nil {
		return nil, 0, fmt.Errorf("tag summary %s: %w", refID, err)
	}

	seen := make(map[string]bool, len(fields))
	for _, label := range fields {
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	return labels, len(fields), nil
}

func tagsFromHash(refID string, fields map[string]string) []domain.WordTag {
	tags := make([]domain.WordTag, 0, len(fields))
	for idx, label := range fields {
		wordIndex, err := strconv.Atoi(idx)
		if err != nil {
			continue // foreign field, not a word position
		}
		tags = append(tags, domain.WordTag{RefID: refID, WordIndex: wordIndex, Tag: label})
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].WordIndex < tags[j].WordIndex })
	return tags
}
