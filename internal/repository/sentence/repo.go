// Package sentence persists corpus sentence records as Redis hashes
// behind an FT index keyed to the same identity space.
package sentence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tsalagi-lab/sequoyah/internal/db"
	"github.com/tsalagi-lab/sequoyah/internal/domain"
)

// store is the consumer interface for sentence records (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	DelMulti(ctx context.Context, keys []string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	Search(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo implements the corpus store contract for sentences.
type Repo struct {
	store  store
	prefix string
}

// New creates a sentence repository. prefix namespaces every key and
// the index name.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// IndexName returns the FT index name queried by Search.
func (r *Repo) IndexName() string {
	return r.prefix + "sentences:idx"
}

func (r *Repo) key(refID string) string {
	return r.prefix + "sentence:" + refID
}

func (r *Repo) refIDFromKey(key string) string {
	return strings.TrimPrefix(key, r.prefix+"sentence:")
}

// indexDefinition describes the sentence index schema. TEXT columns
// carry the three parallel representations plus the lemma column;
// everything else is a TAG or NUMERIC filter dimension.
func (r *Repo) indexDefinition() *db.IndexDefinition {
	return db.NewIndex(r.IndexName()).
		Prefix(r.prefix + "sentence:").
		TagSortable(FieldRefID).
		Text(FieldEnglish).
		Text(FieldSyllabary).
		Text(FieldLemmaText).
		Tag(FieldIsCommand).
		Tag(FieldIsHypothetical).
		Tag(FieldIsInability).
		TagWithOpts(FieldSubclauseTypes, ",", false).
		Tag(FieldHasSubclause).
		NumericSortable(FieldSyllabaryLen).
		Tag(FieldTagLabels).
		Numeric(FieldTagCount).
		MustBuild()
}

// EnsureIndex creates the sentence index if it does not exist.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.IndexName())
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		return nil
	}
	if err := r.store.CreateIndex(ctx, r.indexDefinition()); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// RebuildIndex drops and recreates the sentence index. Exclusive
// maintenance path used by the ingest binary only.
func (r *Repo) RebuildIndex(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, r.IndexName()); err != nil && !isIndexMissing(err) {
		return fmt.Errorf("drop index: %w", err)
	}
	if err := r.store.CreateIndex(ctx, r.indexDefinition()); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

func isIndexMissing(err error) bool {
	return errors.Is(err, db.ErrIndexNotFound)
}

// Upsert writes one sentence record. The tag summary columns are
// reset to zero; callers that re-ingest tagged sentences resync them
// afterwards via SetTagSummary.
func (r *Repo) Upsert(ctx context.Context, rec *domain.SentenceRecord) error {
	if err := r.store.HSet(ctx, r.key(rec.RefID), toFields(rec)); err != nil {
		return fmt.Errorf("upsert sentence %s: %w", rec.RefID, err)
	}
	return nil
}

// UpsertMulti writes a batch of records in one round-trip.
func (r *Repo) UpsertMulti(ctx context.Context, recs []domain.SentenceRecord) error {
	if len(recs) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, len(recs))
	for i := range recs {
		items[i] = db.HashSetItem{
			Key:    r.key(recs[i].RefID),
			Fields: toFields(&recs[i]),
		}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("upsert sentences: %w", err)
	}
	return nil
}

// Exists reports whether a sentence hash is stored for ref_id.
func (r *Repo) Exists(ctx context.Context, refID string) (bool, error) {
	ok, err := r.store.Exists(ctx, r.key(refID))
	if err != nil {
		return false, fmt.Errorf("check sentence %s: %w", refID, err)
	}
	return ok, nil
}

// Count returns the number of indexed sentences.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.IndexName(), "*")
	if err != nil {
		return 0, fmt.Errorf("count sentences: %w", err)
	}
	return n, nil
}

// Get returns one sentence by ref_id.
func (r *Repo) Get(ctx context.Context, refID string) (domain.SentenceRecord, error) {
	fields, err := r.store.HGetAll(ctx, r.key(refID))
	if err != nil {
		return domain.SentenceRecord{}, fmt.Errorf("get sentence %s: %w", refID, err)
	}
	if len(fields) == 0 {
		return domain.SentenceRecord{}, domain.ErrSentenceNotFound
	}
	return fromFields(fields), nil
}

// GetMulti returns sentences for the given ref_ids, preserving order.
// Missing records are skipped.
func (r *Repo) GetMulti(ctx context.Context, refIDs []string) ([]domain.SentenceRecord, error) {
	if len(refIDs) == 0 {
		return nil, nil
	}
	keys := make([]string, len(refIDs))
	for i, id := range refIDs {
		keys[i] = r.key(id)
	}
	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("get sentences: %w", err)
	}
	out := make([]domain.SentenceRecord, 0, len(rows))
	for _, fields := range rows {
		if len(fields) == 0 {
			continue
		}
		out = append(out, fromFields(fields))
	}
	return out, nil
}

// Search executes a composed text query against the sentence index and
// maps hits back to records. The query's IndexName is filled in here.
func (r *Repo) Search(ctx context.Context, q *db.TextQuery) ([]domain.SentenceRecord, []float64, int, error) {
	q.IndexName = r.IndexName()

	result, err := r.store.Search(ctx, q)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("search sentences: %w", err)
	}

	recs := make([]domain.SentenceRecord, 0, len(result.Entries))
	scores := make([]float64, 0, len(result.Entries))
	for _, entry := range result.Entries {
		rec := fromFields(entry.Fields)
		if rec.RefID == "" {
			rec.RefID = r.refIDFromKey(entry.Key)
		}
		recs = append(recs, rec)
		scores = append(scores, entry.Score)
	}

	return recs, scores, result.Total, nil
}

// SetTagSummary rewrites the denormalized tag filter columns for one
// sentence. Labels are stored comma-joined as a TAG field whose
// separator is the comma, so labels themselves must not contain one;
// the tagging service rejects such labels. The count drives the
// untagged_only filter.
func (r *Repo) SetTagSummary(ctx context.Context, refID string, labels []string, count int) error {
	fields := map[string]string{
		FieldTagCount:  fmt.Sprintf("%d", count),
		FieldTagLabels: strings.Join(labels, ","),
	}
	if err := r.store.HSet(ctx, r.key(refID), fields); err != nil {
		return fmt.Errorf("set tag summary %s: %w", refID, err)
	}
	return nil
}

// TruncateAll deletes every sentence key. Tag hashes are preserved.
func (r *Repo) TruncateAll(ctx context.Context) (int, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"sentence:*")
	if err != nil {
		return 0, fmt.Errorf("scan sentences: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := r.store.DelMulti(ctx, keys); err != nil {
		return 0, fmt.Errorf("truncate sentences: %w", err)
	}
	return len(keys), nil
}
