// Package verse persists the legacy KJV verse corpus. Verse search is
// restricted to the primary text column by default, unlike sentence
// search which matches every TEXT column.
package verse

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tsalagi-lab/sequoyah/internal/db"
	"github.com/tsalagi-lab/sequoyah/internal/domain"
)

// Hash field names for verse records.
const (
	FieldID             = "id"
	FieldBook           = "book"
	FieldChapter        = "chapter"
	FieldNumber         = "number"
	FieldText           = "text"
	FieldLemmaText      = "lemma_text"
	FieldIsCommand      = "is_command"
	FieldIsHypothetical = "is_hypothetical"
)

// store is the consumer interface for verses (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	DelMulti(ctx context.Context, keys []string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	Search(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Repo implements the verse corpus store contract.
type Repo struct {
	store  store
	prefix string
}

// New creates a verse repository.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// IndexName returns the FT index name queried by Search.
func (r *Repo) IndexName() string {
	return r.prefix + "verses:idx"
}

func (r *Repo) key(id string) string {
	return r.prefix + "verse:" + id
}

// EnsureIndex creates the verse index if it does not exist.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.IndexName())
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		return nil
	}

	def := db.NewIndex(r.IndexName()).
		Prefix(r.prefix + "verse:").
		Text(FieldText).
		Text(FieldLemmaText).
		Tag(FieldBook).
		NumericSortable(FieldChapter).
		NumericSortable(FieldNumber).
		Tag(FieldIsCommand).
		Tag(FieldIsHypothetical).
		MustBuild()

	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// UpsertMulti writes a batch of verses in one round-trip.
func (r *Repo) UpsertMulti(ctx context.Context, verses []domain.Verse) error {
	if len(verses) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, len(verses))
	for i := range verses {
		items[i] = db.HashSetItem{Key: r.key(verses[i].ID), Fields: toFields(&verses[i])}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("upsert verses: %w", err)
	}
	return nil
}

// TruncateAll deletes every verse key.
func (r *Repo) TruncateAll(ctx context.Context) (int, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"verse:*")
	if err != nil {
		return 0, fmt.Errorf("scan verses: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := r.store.DelMulti(ctx, keys); err != nil {
		return 0, fmt.Errorf("truncate verses: %w", err)
	}
	return len(keys), nil
}

// Search executes a composed text query against the verse index.
func (r *Repo) Search(ctx context.Context, q *db.TextQuery) ([]domain.Verse, []float64, int, error) {
	q.IndexName = r.IndexName()

	result, err := r.store.Search(ctx, q)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("search verses: %w", err)
	}

	verses := make([]domain.Verse, 0, len(result.Entries))
	scores := make([]float64, 0, len(result.Entries))
	for _, entry := range result.Entries {
		v := fromFields(entry.Fields)
		if v.ID == "" {
			v.ID = strings.TrimPrefix(entry.Key, r.prefix+"verse:")
		}
		verses = append(verses, v)
		scores = append(scores, entry.Score)
	}
	return verses, scores, result.Total, nil
}

func toFields(v *domain.Verse) map[string]string {
	fields := map[string]string{
		FieldID:        v.ID,
		FieldBook:      v.Book,
		FieldChapter:   strconv.Itoa(v.Chapter),
		FieldNumber:    strconv.Itoa(v.Number),
		FieldText:      v.Text,
		FieldLemmaText: v.LemmaText,
	}
	if v.IsCommand {
		fields[FieldIsCommand] = "1"
	} else {
		fields[FieldIsCommand] = "0"
	}
	if v.IsHypothetical {
		fields[FieldIsHypothetical] = "1"
	} else {
		fields[FieldIsHypothetical] = "0"
	}
	return fields
}

func fromFields(fields map[string]string) domain.Verse {
	chapter, _ := strconv.Atoi(fields[FieldChapter])
	number, _ := strconv.Atoi(fields[FieldNumber])
	return domain.Verse{
		ID:             fields[FieldID],
		Book:           fields[FieldBook],
		Chapter:        chapter,
		Number:         number,
		Text:           fields[FieldText],
		LemmaText:      fields[FieldLemmaText],
		IsCommand:      fields[FieldIsCommand] == "1",
		IsHypothetical: fields[FieldIsHypothetical] == "1",
	}
}
