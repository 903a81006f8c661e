// Package verbstat persists per-verb-form counts computed by the
// hypothetical-verb analysis pass.
package verbstat

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tsalagi-lab/sequoyah/internal/db"
	"github.com/tsalagi-lab/sequoyah/internal/domain"
)

// Hash field names for verb statistics.
const (
	FieldForm           = "form"
	FieldSubclauseCount = "subclause_count"
	FieldMatrixCount    = "matrix_count"
	FieldTotalCount     = "total_count"
)

// store is the consumer interface for verb statistics (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	DelMulti(ctx context.Context, keys []string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	Search(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Repo implements the verb-statistics store contract.
type Repo struct {
	store  store
	prefix string
}

// New creates a verbstat repository.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// IndexName returns the FT index name queried by Top.
func (r *Repo) IndexName() string {
	return r.prefix + "verbstats:idx"
}

func (r *Repo) key(form string) string {
	return r.prefix + "verbstat:" + form
}

// EnsureIndex creates the verbstat index if it does not exist.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.IndexName())
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		return nil
	}

	def := db.NewIndex(r.IndexName()).
		Prefix(r.prefix + "verbstat:").
		Tag(FieldForm).
		Numeric(FieldSubclauseCount).
		Numeric(FieldMatrixCount).
		NumericSortable(FieldTotalCount).
		MustBuild()

	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Replace truncates existing statistics and writes the new set.
func (r *Repo) Replace(ctx context.Context, stats []domain.VerbStat) error {
	old, err := r.store.Scan(ctx, r.prefix+"verbstat:*")
	if err != nil {
		return fmt.Errorf("scan verbstats: %w", err)
	}
	if len(old) > 0 {
		if err := r.store.DelMulti(ctx, old); err != nil {
			return fmt.Errorf("truncate verbstats: %w", err)
		}
	}

	if len(stats) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(stats))
	for i, st := range stats {
		items[i] = db.HashSetItem{
			Key: r.key(st.Form),
			Fields: map[string]string{
				FieldForm:           st.Form,
				FieldSubclauseCount: strconv.Itoa(st.SubclauseCount),
				FieldMatrixCount:    strconv.Itoa(st.MatrixCount),
				FieldTotalCount:     strconv.Itoa(st.TotalCount),
			},
		}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("write verbstats: %w", err)
	}
	return nil
}

// Top returns the most frequent verb forms, ordered by total count
// descending.
func (r *Repo) Top(ctx context.Context, limit int) ([]domain.VerbStat, error) {
	q := &db.TextQuery{
		IndexName: r.IndexName(),
		SortBy:    FieldTotalCount,
		SortDesc:  true,
		Limit:     limit,
	}

	result, err := r.store.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("top verbstats: %w", err)
	}

	out := make([]domain.VerbStat, 0, len(result.Entries))
	for _, entry := range result.Entries {
		sub, _ := strconv.Atoi(entry.Fields[FieldSubclauseCount])
		matrix, _ := strconv.Atoi(entry.Fields[FieldMatrixCount])
		total, _ := strconv.Atoi(entry.Fields[FieldTotalCount])
		out = append(out, domain.VerbStat{
			Form:           entry.Fields[FieldForm],
			SubclauseCount: sub,
			MatrixCount:    matrix,
			TotalCount:     total,
		})
	}
	return out, nil
}
