package tag

import (
	"context"
	"reflect"
	"testing"

	"github.com/tsalagi-lab/sequoyah/internal/domain"
)

func TestUpsert_WritesIndexedField(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotKey string
	var gotFields map[string]string
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		gotKey = key
		gotFields = fields
		return nil
	}

	if err := repo.Upsert(context.Background(), "GEN-1", 4, "subject"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "sequoyah:tags:GEN-1" {
		t.Errorf("unexpected key: %s", gotKey)
	}
	if gotFields["4"] != "subject" {
		t.Errorf("unexpected fields: %v", gotFields)
	}
}

func TestRemove_ReportsDeletedCount(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.hdelFn = func(_ context.Context, key string, fields ...string) (int64, error) {
		if key != "sequoyah:tags:GEN-1" || len(fields) != 1 || fields[0] != "2" {
			t.Errorf("unexpected call: %s %v", key, fields)
		}
		return 1, nil
	}

	n, err := repo.Remove(context.Background(), "GEN-1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1, got %d", n)
	}
}

func TestRemove_AbsentIsZeroNotError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hdelFn = func(_ context.Context, _ string, _ ...string) (int64, error) { return 0, nil }

	n, err := repo.Remove(context.Background(), "GEN-1", 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
}

func TestList_SortedByWordIndex(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return map[string]string{"10": "object", "2": "verb", "0": "subject"}, nil
	}

	tags, err := repo.List(context.Background(), "GEN-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.WordTag{
		{RefID: "GEN-1", WordIndex: 0, Tag: "subject"},
		{RefID: "GEN-1", WordIndex: 2, Tag: "verb"},
		{RefID: "GEN-1", WordIndex: 10, Tag: "object"},
	}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("unexpected tags:\n got %+v\nwant %+v", tags, want)
	}
}

func TestListForSentences_EmptySliceForUntagged(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hgetAllMultiF = func(_ context.Context, keys []string) ([]map[string]string, error) {
		return []map[string]string{
			{"0": "subject"},
			{}, // untagged sentence
		}, nil
	}

	got, err := repo.ListForSentences(context.Background(), []string{"A", "B"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got["A"]) != 1 {
		t.Errorf("unexpected tags for A: %+v", got["A"])
	}
	if got["B"] == nil || len(got["B"]) != 0 {
		t.Errorf("untagged sentence must map to empty non-nil slice, got %#v", got["B"])
	}
}

func TestSummary_DistinctSortedLabels(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return map[string]string{"0": "verb", "1": "subject", "2": "verb"}, nil
	}

	labels, count, err := repo.Summary(context.Background(), "GEN-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}
	if !reflect.DeepEqual(labels, []string{"subject", "verb"}) {
		t.Errorf("unexpected labels: %v", labels)
	}
}

func TestTaggedRefIDs_StripsPrefixAndSorts(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "sequoyah:tags:*" {
			t.Errorf("unexpected pattern: %s", pattern)
		}
		return []string{"sequoyah:tags:GEN-2", "sequoyah:tags:GEN-1"}, nil
	}

	refIDs, err := repo.TaggedRefIDs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(refIDs, []string{"GEN-1", "GEN-2"}) {
		t.Errorf("unexpected ref_ids: %v", refIDs)
	}
}

func TestTagsFromHash_SkipsNonNumericFields(t *testing.T) {
	tags := tagsFromHash("X", map[string]string{"0": "subject", "meta": "junk"})
	if len(tags) != 1 || tags[0].WordIndex != 0 {
		t.Errorf("unexpected tags: %+v", tags)
	}
}
