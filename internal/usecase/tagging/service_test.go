package tagging

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/tsalagi-lab/sequoyah/internal/domain"
)

type mockTags struct {
	upsertErr   error
	removeCount int
	removeErr   error
	list        []domain.WordTag
	listErr     error
	labels      []string
	count       int
	summaryErr  error

	upsertCalls []domain.WordTag
	removeCalls int
}

func (m *mockTags) Upsert(_ context.Context, refID string, wordIndex int, tag string) error {
	m.upsertCalls = append(m.upsertCalls, domain.WordTag{RefID: refID, WordIndex: wordIndex, Tag: tag})
	return m.upsertErr
}

func (m *mockTags) Remove(_ context.Context, _ string, _ int) (int, error) {
	m.removeCalls++
	return m.removeCount, m.removeErr
}

func (m *mockTags) List(_ context.Context, _ string) ([]domain.WordTag, error) {
	return m.list, m.listErr
}

func (m *mockTags) Summary(_ context.Context, _ string) ([]string, int, error) {
	return m.labels, m.count, m.summaryErr
}

type mockSentences struct {
	missing     bool
	existsErr   error
	summaryErr  error
	lastRefID   string
	lastLabels  []string
	lastCount   int
	summarySync int
}

func (m *mockSentences) Exists(_ context.Context, _ string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return !m.missing, nil
}

func (m *mockSentences) SetTagSummary(_ context.Context, refID string, labels []string, count int) error {
	m.summarySync++
	m.lastRefID = refID
	m.lastLabels = labels
	m.lastCount = count
	return m.summaryErr
}

func newTestService(tags *mockTags, sentences *mockSentences) *Service {
	return New(tags, sentences, zap.NewNop())
}

func TestUpsertTag(t *testing.T) {
	tags := &mockTags{labels: []string{"subject"}, count: 1}
	sentences := &mockSentences{}
	svc := newTestService(tags, sentences)

	err := svc.UpsertTag(context.Background(), "genesis-1", 2, "subject")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags.upsertCalls) != 1 {
		t.Fatalf("expected one upsert, got %d", len(tags.upsertCalls))
	}
	got := tags.upsertCalls[0]
	if got.RefID != "genesis-1" || got.WordIndex != 2 || got.Tag != "subject" {
		t.Errorf("unexpected upsert args: %+v", got)
	}
	if sentences.summarySync != 1 {
		t.Fatalf("expected one summary sync, got %d", sentences.summarySync)
	}
	if sentences.lastCount != 1 || len(sentences.lastLabels) != 1 {
		t.Errorf("unexpected summary written: labels=%v count=%d", sentences.lastLabels, sentences.lastCount)
	}
}

func TestUpsertTag_Validation(t *testing.T) {
	tests := []struct {
		name      string
		wordIndex int
		tag       string
	}{
		{"empty tag", 0, ""},
		{"negative index", -1, "subject"},
		{"comma in label", 0, "subject,verb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&mockTags{}, &mockSentences{})
			err := svc.UpsertTag(context.Background(), "genesis-1", tt.wordIndex, tt.tag)
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestUpsertTag_UnknownSentenceStoredWithoutSummary(t *testing.T) {
	tags := &mockTags{labels: []string{"subject"}, count: 1}
	sentences := &mockSentences{missing: true}
	svc := newTestService(tags, sentences)

	err := svc.UpsertTag(context.Background(), "not-ingested-yet", 0, "subject")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags.upsertCalls) != 1 {
		t.Fatalf("expected the tag to be stored, got %d upserts", len(tags.upsertCalls))
	}
	if sentences.summarySync != 0 {
		t.Error("must not write a summary onto a hash that does not exist")
	}
}

func TestRemoveTag_UnknownSentence(t *testing.T) {
	tags := &mockTags{removeCount: 1}
	sentences := &mockSentences{missing: true}
	svc := newTestService(tags, sentences)

	deleted, err := svc.RemoveTag(context.Background(), "not-ingested-yet", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected deleted=1, got %d", deleted)
	}
	if sentences.summarySync != 0 {
		t.Error("must not write a summary onto a hash that does not exist")
	}
}

func TestRemoveTag(t *testing.T) {
	tags := &mockTags{removeCount: 1}
	sentences := &mockSentences{}
	svc := newTestService(tags, sentences)

	deleted, err := svc.RemoveTag(context.Background(), "genesis-1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected deleted=1, got %d", deleted)
	}
	if sentences.summarySync != 1 {
		t.Errorf("expected summary sync after removal, got %d", sentences.summarySync)
	}
}

func TestRemoveTag_AbsentTagIsNotAnError(t *testing.T) {
	tags := &mockTags{removeCount: 0}
	sentences := &mockSentences{}
	svc := newTestService(tags, sentences)

	deleted, err := svc.RemoveTag(context.Background(), "genesis-1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected deleted=0, got %d", deleted)
	}
	if sentences.summarySync != 0 {
		t.Error("must not sync summary when nothing was removed")
	}
}

func TestListTags_EmptyNonNil(t *testing.T) {
	svc := newTestService(&mockTags{list: nil}, &mockSentences{})

	tags, err := svc.ListTags(context.Background(), "genesis-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tags == nil {
		t.Fatal("expected empty non-nil tag list")
	}
	if len(tags) != 0 {
		t.Errorf("expected no tags, got %+v", tags)
	}
}

func TestListTags_SentenceMissing(t *testing.T) {
	svc := newTestService(&mockTags{}, &mockSentences{missing: true})

	_, err := svc.ListTags(context.Background(), "nope")
	if !errors.Is(err, domain.ErrSentenceNotFound) {
		t.Fatalf("expected ErrSentenceNotFound, got %v", err)
	}
}

func TestUpsertTag_SummaryWriteFailure(t *testing.T) {
	tags := &mockTags{labels: []string{"subject"}, count: 1}
	sentences := &mockSentences{summaryErr: errors.New("write failed")}
	svc := newTestService(tags, sentences)

	err := svc.UpsertTag(context.Background(), "genesis-1", 0, "subject")
	if err == nil {
		t.Fatal("expected error when summary write fails")
	}
}
