package ingest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/tsalagi-lab/sequoyah/internal/analyzer"
	"github.com/tsalagi-lab/sequoyah/internal/domain"
)

type mockSentences struct {
	truncated    int
	truncateErr  error
	batches      [][]domain.SentenceRecord
	upsertErr    error
	rebuildCalls int
	rebuildErr   error
	summaries    map[string]int
	summaryErr   error
}

func (m *mockSentences) TruncateAll(_ context.Context) (int, error) {
	return m.truncated, m.truncateErr
}

func (m *mockSentences) UpsertMulti(_ context.Context, recs []domain.SentenceRecord) error {
	batch := make([]domain.SentenceRecord, len(recs))
	copy(batch, recs)
	m.batches = append(m.batches, batch)
	return m.upsertErr
}

func (m *mockSentences) SetTagSummary(_ context.Context, refID string, _ []string, count int) error {
	if m.summaries == nil {
		m.summaries = make(map[string]int)
	}
	m.summaries[refID] = count
	return m.summaryErr
}

func (m *mockSentences) RebuildIndex(_ context.Context) error {
	m.rebuildCalls++
	return m.rebuildErr
}

// mockTagReader serves the hash-per-sentence tag layout: each entry is
// one tagged sentence with its distinct labels and total count.
type mockTagReader struct {
	tagged  map[string][]string
	scanErr error
}

func (m *mockTagReader) TaggedRefIDs(_ context.Context) ([]string, error) {
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	refIDs := make([]string, 0, len(m.tagged))
	for refID := range m.tagged {
		refIDs = append(refIDs, refID)
	}
	sort.Strings(refIDs)
	return refIDs, nil
}

func (m *mockTagReader) Summary(_ context.Context, refID string) ([]string, int, error) {
	labels := m.tagged[refID]
	return labels, len(labels), nil
}

type mockParser struct {
	err   error
	calls int
}

// Parse returns a bare imperative parse for any input, enough to drive
// the classifiers deterministically.
func (m *mockParser) Parse(_ context.Context, text string) ([]analyzer.Token, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	words := strings.Fields(text)
	tokens := make([]analyzer.Token, len(words))
	for i, w := range words {
		dep := "dobj"
		if i == 0 {
			dep = "ROOT"
		}
		tokens[i] = analyzer.Token{
			Text:  w,
			Lower: strings.ToLower(w),
			Lemma: strings.ToLower(w),
			POS:   "VERB",
			Tag:   "VB",
			Dep:   dep,
		}
	}
	return tokens, nil
}

const testCorpus = `[
	{"id": "s-1", "english": "Come here", "syllabary": "ᎡᎯᏂ ᎡᎾ", "phonetic": "ehini ena", "audio": "s1.mp3"},
	{"id": "s-2", "english": "Go away", "syllabary": "ᎮᎾ", "phonetic": "hena"},
	{"english": "orphan without id"}
]`

func TestRun(t *testing.T) {
	sentences := &mockSentences{truncated: 7}
	parser := &mockParser{}
	svc := New(sentences, &mockTagReader{}, parser, zap.NewNop())

	stats, err := svc.Run(context.Background(), strings.NewReader(testCorpus))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.Loaded != 2 || stats.Skipped != 1 || stats.Truncated != 7 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if parser.calls != 2 {
		t.Errorf("expected 2 parse calls, got %d", parser.calls)
	}
	if len(sentences.batches) != 1 {
		t.Fatalf("expected one batch, got %d", len(sentences.batches))
	}
	if sentences.rebuildCalls != 1 {
		t.Errorf("expected one index rebuild, got %d", sentences.rebuildCalls)
	}

	rec := sentences.batches[0][0]
	if rec.RefID != "s-1" || rec.Audio != "s1.mp3" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.LemmaText != "come here" {
		t.Errorf("expected derived lemma text, got %q", rec.LemmaText)
	}
	if !rec.IsCommand {
		t.Error("expected imperative classification from the parse")
	}
}

func TestRun_BatchSplitting(t *testing.T) {
	sentences := &mockSentences{}
	svc := New(sentences, &mockTagReader{}, &mockParser{}, zap.NewNop())
	svc.batchSize = 2

	corpus := `[
		{"id": "a", "english": "one"},
		{"id": "b", "english": "two"},
		{"id": "c", "english": "three"}
	]`
	stats, err := svc.Run(context.Background(), strings.NewReader(corpus))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Loaded != 3 {
		t.Errorf("expected 3 loaded, got %d", stats.Loaded)
	}
	if len(sentences.batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(sentences.batches))
	}
	if len(sentences.batches[0]) != 2 || len(sentences.batches[1]) != 1 {
		t.Errorf("unexpected batch sizes: %d, %d", len(sentences.batches[0]), len(sentences.batches[1]))
	}
}

func TestRun_ResyncsSurvivingTagSummaries(t *testing.T) {
	sentences := &mockSentences{}
	tags := &mockTagReader{tagged: map[string][]string{
		"s-1":  {"subject", "verb"},
		"gone": {"object"},
	}}
	svc := New(sentences, tags, &mockParser{}, zap.NewNop())

	stats, err := svc.Run(context.Background(), strings.NewReader(testCorpus))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.Resynced != 1 {
		t.Errorf("expected 1 resynced summary, got %d", stats.Resynced)
	}
	if count, ok := sentences.summaries["s-1"]; !ok || count != 2 {
		t.Errorf("expected s-1 summary with count 2, got %v (present=%v)", count, ok)
	}
	if _, ok := sentences.summaries["gone"]; ok {
		t.Error("must not write a summary for an orphan tag hash")
	}
	if sentences.rebuildCalls != 1 {
		t.Errorf("expected one index rebuild, got %d", sentences.rebuildCalls)
	}
}

func TestRun_TagScanFailureAborts(t *testing.T) {
	sentences := &mockSentences{}
	tags := &mockTagReader{scanErr: errors.New("scan failed")}
	svc := New(sentences, tags, &mockParser{}, zap.NewNop())

	_, err := svc.Run(context.Background(), strings.NewReader(testCorpus))
	if err == nil {
		t.Fatal("expected error")
	}
	if sentences.rebuildCalls != 0 {
		t.Error("must not rebuild the index after an aborted run")
	}
}

func TestRun_MalformedCorpus(t *testing.T) {
	sentences := &mockSentences{}
	svc := New(sentences, &mockTagReader{}, &mockParser{}, zap.NewNop())

	_, err := svc.Run(context.Background(), strings.NewReader("{not an array"))
	if err == nil {
		t.Fatal("expected decode error")
	}
	if sentences.rebuildCalls != 0 {
		t.Error("must not touch the store on a malformed corpus")
	}
}

func TestRun_ParserFailureAborts(t *testing.T) {
	sentences := &mockSentences{}
	parser := &mockParser{err: domain.ErrAnalyzerUnavailable}
	svc := New(sentences, &mockTagReader{}, parser, zap.NewNop())

	_, err := svc.Run(context.Background(), strings.NewReader(testCorpus))
	if !errors.Is(err, domain.ErrAnalyzerUnavailable) {
		t.Fatalf("expected ErrAnalyzerUnavailable, got %v", err)
	}
	if sentences.rebuildCalls != 0 {
		t.Error("must not rebuild the index after an aborted run")
	}
}

func TestRun_TruncateFailure(t *testing.T) {
	sentences := &mockSentences{truncateErr: errors.New("scan failed")}
	svc := New(sentences, &mockTagReader{}, &mockParser{}, zap.NewNop())

	_, err := svc.Run(context.Background(), strings.NewReader(testCorpus))
	if err == nil {
		t.Fatal("expected error")
	}
	if len(sentences.batches) != 0 {
		t.Error("must not write batches when truncation fails")
	}
}
