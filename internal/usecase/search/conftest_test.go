package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/tsalagi-lab/sequoyah/internal/analyzer"
	"github.com/tsalagi-lab/sequoyah/internal/db"
	"github.com/tsalagi-lab/sequoyah/internal/domain"
)

type mockSentences struct {
	lastQuery *db.TextQuery
	recs      []domain.SentenceRecord
	scores    []float64
	total     int
	err       error
}

func (m *mockSentences) Search(_ context.Context, q *db.TextQuery) (
	[]domain.SentenceRecord, []float64, int, error,
) {
	m.lastQuery = q
	if m.err != nil {
		return nil, nil, 0, m.err
	}
	return m.recs, m.scores, m.total, nil
}

type mockVerses struct {
	lastQuery *db.TextQuery
	verses    []domain.Verse
	total     int
	err       error
}

func (m *mockVerses) Search(_ context.Context, q *db.TextQuery) ([]domain.Verse, []float64, int, error) {
	m.lastQuery = q
	if m.err != nil {
		return nil, nil, 0, m.err
	}
	scores := make([]float64, len(m.verses))
	return m.verses, scores, m.total, nil
}

type mockTags struct {
	lastRefIDs []string
	byRef      map[string][]domain.WordTag
	err        error
}

func (m *mockTags) ListForSentences(_ context.Context, refIDs []string) (
	map[string][]domain.WordTag, error,
) {
	m.lastRefIDs = refIDs
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string][]domain.WordTag, len(refIDs))
	for _, id := range refIDs {
		tags, ok := m.byRef[id]
		if !ok {
			tags = []domain.WordTag{}
		}
		out[id] = tags
	}
	return out, nil
}

type mockParser struct {
	tokens []analyzer.Token
	err    error
	calls  int
}

func (m *mockParser) Parse(_ context.Context, _ string) ([]analyzer.Token, error) {
	m.calls++
	return m.tokens, m.err
}

type testService struct {
	svc           *Service
	sentences     *mockSentences
	verses        *mockVerses
	tags          *mockTags
	parser        *mockParser
	factoryCalled int
}

func newTestService() *testService {
	ts := &testService{
		sentences: &mockSentences{},
		verses:    &mockVerses{},
		tags:      &mockTags{},
		parser:    &mockParser{},
	}
	ts.svc = New(ts.sentences, ts.verses, ts.tags, func() analyzer.Parser {
		ts.factoryCalled++
		return ts.parser
	}, zap.NewNop())
	return ts
}
