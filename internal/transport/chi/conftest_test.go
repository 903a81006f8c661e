package chi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tsalagi-lab/sequoyah/internal/analyzer"
	"github.com/tsalagi-lab/sequoyah/internal/db"
	"github.com/tsalagi-lab/sequoyah/internal/domain"
	"github.com/tsalagi-lab/sequoyah/internal/metrics"
	analysisuc "github.com/tsalagi-lab/sequoyah/internal/usecase/analysis"
	groupuc "github.com/tsalagi-lab/sequoyah/internal/usecase/group"
	healthuc "github.com/tsalagi-lab/sequoyah/internal/usecase/health"
	searchuc "github.com/tsalagi-lab/sequoyah/internal/usecase/search"
	tagginguc "github.com/tsalagi-lab/sequoyah/internal/usecase/tagging"
)

func init() {
	metrics.RegisterDomainMetrics()
}

// --- Store-layer mocks; real usecases run on top of them ---

type mockSentenceStore struct {
	recs      []domain.SentenceRecord
	scores    []float64
	total     int
	searchErr error
	lastQuery *db.TextQuery

	byRef      map[string]domain.SentenceRecord
	summaryErr error
}

func (m *mockSentenceStore) Search(_ context.Context, q *db.TextQuery) (
	[]domain.SentenceRecord, []float64, int, error,
) {
	m.lastQuery = q
	if m.searchErr != nil {
		return nil, nil, 0, m.searchErr
	}
	return m.recs, m.scores, m.total, nil
}

func (m *mockSentenceStore) Get(_ context.Context, refID string) (domain.SentenceRecord, error) {
	rec, ok := m.byRef[refID]
	if !ok {
		return domain.SentenceRecord{}, domain.ErrSentenceNotFound
	}
	return rec, nil
}

func (m *mockSentenceStore) Exists(_ context.Context, refID string) (bool, error) {
	_, ok := m.byRef[refID]
	return ok, nil
}

func (m *mockSentenceStore) GetMulti(_ context.Context, refIDs []string) ([]domain.SentenceRecord, error) {
	out := make([]domain.SentenceRecord, 0, len(refIDs))
	for _, id := range refIDs {
		if rec, ok := m.byRef[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockSentenceStore) SetTagSummary(_ context.Context, _ string, _ []string, _ int) error {
	return m.summaryErr
}

type mockVerseStore struct {
	verses []domain.Verse
	total  int
}

func (m *mockVerseStore) Search(_ context.Context, _ *db.TextQuery) ([]domain.Verse, []float64, int, error) {
	return m.verses, make([]float64, len(m.verses)), m.total, nil
}

type mockTagStore struct {
	byRef       map[string][]domain.WordTag
	removeCount int
}

func (m *mockTagStore) Upsert(_ context.Context, _ string, _ int, _ string) error { return nil }

func (m *mockTagStore) Remove(_ context.Context, _ string, _ int) (int, error) {
	return m.removeCount, nil
}

func (m *mockTagStore) List(_ context.Context, refID string) ([]domain.WordTag, error) {
	return m.byRef[refID], nil
}

func (m *mockTagStore) ListForSentences(_ context.Context, refIDs []string) (
	map[string][]domain.WordTag, error,
) {
	out := make(map[string][]domain.WordTag, len(refIDs))
	for _, id := range refIDs {
		tags := m.byRef[id]
		if tags == nil {
			tags = []domain.WordTag{}
		}
		out[id] = tags
	}
	return out, nil
}

func (m *mockTagStore) Summary(_ context.Context, refID string) ([]string, int, error) {
	seen := map[string]bool{}
	labels := []string{}
	for _, t := range m.byRef[refID] {
		if !seen[t.Tag] {
			seen[t.Tag] = true
			labels = append(labels, t.Tag)
		}
	}
	return labels, len(m.byRef[refID]), nil
}

type mockGroupStore struct {
	presetRef  string
	presetErr  error
	presets    []domain.TaggingGroup
	saved      *domain.TaggingGroup
	members    []string
	groupNames []string
	deletedRef string
}

func (m *mockGroupStore) AddMember(_ context.Context, _, _ string) (bool, error) { return true, nil }

func (m *mockGroupStore) RemoveMember(_ context.Context, _, _ string) (bool, error) {
	return true, nil
}

func (m *mockGroupStore) Members(_ context.Context, _ string) ([]string, error) {
	return m.members, nil
}

func (m *mockGroupStore) ListGroups(_ context.Context) ([]string, error) {
	return m.groupNames, nil
}

func (m *mockGroupStore) FindPresetByName(_ context.Context, _ string) (string, error) {
	if m.presetErr != nil {
		return "", m.presetErr
	}
	return m.presetRef, nil
}

func (m *mockGroupStore) SavePreset(_ context.Context, tg *domain.TaggingGroup) error {
	m.saved = tg
	return nil
}

func (m *mockGroupStore) GetPreset(_ context.Context, _ string) (domain.TaggingGroup, error) {
	return domain.TaggingGroup{}, domain.ErrNotFound
}

func (m *mockGroupStore) ListPresets(_ context.Context) ([]domain.TaggingGroup, error) {
	return m.presets, nil
}

func (m *mockGroupStore) DeletePreset(_ context.Context, refID string) error {
	m.deletedRef = refID
	return nil
}

type mockVerbStatStore struct {
	top []domain.VerbStat
}

func (m *mockVerbStatStore) Replace(_ context.Context, _ []domain.VerbStat) error { return nil }

func (m *mockVerbStatStore) Top(_ context.Context, _ int) ([]domain.VerbStat, error) {
	return m.top, nil
}

type mockParser struct {
	tokens []analyzer.Token
	err    error
}

func (m *mockParser) Parse(_ context.Context, _ string) ([]analyzer.Token, error) {
	return m.tokens, m.err
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockChecker struct{ err error }

func (m *mockChecker) HealthCheck(_ context.Context) error { return m.err }

// testEnv bundles the handler and the mocks behind it.
type testEnv struct {
	handler   http.Handler
	sentences *mockSentenceStore
	verses    *mockVerseStore
	tags      *mockTagStore
	groups    *mockGroupStore
	stats     *mockVerbStatStore
	parser    *mockParser
	store     *mockPinger
	tagger    *mockChecker
}

func newTestEnv() *testEnv {
	env := &testEnv{
		sentences: &mockSentenceStore{byRef: map[string]domain.SentenceRecord{}},
		verses:    &mockVerseStore{},
		tags:      &mockTagStore{byRef: map[string][]domain.WordTag{}},
		groups:    &mockGroupStore{},
		stats:     &mockVerbStatStore{},
		parser:    &mockParser{},
		store:     &mockPinger{},
		tagger:    &mockChecker{},
	}

	logger := zap.NewNop()
	searchSvc := searchuc.New(env.sentences, env.verses, env.tags, func() analyzer.Parser {
		return env.parser
	}, logger)
	taggingSvc := tagginguc.New(env.tags, env.sentences, logger)
	groupSvc := groupuc.New(env.groups, env.sentences, logger)
	analysisSvc := analysisuc.New(env.sentences, env.stats, env.parser, logger)
	healthSvc := healthuc.New(env.store, env.tagger)

	server := NewServer(searchSvc, taggingSvc, groupSvc, analysisSvc, healthSvc, 10, 100, logger)

	r := chi.NewRouter()
	server.Routes(r)
	env.handler = r
	return env
}
