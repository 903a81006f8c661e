// Package search composes filter requests into index queries, executes
// them, and re-attaches tag annotations to the returned page.
package search

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/tsalagi-lab/sequoyah/internal/analyzer"
	"github.com/tsalagi-lab/sequoyah/internal/classify"
	"github.com/tsalagi-lab/sequoyah/internal/db"
	"github.com/tsalagi-lab/sequoyah/internal/domain"
	"github.com/tsalagi-lab/sequoyah/internal/domain/search/filter"
	"github.com/tsalagi-lab/sequoyah/internal/domain/search/request"
	"github.com/tsalagi-lab/sequoyah/internal/metrics"
	"github.com/tsalagi-lab/sequoyah/internal/repository/sentence"
	"github.com/tsalagi-lab/sequoyah/internal/repository/verse"
)

// Service handles sentence and verse search.
//
// The parser handle is initialized lazily on the first lemma-mode query
// and is immutable afterwards, safe for concurrent use.
type Service struct {
	sentences SentenceRepository
	verses    VerseRepository
	tags      TagReader
	logger    *zap.Logger

	parserOnce sync.Once
	parser     analyzer.Parser
	parserFn   func() analyzer.Parser
}

// New creates a search service. parserFn is invoked at most once, on
// first use.
func New(
	sentences SentenceRepository, verses VerseRepository, tags TagReader,
	parserFn func() analyzer.Parser, logger *zap.Logger,
) *Service {
	return &Service{
		sentences: sentences,
		verses:    verses,
		tags:      tags,
		parserFn:  parserFn,
		logger:    logger,
	}
}

func (s *Service) ensureParser() analyzer.Parser {
	s.parserOnce.Do(func() {
		s.parser = s.parserFn()
	})
	return s.parser
}

// Search executes a filtered sentence search and annotates the page
// with its word tags. total counts the full pre-pagination match set.
func (s *Service) Search(ctx context.Context, req *request.Request) (
	page []domain.AnnotatedSentence, total int, err error,
) {
	if err := req.Validate(); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	mode := "plain"
	if req.UseLemma {
		mode = "lemma"
	}

	q, err := s.composeQuery(ctx, req)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(mode, "error").Inc()
		return nil, 0, err
	}

	recs, scores, total, err := s.sentences.Search(ctx, q)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(mode, "error").Inc()
		return nil, 0, err
	}

	page, err = s.annotate(ctx, recs, scores)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(mode, "error").Inc()
		return nil, 0, err
	}

	metrics.SearchRequestsTotal.WithLabelValues(mode, "success").Inc()
	return page, total, nil
}

// composeQuery translates the filter request into an index query.
func (s *Service) composeQuery(ctx context.Context, req *request.Request) (*db.TextQuery, error) {
	q := &db.TextQuery{
		Text:   req.Query,
		Offset: req.Offset,
		Limit:  req.Limit,
	}

	if req.UseLemma && req.Query != "" {
		lemmatized, err := s.lemmatizeQuery(ctx, req.Query)
		if err != nil {
			return nil, err
		}
		q.Text = lemmatized
		q.TextFields = []string{sentence.FieldLemmaText}
	}

	expr, err := buildFilterExpression(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	q.Filters = expr

	applySort(q, req.Sort, req.Query != "")
	return q, nil
}

// lemmatizeQuery rewrites the free-text query through the parser so it
// matches the stored lemma column. Parser failures propagate; lemma
// search never silently degrades to surface-text matching.
func (s *Service) lemmatizeQuery(ctx context.Context, query string) (string, error) {
	tokens, err := s.ensureParser().Parse(ctx, query)
	if err != nil {
		return "", fmt.Errorf("lemmatize query: %w", err)
	}
	return classify.Lemmatize(tokens), nil
}

// buildFilterExpression translates the filter dimensions. Dimensions
// AND together; values inside the subclause dimension OR together.
func buildFilterExpression(req *request.Request) (filter.Expression, error) {
	var must, should []filter.Condition

	addTag := func(key, value string) error {
		cond, err := filter.NewMatch(key, value)
		if err != nil {
			return err
		}
		must = append(must, cond)
		return nil
	}

	if req.IsCommand != nil {
		if err := addTag(sentence.FieldIsCommand, boolTag(*req.IsCommand)); err != nil {
			return filter.Expression{}, err
		}
	}
	if req.IsHypothetical != nil {
		if err := addTag(sentence.FieldIsHypothetical, boolTag(*req.IsHypothetical)); err != nil {
			return filter.Expression{}, err
		}
	}

	// Meta-values any/none translate to the presence column; anything
	// else, recognized or not, becomes a literal membership probe.
	for _, value := range req.SubclauseTypes {
		var cond filter.Condition
		var err error
		switch value {
		case domain.SubclauseAny:
			cond, err = filter.NewMatch(sentence.FieldHasSubclause, "1")
		case domain.SubclauseNone:
			cond, err = filter.NewMatch(sentence.FieldHasSubclause, "0")
		default:
			cond, err = filter.NewMatch(sentence.FieldSubclauseTypes, value)
		}
		if err != nil {
			return filter.Expression{}, err
		}
		should = append(should, cond)
	}

	// Derived at query time, not stored: an advcl subclause plus a time
	// adverb in the surface text.
	if req.IsTimeClause != nil && *req.IsTimeClause {
		if err := addTag(sentence.FieldSubclauseTypes, "advcl"); err != nil {
			return filter.Expression{}, err
		}
		timeCond, err := filter.NewTextAny(sentence.FieldEnglish, domain.TimeKeywords)
		if err != nil {
			return filter.Expression{}, err
		}
		must = append(must, timeCond)
	}

	if req.TagFilter != "" {
		if err := addTag(sentence.FieldTagLabels, req.TagFilter); err != nil {
			return filter.Expression{}, err
		}
	}

	// Both tag_filter and untagged_only narrow independently; supplying
	// both yields the empty set, which is honored rather than rejected.
	if req.UntaggedOnly {
		rng, err := filter.NewRangeBetween(0, 0)
		if err != nil {
			return filter.Expression{}, err
		}
		cond, err := filter.NewRange(sentence.FieldTagCount, rng)
		if err != nil {
			return filter.Expression{}, err
		}
		must = append(must, cond)
	}

	return filter.NewExpression(must, should, nil)
}

// applySort maps the requested ordering onto the query. Relevance is
// meaningless for an empty query, so pure-filter requests fall back to
// identity order to keep pagination deterministic.
func applySort(q *db.TextQuery, sort request.Sort, hasQuery bool) {
	switch sort {
	case request.SortLengthAsc:
		q.SortBy = sentence.FieldSyllabaryLen
	case request.SortLengthDesc:
		q.SortBy = sentence.FieldSyllabaryLen
		q.SortDesc = true
	default:
		if hasQuery {
			q.WithScores = true
		} else {
			q.SortBy = sentence.FieldRefID
		}
	}
}

// annotate attaches each sentence's tag list, fetched in one
// round-trip over exactly the returned page.
func (s *Service) annotate(
	ctx context.Context, recs []domain.SentenceRecord, scores []float64,
) ([]domain.AnnotatedSentence, error) {
	refIDs := make([]string, len(recs))
	for i := range recs {
		refIDs[i] = recs[i].RefID
	}

	tagsByRef, err := s.tags.ListForSentences(ctx, refIDs)
	if err != nil {
		return nil, fmt.Errorf("annotate page: %w", err)
	}

	page := make([]domain.AnnotatedSentence, len(recs))
	for i := range recs {
		tags := tagsByRef[recs[i].RefID]
		if tags == nil {
			tags = []domain.WordTag{}
		}
		page[i] = domain.AnnotatedSentence{
			SentenceRecord: recs[i],
			Score:          scores[i],
			Tags:           tags,
		}
	}
	return page, nil
}

// SearchVerses executes the legacy verse search. Plain mode restricts
// matching to the primary text column, lemma mode to the lemma column;
// the asymmetry with sentence search is intentional.
func (s *Service) SearchVerses(ctx context.Context, query string, useLemma bool, limit, offset int) (
	[]domain.Verse, int, error,
) {
	if query == "" {
		return nil, 0, fmt.Errorf("%w: query is required", domain.ErrInvalidRequest)
	}
	if limit < 0 || offset < 0 {
		return nil, 0, fmt.Errorf("%w: limit and offset must be non-negative", domain.ErrInvalidRequest)
	}

	q := &db.TextQuery{
		Text:       query,
		TextFields: []string{verse.FieldText},
		WithScores: true,
		Offset:     offset,
		Limit:      limit,
	}

	if useLemma {
		lemmatized, err := s.lemmatizeQuery(ctx, query)
		if err != nil {
			metrics.SearchRequestsTotal.WithLabelValues("verses", "error").Inc()
			return nil, 0, err
		}
		q.Text = lemmatized
		q.TextFields = []string{verse.FieldLemmaText}
	}

	verses, _, total, err := s.verses.Search(ctx, q)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("verses", "error").Inc()
		return nil, 0, err
	}

	metrics.SearchRequestsTotal.WithLabelValues("verses", "success").Inc()
	return verses, total, nil
}

func boolTag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
