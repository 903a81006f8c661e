// Package analysis computes corpus-level statistics: which verb forms
// appear in the hypothetical subset, split by clause position. A verb
// sits in a subclause when its head chain passes through an advcl
// dependency before reaching the root; everything else counts as
// matrix.
package analysis

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/tsalagi-lab/sequoyah/internal/analyzer"
	"github.com/tsalagi-lab/sequoyah/internal/db"
	"github.com/tsalagi-lab/sequoyah/internal/domain"
	"github.com/tsalagi-lab/sequoyah/internal/domain/search/filter"
	"github.com/tsalagi-lab/sequoyah/internal/repository/sentence"
)

// pageSize bounds how many hypothetical sentences one index round-trip
// fetches during a recompute walk.
const pageSize = 200

// SentenceSearcher is the read slice over the sentence index.
type SentenceSearcher interface {
	Search(ctx context.Context, q *db.TextQuery) ([]domain.SentenceRecord, []float64, int, error)
}

// VerbStatRepository persists and serves the computed statistics.
type VerbStatRepository interface {
	Replace(ctx context.Context, stats []domain.VerbStat) error
	Top(ctx context.Context, limit int) ([]domain.VerbStat, error)
}

// Service computes and serves hypothetical-verb statistics.
type Service struct {
	sentences SentenceSearcher
	stats     VerbStatRepository
	parser    analyzer.Parser
	logger    *zap.Logger
}

// New creates an analysis service.
func New(sentences SentenceSearcher, stats VerbStatRepository, parser analyzer.Parser, logger *zap.Logger) *Service {
	return &Service{sentences: sentences, stats: stats, parser: parser, logger: logger}
}

// Recompute walks every hypothetical sentence, re-parses it, tallies
// verb surface forms by clause position, and replaces the stored
// statistics table. Returns the number of distinct forms.
func (s *Service) Recompute(ctx context.Context) (int, error) {
	subCounts := make(map[string]int)
	matCounts := make(map[string]int)

	offset := 0
	analyzed := 0
	for {
		recs, total, err := s.hypotheticalPage(ctx, offset)
		if err != nil {
			return 0, err
		}
		for _, rec := range recs {
			tokens, err := s.parser.Parse(ctx, rec.English)
			if err != nil {
				return 0, fmt.Errorf("parse %s: %w", rec.RefID, err)
			}
			tallyVerbForms(tokens, subCounts, matCounts)
			analyzed++
		}

		offset += len(recs)
		if offset >= total || len(recs) == 0 {
			break
		}
	}

	stats := mergeCounts(subCounts, matCounts)
	if err := s.stats.Replace(ctx, stats); err != nil {
		return 0, fmt.Errorf("store verb stats: %w", err)
	}

	s.logger.Info("verb statistics recomputed",
		zap.Int("sentences", analyzed),
		zap.Int("forms", len(stats)))
	return len(stats), nil
}

// Top returns the most frequent verb forms, ordered by total count
// descending.
func (s *Service) Top(ctx context.Context, limit int) ([]domain.VerbStat, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidRequest)
	}
	return s.stats.Top(ctx, limit)
}

func (s *Service) hypotheticalPage(ctx context.Context, offset int) ([]domain.SentenceRecord, int, error) {
	cond, err := filter.NewMatch(sentence.FieldIsHypothetical, "1")
	if err != nil {
		return nil, 0, err
	}
	expr, err := filter.NewExpression([]filter.Condition{cond}, nil, nil)
	if err != nil {
		return nil, 0, err
	}

	q := &db.TextQuery{
		Filters: expr,
		SortBy:  sentence.FieldRefID,
		Offset:  offset,
		Limit:   pageSize,
	}
	recs, _, total, err := s.sentences.Search(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch hypothetical page at %d: %w", offset, err)
	}
	return recs, total, nil
}

// tallyVerbForms counts each verb token's lowercased surface form into
// the subclause or matrix bucket.
func tallyVerbForms(tokens []analyzer.Token, subCounts, matCounts map[string]int) {
	for i, tok := range tokens {
		if tok.POS != "VERB" {
			continue
		}
		if inAdverbialClause(tokens, i) {
			subCounts[tok.Lower]++
		} else {
			matCounts[tok.Lower]++
		}
	}
}

// inAdverbialClause follows the head chain up from the token, looking
// for an advcl link before the root. The walk is bounded by the token
// count to survive malformed parses with head cycles.
func inAdverbialClause(tokens []analyzer.Token, i int) bool {
	for steps := 0; steps <= len(tokens); steps++ {
		if tokens[i].Dep == "ROOT" {
			return false
		}
		if tokens[i].Dep == "advcl" {
			return true
		}
		next := tokens[i].Head
		if next < 0 || next >= len(tokens) || next == i {
			return false
		}
		i = next
	}
	return false
}

func mergeCounts(subCounts, matCounts map[string]int) []domain.VerbStat {
	forms := make(map[string]bool, len(subCounts)+len(matCounts))
	for f := range subCounts {
		forms[f] = true
	}
	for f := range matCounts {
		forms[f] = true
	}

	stats := make([]domain.VerbStat, 0, len(forms))
	for f := range forms {
		sub := subCounts[f]
		mat := matCounts[f]
		stats = append(stats, domain.VerbStat{
			Form:           f,
			SubclauseCount: sub,
			MatrixCount:    mat,
			TotalCount:     sub + mat,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalCount != stats[j].TotalCount {
			return stats[i].TotalCount > stats[j].TotalCount
		}
		return stats[i].Form < stats[j].Form
	})
	return stats
}
