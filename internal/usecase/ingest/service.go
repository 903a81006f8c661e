// Package ingest implements the corpus loading pipeline: decode the
// sentences JSON file, run each English gloss through the dependency
// parser, derive the grammatical facts, and replace the stored corpus
// in one pass. Word tags live in separate hashes and survive
// re-ingestion; their denormalized summaries are reattached to the
// new sentence hashes at the end of the run.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/tsalagi-lab/sequoyah/internal/analyzer"
	"github.com/tsalagi-lab/sequoyah/internal/classify"
	"github.com/tsalagi-lab/sequoyah/internal/domain"
)

// defaultBatchSize bounds the number of records per write round-trip.
const defaultBatchSize = 100

// SentenceRepository is the store slice the pipeline writes through.
type SentenceRepository interface {
	TruncateAll(ctx context.Context) (int, error)
	UpsertMulti(ctx context.Context, recs []domain.SentenceRecord) error
	SetTagSummary(ctx context.Context, refID string, labels []string, count int) error
	RebuildIndex(ctx context.Context) error
}

// TagReader exposes the surviving tag hashes so the pipeline can
// reattach their denormalized summaries to the re-ingested sentences.
type TagReader interface {
	TaggedRefIDs(ctx context.Context) ([]string, error)
	Summary(ctx context.Context, refID string) (labels []string, count int, err error)
}

// corpusEntry is one line of the sentences JSON file.
type corpusEntry struct {
	ID        string `json:"id"`
	English   string `json:"english"`
	Syllabary string `json:"syllabary"`
	Phonetic  string `json:"phonetic"`
	Audio     string `json:"audio"`
}

// Stats summarizes one ingestion run.
type Stats struct {
	Loaded    int
	Skipped   int
	Truncated int
	Resynced  int
}

// Service runs the ingestion pipeline.
type Service struct {
	sentences SentenceRepository
	tags      TagReader
	parser    analyzer.Parser
	logger    *zap.Logger
	batchSize int
}

// New creates an ingestion service.
func New(sentences SentenceRepository, tags TagReader, parser analyzer.Parser, logger *zap.Logger) *Service {
	return &Service{
		sentences: sentences,
		tags:      tags,
		parser:    parser,
		logger:    logger,
		batchSize: defaultBatchSize,
	}
}

// Run replaces the stored sentence corpus with the contents of the
// JSON stream. Existing sentence keys are truncated up front; a parse
// failure mid-run aborts the pipeline and leaves the store partially
// loaded, so the caller should re-run on failure rather than serve.
func (s *Service) Run(ctx context.Context, corpus io.Reader) (Stats, error) {
	var entries []corpusEntry
	if err := json.NewDecoder(corpus).Decode(&entries); err != nil {
		return Stats{}, fmt.Errorf("decode corpus: %w", err)
	}
	s.logger.Info("corpus loaded", zap.Int("entries", len(entries)))

	truncated, err := s.sentences.TruncateAll(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("truncate corpus: %w", err)
	}
	stats := Stats{Truncated: truncated}

	loaded := make(map[string]bool, len(entries))
	batch := make([]domain.SentenceRecord, 0, s.batchSize)
	for _, entry := range entries {
		if entry.ID == "" {
			stats.Skipped++
			s.logger.Warn("skipping corpus entry without id",
				zap.String("english", entry.English))
			continue
		}
		loaded[entry.ID] = true

		rec, err := s.buildRecord(ctx, entry)
		if err != nil {
			return stats, fmt.Errorf("classify %s: %w", entry.ID, err)
		}
		batch = append(batch, rec)

		if len(batch) >= s.batchSize {
			if err := s.flush(ctx, batch, &stats); err != nil {
				return stats, err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := s.flush(ctx, batch, &stats); err != nil {
			return stats, err
		}
	}

	if err := s.resyncTagSummaries(ctx, loaded, &stats); err != nil {
		return stats, err
	}

	if err := s.sentences.RebuildIndex(ctx); err != nil {
		return stats, fmt.Errorf("rebuild index: %w", err)
	}

	s.logger.Info("ingestion complete",
		zap.Int("loaded", stats.Loaded),
		zap.Int("skipped", stats.Skipped),
		zap.Int("truncated", stats.Truncated),
		zap.Int("tag_summaries_resynced", stats.Resynced))
	return stats, nil
}

// resyncTagSummaries reattaches the denormalized tag columns of
// surviving tag hashes to the freshly written sentences. Upsert resets
// every summary to zero, so without this pass the tag filter would go
// blind after every re-ingestion. Orphan tag hashes whose sentence is
// not in the new corpus are left alone; writing their summary would
// mint a ghost sentence hash.
func (s *Service) resyncTagSummaries(ctx context.Context, loaded map[string]bool, stats *Stats) error {
	tagged, err := s.tags.TaggedRefIDs(ctx)
	if err != nil {
		return fmt.Errorf("list tagged sentences: %w", err)
	}
	for _, refID := range tagged {
		if !loaded[refID] {
			s.logger.Debug("skipping orphan tag hash", zap.String("ref_id", refID))
			continue
		}
		labels, count, err := s.tags.Summary(ctx, refID)
		if err != nil {
			return fmt.Errorf("tag summary %s: %w", refID, err)
		}
		if err := s.sentences.SetTagSummary(ctx, refID, labels, count); err != nil {
			return fmt.Errorf("resync tag summary %s: %w", refID, err)
		}
		stats.Resynced++
	}
	return nil
}

// buildRecord parses the English gloss and derives the grammatical
// facts for one entry.
func (s *Service) buildRecord(ctx context.Context, entry corpusEntry) (domain.SentenceRecord, error) {
	tokens, err := s.parser.Parse(ctx, entry.English)
	if err != nil {
		return domain.SentenceRecord{}, err
	}
	facts := classify.Classify(tokens)

	return domain.SentenceRecord{
		RefID:          entry.ID,
		English:        entry.English,
		Syllabary:      entry.Syllabary,
		Phonetic:       entry.Phonetic,
		Audio:          entry.Audio,
		LemmaText:      classify.Lemmatize(tokens),
		IsCommand:      facts.IsCommand,
		IsHypothetical: facts.IsHypothetical,
		IsInability:    facts.IsInability,
		SubclauseTypes: facts.SubclauseTypes,
	}, nil
}

func (s *Service) flush(ctx context.Context, batch []domain.SentenceRecord, stats *Stats) error {
	if err := s.sentences.UpsertMulti(ctx, batch); err != nil {
		return fmt.Errorf("write batch: %w", err)
	}
	stats.Loaded += len(batch)
	s.logger.Info("batch written", zap.Int("loaded", stats.Loaded))
	return nil
}
