// Package tagging implements word-tag mutations. Every mutation of an
// existing sentence recomputes its denormalized tag summary so the tag
// and untagged_only search filters see the change on the next query.
// Tags for unknown ref_ids are accepted and stored without a summary.
package tagging

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tsalagi-lab/sequoyah/internal/domain"
	"github.com/tsalagi-lab/sequoyah/internal/metrics"
)

// Service handles word-tag mutations.
type Service struct {
	tags      TagRepository
	sentences SentenceRepository
	logger    *zap.Logger
}

// New creates a tagging service.
func New(tags TagRepository, sentences SentenceRepository, logger *zap.Logger) *Service {
	return &Service{tags: tags, sentences: sentences, logger: logger}
}

// UpsertTag assigns a label to one word position of a sentence,
// replacing any previous label at that position. The sentence is not
// required to exist: tags for unknown ref_ids are stored anyway and
// picked up when a matching sentence is ingested. Word positions are
// not bounds-checked against the syllabary because corpora with
// ragged alignment are tolerated.
func (s *Service) UpsertTag(ctx context.Context, refID string, wordIndex int, tag string) error {
	if tag == "" {
		return fmt.Errorf("%w: tag label is required", domain.ErrInvalidRequest)
	}
	if strings.Contains(tag, ",") {
		return fmt.Errorf("%w: tag label must not contain a comma", domain.ErrInvalidRequest)
	}
	if wordIndex < 0 {
		return fmt.Errorf("%w: word index must be non-negative", domain.ErrInvalidRequest)
	}

	if err := s.tags.Upsert(ctx, refID, wordIndex, tag); err != nil {
		return err
	}
	if err := s.syncSummary(ctx, refID); err != nil {
		return err
	}

	metrics.TagMutationsTotal.WithLabelValues("upsert").Inc()
	s.logger.Debug("tag upserted",
		zap.String("ref_id", refID),
		zap.Int("word_index", wordIndex),
		zap.String("tag", tag))
	return nil
}

// RemoveTag deletes the label at one word position and reports how
// many tags were removed (0 or 1). Removing an absent tag is not an
// error, and the owning sentence need not exist.
func (s *Service) RemoveTag(ctx context.Context, refID string, wordIndex int) (int, error) {
	if wordIndex < 0 {
		return 0, fmt.Errorf("%w: word index must be non-negative", domain.ErrInvalidRequest)
	}

	removed, err := s.tags.Remove(ctx, refID, wordIndex)
	if err != nil {
		return 0, err
	}
	if removed == 0 {
		return 0, nil
	}
	if err := s.syncSummary(ctx, refID); err != nil {
		return removed, err
	}

	metrics.TagMutationsTotal.WithLabelValues("remove").Inc()
	s.logger.Debug("tag removed",
		zap.String("ref_id", refID),
		zap.Int("word_index", wordIndex))
	return removed, nil
}

// ListTags returns a sentence's tags sorted by word index. The
// sentence must exist; an existing untagged sentence yields an empty
// list.
func (s *Service) ListTags(ctx context.Context, refID string) ([]domain.WordTag, error) {
	ok, err := s.sentences.Exists(ctx, refID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrSentenceNotFound
	}
	tags, err := s.tags.List(ctx, refID)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []domain.WordTag{}
	}
	return tags, nil
}

// syncSummary recomputes the distinct label set and tag count and
// writes them back onto the sentence hash. Unknown sentences are
// skipped: writing their summary would mint a ghost sentence hash,
// and the ingest pipeline reattaches summaries once a matching
// sentence arrives.
func (s *Service) syncSummary(ctx context.Context, refID string) error {
	ok, err := s.sentences.Exists(ctx, refID)
	if err != nil {
		return fmt.Errorf("check sentence for %s: %w", refID, err)
	}
	if !ok {
		s.logger.Debug("tag stored for unknown sentence", zap.String("ref_id", refID))
		return nil
	}

	labels, count, err := s.tags.Summary(ctx, refID)
	if err != nil {
		return fmt.Errorf("recompute tag summary for %s: %w", refID, err)
	}
	if err := s.sentences.SetTagSummary(ctx, refID, labels, count); err != nil {
		return fmt.Errorf("write tag summary for %s: %w", refID, err)
	}
	return nil
}
