package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tsalagi-lab/sequoyah/internal/analyzer"
	"github.com/tsalagi-lab/sequoyah/internal/classify"
	"github.com/tsalagi-lab/sequoyah/internal/domain"
)

// VerseRepository is the store slice the verse pipeline writes through.
type VerseRepository interface {
	TruncateAll(ctx context.Context) (int, error)
	UpsertMulti(ctx context.Context, verses []domain.Verse) error
}

// verseBook is one book of the verse corpus file: the book name plus
// its chapters, each chapter an ordered list of verse texts.
type verseBook struct {
	Name     string     `json:"name"`
	Chapters [][]string `json:"chapters"`
}

// VerseStats summarizes one verse load.
type VerseStats struct {
	Books     int
	Loaded    int
	Truncated int
}

// VerseService loads the legacy verse corpus.
type VerseService struct {
	verses    VerseRepository
	parser    analyzer.Parser
	logger    *zap.Logger
	batchSize int
}

// NewVerses creates a verse loading service.
func NewVerses(verses VerseRepository, parser analyzer.Parser, logger *zap.Logger) *VerseService {
	return &VerseService{
		verses:    verses,
		parser:    parser,
		logger:    logger,
		batchSize: defaultBatchSize,
	}
}

// Run replaces the stored verse corpus with the contents of the JSON
// stream. Chapter and verse numbers are 1-based positions within the
// file; every verse text is parsed so the lemma and mood columns of
// the verse index are populated at load time.
func (s *VerseService) Run(ctx context.Context, corpus io.Reader) (VerseStats, error) {
	var books []verseBook
	if err := json.NewDecoder(corpus).Decode(&books); err != nil {
		return VerseStats{}, fmt.Errorf("decode verse corpus: %w", err)
	}
	s.logger.Info("verse corpus loaded", zap.Int("books", len(books)))

	truncated, err := s.verses.TruncateAll(ctx)
	if err != nil {
		return VerseStats{}, fmt.Errorf("truncate verses: %w", err)
	}
	stats := VerseStats{Books: len(books), Truncated: truncated}

	batch := make([]domain.Verse, 0, s.batchSize)
	for _, book := range books {
		for chapterIdx, chapter := range book.Chapters {
			for verseIdx, text := range chapter {
				v, err := s.buildVerse(ctx, book.Name, chapterIdx+1, verseIdx+1, text)
				if err != nil {
					return stats, fmt.Errorf("classify %s: %w", v.ID, err)
				}
				batch = append(batch, v)

				if len(batch) >= s.batchSize {
					if err := s.flushVerses(ctx, batch, &stats); err != nil {
						return stats, err
					}
					batch = batch[:0]
				}
			}
		}
	}
	if len(batch) > 0 {
		if err := s.flushVerses(ctx, batch, &stats); err != nil {
			return stats, err
		}
	}

	s.logger.Info("verse load complete",
		zap.Int("books", stats.Books),
		zap.Int("loaded", stats.Loaded),
		zap.Int("truncated", stats.Truncated))
	return stats, nil
}

func (s *VerseService) buildVerse(ctx context.Context, book string, chapter, number int, text string) (domain.Verse, error) {
	id := verseID(book, chapter, number)

	tokens, err := s.parser.Parse(ctx, text)
	if err != nil {
		return domain.Verse{ID: id}, err
	}
	facts := classify.Classify(tokens)

	return domain.Verse{
		ID:             id,
		Book:           book,
		Chapter:        chapter,
		Number:         number,
		Text:           text,
		LemmaText:      classify.Lemmatize(tokens),
		IsCommand:      facts.IsCommand,
		IsHypothetical: facts.IsHypothetical,
	}, nil
}

func (s *VerseService) flushVerses(ctx context.Context, batch []domain.Verse, stats *VerseStats) error {
	if err := s.verses.UpsertMulti(ctx, batch); err != nil {
		return fmt.Errorf("write verse batch: %w", err)
	}
	stats.Loaded += len(batch)
	s.logger.Info("verse batch written", zap.Int("loaded", stats.Loaded))
	return nil
}

// verseID builds the stable verse key, e.g. "1-kings-2-3".
func verseID(book string, chapter, number int) string {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(book), " ", "-"))
	return slug + "-" + strconv.Itoa(chapter) + "-" + strconv.Itoa(number)
}
