package sequoyah

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/tsalagi-lab/sequoyah/internal/analyzer"
	"github.com/tsalagi-lab/sequoyah/internal/db"
	dbRedis "github.com/tsalagi-lab/sequoyah/internal/db/redis"
	"github.com/tsalagi-lab/sequoyah/internal/domain"
	"github.com/tsalagi-lab/sequoyah/internal/domain/search/request"
	grouprepo "github.com/tsalagi-lab/sequoyah/internal/repository/group"
	sentencerepo "github.com/tsalagi-lab/sequoyah/internal/repository/sentence"
	tagrepo "github.com/tsalagi-lab/sequoyah/internal/repository/tag"
	verbstatrepo "github.com/tsalagi-lab/sequoyah/internal/repository/verbstat"
	verserepo "github.com/tsalagi-lab/sequoyah/internal/repository/verse"
	"github.com/tsalagi-lab/sequoyah/internal/transport/tagger"
	analysisuc "github.com/tsalagi-lab/sequoyah/internal/usecase/analysis"
	groupuc "github.com/tsalagi-lab/sequoyah/internal/usecase/group"
	healthuc "github.com/tsalagi-lab/sequoyah/internal/usecase/health"
	ingestuc "github.com/tsalagi-lab/sequoyah/internal/usecase/ingest"
	searchuc "github.com/tsalagi-lab/sequoyah/internal/usecase/search"
	tagginguc "github.com/tsalagi-lab/sequoyah/internal/usecase/tagging"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces so tests can substitute the wired services.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) ([]domain.AnnotatedSentence, int, error)
	SearchVerses(ctx context.Context, query string, useLemma bool, limit, offset int) ([]domain.Verse, int, error)
}

type taggingUseCase interface {
	UpsertTag(ctx context.Context, refID string, wordIndex int, tag string) error
	RemoveTag(ctx context.Context, refID string, wordIndex int) (int, error)
	ListTags(ctx context.Context, refID string) ([]domain.WordTag, error)
}

type groupUseCase interface {
	AddMember(ctx context.Context, group, refID string) (bool, error)
	RemoveMember(ctx context.Context, group, refID string) (bool, error)
	Members(ctx context.Context, group string) ([]domain.SentenceRecord, error)
	ListGroups(ctx context.Context) ([]string, error)
	SavePreset(ctx context.Context, tg *domain.TaggingGroup) (domain.TaggingGroup, error)
	ListPresets(ctx context.Context) ([]domain.TaggingGroup, error)
	GetPreset(ctx context.Context, refID string) (domain.TaggingGroup, error)
	DeletePreset(ctx context.Context, refID string) error
}

type analysisUseCase interface {
	Recompute(ctx context.Context) (int, error)
	Top(ctx context.Context, limit int) ([]domain.VerbStat, error)
}

type ingestUseCase interface {
	Run(ctx context.Context, corpus io.Reader) (ingestuc.Stats, error)
}

type verseIngestUseCase interface {
	Run(ctx context.Context, corpus io.Reader) (ingestuc.VerseStats, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the sequoyah SDK entry point.
type Client struct {
	store    db.Store
	search   searchUseCase
	tagging  taggingUseCase
	groups   groupUseCase
	analysis analysisUseCase
	ingest   ingestUseCase
	verses   verseIngestUseCase
	health   healthUseCase
	obs      *observer
}

// New creates a sequoyah Client and connects to the database. The
// provided context covers the readiness check and index creation.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix:        "sequoyah:",
		readinessTimeout: defaultReadinessTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("sequoyah: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("sequoyah: create store: %w", err)
	}

	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("sequoyah: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	c, err := wireClient(ctx, store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	sentenceRepo := sentencerepo.New(store, cfg.keyPrefix)
	tagRepo := tagrepo.New(store, cfg.keyPrefix)
	groupRepo := grouprepo.New(store, cfg.keyPrefix)
	verseRepo := verserepo.New(store, cfg.keyPrefix)
	verbStatRepo := verbstatrepo.New(store, cfg.keyPrefix)

	for _, ensure := range []func(context.Context) error{
		sentenceRepo.EnsureIndex, verseRepo.EnsureIndex, verbStatRepo.EnsureIndex,
	} {
		if err := ensure(ctx); err != nil {
			return nil, fmt.Errorf("sequoyah: ensure index: %w", err)
		}
	}

	parser, checker := resolveParser(cfg)

	// Internal services log through zap; the SDK surface observes
	// operations itself via slog, so the inner logger stays silent.
	inner := zap.NewNop()

	return &Client{
		store: store,
		search: searchuc.New(sentenceRepo, verseRepo, tagRepo,
			func() analyzer.Parser { return parser }, inner),
		tagging:  tagginguc.New(tagRepo, sentenceRepo, inner),
		groups:   groupuc.New(groupRepo, sentenceRepo, inner),
		analysis: analysisuc.New(sentenceRepo, verbStatRepo, parser, inner),
		ingest:   ingestuc.New(sentenceRepo, tagRepo, parser, inner),
		verses:   ingestuc.NewVerses(verseRepo, parser, inner),
		health:   healthuc.New(store, checker),
		obs:      obs,
	}, nil
}

// resolveParser picks the dependency parser: injected, HTTP analyzer,
// or a stub that reports the analyzer as unconfigured.
func resolveParser(cfg *clientConfig) (analyzer.Parser, healthuc.AnalyzerChecker) {
	if cfg.parser != nil {
		return cfg.parser, nil
	}
	if cfg.analyzerURL != "" {
		client := tagger.NewClient(&tagger.Config{
			BaseURL: cfg.analyzerURL,
			Timeout: cfg.analyzerTimeout,
			Logger:  zap.NewNop(),
		})
		return client, client
	}
	return unconfiguredParser{}, nil
}

// unconfiguredParser fails every parse with ErrAnalyzerUnavailable so
// lemma-dependent operations degrade predictably when no analyzer is set.
type unconfiguredParser struct{}

func (unconfiguredParser) Parse(context.Context, string) ([]analyzer.Token, error) {
	return nil, fmt.Errorf("no analyzer configured: %w", domain.ErrAnalyzerUnavailable)
}

// Close releases the database connection.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}
