// Command sequoyah-ingest replaces the stored sentence corpus from a
// JSON file and optionally recomputes the hypothetical-verb statistics.
// With -verses it loads the legacy verse corpus instead.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/tsalagi-lab/sequoyah/internal/config"
	dbRedis "github.com/tsalagi-lab/sequoyah/internal/db/redis"
	logpkg "github.com/tsalagi-lab/sequoyah/internal/logger"
	sentencerepo "github.com/tsalagi-lab/sequoyah/internal/repository/sentence"
	tagrepo "github.com/tsalagi-lab/sequoyah/internal/repository/tag"
	verbstatrepo "github.com/tsalagi-lab/sequoyah/internal/repository/verbstat"
	verserepo "github.com/tsalagi-lab/sequoyah/internal/repository/verse"
	"github.com/tsalagi-lab/sequoyah/internal/transport/tagger"
	analysisuc "github.com/tsalagi-lab/sequoyah/internal/usecase/analysis"
	ingestuc "github.com/tsalagi-lab/sequoyah/internal/usecase/ingest"
	"github.com/tsalagi-lab/sequoyah/internal/version"
)

func main() {
	var (
		corpusPath = flag.String("file", "data/sentences.json", "path to the sentences JSON file")
		versesPath = flag.String("verses", "", "load the verse corpus from this JSON file instead of sentences")
		withStats  = flag.Bool("stats", false, "recompute hypothetical-verb statistics after loading")
	)
	flag.Parse()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting sequoyah corpus ingestion",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.String("file", *corpusPath),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}

	taggerClient := tagger.NewClient(&tagger.Config{
		BaseURL: cfg.Analyzer.BaseURL,
		Timeout: time.Duration(cfg.Analyzer.TimeoutSec) * time.Second,
		Logger:  logger,
	})
	if err := taggerClient.HealthCheck(ctx); err != nil {
		logger.Fatal("Dependency tagger not reachable", zap.Error(err))
	}

	prefix := cfg.Storage.KeyPrefix

	if *versesPath != "" {
		verseRepo := verserepo.New(store, prefix)
		if err := verseRepo.EnsureIndex(ctx); err != nil {
			logger.Fatal("Failed to ensure verse index", zap.Error(err))
		}

		corpus, err := os.Open(*versesPath)
		if err != nil {
			logger.Fatal("Failed to open verse corpus file", zap.Error(err))
		}
		defer func() { _ = corpus.Close() }()

		verseSvc := ingestuc.NewVerses(verseRepo, taggerClient, logger)
		stats, err := verseSvc.Run(ctx, corpus)
		if err != nil {
			logger.Fatal("Verse load failed", zap.Error(err))
		}
		logger.Info("Verse corpus loaded",
			zap.Int("books", stats.Books),
			zap.Int("loaded", stats.Loaded),
			zap.Int("truncated", stats.Truncated),
		)
		return
	}

	sentenceRepo := sentencerepo.New(store, prefix)
	if err := sentenceRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure sentence index", zap.Error(err))
	}
	tagRepo := tagrepo.New(store, prefix)

	corpus, err := os.Open(*corpusPath)
	if err != nil {
		logger.Fatal("Failed to open corpus file", zap.Error(err))
	}
	defer func() { _ = corpus.Close() }()

	ingestSvc := ingestuc.New(sentenceRepo, tagRepo, taggerClient, logger)
	stats, err := ingestSvc.Run(ctx, corpus)
	if err != nil {
		logger.Fatal("Ingestion failed", zap.Error(err))
	}
	if total, err := sentenceRepo.Count(ctx); err == nil {
		logger.Info("Corpus size", zap.Int("sentences", total))
	}
	logger.Info("Corpus loaded",
		zap.Int("loaded", stats.Loaded),
		zap.Int("skipped", stats.Skipped),
		zap.Int("truncated", stats.Truncated),
		zap.Int("tag_summaries_resynced", stats.Resynced),
	)

	if !*withStats {
		return
	}

	verbStatRepo := verbstatrepo.New(store, prefix)
	if err := verbStatRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure verb stat index", zap.Error(err))
	}

	analysisSvc := analysisuc.New(sentenceRepo, verbStatRepo, taggerClient, logger)
	forms, err := analysisSvc.Recompute(ctx)
	if err != nil {
		logger.Fatal("Verb statistics recompute failed", zap.Error(err))
	}
	logger.Info("Verb statistics stored", zap.Int("forms", forms))
}
