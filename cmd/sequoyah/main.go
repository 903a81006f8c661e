package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/tsalagi-lab/sequoyah/internal/analyzer"
	"github.com/tsalagi-lab/sequoyah/internal/config"
	dbRedis "github.com/tsalagi-lab/sequoyah/internal/db/redis"
	logpkg "github.com/tsalagi-lab/sequoyah/internal/logger"
	"github.com/tsalagi-lab/sequoyah/internal/metrics"
	grouprepo "github.com/tsalagi-lab/sequoyah/internal/repository/group"
	sentencerepo "github.com/tsalagi-lab/sequoyah/internal/repository/sentence"
	tagrepo "github.com/tsalagi-lab/sequoyah/internal/repository/tag"
	verbstatrepo "github.com/tsalagi-lab/sequoyah/internal/repository/verbstat"
	verserepo "github.com/tsalagi-lab/sequoyah/internal/repository/verse"
	chiTransport "github.com/tsalagi-lab/sequoyah/internal/transport/chi"
	"github.com/tsalagi-lab/sequoyah/internal/transport/tagger"
	analysisuc "github.com/tsalagi-lab/sequoyah/internal/usecase/analysis"
	groupuc "github.com/tsalagi-lab/sequoyah/internal/usecase/group"
	healthuc "github.com/tsalagi-lab/sequoyah/internal/usecase/health"
	searchuc "github.com/tsalagi-lab/sequoyah/internal/usecase/search"
	tagginguc "github.com/tsalagi-lab/sequoyah/internal/usecase/tagging"
	"github.com/tsalagi-lab/sequoyah/internal/version"
)

func main() {
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

	logger.Info("Starting sequoyah API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
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
	logger.Info("Connected to database")

	// Register domain metrics explicitly (no init())
	metrics.RegisterDomainMetrics()

	prefix := cfg.Storage.KeyPrefix
	sentenceRepo := sentencerepo.New(store, prefix)
	tagRepo := tagrepo.New(store, prefix)
	groupRepo := grouprepo.New(store, prefix)
	verseRepo := verserepo.New(store, prefix)
	verbStatRepo := verbstatrepo.New(store, prefix)

	if err := sentenceRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure sentence index", zap.Error(err))
	}
	if err := verseRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure verse index", zap.Error(err))
	}
	if err := verbStatRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure verb stat index", zap.Error(err))
	}

	if total, err := sentenceRepo.Count(ctx); err == nil {
		logger.Info("Corpus size", zap.Int("sentences", total))
	}

	taggerClient := tagger.NewClient(&tagger.Config{
		BaseURL: cfg.Analyzer.BaseURL,
		Timeout: time.Duration(cfg.Analyzer.TimeoutSec) * time.Second,
		Logger:  logger,
	})

	searchSvc := searchuc.New(sentenceRepo, verseRepo, tagRepo,
		func() analyzer.Parser { return taggerClient }, logger)
	taggingSvc := tagginguc.New(tagRepo, sentenceRepo, logger)
	groupSvc := groupuc.New(groupRepo, sentenceRepo, logger)
	analysisSvc := analysisuc.New(sentenceRepo, verbStatRepo, taggerClient, logger)
	healthSvc := healthuc.New(store, taggerClient)

	server := chiTransport.NewServer(
		searchSvc, taggingSvc, groupSvc, analysisSvc, healthSvc,
		cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
