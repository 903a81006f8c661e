package sequoyah

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tsalagi-lab/sequoyah/internal/analyzer"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	username string
	password string
	db       int

	keyPrefix string

	analyzerURL     string
	analyzerTimeout time.Duration
	parser          analyzer.Parser

	readinessTimeout time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithAuth sets the Redis ACL username and password.
func WithAuth(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.password = password
	})
}

// WithDB selects a logical Redis database. Default: 0.
func WithDB(db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.db = db
	})
}

// WithKeyPrefix overrides the key prefix all corpus keys live under.
// Default: "sequoyah:". Must match the prefix the corpus was loaded with.
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithAnalyzer points the client at the dependency-parse service.
// Required for lemma-mode search, corpus loading, and verb statistics.
func WithAnalyzer(baseURL string, timeout time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.analyzerURL = baseURL
		c.analyzerTimeout = timeout
	})
}

// WithParser injects a dependency parser directly, bypassing the HTTP
// analyzer client. Takes precedence over WithAnalyzer.
func WithParser(p analyzer.Parser) Option {
	return optionFunc(func(c *clientConfig) {
		c.parser = p
	})
}

// WithReadinessTimeout bounds how long New waits for the database to
// accept commands. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and
// durations) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
