// Package tagger talks to the external dependency-parse service. The
// service wraps a spaCy-style pipeline behind a small JSON API.
package tagger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tsalagi-lab/sequoyah/internal/analyzer"
	"github.com/tsalagi-lab/sequoyah/internal/domain"
	"github.com/tsalagi-lab/sequoyah/internal/metrics"
)

// Client implements analyzer.Parser over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// Config holds the parse service settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewClient creates a parse service client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  cfg.Logger,
	}
}

type parseRequest struct {
	Text string `json:"text"`
}

type parseResponse struct {
	Tokens []analyzer.Token `json:"tokens"`
}

// Parse implements analyzer.Parser. All failures are wrapped with
// domain.ErrAnalyzerUnavailable so callers can map them uniformly.
func (c *Client) Parse(ctx context.Context, text string) ([]analyzer.Token, error) {
	body, err := json.Marshal(parseRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("encode parse request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/parse", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build parse request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()

	resp, err := c.http.Do(req)

	duration := time.Since(start)

	if err != nil {
		metrics.AnalyzerRequestsTotal.WithLabelValues("error").Inc()
		c.logger.Warn("parse request failed", zap.Error(err))
		return nil, fmt.Errorf("parse request: %v: %w", err, domain.ErrAnalyzerUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.AnalyzerRequestsTotal.WithLabelValues("error").Inc()
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("parse service error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", detail))
		return nil, fmt.Errorf("parse service status %d: %w", resp.StatusCode, domain.ErrAnalyzerUnavailable)
	}

	var parsed parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.AnalyzerRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decode parse response: %v: %w", err, domain.ErrAnalyzerUnavailable)
	}

	metrics.AnalyzerRequestsTotal.WithLabelValues("success").Inc()
	metrics.AnalyzerRequestDuration.WithLabelValues().Observe(duration.Seconds())

	return parsed.Tokens, nil
}

// HealthCheck verifies the parse service responds.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("health request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("parse service status %d", resp.StatusCode)
	}
	return nil
}
