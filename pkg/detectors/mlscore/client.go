// Package mlscore adapts the remote model-scoring service into the
// detector contract. The engine consumes only the capability "given
// text, return a score in [0,1] plus a category breakdown"; model
// loading, batching and hardware placement stay on the other side of the
// HTTP boundary.
package mlscore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// Score kinds understood by the scoring service.
const (
	KindToxicity  = "toxicity"
	KindJailbreak = "jailbreak"
	KindGibberish = "gibberish"
)

const scorePath = "/v1/score"

// Score is the capability result: an overall risk probability plus an
// optional per-category breakdown.
type Score struct {
	Overall    float64            `json:"overall"`
	Categories map[string]float64 `json:"categories,omitempty"`
}

type scoreRequest struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// ClientConfig configures the scoring client.
type ClientConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	BreakerTimeout time.Duration
	MaxFailures    uint32
	CacheTTL       time.Duration
}

// Client calls the scoring service behind a circuit breaker, memoizing
// results per (kind, text).
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	cache      ScoreCache
	logger     *logrus.Logger
}

func NewClient(cfg ClientConfig, cache ScoreCache, logger *logrus.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cache == nil {
		cache = NewMemoryScoreCache(cfg.CacheTTL)
	}
	settings := gobreaker.Settings{
		Name:        "mlscore",
		MaxRequests: 5,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    gobreaker.NewCircuitBreaker(settings),
		cache:      cache,
		logger:     logger,
	}
}

// Score asks the remote service for a risk score of kind over text. An
// open breaker or transport failure returns an error; callers degrade to
// an unavailable detector result.
func (c *Client) Score(ctx context.Context, kind, text string) (*Score, error) {
	if c.cfg.BaseURL == "" {
		return nil, fmt.Errorf("scoring service is not configured")
	}

	key := CacheKey(kind, text)
	if cached, ok := c.cache.Get(ctx, key); ok {
		return cached, nil
	}

	v, err := c.breaker.Execute(func() (interface{}, error) {
		return c.call(ctx, kind, text)
	})
	if err != nil {
		c.logger.WithError(err).WithField("kind", kind).Error("scoring request failed")
		return nil, fmt.Errorf("score %s: %w", kind, err)
	}
	score, ok := v.(*Score)
	if !ok {
		return nil, fmt.Errorf("score %s: unexpected breaker result", kind)
	}

	c.cache.Set(ctx, key, score)
	return score, nil
}

func (c *Client) call(ctx context.Context, kind, text string) (*Score, error) {
	payload, err := json.Marshal(scoreRequest{Kind: kind, Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal score request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+scorePath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Token", c.cfg.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("score response read error: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("scoring service returned status %d", resp.StatusCode)
	}

	var score Score
	if err := json.Unmarshal(body, &score); err != nil {
		return nil, fmt.Errorf("invalid score response: %w", err)
	}
	if score.Overall < 0 || score.Overall > 1 {
		return nil, fmt.Errorf("score out of range: %f", score.Overall)
	}
	return &score, nil
}
