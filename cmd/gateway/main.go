package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/SudityaKulkarni/LLM-gateway/pkg/config"
	"github.com/SudityaKulkarni/LLM-gateway/pkg/detectors/mlscore"
	"github.com/SudityaKulkarni/LLM-gateway/pkg/infra/providers"
	"github.com/SudityaKulkarni/LLM-gateway/pkg/infra/providers/anthropic"
	"github.com/SudityaKulkarni/LLM-gateway/pkg/infra/providers/gemini"
	"github.com/SudityaKulkarni/LLM-gateway/pkg/infra/providers/openai"
	"github.com/SudityaKulkarni/LLM-gateway/pkg/server"
)

func main() {
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(level)
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.WithError(err).Fatal("failed to load config")
	}

	scorer := buildScorer(cfg, logger)
	providerClients := buildProviders(cfg, logger)

	handler, err := server.NewHandler(logger, scorer, providerClients, cfg.Guard.DefaultPreset)
	if err != nil {
		logger.WithError(err).Fatal("failed to build handler")
	}

	srv := server.New(cfg, logger, handler)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.WithError(err).Fatal("server failed")
		}
	case sig := <-sigCh:
		logger.WithField("signal", sig.String()).Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			logger.WithError(err).Error("shutdown error")
		}
	}
}

func buildScorer(cfg *config.Config, logger *logrus.Logger) *mlscore.Client {
	var cache mlscore.ScoreCache
	ttl := time.Duration(cfg.Scorer.CacheTTLSeconds) * time.Second
	if cfg.Redis.Host != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("redis unreachable, falling back to in-memory score cache")
		} else {
			cache = mlscore.NewRedisScoreCache(rdb, ttl)
		}
	}

	return mlscore.NewClient(mlscore.ClientConfig{
		BaseURL:     cfg.Scorer.BaseURL,
		Token:       cfg.Scorer.Token,
		Timeout:     time.Duration(cfg.Scorer.TimeoutSeconds) * time.Second,
		MaxFailures: uint32(cfg.Scorer.MaxFailures),
		CacheTTL:    ttl,
	}, cache, logger)
}

// buildProviders constructs a client per configured provider. A missing
// API key skips that provider; a misconfigured one is logged and skipped
// so the validation endpoints still come up.
func buildProviders(cfg *config.Config, logger *logrus.Logger) map[string]providers.Client {
	clients := make(map[string]providers.Client)

	if cfg.Providers.OpenAI.APIKey != "" {
		cli, err := openai.NewClient(providerConfig(cfg.Providers.OpenAI))
		if err != nil {
			logger.WithError(err).Warn("skipping openai provider")
		} else {
			clients["openai"] = cli
		}
	}
	if cfg.Providers.Anthropic.APIKey != "" {
		cli, err := anthropic.NewClient(providerConfig(cfg.Providers.Anthropic))
		if err != nil {
			logger.WithError(err).Warn("skipping anthropic provider")
		} else {
			clients["anthropic"] = cli
		}
	}
	if cfg.Providers.Gemini.APIKey != "" {
		cli, err := gemini.NewClient(context.Background(), providerConfig(cfg.Providers.Gemini))
		if err != nil {
			logger.WithError(err).Warn("skipping gemini provider")
		} else {
			clients["gemini"] = cli
		}
	}

	logger.WithField("providers", len(clients)).Info("providers configured")
	return clients
}

func providerConfig(pc config.ProviderConfig) providers.Config {
	return providers.Config{
		APIKey:      pc.APIKey,
		Model:       pc.Model,
		MaxTokens:   pc.MaxTokens,
		Temperature: pc.Temperature,
	}
}
