package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reviewtrust/gateway/internal/behavior"
	"github.com/reviewtrust/gateway/internal/config"
	"github.com/reviewtrust/gateway/internal/gateway"
	"github.com/reviewtrust/gateway/internal/nlp"
	"github.com/reviewtrust/gateway/internal/normalizer"
	"github.com/reviewtrust/gateway/internal/orchestrator"
	"github.com/reviewtrust/gateway/internal/ratelimiter"
	"github.com/reviewtrust/gateway/internal/reportstore"
	"github.com/reviewtrust/gateway/internal/reviewsource"
	"github.com/reviewtrust/gateway/internal/scoring"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := buildLogger(cfg)

	store, err := buildStore(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize report store")
	}
	defer store.Close()

	source := buildReviewSource(cfg, logger)

	norm := normalizer.New(cfg)
	nlpAnalyzer := nlp.New(cfg)
	behaviorAnalyzer := behavior.New(cfg)
	scoringEngine := scoring.New(cfg)

	orch := orchestrator.New(cfg, norm, source, nlpAnalyzer, behaviorAnalyzer, scoringEngine, store, logger)
	limiter := ratelimiter.New(cfg.RateLimitWindow, cfg.RateLimitRPM)
	server := gateway.NewServer(cfg, orch, limiter, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := server.Start(); err != nil && err.Error() != "http: Server closed" {
			logger.Error().Err(err).Msg("gateway server error")
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info().Msg("received shutdown signal")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error stopping gateway server")
	}

	logger.Info().Msg("review trust gateway stopped")
}

func buildLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFormat == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func buildStore(cfg *config.Config, logger zerolog.Logger) (reportstore.Store, error) {
	if cfg.CacheBackend == "redis" {
		logger.Info().Str("addr", cfg.RedisAddr).Msg("using redis report store")
		return reportstore.NewRedis(reportstore.RedisConfig{Addr: cfg.RedisAddr})
	}
	logger.Info().Msg("using in-memory report store")
	return reportstore.NewMemory(time.Minute), nil
}

func buildReviewSource(cfg *config.Config, logger zerolog.Logger) reviewsource.Source {
	if cfg.ScrapeURL != "" {
		logger.Info().Str("endpoint", cfg.ScrapeURL).Msg("using http review source")
		return reviewsource.NewHTTP(cfg.ScrapeURL, cfg.RequestTimeout)
	}
	logger.Info().Msg("using mock review source")
	return reviewsource.NewMock()
}
