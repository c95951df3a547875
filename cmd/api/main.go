// Package main is the entry point for the content-intel-service API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"content-intel-service/internal/app/service"
	"content-intel-service/internal/config"
	"content-intel-service/internal/domain"
	"content-intel-service/internal/infra/ai"
	"content-intel-service/internal/infra/extractor"
	"content-intel-service/internal/infra/httpclient"
	rediscache "content-intel-service/internal/infra/redis"
	"content-intel-service/internal/logger"
	"content-intel-service/internal/transport/httpserver"
	"content-intel-service/internal/validator"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(
		logger.Config{
			Level:  cfg.Logger.Level,
			Format: cfg.Logger.Format,
			Output: cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting content-intel-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
	)

	// Create content extractor
	extr := extractor.New(
		extractor.Config{
			Timeout:      cfg.Fetcher.Timeout,
			MaxBytes:     cfg.Fetcher.MaxBytes,
			MaxBodyWords: cfg.Fetcher.MaxBodyWords,
		},
		log.Logger,
	)

	// Create AI client (optional, based on config). When disabled every
	// pipeline falls back to heuristics.
	var completer domain.Completer
	if cfg.AI.Enabled {
		completer = ai.New(
			ai.Config{
				Client: httpclient.ClientConfig{
					BaseURL: cfg.AI.BaseURL,
					Timeout: cfg.AI.Timeout,
					Retry: httpclient.RetryConfig{
						MaxAttempts: cfg.AI.Retry.MaxAttempts,
						WaitTime:    cfg.AI.Retry.WaitTime,
						MaxWaitTime: cfg.AI.Retry.MaxWaitTime,
					},
					CB: httpclient.CBConfig{
						MaxRequests:  cfg.AI.CB.MaxRequests,
						Interval:     cfg.AI.CB.Interval,
						Timeout:      cfg.AI.CB.Timeout,
						FailureRatio: cfg.AI.CB.FailureRatio,
					},
				},
				APIKey:       cfg.AI.APIKey,
				DefaultModel: cfg.AI.Model,
			},
			log.Logger,
		)
		log.Info("AI backend enabled",
			zap.String("base_url", cfg.AI.BaseURL),
			zap.String("model", cfg.AI.Model),
		)
	} else {
		log.Info("AI backend disabled, heuristics only")
	}

	// Create cache implementation (optional, based on config)
	var cacheImpl *rediscache.Cache
	var cache domain.Cache
	if cfg.Cache.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		// Ping Redis to verify connection
		ctx := context.Background()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()

		cacheImpl = rediscache.NewCache(redisClient, log.Logger, cfg.Cache.KeyPrefix)
		cache = cacheImpl
		log.Info("analysis cache enabled",
			zap.String("addr", cfg.Redis.Addr()),
			zap.Duration("analysis_ttl", cfg.Cache.AnalysisTTL),
			zap.String("key_prefix", cfg.Cache.KeyPrefix),
		)
	} else {
		log.Info("analysis cache disabled")
	}

	// Create services
	analysisSvc := service.NewAnalysisService(
		extr,
		completer,
		cache,
		service.AnalysisConfig{
			Model:        cfg.AI.Model,
			MaxTokens:    cfg.AI.MaxTokens,
			MaxBodyWords: cfg.Analysis.MaxBodyWords,
			CacheTTL:     cfg.Cache.AnalysisTTL,
		},
		log.Logger,
	)
	taggingSvc := service.NewTaggingService(
		completer,
		service.TaggingConfig{
			Model:         cfg.AI.Model,
			MaxTokens:     cfg.AI.MaxTokens,
			MaxBodyWords:  cfg.Tagging.MaxBodyWords,
			MaxTags:       cfg.Tagging.MaxTags,
			MinConfidence: cfg.Tagging.MinConfidence,
		},
		log.Logger,
	)
	analyticsSvc := service.NewAnalyticsService(
		taggingSvc,
		service.AnalyticsConfig{ClusterThreshold: cfg.Analytics.ClusterThreshold},
		log.Logger,
	)

	// Create validator
	v := validator.New()

	// Create HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:  cfg.App.Port,
			Debug: cfg.App.Debug,
		},
		analysisSvc,
		taggingSvc,
		analyticsSvc,
		extr,
		cacheImpl,
		v,
		log.Logger,
	)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		// Shutdown server with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	// Start server
	if err := server.Start(); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
