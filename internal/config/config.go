// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Fetcher   FetcherConfig   `mapstructure:"fetcher"`
	AI        AIConfig        `mapstructure:"ai"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Tagging   TaggingConfig   `mapstructure:"tagging"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"` // development, staging, production
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`
}

// FetcherConfig holds page-fetch settings for the content extractor.
type FetcherConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxBytes     int64         `mapstructure:"max_bytes"`
	MaxBodyWords int           `mapstructure:"max_body_words"`
}

// AIConfig holds the chat-completions backend settings.
type AIConfig struct {
	Enabled   bool          `mapstructure:"enabled"` // kill switch around the AI backend
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Retry     RetryConfig   `mapstructure:"retry"`
	CB        CBConfig      `mapstructure:"circuit_breaker"`
}

// RetryConfig holds retry settings.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	WaitTime    time.Duration `mapstructure:"wait_time"`
	MaxWaitTime time.Duration `mapstructure:"max_wait_time"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// AnalysisConfig holds content-analysis settings.
type AnalysisConfig struct {
	MaxBodyWords int `mapstructure:"max_body_words"`
}

// TaggingConfig holds tag-generation defaults.
type TaggingConfig struct {
	MaxTags       int     `mapstructure:"max_tags"`
	MinConfidence float64 `mapstructure:"min_confidence"`
	MaxBodyWords  int     `mapstructure:"max_body_words"`
}

// AnalyticsConfig holds tag-analytics settings.
type AnalyticsConfig struct {
	ClusterThreshold float64 `mapstructure:"cluster_threshold"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// RedisConfig holds Redis connection settings for the analysis cache.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis connection address.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds caching settings.
type CacheConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	AnalysisTTL time.Duration `mapstructure:"analysis_ttl"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
}

// Load reads configuration from file and environment variables.
// Priority: env vars > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found, continue with defaults + env vars
	}

	// Environment variable settings
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "content-intel-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", true)

	// Fetcher defaults
	v.SetDefault("fetcher.timeout", "8s")
	v.SetDefault("fetcher.max_bytes", 2097152)
	v.SetDefault("fetcher.max_body_words", 3000)

	// AI backend defaults
	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.base_url", "https://api.openai.com")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.max_tokens", 1000)
	v.SetDefault("ai.timeout", "15s")
	v.SetDefault("ai.retry.max_attempts", 2)
	v.SetDefault("ai.retry.wait_time", "1s")
	v.SetDefault("ai.retry.max_wait_time", "5s")
	v.SetDefault("ai.circuit_breaker.max_requests", 3)
	v.SetDefault("ai.circuit_breaker.interval", "60s")
	v.SetDefault("ai.circuit_breaker.timeout", "30s")
	v.SetDefault("ai.circuit_breaker.failure_ratio", 0.5)

	// Analysis defaults
	v.SetDefault("analysis.max_body_words", 3000)

	// Tagging defaults
	v.SetDefault("tagging.max_tags", 5)
	v.SetDefault("tagging.min_confidence", 0.7)
	v.SetDefault("tagging.max_body_words", 1500)

	// Analytics defaults
	v.SetDefault("analytics.cluster_threshold", 0.4)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Cache defaults
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.analysis_ttl", "1h")
	v.SetDefault("cache.key_prefix", "content-intel")
}
