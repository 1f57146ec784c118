package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Serper    SerperConfig    `yaml:"serper" mapstructure:"serper"`
	RSS       RSSConfig       `yaml:"rss" mapstructure:"rss"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Collect   CollectConfig   `yaml:"collect" mapstructure:"collect"`
	Rank      RankConfig      `yaml:"rank" mapstructure:"rank"`
	Dedup     DedupConfig     `yaml:"dedup" mapstructure:"dedup"`
	Digest    DigestConfig    `yaml:"digest" mapstructure:"digest"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SerperConfig holds Serper news search API settings.
type SerperConfig struct {
	Key      string `yaml:"key" mapstructure:"key"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	Location string `yaml:"location" mapstructure:"location"`
	Language string `yaml:"language" mapstructure:"language"`
}

// RSSConfig lists the RSS feeds polled during collection.
type RSSConfig struct {
	Feeds []string `yaml:"feeds" mapstructure:"feeds"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	JudgeModel  string `yaml:"judge_model" mapstructure:"judge_model"`
	DigestModel string `yaml:"digest_model" mapstructure:"digest_model"`
}

// CollectConfig configures the collection stage.
type CollectConfig struct {
	MaxPerSource int `yaml:"max_per_source" mapstructure:"max_per_source"`
	PeriodDays   int `yaml:"period_days" mapstructure:"period_days"`
}

// RankConfig configures the scoring stage.
type RankConfig struct {
	TopN            int     `yaml:"top_n" mapstructure:"top_n"`
	TiersFile       string  `yaml:"tiers_file" mapstructure:"tiers_file"`
	JudgePerSecond  float64 `yaml:"judge_per_second" mapstructure:"judge_per_second"`
	WeightRelevance float64 `yaml:"weight_relevance" mapstructure:"weight_relevance"`
	WeightImpact    float64 `yaml:"weight_impact" mapstructure:"weight_impact"`
	WeightNovelty   float64 `yaml:"weight_novelty" mapstructure:"weight_novelty"`
	WeightTier      float64 `yaml:"weight_tier" mapstructure:"weight_tier"`
	WeightRecency   float64 `yaml:"weight_recency" mapstructure:"weight_recency"`
}

// DedupConfig configures near-duplicate reduction.
type DedupConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
}

// DigestConfig configures digest generation.
type DigestConfig struct {
	Style          string `yaml:"style" mapstructure:"style"`
	MaxDefinitions int    `yaml:"max_definitions" mapstructure:"max_definitions"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("NEWSLETTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Secret keys get empty defaults so AutomaticEnv can see them.
	v.SetDefault("serper.key", "")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "newsletter.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("serper.base_url", "https://google.serper.dev")
	v.SetDefault("serper.location", "kr")
	v.SetDefault("serper.language", "ko")
	v.SetDefault("anthropic.judge_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.digest_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("collect.max_per_source", 20)
	v.SetDefault("collect.period_days", 14)
	v.SetDefault("rank.top_n", 10)
	v.SetDefault("rank.judge_per_second", 2.0)
	v.SetDefault("rank.weight_relevance", 0.40)
	v.SetDefault("rank.weight_impact", 0.25)
	v.SetDefault("rank.weight_novelty", 0.15)
	v.SetDefault("rank.weight_tier", 0.10)
	v.SetDefault("rank.weight_recency", 0.10)
	v.SetDefault("dedup.similarity_threshold", 0.8)
	v.SetDefault("digest.style", "compact")
	v.SetDefault("digest.max_definitions", 2)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
