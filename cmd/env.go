package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	anthropicpkg "github.com/hjjung-katech/newsletter-generator-sub000/pkg/anthropic"
	"github.com/hjjung-katech/newsletter-generator-sub000/pkg/serper"

	"github.com/hjjung-katech/newsletter-generator-sub000/internal/connector"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/judge"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/pipeline"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/rank"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/store"
)

// pipelineEnv bundles the wired pipeline and the resources it owns.
type pipelineEnv struct {
	Store     store.Store
	Connector connector.Connector
	Tiers     *rank.TierSet
	Pipeline  *pipeline.Pipeline
}

// Close releases the environment's resources.
func (e *pipelineEnv) Close() {
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("close store", zap.Error(err))
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "newsletter.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initConnectors builds the merged collection source from the configured
// search API and RSS feeds. At least one source must be configured.
func initConnectors() (connector.Connector, error) {
	var connectors []connector.Connector

	if cfg.Serper.Key != "" {
		client := serper.NewClient(cfg.Serper.Key, serper.WithBaseURL(cfg.Serper.BaseURL))
		connectors = append(connectors, connector.NewSerper(client, cfg.Serper.Location, cfg.Serper.Language))
	}
	if len(cfg.RSS.Feeds) > 0 {
		connectors = append(connectors, connector.NewRSS(cfg.RSS.Feeds))
	}

	if len(connectors) == 0 {
		return nil, eris.New("no collection sources configured: set NEWSLETTER_SERPER_KEY or rss.feeds")
	}
	return connector.NewMulti(connectors...), nil
}

func loadTiers() *rank.TierSet {
	if cfg.Rank.TiersFile == "" {
		return rank.DefaultTiers()
	}
	tiers, err := rank.LoadTiers(cfg.Rank.TiersFile)
	if err != nil {
		zap.L().Warn("load tiers file failed, using defaults",
			zap.String("path", cfg.Rank.TiersFile),
			zap.Error(err),
		)
		return rank.DefaultTiers()
	}
	return tiers
}

// initPipeline wires the full digest pipeline from configuration.
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "migrate store")
	}

	conn, err := initConnectors()
	if err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}

	if cfg.Anthropic.Key == "" {
		st.Close() //nolint:errcheck
		return nil, eris.New("anthropic API key is required (NEWSLETTER_ANTHROPIC_KEY)")
	}
	anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)

	// Cheap model for per-article judging, stronger model for digest prose.
	judgeCap := judge.NewCapability(anthropicClient, cfg.Anthropic.JudgeModel)
	digestCap := judge.NewCapability(anthropicClient, cfg.Anthropic.DigestModel)

	tiers := loadTiers()
	weights := rank.Weights{
		Relevance:  cfg.Rank.WeightRelevance,
		Impact:     cfg.Rank.WeightImpact,
		Novelty:    cfg.Rank.WeightNovelty,
		SourceTier: cfg.Rank.WeightTier,
		Recency:    cfg.Rank.WeightRecency,
	}

	var opts []rank.Option
	if cfg.Rank.JudgePerSecond > 0 {
		opts = append(opts, rank.WithRateLimit(cfg.Rank.JudgePerSecond))
	}
	engine := rank.NewEngine(judgeCap, tiers, weights, opts...)

	return &pipelineEnv{
		Store:     st,
		Connector: conn,
		Tiers:     tiers,
		Pipeline:  pipeline.New(cfg, st, conn, digestCap, engine),
	}, nil
}
