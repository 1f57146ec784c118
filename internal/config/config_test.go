package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "newsletter.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://google.serper.dev", cfg.Serper.BaseURL)
	assert.Equal(t, "kr", cfg.Serper.Location)
	assert.Equal(t, "ko", cfg.Serper.Language)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.JudgeModel)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.DigestModel)
	assert.Equal(t, 20, cfg.Collect.MaxPerSource)
	assert.Equal(t, 14, cfg.Collect.PeriodDays)
	assert.Equal(t, 10, cfg.Rank.TopN)
	assert.InDelta(t, 0.40, cfg.Rank.WeightRelevance, 0.001)
	assert.InDelta(t, 0.25, cfg.Rank.WeightImpact, 0.001)
	assert.InDelta(t, 0.15, cfg.Rank.WeightNovelty, 0.001)
	assert.InDelta(t, 0.10, cfg.Rank.WeightTier, 0.001)
	assert.InDelta(t, 0.10, cfg.Rank.WeightRecency, 0.001)
	assert.InDelta(t, 0.8, cfg.Dedup.SimilarityThreshold, 0.001)
	assert.Equal(t, "compact", cfg.Digest.Style)
	assert.Equal(t, 2, cfg.Digest.MaxDefinitions)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/newsletter
collect:
  period_days: 7
rank:
  top_n: 5
rss:
  feeds:
    - https://example.com/feed.xml
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/newsletter", cfg.Store.DatabaseURL)
	assert.Equal(t, 7, cfg.Collect.PeriodDays)
	assert.Equal(t, 5, cfg.Rank.TopN)
	assert.Equal(t, []string{"https://example.com/feed.xml"}, cfg.RSS.Feeds)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched defaults survive partial files.
	assert.Equal(t, 20, cfg.Collect.MaxPerSource)
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("NEWSLETTER_SERPER_KEY", "sk-test")
	t.Setenv("NEWSLETTER_COLLECT_PERIOD_DAYS", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.Serper.Key)
	assert.Equal(t, 30, cfg.Collect.PeriodDays)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}
