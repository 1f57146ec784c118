package rank

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hjjung-katech/newsletter-generator-sub000/internal/model"
)

func TestClassify(t *testing.T) {
	tiers := DefaultTiers()

	score, name := tiers.Classify("연합뉴스")
	assert.Equal(t, TierScoreTop, score)
	assert.Equal(t, TierNameTop, name)

	// Case-insensitive substring match.
	score, name = tiers.Classify("Reuters Korea Bureau")
	assert.Equal(t, TierScoreTop, score)
	assert.Equal(t, TierNameTop, name)

	score, name = tiers.Classify("매일경제")
	assert.Equal(t, TierScoreSecondary, score)
	assert.Equal(t, TierNameSecondary, name)

	score, name = tiers.Classify("알 수 없는 블로그")
	assert.Equal(t, TierScoreOther, score)
	assert.Equal(t, TierNameOther, name)

	score, name = tiers.Classify("")
	assert.Equal(t, TierScoreOther, score)
	assert.Equal(t, TierNameOther, name)
}

func TestLoadTiers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("top:\n  - 최상위매체\nsecondary:\n  - 이급매체\n"), 0o600))

	tiers, err := LoadTiers(path)
	require.NoError(t, err)

	score, name := tiers.Classify("최상위매체 뉴스")
	assert.Equal(t, TierScoreTop, score)
	assert.Equal(t, TierNameTop, name)
}

func TestLoadTiers_MissingEntriesFallBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("top:\n  - 최상위매체\n"), 0o600))

	tiers, err := LoadTiers(path)
	require.NoError(t, err)
	assert.NotEmpty(t, tiers.Secondary) // defaults kept
}

func TestLoadTiers_MissingFile(t *testing.T) {
	_, err := LoadTiers("/nonexistent/tiers.yaml")
	assert.Error(t, err)
}

func TestPickHeadlines(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	in := []model.Article{
		{Title: "무명 블로그 최신글", Source: "블로그", Date: "2025-06-01"},
		{Title: "연합뉴스 전날 기사", Source: "연합뉴스", Date: "2025-05-31"},
		{Title: "날짜 없는 기사", Source: "어딘가"},
	}
	out := PickHeadlines(in, DefaultTiers(), 2, now)
	require.Len(t, out, 2)
	// Top-tier source beats a fresher no-name source at these weights:
	// 0.6*1.0 + 0.4*(6/7) vs 0.6*0.6 + 0.4*1.0.
	assert.Equal(t, "연합뉴스 전날 기사", out[0].Title)
	assert.Equal(t, "무명 블로그 최신글", out[1].Title)
}

func TestPickHeadlines_NoTruncationWhenNNonPositive(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	in := []model.Article{{Title: "a"}, {Title: "b"}}
	assert.Len(t, PickHeadlines(in, nil, 0, now), 2)
}
