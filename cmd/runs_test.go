package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hjjung-katech/newsletter-generator-sub000/internal/model"
)

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "12345678", truncateID("1234567890abcdef"))
	assert.Equal(t, "short", truncateID("short"))
}

func TestFormatRunsList(t *testing.T) {
	created := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	runs := []model.Run{
		{
			ID:        "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee",
			Keywords:  []string{"이차전지", "전고체"},
			Status:    model.RunStatusComplete,
			Result:    &model.RunResult{ArticleCount: 7},
			CreatedAt: created,
			UpdatedAt: created.Add(42 * time.Second),
		},
		{
			ID:        "ffffffff-0000-1111-2222-333333333333",
			Keywords:  []string{"수소"},
			Status:    model.RunStatusFailed,
			CreatedAt: created,
			UpdatedAt: created,
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)
	out := buf.String()

	assert.Contains(t, out, "aaaaaaaa")
	assert.Contains(t, out, "이차전지, 전고체")
	assert.Contains(t, out, "complete")
	assert.Contains(t, out, "7")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "42s")
	// Runs without a persisted result show a placeholder count.
	assert.Contains(t, out, "-")
}

func TestFormatHeadlines(t *testing.T) {
	articles := []model.Article{
		{Title: "전고체 배터리 파일럿 가동", Source: "연합뉴스", TierName: "top", Date: "2025-05-30"},
		{Title: "날짜 미상 기사", Source: "블로그", TierName: "other", OriginalDate: "어느 봄날"},
	}

	var buf bytes.Buffer
	formatHeadlines(&buf, articles)
	out := buf.String()

	assert.Contains(t, out, "전고체 배터리 파일럿 가동")
	assert.Contains(t, out, "연합뉴스")
	assert.Contains(t, out, "top")
	assert.Contains(t, out, "2025-05-30")
	// Unparseable dates fall back to the raw source text.
	assert.Contains(t, out, "어느 봄날")
}
