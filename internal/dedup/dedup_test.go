package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hjjung-katech/newsletter-generator-sub000/internal/model"
)

func TestCanonicalURLKey_Determinism(t *testing.T) {
	// Scheme, www prefix, trailing slash, and query string must not matter.
	variants := []string{
		"https://www.example.com/news/story-1",
		"http://example.com/news/story-1",
		"https://example.com/news/story-1/",
		"https://www.example.com/news/story-1?utm_source=rss&ref=home",
		"HTTPS://WWW.Example.COM/news/story-1",
	}
	want := CanonicalURLKey(variants[0])
	require.NotEmpty(t, want)
	for _, v := range variants[1:] {
		assert.Equal(t, want, CanonicalURLKey(v), v)
	}
}

func TestCanonicalURLKey_Unusable(t *testing.T) {
	assert.Equal(t, "", CanonicalURLKey(""))
	assert.Equal(t, "", CanonicalURLKey("   "))
}

func TestCanonicalTitleKey(t *testing.T) {
	assert.Equal(t, "삼성전자 반도체 투자 확대", CanonicalTitleKey("  삼성전자, 반도체 투자 '확대'!  "))
	assert.Equal(t, "ai chip exports surge", CanonicalTitleKey("AI Chip Exports — Surge?"))
	assert.Equal(t, "", CanonicalTitleKey("···"))
}

func TestOverlapRatio_Symmetry(t *testing.T) {
	a := CanonicalTitleKey("정부 반도체 특별법 추진")
	b := CanonicalTitleKey("정부 반도체 특별법 추진 계획 공개")
	assert.Equal(t, OverlapRatio(a, b), OverlapRatio(b, a))
	assert.InDelta(t, 1.0, OverlapRatio(a, b), 0.001)
}

func TestOverlapRatio_Empty(t *testing.T) {
	assert.Equal(t, 0.0, OverlapRatio("", "anything"))
	assert.Equal(t, 0.0, OverlapRatio("", ""))
}

func TestDedupe_ExactURL(t *testing.T) {
	in := []model.Article{
		{Title: "첫 기사", URL: "https://www.news.co.kr/a/1"},
		{Title: "다른 제목의 같은 기사", URL: "http://news.co.kr/a/1/"},
		{Title: "별개 기사", URL: "https://news.co.kr/a/2"},
	}
	out := Dedupe(in)
	require.Len(t, out, 2)
	assert.Equal(t, "첫 기사", out[0].Title)
	assert.Equal(t, "별개 기사", out[1].Title)
}

func TestDedupe_NoIdentity(t *testing.T) {
	in := []model.Article{
		{Title: "", URL: ""},
		{Title: "실제 기사", URL: "https://news.co.kr/a/1"},
	}
	assert.Len(t, Dedupe(in), 1)
}

func TestDedupe_NearDuplicateCollapses(t *testing.T) {
	in := []model.Article{
		{Title: "코스피 사상 최고치 경신", URL: "https://a.com/1"},
		{Title: "코스피, 사상 최고치 경신!", URL: "https://b.com/2"},
	}
	out := Dedupe(in)
	require.Len(t, out, 1)
	assert.Equal(t, "https://a.com/1", out[0].URL)
}

func TestDedupe_StageWordException(t *testing.T) {
	// Both titles carry the stage word "planned": two distinct articles
	// about the same evolving story, must not be collapsed.
	in := []model.Article{
		{Title: "A policy planned", Date: "2025-01-01"},
		{Title: "A policy planned", Date: "2025-01-02", Source: "X"},
	}
	out := Dedupe(in)
	assert.Len(t, out, 2)
}

func TestDedupe_StageWordExceptionKorean(t *testing.T) {
	in := []model.Article{
		{Title: "반도체 공장 건설 추진", URL: "https://a.com/1"},
		{Title: "반도체 공장 건설 완료", URL: "https://b.com/2"},
	}
	assert.Len(t, Dedupe(in), 2)
}

func TestDedupe_Idempotent(t *testing.T) {
	in := []model.Article{
		{Title: "코스피 사상 최고치 경신", URL: "https://a.com/1"},
		{Title: "코스피, 사상 최고치 경신", URL: "https://b.com/2"},
		{Title: "환율 급등에 수출주 강세", URL: "https://a.com/3"},
		{Title: "A policy planned"},
		{Title: "A policy planned", Source: "X"},
	}
	once := Dedupe(in)
	twice := Dedupe(once)
	assert.Equal(t, once, twice)
}

func TestDedupe_FirstSeenWins(t *testing.T) {
	in := []model.Article{
		{Title: "금리 동결 결정", URL: "https://first.com/1", Source: "first"},
		{Title: "금리 동결 결정", URL: "https://second.com/1", Source: "second"},
	}
	out := Dedupe(in)
	require.Len(t, out, 1)
	assert.Equal(t, "first", out[0].Source)
}

func TestReduceSimilar_DefaultThreshold(t *testing.T) {
	in := []model.Article{
		{Title: "전기차 배터리 수출 급증세"},
		{Title: "전기차 배터리 수출 급증세 지속"}, // 4/4 overlap = 1.0 >= 0.8
		{Title: "우주 발사체 시험 성공"},
	}
	out := ReduceSimilar(in, 0)
	require.Len(t, out, 2)
	assert.Equal(t, "전기차 배터리 수출 급증세", out[0].Title)
}

func TestReduceSimilar_NoStageWordException(t *testing.T) {
	// Unlike Dedupe, identical titles with a stage word still collapse here.
	in := []model.Article{
		{Title: "A policy planned"},
		{Title: "A policy planned", Source: "X"},
	}
	assert.Len(t, ReduceSimilar(in, 0.8), 1)
}

func TestReduceSimilar_ThresholdRespected(t *testing.T) {
	in := []model.Article{
		{Title: "alpha beta gamma delta"},
		{Title: "alpha beta epsilon zeta"}, // 2/4 = 0.5 overlap
	}
	assert.Len(t, ReduceSimilar(in, 0.8), 2)
	assert.Len(t, ReduceSimilar(in, 0.5), 1)
}
