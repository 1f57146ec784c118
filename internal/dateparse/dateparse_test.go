package dateparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refTime = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func TestParse_RelativeEnglishWeeks(t *testing.T) {
	got, ok := Parse("2 weeks ago", refTime)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 5, 18, 0, 0, 0, 0, time.UTC), got)
}

func TestParse_RelativeKorean(t *testing.T) {
	cases := map[string]time.Time{
		"3일 전":   refTime.AddDate(0, 0, -3),
		"5시간 전":  refTime.Add(-5 * time.Hour),
		"30분 전":  refTime.Add(-30 * time.Minute),
		"2주 전":   refTime.AddDate(0, 0, -14),
		"1개월 전":  refTime.AddDate(0, 0, -30),
		"어제":     refTime.AddDate(0, 0, -1),
		"오늘":     refTime,
		"10일 전":  refTime.AddDate(0, 0, -10),
		"2개월 전":  refTime.AddDate(0, 0, -60),
		"12시간 전": refTime.Add(-12 * time.Hour),
	}
	for raw, want := range cases {
		got, ok := Parse(raw, refTime)
		require.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestParse_RelativeEnglish(t *testing.T) {
	cases := map[string]time.Time{
		"3 days ago":    refTime.AddDate(0, 0, -3),
		"1 day ago":     refTime.AddDate(0, 0, -1),
		"5 hours ago":   refTime.Add(-5 * time.Hour),
		"45 minutes ago": refTime.Add(-45 * time.Minute),
		"2 months ago":  refTime.AddDate(0, 0, -60),
		"yesterday":     refTime.AddDate(0, 0, -1),
		"Today":         refTime,
	}
	for raw, want := range cases {
		got, ok := Parse(raw, refTime)
		require.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestParse_ISO(t *testing.T) {
	got, ok := Parse("2025-05-20T09:30:00Z", refTime)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 5, 20, 9, 30, 0, 0, time.UTC), got)

	// Naive timestamps are assumed UTC.
	got, ok = Parse("2025-05-20T09:30:00", refTime)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 5, 20, 9, 30, 0, 0, time.UTC), got)
}

func TestParse_AbsolutePatterns(t *testing.T) {
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{
		"2025년 6월 1일",
		"2025년6월1일",
		"2025.06.01",
		"2025. 6. 1",
		"2025/06/01",
		"2025-06-01",
		"June 1, 2025",
		"Jun 1, 2025",
		"1 June 2025",
	} {
		got, ok := Parse(raw, refTime)
		require.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestParse_Unparseable(t *testing.T) {
	for _, raw := range []string{"", "날짜 없음", "soon", "n/a", "????"} {
		_, ok := Parse(raw, refTime)
		assert.False(t, ok, raw)
	}
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "2025-05-18", Canonical("2 weeks ago", refTime))
	assert.Equal(t, "", Canonical("날짜 없음", refTime))
}

func TestWithinWindow_RetainsUnparseable(t *testing.T) {
	// An unparseable date must pass the recency filter, not be excluded.
	assert.True(t, WithinWindow("날짜 없음", 7, refTime))
	assert.True(t, WithinWindow("", 7, refTime))
}

func TestWithinWindow_Cutoff(t *testing.T) {
	assert.True(t, WithinWindow("2025-05-26", 7, refTime))
	assert.True(t, WithinWindow("2025-05-25", 7, refTime)) // exactly on cutoff
	assert.False(t, WithinWindow("2025-05-24", 7, refTime))
	assert.False(t, WithinWindow("3 weeks ago", 7, refTime))
}

func TestFormatDisplay(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-06-01 (30분 전)", FormatDisplay(now.Add(-30*time.Minute), now))
	assert.Equal(t, "2025-06-01 (3시간 전)", FormatDisplay(now.Add(-3*time.Hour), now))
	assert.Equal(t, "2025-05-29", FormatDisplay(now.AddDate(0, 0, -3), now))
	// Future timestamps render as a bare date.
	assert.Equal(t, "2025-06-02", FormatDisplay(now.AddDate(0, 0, 1), now))
}
