// Package dateparse normalizes the heterogeneous date strings news sources
// emit (Korean and English, relative and absolute) into timezone-aware UTC
// instants. Every downstream stage that touches recency goes through here.
package dateparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Package-level compiled regexes; parsing runs once per article per stage.
var (
	reRelativeKo = regexp.MustCompile(`(\d+)\s*(분|시간|일|주|개월|달)\s*전`)
	reRelativeEn = regexp.MustCompile(`(?i)(\d+)\s*(minute|hour|day|week|month)s?\s+ago`)
	reKoreanYMD  = regexp.MustCompile(`(\d{4})년\s*(\d{1,2})월\s*(\d{1,2})일`)
	reNumericYMD = regexp.MustCompile(`(\d{4})\s*[./-]\s*(\d{1,2})\s*[./-]\s*(\d{1,2})`)
)

// isoLayouts are tried in order for ISO-8601 inputs, with or without a
// trailing UTC marker. Naive results are assumed UTC.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// englishLayouts cover month-name formats ("June 1, 2025", "1 Jun 2025").
var englishLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// Parse converts an arbitrary date string into a UTC instant. The reference
// time anchors relative phrases. Returns false when nothing matches.
//
// Match order: relative phrases, ISO-8601, then the fixed absolute-pattern
// list. Months in relative phrases are approximated as 30 days.
func Parse(raw string, now time.Time) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if t, ok := parseRelative(s, now); ok {
		return t, true
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	if m := reKoreanYMD.FindStringSubmatch(s); m != nil {
		return ymd(m[1], m[2], m[3])
	}
	if m := reNumericYMD.FindStringSubmatch(s); m != nil {
		return ymd(m[1], m[2], m[3])
	}

	for _, layout := range englishLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}

func parseRelative(s string, now time.Time) (time.Time, bool) {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(s, "오늘"), strings.Contains(lower, "today"):
		return now.UTC(), true
	case strings.Contains(s, "어제"), strings.Contains(lower, "yesterday"):
		return now.UTC().AddDate(0, 0, -1), true
	}

	var n int
	var unit string
	if m := reRelativeKo.FindStringSubmatch(s); m != nil {
		n, _ = strconv.Atoi(m[1])
		switch m[2] {
		case "분":
			unit = "minute"
		case "시간":
			unit = "hour"
		case "일":
			unit = "day"
		case "주":
			unit = "week"
		case "개월", "달":
			unit = "month"
		}
	} else if m := reRelativeEn.FindStringSubmatch(s); m != nil {
		n, _ = strconv.Atoi(m[1])
		unit = strings.ToLower(m[2])
	} else {
		return time.Time{}, false
	}

	ref := now.UTC()
	switch unit {
	case "minute":
		return ref.Add(-time.Duration(n) * time.Minute), true
	case "hour":
		return ref.Add(-time.Duration(n) * time.Hour), true
	case "day":
		return ref.AddDate(0, 0, -n), true
	case "week":
		return ref.AddDate(0, 0, -7*n), true
	case "month":
		// Months are approximated as 30 days.
		return ref.AddDate(0, 0, -30*n), true
	}
	return time.Time{}, false
}

func ymd(year, month, day string) (time.Time, bool) {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), true
}

// Canonical renders a raw date string as a canonical ISO date ("2006-01-02"),
// or "" when the input is unparseable.
func Canonical(raw string, now time.Time) string {
	t, ok := Parse(raw, now)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}

// WithinWindow reports whether an article's date passes the recency filter:
// parsed date on/after now minus periodDays, or missing/unparseable. Genuine
// news with an odd date format must be retained, not rejected.
func WithinWindow(raw string, periodDays int, now time.Time) bool {
	t, ok := Parse(raw, now)
	if !ok {
		return true
	}
	cutoff := now.UTC().AddDate(0, 0, -periodDays)
	return !t.Before(cutoff)
}

// FormatDisplay renders an instant for presentation: anything under 24 hours
// old as "<date> (N분 전)" / "(N시간 전)", anything older as a bare date.
func FormatDisplay(t time.Time, now time.Time) string {
	date := t.UTC().Format("2006-01-02")
	age := now.UTC().Sub(t.UTC())
	if age < 0 || age >= 24*time.Hour {
		return date
	}
	if age < time.Hour {
		minutes := int(age.Minutes())
		if minutes < 1 {
			minutes = 1
		}
		return fmt.Sprintf("%s (%d분 전)", date, minutes)
	}
	return fmt.Sprintf("%s (%d시간 전)", date, int(age.Hours()))
}
