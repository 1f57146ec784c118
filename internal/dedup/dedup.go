// Package dedup removes exact and near-duplicate articles. Two passes run in
// order: canonical URL/title key matching, then title-overlap comparison.
// Both passes are order-dependent: the first-seen article wins.
package dedup

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/hjjung-katech/newsletter-generator-sub000/internal/model"
)

// nearDupThreshold is the overlap ratio at which two titles are treated as
// the same story in the main pipeline pass.
const nearDupThreshold = 0.99

// DefaultSimilarityThreshold is used by ReduceSimilar when the caller passes
// a non-positive threshold.
const DefaultSimilarityThreshold = 0.8

// reNonWord strips everything except word characters and Hangul before
// title keying.
var reNonWord = regexp.MustCompile(`[^\w가-힣]+`)

// stageWords mark distinct phases of an evolving story ("planned" vs
// "completed"). Titles that overlap almost entirely but carry one of these
// are two genuinely different articles and must not be collapsed.
var stageWords = []string{
	"추진", "발표", "완료", "중단", "착수", "연기", "확정", "취소", "검토",
	"planned", "announced", "completed", "halted", "launched", "delayed",
	"confirmed", "canceled", "suspended",
}

// CanonicalURLKey reduces a URL to its duplicate-detection identity:
// lower-cased host with a leading "www." stripped, path with the trailing
// slash stripped, query string discarded. Scheme is ignored. Returns "" for
// unusable input.
func CanonicalURLKey(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	path := strings.TrimSuffix(u.Path, "/")
	return host + path
}

// CanonicalTitleKey reduces a title to its duplicate-detection identity:
// NFC-normalized, everything except word characters and Hangul stripped,
// whitespace collapsed, lower-cased.
func CanonicalTitleKey(title string) string {
	s := norm.NFC.String(strings.TrimSpace(title))
	if s == "" {
		return ""
	}
	s = reNonWord.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}

// OverlapRatio computes |A ∩ B| / min(|A|, |B|) over the whitespace-split
// token sets of two normalized titles. Symmetric; 0 when either set is empty.
func OverlapRatio(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	overlap := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			overlap++
		}
	}
	minLen := len(setA)
	if len(setB) < minLen {
		minLen = len(setB)
	}
	return float64(overlap) / float64(minLen)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}

func hasStageWord(title string) bool {
	lower := strings.ToLower(title)
	for _, w := range stageWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// Dedupe applies both passes to the candidate set. Articles lacking both a
// usable URL key and a usable title key carry no identity and are dropped
// unconditionally. An exact title-key match is the overlap case at ratio 1.0,
// so it goes through the same stage-word exception: two identical titles
// marking different stages of a story stay distinct. Running Dedupe on its
// own output removes nothing further.
func Dedupe(articles []model.Article) []model.Article {
	seenURL := make(map[string]struct{})
	var acceptedKeys []string

	kept := make([]model.Article, 0, len(articles))
	for _, a := range articles {
		urlKey := CanonicalURLKey(a.URL)
		titleKey := CanonicalTitleKey(a.Title)
		if urlKey == "" && titleKey == "" {
			continue
		}

		if urlKey != "" {
			if _, ok := seenURL[urlKey]; ok {
				continue
			}
		}

		if titleKey != "" && isNearDuplicate(titleKey, a.Title, acceptedKeys, kept) {
			continue
		}

		if urlKey != "" {
			seenURL[urlKey] = struct{}{}
		}
		acceptedKeys = append(acceptedKeys, titleKey)
		kept = append(kept, a)
	}
	return kept
}

// isNearDuplicate compares a candidate title key against every previously
// accepted key. A match at or above the threshold collapses the candidate
// unless either title carries a differentiating stage word.
func isNearDuplicate(titleKey, title string, acceptedKeys []string, accepted []model.Article) bool {
	for i, prevKey := range acceptedKeys {
		if prevKey == "" {
			continue
		}
		if OverlapRatio(titleKey, prevKey) < nearDupThreshold {
			continue
		}
		if hasStageWord(title) || hasStageWord(accepted[i].Title) {
			continue
		}
		return true
	}
	return false
}

// ReduceSimilar is the independent near-duplicate remover used outside the
// main pipeline for "similar articles" passes. It applies the overlap-ratio
// formula with a caller-supplied threshold and no stage-word exception: any
// pair at or above threshold collapses to the first-seen article.
func ReduceSimilar(articles []model.Article, threshold float64) []model.Article {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}

	var acceptedKeys []string
	kept := make([]model.Article, 0, len(articles))
	for _, a := range articles {
		titleKey := CanonicalTitleKey(a.Title)
		dup := false
		if titleKey != "" {
			for _, prevKey := range acceptedKeys {
				if prevKey != "" && OverlapRatio(titleKey, prevKey) >= threshold {
					dup = true
					break
				}
			}
		}
		if dup {
			continue
		}
		acceptedKeys = append(acceptedKeys, titleKey)
		kept = append(kept, a)
	}
	return kept
}
