package rank

import (
	"sort"
	"time"

	"github.com/hjjung-katech/newsletter-generator-sub000/internal/dateparse"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/model"
)

// headlineWindowDays is the span over which the linear recency term of the
// headline heuristic falls from 1 to 0.
const headlineWindowDays = 7.0

// PickHeadlines is the quick highlight shortcut: a tier-plus-linear-recency
// heuristic with no judging calls. It is intentionally a separate formula
// from Engine.Rank. The full weighted ranking orders the digest; this picks
// a handful of headlines without spending tokens. The two are not expected
// to produce consistent orderings.
func PickHeadlines(articles []model.Article, tiers *TierSet, n int, now time.Time) []model.Article {
	if tiers == nil {
		tiers = DefaultTiers()
	}

	picked := make([]model.Article, len(articles))
	copy(picked, articles)

	for i := range picked {
		tierScore, tierName := tiers.Classify(picked[i].Source)
		picked[i].TierScore = tierScore
		picked[i].TierName = tierName
		picked[i].PriorityScore = 100 * (0.6*tierScore + 0.4*linearRecency(picked[i].Date, now))
	}

	sort.SliceStable(picked, func(a, b int) bool {
		return picked[a].PriorityScore > picked[b].PriorityScore
	})

	if n > 0 && n < len(picked) {
		picked = picked[:n]
	}
	return picked
}

// linearRecency falls linearly from 1 (now) to 0 (a week old or more).
// Unparseable dates score 0.
func linearRecency(date string, now time.Time) float64 {
	t, ok := dateparse.Parse(date, now)
	if !ok {
		return 0
	}
	days := now.UTC().Sub(t).Hours() / 24
	if days < 0 {
		days = 0
	}
	if days >= headlineWindowDays {
		return 0
	}
	return 1 - days/headlineWindowDays
}
