// Package rank orders candidate articles by a weighted blend of judged
// quality, source trust, and recency decay.
package rank

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hjjung-katech/newsletter-generator-sub000/internal/dateparse"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/judge"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/model"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/resilience"
)

// RecencyHalfLifeDays controls the exponential recency decay e^(-days/14):
// a half-month-old article scores roughly half of a brand-new one.
const RecencyHalfLifeDays = 14.0

// NeutralPriority is assigned to every article when the judging service is
// unreachable and the stage degrades to a pure recency ordering.
const NeutralPriority = 50.0

// Weights blends the five ranking components. They must sum to ≈1.0.
type Weights struct {
	Relevance  float64 `json:"relevance" mapstructure:"relevance"`
	Impact     float64 `json:"impact" mapstructure:"impact"`
	Novelty    float64 `json:"novelty" mapstructure:"novelty"`
	SourceTier float64 `json:"source_tier" mapstructure:"source_tier"`
	Recency    float64 `json:"recency" mapstructure:"recency"`
}

// DefaultWeights returns the documented default blend.
func DefaultWeights() Weights {
	return Weights{
		Relevance:  0.40,
		Impact:     0.25,
		Novelty:    0.15,
		SourceTier: 0.10,
		Recency:    0.10,
	}
}

func (w Weights) sum() float64 {
	return w.Relevance + w.Impact + w.Novelty + w.SourceTier + w.Recency
}

// Validated returns w when its components sum to ≈1.0, otherwise the
// defaults. Misconfigured overrides must never silently skew the ranking.
func (w Weights) Validated() Weights {
	if math.Abs(w.sum()-1.0) > 0.01 {
		zap.L().Warn("rank: weight overrides do not sum to 1.0, using defaults",
			zap.Float64("sum", w.sum()),
		)
		return DefaultWeights()
	}
	return w
}

// Engine ranks articles using the external judging capability.
type Engine struct {
	judger  judge.Judger
	tiers   *TierSet
	weights Weights
	limiter *rate.Limiter
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithNow overrides the engine's clock (tests).
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRateLimit caps judge calls per second.
func WithRateLimit(perSecond float64) Option {
	return func(e *Engine) {
		e.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// NewEngine creates a ranking engine. Weights are validated up front.
func NewEngine(j judge.Judger, tiers *TierSet, weights Weights, opts ...Option) *Engine {
	if tiers == nil {
		tiers = DefaultTiers()
	}
	e := &Engine{
		judger:  j,
		tiers:   tiers,
		weights: weights.Validated(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// RecencyScore computes the exponential decay component for a canonical date
// string. Missing or unparseable dates get the weakest-case score of 0.
func RecencyScore(date string, now time.Time) float64 {
	t, ok := dateparse.Parse(date, now)
	if !ok {
		return 0
	}
	days := now.UTC().Sub(t).Hours() / 24
	if days < 0 {
		days = 0
	}
	return math.Exp(-days / RecencyHalfLifeDays)
}

// Rank scores every article and returns them sorted descending by priority,
// stable on ties. A transient judging failure does not abort the run: every
// article gets a neutral priority and tier, and the order degrades to pure
// recency. topN <= 0 returns the full ranked set.
//
// The returned degraded flag reports whether the fallback path was taken.
func (e *Engine) Rank(ctx context.Context, articles []model.Article, topic string, topN int) ([]model.Article, model.TokenUsage, bool, error) {
	ranked := make([]model.Article, len(articles))
	copy(ranked, articles)

	var usage model.TokenUsage
	now := e.now()
	degraded := false

	for i := range ranked {
		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return nil, usage, false, err
			}
		}

		scores, callUsage, err := e.judger.Judge(ctx, ranked[i], topic)
		usage.Add(callUsage)

		if err != nil {
			if resilience.IsTransient(err) {
				zap.L().Warn("rank: judging service unreachable, degrading to recency order",
					zap.Error(err),
				)
				degraded = true
				break
			}
			// Non-transient per-article failure: neutral triple, keep going.
			zap.L().Warn("rank: judge call failed for article, using neutral scores",
				zap.String("title", ranked[i].Title),
				zap.Error(err),
			)
			scores = judge.NeutralScores()
		}

		tierScore, tierName := e.tiers.Classify(ranked[i].Source)
		ranked[i].Relevance = scores.Relevance
		ranked[i].Impact = scores.Impact
		ranked[i].Novelty = scores.Novelty
		ranked[i].TierScore = tierScore
		ranked[i].TierName = tierName
		ranked[i].PriorityScore = e.priority(scores, tierScore, ranked[i].Date, now)
	}

	if degraded {
		for i := range ranked {
			ranked[i].Relevance = 0
			ranked[i].Impact = 0
			ranked[i].Novelty = 0
			ranked[i].PriorityScore = NeutralPriority
			ranked[i].TierScore = TierScoreOther
			ranked[i].TierName = TierNameOther
		}
		SortByRecency(ranked, now)
	} else {
		sort.SliceStable(ranked, func(a, b int) bool {
			return ranked[a].PriorityScore > ranked[b].PriorityScore
		})
	}

	if topN > 0 && topN < len(ranked) {
		ranked = ranked[:topN]
	}
	return ranked, usage, degraded, nil
}

// priority computes the weighted priority score on a 0-100 scale.
func (e *Engine) priority(s judge.Scores, tierScore float64, date string, now time.Time) float64 {
	w := e.weights
	return 100 * (w.Relevance*(float64(s.Relevance)/5) +
		w.Impact*(float64(s.Impact)/5) +
		w.Novelty*(float64(s.Novelty)/5) +
		w.SourceTier*tierScore +
		w.Recency*RecencyScore(date, now))
}

// SortByRecency orders newest first; articles without a parseable date sink
// to the end, original order preserved within each group.
func SortByRecency(articles []model.Article, now time.Time) {
	sort.SliceStable(articles, func(a, b int) bool {
		ta, okA := dateparse.Parse(articles[a].Date, now)
		tb, okB := dateparse.Parse(articles[b].Date, now)
		if okA != okB {
			return okA
		}
		if !okA {
			return false
		}
		return ta.After(tb)
	})
}
