package pipeline

import (
	"context"
	"strings"

	"github.com/hjjung-katech/newsletter-generator-sub000/internal/model"
)

// score ranks the processed articles by weighted priority. A transient
// judging outage degrades the run to recency order instead of failing it;
// the degradation is surfaced on the state so callers can see it.
func (p *Pipeline) score(ctx context.Context, state model.PipelineState) (model.PipelineState, model.TokenUsage) {
	state.Status = model.StatusScoring

	ranked, usage, degraded, err := p.engine.Rank(ctx, state.ProcessedArticles, p.topic(state), p.cfg.Rank.TopN)
	if err != nil {
		return state.Fail("scoring failed: " + err.Error()), usage
	}

	state.RankedArticles = ranked
	state.ScoringDegraded = degraded
	return state, usage
}

// topic returns the judging topic, falling back to the keyword list when the
// run has no explicit topic.
func (p *Pipeline) topic(state model.PipelineState) string {
	if state.Topic != "" {
		return state.Topic
	}
	return strings.Join(state.Keywords, ", ")
}
