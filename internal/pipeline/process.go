package pipeline

import (
	"go.uber.org/zap"

	"github.com/hjjung-katech/newsletter-generator-sub000/internal/dateparse"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/dedup"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/model"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/rank"
)

// process normalizes dates, removes duplicates, and drops articles outside
// the collection period. Articles whose dates cannot be parsed keep their
// raw date text and are retained; an empty result after filtering is
// terminal.
func (p *Pipeline) process(state model.PipelineState) model.PipelineState {
	state.Status = model.StatusProcessing
	now := p.now()

	articles := make([]model.Article, len(state.CollectedArticles))
	copy(articles, state.CollectedArticles)

	unparseable := 0
	for i := range articles {
		raw := articles[i].OriginalDate
		if raw == "" {
			raw = articles[i].Date
		}
		articles[i].OriginalDate = raw
		articles[i].Date = dateparse.Canonical(raw, now)
		if articles[i].Date == "" && raw != "" {
			unparseable++
		}
	}
	if unparseable > 0 {
		zap.L().Debug("pipeline: articles with unparseable dates retained",
			zap.Int("count", unparseable),
		)
	}

	deduped := dedup.Dedupe(articles)

	var filtered []model.Article
	for _, a := range deduped {
		raw := a.Date
		if raw == "" {
			raw = a.OriginalDate
		}
		if dateparse.WithinWindow(raw, p.cfg.Collect.PeriodDays, now) {
			filtered = append(filtered, a)
		}
	}

	if len(filtered) == 0 {
		return state.Fail("no articles remain after deduplication and date filtering")
	}

	rank.SortByRecency(filtered, now)

	zap.L().Debug("pipeline: processed articles",
		zap.Int("collected", len(state.CollectedArticles)),
		zap.Int("deduped", len(deduped)),
		zap.Int("within_period", len(filtered)),
	)

	state.ProcessedArticles = filtered
	return state
}
