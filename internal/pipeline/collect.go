package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/hjjung-katech/newsletter-generator-sub000/internal/model"
)

// collect gathers raw articles from all configured connectors. A collection
// failure is terminal: nothing downstream can run without input.
func (p *Pipeline) collect(ctx context.Context, state model.PipelineState) model.PipelineState {
	state.Status = model.StatusCollecting

	articles, err := p.connector.Collect(ctx, state.Keywords, p.cfg.Collect.MaxPerSource)
	if err != nil {
		return state.Fail("collection failed: " + err.Error())
	}
	if len(articles) == 0 {
		return state.Fail("collection returned no articles")
	}

	// Drop records without an identity; they cannot be deduplicated or linked.
	kept := articles[:0]
	for _, a := range articles {
		if a.HasIdentity() {
			kept = append(kept, a)
		}
	}
	if len(kept) == 0 {
		return state.Fail("collection returned no usable articles")
	}

	zap.L().Debug("pipeline: collected articles",
		zap.Int("raw", len(articles)),
		zap.Int("usable", len(kept)),
	)

	state.CollectedArticles = kept
	return state
}
