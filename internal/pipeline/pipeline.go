// Package pipeline runs the digest generation state machine: collect,
// process, score, summarize, compose. Stages run strictly in sequence and
// hand a single state record forward; a stage either advances the status or
// moves it to the terminal error state.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hjjung-katech/newsletter-generator-sub000/internal/compose"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/config"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/connector"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/cost"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/judge"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/model"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/rank"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/store"
)

// Pipeline orchestrates one digest generation run.
type Pipeline struct {
	cfg        *config.Config
	store      store.Store
	connector  connector.Connector
	capability judge.Capability
	engine     *rank.Engine
	costCalc   *cost.Calculator
	now        func() time.Time
}

// New creates a Pipeline with all dependencies.
func New(
	cfg *config.Config,
	st store.Store,
	conn connector.Connector,
	capability judge.Capability,
	engine *rank.Engine,
) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		store:      st,
		connector:  conn,
		capability: capability,
		engine:     engine,
		costCalc:   cost.NewCalculator(cost.DefaultRates()),
		now:        time.Now,
	}
}

// WithNow overrides the pipeline clock. Used by tests.
func (p *Pipeline) WithNow(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Run executes the full digest pipeline for one keyword set and returns an
// explicit result record. Stage failures are reported through the result's
// status and error fields, not the returned error; the error covers only
// run bookkeeping that prevents the pipeline from starting.
func (p *Pipeline) Run(ctx context.Context, keywords []string, topic, style string) (*model.RunResult, error) {
	log := zap.L().With(zap.Strings("keywords", keywords))
	log.Info("pipeline: starting digest run")

	run, err := p.store.CreateRun(ctx, keywords)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}

	setStatus := func(status model.RunStatus) {
		if statusErr := p.store.UpdateRunStatus(ctx, run.ID, status); statusErr != nil {
			log.Warn("pipeline: failed to update run status", zap.Error(statusErr))
		}
	}
	setStatus(model.RunStatusRunning)

	state := model.NewPipelineState(keywords, topic, style)

	// Stage timing helper. Durations are recorded for every executed stage,
	// including the one that fails.
	runStage := func(name string, fn func(model.PipelineState) model.PipelineState) {
		start := time.Now()
		state = fn(state)
		duration := time.Since(start).Milliseconds()
		state.StepTimes[name] = duration

		if state.Status == model.StatusError {
			log.Error("pipeline: stage failed",
				zap.String("stage", name),
				zap.Int64("duration_ms", duration),
				zap.String("error", state.Error),
			)
		} else {
			log.Info("pipeline: stage complete",
				zap.String("stage", name),
				zap.Int64("duration_ms", duration),
				zap.String("status", string(state.Status)),
			)
		}
	}

	var judgeUsage, digestUsage model.TokenUsage

	runStage("collect", func(s model.PipelineState) model.PipelineState {
		return p.collect(ctx, s)
	})

	if state.Status != model.StatusError {
		runStage("process", func(s model.PipelineState) model.PipelineState {
			return p.process(s)
		})
	}

	if state.Status != model.StatusError {
		runStage("score", func(s model.PipelineState) model.PipelineState {
			next, usage := p.score(ctx, s)
			judgeUsage = usage
			return next
		})
	}

	if state.Status != model.StatusError {
		runStage("summarize", func(s model.PipelineState) model.PipelineState {
			next, usage := p.summarize(ctx, s)
			digestUsage = usage
			return next
		})
	}

	var markdown string
	if state.Status != model.StatusError {
		runStage("compose", func(s model.PipelineState) model.PipelineState {
			markdown = compose.Markdown(s.Digest, s.Keywords, p.now())
			s.Status = model.StatusComplete
			return s
		})
	}

	state.Usage.Add(judgeUsage)
	state.Usage.Add(digestUsage)

	totalCost := p.costCalc.Claude(p.cfg.Anthropic.JudgeModel, judgeUsage) +
		p.costCalc.Claude(p.cfg.Anthropic.DigestModel, digestUsage)

	result := &model.RunResult{
		RunID:           run.ID,
		Status:          state.Status,
		Error:           state.Error,
		StepTimes:       state.StepTimes,
		ArticleCount:    len(state.RankedArticles),
		Digest:          state.Digest,
		Markdown:        markdown,
		ScoringDegraded: state.ScoringDegraded,
		Usage:           state.Usage,
		TotalCost:       totalCost,
	}

	if err := p.store.UpdateRunResult(ctx, run.ID, result); err != nil {
		log.Warn("pipeline: failed to persist run result", zap.Error(err))
	}

	log.Info("pipeline: run finished",
		zap.String("run_id", run.ID),
		zap.String("status", string(result.Status)),
		zap.Int("articles", result.ArticleCount),
		zap.Bool("scoring_degraded", result.ScoringDegraded),
		zap.Float64("total_cost_usd", result.TotalCost),
	)
	return result, nil
}
