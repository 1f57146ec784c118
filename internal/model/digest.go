package model

import "time"

// Digest is the structured record the pipeline hands to the downstream
// renderer: per-category article indexes, a short summary, glossary-style
// definitions, and source links.
type Digest struct {
	Categories []Category `json:"categories"`
}

// Category groups a subset of the ranked articles under one heading.
type Category struct {
	Name           string       `json:"name"`
	ArticleIndexes []int        `json:"article_indexes"`
	Summary        string       `json:"summary,omitempty"`
	Definitions    []Definition `json:"definitions,omitempty"`
	Links          []SourceLink `json:"links,omitempty"`
}

// Definition is a glossary-style term explanation attached to a category.
type Definition struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// SourceLink points back at an article that fed a category.
type SourceLink struct {
	Title         string `json:"title"`
	URL           string `json:"url,omitempty"`
	SourceAndDate string `json:"source_and_date,omitempty"`
}

// RunStatus tracks a persisted run's lifecycle in the store.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is a persisted pipeline invocation.
type Run struct {
	ID        string     `json:"id"`
	Keywords  []string   `json:"keywords"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult is the explicit return value of a pipeline invocation: final
// status, per-stage timings, the digest, and cost/usage metadata.
type RunResult struct {
	RunID           string           `json:"run_id"`
	Status          Status           `json:"status"`
	Error           string           `json:"error,omitempty"`
	StepTimes       map[string]int64 `json:"step_times"`
	ArticleCount    int              `json:"article_count"`
	Digest          *Digest          `json:"digest,omitempty"`
	Markdown        string           `json:"markdown,omitempty"`
	ScoringDegraded bool             `json:"scoring_degraded,omitempty"`
	Usage           TokenUsage       `json:"usage"`
	TotalCost       float64          `json:"total_cost_usd"`
}
