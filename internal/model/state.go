package model

// Status tracks pipeline progress through the generation state machine.
type Status string

const (
	StatusCollecting          Status = "collecting"
	StatusProcessing          Status = "processing"
	StatusScoring             Status = "scoring"
	StatusSummarizingComplete Status = "summarizing_complete"
	StatusComplete            Status = "complete"
	StatusError               Status = "error"
)

// PipelineState is the single record threaded through the state machine.
// Stages receive it by value and return a new copy; they read the prior
// stage's output fields and write their own, never mutating earlier fields.
type PipelineState struct {
	Keywords []string `json:"keywords"`
	Topic    string   `json:"topic,omitempty"`
	Style    string   `json:"style,omitempty"`

	Status Status `json:"status"`

	CollectedArticles []Article `json:"collected_articles,omitempty"`
	ProcessedArticles []Article `json:"processed_articles,omitempty"`
	RankedArticles    []Article `json:"ranked_articles,omitempty"`
	Digest            *Digest   `json:"digest,omitempty"`

	// StepTimes maps stage name to wall-clock duration in milliseconds.
	// Recorded for every executed stage regardless of success or failure.
	StepTimes map[string]int64 `json:"step_times"`

	// Error is non-empty if and only if Status == StatusError.
	Error string `json:"error,omitempty"`

	// ScoringDegraded marks a run whose ranking stage fell back to neutral
	// scores after a transient judging-service failure.
	ScoringDegraded bool `json:"scoring_degraded,omitempty"`

	Usage TokenUsage `json:"usage"`
}

// NewPipelineState returns the initial state for a run.
func NewPipelineState(keywords []string, topic, style string) PipelineState {
	return PipelineState{
		Keywords:  keywords,
		Topic:     topic,
		Style:     style,
		Status:    StatusCollecting,
		StepTimes: make(map[string]int64),
	}
}

// Fail returns a copy of the state transitioned to the terminal error state.
func (s PipelineState) Fail(msg string) PipelineState {
	s.Status = StatusError
	s.Error = msg
	return s
}

// TokenUsage accumulates generation-capability token consumption for a run.
type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// Add accumulates another usage record.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}
