// Package judge models the external generation capability the pipeline
// depends on: per-article quality judging for ranking, and free-text
// summarization for the structured digest. Tests inject deterministic stubs
// through the small interfaces here.
package judge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hjjung-katech/newsletter-generator-sub000/internal/model"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/resilience"
	"github.com/hjjung-katech/newsletter-generator-sub000/pkg/anthropic"
)

// Scores is the relevance/impact/novelty triple, each 1-5.
type Scores struct {
	Relevance int `json:"relevance"`
	Impact    int `json:"impact"`
	Novelty   int `json:"novelty"`
}

// NeutralScores is the contract fallback when a judging response carries no
// parseable JSON object.
func NeutralScores() Scores {
	return Scores{Relevance: 1, Impact: 1, Novelty: 1}
}

// Judger rates one article against the run's topic.
type Judger interface {
	Judge(ctx context.Context, article model.Article, topic string) (Scores, model.TokenUsage, error)
}

// Summarizer turns a natural-language prompt into free text.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, model.TokenUsage, error)
}

// Capability bundles both operations of the generation service.
type Capability interface {
	Judger
	Summarizer
}

const judgeSystemPrompt = `You are a news analyst scoring articles for a curated newsletter. Respond with a valid JSON object: {"relevance": <1-5>, "impact": <1-5>, "novelty": <1-5>}`

const judgePrompt = `Newsletter topic: %s

Title: %s
Source: %s
Date: %s
Snippet: %s

Rate this article on three dimensions, each an integer from 1 to 5:
- relevance: how directly it concerns the topic
- impact: how consequential the development is for readers
- novelty: how new the information is compared to widely known facts

Return only the JSON object.`

// capability implements Capability on top of the Anthropic client.
type capability struct {
	client anthropic.Client
	model  string
	retry  resilience.RetryConfig
}

// NewCapability creates the Anthropic-backed generation capability.
func NewCapability(client anthropic.Client, modelID string) Capability {
	return &capability{
		client: client,
		model:  modelID,
		retry:  resilience.DefaultRetryConfig(),
	}
}

func (c *capability) Judge(ctx context.Context, article model.Article, topic string) (Scores, model.TokenUsage, error) {
	prompt := fmt.Sprintf(judgePrompt,
		topic,
		article.Title,
		article.Source,
		article.Date,
		article.Snippet,
	)

	text, usage, err := c.complete(ctx, judgeSystemPrompt, prompt, 256)
	if err != nil {
		return Scores{}, usage, err
	}

	scores, ok := parseScores(text)
	if !ok {
		zap.L().Warn("judge: unparseable scoring response, using neutral scores",
			zap.String("title", article.Title),
		)
		return NeutralScores(), usage, nil
	}
	return scores, usage, nil
}

func (c *capability) Summarize(ctx context.Context, prompt string) (string, model.TokenUsage, error) {
	return c.complete(ctx, "", prompt, 2048)
}

// complete performs one message call with retry on transient failures.
// Anthropic SDK errors with a retryable HTTP status are surfaced as typed
// TransientErrors so callers can degrade instead of failing the run.
func (c *capability) complete(ctx context.Context, system, prompt string, maxTokens int64) (string, model.TokenUsage, error) {
	var resp *anthropic.MessageResponse
	err := resilience.Do(ctx, c.retry, func(ctx context.Context) error {
		r, callErr := c.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     c.model,
			MaxTokens: maxTokens,
			System:    system,
			Messages: []anthropic.Message{
				{Role: "user", Content: prompt},
			},
		})
		if callErr != nil {
			return classify(callErr)
		}
		resp = r
		return nil
	})
	if err != nil {
		return "", model.TokenUsage{}, eris.Wrap(err, "judge: create message")
	}

	usage := model.TokenUsage{
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}
	return resp.Text(), usage, nil
}

// classify wraps SDK errors with retryable HTTP statuses as TransientError.
func classify(err error) error {
	var apierr *sdk.Error
	if errors.As(err, &apierr) && resilience.IsTransientHTTPStatus(apierr.StatusCode) {
		return resilience.NewTransientError(err, apierr.StatusCode)
	}
	return err
}

// parseScores extracts the first JSON object from a judging response and
// clamps each dimension into [1, 5]. Returns false when no object parses.
func parseScores(text string) (Scores, bool) {
	raw := FirstJSONObject(text)
	if raw == "" {
		return Scores{}, false
	}
	var s Scores
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Scores{}, false
	}
	if s.Relevance == 0 && s.Impact == 0 && s.Novelty == 0 {
		return Scores{}, false
	}
	s.Relevance = clamp(s.Relevance)
	s.Impact = clamp(s.Impact)
	s.Novelty = clamp(s.Novelty)
	return s, true
}

func clamp(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}
