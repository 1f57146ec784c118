package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hjjung-katech/newsletter-generator-sub000/internal/dateparse"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/judge"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/model"
)

const fallbackCategoryName = "주요 뉴스"

const categorizePrompt = `다음은 뉴스레터에 실을 기사 목록입니다. 주제: %s

%s
기사들을 2~4개의 카테고리로 분류하세요. 각 카테고리에는 위 목록의 기사 번호(0부터 시작)를 넣으세요. 모든 기사는 정확히 하나의 카테고리에 속해야 합니다.

다음 JSON 형식으로만 답하세요:
{"categories": [{"name": "카테고리명", "article_indexes": [0, 1]}]}`

const summarizePrompt = `다음 기사들을 하나의 뉴스레터 섹션으로 요약하세요. 섹션 제목: %s
문체: %s

%s
요약은 한국어 2~4문장으로 작성하고, 독자가 모를 수 있는 전문 용어가 있으면 최대 %d개까지 간단히 정의하세요.

다음 JSON 형식으로만 답하세요:
{"summary": "...", "definitions": [{"term": "...", "definition": "..."}]}`

type categorizeResponse struct {
	Categories []struct {
		Name           string `json:"name"`
		ArticleIndexes []int  `json:"article_indexes"`
	} `json:"categories"`
}

type summarizeResponse struct {
	Summary     string             `json:"summary"`
	Definitions []model.Definition `json:"definitions"`
}

// summarize builds the structured digest from the ranked articles. The stage
// never fails the run: an unusable categorization response falls back to one
// catch-all category, and a failed per-category summary falls back to a
// deterministic headline list.
func (p *Pipeline) summarize(ctx context.Context, state model.PipelineState) (model.PipelineState, model.TokenUsage) {
	var usage model.TokenUsage
	articles := state.RankedArticles
	now := p.now()

	categories := p.categorize(ctx, articles, p.topic(state), &usage)

	for i := range categories {
		cat := &categories[i]

		summary, defs, callUsage := p.summarizeCategory(ctx, articles, *cat, state.Style)
		usage.Add(callUsage)
		cat.Summary = summary
		cat.Definitions = defs

		for _, idx := range cat.ArticleIndexes {
			a := articles[idx]
			cat.Links = append(cat.Links, model.SourceLink{
				Title:         a.Title,
				URL:           a.URL,
				SourceAndDate: sourceAndDate(a, now),
			})
		}
	}

	state.Digest = &model.Digest{Categories: categories}
	state.Status = model.StatusSummarizingComplete
	return state, usage
}

// categorize asks the generation capability to group articles and validates
// the response. Any failure yields the single catch-all category.
func (p *Pipeline) categorize(ctx context.Context, articles []model.Article, topic string, usage *model.TokenUsage) []model.Category {
	prompt := fmt.Sprintf(categorizePrompt, topic, articleListing(articles))

	text, callUsage, err := p.capability.Summarize(ctx, prompt)
	usage.Add(callUsage)
	if err != nil {
		zap.L().Warn("pipeline: categorization call failed, using single category", zap.Error(err))
		return fallbackCategories(articles)
	}

	raw := judge.FencedOrFirstJSON(text)
	if raw == "" {
		zap.L().Warn("pipeline: categorization response carried no JSON, using single category")
		return fallbackCategories(articles)
	}

	var resp categorizeResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		zap.L().Warn("pipeline: categorization response unparseable, using single category", zap.Error(err))
		return fallbackCategories(articles)
	}

	var categories []model.Category
	seen := make(map[int]bool)
	for _, c := range resp.Categories {
		if c.Name == "" {
			continue
		}
		var indexes []int
		for _, idx := range c.ArticleIndexes {
			if idx < 0 || idx >= len(articles) || seen[idx] {
				continue
			}
			seen[idx] = true
			indexes = append(indexes, idx)
		}
		if len(indexes) == 0 {
			continue
		}
		categories = append(categories, model.Category{Name: c.Name, ArticleIndexes: indexes})
	}
	if len(categories) == 0 {
		return fallbackCategories(articles)
	}

	// Articles the response skipped still ship, appended to the last category.
	last := &categories[len(categories)-1]
	for idx := range articles {
		if !seen[idx] {
			last.ArticleIndexes = append(last.ArticleIndexes, idx)
		}
	}
	return categories
}

// summarizeCategory produces the section summary and definitions. On failure
// the summary degrades to a deterministic headline list with no definitions.
func (p *Pipeline) summarizeCategory(ctx context.Context, articles []model.Article, cat model.Category, style string) (string, []model.Definition, model.TokenUsage) {
	subset := make([]model.Article, 0, len(cat.ArticleIndexes))
	for _, idx := range cat.ArticleIndexes {
		subset = append(subset, articles[idx])
	}

	if style == "" {
		style = p.cfg.Digest.Style
	}
	maxDefs := p.cfg.Digest.MaxDefinitions

	prompt := fmt.Sprintf(summarizePrompt, cat.Name, style, articleListing(subset), maxDefs)

	text, usage, err := p.capability.Summarize(ctx, prompt)
	if err != nil {
		zap.L().Warn("pipeline: category summary call failed, using headline list",
			zap.String("category", cat.Name),
			zap.Error(err),
		)
		return headlineSummary(subset), nil, usage
	}

	raw := judge.FencedOrFirstJSON(text)
	if raw == "" {
		return headlineSummary(subset), nil, usage
	}
	var resp summarizeResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil || resp.Summary == "" {
		return headlineSummary(subset), nil, usage
	}

	defs := resp.Definitions
	if len(defs) > maxDefs {
		defs = defs[:maxDefs]
	}
	return resp.Summary, defs, usage
}

// fallbackCategories places every article in one catch-all category.
func fallbackCategories(articles []model.Article) []model.Category {
	indexes := make([]int, len(articles))
	for i := range articles {
		indexes[i] = i
	}
	return []model.Category{{Name: fallbackCategoryName, ArticleIndexes: indexes}}
}

// headlineSummary is the deterministic stand-in for a generated summary.
func headlineSummary(articles []model.Article) string {
	titles := make([]string, 0, len(articles))
	for _, a := range articles {
		titles = append(titles, a.Title)
	}
	return "이번 기간의 주요 기사: " + strings.Join(titles, " / ")
}

// articleListing renders the numbered article list inserted into prompts.
func articleListing(articles []model.Article) string {
	var b strings.Builder
	for i, a := range articles {
		fmt.Fprintf(&b, "%d. %s (%s, %s)\n", i, a.Title, a.Source, displayDate(a))
		if a.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", a.Snippet)
		}
	}
	return b.String()
}

// displayDate is the human-facing date: the canonical date when one parsed,
// the raw source text otherwise, and an explicit placeholder when the source
// gave none.
func displayDate(a model.Article) string {
	if a.Date != "" {
		return a.Date
	}
	if a.OriginalDate != "" {
		return a.OriginalDate
	}
	return "날짜 없음"
}

// sourceAndDate builds the attribution line for a source link.
func sourceAndDate(a model.Article, now time.Time) string {
	date := displayDate(a)
	if t, ok := dateparse.Parse(a.Date, now); ok {
		date = dateparse.FormatDisplay(t, now)
	}
	if a.Source == "" {
		return date
	}
	return a.Source + " · " + date
}
