package connector

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hjjung-katech/newsletter-generator-sub000/internal/model"
)

// snippetMaxRunes bounds the cleaned description carried into the pipeline.
const snippetMaxRunes = 500

// RSSConnector collects articles from a fixed list of RSS/Atom feeds,
// keeping only items that mention at least one keyword.
type RSSConnector struct {
	feeds  []string
	parser *gofeed.Parser
}

// NewRSS creates an RSS connector over the given feed URLs.
func NewRSS(feeds []string) *RSSConnector {
	return &RSSConnector{
		feeds:  feeds,
		parser: gofeed.NewParser(),
	}
}

// Name implements Connector.
func (c *RSSConnector) Name() string { return "rss" }

// Collect implements Connector. Per-feed failures are logged and skipped;
// the connector fails only when every configured feed fails.
func (c *RSSConnector) Collect(ctx context.Context, keywords []string, limit int) ([]model.Article, error) {
	var articles []model.Article
	failed := 0

	for _, feedURL := range c.feeds {
		feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			zap.L().Warn("rss connector: feed fetch failed",
				zap.String("feed", feedURL),
				zap.Error(err),
			)
			failed++
			continue
		}

		source := feed.Title
		for _, item := range feed.Items {
			if item.Title == "" || item.Link == "" {
				continue
			}
			if !matchesKeywords(item, keywords) {
				continue
			}
			articles = append(articles, model.Article{
				Title:        item.Title,
				URL:          item.Link,
				Snippet:      cleanSnippet(item.Description),
				Source:       source,
				OriginalDate: item.Published,
				SourceType:   model.SourceTypeRSS,
			})
			if limit > 0 && len(articles) >= limit {
				return articles, nil
			}
		}
	}

	if failed == len(c.feeds) && len(c.feeds) > 0 {
		return nil, eris.Errorf("rss connector: all %d feeds failed", len(c.feeds))
	}
	return articles, nil
}

func matchesKeywords(item *gofeed.Item, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	haystack := strings.ToLower(item.Title + " " + item.Description)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// cleanSnippet strips HTML markup from a feed description and truncates it.
func cleanSnippet(description string) string {
	s := strings.TrimSpace(description)
	if s == "" {
		return ""
	}
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
		s = doc.Text()
	}
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) > snippetMaxRunes {
		s = string(runes[:snippetMaxRunes])
	}
	return s
}
