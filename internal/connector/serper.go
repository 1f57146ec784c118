package connector

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/hjjung-katech/newsletter-generator-sub000/internal/model"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/resilience"
	"github.com/hjjung-katech/newsletter-generator-sub000/pkg/serper"
)

// SerperConnector collects articles from the Serper news search API.
type SerperConnector struct {
	client   serper.Client
	location string
	language string
	retry    resilience.RetryConfig
}

// NewSerper creates a search-API connector. Location and language follow
// Serper's gl/hl parameters (e.g. "kr", "ko").
func NewSerper(client serper.Client, location, language string) *SerperConnector {
	return &SerperConnector{
		client:   client,
		location: location,
		language: language,
		retry:    resilience.DefaultRetryConfig(),
	}
}

// Name implements Connector.
func (c *SerperConnector) Name() string { return "serper" }

// Collect implements Connector.
func (c *SerperConnector) Collect(ctx context.Context, keywords []string, limit int) ([]model.Article, error) {
	query := strings.TrimSpace(strings.Join(keywords, " "))
	if query == "" {
		return nil, eris.New("serper connector: empty keyword set")
	}

	var resp *serper.NewsResponse
	err := resilience.Do(ctx, c.retry, func(ctx context.Context) error {
		r, callErr := c.client.SearchNews(ctx, serper.NewsRequest{
			Query:    query,
			Num:      limit,
			Location: c.location,
			Language: c.language,
		})
		if callErr != nil {
			return callErr
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, eris.Wrapf(err, "serper connector: search %q", query)
	}

	articles := make([]model.Article, 0, len(resp.News))
	for _, item := range resp.News {
		if item.Title == "" || item.Link == "" {
			continue
		}
		articles = append(articles, model.Article{
			Title:        item.Title,
			URL:          item.Link,
			Snippet:      item.Snippet,
			Source:       item.Source,
			OriginalDate: item.Date,
			SourceType:   model.SourceTypeSearch,
		})
	}
	return articles, nil
}
