// Package connector collects raw articles from external feeds. Connectors
// are collaborators of the pipeline, not part of it: the collection stage
// sees a single merged slice and owns no fetch mechanics.
package connector

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hjjung-katech/newsletter-generator-sub000/internal/model"
	"github.com/rotisserie/eris"
)

// Connector produces raw article records for a keyword set. Implementations
// must return at least a title and one of URL/link per article; source and
// date may be free text.
type Connector interface {
	Name() string
	Collect(ctx context.Context, keywords []string, limit int) ([]model.Article, error)
}

// Multi fans out across several connectors concurrently and merges their
// results in connector order. Individual connector failures are logged and
// tolerated; Multi fails only when every connector fails.
type Multi struct {
	connectors []Connector
}

// NewMulti builds an aggregate connector.
func NewMulti(connectors ...Connector) *Multi {
	return &Multi{connectors: connectors}
}

// Name implements Connector.
func (m *Multi) Name() string { return "multi" }

// Collect implements Connector by merging all sub-connector results.
func (m *Multi) Collect(ctx context.Context, keywords []string, limit int) ([]model.Article, error) {
	if len(m.connectors) == 0 {
		return nil, eris.New("connector: no connectors configured")
	}

	results := make([][]model.Article, len(m.connectors))
	var mu sync.Mutex
	failures := 0

	g, gCtx := errgroup.WithContext(ctx)
	for i, c := range m.connectors {
		g.Go(func() error {
			articles, err := c.Collect(gCtx, keywords, limit)
			if err != nil {
				zap.L().Warn("connector: collection failed",
					zap.String("connector", c.Name()),
					zap.Error(err),
				)
				mu.Lock()
				failures++
				mu.Unlock()
				return nil
			}
			results[i] = articles
			return nil
		})
	}
	_ = g.Wait()

	if failures == len(m.connectors) {
		return nil, eris.Errorf("connector: all %d connectors failed for keywords %q",
			len(m.connectors), strings.Join(keywords, " "))
	}

	var merged []model.Article
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged, nil
}
