package model

// SourceType identifies which connector produced an article.
type SourceType string

const (
	SourceTypeSearch SourceType = "search"
	SourceTypeRSS    SourceType = "rss"
)

// Article is the unit of work throughout the pipeline. Connectors create it,
// later stages enrich it in place; only the dedup pass removes articles.
type Article struct {
	Title        string     `json:"title"`
	URL          string     `json:"url,omitempty"`
	Snippet      string     `json:"snippet,omitempty"`
	Source       string     `json:"source,omitempty"`
	Date         string     `json:"date,omitempty"`          // canonical ISO date, derived
	OriginalDate string     `json:"original_date,omitempty"` // raw string as received
	SourceType   SourceType `json:"source_type,omitempty"`

	// Derived by the ranking stage.
	PriorityScore float64 `json:"priority_score,omitempty"`
	TierScore     float64 `json:"source_tier_score,omitempty"`
	TierName      string  `json:"source_tier_name,omitempty"`
	Relevance     int     `json:"relevance,omitempty"`
	Impact        int     `json:"impact,omitempty"`
	Novelty       int     `json:"novelty,omitempty"`
}

// HasIdentity reports whether the article carries enough identity for
// duplicate detection (a usable URL or a usable title).
func (a Article) HasIdentity() bool {
	return a.URL != "" || a.Title != ""
}
