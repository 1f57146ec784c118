package rank

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Tier score buckets. Matching is a case-insensitive substring test against
// the publisher name, top list first.
const (
	TierScoreTop       = 1.0
	TierScoreSecondary = 0.8
	TierScoreOther     = 0.6
)

// Tier names attached to articles alongside the score.
const (
	TierNameTop       = "top"
	TierNameSecondary = "secondary"
	TierNameOther     = "other"
)

// TierSet holds the curated allow-lists a publisher name is matched against.
type TierSet struct {
	Top       []string `yaml:"top"`
	Secondary []string `yaml:"secondary"`
}

// DefaultTiers returns the built-in allow-lists.
func DefaultTiers() *TierSet {
	return &TierSet{
		Top: []string{
			"연합뉴스", "조선일보", "중앙일보", "동아일보", "한겨레", "경향신문",
			"KBS", "MBC", "SBS", "YTN",
			"Reuters", "Bloomberg", "AP", "BBC", "Financial Times",
		},
		Secondary: []string{
			"매일경제", "한국경제", "서울경제", "머니투데이", "전자신문", "디지털타임스",
			"ZDNet", "TechCrunch", "The Verge", "Wired", "CNBC",
		},
	}
}

// LoadTiers reads allow-lists from a YAML file. Missing entries fall back to
// the defaults for that tier.
func LoadTiers(path string) (*TierSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "rank: read tiers file %s", path)
	}
	var ts TierSet
	if err := yaml.Unmarshal(data, &ts); err != nil {
		return nil, eris.Wrapf(err, "rank: parse tiers file %s", path)
	}
	defaults := DefaultTiers()
	if len(ts.Top) == 0 {
		ts.Top = defaults.Top
	}
	if len(ts.Secondary) == 0 {
		ts.Secondary = defaults.Secondary
	}
	return &ts, nil
}

// Classify assigns a trust tier to a publisher name.
func (t *TierSet) Classify(source string) (float64, string) {
	s := strings.ToLower(strings.TrimSpace(source))
	if s == "" {
		return TierScoreOther, TierNameOther
	}
	for _, name := range t.Top {
		if strings.Contains(s, strings.ToLower(name)) {
			return TierScoreTop, TierNameTop
		}
	}
	for _, name := range t.Secondary {
		if strings.Contains(s, strings.ToLower(name)) {
			return TierScoreSecondary, TierNameSecondary
		}
	}
	return TierScoreOther, TierNameOther
}
