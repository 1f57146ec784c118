// Package compose renders a structured digest into newsletter markdown.
package compose

import (
	"fmt"
	"strings"
	"time"

	"github.com/hjjung-katech/newsletter-generator-sub000/internal/model"
)

// Markdown renders the digest as a newsletter document. Category order and
// article order within each category are preserved from the digest.
func Markdown(digest *model.Digest, keywords []string, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# 뉴스레터: %s\n\n", strings.Join(keywords, ", "))
	fmt.Fprintf(&b, "_%s 발행_\n\n", now.Format("2006-01-02"))

	if digest == nil || len(digest.Categories) == 0 {
		b.WriteString("수집된 기사가 없습니다.\n")
		return b.String()
	}

	for _, cat := range digest.Categories {
		fmt.Fprintf(&b, "## %s\n\n", cat.Name)

		if cat.Summary != "" {
			b.WriteString(cat.Summary)
			b.WriteString("\n\n")
		}

		for _, def := range cat.Definitions {
			fmt.Fprintf(&b, "> **%s**: %s\n", def.Term, def.Definition)
		}
		if len(cat.Definitions) > 0 {
			b.WriteString("\n")
		}

		for _, link := range cat.Links {
			if link.URL != "" {
				fmt.Fprintf(&b, "- [%s](%s)", link.Title, link.URL)
			} else {
				fmt.Fprintf(&b, "- %s", link.Title)
			}
			if link.SourceAndDate != "" {
				fmt.Fprintf(&b, " (%s)", link.SourceAndDate)
			}
			b.WriteString("\n")
		}
		if len(cat.Links) > 0 {
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}
