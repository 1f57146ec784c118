package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/hjjung-katech/newsletter-generator-sub000/internal/dateparse"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/dedup"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/model"
	"github.com/hjjung-katech/newsletter-generator-sub000/internal/rank"
)

var headlinesCount int

var headlinesCmd = &cobra.Command{
	Use:   "headlines",
	Short: "Show top headlines for a keyword set without generating a digest",
	Long:  "Collects and deduplicates articles, then picks highlights via the tier-and-recency heuristic. No generation tokens are spent.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		conn, err := initConnectors()
		if err != nil {
			return err
		}

		keywords, _ := cmd.Flags().GetStringSlice("keywords")
		articles, err := conn.Collect(ctx, keywords, cfg.Collect.MaxPerSource)
		if err != nil {
			return eris.Wrap(err, "collect")
		}

		now := time.Now()
		for i := range articles {
			if articles[i].OriginalDate == "" {
				articles[i].OriginalDate = articles[i].Date
			}
			articles[i].Date = dateparse.Canonical(articles[i].OriginalDate, now)
		}
		articles = dedup.Dedupe(articles)
		// Headlines are a highlights view, so near-duplicates collapse
		// aggressively here, unlike the digest pipeline.
		articles = dedup.ReduceSimilar(articles, cfg.Dedup.SimilarityThreshold)

		picked := rank.PickHeadlines(articles, loadTiers(), headlinesCount, now)
		if len(picked) == 0 {
			fmt.Fprintln(os.Stderr, "No headlines found.")
			return nil
		}

		formatHeadlines(os.Stdout, picked)
		return nil
	},
}

func formatHeadlines(out io.Writer, articles []model.Article) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TITLE\tSOURCE\tTIER\tDATE")
	_, _ = fmt.Fprintln(w, "-----\t------\t----\t----")
	for _, a := range articles {
		date := a.Date
		if date == "" {
			date = a.OriginalDate
		}
		title := a.Title
		if len([]rune(title)) > 50 {
			title = string([]rune(title)[:47]) + "..."
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", title, a.Source, a.TierName, date)
	}
	_ = w.Flush()
}

func init() {
	headlinesCmd.Flags().StringSlice("keywords", nil, "keywords to collect news for (required)")
	headlinesCmd.Flags().IntVar(&headlinesCount, "count", 5, "number of headlines to show")
	_ = headlinesCmd.MarkFlagRequired("keywords")
	rootCmd.AddCommand(headlinesCmd)
}
