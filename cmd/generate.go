package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hjjung-katech/newsletter-generator-sub000/internal/model"
)

var (
	generateKeywords []string
	generateTopic    string
	generateStyle    string
	generateOutput   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a newsletter digest for a keyword set",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Pipeline.Run(ctx, generateKeywords, generateTopic, generateStyle)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		zap.L().Info("digest run finished",
			zap.String("run_id", result.RunID),
			zap.String("status", string(result.Status)),
			zap.Int("articles", result.ArticleCount),
			zap.Bool("scoring_degraded", result.ScoringDegraded),
			zap.Float64("total_cost_usd", result.TotalCost),
		)

		if generateOutput != "" && result.Markdown != "" {
			if err := os.WriteFile(generateOutput, []byte(result.Markdown), 0o644); err != nil {
				return eris.Wrapf(err, "write %s", generateOutput)
			}
			zap.L().Info("newsletter written", zap.String("path", generateOutput))
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return eris.Wrap(err, "encode result")
		}

		if result.Status == model.StatusError {
			return eris.Errorf("digest run failed: %s", result.Error)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringSliceVar(&generateKeywords, "keywords", nil, "keywords to collect news for (required)")
	generateCmd.Flags().StringVar(&generateTopic, "topic", "", "newsletter topic used for article judging (defaults to keywords)")
	generateCmd.Flags().StringVar(&generateStyle, "style", "", "summary style (default from config)")
	generateCmd.Flags().StringVar(&generateOutput, "output", "", "write the newsletter markdown to this file")
	_ = generateCmd.MarkFlagRequired("keywords")
	rootCmd.AddCommand(generateCmd)
}
