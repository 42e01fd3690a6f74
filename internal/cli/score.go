package cli

import (
	"context"
	"fmt"
	"time"

	"resumescore/internal/ats"
	"resumescore/internal/common"
	"resumescore/internal/config"
	"resumescore/internal/resume"
	"resumescore/internal/types"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var scoreCmd = &cobra.Command{
	Use:   "score [resume-file]...",
	Short: "Score one or more resume documents",
	Long: `Score resume documents (JSON) against the keyword taxonomy.

Each file is checked against the resume schema before scoring. With several
files the reports are computed concurrently and written in the order the
files were given.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := resolveCommandConfig(cmd, &scoreConfig); err != nil {
			return err
		}
		if scoreConcurrency == 0 {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			scoreConcurrency = cfg.App.Concurrency
		}
		return common.ValidateConcurrency(scoreConcurrency)
	},
	RunE: runScore,
}

var (
	scoreConfig      common.CommandConfig
	scoreConcurrency int
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	scoreCmd.Flags().StringVar(&scoreConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	scoreCmd.Flags().IntVarP(&scoreConcurrency, "concurrency", "c", 0, "Number of resumes scored in parallel (default from config)")

	_ = scoreCmd.RegisterFlagCompletionFunc("format", formatCompletion)
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	scorer, err := config.BuildScorer(cfg.Scoring)
	if err != nil {
		return err
	}

	logger.Info("Starting resume scoring",
		"files", len(args),
		"concurrency", scoreConcurrency,
		"output_format", scoreConfig.OutputFormat)

	start := time.Now()
	fp := common.NewFileProcessor(logger, scoreConfig.MaxFileSize)
	results, err := scoreFiles(cmd.Context(), scorer, fp, args, scoreConcurrency)
	if err != nil {
		return err
	}
	logger.Info("Resume scoring completed",
		"files", len(results),
		"duration", time.Since(start))

	var output any = results
	if len(results) == 1 {
		output = results[0].Report
	}
	return common.NewOutputHandlerWithWriter(logger, cmd.OutOrStdout()).HandleOutput(output, scoreConfig)
}

// scoreFiles reads and scores files with at most concurrency workers. The
// results keep the order of files; the first failure cancels the rest.
func scoreFiles(ctx context.Context, scorer *ats.Scorer, fp *common.FileProcessor, files []string, concurrency int) ([]types.ScoredResume, error) {
	results := make([]types.ScoredResume, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := fp.ReadResumeFile(file)
			if err != nil {
				return err
			}
			doc, err := resume.Decode(data)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			results[i] = types.ScoredResume{Source: file, Report: scorer.Score(doc)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
