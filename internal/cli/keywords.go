package cli

import (
	"context"
	"fmt"
	"strings"

	"resumescore/internal/ai"
	"resumescore/internal/common"
	"resumescore/internal/resume"
	"resumescore/internal/types"

	"github.com/spf13/cobra"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords [resume-file] [job-description-file]",
	Short: "Find job keywords a resume is missing",
	Long: `Compare a resume document with a job description using the configured
AI model and list the keywords worth adding. Requires ai.enabled and an API
key.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveCommandConfig(cmd, &keywordsConfig)
	},
	RunE: runKeywords,
}

var keywordsConfig common.CommandConfig

func init() {
	keywordsCmd.Flags().StringVarP(&keywordsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	keywordsCmd.Flags().StringVar(&keywordsConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = keywordsCmd.RegisterFlagCompletionFunc("format", formatCompletion)
}

func runKeywords(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	aiService, err := ai.NewServiceForOperation(cfg, ai.OperationKeywords, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := aiService.Close(); err != nil {
			logger.LogError(err, "Failed to close AI service")
		}
	}()

	createInput := func(contents [][]byte) (types.MatchKeywordsInput, error) {
		if len(contents) != 2 {
			return types.MatchKeywordsInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		doc, err := resume.Decode(contents[0])
		if err != nil {
			return types.MatchKeywordsInput{}, err
		}
		return types.MatchKeywordsInput{
			Resume:         doc,
			JobDescription: strings.TrimSpace(string(contents[1])),
		}, nil
	}

	logDetails := func(input types.MatchKeywordsInput, cmdCfg common.CommandConfig) {
		logger.Info("Starting job keyword match",
			"job_description_chars", len(input.JobDescription),
			"output_format", cmdCfg.OutputFormat)
	}

	keywordsOperation := func(ctx context.Context, input types.MatchKeywordsInput) (types.KeywordRecommendations, *ai.TokenUsage, error) {
		return aiService.MatchKeywords(ctx, input.Resume, input.JobDescription)
	}

	if err := common.RunAICommand(cmd.Context(), logger, keywordsConfig, args, createInput, keywordsOperation, logDetails); err != nil {
		return fmt.Errorf("failed to match keywords: %w", err)
	}
	logger.Info("Job keyword match completed successfully")
	return nil
}
