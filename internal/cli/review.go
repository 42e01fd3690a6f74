package cli

import (
	"context"
	"fmt"

	"resumescore/internal/ai"
	"resumescore/internal/ats"
	"resumescore/internal/common"
	"resumescore/internal/resume"
	"resumescore/internal/types"

	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review [resume-file]",
	Short: "Get AI feedback on a resume",
	Long: `Ask the configured AI model to review a resume document and suggest
improvements, keywords to add and areas to work on. Requires ai.enabled and
an API key.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveCommandConfig(cmd, &reviewConfig)
	},
	RunE: runReview,
}

var reviewConfig common.CommandConfig

func init() {
	reviewCmd.Flags().StringVarP(&reviewConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	reviewCmd.Flags().StringVar(&reviewConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = reviewCmd.RegisterFlagCompletionFunc("format", formatCompletion)
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	aiService, err := ai.NewServiceForOperation(cfg, ai.OperationReview, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := aiService.Close(); err != nil {
			logger.LogError(err, "Failed to close AI service")
		}
	}()

	createInput := func(contents [][]byte) (ats.ResumeDocument, error) {
		if len(contents) != 1 {
			return ats.ResumeDocument{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return resume.Decode(contents[0])
	}

	logDetails := func(doc ats.ResumeDocument, cmdCfg common.CommandConfig) {
		logger.Info("Starting resume review",
			"experiences", len(doc.Experiences),
			"projects", len(doc.Projects),
			"output_format", cmdCfg.OutputFormat)
	}

	reviewOperation := func(ctx context.Context, doc ats.ResumeDocument) (types.ResumeReview, *ai.TokenUsage, error) {
		return aiService.ReviewResume(ctx, doc)
	}

	if err := common.RunAICommand(cmd.Context(), logger, reviewConfig, args, createInput, reviewOperation, logDetails); err != nil {
		return fmt.Errorf("failed to review resume: %w", err)
	}
	logger.Info("Resume review completed successfully")
	return nil
}
