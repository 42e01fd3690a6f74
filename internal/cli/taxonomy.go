package cli

import (
	"resumescore/internal/common"
	"resumescore/internal/config"

	"github.com/spf13/cobra"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Print the effective keyword taxonomy",
	Long: `Print the keyword taxonomy the scorer uses as JSON: the file set in
scoring.taxonomyFile, or the built-in 2025 lists when none is configured.
The output is a valid taxonomy file and can be edited and loaded back.`,
	Args: cobra.NoArgs,
	RunE: runTaxonomy,
}

var taxonomyOutput string

func init() {
	taxonomyCmd.Flags().StringVarP(&taxonomyOutput, "output", "o", "", "Output file path (default: stdout)")
}

func runTaxonomy(cmd *cobra.Command, args []string) error {
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

	return common.NewOutputHandlerWithWriter(logger, cmd.OutOrStdout()).HandleOutput(scorer.Taxonomy(), common.CommandConfig{
		OutputFile:   taxonomyOutput,
		OutputFormat: "json",
	})
}
