package cmd

import (
	"fmt"

	"github.com/doclens/doclens-api/appconfig"
	"github.com/doclens/doclens-api/services"
	"github.com/spf13/cobra"
)

func NewAnalyzeCmd() *cobra.Command {
	var (
		file    string
		docType string
		apiKey  string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a document",
		Long: `Analyze a plain-text document and print the five labelled sections:
EXECUTIVE_SUMMARY, KEY_POINTS, CRITICAL_FLAGS, NAMED_ENTITIES and
RECOMMENDED_ACTIONS.

Examples:
  doclens analyze --file contract.txt --type contracts
  cat paper.txt | doclens analyze --file - --type research`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readDocument(cmd, file)
			if err != nil {
				return err
			}

			deps := provideDependencies(appconfig.Settings())
			key, err := deps.cfg.ResolveAPIKey(apiKey)
			if err != nil {
				return fmt.Errorf("set GROQ_API_KEY or pass --api-key: %w", err)
			}

			text, truncated := services.TruncateDocument(text, deps.cfg.MaxAnalyzeChars)
			if truncated {
				fmt.Fprintf(cmd.ErrOrStderr(), "Document truncated to %d characters\n", deps.cfg.MaxAnalyzeChars)
			}

			analysis, err := deps.analysis.Analyze(cmd.Context(), key, text, docType)
			if err != nil {
				return fmt.Errorf("analyzing document: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), analysis)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "document to analyze (- for stdin)")
	cmd.Flags().StringVarP(&docType, "type", "t", "general", "document type: contracts, research, business or general")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Groq API key (defaults to GROQ_API_KEY)")

	return cmd
}
