package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/doclens/doclens-api/appconfig"
	"github.com/spf13/cobra"
)

func NewSearchCmd() *cobra.Command {
	var (
		file   string
		apiKey string
		format string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Semantic search inside a document",
		Long: `Split a document into overlapping chunks and ask the LLM which of them
answer the query. Results are printed in the order the model ranked them.

Examples:
  doclens search --file lease.txt "termination notice period"
  doclens search --file lease.txt --format json "late payment penalties"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("--format must be table or json, got %q", format)
			}

			text, err := readDocument(cmd, file)
			if err != nil {
				return err
			}

			deps := provideDependencies(appconfig.Settings())
			key, err := deps.cfg.ResolveAPIKey(apiKey)
			if err != nil {
				return fmt.Errorf("set GROQ_API_KEY or pass --api-key: %w", err)
			}

			query := args[0]
			outcome, err := deps.search.Search(cmd.Context(), key, text, query)
			if err != nil {
				return fmt.Errorf("searching document: %w", err)
			}

			if format == "json" {
				out, err := json.MarshalIndent(map[string]any{
					"results":      outcome.Hits,
					"total_chunks": outcome.TotalChunks,
					"query":        query,
				}, "", "  ")
				if err != nil {
					return fmt.Errorf("marshaling JSON: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", out)
				return nil
			}

			if len(outcome.Hits) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No relevant chunks for query: %s\n", query)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "SCORE\tCHUNK\tREASON\tPREVIEW\n")
			fmt.Fprintf(w, "-----\t-----\t------\t-------\n")
			for _, hit := range outcome.Hits {
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", hit.RelevanceScore, hit.ChunkIndex, preview(hit.Reason, 50), preview(hit.ChunkText, 60))
			}
			w.Flush()

			fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d chunk(s) matched\n", len(outcome.Hits), outcome.TotalChunks)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "document to search (- for stdin)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Groq API key (defaults to GROQ_API_KEY)")
	cmd.Flags().StringVar(&format, "format", "table", "output format: table or json")

	return cmd
}
