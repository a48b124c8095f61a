package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/doclens/doclens-api/chunker"
	"github.com/spf13/cobra"
)

func NewChunkCmd() *cobra.Command {
	var (
		file    string
		window  int
		overlap int
		format  string
	)

	cmd := &cobra.Command{
		Use:   "chunk",
		Short: "Show how a document is split for search",
		Long: `Print the word windows a document is split into before search. Runs
offline; no LLM call is made.

Examples:
  doclens chunk --file report.txt
  doclens chunk --file report.txt --window 200 --overlap 20 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := chunker.New(window, overlap)
			if err != nil {
				return err
			}

			text, err := readDocument(cmd, file)
			if err != nil {
				return err
			}

			chunks := c.Chunk(text)

			if format == "json" {
				if chunks == nil {
					chunks = []chunker.Chunk{}
				}
				out, err := json.MarshalIndent(chunks, "", "  ")
				if err != nil {
					return fmt.Errorf("marshaling JSON: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", out)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "INDEX\tSTART\tEND\tPREVIEW\n")
			for _, ch := range chunks {
				fmt.Fprintf(w, "%d\t%d\t%d\t%s\n", ch.Index, ch.StartWord, ch.EndWord, preview(ch.Text, 60))
			}
			w.Flush()

			fmt.Fprintf(cmd.OutOrStdout(), "\n%d chunk(s), window %d, overlap %d\n", len(chunks), c.Window(), c.Overlap())
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "document to chunk (- for stdin)")
	cmd.Flags().IntVar(&window, "window", chunker.DefaultWindow, "words per chunk")
	cmd.Flags().IntVar(&overlap, "overlap", chunker.DefaultOverlap, "words shared by consecutive chunks")
	cmd.Flags().StringVar(&format, "format", "table", "output format: table or json")

	return cmd
}
