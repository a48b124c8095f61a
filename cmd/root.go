package cmd

import (
	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/doclens/doclens-api/appconfig"
	"github.com/spf13/cobra"
)

var configPath string

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doclens",
		Short: "AI document analysis and semantic search",
		Long: `DocLens forwards document text to an LLM and returns either a
five-section analysis or the document chunks most relevant to a query.

Run "doclens serve" for the HTTP API, or use the analyze, search and
chunk commands directly from a shell.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			dotenv.LoadEnv()
			if configPath != "" {
				appconfig.ReloadFrom(configPath)
			}
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is ./config.ini)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewChunkCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

func Execute() error {
	return NewRootCmd().Execute()
}
