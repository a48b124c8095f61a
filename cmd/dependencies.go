package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/doclens/doclens-api/appconfig"
	"github.com/doclens/doclens-api/chunker"
	"github.com/doclens/doclens-api/llm"
	"github.com/doclens/doclens-api/services"
	"github.com/spf13/cobra"
)

type dependencies struct {
	cfg      *appconfig.AppConfig
	analysis *services.AnalysisService
	search   *services.SearchService
}

func provideDependencies(cfg *appconfig.AppConfig) *dependencies {
	factory := llm.NewClientFactory(cfg.ProviderConfig())
	return &dependencies{
		cfg:      cfg,
		analysis: services.ProvideAnalysisService(factory),
		search:   services.ProvideSearchService(chunker.ProvideChunker(), factory),
	}
}

// readDocument reads path, or stdin when path is "-".
func readDocument(cmd *cobra.Command, path string) (string, error) {
	if path == "" {
		return "", errors.New("--file is required")
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	return string(data), nil
}

func preview(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
