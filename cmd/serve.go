package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/doclens/doclens-api/appconfig"
	"github.com/doclens/doclens-api/handler"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func NewServeCmd() *cobra.Command {
	var httpPort, grpcPort string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the gRPC health probe",
		Long: `Serve the DocLens HTTP API under /api together with a gRPC
grpc.health.v1.Health endpoint for orchestrator probes. Stops gracefully on
SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *appconfig.Settings()
			if httpPort != "" {
				cfg.HTTPPort = httpPort
			}
			if grpcPort != "" {
				cfg.GRPCPort = grpcPort
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, &cfg)
		},
	}

	cmd.Flags().StringVar(&httpPort, "http-port", "", "HTTP listen address (overrides config)")
	cmd.Flags().StringVar(&grpcPort, "grpc-port", "", "gRPC probe listen address (overrides config)")

	return cmd
}

// serve blocks until ctx is cancelled or a listener fails.
func serve(ctx context.Context, cfg *appconfig.AppConfig) error {
	deps := provideDependencies(cfg)
	router := handler.NewRouter(cfg, deps.analysis, deps.search)

	httpLis, err := net.Listen("tcp", cfg.HTTPPort)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.HTTPPort, err)
	}

	grpcLis, err := net.Listen("tcp", cfg.GRPCPort)
	if err != nil {
		httpLis.Close()
		return fmt.Errorf("listening on %s: %w", cfg.GRPCPort, err)
	}

	httpServer := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	probe := handler.NewProbeServer()

	errCh := make(chan error, 2)
	go func() {
		if err := probe.Serve(grpcLis); err != nil {
			errCh <- fmt.Errorf("probe server: %w", err)
		}
	}()
	go func() {
		if err := httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	probe.SetServing(true)
	logger.Info("DocLens API started",
		zap.String("http", httpLis.Addr().String()),
		zap.String("grpc", grpcLis.Addr().String()),
		zap.String("provider", cfg.LLMProvider),
		zap.Bool("serverKey", cfg.HasAPIKey()))

	select {
	case <-ctx.Done():
		err = nil
	case err = <-errCh:
		logger.Error("Server failed", zap.Error(err))
	}

	probe.SetServing(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Error("HTTP shutdown failed", zap.Error(shutdownErr))
	}
	probe.Stop()

	logger.Info("DocLens API stopped")
	return err
}
