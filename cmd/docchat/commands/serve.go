// ABOUTME: Serve command starts the HTTP API for uploads and chat
// ABOUTME: Runs the chi server with graceful shutdown on interrupt
package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harper/docchat/internal/config"
	"github.com/harper/docchat/internal/server"
	"github.com/joho/godotenv"
)

var (
	serveHost string
	servePort int
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server for document uploads and chat.

Endpoints:
  POST /api/v1/documents  multipart file upload, indexes the document
  POST /api/v1/chat       {"message": "..."} answers from indexed documents
  GET  /health            liveness check`,
		RunE: runServe,
		Example: `  docchat serve
  docchat serve --port 9000`,
	}

	cmd.Flags().StringVar(&serveHost, "host", "", "Host to bind (default from config)")
	cmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ingestor, retriever, err := buildPipelines(cfg)
	if err != nil {
		return err
	}

	srv := server.NewServer(ingestor, retriever, &cfg.Server, logger)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}

// newLogger builds a zap logger honoring the global verbosity flags.
func newLogger() (*zap.Logger, error) {
	if quiet {
		return zap.NewNop(), nil
	}
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
