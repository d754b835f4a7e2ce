// Package httpd implements the HTTP server command for the scan service.
package httpd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/agentscan/internal/api"
	"github.com/jonesrussell/agentscan/internal/bootstrap"
	"github.com/jonesrussell/agentscan/internal/config"
	"github.com/jonesrussell/agentscan/internal/logger"
)

const (
	signalChannelBufferSize = 1
	errorChannelBufferSize  = 1
	defaultShutdownTimeout  = 30 * time.Second
)

// Command returns the httpd command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "httpd",
		Short: "Run the scan HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Start()
		},
	}
}

// Start starts the HTTP server and runs until interrupted. It handles
// graceful shutdown on SIGINT or SIGTERM.
func Start() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:       logger.Level(cfg.Logger.Level),
		Development: cfg.Logger.Development,
		Encoding:    cfg.Logger.Encoding,
		EnableColor: cfg.Logger.EnableColor,
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	app, err := bootstrap.New(cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	handler := api.NewScanHandler(app.Service, app.Repo, app.Providers)
	server := api.NewHTTPServer(log, handler, cfg)

	log.Info("Starting HTTP server", "addr", cfg.Server.Address)

	errChan := make(chan error, errorChannelBufferSize)
	go func() {
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr
		}
	}()

	return runUntilInterrupt(log, server, errChan)
}

// runUntilInterrupt runs the server until interrupted by signal or error.
func runUntilInterrupt(log logger.Interface, server *http.Server, errChan chan error) error {
	sigChan := make(chan os.Signal, signalChannelBufferSize)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case serverErr := <-errChan:
		log.Error("Server error", "error", serverErr)
		return fmt.Errorf("server error: %w", serverErr)
	case sig := <-sigChan:
		return shutdownServer(log, server, sig)
	}
}

// shutdownServer performs graceful shutdown of the server.
func shutdownServer(log logger.Interface, server *http.Server, sig os.Signal) error {
	log.Info("Shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to stop server", "error", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}

	log.Info("Server stopped successfully")
	return nil
}
