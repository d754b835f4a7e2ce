// Package scan implements the one-shot CLI scan command.
package scan

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/agentscan/internal/bootstrap"
	"github.com/jonesrussell/agentscan/internal/config"
	"github.com/jonesrussell/agentscan/internal/logger"
)

// Command returns the scan command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <url>",
		Short: "Scan a single URL and print the analysis as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}
}

// run executes one pipeline pass and prints the resulting record.
func run(cmd *cobra.Command, rawURL string) error {
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

	record, err := app.Service.Scan(cmd.Context(), rawURL)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(record)
}
