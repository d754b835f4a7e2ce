// Package cmd implements the command-line interface for agentscan.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cmdhttpd "github.com/jonesrussell/agentscan/cmd/httpd"
	cmdscan "github.com/jonesrussell/agentscan/cmd/scan"
	"github.com/jonesrussell/agentscan/internal/config"
)

// version is set via -ldflags at build time.
var version = "1.0.0"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	// rootCmd represents the root command for the agentscan CLI.
	rootCmd = &cobra.Command{
		Use:   "agentscan",
		Short: "Agent-readiness scanner for commerce sites",
		Long: `agentscan scores web pages on how discoverable and transactable
they are for autonomous purchasing agents.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Parse flags early so --config and --debug are visible before the
	// configuration is initialized.
	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := config.InitializeViper(cfgFile, debug); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("agentscan version %s\n", version)
		},
	})

	rootCmd.AddCommand(cmdhttpd.Command())
	rootCmd.AddCommand(cmdscan.Command())
}
