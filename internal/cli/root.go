// Package cli implements the eventadmin command line.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"eventadmin/config"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eventadmin",
		Short: "Administer a locally persisted event collection",
		Long: `eventadmin serves the event admin API and manages the event collection
kept in the configured local storage slot.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(newServeCmd(), newEventsCmd(), newUsersCmd(), newMailCmd())
	return cmd
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, config.NewLogger(), nil
}
