// Package cmd contains the CLI commands for the dictid application.
package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd *cobra.Command

// verbose holds the global --verbose flag state.
var verbose bool

// jsonFlag holds the global --json flag state.
var jsonFlag bool

// configPath holds the global --config flag.
var configPath string

func init() {
	rootCmd = NewRootCmd()
	wireCommands(rootCmd, os.Getwd)
}

// GetVerbose returns the current verbose flag state.
func GetVerbose() bool {
	return verbose
}

// GetJSON reports whether --json was set on the root command.
func GetJSON() bool {
	return jsonFlag
}

// GetConfigPath returns the --config flag value.
func GetConfigPath() string {
	return configPath
}

// NewRootCmd creates a new root command instance without subcommands.
// This is useful for testing to get a fresh command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dictid",
		Short:         "Generate random identifiers from a dictionary of symbols",
		Long:          "dictid generates fixed-length random identifiers drawn from a configurable alphabet.",
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, newLogger(GetVerbose(), cmd.ErrOrStderr())))
			return nil
		},
	}

	// Add persistent flags (available to all subcommands)
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging to stderr")
	cmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Output results as JSON")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML or TOML config file (default: ./.dictid.yaml if present)")

	return cmd
}

// wireCommands registers every subcommand with its production adapter.
func wireCommands(root *cobra.Command, getwd func() (string, error)) {
	resolver := &fileResolver{getwd: getwd}
	root.AddCommand(NewGenCmd(&genAdapter{resolver: resolver}))
	root.AddCommand(NewInfoCmd(&infoAdapter{resolver: resolver}))
}

// ExecuteContext runs the root command with the given context.
// This enables graceful shutdown via context cancellation (e.g., on SIGINT).
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
