/*
PURPOSE:
  Defines the root Cobra command for the genai-sweep CLI.
  Handles global flags (config file, logging) and command initialization.

REQUIREMENTS:
  User-specified:
  - Provide a CLI interface.
  - Support global flags like --config.

  Implementation-discovered:
  - Needs to expose an Execute() function for main.go.
  - Logging must be configured before any subcommand logs.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/genai-sweep/main.go
  - Calls: Child commands (run, list-models, extract, watch)

ERROR HANDLING:
  - Returns error to main.go, which maps it to an exit status (ExitCode).
  - Errors are printed once, by main.go.

IMPLEMENTATION RULES:
  - Use `PersistentFlags()` for flags available to all subcommands.
  - Keep Run logic in subcommands.
  - Commands are built by constructors so tests get a fresh flag set.

USAGE:
  Called by main.go.

SELF-HEALING INSTRUCTIONS:
  - If adding new global flags, add them to newRootCmd().

RELATED FILES:
  - cmd/genai-sweep/main.go
  - internal/cli/exit.go

MAINTENANCE:
  - Update when adding global configuration options.
*/

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/daryltucker/genai-sweep/internal/output"
)

var (
	// cfgFile stores the path to the config file (if specified via flag)
	cfgFile   string
	logLevel  string
	logFormat string

	rootCmd = newRootCmd()
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genai-sweep",
		Short: "Sweep benchmark_genai across models and sequence lengths",
		Long: `Runs benchmark_genai for every (seqlen, model) pair, extracts the reported
throughput in tokens/s, and keeps a CSV matrix up to date after every run.
Use 'run --help' for sweep options.`,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.Setup(logLevel, logFormat)
		},
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./sweep.yaml, ./sweep.yml or ./sweep.toml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format (console, json)")

	cmd.AddCommand(newRunCmd(), newListModelsCmd(), newExtractCmd(), newWatchCmd())
	return cmd
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}
