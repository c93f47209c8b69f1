/*
PURPOSE:
  Defines the 'watch' subcommand.
  Follows the result CSV of a running sweep and reprints the matrix whenever
  the sweep replaces the file.

REQUIREMENTS:
  User-specified:
  - Results must be observable while a long sweep runs.

  Implementation-discovered:
  - The sweep replaces the file by rename, so the directory is watched
    (fsnotify), not the file.

ARCHITECTURE INTEGRATION:
  - Uses: internal/output.Watch, internal/output.ReadMatrix

ERROR HANDLING:
  - Unreadable intermediate states are logged and skipped.
  - Ctrl-C stops the watch cleanly.

IMPLEMENTATION RULES:
  - Same path resolution as 'run' (--root, --out, config file).

USAGE:
  genai-sweep watch --root /opt/ov
  genai-sweep watch --out ./tokens.csv --once

SELF-HEALING INSTRUCTIONS:
  - If no updates appear, check that --out matches the running sweep.

RELATED FILES:
  - internal/output/watch.go

MAINTENANCE:
  - None.
*/

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/daryltucker/genai-sweep/internal/output"
)

func newWatchCmd() *cobra.Command {
	f := &sweepFlags{}
	var once bool

	cmd := &cobra.Command{
		Use:          "watch",
		Short:        "Print the result matrix and reprint it on every update",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := loadSpec(cmd, f, nil)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if once {
				m, err := output.ReadMatrix(spec.Output)
				if err != nil {
					return err
				}
				return m.WriteTable(out)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			output.Logger.Info("Watching results", "path", spec.Output)
			return output.Watch(ctx, spec.Output, func(m *output.Matrix) {
				measured, _, empty := m.Counts()
				fmt.Fprintf(out, "\n[%s] measured=%d empty=%d\n", time.Now().Format(time.TimeOnly), measured, empty)
				if err := m.WriteTable(out); err != nil {
					output.Logger.Warn("Failed to print matrix", "error", err)
				}
			})
		},
	}

	cmd.Flags().StringVar(&f.root, "root", "", "Root directory (default: directory of this executable)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "CSV to follow (default: <root>/profile_log/genai_tokens_per_s.csv)")
	cmd.Flags().BoolVar(&once, "once", false, "Print the current matrix and exit")
	return cmd
}
