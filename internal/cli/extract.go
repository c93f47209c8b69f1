package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/daryltucker/genai-sweep/internal/engine"
	"github.com/daryltucker/genai-sweep/internal/output"
)

var errNoThroughput = errors.New("no Throughput tokens/s line found")

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract [file]",
		Short: "Print the last Throughput value found in a saved benchmark log",
		Long: `Reads benchmark_genai output from a file (or stdin) and prints the last
"Throughput: <n> tokens/s" value, exactly as 'run' would record it.
Prints NA and exits 1 when no value is found.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			data, err := io.ReadAll(r)
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			v, ok := engine.ExtractThroughput(string(data))
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "NA")
				return errNoThroughput
			}
			fmt.Fprintln(cmd.OutOrStdout(), output.FormatValue(v))
			return nil
		},
	}
}
