/*
PURPOSE:
  Defines the 'list-models' subcommand.
  Shows which configured model variants have a directory under the model root.

REQUIREMENTS:
  User-specified:
  - List the models a sweep would run.

  Implementation-discovered:
  - Useful validation step before a long sweep: missing directories become
    empty columns.

ARCHITECTURE INTEGRATION:
  - Uses: internal/config (same resolution as 'run')

ERROR HANDLING:
  - Returns config errors. Missing directories are reported, not errors.

IMPLEMENTATION RULES:
  - Simple output to stdout.

USAGE:
  genai-sweep list-models --root /opt/ov --models a8w8,nvfp4

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/config/config.go

MAINTENANCE:
  - None.
*/

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daryltucker/genai-sweep/internal/config"
)

func newListModelsCmd() *cobra.Command {
	f := &sweepFlags{}

	cmd := &cobra.Command{
		Use:          "list-models",
		Short:        "List configured models and whether their directories exist",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := loadSpec(cmd, f, nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Model root: %s\n", spec.ModelRoot)
			for _, m := range spec.Models {
				status := "present"
				if info, err := os.Stat(spec.ModelDir(m)); err != nil || !info.IsDir() {
					status = "missing"
				}
				fmt.Fprintf(out, "- %s (%s)\n", m, status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&f.root, "root", "", "Root directory holding model/ (default: directory of this executable)")
	cmd.Flags().StringSliceVar(&f.models, "models", config.DefaultModels, "Comma-separated list of model variants")
	return cmd
}
