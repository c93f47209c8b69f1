/*
PURPOSE:
  Defines the 'run' subcommand.
  Executes the full seqlen x model sweep.

REQUIREMENTS:
  User-specified:
  - Flags for root, binary, models, seqlens, CPU pinning and output path.
  - Seqlens accept comma- and space-separated forms.
  - Exit 2 when the binary is missing or seqlens are invalid.

  Implementation-discovered:
  - Need to load config first.
  - Apply only the flags the user actually set, so that an explicit
    --cpu-core "" can disable pinning configured in a file.
  - Positional arguments are extra seqlen tokens ("run --seqlens 1 2 4").

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.NewSweep / Sweep.Run
  - Uses: internal/config

ERROR HANDLING:
  - Config file errors: returned as-is (exit 1).
  - Seqlen and binary errors: wrapped with engine.ErrPreflight (exit 2).

IMPLEMENTATION RULES:
  - Logic: Load Config -> Override -> Resolve -> Preflight -> Sweep.

USAGE:
  genai-sweep run --seqlens 1,2,4 --models a8w8,nvfp4

SELF-HEALING INSTRUCTIONS:
  - Check flag names match Config struct fields generally.

RELATED FILES:
  - internal/cli/root.go
  - internal/config/config.go

MAINTENANCE:
  - Update when adding new CLI overrides.
*/

package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/daryltucker/genai-sweep/internal/config"
	"github.com/daryltucker/genai-sweep/internal/engine"
)

// sweepFlags are the config overrides shared by subcommands.
type sweepFlags struct {
	root        string
	binary      string
	models      []string
	seqlens     []string
	cpuCore     string
	out         string
	events      string
	metricsFile string
	timeout     time.Duration
}

func (f *sweepFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Root = f.root
	}
	if flags.Changed("binary") {
		cfg.Binary = f.binary
	}
	if flags.Changed("models") {
		cfg.Models = f.models
	}
	if flags.Changed("seqlens") {
		cfg.Seqlens = config.SeqlenList(f.seqlens)
	}
	if flags.Changed("cpu-core") {
		cfg.CPUCore = f.cpuCore
	}
	if flags.Changed("out") {
		cfg.Output = f.out
	}
	if flags.Changed("events") {
		cfg.EventsFile = f.events
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}
	if flags.Changed("timeout") {
		cfg.RunTimeout = f.timeout
	}
}

// loadSpec loads the config file, applies flag overrides and resolves paths.
func loadSpec(cmd *cobra.Command, f *sweepFlags, extraSeqlens []string) (*config.SweepSpec, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	f.apply(cmd, cfg)
	if len(extraSeqlens) > 0 {
		cfg.Seqlens = append(cfg.Seqlens, extraSeqlens...)
	}

	spec, err := config.Resolve(cfg)
	if errors.Is(err, config.ErrInvalidSeqlen) && len(extraSeqlens) > 0 {
		return nil, fmt.Errorf("%w: %w (positional arguments are seqlens; separate --models with commas)", engine.ErrPreflight, err)
	}
	if errors.Is(err, config.ErrInvalidSeqlen) || errors.Is(err, config.ErrEmptySeqlens) {
		return nil, fmt.Errorf("%w: %w", engine.ErrPreflight, err)
	}
	return spec, err
}

func newRunCmd() *cobra.Command {
	f := &sweepFlags{}

	cmd := &cobra.Command{
		Use:   "run [seqlen...]",
		Short: "Run the seqlen x model sweep",
		Long: `Runs benchmark_genai once per (seqlen, model) pair:

  <binary> -m <root>/model/<model> --yjp <seqlen>

The "Throughput: <n> tokens/s" summary of each run is recorded in a CSV matrix
(one row per seqlen, one column per model). The CSV is written before the first
run and replaced atomically after every run, so it can be opened at any time.
Missing model directories, failing runs and unparsable output leave the cell
empty and the sweep continues.

Models are comma separated (--models a8w8,nvfp4 or a repeated --models flag).
Positional arguments are always seqlens, so "--models a8w8 nvfp4" reads nvfp4
as a seqlen and fails the pre-flight check.

Exit status is 0 when the sweep completes and 2 when benchmark_genai is missing
or the seqlen list is invalid.`,
		Example: `  # Run with defaults (all models, seqlens 1..16384)
  genai-sweep run

  # Selected seqlens, comma or space separated
  genai-sweep run --seqlens 1,2,4,8
  genai-sweep run --seqlens 1 2 4 8

  # Two models, no CPU pinning, custom output
  genai-sweep run --models a8w8,nvfp4 --cpu-core "" --out ./tokens.csv

  # Keep per-run details and Prometheus metrics
  genai-sweep run --events ./profile_log/events.jsonl --metrics-file /var/lib/node_exporter/genai.prom`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := loadSpec(cmd, f, args)
			if err != nil {
				return err
			}
			if err := engine.Preflight(spec); err != nil {
				return err
			}

			sweep, err := engine.NewSweep(spec)
			if err != nil {
				return err
			}
			defer sweep.Close()

			_, err = sweep.Run(cmd.Context())
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.root, "root", "", "Root directory holding bin/, model/ and profile_log/ (default: directory of this executable)")
	flags.StringVar(&f.binary, "binary", "", "Path to benchmark_genai (default: <root>/bin/samples_bin/benchmark_genai)")
	flags.StringSliceVar(&f.models, "models", config.DefaultModels, "Comma-separated list of model variants (directories under <root>/model); repeatable")
	flags.StringArrayVar(&f.seqlens, "seqlens", nil, "Seqlens, comma or space separated; repeatable (default: 1,2,4,...,16384)")
	flags.StringVar(&f.cpuCore, "cpu-core", "0", `CPU core list passed to taskset -c ("" disables pinning)`)
	flags.StringVarP(&f.out, "out", "o", "", "Output CSV (default: <root>/profile_log/genai_tokens_per_s.csv)")
	flags.StringVar(&f.events, "events", "", "Append a JSON Lines record per run to this file")
	flags.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics in textfile format to this path after every run")
	flags.DurationVar(&f.timeout, "timeout", 0, "Kill a single benchmark run after this long (0 = no limit)")
	return cmd
}
