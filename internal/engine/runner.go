/*
PURPOSE:
  High-level runner that orchestrates the sweep.
  Loops seqlens -> models, runs the benchmark, records the result and
  rewrites the CSV after every cell.

REQUIREMENTS:
  User-specified:
  - Missing model directory: skip the run, warn, empty cell.
  - Non-zero exit: warn, still try to extract a value.
  - No value: warn and dump the full output for diagnosis, empty cell.
  - Persist and log progress after every cell. Never abort on one bad cell.

  Implementation-discovered:
  - Pre-flight problems must be distinguishable for the exit status (ErrPreflight).
  - Event log and metrics textfile are updated alongside the CSV.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli/run.go
  - Uses: internal/engine (Launcher, extractor), internal/output, internal/metrics

ERROR HANDLING:
  - Logs cell errors but continues (resilience).
  - Returns error only for pre-flight failures, CSV write failures and
    context cancellation.

IMPLEMENTATION RULES:
  - Strictly sequential: one benchmark process at a time.
  - The matrix is written once before the first run.

USAGE:
  s, err := engine.NewSweep(spec)
  defer s.Close()
  m, err := s.Run(ctx)

SELF-HEALING INSTRUCTIONS:
  - If cells stay empty, check the --- output begin --- dumps on stderr.

RELATED FILES:
  - internal/engine/process.go
  - internal/engine/extract.go
  - internal/output/csv.go

MAINTENANCE:
  - Update iteration logic if parallelism is introduced.
*/

package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/daryltucker/genai-sweep/internal/config"
	"github.com/daryltucker/genai-sweep/internal/metrics"
	"github.com/daryltucker/genai-sweep/internal/model"
	"github.com/daryltucker/genai-sweep/internal/output"
)

// ErrPreflight marks failures detected before the sweep starts.
var ErrPreflight = errors.New("preflight check failed")

// Sweep drives one seqlen x model sweep.
type Sweep struct {
	Spec        *config.SweepSpec
	Bench       Benchmark
	Writer      *output.MatrixWriter
	Events      *output.JSONWriter // optional
	Metrics     *metrics.Metrics
	Diagnostics io.Writer // receives raw output of cells without a value
	RunID       string
}

// Preflight checks that the benchmark executable exists.
func Preflight(spec *config.SweepSpec) error {
	info, err := os.Stat(spec.Binary)
	if err != nil {
		return fmt.Errorf("%w: benchmark_genai not found: %s", ErrPreflight, spec.Binary)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: benchmark_genai is a directory: %s", ErrPreflight, spec.Binary)
	}
	return nil
}

// NewSweep wires the default launcher and writers for spec.
func NewSweep(spec *config.SweepSpec) (*Sweep, error) {
	launcher := NewLauncher(spec.Binary, spec.CPUCores)
	launcher.Timeout = spec.RunTimeout

	s := &Sweep{
		Spec:        spec,
		Bench:       launcher,
		Writer:      output.NewMatrixWriter(spec.Output),
		Metrics:     metrics.New(spec.MetricsFile),
		Diagnostics: os.Stderr,
		RunID:       uuid.NewString(),
	}

	if spec.EventsFile != "" {
		events, err := output.NewJSONWriter(spec.EventsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open events file %s: %w", spec.EventsFile, err)
		}
		s.Events = events
	}
	return s, nil
}

// Close releases the event log.
func (s *Sweep) Close() error {
	if s.Events == nil {
		return nil
	}
	return s.Events.Close()
}

// Run executes every cell and returns the final matrix.
func (s *Sweep) Run(ctx context.Context) (*output.Matrix, error) {
	if s.Metrics == nil {
		s.Metrics = metrics.New("")
	}
	if s.Diagnostics == nil {
		s.Diagnostics = os.Stderr
	}

	spec := s.Spec
	m := output.NewMatrix(spec.Seqlens, spec.Models)
	s.Metrics.Start(len(spec.Seqlens) * len(spec.Models))

	if err := s.persist(m); err != nil {
		return m, err
	}
	output.Logger.Info("CSV initialized", "path", spec.Output, "run_id", s.RunID,
		"seqlens", len(spec.Seqlens), "models", len(spec.Models))

	for row, seqlen := range spec.Seqlens {
		output.Logger.Info("Starting seqlen", "seqlen", seqlen)
		for col, name := range spec.Models {
			if err := ctx.Err(); err != nil {
				return m, err
			}

			outcome, inv, ran := s.measure(ctx, seqlen, name)
			if outcome.HasValue() {
				m.Set(row, col, outcome.Throughput)
			} else {
				m.Fail(row, col)
			}

			if err := s.persist(m); err != nil {
				return m, err
			}
			s.Metrics.RecordCell(seqlen, name, outcome, inv.Duration, ran)
			if err := s.Metrics.Flush(); err != nil {
				output.Logger.Warn("Failed to write metrics textfile", "path", spec.MetricsFile, "error", err)
			}
			s.logEvent(seqlen, name, outcome, inv, ran)
			logProgress(seqlen, name, outcome)
		}
	}

	measured, failed, _ := m.Counts()
	output.Logger.Info("CSV final", "path", spec.Output, "measured", measured, "empty", failed, "writes", s.Writer.Writes())
	return m, nil
}

// measure runs one cell. ran reports whether a process was started.
func (s *Sweep) measure(ctx context.Context, seqlen int, name string) (model.Outcome, Invocation, bool) {
	dir := s.Spec.ModelDir(name)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		output.Logger.Warn("Model dir not found, skip", "path", dir, "model", name, "seqlen", seqlen)
		return model.Outcome{Kind: model.OutcomeMissingModel, ExitCode: -1}, Invocation{}, false
	}

	output.Logger.Info("Running model", "model", name, "seqlen", seqlen)
	inv, err := s.Bench.Run(ctx, dir, seqlen)
	failed := err != nil || inv.ExitCode != 0
	if err != nil {
		output.Logger.Warn("benchmark_genai failed to run", "model", name, "seqlen", seqlen, "error", err)
	} else if inv.ExitCode != 0 {
		output.Logger.Warn("benchmark_genai failed", "model", name, "seqlen", seqlen, "rc", inv.ExitCode)
	}

	if v, ok := ExtractThroughput(inv.Output); ok {
		return model.Outcome{Kind: model.OutcomeThroughput, Throughput: v, ExitCode: inv.ExitCode, Output: inv.Output}, inv, true
	}

	output.Logger.Warn("Cannot parse Throughput tokens/s; output kept in stderr", "model", name, "seqlen", seqlen)
	fmt.Fprintf(s.Diagnostics, "--- output begin ---\n%s\n--- output end ---\n\n", inv.Output)

	kind := model.OutcomeUnparsable
	if failed {
		kind = model.OutcomeProcessFailed
	}
	return model.Outcome{Kind: kind, ExitCode: inv.ExitCode, Output: inv.Output}, inv, true
}

func (s *Sweep) persist(m *output.Matrix) error {
	if err := s.Writer.Write(m); err != nil {
		return fmt.Errorf("failed to write results to %s: %w", s.Writer.Path, err)
	}
	s.Metrics.RecordWrite()
	return nil
}

func (s *Sweep) logEvent(seqlen int, name string, o model.Outcome, inv Invocation, ran bool) {
	if s.Events == nil {
		return
	}
	rec := model.Record{
		RunID:     s.RunID,
		Timestamp: time.Now(),
		Seqlen:    seqlen,
		Model:     name,
		ModelDir:  s.Spec.ModelDir(name),
		Outcome:   o.Kind,
		Duration:  inv.Duration,
		Command:   inv.Args,
	}
	if ran {
		code := o.ExitCode
		rec.ExitCode = &code
	}
	// JSON has no Inf; a saturated value keeps the raw output instead.
	if o.HasValue() && !math.IsInf(o.Throughput, 0) {
		v := o.Throughput
		rec.Throughput = &v
	} else {
		rec.Output = o.Output
	}
	if err := s.Events.Write(rec); err != nil {
		output.Logger.Error("Failed to write event", "path", s.Spec.EventsFile, "error", err)
	}
}

func logProgress(seqlen int, name string, o model.Outcome) {
	pretty := "NA"
	if o.HasValue() {
		pretty = fmt.Sprintf("%.2f", o.Throughput)
	}
	if o.Kind == model.OutcomeMissingModel {
		output.Logger.Info("CSV update", "seqlen", seqlen, "model", name, "tokens_per_s", pretty, "reason", "missing model dir")
		return
	}
	output.Logger.Info("CSV update", "seqlen", seqlen, "model", name, "tokens_per_s", pretty)
}
