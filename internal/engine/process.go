/*
PURPOSE:
  Runs the external benchmark executable once per (model, seqlen) cell,
  optionally pinned to CPU cores with taskset.

REQUIREMENTS:
  User-specified:
  - Invocation: <binary> -m <model_dir> --yjp <seqlen>.
  - Pin with "taskset -c <cores>" when cores are given and taskset exists.
  - Merge stdout and stderr into one captured text.

  Implementation-discovered:
  - Probe for taskset once per sweep, not once per run.
  - A non-zero exit is data, not an error: the output may still hold a value.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/runner.go (through the Benchmark interface)

ERROR HANDLING:
  - Returns an error only when the process could not be started or was
    killed by the context (timeout / cancellation). ExitCode is -1 then.
  - Missing taskset is logged once at debug level and otherwise ignored.

IMPLEMENTATION RULES:
  - Use exec.CommandContext so a cancelled context kills the child.
  - Never run through a shell; argv is built explicitly.

USAGE:
  l := engine.NewLauncher(spec.Binary, spec.CPUCores)
  inv, err := l.Run(ctx, "/root/model/a8w8", 128)

SELF-HEALING INSTRUCTIONS:
  - If the benchmark renames its flags, update Args().

RELATED FILES:
  - internal/engine/runner.go
  - internal/engine/process_test.go

MAINTENANCE:
  - Update when adding other affinity tools (numactl).
*/

package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/daryltucker/genai-sweep/internal/output"
)

// Invocation is the captured result of one benchmark process.
type Invocation struct {
	Args     []string
	Output   string
	ExitCode int
	Duration time.Duration
}

// Benchmark runs the benchmark executable for one cell.
type Benchmark interface {
	Run(ctx context.Context, modelDir string, seqlen int) (Invocation, error)
}

// Launcher starts the benchmark executable, optionally through taskset.
type Launcher struct {
	Binary   string
	CPUCores string
	Timeout  time.Duration

	affinity string // resolved taskset path; empty disables pinning
}

// LookPath resolves executables on PATH. Replaced in tests.
var LookPath = exec.LookPath

// NewLauncher creates a Launcher and probes for taskset once.
func NewLauncher(binary, cpuCores string) *Launcher {
	l := &Launcher{Binary: binary, CPUCores: cpuCores}
	if cpuCores == "" {
		return l
	}
	path, err := LookPath("taskset")
	if err != nil {
		output.Logger.Debug("taskset not found, running without CPU pinning", "cpu_core", cpuCores)
		return l
	}
	l.affinity = path
	output.Logger.Debug("CPU pinning enabled", "taskset", path, "cpu_core", cpuCores)
	return l
}

// Pinned reports whether runs are wrapped with taskset.
func (l *Launcher) Pinned() bool {
	return l.affinity != ""
}

// Args builds the argv for one run.
func (l *Launcher) Args(modelDir string, seqlen int) []string {
	var args []string
	if l.affinity != "" {
		args = append(args, l.affinity, "-c", l.CPUCores)
	}
	return append(args, l.Binary, "-m", modelDir, "--yjp", strconv.Itoa(seqlen))
}

// Run executes the benchmark and waits for it to exit.
func (l *Launcher) Run(ctx context.Context, modelDir string, seqlen int) (Invocation, error) {
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	args := l.Args(modelDir, seqlen)
	inv := Invocation{Args: args, ExitCode: -1}

	var buf bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	// Grandchildren holding the output pipe must not block Wait after a kill.
	cmd.WaitDelay = 2 * time.Second

	start := time.Now()
	err := cmd.Run()
	inv.Duration = time.Since(start)
	inv.Output = buf.String()

	if err == nil {
		inv.ExitCode = 0
		return inv, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return inv, fmt.Errorf("benchmark interrupted after %s: %w", inv.Duration.Round(time.Millisecond), ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		inv.ExitCode = exitErr.ExitCode()
		return inv, nil
	}
	return inv, fmt.Errorf("failed to start benchmark: %w", err)
}
