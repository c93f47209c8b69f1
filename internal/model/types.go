/*
PURPOSE:
  Defines the core data structures shared by the sweep engine and the writers.
  An Outcome is the tagged result of one (seqlen, model) cell; a Record is the
  persisted form of that outcome in the event log.

REQUIREMENTS:
  User-specified:
  - Exactly one outcome per cell: throughput, missing model, process failure,
    or unparsable output.

  Implementation-discovered:
  - A process failure may still carry a value (non-zero exit with a usable
    summary line). The value wins; the exit code is kept for the log.
  - Need JSON tags for the event log.

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine, internal/output, internal/metrics

ERROR HANDLING:
  - None (pure data structs).

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - Optional numbers are pointers so "no value" survives JSON.

USAGE:
  out := model.Outcome{Kind: model.OutcomeThroughput, Throughput: 45.6}

SELF-HEALING INSTRUCTIONS:
  - If a new outcome kind is added, update Outcome.String and the metrics labels.

RELATED FILES:
  - internal/output/json.go
  - internal/engine/runner.go

MAINTENANCE:
  - Update when adding new fields to capture.
*/

package model

import (
	"time"
)

// OutcomeKind tags a MeasurementOutcome.
type OutcomeKind string

const (
	OutcomeThroughput    OutcomeKind = "throughput"
	OutcomeMissingModel  OutcomeKind = "missing_model"
	OutcomeProcessFailed OutcomeKind = "process_failed"
	OutcomeUnparsable    OutcomeKind = "unparsable"
)

// Outcome is the result of one benchmark cell.
type Outcome struct {
	Kind       OutcomeKind
	Throughput float64 // valid only when Kind == OutcomeThroughput
	ExitCode   int     // process exit code; -1 when the process never ran to completion
	Output     string  // combined stdout+stderr
}

// HasValue reports whether the outcome carries a throughput value.
func (o Outcome) HasValue() bool {
	return o.Kind == OutcomeThroughput
}

func (o Outcome) String() string {
	return string(o.Kind)
}

// Record is one line of the JSON Lines event log.
type Record struct {
	RunID      string        `json:"run_id"`
	Timestamp  time.Time     `json:"timestamp"`
	Seqlen     int           `json:"seqlen"`
	Model      string        `json:"model"`
	ModelDir   string        `json:"model_dir"`
	Outcome    OutcomeKind   `json:"outcome"`
	Throughput *float64      `json:"tokens_per_s,omitempty"`
	ExitCode   *int          `json:"exit_code,omitempty"`
	Duration   time.Duration `json:"duration"`
	Command    []string      `json:"command,omitempty"`
	Output     string        `json:"output,omitempty"` // only kept when no value was parsed
}
