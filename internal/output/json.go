/*
PURPOSE:
  Appends one JSON Lines record per measured cell to an event log.
  The CSV holds the matrix; this log keeps the details (exit codes, durations,
  command lines, raw output of failed runs) for offline diagnosis.

REQUIREMENTS:
  User-specified:
  - Optional. Only written when an events file is configured.

  Implementation-discovered:
  - JSON Lines is append-friendly; several sweeps can share one file and are
    told apart by run_id.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/runner.go
  - Consumes: internal/model.Record

ERROR HANDLING:
  - Returns error on file open or write failure. The runner logs and continues.

IMPLEMENTATION RULES:
  - Use encoding/json.NewEncoder.
  - Open in append mode.

USAGE:
  w, err := output.NewJSONWriter("events.jsonl")
  w.Write(record)
  w.Close()

SELF-HEALING INSTRUCTIONS:
  - None specific.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - Keep field names stable; downstream jq filters rely on them.
*/

package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/daryltucker/genai-sweep/internal/model"
)

// JSONWriter appends records to a JSON Lines file.
type JSONWriter struct {
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONWriter opens path for appending, creating it and its directory.
func NewJSONWriter(path string) (*JSONWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &JSONWriter{
		file:    f,
		encoder: json.NewEncoder(f),
	}, nil
}

// Write writes a single record as a JSON line.
func (jw *JSONWriter) Write(r model.Record) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	return jw.encoder.Encode(r)
}

// Close closes the underlying file.
func (jw *JSONWriter) Close() error {
	return jw.file.Close()
}
