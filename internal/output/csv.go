/*
PURPOSE:
  Persists the result matrix to a CSV file, replacing the whole file on every
  update so the sweep can be followed while it runs.

REQUIREMENTS:
  User-specified:
  - Header "seqlen,<model1>,<model2>,...", one row per seqlen.
  - Write once at start and after every cell.
  - A reader must never see a half-written file.

  Implementation-discovered:
  - Render to memory first, then temp file + fsync + rename (atomic.go).
  - Same matrix -> same bytes, so repeated writes are idempotent.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/runner.go
  - Read back by: internal/output/watch.go, internal/cli/watch.go

ERROR HANDLING:
  - Returns error on render, write or rename failure. The old file stays intact.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Never append; always rewrite wholesale.

USAGE:
  w := output.NewMatrixWriter("profile_log/genai_tokens_per_s.csv")
  w.Write(matrix)
  m, err := output.ReadMatrix(path)

SELF-HEALING INSTRUCTIONS:
  - If CSV format changes, update Matrix.Records and ReadMatrix.

RELATED FILES:
  - internal/output/matrix.go
  - internal/output/atomic.go

MAINTENANCE:
  - Update ReadMatrix whenever the header changes.
*/

package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// MatrixWriter rewrites a CSV file from a Matrix.
type MatrixWriter struct {
	Path   string
	writes int
}

// NewMatrixWriter creates a writer for path. Nothing is written until Write.
func NewMatrixWriter(path string) *MatrixWriter {
	return &MatrixWriter{Path: path}
}

// Write replaces the file with the current matrix state.
func (mw *MatrixWriter) Write(m *Matrix) error {
	data, err := EncodeMatrix(m)
	if err != nil {
		return err
	}
	if err := atomicWriteFile(mw.Path, data, 0644); err != nil {
		return err
	}
	mw.writes++
	return nil
}

// Writes returns the number of successful writes.
func (mw *MatrixWriter) Writes() int {
	return mw.writes
}

// EncodeMatrix renders m as CSV.
func EncodeMatrix(m *Matrix) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(m.Records()); err != nil {
		return nil, fmt.Errorf("failed to encode matrix: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadMatrix parses a CSV file written by MatrixWriter.
// Empty cells come back as Unmeasured.
func ReadMatrix(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 || len(records[0]) == 0 || records[0][0] != "seqlen" {
		return nil, fmt.Errorf("failed to parse %s: missing seqlen header", path)
	}

	seqlens := make([]int, 0, len(records)-1)
	for _, rec := range records[1:] {
		n, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: bad seqlen %q", path, rec[0])
		}
		seqlens = append(seqlens, n)
	}

	m := NewMatrix(seqlens, records[0][1:])
	for i, rec := range records[1:] {
		for j, field := range rec[1:] {
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse %s: bad value %q at seqlen %d", path, field, seqlens[i])
			}
			m.Set(i, j, v)
		}
	}
	return m, nil
}
