/*
PURPOSE:
  Holds the live result matrix of a sweep: one row per seqlen, one column per
  model, each cell unmeasured, measured (with a value) or failed.

REQUIREMENTS:
  User-specified:
  - Rows in sweep order, columns in sweep order.
  - Unmeasured and failed cells are both empty in the file; "NA" only on the console.

  Implementation-discovered:
  - Models may repeat. Cells are addressed by column index so a repeated
    model gets its own column instead of sharing one.
  - Values print like the previous tooling did: 100.0, 45.6.

ARCHITECTURE INTEGRATION:
  - Written by: internal/engine/runner.go
  - Serialized by: internal/output/csv.go
  - Parsed back by: ReadMatrix (watch command, tests)

ERROR HANDLING:
  - Setting a cell twice is a programming error and panics.

IMPLEMENTATION RULES:
  - The matrix is created fully unmeasured before any run.
  - No locking: a single goroutine owns the matrix.

USAGE:
  m := output.NewMatrix([]int{1, 2}, []string{"m1", "m2"})
  m.Set(0, 0, 100)
  m.Fail(0, 1)

SELF-HEALING INSTRUCTIONS:
  - If the CSV layout changes, update Records and ReadMatrix together.

RELATED FILES:
  - internal/output/csv.go

MAINTENANCE:
  - Keep Records deterministic; the writer relies on it for idempotence.
*/

package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

// CellState distinguishes cells that were never run from runs that failed.
type CellState uint8

const (
	Unmeasured CellState = iota
	Measured
	Failed
)

func (s CellState) String() string {
	switch s {
	case Measured:
		return "measured"
	case Failed:
		return "failed"
	default:
		return "unmeasured"
	}
}

// Cell is one (seqlen, model) entry.
type Cell struct {
	State CellState
	Value float64
}

// Matrix is the seqlen x model result table.
type Matrix struct {
	Seqlens []int
	Models  []string
	cells   [][]Cell
}

// NewMatrix returns a matrix with every cell unmeasured.
func NewMatrix(seqlens []int, models []string) *Matrix {
	m := &Matrix{
		Seqlens: append([]int(nil), seqlens...),
		Models:  append([]string(nil), models...),
		cells:   make([][]Cell, len(seqlens)),
	}
	for i := range m.cells {
		m.cells[i] = make([]Cell, len(models))
	}
	return m
}

// Cell returns the cell at (row, col).
func (m *Matrix) Cell(row, col int) Cell {
	return m.cells[row][col]
}

// Lookup returns the first cell for (seqlen, model).
func (m *Matrix) Lookup(seqlen int, model string) (Cell, bool) {
	for i, s := range m.Seqlens {
		if s != seqlen {
			continue
		}
		for j, name := range m.Models {
			if name == model {
				return m.cells[i][j], true
			}
		}
	}
	return Cell{}, false
}

// Set records a measured value.
func (m *Matrix) Set(row, col int, value float64) {
	m.record(row, col, Cell{State: Measured, Value: value})
}

// Fail records a cell that was attempted but produced no value.
func (m *Matrix) Fail(row, col int) {
	m.record(row, col, Cell{State: Failed})
}

func (m *Matrix) record(row, col int, c Cell) {
	if prev := m.cells[row][col].State; prev != Unmeasured {
		panic(fmt.Sprintf("output: cell (seqlen=%d, model=%s) already %s", m.Seqlens[row], m.Models[col], prev))
	}
	m.cells[row][col] = c
}

// Counts returns how many cells are in each state.
func (m *Matrix) Counts() (measured, failed, unmeasured int) {
	for _, row := range m.cells {
		for _, c := range row {
			switch c.State {
			case Measured:
				measured++
			case Failed:
				failed++
			default:
				unmeasured++
			}
		}
	}
	return measured, failed, unmeasured
}

// Records renders the header and one row per seqlen.
func (m *Matrix) Records() [][]string {
	records := make([][]string, 0, len(m.Seqlens)+1)
	records = append(records, append([]string{"seqlen"}, m.Models...))
	for i, seqlen := range m.Seqlens {
		rec := make([]string, 0, len(m.Models)+1)
		rec = append(rec, strconv.Itoa(seqlen))
		for _, c := range m.cells[i] {
			rec = append(rec, formatCell(c))
		}
		records = append(records, rec)
	}
	return records
}

// WriteTable prints an aligned, human-readable table. Empty cells show "NA".
func (m *Matrix) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for i, rec := range m.Records() {
		for j := range rec {
			if i > 0 && j > 0 && rec[j] == "" {
				rec[j] = "NA"
			}
		}
		if _, err := fmt.Fprintln(tw, strings.Join(rec, "\t")+"\t"); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func formatCell(c Cell) string {
	if c.State != Measured {
		return ""
	}
	return FormatValue(c.Value)
}

// FormatValue prints v in shortest round-trip form, keeping ".0" on integers.
func FormatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
