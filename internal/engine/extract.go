/*
PURPOSE:
  Extracts numeric metrics from the free-form text printed by the benchmark
  executable. The sweep only needs "Throughput: <n>[ ± <sd>] tokens/s".

REQUIREMENTS:
  User-specified:
  - The LAST match wins (progress lines come before the final summary).
  - The optional "± stddev" part is accepted but not returned.

  Implementation-discovered:
  - Output is merged stdout+stderr, so diagnostics interleave with results.
  - Label and unit are data, so a format change does not touch the sweep.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/runner.go, internal/cli/extract.go

ERROR HANDLING:
  - No match is "no value", not an error.
  - Out-of-range numbers (1e400, very long digit runs) saturate to ±Inf or 0,
    the value ParseFloat reports alongside ErrRange.
  - A syntax error on a matched number is a bug in the pattern: panic.

IMPLEMENTATION RULES:
  - Compile patterns once.
  - Keep the number grammar in one place (numberPattern).

USAGE:
  v, ok := engine.ExtractThroughput(out)

SELF-HEALING INSTRUCTIONS:
  - If the benchmark changes its summary line, change Throughput's Label/Unit
    and add a row to the extractor test table.

RELATED FILES:
  - internal/engine/extract_test.go

MAINTENANCE:
  - Keep the test table exhaustive when touching numberPattern.
*/

package engine

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// numberPattern matches decimal or exponential notation with an optional sign.
const numberPattern = `[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`

// Field describes a labelled numeric value with a unit and optional "± stddev".
type Field struct {
	Label string
	Unit  string
	re    *regexp.Regexp
}

// NewField compiles the pattern "<label>: <n>[ ± <n>] <unit>".
func NewField(label, unit string) *Field {
	pattern := regexp.QuoteMeta(label) + `:\s*(` + numberPattern + `)` +
		`(?:\s*±\s*(` + numberPattern + `))?` +
		`\s*` + regexp.QuoteMeta(unit)
	return &Field{Label: label, Unit: unit, re: regexp.MustCompile(pattern)}
}

// Last returns the primary value of the last match in text.
func (f *Field) Last(text string) (float64, bool) {
	matches := f.re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return 0, false
	}
	raw := matches[len(matches)-1][1]
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		panic(fmt.Sprintf("engine: %s pattern matched unparsable number %q: %v", f.Label, raw, err))
	}
	return v, true
}

// Throughput is the summary line printed by benchmark_genai.
var Throughput = NewField("Throughput", "tokens/s")

// ExtractThroughput returns the last reported throughput in tokens/s.
func ExtractThroughput(text string) (float64, bool) {
	return Throughput.Last(text)
}
