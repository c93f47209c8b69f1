/*
PURPOSE:
  Provides a structured logger for the sweep harness.
  Wraps zerolog behind a small key/value API.

REQUIREMENTS:
  User-specified:
  - "Sane" CLI output. One line per measured cell, warnings for skipped cells.

  Implementation-discovered:
  - Needs Debug/Info/Warn/Error levels selectable from the CLI.
  - Needs a JSON mode for sweeps driven by other tooling.

ARCHITECTURE INTEGRATION:
  - Used everywhere.

ERROR HANDLING:
  - Unknown levels fall back to info. Unknown formats fall back to console.

IMPLEMENTATION RULES:
  - Call sites use output.Logger.Info("Message", "key", value).
  - Keep the logger a package variable; tests swap it with SetLogger.

USAGE:
  output.Setup("debug", "json")
  output.Logger.Info("message", "key", "value")

SELF-HEALING INSTRUCTIONS:
  - If fields appear as "<nil>", check that key/value args come in pairs.

RELATED FILES:
  - internal/cli/root.go - wires --log-level and --log-format.

MAINTENANCE:
  - Add levels here before using them at call sites.
*/

package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Log is a leveled key/value logger.
type Log struct {
	z zerolog.Logger
}

var Logger *Log

func init() {
	Logger = NewLogger(os.Stdout, "info", "console")
}

// NewLogger builds a logger writing to w.
func NewLogger(w io.Writer, level, format string) *Log {
	var z zerolog.Logger
	if strings.ToLower(format) == "json" {
		z = zerolog.New(w)
	} else {
		z = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: !isTerminal(w)})
	}
	z = z.Level(ParseLevel(level)).With().Timestamp().Logger()
	return &Log{z: z}
}

// Setup replaces the package logger, writing to stdout.
func Setup(level, format string) {
	Logger = NewLogger(os.Stdout, level, format)
}

// SetLogger allows overriding the default logger (e.g. for testing).
func SetLogger(l *Log) {
	Logger = l
}

// ParseLevel maps a level name to a zerolog level. Unknown names map to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *Log) Debug(msg string, args ...interface{}) {
	e := l.z.Debug()
	addFields(e, args...)
	e.Msg(msg)
}

func (l *Log) Info(msg string, args ...interface{}) {
	e := l.z.Info()
	addFields(e, args...)
	e.Msg(msg)
}

func (l *Log) Warn(msg string, args ...interface{}) {
	e := l.z.Warn()
	addFields(e, args...)
	e.Msg(msg)
}

func (l *Log) Error(msg string, args ...interface{}) {
	e := l.z.Error()
	addFields(e, args...)
	e.Msg(msg)
}

func addFields(e *zerolog.Event, args ...interface{}) {
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", args[i])
		}
		if err, ok := args[i+1].(error); ok {
			e.AnErr(key, err)
			continue
		}
		e.Interface(key, args[i+1])
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
