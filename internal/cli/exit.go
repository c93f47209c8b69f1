/*
PURPOSE:
  Maps command errors to process exit statuses.

REQUIREMENTS:
  User-specified:
  - 0 on a completed sweep, 2 on a pre-flight failure.

  Implementation-discovered:
  - Everything else (config, I/O, interrupt) exits 1.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/genai-sweep/main.go
  - Depends on: internal/engine.ErrPreflight

ERROR HANDLING:
  - Classification only, via errors.Is.

IMPLEMENTATION RULES:
  - Wrap pre-flight failures with %w so the chain survives.

USAGE:
  os.Exit(cli.ExitCode(err))

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - cmd/genai-sweep/main.go

MAINTENANCE:
  - None.
*/

package cli

import (
	"errors"

	"github.com/daryltucker/genai-sweep/internal/engine"
)

const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitPreflight = 2
)

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, engine.ErrPreflight):
		return ExitPreflight
	default:
		return ExitFailure
	}
}
