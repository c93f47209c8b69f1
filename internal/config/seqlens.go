/*
PURPOSE:
  Parses and validates the seqlen list of a sweep.

REQUIREMENTS:
  User-specified:
  - Default ladder 1, 2, 4, ..., 16384.
  - Every value is an integer >= 1; anything else fails before the sweep.

  Implementation-discovered:
  - Tokens may be comma or whitespace separated and may repeat across flags.
  - Duplicates are dropped, first occurrence keeps its position.

ARCHITECTURE INTEGRATION:
  - Called by: internal/config/config.go (Resolve)

ERROR HANDLING:
  - Returns ErrInvalidSeqlen or ErrEmptySeqlens; the CLI maps both to the
    pre-flight exit status.

IMPLEMENTATION RULES:
  - Fail fast on the first bad token.

USAGE:
  seqlens, err := config.ResolveSeqlens([]string{"1,2", "4 8"})

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/config/config.go

MAINTENANCE:
  - None.
*/

package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrEmptySeqlens is returned when a seqlen specification yields no values.
	ErrEmptySeqlens = errors.New("seqlens list is empty")
	// ErrInvalidSeqlen is returned for fragments that are not integers >= 1.
	ErrInvalidSeqlen = errors.New("invalid seqlen")
)

// DefaultSeqlens is the power-of-two ladder used when no seqlens are given.
func DefaultSeqlens() []int {
	seqlens := make([]int, 0, 15)
	for n := 1; n <= 16384; n *= 2 {
		seqlens = append(seqlens, n)
	}
	return seqlens
}

// ResolveSeqlens turns raw seqlen tokens into an ordered, de-duplicated list.
// Each token may hold several values separated by commas or whitespace.
// A nil slice means "not specified" and yields DefaultSeqlens.
func ResolveSeqlens(tokens []string) ([]int, error) {
	if tokens == nil {
		return DefaultSeqlens(), nil
	}

	var fragments []string
	for _, tok := range tokens {
		fragments = append(fragments, strings.FieldsFunc(tok, isSeparator)...)
	}

	seqlens := make([]int, 0, len(fragments))
	seen := make(map[int]struct{}, len(fragments))
	for _, frag := range fragments {
		n, err := strconv.Atoi(frag)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSeqlen, frag)
		}
		if n < 1 {
			return nil, fmt.Errorf("%w: seqlen must be >= 1, got %d", ErrInvalidSeqlen, n)
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		seqlens = append(seqlens, n)
	}

	if len(seqlens) == 0 {
		return nil, ErrEmptySeqlens
	}
	return seqlens, nil
}

func isSeparator(r rune) bool {
	return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
