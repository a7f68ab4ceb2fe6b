// Package command parses the line protocol spoken by the alarm host:
// a keyword, one space, and a duration in milliseconds.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Keyword starts every valid command line, e.g. "SUNRISE 30000".
const Keyword = "SUNRISE"

// ErrMalformedCommand is returned for any line that does not match the
// grammar. The sender is expected to resend; nothing is retried here.
var ErrMalformedCommand = errors.New("malformed command")

// StartRequest asks for a sunrise run. The target color is never on the
// wire; it always comes from the current preset selection at arm time.
type StartRequest struct {
	Duration time.Duration
}

// Parse decodes one command line. Leading and trailing whitespace is
// trimmed before matching. The duration token must be a non-negative
// decimal integer; anything else is ErrMalformedCommand.
func Parse(line string) (StartRequest, error) {
	line = strings.TrimSpace(line)

	keyword, rest, found := strings.Cut(line, " ")
	if !found {
		return StartRequest{}, fmt.Errorf("%w: missing duration in %q", ErrMalformedCommand, line)
	}
	if keyword != Keyword {
		return StartRequest{}, fmt.Errorf("%w: unknown keyword %q", ErrMalformedCommand, keyword)
	}

	ms, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil || ms < 0 {
		return StartRequest{}, fmt.Errorf("%w: bad duration %q", ErrMalformedCommand, rest)
	}

	return StartRequest{Duration: time.Duration(ms) * time.Millisecond}, nil
}
