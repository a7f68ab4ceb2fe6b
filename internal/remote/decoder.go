// Package remote consumes button codes from the infrared receiver
// module and maps them to selection actions.
package remote

import (
	"fmt"
	"strconv"
	"strings"
)

// Code is one decoded IR button code.
type Code uint32

func (c Code) String() string {
	return fmt.Sprintf("%06X", uint32(c))
}

// ParseCode reads a hex code as the receiver module prints it, with or
// without a 0x prefix.
func ParseCode(s string) (Code, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("bad remote code %q: %w", s, err)
	}
	return Code(v), nil
}

// Action is the logical meaning of a button.
type Action uint8

const (
	ActionNone Action = iota
	ActionSelectUp
	ActionSelectDown
)

func (a Action) String() string {
	switch a {
	case ActionSelectUp:
		return "select-up"
	case ActionSelectDown:
		return "select-down"
	default:
		return "none"
	}
}

// Decoder is the receiver-side contract: Poll hands out at most one code,
// then stays quiet until Resume acknowledges it. Mirrors the decode/resume
// cycle of the common IR receiver firmware.
type Decoder interface {
	Poll() (Code, bool)
	Resume()
	Close() error
}

// Nop is the decoder used when no receiver is attached.
type Nop struct{}

func (Nop) Poll() (Code, bool) { return 0, false }
func (Nop) Resume()            {}
func (Nop) Close() error       { return nil }
