// Package display renders the one- or two-line status text of the alarm.
package display

// DefaultWidth matches the 16x2 character module on the reference board.
const DefaultWidth = 16

// Display clears the device and renders up to two lines of text. Extra
// lines are dropped and each line is truncated to the device width.
type Display interface {
	Render(lines ...string)
}

// Multi fans a render out to several displays.
type Multi []Display

func (m Multi) Render(lines ...string) {
	for _, d := range m {
		d.Render(lines...)
	}
}

// clamp enforces the 0..2 line, fixed-width contract shared by all
// implementations.
func clamp(width int, lines []string) []string {
	if width <= 0 {
		width = DefaultWidth
	}
	if len(lines) > 2 {
		lines = lines[:2]
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		r := []rune(line)
		if len(r) > width {
			r = r[:width]
		}
		out[i] = string(r)
	}
	return out
}
