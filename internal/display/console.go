package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ConsoleDisplay mimics the character module in the terminal: a bordered
// panel of the same fixed width, redrawn on every render.
type ConsoleDisplay struct {
	w     io.Writer
	width int
	style lipgloss.Style
}

func NewConsoleDisplay(w io.Writer, width int) *ConsoleDisplay {
	if width <= 0 {
		width = DefaultWidth
	}
	return &ConsoleDisplay{
		w:     w,
		width: width,
		style: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(width + 2),
	}
}

func (d *ConsoleDisplay) Render(lines ...string) {
	lines = clamp(d.width, lines)
	fmt.Fprintln(d.w, d.style.Render(strings.Join(lines, "\n")))
}
