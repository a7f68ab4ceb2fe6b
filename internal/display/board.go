package display

import (
	"log/slog"

	"planetrise/internal/link"
)

// FrameWriter is the outbound half of the board link.
type FrameWriter interface {
	WriteFrame(op byte, payload []byte) error
}

// BoardDisplay drives the character module on the fixture board. Each
// render is one text frame: line count, then length-prefixed lines.
type BoardDisplay struct {
	log   *slog.Logger
	link  FrameWriter
	width int
}

func NewBoardDisplay(l FrameWriter, width int, logger *slog.Logger) *BoardDisplay {
	if logger == nil {
		logger = slog.Default()
	}
	if width <= 0 {
		width = DefaultWidth
	}
	return &BoardDisplay{
		log:   logger.With("display", "board"),
		link:  l,
		width: width,
	}
}

func (d *BoardDisplay) Render(lines ...string) {
	lines = clamp(d.width, lines)

	payload := []byte{byte(len(lines))}
	for _, line := range lines {
		payload = append(payload, byte(len(line)))
		payload = append(payload, line...)
	}

	if err := d.link.WriteFrame(link.OpText, payload); err != nil {
		d.log.Warn("render failed", "err", err)
	}
}
