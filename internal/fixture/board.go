package fixture

import (
	"context"

	"planetrise/internal/link"
)

// FrameWriter is the outbound half of the board link.
type FrameWriter interface {
	WriteFrame(op byte, payload []byte) error
}

// BoardSink drives the serial-attached LED board, one 4-byte color frame
// per write. This is the primary fixture; everything else mirrors it.
type BoardSink struct {
	link FrameWriter
}

func NewBoardSink(l FrameWriter) *BoardSink {
	return &BoardSink{link: l}
}

func (s *BoardSink) Kind() Kind {
	return KindBoard
}

func (s *BoardSink) Apply(_ context.Context, c RGB) error {
	return s.link.WriteFrame(link.OpColor, []byte{c.R, c.G, c.B})
}

func (s *BoardSink) Off(ctx context.Context) error {
	return s.Apply(ctx, Off)
}

// Close is a no-op: the link is shared with the command channel and the
// display, and is closed by its owner.
func (s *BoardSink) Close() error {
	return nil
}
