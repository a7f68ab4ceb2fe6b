// Package link is the line-oriented serial transport shared by the
// command channel, the fixture board and the IR receiver module.
package link

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.bug.st/serial"
)

// Frame opcodes of the fixture board protocol. Each frame is the opcode
// followed by a fixed payload; lines flow the other way, host-bound.
const (
	OpColor byte = 0xC0 // payload: r, g, b
	OpText  byte = 0xD0 // payload: line count, then length-prefixed lines
)

// StdioName selects stdin/stdout instead of a serial device, for running
// without hardware attached.
const StdioName = "-"

// Link wraps one serial port. A reader goroutine splits inbound bytes
// into lines and feeds a buffered channel; Poll drains it without
// blocking, so the control loop never stalls on the port.
type Link struct {
	log   *slog.Logger
	rw    io.ReadWriteCloser
	lines chan string
}

// ListPorts names the serial ports present on the host.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}

// Open opens the named port at the given baud rate and starts the line
// reader. The name "-" wires the link to stdin and discards writes.
func Open(name string, baud int, logger *slog.Logger) (*Link, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var rw io.ReadWriteCloser
	if name == StdioName {
		rw = stdio{}
	} else {
		port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
		if err != nil {
			return nil, fmt.Errorf("open serial port %s: %w", name, err)
		}
		rw = port
	}

	l := &Link{
		log:   logger.With("port", name),
		rw:    rw,
		lines: make(chan string, 16),
	}
	go l.readLines()
	return l, nil
}

func (l *Link) readLines() {
	sc := bufio.NewScanner(l.rw)
	for sc.Scan() {
		select {
		case l.lines <- sc.Text():
		default:
			// The loop is behind; drop rather than block the reader.
			l.log.Warn("inbound line dropped", "line", sc.Text())
		}
	}
	if err := sc.Err(); err != nil {
		l.log.Debug("serial reader stopped", "err", err)
	}
	close(l.lines)
}

// Poll returns one buffered inbound line, if any, without blocking.
func (l *Link) Poll() (string, bool) {
	select {
	case line, ok := <-l.lines:
		if !ok {
			return "", false
		}
		return line, true
	default:
		return "", false
	}
}

// WriteFrame sends one board frame: opcode then payload.
func (l *Link) WriteFrame(op byte, payload []byte) error {
	buf := make([]byte, 0, 1+len(payload))
	buf = append(buf, op)
	buf = append(buf, payload...)
	if _, err := l.rw.Write(buf); err != nil {
		return fmt.Errorf("write frame %#02x: %w", op, err)
	}
	return nil
}

func (l *Link) Close() error {
	return l.rw.Close()
}

type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return len(p), nil }
func (stdio) Close() error                { return nil }
