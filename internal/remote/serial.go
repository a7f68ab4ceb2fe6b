package remote

import (
	"log/slog"
)

// LineSource is the part of the serial link the decoder needs.
type LineSource interface {
	Poll() (string, bool)
	Close() error
}

// SerialDecoder reads codes from an IR receiver module that prints one
// hex code per line on its own serial port.
type SerialDecoder struct {
	log     *slog.Logger
	link    LineSource
	latched bool
}

func NewSerialDecoder(l LineSource, logger *slog.Logger) *SerialDecoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &SerialDecoder{
		log:  logger.With("component", "remote"),
		link: l,
	}
}

// Poll returns the next decoded code, if one arrived. After a code is
// handed out no further codes are delivered until Resume is called.
// Lines that do not parse as a code are logged and skipped.
func (d *SerialDecoder) Poll() (Code, bool) {
	if d.latched {
		return 0, false
	}
	line, ok := d.link.Poll()
	if !ok {
		return 0, false
	}
	code, err := ParseCode(line)
	if err != nil {
		d.log.Debug("unreadable receiver line", "line", line, "err", err)
		return 0, false
	}
	d.latched = true
	return code, true
}

func (d *SerialDecoder) Resume() {
	d.latched = false
}

func (d *SerialDecoder) Close() error {
	return d.link.Close()
}
