package fixture

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"go.yhsif.com/lifxlan"
	"go.yhsif.com/lifxlan/light"
)

// lifxFade smooths per-tick updates a little on the lamp side.
const lifxFade = 200 * time.Millisecond

// LIFXSink mirrors the fixture color onto LIFX lamps found on the LAN.
type LIFXSink struct {
	mu     sync.RWMutex
	log    *slog.Logger
	lights map[string]light.Device
}

func NewLIFXSink(logger *slog.Logger) *LIFXSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LIFXSink{
		log:    logger.With("sink", KindLIFX),
		lights: make(map[string]light.Device),
	}
}

func (s *LIFXSink) Kind() Kind {
	return KindLIFX
}

// Discover scans the LAN and caches every lamp it can wrap. Returns the
// number of lamps known afterward.
func (s *LIFXSink) Discover(ctx context.Context) (int, error) {
	discoverCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ch := make(chan lifxlan.Device)
	go func() {
		_ = lifxlan.Discover(discoverCtx, ch, "")
	}()

	for raw := range ch {
		target := raw.Target().String()

		s.mu.RLock()
		_, known := s.lights[target]
		s.mu.RUnlock()
		if known {
			continue
		}

		wrapCtx, wrapCancel := context.WithTimeout(ctx, 2*time.Second)
		ld, err := light.Wrap(wrapCtx, raw, false)
		wrapCancel()
		if err != nil {
			s.log.Debug("skipping device", "target", target, "err", err)
			continue
		}

		s.mu.Lock()
		s.lights[target] = ld
		s.mu.Unlock()
		s.log.Info("lamp found", "target", target, "label", ld.Label().String())
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lights), nil
}

func (s *LIFXSink) snapshot() map[string]light.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]light.Device, len(s.lights))
	for k, v := range s.lights {
		out[k] = v
	}
	return out
}

func (s *LIFXSink) Apply(ctx context.Context, c RGB) error {
	color := lifxColor(c)
	for target, ld := range s.snapshot() {
		conn, err := ld.Dial()
		if err != nil {
			s.log.Warn("dial failed", "target", target, "err", err)
			continue
		}
		if err := ld.SetColor(ctx, conn, &color, lifxFade, false); err != nil {
			s.log.Warn("set color failed", "target", target, "err", err)
		}
		conn.Close()
	}
	return nil
}

func (s *LIFXSink) Off(ctx context.Context) error {
	for target, ld := range s.snapshot() {
		conn, err := ld.Dial()
		if err != nil {
			s.log.Warn("dial failed", "target", target, "err", err)
			continue
		}
		if err := ld.SetLightPower(ctx, conn, lifxlan.PowerOff, lifxFade, false); err != nil {
			s.log.Warn("power off failed", "target", target, "err", err)
		}
		conn.Close()
	}
	return nil
}

func (s *LIFXSink) Close() error {
	return nil
}

func lifxColor(c RGB) lifxlan.Color {
	h, sat, v := c.HSV()
	return lifxlan.Color{
		Hue:        uint16(h / 360.0 * math.MaxUint16),
		Saturation: uint16(sat * math.MaxUint16),
		Brightness: uint16(v * math.MaxUint16),
		Kelvin:     3500,
	}
}
