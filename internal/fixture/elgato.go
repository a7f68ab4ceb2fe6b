package fixture

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mdlayher/keylight"
)

// ElgatoSink mirrors the fixture onto Elgato key lights. Key lights are
// white-only, so the color collapses to brightness plus a rough warmth
// estimate from the blue channel.
type ElgatoSink struct {
	mu      sync.RWMutex
	log     *slog.Logger
	clients map[string]*keylight.Client
}

func NewElgatoSink(logger *slog.Logger) *ElgatoSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &ElgatoSink{
		log:     logger.With("sink", KindElgato),
		clients: make(map[string]*keylight.Client),
	}
}

func (s *ElgatoSink) Kind() Kind {
	return KindElgato
}

// Add registers one key light by host address.
func (s *ElgatoSink) Add(addr string) error {
	full := fmt.Sprintf("http://%s:9123", addr)
	client, err := keylight.NewClient(full, nil)
	if err != nil {
		return fmt.Errorf("key light client for %s: %w", addr, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[addr]; ok {
		return nil
	}
	s.clients[addr] = client
	s.log.Info("key light registered", "addr", addr)
	return nil
}

// Addrs lists registered addresses, for persisting discovery results.
func (s *ElgatoSink) Addrs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.clients))
	for addr := range s.clients {
		out = append(out, addr)
	}
	return out
}

func (s *ElgatoSink) snapshot() map[string]*keylight.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*keylight.Client, len(s.clients))
	for k, v := range s.clients {
		out[k] = v
	}
	return out
}

func (s *ElgatoSink) Apply(ctx context.Context, c RGB) error {
	on := c != Off
	ll := []*keylight.Light{{
		On:          on,
		Brightness:  elgatoBrightness(c),
		Temperature: elgatoTemperature(c),
	}}

	for addr, client := range s.snapshot() {
		if err := client.SetLights(ctx, ll); err != nil {
			s.log.Warn("set lights failed", "addr", addr, "err", err)
		}
	}
	return nil
}

func (s *ElgatoSink) Off(ctx context.Context) error {
	return s.Apply(ctx, Off)
}

func (s *ElgatoSink) Close() error {
	return nil
}

// elgatoBrightness maps the brightest channel to the device's [3,100]
// percent range.
func elgatoBrightness(c RGB) int {
	maxc := c.R
	if c.G > maxc {
		maxc = c.G
	}
	if c.B > maxc {
		maxc = c.B
	}
	b := int(maxc) * 100 / 255
	if b < 3 {
		b = 3
	}
	return b
}

// elgatoTemperature spreads the blue channel across the device's
// 2900K-7000K range: red-heavy sunrise colors come out warm.
func elgatoTemperature(c RGB) int {
	return 2900 + int(c.B)*(7000-2900)/255
}
