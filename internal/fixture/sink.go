package fixture

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Sink applies a color to one light target. Implementations must return
// quickly; the control loop calls Apply once per tick while a ramp runs.
type Sink interface {
	Kind() Kind
	Apply(ctx context.Context, c RGB) error
	Off(ctx context.Context) error
	Close() error
}

// Manager fans one color out to every registered sink, so the controller
// only ever sees a single output. Mirror sinks are best-effort: their
// errors are joined and reported, never fatal.
type Manager struct {
	mu    sync.RWMutex
	log   *slog.Logger
	sinks []Sink
}

func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{log: logger.With("component", "fixture")}
}

func (m *Manager) Register(s Sink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sinks = append(m.sinks, s)
	m.log.Info("sink registered", "kind", s.Kind())
}

func (m *Manager) snapshot() []Sink {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Sink(nil), m.sinks...)
}

func (m *Manager) Apply(ctx context.Context, c RGB) error {
	var errs []error
	for _, s := range m.snapshot() {
		if err := s.Apply(ctx, c); err != nil {
			m.log.Warn("apply failed", "kind", s.Kind(), "color", c, "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) Off(ctx context.Context) error {
	var errs []error
	for _, s := range m.snapshot() {
		if err := s.Off(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) Close() error {
	var errs []error
	for _, s := range m.snapshot() {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
