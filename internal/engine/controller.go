// Package engine runs the control loop: one step per tick, three event
// sources, fixed priority.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"planetrise/internal/command"
	"planetrise/internal/display"
	"planetrise/internal/fixture"
	"planetrise/internal/preset"
	"planetrise/internal/remote"
	"planetrise/internal/sunrise"
)

// DefaultTick bounds how coarse the ramp output gets; progress itself is
// measured against sampled wall time, not tick count.
const DefaultTick = 25 * time.Millisecond

// ColorSink is the one output the controller pushes colors to. The
// fixture Manager satisfies it.
type ColorSink interface {
	Apply(ctx context.Context, c fixture.RGB) error
}

// LineSource yields complete inbound command lines without blocking.
type LineSource interface {
	Poll() (string, bool)
}

type Config struct {
	Logger    *slog.Logger
	Selection *preset.Selection
	Sink      ColorSink
	Display   display.Display
	Commands  LineSource
	Decoder   remote.Decoder
	// Actions maps receiver button codes to selection actions. Codes
	// not in the map are logged and ignored.
	Actions map[remote.Code]remote.Action
	Tick    time.Duration
}

// Controller owns all mutable state of the alarm: the preset selection
// and the sunrise ramp. Everything is an explicit field; the loop is the
// only writer, so no locking is needed.
type Controller struct {
	log      *slog.Logger
	sel      *preset.Selection
	ramp     *sunrise.Ramp
	sink     ColorSink
	display  display.Display
	commands LineSource
	decoder  remote.Decoder
	actions  map[remote.Code]remote.Action
	tick     time.Duration

	// run describes the in-flight ramp, for the completion message and
	// for correlating log lines.
	run struct {
		preset preset.Preset
		id     string
	}
}

func New(cfg Config) (*Controller, error) {
	if cfg.Selection == nil {
		return nil, errors.New("engine: selection is required")
	}
	if cfg.Sink == nil {
		return nil, errors.New("engine: color sink is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Display == nil {
		cfg.Display = display.Multi{}
	}
	if cfg.Decoder == nil {
		cfg.Decoder = remote.Nop{}
	}
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultTick
	}

	return &Controller{
		log:      cfg.Logger.With("component", "engine"),
		sel:      cfg.Selection,
		ramp:     &sunrise.Ramp{},
		sink:     cfg.Sink,
		display:  cfg.Display,
		commands: cfg.Commands,
		decoder:  cfg.Decoder,
		actions:  cfg.Actions,
		tick:     cfg.Tick,
	}, nil
}

// Run drives the loop until the context is cancelled. The selected
// preset is rendered once up front, like the firmware did at power-on.
func (c *Controller) Run(ctx context.Context) error {
	c.showCurrent(ctx)

	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			c.step(ctx, now)
		}
	}
}

// step is one loop iteration. The order is a fixed policy, not an
// accident of code layout: serial command first, then the animation
// tick, and remote input only when no ramp is running.
func (c *Controller) step(ctx context.Context, now time.Time) {
	if c.commands != nil {
		if line, ok := c.commands.Poll(); ok {
			c.handleLine(ctx, line, now)
		}
	}

	if c.ramp.Active() {
		c.tickRamp(ctx, now)
		return
	}

	if code, ok := c.decoder.Poll(); ok {
		c.handleRemote(ctx, code)
	}
}

func (c *Controller) handleLine(ctx context.Context, line string, now time.Time) {
	req, err := command.Parse(line)
	if err != nil {
		// Dropped, never fatal; the sender resends if it cares.
		c.log.Warn("command rejected", "line", line, "err", err)
		return
	}
	c.arm(ctx, req, now)
}

// arm starts a ramp toward the currently selected preset's color. The
// color is copied now; changing the selection later does not steer an
// in-flight run. Arming while running restarts from dark.
func (c *Controller) arm(ctx context.Context, req command.StartRequest, now time.Time) {
	p := c.sel.Current()
	c.ramp.Arm(now, p.Color, req.Duration)
	c.run.preset = p
	c.run.id = uuid.NewString()

	c.apply(ctx, fixture.Off)
	c.display.Render(p.Name, "sunrise...")
	c.log.Info("sunrise armed",
		"run", c.run.id, "preset", p.Name, "target", p.Color, "duration", req.Duration)
}

func (c *Controller) tickRamp(ctx context.Context, now time.Time) {
	color, done := c.ramp.Tick(now)
	c.apply(ctx, color)
	if done {
		c.display.Render(c.run.preset.Name, "risen")
		c.log.Info("sunrise complete", "run", c.run.id, "preset", c.run.preset.Name, "color", color)
	}
}

func (c *Controller) handleRemote(ctx context.Context, code remote.Code) {
	switch c.actions[code] {
	case remote.ActionSelectUp:
		c.selectDelta(ctx, +1)
	case remote.ActionSelectDown:
		c.selectDelta(ctx, -1)
	default:
		c.log.Info("unrecognized remote code", "code", code)
	}
	c.decoder.Resume()
}

// selectDelta moves the selection and shows the result. Any selection
// change cancels a running ramp without emitting its target color.
func (c *Controller) selectDelta(ctx context.Context, delta int) {
	if c.ramp.Active() {
		c.ramp.Cancel()
		c.log.Info("sunrise cancelled", "run", c.run.id, "preset", c.run.preset.Name)
	}
	p := c.sel.Select(delta)
	c.log.Info("preset selected", "preset", p.Name, "index", c.sel.Index())
	c.show(ctx, p)
}

// showCurrent renders the selected preset statically. Like selectDelta
// it cancels any running ramp.
func (c *Controller) showCurrent(ctx context.Context) {
	if c.ramp.Active() {
		c.ramp.Cancel()
		c.log.Info("sunrise cancelled", "run", c.run.id, "preset", c.run.preset.Name)
	}
	c.show(ctx, c.sel.Current())
}

func (c *Controller) show(ctx context.Context, p preset.Preset) {
	c.display.Render(p.Name, p.Color.String())
	c.apply(ctx, p.Color)
}

func (c *Controller) apply(ctx context.Context, color fixture.RGB) {
	if err := c.sink.Apply(ctx, color); err != nil {
		c.log.Warn("color write failed", "color", color, "err", err)
	}
}
