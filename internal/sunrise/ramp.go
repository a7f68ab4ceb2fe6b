// Package sunrise implements the timed color ramp: a linear fade from
// dark to a target color over a fixed duration.
package sunrise

import (
	"time"

	"planetrise/internal/fixture"
)

// Ramp is the animation state machine. It is idle until armed, runs
// until elapsed time reaches the duration, then returns to idle. Time is
// passed in by the caller so runs can be simulated in tests.
//
// Ramp carries no clock and performs no I/O; the controller owns both.
type Ramp struct {
	active   bool
	start    time.Time
	duration time.Duration
	target   fixture.RGB
}

// Arm starts a run toward target. Arming while a run is in progress
// restarts unconditionally; nothing from the previous run is kept.
func (r *Ramp) Arm(now time.Time, target fixture.RGB, duration time.Duration) {
	r.active = true
	r.start = now
	r.duration = duration
	r.target = target
}

func (r *Ramp) Active() bool {
	return r.active
}

// Target is only meaningful while the ramp is active.
func (r *Ramp) Target() fixture.RGB {
	return r.target
}

// Cancel stops the run without emitting the target color. The fixture is
// left at whatever the last tick produced.
func (r *Ramp) Cancel() {
	r.active = false
}

// Tick evaluates the run at the given time and returns the color to
// apply. done is true exactly once per run, on the tick where elapsed
// time reaches the duration; that tick yields the target color exactly
// and the ramp returns to idle. A zero duration completes on the first
// tick; the check precedes the division.
func (r *Ramp) Tick(now time.Time) (c fixture.RGB, done bool) {
	if !r.active {
		return fixture.Off, false
	}

	elapsed := now.Sub(r.start)
	if elapsed < 0 {
		elapsed = 0
	}
	if r.duration <= 0 || elapsed >= r.duration {
		r.active = false
		return r.target, true
	}

	return fixture.RGB{
		R: scale(r.target.R, elapsed, r.duration),
		G: scale(r.target.G, elapsed, r.duration),
		B: scale(r.target.B, elapsed, r.duration),
	}, false
}

// scale computes floor(c * elapsed / total). All channels of a tick use
// the same progress; truncation matches the integer math of the fixture.
func scale(c uint8, elapsed, total time.Duration) uint8 {
	return uint8(int64(c) * elapsed.Nanoseconds() / total.Nanoseconds())
}
