package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planetrise/internal/fixture"
	"planetrise/internal/preset"
	"planetrise/internal/remote"
)

type recordingSink struct {
	colors []fixture.RGB
}

func (s *recordingSink) Apply(_ context.Context, c fixture.RGB) error {
	s.colors = append(s.colors, c)
	return nil
}

func (s *recordingSink) last() fixture.RGB {
	return s.colors[len(s.colors)-1]
}

type recordingDisplay struct {
	renders [][]string
}

func (d *recordingDisplay) Render(lines ...string) {
	d.renders = append(d.renders, lines)
}

type queueLines struct {
	lines []string
}

func (q *queueLines) Poll() (string, bool) {
	if len(q.lines) == 0 {
		return "", false
	}
	line := q.lines[0]
	q.lines = q.lines[1:]
	return line, true
}

type queueDecoder struct {
	codes   []remote.Code
	latched bool
	resumes int
}

func (d *queueDecoder) Poll() (remote.Code, bool) {
	if d.latched || len(d.codes) == 0 {
		return 0, false
	}
	code := d.codes[0]
	d.codes = d.codes[1:]
	d.latched = true
	return code, true
}

func (d *queueDecoder) Resume() {
	d.latched = false
	d.resumes++
}

func (d *queueDecoder) Close() error { return nil }

const (
	upCode   remote.Code = 0xFF629D
	downCode remote.Code = 0xFFA25D
)

type harness struct {
	ctrl    *Controller
	sink    *recordingSink
	disp    *recordingDisplay
	lines   *queueLines
	decoder *queueDecoder
	table   *preset.Table
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	table, err := preset.NewTable(preset.Defaults())
	require.NoError(t, err)

	h := &harness{
		sink:    &recordingSink{},
		disp:    &recordingDisplay{},
		lines:   &queueLines{},
		decoder: &queueDecoder{},
		table:   table,
	}
	h.ctrl, err = New(Config{
		Selection: preset.NewSelection(table),
		Sink:      h.sink,
		Display:   h.disp,
		Commands:  h.lines,
		Decoder:   h.decoder,
		Actions: map[remote.Code]remote.Action{
			upCode:   remote.ActionSelectUp,
			downCode: remote.ActionSelectDown,
		},
	})
	require.NoError(t, err)
	return h
}

var start = time.Unix(5000, 0)

func TestArmWritesDarkAndStartingMessage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.lines.lines = []string{"SUNRISE 1000"}
	h.ctrl.step(ctx, start)

	require.NotEmpty(t, h.sink.colors)
	assert.Equal(t, fixture.Off, h.sink.colors[0], "arming starts from dark")
	assert.True(t, h.ctrl.ramp.Active())

	require.NotEmpty(t, h.disp.renders)
	assert.Equal(t, h.table.At(0).Name, h.disp.renders[0][0])
	assert.Len(t, h.disp.renders[0], 2)
}

func TestMalformedLineChangesNothing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.lines.lines = []string{"SUNRISE oops"}
	h.ctrl.step(ctx, start)

	assert.False(t, h.ctrl.ramp.Active())
	assert.Empty(t, h.sink.colors)
	assert.Empty(t, h.disp.renders)
}

func TestRemoteIgnoredWhileRunning(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.lines.lines = []string{"SUNRISE 1000"}
	h.decoder.codes = []remote.Code{upCode}
	h.ctrl.step(ctx, start)

	// The ramp is active, so the loop never polled the decoder.
	assert.Len(t, h.decoder.codes, 1)
	assert.Equal(t, 0, h.ctrl.sel.Index())
}

func TestRemoteSelectsAndRenders(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.decoder.codes = []remote.Code{upCode, upCode, downCode}
	h.ctrl.step(ctx, start)
	assert.Equal(t, 1, h.ctrl.sel.Index())

	h.ctrl.step(ctx, start.Add(25*time.Millisecond))
	assert.Equal(t, 2, h.ctrl.sel.Index())

	h.ctrl.step(ctx, start.Add(50*time.Millisecond))
	assert.Equal(t, 1, h.ctrl.sel.Index())

	assert.Equal(t, 3, h.decoder.resumes, "decoder resumed after every code")
	assert.Equal(t, h.table.At(1).Color, h.sink.last())
}

func TestUnrecognizedCodeIsIgnoredButResumed(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.decoder.codes = []remote.Code{0xDEAD}
	h.ctrl.step(ctx, start)

	assert.Equal(t, 0, h.ctrl.sel.Index())
	assert.Empty(t, h.sink.colors)
	assert.Equal(t, 1, h.decoder.resumes)
}

func TestSelectionCancelsRunningRamp(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.lines.lines = []string{"SUNRISE 1000"}
	h.ctrl.step(ctx, start)
	h.ctrl.step(ctx, start.Add(500*time.Millisecond))
	midway := h.sink.last()

	h.ctrl.selectDelta(ctx, +1)
	assert.False(t, h.ctrl.ramp.Active())

	// The cancelled run's target was never written; the write after the
	// midway color is the newly selected preset, not the old target.
	assert.Equal(t, h.table.At(1).Color, h.sink.last())
	assert.NotEqual(t, h.table.At(0).Color, midway)
}

func TestRearmRestartsFromDark(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.lines.lines = []string{"SUNRISE 1000"}
	h.ctrl.step(ctx, start)
	h.ctrl.step(ctx, start.Add(800*time.Millisecond))

	h.lines.lines = []string{"SUNRISE 2000"}
	h.ctrl.step(ctx, start.Add(900*time.Millisecond))
	assert.True(t, h.ctrl.ramp.Active())

	// Step delivered the line first, then ticked the fresh ramp at
	// elapsed zero: dark from arming, dark again from the tick.
	n := len(h.sink.colors)
	assert.Equal(t, fixture.Off, h.sink.colors[n-1])
	assert.Equal(t, fixture.Off, h.sink.colors[n-2])
}

// Mirrors the composed scenario of the contract: two SelectUp events,
// then a one-second sunrise to the third preset.
func TestFullScenario(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.decoder.codes = []remote.Code{upCode, upCode}
	h.ctrl.step(ctx, start)
	h.ctrl.step(ctx, start.Add(25*time.Millisecond))
	require.Equal(t, 2, h.ctrl.sel.Index())

	armAt := start.Add(50 * time.Millisecond)
	h.lines.lines = []string{"SUNRISE 1000"}
	h.ctrl.step(ctx, armAt)

	target := h.table.At(2).Color
	h.ctrl.step(ctx, armAt.Add(500*time.Millisecond))
	want := fixture.RGB{R: target.R / 2, G: target.G / 2, B: target.B / 2}
	assert.Equal(t, want, h.sink.last())

	h.ctrl.step(ctx, armAt.Add(1000*time.Millisecond))
	assert.Equal(t, target, h.sink.last())
	assert.False(t, h.ctrl.ramp.Active())

	last := h.disp.renders[len(h.disp.renders)-1]
	assert.Equal(t, h.table.At(2).Name, last[0])
}

func TestZeroDurationCommand(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.lines.lines = []string{"SUNRISE 0"}
	h.ctrl.step(ctx, start)

	// Armed and completed within the same step.
	assert.False(t, h.ctrl.ramp.Active())
	assert.Equal(t, h.table.At(0).Color, h.sink.last())
}
