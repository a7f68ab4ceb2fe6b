package sunrise

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"planetrise/internal/fixture"
)

var t0 = time.Unix(1000, 0)

func TestTickInterpolatesByTruncation(t *testing.T) {
	target := fixture.RGB{R: 200, G: 100, B: 51}
	r := &Ramp{}
	r.Arm(t0, target, 1000*time.Millisecond)

	cases := []struct {
		elapsed time.Duration
		want    fixture.RGB
	}{
		{0, fixture.RGB{}},
		{250 * time.Millisecond, fixture.RGB{R: 50, G: 25, B: 12}},  // 51/4 truncates
		{500 * time.Millisecond, fixture.RGB{R: 100, G: 50, B: 25}}, // 51/2 truncates
		{999 * time.Millisecond, fixture.RGB{R: 199, G: 99, B: 50}}, // just short of target
	}

	for _, tc := range cases {
		got, done := r.Tick(t0.Add(tc.elapsed))
		assert.False(t, done, "elapsed %v", tc.elapsed)
		assert.True(t, r.Active())
		assert.Equal(t, tc.want, got, "elapsed %v", tc.elapsed)
	}
}

func TestTickChannelsShareProgress(t *testing.T) {
	r := &Ramp{}
	r.Arm(t0, fixture.RGB{R: 10, G: 10, B: 10}, 3*time.Millisecond)

	got, done := r.Tick(t0.Add(1 * time.Millisecond))
	assert.False(t, done)
	assert.Equal(t, fixture.RGB{R: 3, G: 3, B: 3}, got, "floor(10/3) on every channel")
}

func TestCompletionEmitsExactTarget(t *testing.T) {
	target := fixture.RGB{R: 255, G: 160, B: 30}
	for _, over := range []time.Duration{0, 1 * time.Millisecond, time.Hour} {
		r := &Ramp{}
		r.Arm(t0, target, 1000*time.Millisecond)

		got, done := r.Tick(t0.Add(1000*time.Millisecond + over))
		assert.True(t, done, "over by %v", over)
		assert.Equal(t, target, got, "saturates at target, no overshoot")
		assert.False(t, r.Active())
	}
}

func TestZeroDurationCompletesOnFirstTick(t *testing.T) {
	target := fixture.RGB{R: 40, G: 80, B: 255}
	r := &Ramp{}
	r.Arm(t0, target, 0)

	got, done := r.Tick(t0)
	assert.True(t, done)
	assert.Equal(t, target, got)
	assert.False(t, r.Active())
}

func TestCancelStopsWithoutTarget(t *testing.T) {
	r := &Ramp{}
	r.Arm(t0, fixture.RGB{R: 255}, time.Second)

	_, _ = r.Tick(t0.Add(100 * time.Millisecond))
	r.Cancel()
	assert.False(t, r.Active())
}

func TestRearmRestarts(t *testing.T) {
	r := &Ramp{}
	r.Arm(t0, fixture.RGB{R: 100}, time.Second)
	_, _ = r.Tick(t0.Add(900 * time.Millisecond))

	t1 := t0.Add(950 * time.Millisecond)
	r.Arm(t1, fixture.RGB{B: 200}, 2*time.Second)

	got, done := r.Tick(t1.Add(time.Second))
	assert.False(t, done)
	assert.Equal(t, fixture.RGB{B: 100}, got, "old run's progress does not carry over")
}

func TestTickWhileIdle(t *testing.T) {
	r := &Ramp{}
	got, done := r.Tick(t0)
	assert.False(t, done)
	assert.Equal(t, fixture.Off, got)
}
