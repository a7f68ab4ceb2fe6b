package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCode(t *testing.T) {
	cases := []struct {
		in   string
		want Code
	}{
		{"FF629D", 0xFF629D},
		{"0xFF629D", 0xFF629D},
		{"  ffa25d \r", 0xFFA25D},
	}
	for _, tc := range cases {
		got, err := ParseCode(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseCodeRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "zzz", "FF629D00FF", "-1"} {
		_, err := ParseCode(in)
		assert.Error(t, err, "input %q", in)
	}
}

type fakeLines struct {
	lines []string
}

func (f *fakeLines) Poll() (string, bool) {
	if len(f.lines) == 0 {
		return "", false
	}
	line := f.lines[0]
	f.lines = f.lines[1:]
	return line, true
}

func (f *fakeLines) Close() error { return nil }

func TestSerialDecoderLatchesUntilResume(t *testing.T) {
	d := NewSerialDecoder(&fakeLines{lines: []string{"FF629D", "FFA25D"}}, nil)

	code, ok := d.Poll()
	require.True(t, ok)
	assert.Equal(t, Code(0xFF629D), code)

	_, ok = d.Poll()
	assert.False(t, ok, "second code held back until Resume")

	d.Resume()
	code, ok = d.Poll()
	require.True(t, ok)
	assert.Equal(t, Code(0xFFA25D), code)
}

func TestSerialDecoderSkipsUnreadableLines(t *testing.T) {
	d := NewSerialDecoder(&fakeLines{lines: []string{"noise", "FF629D"}}, nil)

	_, ok := d.Poll()
	assert.False(t, ok, "noise line consumed, nothing delivered")

	code, ok := d.Poll()
	require.True(t, ok)
	assert.Equal(t, Code(0xFF629D), code)
}
