package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abgraph/internal/apperr"
)

func TestParseSplitsOnFirstEquals(t *testing.T) {
	s := Parse([]string{"--cycles=10", "--url=http://x/?a=b", "--flag"})

	v, ok := s.Get("cycles")
	assert.True(t, ok)
	assert.Equal(t, "10", v)

	v, ok = s.Get("url")
	assert.True(t, ok)
	assert.Equal(t, "http://x/?a=b", v, "only the first = splits")

	v, ok = s.Get("flag")
	assert.True(t, ok)
	assert.Equal(t, "", v, "bare token yields empty value")
}

func TestParseStripsLeadingDashes(t *testing.T) {
	s := Parse([]string{"-cycles=1", "kind=url"})

	_, ok := s.Get("cycles")
	assert.True(t, ok)
	_, ok = s.Get("kind")
	assert.True(t, ok)
}

func TestPopRemoves(t *testing.T) {
	s := Parse([]string{"--cycles=10"})

	v, ok := s.Pop("cycles")
	require.True(t, ok)
	assert.Equal(t, "10", v)

	_, ok = s.Get("cycles")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestPopBoolAcceptedValues(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"y", true}, {"Y", true}, {"yes", true}, {"YES", true}, {"1", true},
		{"n", false}, {"N", false}, {"no", false}, {"No", false}, {"0", false},
	}
	for _, tc := range cases {
		s := Parse([]string{"--composer=" + tc.raw})
		v, present, err := s.PopBool("composer")
		require.NoError(t, err, tc.raw)
		assert.True(t, present)
		assert.Equal(t, tc.want, v, tc.raw)
	}
}

func TestPopBoolRejectsAnythingElse(t *testing.T) {
	for _, raw := range []string{"true", "false", "maybe", "2", ""} {
		s := Parse([]string{"--composer=" + raw})
		_, present, err := s.PopBool("composer")
		assert.True(t, present)
		require.Error(t, err, raw)

		var invalid *apperr.InvalidOptionError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "composer", invalid.Option)
	}
}

func TestPopBoolAbsent(t *testing.T) {
	s := Parse(nil)
	_, present, err := s.PopBool("composer")
	assert.NoError(t, err)
	assert.False(t, present)
}

func TestRemainingIsSorted(t *testing.T) {
	s := Parse([]string{"--zeta=1", "--alpha=2", "--mid=3"})
	s.Pop("mid")
	assert.Equal(t, []string{"alpha", "zeta"}, s.Remaining())
}
