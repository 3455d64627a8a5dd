package lights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	c, err := ParseColor("3")
	require.NoError(t, err)
	assert.Equal(t, Color(3), c)

	_, err = ParseColor("x")
	assert.Error(t, err)

	_, err = ParseColor("12")
	assert.Error(t, err)
}

func TestMoveCodes(t *testing.T) {
	assert.Equal(t, "S", Stay.Code())
	assert.Equal(t, "H", ToHalf.Code())
	assert.Equal(t, "O", ToOther.Code())

	assert.Equal(t, "STAY", Stay.String())
	assert.Equal(t, "TO_HALF", ToHalf.String())
	assert.Equal(t, "TO_OTHER", ToOther.String())
}

func TestParseMove(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Move
	}{
		{"S", Stay},
		{"stay", Stay},
		{"H", ToHalf},
		{"TO_HALF", ToHalf},
		{"o", ToOther},
		{"ToOther", ToOther},
	} {
		mv, err := ParseMove(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, mv, "input %q", tc.in)
	}

	_, err := ParseMove("M")
	assert.Error(t, err)
}

func TestParseDistance(t *testing.T) {
	d, err := ParseDistance("s")
	require.NoError(t, err)
	assert.Equal(t, Same, d)

	d, err = ParseDistance("d")
	require.NoError(t, err)
	assert.Equal(t, Near, d)

	_, err = ParseDistance("x")
	assert.Error(t, err)
}

func TestParseModelKind(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want ModelKind
	}{
		{"full", Full},
		{"F", Full},
		{"internal", Internal},
		{"I", Internal},
		{"external", External},
		{"E", External},
	} {
		k, err := ParseModelKind(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, k, "input %q", tc.in)
	}

	_, err := ParseModelKind("partial")
	assert.Error(t, err)
}

func TestModelKindComponents(t *testing.T) {
	assert.True(t, Full.HasOwnColor())
	assert.True(t, Full.HasOtherColor())
	assert.True(t, Internal.HasOwnColor())
	assert.False(t, Internal.HasOtherColor())
	assert.False(t, External.HasOwnColor())
	assert.True(t, External.HasOtherColor())
}

func TestSchedulerSymbol(t *testing.T) {
	assert.Equal(t, "ASYNC", Async.Symbol())
	assert.Equal(t, "ASYNC_LC_ATOMIC", AsyncLCAtomic.Symbol())
	assert.Equal(t, "CENTRALIZED", Centralized.Symbol())
}

func TestParseScheduler(t *testing.T) {
	s, err := ParseScheduler("async-move-regular")
	require.NoError(t, err)
	assert.Equal(t, AsyncMoveRegular, s)

	// symbol form is accepted too
	s, err = ParseScheduler("ASYNC_MOVE_REGULAR")
	require.NoError(t, err)
	assert.Equal(t, AsyncMoveRegular, s)

	_, err = ParseScheduler("round-robin")
	assert.Error(t, err)
}

func TestAllSchedulersValid(t *testing.T) {
	for _, s := range Schedulers {
		assert.True(t, s.Valid(), "scheduler %s", s)
		parsed, err := ParseScheduler(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
}
