package dot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xdefago/synth-light/pkg/lights"
)

func parseAlgo(t *testing.T, kind lights.ModelKind, colors int, classL bool, code string) *lights.Algorithm {
	t.Helper()
	algo, err := lights.ParseAlgorithm(kind, colors, classL, code)
	require.NoError(t, err)
	return algo
}

func TestRenderFull2(t *testing.T) {
	algo := parseAlgo(t, lights.Full, 2, false,
		"00s_01s_10s_11s_00d_01d_10d_11d__S0_S0_S1_S1_S1_S0_O1_H0")
	out := Render(algo)

	assert.True(t, strings.HasPrefix(out, "digraph {"))
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, "node [style=filled, color=lightgrey];")
	assert.Contains(t, out, `label="full 2\n00s_01s_10s_11s_00d_01d_10d_11d__S0_S0_S1_S1_S1_S0_O1_H0"`)

	// gathered observations carry a G marker
	assert.Contains(t, out, `0 -> 0 [label="(0G):Stay"];`)
	// the rule on 10d moves to the other robot and keeps color 1
	assert.Contains(t, out, `1 -> 1 [label="(0):Other"];`)
	// the rule on 11d goes back to black at the midpoint
	assert.Contains(t, out, `1 -> 0 [label="(1):Half"];`)

	// one edge per rule: full lights pin the source color
	assert.Equal(t, 8, strings.Count(out, "->"))
}

func TestRenderExternalFansOut(t *testing.T) {
	// without an own-color component every color is a possible source,
	// so each rule draws one edge per color
	algo := parseAlgo(t, lights.External, 4, true, "0_1_2_3__H1_S2_O3_S0")
	out := Render(algo)

	assert.Contains(t, out, `label="external 4 L\n0_1_2_3__H1_S2_O3_S0"`)
	assert.Equal(t, 16, strings.Count(out, "->"))
	for _, edge := range []string{
		`0 -> 1 [label="(0):Half"];`,
		`3 -> 1 [label="(0):Half"];`,
		`0 -> 2 [label="(1):Stay"];`,
		`2 -> 0 [label="(3):Stay"];`,
	} {
		assert.Contains(t, out, edge)
	}

	// class L has no gathered observations, so no G markers
	assert.NotContains(t, out, "G)")
}

func TestRenderInternalLabels(t *testing.T) {
	// internal observations cannot see the other color: labels carry
	// only the gathered marker and the movement
	algo := parseAlgo(t, lights.Internal, 2, false, "0s_1s_0d_1d__S0_S1_H1_O0")
	out := Render(algo)

	assert.Contains(t, out, `0 -> 0 [label="G:Stay"];`)
	assert.Contains(t, out, `0 -> 1 [label="Half"];`)
	assert.Contains(t, out, `1 -> 0 [label="Other"];`)
	assert.Equal(t, 4, strings.Count(out, "->"))
}
