package promela

import (
	"os"
	"path/filepath"
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

func TestFragmentFull2(t *testing.T) {
	algo := parseAlgo(t, lights.Full, 2, false,
		"00s_01s_10s_11s_00d_01d_10d_11d__S0_S0_S1_S1_S1_S0_O1_H0")
	frag := Fragment(algo)

	assert.Contains(t, frag, `#  define ALGO_NAME      "ALGO_SYNTH_00s_01s_10s_11s_00d_01d_10d_11d__S0_S0_S1_S1_S1_S0_O1_H0"`)
	assert.Contains(t, frag, "#  define Algorithm(o,c) Alg_Synth(o,c)")
	assert.Contains(t, frag, "#  define MAX_COLOR      (1)")
	assert.Contains(t, frag, "#  define NUM_COLORS     (2)")
	assert.Contains(t, frag, "inline Alg_Synth(obs, command)")

	// defaults precede the guarded chain
	assert.Contains(t, frag, "command.move      = STAY;")
	assert.Contains(t, frag, "command.new_color = obs.color.me;")

	// one branch per observation, gathered first
	assert.Contains(t, frag,
		":: (obs.color.me == 0) && (obs.color.other == 0) && (obs.same_position) -> command.move = STAY; command.new_color = 0;")
	assert.Contains(t, frag,
		":: (obs.color.me == 1) && (obs.color.other == 0) && ! (obs.same_position) -> command.move = TO_OTHER; command.new_color = 1;")
	assert.Contains(t, frag,
		":: (obs.color.me == 1) && (obs.color.other == 1) && ! (obs.same_position) -> command.move = TO_HALF; command.new_color = 0;")

	assert.Equal(t, 8, strings.Count(frag, "    :: "))
	assert.True(t, strings.HasPrefix(frag, "#ifndef __ALGORITHMS_PML__"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(frag), "#endif"))
}

func TestFragmentGuardShapes(t *testing.T) {
	// external observations test only the other color
	ext := parseAlgo(t, lights.External, 2, false, "0s_1s_0d_1d__S0_S0_H1_O0")
	frag := Fragment(ext)
	assert.Contains(t, frag, ":: (obs.color.other == 0) && (obs.same_position) ->")
	assert.NotContains(t, frag, "obs.color.me ==")

	// internal observations test only the own color
	intl := parseAlgo(t, lights.Internal, 2, false, "0s_1s_0d_1d__S0_S0_H1_O0")
	frag = Fragment(intl)
	assert.Contains(t, frag, ":: (obs.color.me == 0) && (obs.same_position) ->")
	assert.NotContains(t, frag, "obs.color.other ==")

	// class L never tests the position
	classL := parseAlgo(t, lights.External, 4, true, "0_1_2_3__H1_S2_O3_S0")
	frag = Fragment(classL)
	assert.NotContains(t, frag, "same_position")
	assert.Contains(t, frag, ":: (obs.color.other == 0) -> command.move = TO_HALF; command.new_color = 1;")
}

func TestInstallTemplates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, InstallTemplates(dir))

	names := TemplateNames()
	assert.Contains(t, names, "MainGathering.pml")
	assert.Contains(t, names, "Robots.pml")
	assert.Contains(t, names, "Schedulers.pml")
	assert.Contains(t, names, "Types.pml")

	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, "template %s", name)
		assert.True(t, strings.HasPrefix(strings.TrimSpace(string(content)), "#ifndef"), "template %s", name)
	}
}

func TestInstallTemplatesRejectsMissingDir(t *testing.T) {
	err := InstallTemplates(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestInstallAlgorithm(t *testing.T) {
	dir := t.TempDir()
	algo := parseAlgo(t, lights.Full, 2, false,
		"00s_01s_10s_11s_00d_01d_10d_11d__S0_S0_S1_S1_S1_S0_O1_H0")

	require.NoError(t, InstallAlgorithm(dir, algo))

	content, err := os.ReadFile(filepath.Join(dir, AlgorithmFile))
	require.NoError(t, err)
	assert.Equal(t, Fragment(algo), string(content))

	// a second candidate replaces the first
	other := parseAlgo(t, lights.Full, 2, false,
		"00s_01s_10s_11s_00d_01d_10d_11d__S0_S0_S0_S0_O0_O0_O0_O0")
	require.NoError(t, InstallAlgorithm(dir, other))
	content, err = os.ReadFile(filepath.Join(dir, AlgorithmFile))
	require.NoError(t, err)
	assert.Equal(t, Fragment(other), string(content))
}
