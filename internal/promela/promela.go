// Package promela materializes candidate algorithms as Promela model
// fragments and installs the static model templates the fragments plug
// into. The templates are fixed data files; the only generated text is
// the algorithm file, and the scheduler / movement / quasi-ss
// selections travel as preprocessor symbols on the spin command line.
package promela

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xdefago/synth-light/pkg/lights"
)

//go:embed templates/*.pml
var templates embed.FS

// AlgorithmFile is the name of the generated algorithm fragment inside
// an enclosure.
const AlgorithmFile = "Algorithms.pml"

// MainFile is the model entry point handed to spin.
const MainFile = "MainGathering.pml"

// TrailFile is the counterexample artifact pan leaves behind on a
// failed liveness claim.
const TrailFile = MainFile + ".trail"

// TemplateNames lists the static model files installed into every
// enclosure.
func TemplateNames() []string {
	entries, err := fs.ReadDir(templates, "templates")
	if err != nil {
		panic(fmt.Sprintf("embedded templates unreadable: %v", err))
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names
}

// InstallTemplates writes the static model templates into dir, which
// must already exist.
func InstallTemplates(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("enclosure not found: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("enclosure is not a directory: %s", dir)
	}
	for _, name := range TemplateNames() {
		content, err := templates.ReadFile("templates/" + name)
		if err != nil {
			return fmt.Errorf("failed to read embedded template %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
			return fmt.Errorf("failed to install template %s: %w", name, err)
		}
	}
	return nil
}

// branch renders one guarded alternative of the decision chain. The
// guard tests exactly the components present in the observation.
func branch(g lights.Guard, a lights.Action) string {
	var conds []string
	if g.Kind.HasOwnColor() {
		conds = append(conds, fmt.Sprintf("(obs.color.me == %d)", g.Me))
	}
	if g.Kind.HasOtherColor() {
		conds = append(conds, fmt.Sprintf("(obs.color.other == %d)", g.Other))
	}
	if !g.ClassL {
		if g.Dist == lights.Same {
			conds = append(conds, "(obs.same_position)")
		} else {
			conds = append(conds, "! (obs.same_position)")
		}
	}
	return fmt.Sprintf("    :: %s -> command.move = %s; command.new_color = %d;",
		strings.Join(conds, " && "), a.Move, a.NewColor)
}

// Fragment renders the algorithm as the Promela file the templates
// expect: a guarded name macro, the Algorithm hook bound to an inline,
// the color-count macros, and one branch per observation in canonical
// order.
func Fragment(algo *lights.Algorithm) string {
	domain := algo.Domain()
	rules := make([]string, domain.Size())
	for i, g := range domain.Guards {
		rules[i] = branch(g, algo.Action(i))
	}

	var b strings.Builder
	b.WriteString("#ifndef __ALGORITHMS_PML__\n")
	b.WriteString("#define __ALGORITHMS_PML__\n")
	fmt.Fprintf(&b, "#  define ALGO_NAME      \"ALGO_SYNTH_%s\"\n", algo.Code())
	b.WriteString("#  define Algorithm(o,c) Alg_Synth(o,c)\n")
	fmt.Fprintf(&b, "#  define MAX_COLOR      (%d)\n", domain.NumColors-1)
	fmt.Fprintf(&b, "#  define NUM_COLORS     (%d)\n", domain.NumColors)
	b.WriteString("inline Alg_Synth(obs, command)\n")
	b.WriteString("{\n")
	b.WriteString("    command.move      = STAY;\n")
	b.WriteString("    command.new_color = obs.color.me;\n")
	b.WriteString("    if\n")
	b.WriteString(strings.Join(rules, "\n"))
	b.WriteString("\n    fi;\n")
	b.WriteString("}\n")
	b.WriteString("#endif\n")
	return b.String()
}

// InstallAlgorithm writes the algorithm fragment into dir, replacing
// any previous candidate.
func InstallAlgorithm(dir string, algo *lights.Algorithm) error {
	return os.WriteFile(filepath.Join(dir, AlgorithmFile), []byte(Fragment(algo)), 0o644)
}
