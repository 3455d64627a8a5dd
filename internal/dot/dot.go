// Package dot renders an algorithm's color-transition graph as
// Graphviz dot. Nodes are light colors; each rule draws an edge from
// the colors a robot may hold when the rule fires to the color it
// writes, labeled with the observed other color, a G marker for
// gathered observations, and the movement.
package dot

import (
	"fmt"
	"strings"

	"github.com/xdefago/synth-light/pkg/lights"
)

// movement is the short edge-label form of a move.
func movement(m lights.Move) string {
	switch m {
	case lights.Stay:
		return "Stay"
	case lights.ToHalf:
		return "Half"
	case lights.ToOther:
		return "Other"
	}
	return m.String()
}

// edgeLabel renders the label of one rule: the other robot's color in
// parentheses when observable, G when the observation is gathered, and
// the movement. Class-L observations carry no gathered marker.
func edgeLabel(g lights.Guard, a lights.Action) string {
	gathered := ""
	if g.IsGathered() {
		gathered = "G"
	}
	if g.Kind.HasOtherColor() {
		return fmt.Sprintf("(%s%s):%s", g.Other, gathered, movement(a.Move))
	}
	if gathered != "" {
		return fmt.Sprintf("%s:%s", gathered, movement(a.Move))
	}
	return movement(a.Move)
}

// Render produces the dot source of the algorithm's transition graph.
func Render(algo *lights.Algorithm) string {
	domain := algo.Domain()

	title := fmt.Sprintf("%s %d", domain.Kind, domain.NumColors)
	if domain.ClassL {
		title += " L"
	}

	var sb strings.Builder
	sb.WriteString("digraph {\n")
	sb.WriteString("  node [style=filled, color=lightgrey];\n")
	sb.WriteString(fmt.Sprintf("  graph [label=\"%s\\n%s\", fontname=\"monospace\"];\n", title, algo.Code()))
	sb.WriteString("\n")

	for i, g := range domain.Guards {
		action := algo.Action(i)
		label := edgeLabel(g, action)

		// without an own-color component, the rule can fire whatever
		// color the robot holds
		from := make([]lights.Color, 0, domain.NumColors)
		if g.Kind.HasOwnColor() {
			from = append(from, g.Me)
		} else {
			for c := 0; c < domain.NumColors; c++ {
				from = append(from, lights.Color(c))
			}
		}
		for _, c := range from {
			sb.WriteString(fmt.Sprintf("  %s -> %s [label=\"%s\"];\n", c, action.NewColor, label))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}
