// Package filter composes the static pruning predicates applied to
// candidate algorithms before verification. Predicates are ANDed in
// order with short-circuit on the first drop, and the chain keeps
// per-stage survivor counts so a census can report how much each stage
// prunes.
package filter

import (
	"sync/atomic"

	"github.com/xdefago/synth-light/pkg/lights"
)

// Predicate is one named pruning stage. Keep reports whether the
// algorithm survives the stage.
type Predicate struct {
	Name string
	Keep func(*lights.Algorithm) bool
}

// Options selects the optional stages of the standard chain.
type Options struct {
	// RetainRule enables Viglietta's retain rule. Only meaningful for
	// full-lights models; elsewhere the predicate passes everything.
	RetainRule bool
	// WeakFilter drops algorithms that leave some color unused, since
	// those duplicate a smaller-color-count search.
	WeakFilter bool
	// StrictMoves requires a STAY, a TO_HALF and a TO_OTHER among the
	// non-gathered rules. Algorithms missing one cannot gather under
	// the stronger schedulers, but the requirement is unsatisfiable in
	// tiny models, so it is opt-in.
	StrictMoves bool
	// Census swaps the exact orbit check for the approximate
	// pseudo-canonical stage. Counting runs use it to reproduce the
	// generator's historical census; verification runs keep the exact
	// check.
	Census bool
}

// Chain is an ordered list of predicates with atomic survivor
// counters, safe for concurrent use by the worker pool.
type Chain struct {
	stages []Predicate
	seen   atomic.Uint64
	counts []atomic.Uint64
}

// New builds a chain from explicit predicates.
func New(stages ...Predicate) *Chain {
	return &Chain{
		stages: stages,
		counts: make([]atomic.Uint64, len(stages)),
	}
}

// Standard builds the pruning chain for a run: viability first, then
// the optional stages, then canonicalization. The orbit check goes
// last so the cheaper predicates prune before the K! permutation
// sweep.
func Standard(opts Options) *Chain {
	stages := []Predicate{
		{Name: "viable", Keep: (*lights.Algorithm).AllGatheredAreStay},
	}
	if opts.WeakFilter {
		stages = append(stages,
			Predicate{Name: "colors-used", Keep: (*lights.Algorithm).AllColorsUsedInActions},
			Predicate{Name: "colors-used-moving", Keep: (*lights.Algorithm).AllColorsUsedInNonGathered},
		)
	}
	if opts.StrictMoves {
		stages = append(stages,
			Predicate{Name: "some-stay", Keep: (*lights.Algorithm).SomeNonGatheredIsStay},
			Predicate{Name: "some-half", Keep: (*lights.Algorithm).SomeNonGatheredIsToHalf},
			Predicate{Name: "some-other", Keep: (*lights.Algorithm).SomeNonGatheredIsToOther},
		)
	}
	if opts.RetainRule {
		stages = append(stages, Predicate{Name: "retain-rule", Keep: (*lights.Algorithm).RetainsColorIffOtherDiffers})
	}
	if opts.Census {
		stages = append(stages, Predicate{Name: "pseudo-canonical", Keep: (*lights.Algorithm).IsPseudoCanonical})
	} else {
		stages = append(stages, Predicate{Name: "canonical", Keep: (*lights.Algorithm).IsOrbitRepresentative})
	}
	return New(stages...)
}

// Keep runs the algorithm through every stage in order, short-circuits
// on the first drop, and updates the counters.
func (c *Chain) Keep(a *lights.Algorithm) bool {
	c.seen.Add(1)
	for i, stage := range c.stages {
		if !stage.Keep(a) {
			return false
		}
		c.counts[i].Add(1)
	}
	return true
}

// StageCount is the census entry for one stage: how many algorithms
// survived it (and every stage before it).
type StageCount struct {
	Name      string
	Survivors uint64
}

// Seen is the number of algorithms offered to the chain.
func (c *Chain) Seen() uint64 { return c.seen.Load() }

// Counts reports the per-stage survivor census in chain order.
func (c *Chain) Counts() []StageCount {
	out := make([]StageCount, len(c.stages))
	for i, stage := range c.stages {
		out[i] = StageCount{Name: stage.Name, Survivors: c.counts[i].Load()}
	}
	return out
}
