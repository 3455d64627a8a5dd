package lights

// Static structural predicates over algorithms. Each predicate is pure
// and read-only; the orchestrator composes them into a filter chain and
// drops candidates before any model checking happens.

// AllGatheredAreStay reports whether every gathered observation maps to
// a STAY. Once gathered, any move would instantly break gathering, so
// no algorithm violating this can solve rendezvous. Class-L domains
// have no gathered observations and pass trivially.
func (a *Algorithm) AllGatheredAreStay() bool {
	for i, g := range a.domain.Guards {
		if g.IsGathered() && a.actions[i].Move != Stay {
			return false
		}
	}
	return true
}

// SomeNonGatheredIsStay reports whether some non-gathered observation
// maps to a STAY. Without one, gathering is unachievable under a
// centralized scheduler.
func (a *Algorithm) SomeNonGatheredIsStay() bool {
	return a.someNonGathered(Stay)
}

// SomeNonGatheredIsToHalf reports whether some non-gathered observation
// maps to a TO_HALF. Without one, gathering is unachievable under an
// FSYNC scheduler.
func (a *Algorithm) SomeNonGatheredIsToHalf() bool {
	return a.someNonGathered(ToHalf)
}

// SomeNonGatheredIsToOther reports whether some non-gathered
// observation maps to a TO_OTHER.
func (a *Algorithm) SomeNonGatheredIsToOther() bool {
	return a.someNonGathered(ToOther)
}

func (a *Algorithm) someNonGathered(m Move) bool {
	for i, g := range a.domain.Guards {
		if !g.IsGathered() && a.actions[i].Move == m {
			return true
		}
	}
	return false
}

// AllColorsUsedInActions reports whether every color of the model is
// written by some action. An algorithm that never writes a color is a
// duplicate of a smaller-color-count search.
func (a *Algorithm) AllColorsUsedInActions() bool {
	var used uint
	for _, act := range a.actions {
		used |= 1 << act.NewColor
	}
	return used == 1<<uint(a.domain.NumColors)-1
}

// AllColorsUsedInNonGathered reports whether every color is written by
// some non-gathered action.
func (a *Algorithm) AllColorsUsedInNonGathered() bool {
	var used uint
	for i, g := range a.domain.Guards {
		if !g.IsGathered() {
			used |= 1 << a.actions[i].NewColor
		}
	}
	return used == 1<<uint(a.domain.NumColors)-1
}

// RetainsColorIffOtherDiffers checks Viglietta's rule: a robot retains
// its color exactly when it sees the other robot set to a different
// color. The rule only constrains observations carrying both colors;
// Internal and External observations pass unconditionally.
func (a *Algorithm) RetainsColorIffOtherDiffers() bool {
	for i, g := range a.domain.Guards {
		if !g.Kind.HasOwnColor() || !g.Kind.HasOtherColor() {
			continue
		}
		if g.SameColors() {
			if a.actions[i].NewColor == g.Me {
				return false
			}
		} else {
			if a.actions[i].NewColor != g.Me {
				return false
			}
		}
	}
	return true
}

// IsPseudoCanonical is a cheap approximation of orbit
// representativeness: among non-gathered observations with equal
// colors, moves must be non-decreasing in decision order. It keeps some
// non-representatives and, outside the two-color class-L case, can
// reject a representative, so the verification pipeline uses the exact
// IsOrbitRepresentative instead. The census command reports it as its
// own pruning stage.
func (a *Algorithm) IsPseudoCanonical() bool {
	ref := Stay
	for i, g := range a.domain.Guards {
		if g.IsGathered() || !g.SameColors() {
			continue
		}
		mv := a.actions[i].Move
		if mv < ref {
			return false
		}
		ref = mv
	}
	return true
}
