package lights

// Canonicalization under color-permutation isomorphism. Two algorithms
// are equivalent when one is the image of the other under a permutation
// of the color set applied to every observation component and every
// written color. K <= 5 keeps Sym(K) at 120 elements, so the orbit is
// enumerated explicitly.

// Permutations enumerates Sym(k) as slices mapping color index to its
// image. The identity comes first. Generation picks each remaining
// element in turn, the same remains-list scheme as classic permutation
// generators.
func Permutations(k int) [][]Color {
	remains := make([]Color, k)
	for i := range remains {
		remains[i] = Color(i)
	}
	var out [][]Color
	var build func(prefix []Color, remains []Color)
	build = func(prefix []Color, remains []Color) {
		if len(remains) == 0 {
			perm := make([]Color, len(prefix))
			copy(perm, prefix)
			out = append(out, perm)
			return
		}
		for i, c := range remains {
			rest := make([]Color, 0, len(remains)-1)
			rest = append(rest, remains[:i]...)
			rest = append(rest, remains[i+1:]...)
			build(append(prefix, c), rest)
		}
	}
	build(make([]Color, 0, k), remains)
	return out
}

// permuteGuard maps the guard's color components through perm. The
// distance component is permutation-invariant.
func permuteGuard(g Guard, perm []Color) Guard {
	mapped := g
	if g.Kind.HasOwnColor() {
		mapped.Me = perm[g.Me]
	}
	if g.Kind.HasOtherColor() {
		mapped.Other = perm[g.Other]
	}
	return mapped
}

// Permute returns the image of the algorithm under the color
// permutation: the image decides at the mapped observation what the
// original decides at the observation, with the written color mapped.
// Mapped guards are re-indexed through the canonical observation order
// so the image shares the original's slot layout.
func (a *Algorithm) Permute(perm []Color) *Algorithm {
	actions := make([]Action, len(a.actions))
	for i, g := range a.domain.Guards {
		j := a.domain.Index(permuteGuard(g, perm))
		act := a.actions[i]
		actions[j] = Action{Move: act.Move, NewColor: perm[act.NewColor]}
	}
	return &Algorithm{domain: a.domain, actions: actions}
}

// lessActions orders decision vectors slot by slot from observation 0,
// each action in decision order (move, then color). The orbit minimum
// under this order is the representative.
func lessActions(a, b []Action) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i].less(b[i])
		}
	}
	return false
}

// IsOrbitRepresentative reports whether the algorithm is the minimum of
// its color-permutation orbit, i.e. the single survivor canonicalization
// keeps. K=1 collapses the orbit to the algorithm itself.
func (a *Algorithm) IsOrbitRepresentative() bool {
	if a.domain.NumColors == 1 {
		return true
	}
	for _, perm := range Permutations(a.domain.NumColors) {
		if lessActions(a.Permute(perm).actions, a.actions) {
			return false
		}
	}
	return true
}

// Canonicalize returns the representative of the algorithm's orbit: the
// image with the smallest decision vector over all color permutations.
// Equivalent algorithms canonicalize to the same representative
// regardless of which orbit member they are.
func (a *Algorithm) Canonicalize() *Algorithm {
	if a.domain.NumColors == 1 {
		return a
	}
	best := a
	for _, perm := range Permutations(a.domain.NumColors) {
		img := a.Permute(perm)
		if lessActions(img.actions, best.actions) {
			best = img
		}
	}
	return best
}
