package lights

import (
	"fmt"
	"strings"
)

// Guard is one observation: the tuple of components a robot can inspect
// in a single activation, restricted by the model kind and the class-L
// flag. Class-L guards carry no distance component.
type Guard struct {
	Kind   ModelKind
	ClassL bool
	Me     Color    // valid unless Kind == External
	Other  Color    // valid unless Kind == Internal
	Dist   Distance // valid unless ClassL
}

// IsGathered reports whether the guard observes both robots at the same
// position. Class-L guards are position-oblivious and never gathered.
func (g Guard) IsGathered() bool {
	return !g.ClassL && g.Dist == Same
}

// SameColors reports whether the guard observes equal colors. Guards
// that cannot compare both colors trivially satisfy the predicate.
func (g Guard) SameColors() bool {
	if !g.Kind.HasOwnColor() || !g.Kind.HasOtherColor() {
		return true
	}
	return g.Me == g.Other
}

// Code returns the observation token used in canonical code headers:
// the visible color digit(s) followed by "s"/"d" unless class L.
func (g Guard) Code() string {
	var b strings.Builder
	if g.Kind.HasOwnColor() {
		b.WriteString(g.Me.String())
	}
	if g.Kind.HasOtherColor() {
		b.WriteString(g.Other.String())
	}
	if !g.ClassL {
		b.WriteString(g.Dist.Code())
	}
	return b.String()
}

// ParseGuard parses an observation token for the given model kind and
// class-L flag, rejecting tokens whose shape does not match.
func ParseGuard(kind ModelKind, classL bool, code string) (Guard, error) {
	want := 0
	if kind.HasOwnColor() {
		want++
	}
	if kind.HasOtherColor() {
		want++
	}
	if !classL {
		want++
	}
	if len(code) != want {
		return Guard{}, fmt.Errorf("wrong length for guard code %q (expected %d characters)", code, want)
	}

	g := Guard{Kind: kind, ClassL: classL}
	pos := 0
	if kind.HasOwnColor() {
		c, err := ParseColor(code[pos : pos+1])
		if err != nil {
			return Guard{}, fmt.Errorf("guard %q: %w", code, err)
		}
		g.Me = c
		pos++
	}
	if kind.HasOtherColor() {
		c, err := ParseColor(code[pos : pos+1])
		if err != nil {
			return Guard{}, fmt.Errorf("guard %q: %w", code, err)
		}
		g.Other = c
		pos++
	}
	if !classL {
		d, err := ParseDistance(code[pos : pos+1])
		if err != nil {
			return Guard{}, fmt.Errorf("guard %q: %w", code, err)
		}
		g.Dist = d
	}
	return g, nil
}

// Domain is the ordered observation domain for one model configuration.
// Guards are listed in canonical order: the gathered (Same) block first,
// then the non-gathered block, each block enumerating the observing
// robot's color before the other robot's color. Class-L domains have a
// single block. Observation indices are positions in Guards.
type Domain struct {
	Kind      ModelKind
	NumColors int
	ClassL    bool
	Guards    []Guard
}

// NewDomain builds the observation domain for (kind, numColors, classL).
func NewDomain(kind ModelKind, numColors int, classL bool) (*Domain, error) {
	if numColors < 1 || numColors > MaxColors {
		return nil, fmt.Errorf("number of colors out of range: %d (supported: 1..%d)", numColors, MaxColors)
	}

	d := &Domain{Kind: kind, NumColors: numColors, ClassL: classL}
	dists := []Distance{Same, Near}
	if classL {
		// single pass; class-L guards carry no distance component
		dists = dists[:1]
	}
	for _, dist := range dists {
		switch kind {
		case Full:
			for me := 0; me < numColors; me++ {
				for other := 0; other < numColors; other++ {
					d.Guards = append(d.Guards, Guard{Kind: kind, ClassL: classL, Me: Color(me), Other: Color(other), Dist: dist})
				}
			}
		case Internal:
			for me := 0; me < numColors; me++ {
				d.Guards = append(d.Guards, Guard{Kind: kind, ClassL: classL, Me: Color(me), Dist: dist})
			}
		case External:
			for other := 0; other < numColors; other++ {
				d.Guards = append(d.Guards, Guard{Kind: kind, ClassL: classL, Other: Color(other), Dist: dist})
			}
		default:
			return nil, fmt.Errorf("invalid model kind: %d", int(kind))
		}
	}
	return d, nil
}

// Size is the number of observations in the domain.
func (d *Domain) Size() int { return len(d.Guards) }

// Header is the fixed observation-index header of canonical codes for
// this domain, e.g. "00s_01s_10s_11s_00d_01d_10d_11d".
func (d *Domain) Header() string {
	tokens := make([]string, len(d.Guards))
	for i, g := range d.Guards {
		tokens[i] = g.Code()
	}
	return strings.Join(tokens, "_")
}

// Index returns the observation index of the given guard, or -1 if the
// guard does not belong to this domain.
func (d *Domain) Index(g Guard) int {
	for i, h := range d.Guards {
		if h == g {
			return i
		}
	}
	return -1
}
