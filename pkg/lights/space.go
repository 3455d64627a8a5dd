package lights

import (
	"fmt"
	"math"
)

// Space is the syntactic algorithm space for one domain: all (3K)^D
// decision vectors. The cardinality is known exactly before enumeration
// begins, which lets callers split the space into disjoint contiguous
// index ranges without materializing algorithms.
type Space struct {
	domain *Domain
	base   uint64 // decisions per slot: 3 moves x K colors
	size   uint64
}

// NewSpace builds the algorithm space over the domain. Spaces whose
// cardinality does not fit in 64 bits are rejected; they could not be
// exhaustively enumerated anyway.
func NewSpace(domain *Domain) (*Space, error) {
	base := uint64(3 * domain.NumColors)
	size := uint64(1)
	for i := 0; i < domain.Size(); i++ {
		if size > math.MaxUint64/base {
			return nil, fmt.Errorf("algorithm space too large: %d^%d overflows", base, domain.Size())
		}
		size *= base
	}
	return &Space{domain: domain, base: base, size: size}, nil
}

// Domain returns the observation domain the space enumerates over.
func (s *Space) Domain() *Domain { return s.domain }

// Size is the exact cardinality of the space.
func (s *Space) Size() uint64 { return s.size }

// digit maps a decision digit in [0, 3K) to its action, in decision
// order: all colors of STAY, then TO_HALF, then TO_OTHER.
func (s *Space) digit(d uint64) Action {
	k := uint64(s.domain.NumColors)
	return Action{Move: Moves[d/k], NewColor: Color(d % k)}
}

// At unranks index idx into its algorithm. Enumeration is an odometer
// over observation slots with slot 0 as the least significant digit.
func (s *Space) At(idx uint64) *Algorithm {
	if idx >= s.size {
		panic(fmt.Sprintf("algorithm index out of range: %d (space has %d)", idx, s.size))
	}
	actions := make([]Action, s.domain.Size())
	for i := range actions {
		actions[i] = s.digit(idx % s.base)
		idx /= s.base
	}
	return &Algorithm{domain: s.domain, actions: actions}
}

// Range is a half-open slice [Lo, Hi) of the enumeration.
type Range struct {
	Lo, Hi uint64
}

// Len is the number of algorithms in the range.
func (r Range) Len() uint64 { return r.Hi - r.Lo }

// Partition splits the space into p disjoint contiguous sub-ranges
// whose concatenation is the full enumeration. The first size%p ranges
// hold one extra element; empty trailing ranges appear when p exceeds
// the cardinality.
func (s *Space) Partition(p int) []Range {
	if p < 1 {
		p = 1
	}
	n := uint64(p)
	per := s.size / n
	extra := s.size % n
	ranges := make([]Range, p)
	lo := uint64(0)
	for i := range ranges {
		hi := lo + per
		if uint64(i) < extra {
			hi++
		}
		ranges[i] = Range{Lo: lo, Hi: hi}
		lo = hi
	}
	return ranges
}

// Cursor iterates one contiguous range of the enumeration in order.
// A cursor is single-use and not restartable; callers that need to
// re-traverse create a new one.
type Cursor struct {
	space   *Space
	next    uint64
	hi      uint64
	odo     []uint64 // decision digits, slot 0 least significant
	started bool
}

// Cursor creates an iterator over [lo, hi) of the enumeration.
func (s *Space) Cursor(r Range) *Cursor {
	if r.Hi > s.size || r.Lo > r.Hi {
		panic(fmt.Sprintf("invalid range [%d, %d) for space of %d", r.Lo, r.Hi, s.size))
	}
	return &Cursor{space: s, next: r.Lo, hi: r.Hi}
}

// Index returns the enumeration index of the algorithm the next call to
// Next will produce.
func (c *Cursor) Index() uint64 { return c.next }

// Next produces the next algorithm of the range, or false when the
// range is exhausted. The returned algorithm is freshly allocated and
// owned by the caller.
func (c *Cursor) Next() (*Algorithm, bool) {
	if c.next >= c.hi {
		return nil, false
	}
	if !c.started {
		c.odo = make([]uint64, c.space.domain.Size())
		rest := c.next
		for i := range c.odo {
			c.odo[i] = rest % c.space.base
			rest /= c.space.base
		}
		c.started = true
	} else {
		for i := range c.odo {
			c.odo[i]++
			if c.odo[i] < c.space.base {
				break
			}
			c.odo[i] = 0
		}
	}

	actions := make([]Action, len(c.odo))
	for i, d := range c.odo {
		actions[i] = c.space.digit(d)
	}
	c.next++
	return &Algorithm{domain: c.space.domain, actions: actions}, true
}
