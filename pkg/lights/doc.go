// Package lights models deterministic algorithms for two luminous
// mobile robots and the finite spaces they are drawn from.
//
// # Overview
//
// A robot's program is a total function from observations to decisions.
// An observation (Guard) is the part of the system state a robot can
// inspect in one activation: its own light color, the other robot's
// color, and whether both robots occupy the same position — restricted
// by the model's light class (Full, Internal, External) and the class-L
// flag, which removes the position component. A decision (Action) is a
// movement (STAY, TO_HALF, TO_OTHER) plus the color to set.
//
// The package provides:
//
//   - the canonical observation domain for a model configuration,
//     with a deterministic observation order and the header string
//     naming it (Domain);
//   - algorithms as decision vectors with a round-trippable canonical
//     code (Algorithm, ParseAlgorithm);
//   - exhaustive lazy enumeration of the (3K)^D syntactic space, with
//     exact cardinality and contiguous range partitioning for parallel
//     search (Space, Cursor);
//   - static viability and redundancy predicates (filters.go);
//   - canonicalization under color-permutation isomorphism, keeping one
//     representative per orbit (canonical.go).
//
// # Canonical codes
//
// An algorithm is named by its header and decision suffix, for example
//
//	00s_01s_10s_11s_00d_01d_10d_11d__S0_S0_S1_S1_S1_S0_O1_H0
//
// The header is fixed by the model configuration; the suffix lists one
// decision token per observation. Encoding and decoding are bijective
// for a given header.
package lights
