package lights

import (
	"fmt"
	"strings"
)

// Action is the decision an algorithm takes for one observation: a move
// and the color to set.
type Action struct {
	Move     Move
	NewColor Color
}

// Code returns the decision token, e.g. "S0" or "H1".
func (a Action) Code() string {
	return a.Move.Code() + a.NewColor.String()
}

// ParseAction parses a decision token.
func ParseAction(code string) (Action, error) {
	if len(code) != 2 {
		return Action{}, fmt.Errorf("wrong length for action: %q", code)
	}
	mv, err := ParseMove(code[0:1])
	if err != nil {
		return Action{}, fmt.Errorf("parsing move for action %q: %w", code, err)
	}
	col, err := ParseColor(code[1:2])
	if err != nil {
		return Action{}, fmt.Errorf("parsing color for action %q: %w", code, err)
	}
	return Action{Move: mv, NewColor: col}, nil
}

// less orders actions by move then color: the decision ordering used by
// the enumerator and by orbit canonicalization.
func (a Action) less(b Action) bool {
	if a.Move != b.Move {
		return a.Move < b.Move
	}
	return a.NewColor < b.NewColor
}

// Algorithm is a total deterministic transition function from the
// observation domain to decisions: one action per guard, indexed by
// observation index. The domain is shared and read-only.
type Algorithm struct {
	domain  *Domain
	actions []Action
}

// NewAlgorithm builds an algorithm over the given domain. The action
// slice is copied; it must have one entry per observation, and every
// new color must be below the domain's color count.
func NewAlgorithm(domain *Domain, actions []Action) (*Algorithm, error) {
	if len(actions) != domain.Size() {
		return nil, fmt.Errorf("wrong number of actions: %d (domain has %d observations)", len(actions), domain.Size())
	}
	for i, a := range actions {
		if a.Move == Miss {
			return nil, fmt.Errorf("action %d: MISS is not a valid algorithm move", i)
		}
		if int(a.NewColor) >= domain.NumColors {
			return nil, fmt.Errorf("action %d: color %d out of range (have %d colors)", i, a.NewColor, domain.NumColors)
		}
	}
	copied := make([]Action, len(actions))
	copy(copied, actions)
	return &Algorithm{domain: domain, actions: copied}, nil
}

// Domain returns the observation domain the algorithm is defined over.
func (a *Algorithm) Domain() *Domain { return a.domain }

// NumColors returns the color count of the algorithm's model.
func (a *Algorithm) NumColors() int { return a.domain.NumColors }

// Action returns the decision for observation index i.
func (a *Algorithm) Action(i int) Action { return a.actions[i] }

// Actions returns the full decision vector. The slice must not be
// modified by the caller.
func (a *Algorithm) Actions() []Action { return a.actions }

// Suffix returns the decision part of the canonical code, e.g.
// "S0_S0_S1_S1_S1_S0_O1_H0".
func (a *Algorithm) Suffix() string {
	tokens := make([]string, len(a.actions))
	for i, act := range a.actions {
		tokens[i] = act.Code()
	}
	return strings.Join(tokens, "_")
}

// Code returns the canonical code: header, "__", decision suffix. Two
// algorithms are equal exactly when their codes are equal.
func (a *Algorithm) Code() string {
	return a.domain.Header() + "__" + a.Suffix()
}

// Equal reports whether both algorithms make the same decisions over
// the same domain shape.
func (a *Algorithm) Equal(b *Algorithm) bool {
	if a.domain.Kind != b.domain.Kind || a.domain.ClassL != b.domain.ClassL || a.domain.NumColors != b.domain.NumColors {
		return false
	}
	for i := range a.actions {
		if a.actions[i] != b.actions[i] {
			return false
		}
	}
	return true
}

// ParseAlgorithm decodes a canonical code string against the domain of
// (kind, numColors, classL). The header must match the domain's
// canonical observation order token for token.
func ParseAlgorithm(kind ModelKind, numColors int, classL bool, code string) (*Algorithm, error) {
	domain, err := NewDomain(kind, numColors, classL)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(code, "__")
	switch len(parts) {
	case 2:
		// header and suffix present
	case 1:
		return nil, fmt.Errorf("guards are missing in code %q", code)
	default:
		return nil, fmt.Errorf("too many separators in code %q", code)
	}

	guardTokens := strings.Split(parts[0], "_")
	actionTokens := strings.Split(parts[1], "_")
	if len(guardTokens) != len(actionTokens) {
		return nil, fmt.Errorf("guards and actions have different lengths (%d guards, %d actions)", len(guardTokens), len(actionTokens))
	}
	if len(guardTokens) != domain.Size() {
		return nil, fmt.Errorf("number of guards (%d) does not match model (%d)", len(guardTokens), domain.Size())
	}

	actions := make([]Action, domain.Size())
	for i, tok := range guardTokens {
		g, err := ParseGuard(kind, classL, tok)
		if err != nil {
			return nil, err
		}
		if g != domain.Guards[i] {
			return nil, fmt.Errorf("guard %q at position %d: expected %q (canonical order)", tok, i, domain.Guards[i].Code())
		}
		act, err := ParseAction(actionTokens[i])
		if err != nil {
			return nil, err
		}
		if int(act.NewColor) >= numColors {
			return nil, fmt.Errorf("action %q at position %d: color out of range (have %d colors)", actionTokens[i], i, numColors)
		}
		actions[i] = act
	}
	return NewAlgorithm(domain, actions)
}
