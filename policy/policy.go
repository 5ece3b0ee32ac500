// Package policy decides which transition fires when several are enabled.
package policy

import (
	"fmt"
	"math/rand"

	"github.com/petriflow/petrisim"
)

// Kind names the selection modes a run can be configured with.
type Kind int

const (
	Deterministic Kind = iota
	Stochastic
	Interactive
)

func (k Kind) String() string {
	switch k {
	case Deterministic:
		return "deterministic"
	case Stochastic:
		return "stochastic"
	case Interactive:
		return "interactive"
	default:
		return "unknown"
	}
}

// ParseKind resolves a mode name from configuration.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "deterministic", "":
		return Deterministic, nil
	case "stochastic":
		return Stochastic, nil
	case "interactive":
		return Interactive, nil
	default:
		return Deterministic, fmt.Errorf("unknown selection mode %q", s)
	}
}

// Policy selects one transition from a non-empty enabled set. Select is
// never called with an empty set.
type Policy interface {
	Kind() Kind
	Select(enabled []*petrisim.Transition) *petrisim.Transition
}

// First picks the first transition in the enabled set's declaration order.
// Same enabled set, same choice, always.
type First struct{}

func (First) Kind() Kind { return Deterministic }

func (First) Select(enabled []*petrisim.Transition) *petrisim.Transition {
	return enabled[0]
}

// Source yields uniform picks. Implementations must be pure functions of
// their seed and call count so that a seed reproduces a run exactly.
type Source interface {
	Intn(n int) int
}

// NewSource returns a Source with an explicit seed. Ambient nondeterminism
// is never used for selection.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// Random picks uniformly among the enabled set using an explicit Source.
type Random struct {
	Src Source
}

func (Random) Kind() Kind { return Stochastic }

func (r Random) Select(enabled []*petrisim.Transition) *petrisim.Transition {
	return enabled[r.Src.Intn(len(enabled))]
}

// Await defers selection to an external chooser. The controller suspends
// when this policy is configured and resumes on an explicit choice.
type Await struct{}

func (Await) Kind() Kind { return Interactive }

func (Await) Select(enabled []*petrisim.Transition) *petrisim.Transition {
	return nil
}
