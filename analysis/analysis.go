// Package analysis checks recorded histories against the net's state
// equation. It audits, it does not search: reachability and liveness
// proofs are out of its remit.
package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/petriflow/petrisim"
	"github.com/petriflow/petrisim/firing"
)

// Incidence returns the weighted incidence matrix C, one row per
// transition and one column per place, both in declaration order:
// C[t][p] = W(t->p) - W(p->t).
func Incidence(n *petrisim.Net) *mat.Dense {
	rows := len(n.Transitions)
	cols := len(n.Places)
	d := make([]float64, rows*cols)
	placeCol := make(map[string]int, cols)
	for j, p := range n.Places {
		placeCol[p.ID] = j
	}
	for i, t := range n.Transitions {
		for _, arc := range n.Outputs(t) {
			if p := arc.Place(); p != nil {
				d[i*cols+placeCol[p.ID]] += float64(arc.Weight)
			}
		}
		for _, arc := range n.Inputs(t) {
			if p := arc.Place(); p != nil {
				d[i*cols+placeCol[p.ID]] -= float64(arc.Weight)
			}
		}
	}
	return mat.NewDense(rows, cols, d)
}

// FiringVector returns the unit row vector selecting the transition's row
// of the incidence matrix.
func FiringVector(n *petrisim.Net, transitionID string) (*mat.Dense, error) {
	v := make([]float64, len(n.Transitions))
	found := false
	for i, t := range n.Transitions {
		if t.ID == transitionID {
			v[i] = 1
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("unknown transition %q", transitionID)
	}
	return mat.NewDense(1, len(n.Transitions), v), nil
}

func vector(n *petrisim.Net, m petrisim.Marking) *mat.Dense {
	v := make([]float64, len(n.Places))
	for j, p := range n.Places {
		v[j] = float64(m.Tokens(p.ID))
	}
	return mat.NewDense(1, len(n.Places), v)
}

// Audit verifies a recorded history against the net: every event must
// chain from its predecessor, satisfy the state equation
// after = before + f·C, agree with its own movement itemization, carry a
// step number exactly one above its predecessor's, and never leave a
// place negative. The first inconsistency is reported with its step.
func Audit(n *petrisim.Net, initial petrisim.Marking, events []*firing.Event) error {
	c := Incidence(n)
	cur := initial.Copy()
	for i, ev := range events {
		step := i + 1
		if ev.Step != step {
			return fmt.Errorf("step %d: event carries step number %d", step, ev.Step)
		}
		if !ev.Before.Equal(cur) {
			return fmt.Errorf("step %d: before-marking %s does not chain from %s", step, ev.Before, cur)
		}
		f, err := FiringVector(n, ev.TransitionID)
		if err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
		var delta mat.Dense
		delta.Mul(f, c)
		var want mat.Dense
		want.Add(vector(n, cur), &delta)
		for j, p := range n.Places {
			got := float64(ev.After.Tokens(p.ID))
			if got != want.At(0, j) {
				return fmt.Errorf("step %d: place %q holds %v tokens, state equation demands %v",
					step, p.ID, got, want.At(0, j))
			}
			if got < 0 {
				return fmt.Errorf("step %d: place %q driven negative", step, p.ID)
			}
		}
		folded, err := ev.Apply(cur)
		if err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
		if !folded.Equal(ev.After) {
			return fmt.Errorf("step %d: movements fold to %s but event records %s", step, folded, ev.After)
		}
		cur = folded
	}
	return nil
}
